package adapter

import "context"

// Message is one turn of an assistant conversation.
type Message struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// AssistantAdapter abstracts the LLM provider behind the course assistant.
type AssistantAdapter interface {
	Name() string
	Chat(ctx context.Context, messages []Message) (string, error)
}
