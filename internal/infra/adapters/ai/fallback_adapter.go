package ai

import (
	"context"
	"strings"

	"openlearn-backend/internal/domain/ports/adapter"
)

var _ adapter.AssistantAdapter = (*FallbackAdapter)(nil)

// FallbackAdapter answers with canned guidance when no AI provider is
// configured or the configured one is down. Replies never fail.
type FallbackAdapter struct{}

func NewFallbackAdapter() *FallbackAdapter { return &FallbackAdapter{} }

func (a *FallbackAdapter) Name() string { return "fallback" }

func (a *FallbackAdapter) Chat(ctx context.Context, messages []adapter.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var question string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			question = messages[i].Content
			break
		}
	}
	switch {
	case question == "":
		return "Ask me anything about the course material and I will do my best to point you to the right chapter.", nil
	case strings.Contains(strings.ToLower(question), "certificate"):
		return "Certificates are issued automatically once you complete every chapter of a course. Check your profile page for issued certificates.", nil
	case strings.Contains(strings.ToLower(question), "streak"):
		return "Claim your daily reward once per UTC day to keep your streak going. Missing a day resets the streak to 1.", nil
	default:
		return "The assistant is temporarily unavailable. Try the course forum, where mentors and other students can help.", nil
	}
}
