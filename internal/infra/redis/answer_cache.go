package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	redisv8 "github.com/go-redis/redis/v8"
)

// AnswerCache memoizes assistant replies to context-free questions so
// repeated questions skip the provider round trip.
type AnswerCache struct {
	client Client
	ttl    time.Duration
}

func NewAnswerCache(client Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		client: client,
		ttl:    ttl,
	}
}

func answerKey(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return "assistant:answer:" + hex.EncodeToString(sum[:])
}

func (c *AnswerCache) Store(ctx context.Context, question, reply string) error {
	return c.client.Set(ctx, answerKey(question), reply, c.ttl)
}

// Get returns ("", nil) on a miss.
func (c *AnswerCache) Get(ctx context.Context, question string) (string, error) {
	reply, err := c.client.Get(ctx, answerKey(question))
	if err == redisv8.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}
