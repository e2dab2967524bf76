package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/ports/adapter"
	"openlearn-backend/internal/infra/logging"
	"openlearn-backend/internal/infra/metrics"
	"openlearn-backend/internal/infra/redis"
)

// Compile-time check
var _ AssistantUseCase = (*assistantUC)(nil)

type AssistantUseCase interface {
	// Ask answers a course question. The primary provider failing falls
	// through to the canned fallback instead of surfacing an error.
	Ask(ctx context.Context, userID, question string, history []adapter.Message) (string, error)
}

type assistantUC struct {
	primary      adapter.AssistantAdapter
	fallback     adapter.AssistantAdapter
	limiter      *redis.RateLimiter
	cache        *redis.AnswerCache
	systemPrompt string
	log          *zerolog.Logger
}

const (
	assistantRateLimit  = 20
	assistantRateWindow = time.Hour
)

func NewAssistantUseCase(primary, fallback adapter.AssistantAdapter, limiter *redis.RateLimiter, cache *redis.AnswerCache, systemPrompt string, log *zerolog.Logger) *assistantUC {
	return &assistantUC{
		primary:      primary,
		fallback:     fallback,
		limiter:      limiter,
		cache:        cache,
		systemPrompt: systemPrompt,
		log:          log,
	}
}

func (u *assistantUC) Ask(ctx context.Context, userID, question string, history []adapter.Message) (string, error) {
	defer logging.TraceDuration(u.log, "AssistantUC.Ask")()

	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrInvalidArgument
	}

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, redis.UserActionKey(userID, "assistant"), assistantRateLimit, assistantRateWindow)
		if err != nil {
			u.log.Warn().Err(err).Msg("assistant rate limit check failed")
		} else if !ok {
			metrics.IncAssistantCall("rate_limited")
			return "", domain.ErrRateLimited
		}
	}

	// Only context-free questions are cacheable; history changes the answer.
	cacheable := u.cache != nil && len(history) == 0
	if cacheable {
		if reply, err := u.cache.Get(ctx, question); err != nil {
			u.log.Warn().Err(err).Msg("assistant cache read failed")
		} else if reply != "" {
			metrics.IncAssistantCall("cached")
			return reply, nil
		}
	}

	msgs := make([]adapter.Message, 0, len(history)+2)
	if u.systemPrompt != "" {
		msgs = append(msgs, adapter.Message{Role: "system", Content: u.systemPrompt})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, adapter.Message{Role: "user", Content: question})

	if u.primary != nil {
		reply, err := u.primary.Chat(ctx, msgs)
		if err == nil {
			metrics.IncAssistantCall("ok")
			if cacheable {
				if err := u.cache.Store(ctx, question, reply); err != nil {
					u.log.Warn().Err(err).Msg("assistant cache write failed")
				}
			}
			return reply, nil
		}
		u.log.Warn().Err(err).Str("provider", u.primary.Name()).Msg("assistant provider failed, using fallback")
	}

	reply, err := u.fallback.Chat(ctx, msgs)
	if err != nil {
		metrics.IncAssistantCall("error")
		return "", err
	}
	metrics.IncAssistantCall("fallback")
	return reply, nil
}
