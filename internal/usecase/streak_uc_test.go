//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	redisinfra "openlearn-backend/internal/infra/redis"
	"openlearn-backend/internal/usecase"
)

func TestStreakUseCase_Claim(t *testing.T) {
	ctx := context.Background()
	policy := model.DefaultRewardPolicy()

	t.Run("first claim grants base plus streak bonus", func(t *testing.T) {
		user, _ := model.NewUser("u1", "u1@example.com", "U1")
		users := NewMockUserRepo(user)
		tm := &MockTxManager{}
		uc := usecase.NewStreakUseCase(tm, users, nil, nil, policy, testLogger())

		res, err := uc.Claim(ctx, "u1")
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.AlreadyClaimed {
			t.Fatal("first claim flagged as duplicate")
		}
		if res.Reward != 6 {
			t.Fatalf("Reward = %d, want 6", res.Reward)
		}
		if res.State.StreakCount != 1 {
			t.Fatalf("StreakCount = %d, want 1", res.State.StreakCount)
		}

		saved := users.Users["u1"]
		if saved.TotalScore != 6 || saved.TotalClaims != 1 {
			t.Fatalf("persisted state = score %d claims %d, want 6/1", saved.TotalScore, saved.TotalClaims)
		}
		if len(tm.Locked) != 1 || tm.Locked[0] != "u1" {
			t.Fatalf("expected one advisory lock on u1, got %v", tm.Locked)
		}
	})

	t.Run("second claim on the same day is a no-op", func(t *testing.T) {
		user, _ := model.NewUser("u1", "u1@example.com", "U1")
		users := NewMockUserRepo(user)
		uc := usecase.NewStreakUseCase(&MockTxManager{}, users, nil, nil, policy, testLogger())

		if _, err := uc.Claim(ctx, "u1"); err != nil {
			t.Fatalf("first Claim() error = %v", err)
		}
		saves := users.SaveCalls

		res, err := uc.Claim(ctx, "u1")
		if err != nil {
			t.Fatalf("second Claim() error = %v", err)
		}
		if !res.AlreadyClaimed {
			t.Fatal("second same-day claim not flagged as duplicate")
		}
		if res.Reward != 0 {
			t.Fatalf("duplicate Reward = %d, want 0", res.Reward)
		}
		if users.SaveCalls != saves {
			t.Fatal("duplicate claim wrote the user row")
		}
		if users.Users["u1"].TotalScore != 6 {
			t.Fatalf("score changed on duplicate: %d", users.Users["u1"].TotalScore)
		}
	})

	t.Run("next available is the start of the next UTC day", func(t *testing.T) {
		user, _ := model.NewUser("u1", "u1@example.com", "U1")
		uc := usecase.NewStreakUseCase(&MockTxManager{}, NewMockUserRepo(user), nil, nil, policy, testLogger())

		res, err := uc.Claim(ctx, "u1")
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		next := res.NextAvailableAt
		if next.Hour() != 0 || next.Minute() != 0 || next.Second() != 0 {
			t.Fatalf("NextAvailableAt = %v, want a UTC midnight", next)
		}
		if !next.After(time.Now().UTC()) {
			t.Fatalf("NextAvailableAt = %v is not in the future", next)
		}
	})

	t.Run("unknown user surfaces ErrNotFound", func(t *testing.T) {
		uc := usecase.NewStreakUseCase(&MockTxManager{}, NewMockUserRepo(), nil, nil, policy, testLogger())

		if _, err := uc.Claim(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Claim() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("transaction failure aborts the claim", func(t *testing.T) {
		user, _ := model.NewUser("u1", "u1@example.com", "U1")
		boom := errors.New("db down")
		uc := usecase.NewStreakUseCase(&MockTxManager{WithTxErr: boom}, NewMockUserRepo(user), nil, nil, policy, testLogger())

		if _, err := uc.Claim(ctx, "u1"); !errors.Is(err, boom) {
			t.Fatalf("Claim() error = %v, want %v", err, boom)
		}
	})

	t.Run("hammering the endpoint trips the rate limit", func(t *testing.T) {
		user, _ := model.NewUser("u1", "u1@example.com", "U1")
		other, _ := model.NewUser("u2", "u2@example.com", "U2")
		limiter := redisinfra.NewRateLimiter(NewFakeRedis())
		uc := usecase.NewStreakUseCase(&MockTxManager{}, NewMockUserRepo(user, other), nil, limiter, policy, testLogger())

		for i := 0; i < 10; i++ {
			if _, err := uc.Claim(ctx, "u1"); err != nil {
				t.Fatalf("Claim() #%d error = %v", i+1, err)
			}
		}
		if _, err := uc.Claim(ctx, "u1"); !errors.Is(err, domain.ErrRateLimited) {
			t.Fatalf("11th Claim() error = %v, want ErrRateLimited", err)
		}
		if _, err := uc.Claim(ctx, "u2"); err != nil {
			t.Fatalf("other user blocked by u1's quota: %v", err)
		}
	})

	t.Run("limiter outage does not block claims", func(t *testing.T) {
		user, _ := model.NewUser("u1", "u1@example.com", "U1")
		fake := NewFakeRedis()
		fake.Err = errors.New("connection refused")
		uc := usecase.NewStreakUseCase(&MockTxManager{}, NewMockUserRepo(user), nil, redisinfra.NewRateLimiter(fake), policy, testLogger())

		res, err := uc.Claim(ctx, "u1")
		if err != nil {
			t.Fatalf("Claim() error = %v", err)
		}
		if res.AlreadyClaimed {
			t.Fatal("first claim flagged as duplicate")
		}
	})
}
