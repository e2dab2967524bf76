//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/usecase"
)

func TestStatsUseCase_Totals(t *testing.T) {
	ctx := context.Background()

	t.Run("counts users and subscriptions by status", func(t *testing.T) {
		u1, _ := model.NewUser("u1", "u1@example.com", "U1")
		u2, _ := model.NewUser("u2", "u2@example.com", "U2")
		u3, _ := model.NewUser("u3", "u3@example.com", "U3")
		users := NewMockUserRepo(u1, u2, u3)
		subs := NewMockSubscriptionRepo(
			&model.Subscription{UserID: "u1", Status: model.SubscriptionStatusActive},
			&model.Subscription{UserID: "u2", Status: model.SubscriptionStatusActive},
			&model.Subscription{UserID: "u3", Status: model.SubscriptionStatusExpired},
		)
		uc := usecase.NewStatsUseCase(users, subs, NewMockPaymentRepo(), testLogger())

		total, byStatus, err := uc.Totals(ctx)
		if err != nil {
			t.Fatalf("Totals() error = %v", err)
		}
		if total != 3 {
			t.Fatalf("users = %d, want 3", total)
		}
		if byStatus[model.SubscriptionStatusActive] != 2 || byStatus[model.SubscriptionStatusExpired] != 1 {
			t.Fatalf("byStatus = %v", byStatus)
		}
	})

	t.Run("user count failure is surfaced", func(t *testing.T) {
		boom := errors.New("users offline")
		users := NewMockUserRepo()
		users.CountUsersFunc = func(_ context.Context, _ repository.Tx) (int, error) {
			return 0, boom
		}
		uc := usecase.NewStatsUseCase(users, NewMockSubscriptionRepo(), NewMockPaymentRepo(), testLogger())

		if _, _, err := uc.Totals(ctx); !errors.Is(err, boom) {
			t.Fatalf("Totals() error = %v, want %v", err, boom)
		}
	})

	t.Run("status count failure is surfaced", func(t *testing.T) {
		boom := errors.New("subs offline")
		subs := NewMockSubscriptionRepo()
		subs.CountByStatusFunc = func(_ context.Context, _ repository.Tx) (map[model.SubscriptionStatus]int, error) {
			return nil, boom
		}
		uc := usecase.NewStatsUseCase(NewMockUserRepo(), subs, NewMockPaymentRepo(), testLogger())

		if _, _, err := uc.Totals(ctx); !errors.Is(err, boom) {
			t.Fatalf("Totals() error = %v, want %v", err, boom)
		}
	})
}

func TestStatsUseCase_Revenue(t *testing.T) {
	ctx := context.Background()

	t.Run("reports each window separately", func(t *testing.T) {
		payments := NewMockPaymentRepo()
		payments.SumByPeriodFunc = func(_ context.Context, _ repository.Tx, period string) (int64, error) {
			switch period {
			case "week":
				return 100_000, nil
			case "month":
				return 400_000, nil
			case "year":
				return 4_800_000, nil
			}
			return 0, errors.New("unexpected period " + period)
		}
		uc := usecase.NewStatsUseCase(NewMockUserRepo(), NewMockSubscriptionRepo(), payments, testLogger())

		week, month, year, err := uc.Revenue(ctx)
		if err != nil {
			t.Fatalf("Revenue() error = %v", err)
		}
		if week != 100_000 || month != 400_000 || year != 4_800_000 {
			t.Fatalf("Revenue() = %d/%d/%d", week, month, year)
		}
	})

	t.Run("sum failure is surfaced", func(t *testing.T) {
		boom := errors.New("payments offline")
		payments := NewMockPaymentRepo()
		payments.SumByPeriodFunc = func(_ context.Context, _ repository.Tx, period string) (int64, error) {
			if period == "month" {
				return 0, boom
			}
			return 50_000, nil
		}
		uc := usecase.NewStatsUseCase(NewMockUserRepo(), NewMockSubscriptionRepo(), payments, testLogger())

		if _, _, _, err := uc.Revenue(ctx); !errors.Is(err, boom) {
			t.Fatalf("Revenue() error = %v, want %v", err, boom)
		}
	})
}
