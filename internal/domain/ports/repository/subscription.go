package repository

import (
	"context"
	"time"

	"openlearn-backend/internal/domain/model"
)

// SubscriptionRepository persists the one-per-user billing record.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.SubscriptionStatus]int, error)
	// ExpireLapsed flips active subscriptions whose period has ended to
	// expired; returns rows touched.
	ExpireLapsed(ctx context.Context, tx Tx, now time.Time) (int, error)
}

type PlanRepository interface {
	Save(ctx context.Context, tx Tx, p *model.SubscriptionPlan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SubscriptionPlan, error)
	List(ctx context.Context, tx Tx) ([]*model.SubscriptionPlan, error)
}
