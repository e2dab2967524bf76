package repository

import (
	"context"
	"time"

	"openlearn-backend/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)

	// TopByScore returns the ranking source of truth. Seasonal selects the
	// seasonal accumulator instead of the all-time one.
	TopByScore(ctx context.Context, tx Tx, limit int, seasonal bool) ([]*model.LeaderboardEntry, error)
	// ResetSeasonalScores zeroes every seasonal accumulator; returns rows touched.
	ResetSeasonalScores(ctx context.Context, tx Tx) (int, error)
	// DeactivateLapsedSubscribers flips the subscription mirror off for users
	// whose subscriber_until has passed; returns the affected user ids.
	DeactivateLapsedSubscribers(ctx context.Context, tx Tx, now time.Time) ([]string, error)
}
