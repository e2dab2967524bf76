package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	// ApplyPaidPeriod grants the billing window a successful payment buys.
	// It must run inside the caller's transaction so the payment state and
	// the subscription extension commit together.
	ApplyPaidPeriod(ctx context.Context, tx repository.Tx, userID, planID, orderID string, paidAt time.Time) (*model.Period, error)
	// MarkFailed records a definitive gateway failure. A subscription that
	// is already active keeps its period; only a pending one is failed.
	MarkFailed(ctx context.Context, tx repository.Tx, userID, orderID string) error
	Status(ctx context.Context, userID string) (*model.Subscription, error)
	Plans(ctx context.Context) ([]*model.SubscriptionPlan, error)
	// FinishExpired flips lapsed subscriptions and the users' mirror fields.
	// Returns how many users lost access. Called by the expiry worker.
	FinishExpired(ctx context.Context) (int, error)
}

type subscriptionUC struct {
	txm   repository.TransactionManager
	subs  repository.SubscriptionRepository
	plans repository.PlanRepository
	users repository.UserRepository
	// defaultDays covers plans stored without a duration.
	defaultDays int
	log         *zerolog.Logger
	now         func() time.Time
}

func NewSubscriptionUseCase(txm repository.TransactionManager, subs repository.SubscriptionRepository, plans repository.PlanRepository, users repository.UserRepository, defaultDays int, log *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{txm: txm, subs: subs, plans: plans, users: users, defaultDays: defaultDays, log: log, now: time.Now}
}

func (u *subscriptionUC) ApplyPaidPeriod(ctx context.Context, tx repository.Tx, userID, planID, orderID string, paidAt time.Time) (*model.Period, error) {
	plan, err := u.plans.FindByID(ctx, tx, planID)
	if err != nil {
		return nil, err
	}

	existing, err := u.subs.FindByUser(ctx, tx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	days := plan.DurationDays
	if days <= 0 {
		days = u.defaultDays
	}
	period := model.ExtendPeriod(paidAt, existing, days)

	sub := existing
	if sub == nil {
		sub = &model.Subscription{UserID: userID, CreatedAt: paidAt}
	}
	sub.PlanID = planID
	sub.Price = plan.PriceIDR
	sub.Status = model.SubscriptionStatusActive
	sub.CurrentPeriodStart = &period.Start
	sub.CurrentPeriodEnd = &period.End
	sub.LastPaymentAt = &paidAt
	sub.OrderID = orderID
	sub.UpdatedAt = paidAt
	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	user.GrantRole(model.RoleSubscriber)
	user.SubscriptionActive = true
	user.SubscriberUntil = &period.End
	user.Touch()
	if err := u.users.Save(ctx, tx, user); err != nil {
		return nil, err
	}

	u.log.Info().Str("user_id", userID).Str("plan_id", planID).
		Time("period_end", period.End).Msg("subscription period applied")
	return &period, nil
}

func (u *subscriptionUC) MarkFailed(ctx context.Context, tx repository.Tx, userID, orderID string) error {
	sub, err := u.subs.FindByUser(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	// An active subscription bought by an earlier order is untouched.
	if sub.Status != model.SubscriptionStatusPending {
		return nil
	}
	sub.Status = model.SubscriptionStatusFailed
	sub.OrderID = orderID
	sub.UpdatedAt = u.now()
	return u.subs.Save(ctx, tx, sub)
}

func (u *subscriptionUC) Status(ctx context.Context, userID string) (*model.Subscription, error) {
	return u.subs.FindByUser(ctx, repository.NoTX, userID)
}

func (u *subscriptionUC) Plans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	return u.plans.List(ctx, repository.NoTX)
}

func (u *subscriptionUC) FinishExpired(ctx context.Context) (int, error) {
	now := u.now().UTC()
	var lapsed []string

	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if _, err := u.subs.ExpireLapsed(ctx, tx, now); err != nil {
			return err
		}
		ids, err := u.users.DeactivateLapsedSubscribers(ctx, tx, now)
		if err != nil {
			return err
		}
		lapsed = ids
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(lapsed) > 0 {
		metrics.IncSubscriptionsExpired(len(lapsed))
		u.log.Info().Int("count", len(lapsed)).Msg("lapsed subscribers deactivated")
	}
	if counts, err := u.subs.CountByStatus(ctx, repository.NoTX); err == nil {
		metrics.SetSubscriptionsTotal(counts)
	}
	return len(lapsed), nil
}
