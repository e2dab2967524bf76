package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct{ pool *pgxpool.Pool }

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (
  user_id, plan_id, price, status, current_period_start, current_period_end,
  last_payment_at, order_id, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (user_id) DO UPDATE SET
  plan_id=$2, price=$3, status=$4, current_period_start=$5, current_period_end=$6,
  last_payment_at=$7, order_id=$8, updated_at=$10;`

	_, err := execSQL(ctx, r.pool, tx, q,
		sub.UserID, sub.PlanID, sub.Price, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.LastPaymentAt, sub.OrderID, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	q := `
SELECT user_id, plan_id, price, status, current_period_start, current_period_end,
       last_payment_at, order_id, created_at, updated_at
  FROM subscriptions WHERE user_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	var s model.Subscription
	if err := row.Scan(&s.UserID, &s.PlanID, &s.Price, &s.Status, &s.CurrentPeriodStart,
		&s.CurrentPeriodEnd, &s.LastPaymentAt, &s.OrderID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SubscriptionStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM subscriptions GROUP BY status;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.SubscriptionStatus]int)
	for rows.Next() {
		var status model.SubscriptionStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *subscriptionRepo) ExpireLapsed(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `UPDATE subscriptions SET status='expired', updated_at=NOW()
WHERE status='active' AND current_period_end <= $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		return 0, fmt.Errorf("expire lapsed subscriptions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

var _ repository.PlanRepository = (*planRepo)(nil)

type planRepo struct{ pool *pgxpool.Pool }

func NewPlanRepo(pool *pgxpool.Pool) *planRepo {
	return &planRepo{pool: pool}
}

func (r *planRepo) Save(ctx context.Context, tx repository.Tx, p *model.SubscriptionPlan) error {
	const q = `
INSERT INTO plans (id, name, duration_days, price_idr, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET name=$2, duration_days=$3, price_idr=$4;`
	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.DurationDays, p.PriceIDR, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *planRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SubscriptionPlan, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT id, name, duration_days, price_idr, created_at FROM plans WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	var p model.SubscriptionPlan
	if err := row.Scan(&p.ID, &p.Name, &p.DurationDays, &p.PriceIDR, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *planRepo) List(ctx context.Context, tx repository.Tx) ([]*model.SubscriptionPlan, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT id, name, duration_days, price_idr, created_at FROM plans ORDER BY price_idr ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SubscriptionPlan
	for rows.Next() {
		var p model.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationDays, &p.PriceIDR, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
