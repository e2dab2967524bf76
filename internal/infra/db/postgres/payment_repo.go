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

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, user_id, plan_id, course_id, provider, order_id, amount, status,
  payment_type, fraud_status, snap_token, redirect_url, created_at, updated_at, paid_at`

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, plan_id, course_id, provider, order_id, amount, status,
  payment_type, fraud_status, snap_token, redirect_url, created_at, updated_at, paid_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
) ON CONFLICT (id) DO UPDATE SET
  status=$8, payment_type=$9, fraud_status=$10, snap_token=$11, redirect_url=$12,
  updated_at=$14, paid_at=$15;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.UserID, p.PlanID, p.CourseID, p.Provider, p.OrderID, p.Amount, p.Status,
		p.PaymentType, p.FraudStatus, p.SnapToken, p.RedirectURL, p.CreatedAt, p.UpdatedAt, p.PaidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	return r.scanOne(ctx, tx, q, id)
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	return r.scanOne(ctx, tx, q, orderID)
}

func (r *paymentRepo) scanOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.Payment, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	var p model.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.CourseID, &p.Provider, &p.OrderID,
		&p.Amount, &p.Status, &p.PaymentType, &p.FraudStatus, &p.SnapToken, &p.RedirectURL,
		&p.CreatedAt, &p.UpdatedAt, &p.PaidAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &p, nil
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, paidAt *time.Time) error {
	const q = `UPDATE payments SET status=$2, paid_at=COALESCE($3, paid_at), updated_at=NOW() WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, status, paidAt)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

func (r *paymentRepo) SumByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM payments WHERE status='succeeded' AND paid_at >= DATE_TRUNC($1, NOW());`
	row, err := pickRow(ctx, r.pool, tx, q, period)
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := row.Scan(&sum); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

var _ repository.PurchaseRequestRepository = (*purchaseRequestRepo)(nil)

type purchaseRequestRepo struct{ pool *pgxpool.Pool }

func NewPurchaseRequestRepo(pool *pgxpool.Pool) *purchaseRequestRepo {
	return &purchaseRequestRepo{pool: pool}
}

const purchaseColumns = `id, user_id, kind, plan_id, course_id, amount, proof_url, status, note,
  created_at, reviewed_at, reviewed_by`

func (r *purchaseRequestRepo) Save(ctx context.Context, tx repository.Tx, pr *model.PurchaseRequest) error {
	const q = `
INSERT INTO purchase_requests (
  id, user_id, kind, plan_id, course_id, amount, proof_url, status, note,
  created_at, reviewed_at, reviewed_by
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
) ON CONFLICT (id) DO UPDATE SET
  status=$8, note=$9, reviewed_at=$11, reviewed_by=$12;`

	_, err := execSQL(ctx, r.pool, tx, q,
		pr.ID, pr.UserID, pr.Kind, pr.PlanID, pr.CourseID, pr.Amount, pr.ProofURL, pr.Status,
		pr.Note, pr.CreatedAt, pr.ReviewedAt, pr.ReviewedBy)
	if err != nil {
		return fmt.Errorf("save purchase request: %w", err)
	}
	return nil
}

func (r *purchaseRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PurchaseRequest, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPurchase(row)
}

func (r *purchaseRequestRepo) ListPending(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.PurchaseRequest, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE status='pending' ORDER BY created_at ASC OFFSET $1 LIMIT $2`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func (r *purchaseRequestRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.PurchaseRequest, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchase_requests WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func scanPurchase(row pgx.Row) (*model.PurchaseRequest, error) {
	var pr model.PurchaseRequest
	if err := row.Scan(&pr.ID, &pr.UserID, &pr.Kind, &pr.PlanID, &pr.CourseID, &pr.Amount,
		&pr.ProofURL, &pr.Status, &pr.Note, &pr.CreatedAt, &pr.ReviewedAt, &pr.ReviewedBy); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &pr, nil
}

func scanPurchases(rows pgx.Rows) ([]*model.PurchaseRequest, error) {
	var out []*model.PurchaseRequest
	for rows.Next() {
		pr, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
