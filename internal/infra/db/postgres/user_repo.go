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

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userColumns = `id, email, password_hash, display_name, roles, streak_count, longest_streak,
  last_claim_at, total_score, seasonal_score, total_claims, subscription_active,
  subscriber_until, registered_at, last_active_at`

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, email, password_hash, display_name, roles, streak_count, longest_streak, last_claim_at,
  total_score, seasonal_score, total_claims, subscription_active, subscriber_until,
  registered_at, last_active_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
) ON CONFLICT (id) DO UPDATE SET
  email=$2, password_hash=$3, display_name=$4, roles=$5, streak_count=$6, longest_streak=$7,
  last_claim_at=$8, total_score=$9, seasonal_score=$10, total_claims=$11,
  subscription_active=$12, subscriber_until=$13, last_active_at=$15;`

	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Roles, u.StreakCount, u.LongestStreak,
		u.LastClaimAt, u.TotalScore, u.SeasonalScore, u.TotalClaims, u.SubscriptionActive,
		u.SubscriberUntil, u.RegisteredAt, u.LastActiveAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	return r.scanOne(ctx, tx, q, id)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	return r.scanOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepo) scanOne(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Roles, &u.StreakCount,
		&u.LongestStreak, &u.LastClaimAt, &u.TotalScore, &u.SeasonalScore, &u.TotalClaims,
		&u.SubscriptionActive, &u.SubscriberUntil, &u.RegisteredAt, &u.LastActiveAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY registered_at DESC OFFSET $1 LIMIT $2`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Roles, &u.StreakCount,
			&u.LongestStreak, &u.LastClaimAt, &u.TotalScore, &u.SeasonalScore, &u.TotalClaims,
			&u.SubscriptionActive, &u.SubscriberUntil, &u.RegisteredAt, &u.LastActiveAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *userRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *userRepo) TopByScore(ctx context.Context, tx repository.Tx, limit int, seasonal bool) ([]*model.LeaderboardEntry, error) {
	col := "total_score"
	if seasonal {
		col = "seasonal_score"
	}
	q := fmt.Sprintf(`SELECT id, display_name, %s FROM users WHERE %s > 0 ORDER BY %s DESC, id ASC LIMIT $1`, col, col, col)
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.LeaderboardEntry
	rank := 0
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Score); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		rank++
		e.Rank = rank
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *userRepo) ResetSeasonalScores(ctx context.Context, tx repository.Tx) (int, error) {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE users SET seasonal_score = 0 WHERE seasonal_score <> 0;`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *userRepo) DeactivateLapsedSubscribers(ctx context.Context, tx repository.Tx, now time.Time) ([]string, error) {
	const q = `
UPDATE users
   SET subscription_active = FALSE,
       roles = array_remove(roles, 'subscriber')
 WHERE subscription_active = TRUE
   AND subscriber_until IS NOT NULL
   AND subscriber_until <= $1
RETURNING id;`
	rows, err := queryRows(ctx, r.pool, tx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
