package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/logging"
	"openlearn-backend/internal/infra/metrics"
	"openlearn-backend/internal/infra/redis"
)

// Compile-time check
var _ StreakUseCase = (*streakUC)(nil)

// StreakUseCase is the single entry point for daily claims. Every caller,
// the public API and any admin path alike, goes through Claim so the
// one-per-UTC-day guard is evaluated in exactly one place.
type StreakUseCase interface {
	Claim(ctx context.Context, userID string) (*model.ClaimResult, error)
}

type streakUC struct {
	txm     repository.TransactionManager
	users   repository.UserRepository
	board   *redis.Leaderboard
	limiter *redis.RateLimiter
	policy  model.RewardPolicy
	log     *zerolog.Logger
	now     func() time.Time
}

// The day-guard already makes duplicate claims harmless; the limiter only
// caps how hard one user can hammer the endpoint inside a window.
const (
	claimRateLimit  = 10
	claimRateWindow = time.Minute
)

func NewStreakUseCase(txm repository.TransactionManager, users repository.UserRepository, board *redis.Leaderboard, limiter *redis.RateLimiter, policy model.RewardPolicy, log *zerolog.Logger) *streakUC {
	return &streakUC{
		txm:     txm,
		users:   users,
		board:   board,
		limiter: limiter,
		policy:  policy,
		log:     log,
		now:     time.Now,
	}
}

// Claim runs the read-guard-compute-write cycle for one daily claim. The
// user row is re-read under a per-user advisory lock inside a serializable
// transaction, so a racing duplicate sees the committed last_claim_at and
// resolves to AlreadyClaimed instead of double-crediting.
func (u *streakUC) Claim(ctx context.Context, userID string) (*model.ClaimResult, error) {
	defer logging.TraceDuration(u.log, "StreakUC.Claim")()

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, redis.UserActionKey(userID, "claim"), claimRateLimit, claimRateWindow)
		if err != nil {
			u.log.Warn().Err(err).Msg("claim rate limit check failed")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	now := u.now().UTC()
	var result model.ClaimResult

	err := u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.txm.LockUser(ctx, tx, userID); err != nil {
			return err
		}
		user, err := u.users.FindByID(ctx, tx, userID)
		if err != nil {
			return err
		}

		result = u.policy.Claim(now, user.ClaimState())
		if result.AlreadyClaimed {
			return nil
		}

		user.ApplyClaimState(result.State)
		user.Touch()
		return u.users.Save(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyClaimed {
		metrics.IncClaimDuplicate()
		return &result, nil
	}

	metrics.IncClaimGranted(result.Reward, result.State.StreakCount)
	if u.board != nil {
		if err := u.board.AddScore(ctx, userID, model.SeasonKey(now), result.Reward); err != nil {
			u.log.Warn().Err(err).Str("user_id", userID).Msg("leaderboard score push failed")
		}
	}
	return &result, nil
}
