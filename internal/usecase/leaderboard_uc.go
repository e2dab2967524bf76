package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/redis"
)

// Compile-time check
var _ LeaderboardUseCase = (*leaderboardUC)(nil)

type LeaderboardUseCase interface {
	// Top returns the ranking, seasonal or all-time. Redis serves the hot
	// path; Postgres stays the source of truth and the fallback.
	Top(ctx context.Context, seasonal bool, limit int) ([]*model.LeaderboardEntry, error)
	// ResetSeason zeroes every seasonal accumulator and drops the season
	// board. Called by the season worker at month rollover.
	ResetSeason(ctx context.Context, endedSeason string) (int, error)
}

type leaderboardUC struct {
	txm   repository.TransactionManager
	users repository.UserRepository
	board *redis.Leaderboard
	log   *zerolog.Logger
	now   func() time.Time
}

func NewLeaderboardUseCase(txm repository.TransactionManager, users repository.UserRepository, board *redis.Leaderboard, log *zerolog.Logger) *leaderboardUC {
	return &leaderboardUC{txm: txm, users: users, board: board, log: log, now: time.Now}
}

const maxBoardSize = 100

func (u *leaderboardUC) Top(ctx context.Context, seasonal bool, limit int) ([]*model.LeaderboardEntry, error) {
	if limit <= 0 || limit > maxBoardSize {
		limit = maxBoardSize
	}

	if u.board != nil {
		entries, err := u.fromRedis(ctx, seasonal, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			u.log.Warn().Err(err).Msg("leaderboard redis read failed, falling back to postgres")
		}
	}
	return u.users.TopByScore(ctx, repository.NoTX, limit, seasonal)
}

func (u *leaderboardUC) fromRedis(ctx context.Context, seasonal bool, limit int) ([]*model.LeaderboardEntry, error) {
	season := model.SeasonKey(u.now().UTC())
	ranked, err := u.board.Top(ctx, season, seasonal, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*model.LeaderboardEntry, 0, len(ranked))
	for i, r := range ranked {
		entry := &model.LeaderboardEntry{UserID: r.UserID, Score: r.Score, Rank: i + 1}
		if user, err := u.users.FindByID(ctx, repository.NoTX, r.UserID); err == nil {
			entry.DisplayName = user.DisplayName
		}
		out = append(out, entry)
	}
	return out, nil
}

func (u *leaderboardUC) ResetSeason(ctx context.Context, endedSeason string) (int, error) {
	var touched int
	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		n, err := u.users.ResetSeasonalScores(ctx, tx)
		if err != nil {
			return err
		}
		touched = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if u.board != nil {
		if err := u.board.DropSeason(ctx, endedSeason); err != nil {
			u.log.Warn().Err(err).Str("season", endedSeason).Msg("season board drop failed")
		}
	}
	u.log.Info().Str("season", endedSeason).Int("users", touched).Msg("seasonal scores reset")
	return touched, nil
}
