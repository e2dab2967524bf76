package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/usecase"
)

// SeasonWorker watches for the leaderboard season rolling over and resets
// seasonal scores once per new season. The check interval just bounds how
// late after midnight UTC on the 1st the reset can land.
type SeasonWorker struct {
	interval time.Duration
	boardUC  usecase.LeaderboardUseCase
	now      func() time.Time
	current  string
	log      *zerolog.Logger
}

func NewSeasonWorker(interval time.Duration, boardUC usecase.LeaderboardUseCase, logger *zerolog.Logger) *SeasonWorker {
	seasonLog := logger.With().Str("component", "SeasonWorker").Logger()
	return &SeasonWorker{
		interval: interval,
		boardUC:  boardUC,
		now:      time.Now,
		log:      &seasonLog,
	}
}

func (w *SeasonWorker) Run(ctx context.Context) error {
	w.current = model.SeasonKey(w.now())
	w.log.Info().Str("season", w.current).Msg("Starting season worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping season worker")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SeasonWorker) tick(ctx context.Context) {
	season := model.SeasonKey(w.now())
	if season == w.current {
		return
	}
	ended := w.current
	n, err := w.boardUC.ResetSeason(ctx, ended)
	if err != nil {
		// Keep the old marker so the next tick retries the reset.
		w.log.Error().Err(err).Str("season", ended).Msg("season reset failed")
		return
	}
	w.current = season
	w.log.Info().Str("ended", ended).Str("season", season).Int("users", n).Msg("season reset")
}
