package redis

import (
	"context"
	"fmt"
)

const totalBoardKey = "leaderboard:total"

func seasonBoardKey(season string) string {
	return fmt.Sprintf("leaderboard:season:%s", season)
}

// RankedScore is one sorted-set entry read back from a board.
type RankedScore struct {
	UserID string
	Score  int
}

// Leaderboard mirrors user scores into Redis sorted sets so ranking reads
// skip Postgres. It is a cache: the usecase falls back to the users table
// when Redis is unavailable.
type Leaderboard struct {
	client Client
}

func NewLeaderboard(client Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// AddScore bumps both the all-time board and the season board.
func (l *Leaderboard) AddScore(ctx context.Context, userID, season string, delta int) error {
	if err := l.client.ZIncrBy(ctx, totalBoardKey, float64(delta), userID); err != nil {
		return err
	}
	return l.client.ZIncrBy(ctx, seasonBoardKey(season), float64(delta), userID)
}

// Top returns up to limit entries in descending score order.
func (l *Leaderboard) Top(ctx context.Context, season string, seasonal bool, limit int) ([]RankedScore, error) {
	key := totalBoardKey
	if seasonal {
		key = seasonBoardKey(season)
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, key, 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}
	out := make([]RankedScore, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, RankedScore{UserID: member, Score: int(z.Score)})
	}
	return out, nil
}

// Rank returns the zero-based position of a user, or -1 when absent.
func (l *Leaderboard) Rank(ctx context.Context, season string, seasonal bool, userID string) (int64, error) {
	key := totalBoardKey
	if seasonal {
		key = seasonBoardKey(season)
	}
	rank, err := l.client.ZRevRank(ctx, key, userID)
	if err != nil {
		if IsNil(err) {
			return -1, nil
		}
		return -1, err
	}
	return rank, nil
}

// DropSeason removes a season board after the seasonal reset.
func (l *Leaderboard) DropSeason(ctx context.Context, season string) error {
	return l.client.Del(ctx, seasonBoardKey(season))
}
