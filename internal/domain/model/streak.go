package model

import (
	"time"

	"openlearn-backend/internal/domain/clock"
)

// RewardPolicy holds the tunable claim-reward parameters. The defaults give
// a reward range of 6..15 points per claim.
type RewardPolicy struct {
	BasePoints     int // flat points per successful claim
	StreakBonusCap int // streak bonus is min(streak, cap)
}

func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{BasePoints: 5, StreakBonusCap: 10}
}

// ClaimState is the streak-ledger slice of a user record.
type ClaimState struct {
	StreakCount   int
	LongestStreak int
	LastClaimAt   *time.Time
	TotalScore    int
	SeasonalScore int
	TotalClaims   int
}

// ClaimResult is the outcome of a claim attempt. When AlreadyClaimed is set
// the state is returned unchanged and Reward is zero.
type ClaimResult struct {
	AlreadyClaimed  bool
	State           ClaimState
	Reward          int
	NextAvailableAt time.Time
}

// Claim decides a daily streak claim. It is pure: persistence and the
// commit-time guard re-check belong to the caller. One claim is allowed per
// UTC calendar day; "yesterday" means the previous calendar date, not a
// rolling 24h window.
func (p RewardPolicy) Claim(now time.Time, s ClaimState) ClaimResult {
	next := clock.NextUTCDay(now)

	if s.LastClaimAt != nil && clock.DayDiffUTC(now, *s.LastClaimAt) == 0 {
		return ClaimResult{
			AlreadyClaimed:  true,
			State:           s,
			Reward:          0,
			NextAvailableAt: next,
		}
	}

	newStreak := 1
	if s.LastClaimAt != nil && clock.DayDiffUTC(now, *s.LastClaimAt) == 1 {
		newStreak = s.StreakCount + 1
	}

	bonus := newStreak
	if bonus > p.StreakBonusCap {
		bonus = p.StreakBonusCap
	}
	reward := p.BasePoints + bonus

	claimAt := now
	out := ClaimState{
		StreakCount:   newStreak,
		LongestStreak: s.LongestStreak,
		LastClaimAt:   &claimAt,
		TotalScore:    s.TotalScore + reward,
		SeasonalScore: s.SeasonalScore + reward,
		TotalClaims:   s.TotalClaims + 1,
	}
	if newStreak > out.LongestStreak {
		out.LongestStreak = newStreak
	}

	return ClaimResult{
		State:           out,
		Reward:          reward,
		NextAvailableAt: next,
	}
}
