package model

import (
	"time"

	"openlearn-backend/internal/domain"

	"github.com/google/uuid"
)

const (
	RoleMember     = "member"
	RoleSubscriber = "subscriber"
	RoleGrader     = "grader"
	RoleAdmin      = "admin"
)

// User is the per-learner account record. The streak counters, score
// accumulators and the subscription mirror fields are only ever mutated
// through the claim and subscription use cases.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	DisplayName   string
	Roles         []string
	StreakCount   int
	LongestStreak int
	LastClaimAt   *time.Time
	TotalScore    int
	SeasonalScore int
	TotalClaims   int

	// Mirror of the current subscription, denormalized for cheap reads.
	SubscriptionActive bool
	SubscriberUntil    *time.Time

	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewUser(id, email, displayName string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		Email:        email,
		DisplayName:  displayName,
		Roles:        []string{RoleMember},
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GrantRole adds role if absent; it is idempotent.
func (u *User) GrantRole(role string) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
	}
}

func (u *User) RevokeRole(role string) {
	out := u.Roles[:0]
	for _, r := range u.Roles {
		if r != role {
			out = append(out, r)
		}
	}
	u.Roles = out
}

// ClaimState extracts the streak-ledger view of the user.
func (u *User) ClaimState() ClaimState {
	return ClaimState{
		StreakCount:   u.StreakCount,
		LongestStreak: u.LongestStreak,
		LastClaimAt:   u.LastClaimAt,
		TotalScore:    u.TotalScore,
		SeasonalScore: u.SeasonalScore,
		TotalClaims:   u.TotalClaims,
	}
}

// ApplyClaimState writes a claim outcome back onto the user.
func (u *User) ApplyClaimState(s ClaimState) {
	u.StreakCount = s.StreakCount
	u.LongestStreak = s.LongestStreak
	u.LastClaimAt = s.LastClaimAt
	u.TotalScore = s.TotalScore
	u.SeasonalScore = s.SeasonalScore
	u.TotalClaims = s.TotalClaims
}
