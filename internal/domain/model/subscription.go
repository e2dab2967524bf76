package model

import (
	"time"

	"openlearn-backend/internal/domain/clock"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusFailed    SubscriptionStatus = "failed"
)

// Subscription is the per-user billing record. Invariant: while status is
// active, CurrentPeriodEnd > CurrentPeriodStart.
type Subscription struct {
	UserID             string
	PlanID             string
	Price              int64 // smallest currency unit (IDR has no subunit)
	Status             SubscriptionStatus
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	LastPaymentAt      *time.Time
	OrderID            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s *Subscription) ActiveAt(now time.Time) bool {
	return s != nil &&
		s.Status == SubscriptionStatusActive &&
		s.CurrentPeriodEnd != nil &&
		s.CurrentPeriodEnd.After(now)
}

// Period is a computed billing window.
type Period struct {
	Start time.Time
	End   time.Time
}

// ExtendPeriod computes the billing window granted by a successful payment.
// Renewing before expiry chains: the new period starts where the old one
// ends so no paid time is lost. An absent, inactive or lapsed subscription
// restarts from now.
func ExtendPeriod(now time.Time, existing *Subscription, durationDays int) Period {
	d := time.Duration(durationDays) * 24 * time.Hour
	if !existing.ActiveAt(now) {
		return Period{Start: now, End: now.Add(d)}
	}
	return Period{Start: *existing.CurrentPeriodEnd, End: existing.CurrentPeriodEnd.Add(d)}
}

// SubscriptionPlan describes a purchasable plan.
type SubscriptionPlan struct {
	ID           string
	Name         string
	DurationDays int
	PriceIDR     int64
	CreatedAt    time.Time
}

// SeasonKey identifies the current leaderboard season (calendar month, UTC).
func SeasonKey(now time.Time) string {
	return clock.StartOfUTCDay(now).Format("2006-01")
}
