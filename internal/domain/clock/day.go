// Package clock holds the UTC calendar-day arithmetic shared by the streak
// engine and anything else that reasons about "today" vs "yesterday".
package clock

import "time"

// StartOfUTCDay truncates t to 00:00:00 UTC of its calendar date.
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NextUTCDay returns 00:00:00 UTC of the day after t.
func NextUTCDay(t time.Time) time.Time {
	return StartOfUTCDay(t).Add(24 * time.Hour)
}

// DayDiffUTC returns the signed number of whole calendar days between the
// UTC day of a and the UTC day of b. UTC has no DST transitions, so the
// difference between two day starts is always an exact multiple of 24h.
func DayDiffUTC(a, b time.Time) int {
	d := StartOfUTCDay(a).Sub(StartOfUTCDay(b))
	return int(d / (24 * time.Hour))
}
