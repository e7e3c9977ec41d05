package models

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time within a day, stored as minutes since midnight.
// Bookings carry times as "HH:MM" strings on the wire and in the DB.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (also accepts "HH:MM:SS", seconds ignored).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time %q (use HH:MM)", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns the time shifted by d, without wrapping past midnight.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// TimeInterval is a half-open [Start, End) range on a single calendar date.
// Invariant: Start < End. Date is a midnight timestamp; the time-of-day
// portion of Date is ignored by all operations.
type TimeInterval struct {
	Date  time.Time `json:"date"`
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

func (i TimeInterval) Valid() bool {
	return i.Start < i.End
}

// Overlaps reports whether two intervals share any time. Intervals on
// different dates never overlap; touching endpoints (one ending exactly
// where the other starts) do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	if !SameDate(i.Date, other.Date) {
		return false
	}
	return i.Start < other.End && other.Start < i.End
}

// DurationHours returns the interval length in (possibly fractional) hours.
func (i TimeInterval) DurationHours() float64 {
	return float64(i.End-i.Start) / 60.0
}

// StartAt combines the date and start time into a full timestamp.
func (i TimeInterval) StartAt() time.Time {
	d := i.Date
	return time.Date(d.Year(), d.Month(), d.Day(), int(i.Start)/60, int(i.Start)%60, 0, 0, d.Location())
}

// IsPast reports whether the interval's start has already passed.
func (i TimeInterval) IsPast(now time.Time) bool {
	return i.StartAt().Before(now)
}

// SameDate compares two timestamps by calendar date only.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
