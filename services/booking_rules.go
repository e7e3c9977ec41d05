package services

import (
	"math"
	"time"

	"court-reservation-system/models"
)

// SuggestionBuffer is the gap left between the latest conflicting booking
// and the suggested replacement slot.
const SuggestionBuffer = 30 * time.Minute

// CancelLeadTime is the minimum time before a booking's start at which it
// may still be cancelled or modified.
const CancelLeadTime = 24 * time.Hour

// Peak pricing window, fixed product rule.
const (
	PeakStart = models.TimeOfDay(17 * 60) // 17:00
	PeakEnd   = models.TimeOfDay(22 * 60) // 22:00
)

// Booking rejection reasons.
const (
	ReasonPastStart = "past"
	ReasonConflict  = "conflict"
)

// BookingDecision is the outcome of a conflict check. Rejection is a
// normal outcome, not an error; on a conflict it may carry a suggested
// alternative of the same duration.
type BookingDecision struct {
	Accepted   bool
	Reason     string
	Suggestion *models.TimeInterval
}

// ResolveBooking decides whether the requested interval can be booked
// against the existing confirmed intervals for the same court and date.
// It only authorizes; the caller persists on acceptance.
//
// The suggestion starts at the latest end among conflicting bookings plus
// SuggestionBuffer and keeps the requested duration. It is a single
// deterministic proposal and is NOT re-checked against other bookings;
// callers must run it through ResolveBooking again before committing.
func ResolveBooking(req models.TimeInterval, existing []models.TimeInterval, now time.Time) BookingDecision {
	if req.IsPast(now) {
		return BookingDecision{Reason: ReasonPastStart}
	}

	var latestEnd models.TimeOfDay
	conflict := false
	for _, e := range existing {
		if req.Overlaps(e) {
			conflict = true
			if e.End > latestEnd {
				latestEnd = e.End
			}
		}
	}
	if !conflict {
		return BookingDecision{Accepted: true}
	}

	start := latestEnd.Add(SuggestionBuffer)
	suggestion := models.TimeInterval{
		Date:  req.Date,
		Start: start,
		End:   start + (req.End - req.Start),
	}
	decision := BookingDecision{Reason: ReasonConflict}
	// A suggestion running past midnight is no suggestion at all.
	if suggestion.End <= models.TimeOfDay(24*60) {
		decision.Suggestion = &suggestion
	}
	return decision
}

// Recurrence cadences.
const (
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
)

// DefaultOccurrences is used when a recurrence request leaves the count unset.
const DefaultOccurrences = 4

// ExpandRecurrence produces the concrete dates of a recurring booking:
// the start date itself plus occurrences-1 advances of 7 days (weekly) or
// one calendar month (monthly). Monthly advances keep the start's
// day-of-month, clamped to the last day of shorter months.
func ExpandRecurrence(start time.Time, cadence string, occurrences int) []time.Time {
	if occurrences <= 0 {
		occurrences = DefaultOccurrences
	}
	dates := make([]time.Time, 0, occurrences)
	for i := 0; i < occurrences; i++ {
		switch cadence {
		case CadenceMonthly:
			dates = append(dates, addMonthsClamped(start, i))
		default: // weekly
			dates = append(dates, start.AddDate(0, 0, 7*i))
		}
	}
	return dates
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := daysInMonth(firstOfTarget); d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, -1).Day()
}

// Cancellation denial reasons.
const (
	CancelNotOwner         = "NotOwner"
	CancelAlreadyCancelled = "AlreadyCancelled"
	CancelTooLate          = "TooLateToCancel"
)

// CancelDecision is the outcome of the cancellation policy check.
type CancelDecision struct {
	Allowed bool
	Reason  string
}

// CanCancel enforces ownership, status, and the lead-time window. The
// window is measured against the booking's full start timestamp: a
// booking starting in 23h59m is too late, one starting in 24h01m is fine.
func CanCancel(b models.Booking, actorUserID string, now time.Time) CancelDecision {
	if b.UserID != actorUserID {
		return CancelDecision{Reason: CancelNotOwner}
	}
	if b.Status == models.BookingStatusCancelled {
		return CancelDecision{Reason: CancelAlreadyCancelled}
	}
	interval, err := b.Interval()
	if err != nil {
		return CancelDecision{Reason: CancelTooLate}
	}
	if interval.StartAt().Sub(now) < CancelLeadTime {
		return CancelDecision{Reason: CancelTooLate}
	}
	return CancelDecision{Allowed: true}
}

// BookingAmount computes the price of a booking from its court's rates.
// The peak rate applies when the booking starts inside the peak window;
// either rate falls back to PricePerHour when unset. Rounded to cents.
func BookingAmount(i models.TimeInterval, court models.Court) float64 {
	rate := court.OffPeakPrice
	if i.Start >= PeakStart && i.Start < PeakEnd {
		rate = court.PeakPrice
	}
	if rate == 0 {
		rate = court.PricePerHour
	}
	return math.Round(i.DurationHours()*rate*100) / 100
}
