package services

import (
	"testing"
	"time"

	"court-reservation-system/models"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func mustTime(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	tod, err := models.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return tod
}

func interval(t *testing.T, d time.Time, start, end string) models.TimeInterval {
	t.Helper()
	return models.TimeInterval{Date: d, Start: mustTime(t, start), End: mustTime(t, end)}
}

func TestResolveBookingAcceptsFreeSlot(t *testing.T) {
	d := date(2026, 9, 10)
	now := date(2026, 9, 1)
	existing := []models.TimeInterval{interval(t, d, "09:00", "10:00")}

	// touching boundary is not a conflict
	decision := ResolveBooking(interval(t, d, "10:00", "11:00"), existing, now)
	if !decision.Accepted {
		t.Fatalf("expected acceptance, got reason %q", decision.Reason)
	}
}

func TestResolveBookingSuggestion(t *testing.T) {
	d := date(2026, 9, 10)
	now := date(2026, 9, 1)
	existing := []models.TimeInterval{interval(t, d, "09:00", "10:00")}

	decision := ResolveBooking(interval(t, d, "09:30", "10:30"), existing, now)
	if decision.Accepted {
		t.Fatal("expected conflict rejection")
	}
	if decision.Reason != ReasonConflict {
		t.Fatalf("reason = %q, want %q", decision.Reason, ReasonConflict)
	}
	if decision.Suggestion == nil {
		t.Fatal("expected a suggestion")
	}
	// latest conflicting end 10:00 + 30min buffer, same 1h duration
	if got := decision.Suggestion.Start.String(); got != "10:30" {
		t.Errorf("suggested start = %s, want 10:30", got)
	}
	if got := decision.Suggestion.End.String(); got != "11:30" {
		t.Errorf("suggested end = %s, want 11:30", got)
	}
}

func TestResolveBookingSuggestionUsesLatestConflictEnd(t *testing.T) {
	d := date(2026, 9, 10)
	now := date(2026, 9, 1)
	existing := []models.TimeInterval{
		interval(t, d, "09:00", "10:00"),
		interval(t, d, "10:00", "12:00"),
		interval(t, d, "14:00", "15:00"), // not conflicting, must not matter
	}

	decision := ResolveBooking(interval(t, d, "09:30", "11:30"), existing, now)
	if decision.Suggestion == nil {
		t.Fatal("expected a suggestion")
	}
	if got := decision.Suggestion.Start.String(); got != "12:30" {
		t.Errorf("suggested start = %s, want 12:30", got)
	}
	if got := decision.Suggestion.End.String(); got != "14:30" {
		t.Errorf("suggested end = %s, want 14:30", got)
	}
}

func TestResolveBookingRejectsPast(t *testing.T) {
	d := date(2026, 9, 10)
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	decision := ResolveBooking(interval(t, d, "09:00", "10:00"), nil, now)
	if decision.Accepted || decision.Reason != ReasonPastStart {
		t.Fatalf("expected past rejection, got %+v", decision)
	}
}

func TestResolveBookingNoSuggestionPastMidnight(t *testing.T) {
	d := date(2026, 9, 10)
	now := date(2026, 9, 1)
	existing := []models.TimeInterval{interval(t, d, "21:00", "23:00")}

	decision := ResolveBooking(interval(t, d, "21:00", "23:00"), existing, now)
	if decision.Accepted {
		t.Fatal("expected rejection")
	}
	// 23:00 + 30min + 2h duration would run past midnight
	if decision.Suggestion != nil {
		t.Errorf("expected no suggestion, got %s-%s", decision.Suggestion.Start, decision.Suggestion.End)
	}
}

func TestExpandRecurrenceWeekly(t *testing.T) {
	dates := ExpandRecurrence(date(2026, 9, 1), CadenceWeekly, 4)
	want := []time.Time{date(2026, 9, 1), date(2026, 9, 8), date(2026, 9, 15), date(2026, 9, 22)}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestExpandRecurrenceMonthlyClamping(t *testing.T) {
	// Jan 31 has no counterpart in Feb or Apr; clamp to month end,
	// but later months with 31 days keep the original day.
	dates := ExpandRecurrence(date(2026, 1, 31), CadenceMonthly, 4)
	want := []time.Time{date(2026, 1, 31), date(2026, 2, 28), date(2026, 3, 31), date(2026, 4, 30)}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestExpandRecurrenceDefaultOccurrences(t *testing.T) {
	if got := len(ExpandRecurrence(date(2026, 9, 1), CadenceWeekly, 0)); got != DefaultOccurrences {
		t.Errorf("got %d dates, want default %d", got, DefaultOccurrences)
	}
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	base := models.Booking{
		UserID:    "user-1",
		CourtID:   "court-1",
		Date:      date(2026, 9, 12),
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    models.BookingStatusConfirmed,
	}

	tests := []struct {
		name    string
		mutate  func(*models.Booking)
		actor   string
		allowed bool
		reason  string
	}{
		{
			name:    "owner well before window",
			actor:   "user-1",
			allowed: true,
		},
		{
			name:   "not the owner",
			actor:  "user-2",
			reason: CancelNotOwner,
		},
		{
			name:   "already cancelled",
			mutate: func(b *models.Booking) { b.Status = models.BookingStatusCancelled },
			actor:  "user-1",
			reason: CancelAlreadyCancelled,
		},
		{
			name: "23h59m before start is too late",
			mutate: func(b *models.Booking) {
				b.Date = date(2026, 9, 11)
				b.StartTime = "09:59"
			},
			actor:  "user-1",
			reason: CancelTooLate,
		},
		{
			name: "24h01m before start is allowed",
			mutate: func(b *models.Booking) {
				b.Date = date(2026, 9, 11)
				b.StartTime = "10:01"
			},
			actor:   "user-1",
			allowed: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			if tt.mutate != nil {
				tt.mutate(&b)
			}
			got := CanCancel(b, tt.actor, now)
			if got.Allowed != tt.allowed {
				t.Fatalf("Allowed = %v, want %v (reason %q)", got.Allowed, tt.allowed, got.Reason)
			}
			if !tt.allowed && got.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.reason)
			}
		})
	}
}

func TestBookingAmount(t *testing.T) {
	court := models.Court{PricePerHour: 10, PeakPrice: 20, OffPeakPrice: 8}
	d := date(2026, 9, 10)

	tests := []struct {
		name       string
		start, end string
		court      models.Court
		want       float64
	}{
		{name: "off-peak morning", start: "09:00", end: "10:00", court: court, want: 8},
		{name: "peak evening", start: "18:00", end: "19:00", court: court, want: 20},
		{name: "peak boundary start", start: "17:00", end: "18:00", court: court, want: 20},
		{name: "starts after peak window", start: "22:00", end: "23:00", court: court, want: 8},
		{name: "fractional duration rounds to cents", start: "09:00", end: "10:30", court: models.Court{OffPeakPrice: 9.99}, want: 14.99},
		{name: "falls back to base rate", start: "09:00", end: "11:00", court: models.Court{PricePerHour: 12}, want: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := interval(t, d, tt.start, tt.end)
			if got := BookingAmount(iv, tt.court); got != tt.want {
				t.Errorf("BookingAmount = %v, want %v", got, tt.want)
			}
		})
	}
}
