package models

import (
	"testing"
	"time"
)

func TestDaySlots(t *testing.T) {
	d := date(2026, 9, 10)

	slots := DaySlots(d, mustTime(t, "09:00"), mustTime(t, "12:00"), time.Hour)
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	if slots[0].Start.String() != "09:00" || slots[0].End.String() != "10:00" {
		t.Errorf("first slot = %s-%s, want 09:00-10:00", slots[0].Start, slots[0].End)
	}
	if slots[2].Start.String() != "11:00" || slots[2].End.String() != "12:00" {
		t.Errorf("last slot = %s-%s, want 11:00-12:00", slots[2].Start, slots[2].End)
	}

	// remainder shorter than the width is not offered
	slots = DaySlots(d, mustTime(t, "09:00"), mustTime(t, "10:30"), time.Hour)
	if len(slots) != 1 {
		t.Errorf("got %d slots, want 1 (half slot dropped)", len(slots))
	}

	if got := DaySlots(d, mustTime(t, "12:00"), mustTime(t, "09:00"), time.Hour); got != nil {
		t.Errorf("inverted hours should produce no slots, got %d", len(got))
	}
}

func TestFreeSlots(t *testing.T) {
	d := date(2026, 9, 10)
	catalog := DaySlots(d, mustTime(t, "09:00"), mustTime(t, "13:00"), time.Hour)

	booked := []TimeInterval{
		interval(t, d, "10:00", "11:00"),
		interval(t, d, "11:30", "12:30"), // blocks both 11:00 and 12:00 slots
	}
	free := FreeSlots(catalog, booked)
	want := []string{"09:00"}
	if len(free) != len(want) {
		t.Fatalf("got %d free slots, want %d", len(free), len(want))
	}
	for i, f := range free {
		if f.Start.String() != want[i] {
			t.Errorf("free[%d] starts %s, want %s", i, f.Start, want[i])
		}
	}

	// nothing booked leaves the whole catalog free
	if got := FreeSlots(catalog, nil); len(got) != len(catalog) {
		t.Errorf("got %d free slots with no bookings, want %d", len(got), len(catalog))
	}
}
