package models

import "time"

// DaySlots builds the fixed grid of bookable slots between opening and
// closing time, each width minutes long. A trailing remainder shorter than
// width is not offered.
func DaySlots(date time.Time, open, close TimeOfDay, width time.Duration) []TimeInterval {
	if open >= close || width <= 0 {
		return nil
	}
	step := TimeOfDay(width / time.Minute)
	var slots []TimeInterval
	for t := open; t+step <= close; t += step {
		slots = append(slots, TimeInterval{Date: date, Start: t, End: t + step})
	}
	return slots
}

// FreeSlots filters the catalog down to slots that do not overlap any of
// the given confirmed booking intervals.
func FreeSlots(catalog []TimeInterval, booked []TimeInterval) []TimeInterval {
	var free []TimeInterval
	for _, slot := range catalog {
		taken := false
		for _, b := range booked {
			if slot.Overlaps(b) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}
