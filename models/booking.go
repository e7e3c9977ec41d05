package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Booking reserves a court for a half-open time range on one date.
// Bookings are never deleted; cancellation is a status transition, and a
// cancelled booking no longer blocks the slot.
type Booking struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        string    `gorm:"index;not null" json:"user_id"`
	CourtID       string    `gorm:"not null;index:idx_bookings_court_date,priority:1" json:"court_id"`
	Date          time.Time `gorm:"type:date;not null;index:idx_bookings_court_date,priority:2" json:"date"`
	StartTime     string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime       string    `gorm:"type:varchar(5);not null" json:"end_time"`
	Status        string    `gorm:"type:varchar(16);default:'confirmed';check:status IN ('confirmed','cancelled')" json:"status"`
	PaymentStatus string    `gorm:"type:varchar(16);default:'unpaid';check:payment_status IN ('unpaid','paid')" json:"payment_status"`

	// Not stored; filled in when listing with court pricing joined.
	Amount float64 `json:"amount,omitempty" gorm:"-"`

	Timestamps
}

// Interval parses the stored date and times into a TimeInterval.
func (b Booking) Interval() (TimeInterval, error) {
	start, err := ParseTimeOfDay(b.StartTime)
	if err != nil {
		return TimeInterval{}, err
	}
	end, err := ParseTimeOfDay(b.EndTime)
	if err != nil {
		return TimeInterval{}, err
	}
	return TimeInterval{Date: b.Date, Start: start, End: end}, nil
}
