package queue

import "time"

// Notification kinds consumed by the notification service.
const (
	KindConfirmation    = "confirmation"
	KindCancellation    = "cancellation"
	KindSlotOpened      = "slot-opened"
	KindTournamentAlert = "tournament-alert"
)

// RecipientBroadcast fans the notification out to every user except the
// one named in the payload.
const RecipientBroadcast = "broadcast"

// NotificationQueue is the durable queue all notification events go to.
const NotificationQueue = "notifications"

// Notification is the envelope published for every outbound notification.
// Delivery is best-effort; the booking flow never waits on it.
type Notification struct {
	Kind      string      `json:"kind"`
	Recipient string      `json:"recipient"`
	Payload   interface{} `json:"payload,omitempty"`
	SentAt    time.Time   `json:"sent_at"`
}

// BookingPayload describes a booking in notification events.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	CourtID   string `json:"court_id"`
	CourtName string `json:"court_name,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TournamentPayload describes a tournament in alert events.
type TournamentPayload struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	CourtID      string `json:"court_id,omitempty"`
}
