package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"court-reservation-system/models"
	"court-reservation-system/queue"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// availabilityCacheTTL keeps the free-slot response hot for a short
// window; bookings and cancellations invalidate the key eagerly.
const availabilityCacheTTL = 30 * time.Second

// BookingService owns the booking lifecycle: conflict-checked creation,
// recurring expansion, cancellation, modification, payment status and
// availability. Clock is injectable for the policy checks.
type BookingService struct {
	DB       *gorm.DB
	Notifier queue.Notifier
	Cache    *redis.Client // nil disables availability caching
	Now      func() time.Time

	OpenTime  models.TimeOfDay
	CloseTime models.TimeOfDay
	SlotWidth time.Duration
}

func NewBookingService(db *gorm.DB, notifier queue.Notifier, cache *redis.Client) *BookingService {
	s := &BookingService{
		DB:        db,
		Notifier:  notifier,
		Cache:     cache,
		Now:       time.Now,
		OpenTime:  models.TimeOfDay(6 * 60),  // 06:00
		CloseTime: models.TimeOfDay(22 * 60), // 22:00
		SlotWidth: time.Hour,
	}
	if v := os.Getenv("COURT_OPEN_TIME"); v != "" {
		if t, err := models.ParseTimeOfDay(v); err == nil {
			s.OpenTime = t
		}
	}
	if v := os.Getenv("COURT_CLOSE_TIME"); v != "" {
		if t, err := models.ParseTimeOfDay(v); err == nil {
			s.CloseTime = t
		}
	}
	return s
}

type bookingRequest struct {
	CourtID   string `json:"court_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r bookingRequest) interval() (models.TimeInterval, error) {
	if r.CourtID == "" || r.Date == "" || r.StartTime == "" || r.EndTime == "" {
		return models.TimeInterval{}, errors.New("court_id, date, start_time and end_time are required")
	}
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return models.TimeInterval{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", r.Date)
	}
	start, err := models.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return models.TimeInterval{}, err
	}
	end, err := models.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return models.TimeInterval{}, err
	}
	iv := models.TimeInterval{Date: date, Start: start, End: end}
	if !iv.Valid() {
		return models.TimeInterval{}, errors.New("start_time must be before end_time")
	}
	return iv, nil
}

// BookCourt runs the conflict check and the insert as one unit. The court
// row is locked FOR UPDATE for the duration of the transaction, so two
// concurrent requests for the same court serialize instead of both
// passing the overlap check against a stale read.
func (s *BookingService) BookCourt(c *fiber.Ctx) error {
	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	iv, err := req.interval()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	userID := c.Locals("user_id").(string)

	var booking models.Booking
	var court models.Court
	var decision BookingDecision
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&court, "id = ?", req.CourtID).Error; err != nil {
			return err
		}
		existing, err := s.confirmedIntervals(tx, req.CourtID, iv.Date, "")
		if err != nil {
			return err
		}
		decision = ResolveBooking(iv, existing, s.Now())
		if !decision.Accepted {
			return nil
		}
		booking = models.Booking{
			ID:        uuid.NewString(),
			UserID:    userID,
			CourtID:   req.CourtID,
			Date:      iv.Date,
			StartTime: iv.Start.String(),
			EndTime:   iv.End.String(),
			Status:    models.BookingStatusConfirmed,
		}
		return tx.Create(&booking).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "court not found"})
		}
		log.Printf("[Booking] book transaction failed: %v", txErr)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	if !decision.Accepted {
		return s.rejectBooking(c, decision)
	}

	s.invalidateAvailability(c, req.CourtID, iv.Date)
	s.Notifier.Notify(c.UserContext(), queue.Notification{
		Kind:      queue.KindConfirmation,
		Recipient: userID,
		Payload:   bookingPayload(booking, court.Name),
	})

	return c.Status(201).JSON(fiber.Map{
		"message":    "booking successful",
		"booking_id": booking.ID,
		"amount":     BookingAmount(iv, court),
	})
}

func (s *BookingService) rejectBooking(c *fiber.Ctx, decision BookingDecision) error {
	switch decision.Reason {
	case ReasonPastStart:
		return c.Status(400).JSON(fiber.Map{"error": "cannot book in the past"})
	case ReasonConflict:
		resp := fiber.Map{"error": "slot not available"}
		if sug := decision.Suggestion; sug != nil {
			resp["message"] = "slot not available, next available slot suggested"
			resp["suggested_start"] = sug.Start.String()
			resp["suggested_end"] = sug.End.String()
		}
		return c.Status(400).JSON(resp)
	}
	return c.Status(400).JSON(fiber.Map{"error": "booking rejected"})
}

// confirmedIntervals loads the bookings for a court and date and keeps
// the intervals that still block slots.
func (s *BookingService) confirmedIntervals(tx *gorm.DB, courtID string, date time.Time, excludeID string) ([]models.TimeInterval, error) {
	var bookings []models.Booking
	if err := tx.Where("court_id = ? AND date = ?", courtID, date.Format(dateLayout)).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return activeIntervals(bookings, excludeID), nil
}

// activeIntervals parses the intervals of the bookings that block slots.
// Cancelled bookings no longer block anything; excludeID skips one
// booking (used by modification). Malformed rows are logged and skipped.
func activeIntervals(bookings []models.Booking, excludeID string) []models.TimeInterval {
	intervals := make([]models.TimeInterval, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != models.BookingStatusConfirmed {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		iv, err := b.Interval()
		if err != nil {
			log.Printf("[Booking] skipping malformed booking %s: %v", b.ID, err)
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

type recurringRequest struct {
	CourtID     string `json:"court_id"`
	StartDate   string `json:"start_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Recurrence  string `json:"recurrence"`
	Occurrences int    `json:"occurrences"`
}

type recurringResult struct {
	Date           string `json:"date"`
	Status         string `json:"status"` // booked | rejected | failed
	BookingID      string `json:"booking_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
	SuggestedStart string `json:"suggested_start,omitempty"`
	SuggestedEnd   string `json:"suggested_end,omitempty"`
}

// BookRecurring expands the recurrence and books every occurrence
// independently. There is no atomicity across the sequence: some dates
// may book while others are rejected, and the per-date report always
// carries the full outcome.
func (s *BookingService) BookRecurring(c *fiber.Ctx) error {
	var req recurringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Recurrence != CadenceWeekly && req.Recurrence != CadenceMonthly {
		return c.Status(400).JSON(fiber.Map{"error": "recurrence must be weekly or monthly"})
	}
	first, err := (bookingRequest{CourtID: req.CourtID, Date: req.StartDate, StartTime: req.StartTime, EndTime: req.EndTime}).interval()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	userID := c.Locals("user_id").(string)

	var court models.Court
	if err := s.DB.First(&court, "id = ?", req.CourtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "court not found"})
		}
		log.Printf("[Booking] fetch court failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	dates := ExpandRecurrence(first.Date, req.Recurrence, req.Occurrences)
	results := make([]recurringResult, 0, len(dates))
	booked := 0
	for _, date := range dates {
		iv := models.TimeInterval{Date: date, Start: first.Start, End: first.End}
		res := recurringResult{Date: date.Format(dateLayout)}

		var booking models.Booking
		var decision BookingDecision
		txErr := s.DB.Transaction(func(tx *gorm.DB) error {
			var locked models.Court
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&locked, "id = ?", req.CourtID).Error; err != nil {
				return err
			}
			existing, err := s.confirmedIntervals(tx, req.CourtID, date, "")
			if err != nil {
				return err
			}
			decision = ResolveBooking(iv, existing, s.Now())
			if !decision.Accepted {
				return nil
			}
			booking = models.Booking{
				ID:        uuid.NewString(),
				UserID:    userID,
				CourtID:   req.CourtID,
				Date:      date,
				StartTime: iv.Start.String(),
				EndTime:   iv.End.String(),
				Status:    models.BookingStatusConfirmed,
			}
			return tx.Create(&booking).Error
		})
		switch {
		case txErr != nil:
			log.Printf("[Booking] recurring insert failed for %s: %v", res.Date, txErr)
			res.Status = "failed"
			res.Reason = "database error"
		case decision.Accepted:
			res.Status = "booked"
			res.BookingID = booking.ID
			booked++
			s.invalidateAvailability(c, req.CourtID, date)
		default:
			res.Status = "rejected"
			res.Reason = decision.Reason
			if sug := decision.Suggestion; sug != nil {
				res.SuggestedStart = sug.Start.String()
				res.SuggestedEnd = sug.End.String()
			}
		}
		results = append(results, res)
	}

	if booked > 0 {
		s.Notifier.Notify(c.UserContext(), queue.Notification{
			Kind:      queue.KindConfirmation,
			Recipient: userID,
			Payload: fiber.Map{
				"court_id":   req.CourtID,
				"court_name": court.Name,
				"recurrence": req.Recurrence,
				"booked":     booked,
				"requested":  len(dates),
				"start_time": first.Start.String(),
				"end_time":   first.End.String(),
			},
		})
	}

	status := 201
	if booked == 0 {
		status = 400
	}
	return c.Status(status).JSON(fiber.Map{
		"message":   fmt.Sprintf("%d of %d occurrences booked", booked, len(dates)),
		"results":   results,
		"booked":    booked,
		"requested": len(dates),
	})
}

// GetMyBookings lists the caller's bookings with the computed amount from
// the court's peak/off-peak rates.
func (s *BookingService) GetMyBookings(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var bookings []models.Booking
	if err := s.DB.Where("user_id = ?", userID).Order("date DESC, start_time DESC").Find(&bookings).Error; err != nil {
		log.Printf("[Booking] list failed for user %s: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	courts := map[string]models.Court{}
	for i, b := range bookings {
		court, ok := courts[b.CourtID]
		if !ok {
			if err := s.DB.First(&court, "id = ?", b.CourtID).Error; err != nil {
				continue
			}
			courts[b.CourtID] = court
		}
		if iv, err := b.Interval(); err == nil {
			bookings[i].Amount = BookingAmount(iv, court)
		}
	}
	return c.JSON(bookings)
}

// CancelBooking enforces the cancellation policy, flips the status (the
// row is kept), and notifies the owner plus a slot-opened broadcast.
func (s *BookingService) CancelBooking(c *fiber.Ctx) error {
	bookingID := c.Params("id")
	userID := c.Locals("user_id").(string)

	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "booking not found"})
		}
		log.Printf("[Booking] fetch %s failed: %v", bookingID, err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	decision := CanCancel(booking, userID, s.Now())
	if !decision.Allowed {
		return s.denyCancel(c, decision)
	}

	if err := s.DB.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
		log.Printf("[Booking] cancel %s failed: %v", bookingID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to cancel booking"})
	}

	var court models.Court
	_ = s.DB.First(&court, "id = ?", booking.CourtID).Error
	s.invalidateAvailability(c, booking.CourtID, booking.Date)

	payload := bookingPayload(booking, court.Name)
	s.Notifier.Notify(c.UserContext(), queue.Notification{
		Kind:      queue.KindCancellation,
		Recipient: userID,
		Payload:   payload,
	})
	s.Notifier.Notify(c.UserContext(), queue.Notification{
		Kind:      queue.KindSlotOpened,
		Recipient: queue.RecipientBroadcast,
		Payload:   payload,
	})

	return c.JSON(fiber.Map{"message": "booking cancelled successfully"})
}

func (s *BookingService) denyCancel(c *fiber.Ctx, decision CancelDecision) error {
	switch decision.Reason {
	case CancelNotOwner:
		return c.Status(403).JSON(fiber.Map{"error": "you are not authorized to cancel this booking", "reason": decision.Reason})
	case CancelAlreadyCancelled:
		return c.Status(400).JSON(fiber.Map{"error": "this booking has already been cancelled", "reason": decision.Reason})
	default:
		return c.Status(400).JSON(fiber.Map{"error": "cancellations must be made at least 24 hours in advance", "reason": decision.Reason})
	}
}

// ModifyBooking moves a booking to a new interval. The same lead-time and
// ownership policy as cancellation applies, and the new interval is
// conflict-checked against everything except the booking itself.
func (s *BookingService) ModifyBooking(c *fiber.Ctx) error {
	bookingID := c.Params("id")
	userID := c.Locals("user_id").(string)

	var req bookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "booking not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if req.CourtID == "" {
		req.CourtID = booking.CourtID
	}
	iv, err := req.interval()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	policy := CanCancel(booking, userID, s.Now())
	if !policy.Allowed {
		return s.denyCancel(c, policy)
	}

	var decision BookingDecision
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var locked models.Court
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ?", booking.CourtID).Error; err != nil {
			return err
		}
		existing, err := s.confirmedIntervals(tx, booking.CourtID, iv.Date, booking.ID)
		if err != nil {
			return err
		}
		decision = ResolveBooking(iv, existing, s.Now())
		if !decision.Accepted {
			return nil
		}
		return tx.Model(&booking).Updates(map[string]interface{}{
			"date":       iv.Date,
			"start_time": iv.Start.String(),
			"end_time":   iv.End.String(),
		}).Error
	})
	if txErr != nil {
		log.Printf("[Booking] modify %s failed: %v", bookingID, txErr)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if !decision.Accepted {
		return s.rejectBooking(c, decision)
	}

	var court models.Court
	_ = s.DB.First(&court, "id = ?", booking.CourtID).Error
	s.invalidateAvailability(c, booking.CourtID, booking.Date)
	s.invalidateAvailability(c, booking.CourtID, iv.Date)

	updated := booking
	updated.Date = iv.Date
	updated.StartTime = iv.Start.String()
	updated.EndTime = iv.End.String()
	s.Notifier.Notify(c.UserContext(), queue.Notification{
		Kind:      queue.KindConfirmation,
		Recipient: userID,
		Payload:   bookingPayload(updated, court.Name),
	})

	return c.JSON(fiber.Map{"message": "booking updated and confirmation sent"})
}

// UpdatePaymentStatus marks the caller's booking as paid. Capture itself
// happens in the payment collaborator; this only records the transition.
func (s *BookingService) UpdatePaymentStatus(c *fiber.Ctx) error {
	bookingID := c.Params("id")
	userID := c.Locals("user_id").(string)

	var booking models.Booking
	if err := s.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "booking not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if booking.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "unauthorized"})
	}
	if err := s.DB.Model(&booking).Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
		log.Printf("[Booking] payment update %s failed: %v", bookingID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update payment status"})
	}
	return c.JSON(fiber.Map{"message": "payment status updated"})
}

// GetCalendar lists all bookings of a month for the calendar view.
func (s *BookingService) GetCalendar(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid year"})
	}
	month, err := c.ParamsInt("month")
	if err != nil || month < 1 || month > 12 {
		return c.Status(400).JSON(fiber.Map{"error": "invalid month"})
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var bookings []models.Booking
	if err := s.DB.
		Select("id", "court_id", "date", "start_time", "end_time", "status").
		Where("date >= ? AND date < ?", from.Format(dateLayout), to.Format(dateLayout)).
		Find(&bookings).Error; err != nil {
		log.Printf("[Booking] calendar query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(bookings)
}

// GetAllBookings is the admin listing across all users and courts.
func (s *BookingService) GetAllBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	if err := s.DB.Order("date DESC").Find(&bookings).Error; err != nil {
		log.Printf("[Booking] admin list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(bookings)
}

// GetAvailability returns the free slots of a court on a date, computed
// from the slot grid minus confirmed bookings. Cancelled bookings do not
// block slots. Responses are cached briefly in redis.
func (s *BookingService) GetAvailability(c *fiber.Ctx) error {
	courtID := c.Params("id")
	dateStr := c.Query("date")
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid or missing date (use YYYY-MM-DD)"})
	}

	cacheKey := availabilityKey(courtID, date)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(c.UserContext(), cacheKey).Result(); err == nil {
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	var court models.Court
	if err := s.DB.First(&court, "id = ?", courtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "court not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	booked, err := s.confirmedIntervals(s.DB, courtID, date, "")
	if err != nil {
		log.Printf("[Booking] availability query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	catalog := models.DaySlots(date, s.OpenTime, s.CloseTime, s.SlotWidth)
	free := models.FreeSlots(catalog, booked)

	type slotResp struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	slots := make([]slotResp, 0, len(free))
	for _, f := range free {
		slots = append(slots, slotResp{StartTime: f.Start.String(), EndTime: f.End.String()})
	}
	resp := fiber.Map{
		"court_id":   courtID,
		"date":       dateStr,
		"free_slots": slots,
	}

	if s.Cache != nil {
		if body, err := json.Marshal(resp); err == nil {
			if err := s.Cache.Set(c.UserContext(), cacheKey, body, availabilityCacheTTL).Err(); err != nil {
				log.Printf("[Booking] availability cache set failed: %v", err)
			}
		}
	}
	return c.JSON(resp)
}

func (s *BookingService) invalidateAvailability(c *fiber.Ctx, courtID string, date time.Time) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(c.UserContext(), availabilityKey(courtID, date)).Err(); err != nil {
		log.Printf("[Booking] availability cache del failed: %v", err)
	}
}

func availabilityKey(courtID string, date time.Time) string {
	return "availability:" + courtID + ":" + date.Format(dateLayout)
}

func bookingPayload(b models.Booking, courtName string) queue.BookingPayload {
	return queue.BookingPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		CourtID:   b.CourtID,
		CourtName: courtName,
		Date:      b.Date.Format(dateLayout),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
