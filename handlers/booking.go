package handlers

import (
	"court-reservation-system/middleware"
	"court-reservation-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBookingRoutes(app *fiber.App, bookingService *services.BookingService) {
	// Public: availability does not need identity
	app.Get("/courts/:id/availability", bookingService.GetAvailability)

	// Identity middleware is attached per-route: a Group on "/" would
	// leak it onto the public routes registered after this setup runs.
	user := middleware.UserContextMiddleware()
	app.Post("/bookings", user, bookingService.BookCourt)
	app.Post("/bookings/recurring", user, bookingService.BookRecurring)
	app.Get("/bookings/calendar/:year/:month", user, bookingService.GetCalendar)
	app.Get("/bookings", user, bookingService.GetMyBookings)
	app.Put("/bookings/:id", user, bookingService.ModifyBooking)
	app.Delete("/bookings/:id", user, bookingService.CancelBooking)
	app.Patch("/bookings/:id/payment", user, bookingService.UpdatePaymentStatus)

	admin := app.Group("/admin", user, middleware.RequireAdmin())
	admin.Get("/bookings", bookingService.GetAllBookings)
}
