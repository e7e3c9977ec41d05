package handlers

import (
	"court-reservation-system/middleware"
	"court-reservation-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCourtRoutes(app *fiber.App, courtService *services.CourtService) {
	// Public catalog
	app.Get("/courts", courtService.GetCourts)
	app.Get("/courts/:id", courtService.GetCourtByID)

	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())
	admin.Post("/courts", courtService.AddCourt)
	admin.Put("/courts/:id", courtService.UpdateCourt)
	admin.Delete("/courts/:id", courtService.DeleteCourt)
}
