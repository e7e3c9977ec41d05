package handlers

import (
	"court-reservation-system/middleware"
	"court-reservation-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(app *fiber.App, tournamentService *services.TournamentService, fixtureService *services.FixtureService) {
	// Public listings
	app.Get("/tournaments", tournamentService.GetTournaments)
	app.Get("/tournaments/upcoming", tournamentService.GetUpcomingTournaments)
	app.Get("/tournaments/:id/teams", tournamentService.GetTeamsForTournament)
	app.Get("/tournaments/:id/tiesheet", tournamentService.GetTieSheet)

	user := middleware.UserContextMiddleware()
	app.Post("/teams", user, tournamentService.RegisterTeam)
	app.Get("/teams/mine", user, tournamentService.GetMyRegistrations)
	app.Get("/tournaments/:tournament_id/matches", user, fixtureService.GetMatches)
	app.Get("/tournaments/:tournament_id/leaderboard", user, fixtureService.GetLeaderboard)
	app.Get("/tournaments/:tournament_id/bracket", user, fixtureService.GetBracket)

	admin := app.Group("/admin", user, middleware.RequireAdmin())
	admin.Post("/tournaments", tournamentService.CreateTournament)
	admin.Put("/tournaments/:id", tournamentService.UpdateTournament)
	admin.Delete("/tournaments/:id", tournamentService.DeleteTournament)
	admin.Post("/matches/fixtures", fixtureService.GenerateFixtures)
	admin.Post("/matches/knockout", fixtureService.GenerateKnockoutStage)
	admin.Put("/matches/:match_id/score", fixtureService.UpdateMatchScore)
}
