package services

import (
	"errors"
	"log"
	"time"

	"court-reservation-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FixtureService generates group-stage fixtures and the knockout stage,
// records scores with the points cascade, and serves the leaderboard and
// the elimination bracket.
type FixtureService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewFixtureService(db *gorm.DB) *FixtureService {
	return &FixtureService{DB: db, Now: time.Now}
}

type fixturesRequest struct {
	TournamentID string `json:"tournament_id"`
	StartDate    string `json:"start_date"`
}

// GenerateFixtures creates the round-robin group stage: every pair of
// registered teams plays once, two days apart in enumeration order.
func (s *FixtureService) GenerateFixtures(c *fiber.Ctx) error {
	var req fixturesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use YYYY-MM-DD)"})
	}

	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", req.TournamentID).
		Order("created_at ASC").Find(&teams).Error; err != nil {
		log.Printf("[Fixture] teams query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	matches, err := GenerateRoundRobinMatches(req.TournamentID, teams, start)
	if err != nil {
		if errors.Is(err, ErrInsufficientTeams) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate fixtures"})
	}
	for i := range matches {
		matches[i].ID = uuid.NewString()
	}

	if err := s.DB.Create(&matches).Error; err != nil {
		log.Printf("[Fixture] insert failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save fixtures"})
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "fixtures generated successfully",
		"matches": len(matches),
	})
}

type knockoutRequest struct {
	TournamentID string `json:"tournament_id"`
	StartDate    string `json:"start_date"`
}

// GenerateKnockoutStage seeds the quarter-finals from the standings: top
// eight by points, ties broken by registration time then ID.
func (s *FixtureService) GenerateKnockoutStage(c *fiber.Ctx) error {
	var req knockoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	start := s.Now()
	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use YYYY-MM-DD)"})
		}
		start = parsed
	}

	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", req.TournamentID).Find(&teams).Error; err != nil {
		log.Printf("[Knockout] teams query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	matches, err := GenerateKnockoutMatches(req.TournamentID, RankTeams(teams), start)
	if err != nil {
		if errors.Is(err, ErrInsufficientTeams) {
			return c.Status(400).JSON(fiber.Map{"error": "not enough teams for knockout stage"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to generate knockout stage"})
	}
	for i := range matches {
		matches[i].ID = uuid.NewString()
	}

	if err := s.DB.Create(&matches).Error; err != nil {
		log.Printf("[Knockout] insert failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to save knockout matches"})
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "knockout stage generated successfully",
		"matches": len(matches),
	})
}

func (s *FixtureService) GetMatches(c *fiber.Ctx) error {
	var matches []models.Match
	if err := s.DB.Where("tournament_id = ?", c.Params("tournament_id")).
		Order("date ASC").Find(&matches).Error; err != nil {
		log.Printf("[Fixture] matches query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(matches)
}

type scoreRequest struct {
	Team1Score int                  `json:"team1_score"`
	Team2Score int                  `json:"team2_score"`
	Scorers    []models.ScorerEntry `json:"scorers"`
}

// UpdateMatchScore records the final score and cascades league points
// (3/1/0) into both teams, atomically. Re-submitting a score first
// reverses the previously awarded points.
func (s *FixtureService) UpdateMatchScore(c *fiber.Ctx) error {
	matchID := c.Params("match_id")
	var req scoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Team1Score < 0 || req.Team2Score < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "scores must be non-negative"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error; err != nil {
			return err
		}

		if match.Score != nil {
			prev1, prev2 := MatchPoints(match.Score.Team1, match.Score.Team2)
			if err := addTeamPoints(tx, match.Team1ID, -prev1); err != nil {
				return err
			}
			if err := addTeamPoints(tx, match.Team2ID, -prev2); err != nil {
				return err
			}
		}

		score := models.MatchScore{Team1: req.Team1Score, Team2: req.Team2Score, Scorers: req.Scorers}
		if err := tx.Model(&match).Update("score", &score).Error; err != nil {
			return err
		}

		p1, p2 := MatchPoints(req.Team1Score, req.Team2Score)
		if err := addTeamPoints(tx, match.Team1ID, p1); err != nil {
			return err
		}
		return addTeamPoints(tx, match.Team2ID, p2)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		log.Printf("[Fixture] score update %s failed: %v", matchID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update score"})
	}
	return c.JSON(fiber.Map{"message": "score and team points updated successfully"})
}

func addTeamPoints(tx *gorm.DB, teamID string, delta int) error {
	if delta == 0 {
		return nil
	}
	return tx.Model(&models.Team{}).Where("id = ?", teamID).
		Update("points", gorm.Expr("points + ?", delta)).Error
}

// GetLeaderboard lists a tournament's teams by points descending.
func (s *FixtureService) GetLeaderboard(c *fiber.Ctx) error {
	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", c.Params("tournament_id")).Find(&teams).Error; err != nil {
		log.Printf("[Fixture] leaderboard query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	ranked := RankTeams(teams)

	type row struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
	}
	board := make([]row, 0, len(ranked))
	for _, t := range ranked {
		board = append(board, row{Name: t.Name, Points: t.Points})
	}
	return c.JSON(board)
}

// GetBracket derives the single-elimination tree from the registered
// teams in registration order. The bracket is not persisted; rebuilding
// from the same team list yields the same tree.
func (s *FixtureService) GetBracket(c *fiber.Ctx) error {
	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", c.Params("tournament_id")).
		Order("created_at ASC").Find(&teams).Error; err != nil {
		log.Printf("[Fixture] bracket query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if len(teams) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no teams registered"})
	}

	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}
	return c.JSON(fiber.Map{
		"tournament_id": c.Params("tournament_id"),
		"bracket":       BuildBracket(names),
	})
}
