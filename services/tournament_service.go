package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"court-reservation-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// TournamentService owns tournaments and team registration. Fixture and
// bracket generation live in FixtureService.
type TournamentService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTournamentService(db *gorm.DB) *TournamentService {
	return &TournamentService{DB: db, Now: time.Now}
}

type tournamentRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	CourtID   string `json:"court_id"`
	MaxTeams  int    `json:"max_teams"`
}

func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req tournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.Name == "" || req.StartDate == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and start_date are required"})
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use YYYY-MM-DD)"})
	}
	var end time.Time
	if req.EndDate != "" {
		end, err = time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid end_date (use YYYY-MM-DD)"})
		}
	}

	t := models.Tournament{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Slug:      slug.Make(req.Name),
		CourtID:   req.CourtID,
		StartDate: start,
		EndDate:   end,
		MaxTeams:  req.MaxTeams,
	}
	if err := s.DB.Create(&t).Error; err != nil {
		log.Printf("[Tournament] create failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "tournament created successfully", "tournament_id": t.ID})
}

func (s *TournamentService) GetTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Order("start_date ASC").Find(&tournaments).Error; err != nil {
		log.Printf("[Tournament] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(tournaments)
}

// GetUpcomingTournaments lists tournaments starting today or later.
func (s *TournamentService) GetUpcomingTournaments(c *fiber.Ctx) error {
	today := s.Now().Format(dateLayout)
	var tournaments []models.Tournament
	if err := s.DB.Where("start_date >= ?", today).Order("start_date ASC").Find(&tournaments).Error; err != nil {
		log.Printf("[Tournament] upcoming list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(tournaments)
}

func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	var req tournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	var t models.Tournament
	if err := s.DB.First(&t, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
		updates["slug"] = slug.Make(req.Name)
	}
	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid start_date (use YYYY-MM-DD)"})
		}
		updates["start_date"] = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid end_date (use YYYY-MM-DD)"})
		}
		updates["end_date"] = end
	}
	if req.MaxTeams > 0 {
		updates["max_teams"] = req.MaxTeams
	}

	if err := s.DB.Model(&t).Updates(updates).Error; err != nil {
		log.Printf("[Tournament] update %s failed: %v", t.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update tournament"})
	}
	return c.JSON(fiber.Map{"message": "tournament updated successfully"})
}

func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Tournament{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("[Tournament] delete failed: %v", res.Error)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}
	return c.JSON(fiber.Map{"message": "tournament deleted successfully"})
}

type teamRequest struct {
	TournamentID string   `json:"tournament_id"`
	TeamName     string   `json:"team_name"`
	Members      []string `json:"members"`
}

// RegisterTeam enrols a team of up to MaxTeamMembers players. The team
// name must be unique within the tournament.
func (s *TournamentService) RegisterTeam(c *fiber.Ctx) error {
	var req teamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TournamentID == "" || req.TeamName == "" || len(req.Members) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "tournament_id, team_name and members are required"})
	}
	if len(req.Members) > models.MaxTeamMembers {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("a team can have at most %d members", models.MaxTeamMembers)})
	}
	if ReservedTeamName(req.TeamName) {
		return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("%q is a reserved name", req.TeamName)})
	}
	userID := c.Locals("user_id").(string)

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", req.TournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	var count int64
	if err := s.DB.Model(&models.Team{}).
		Where("tournament_id = ? AND name = ?", req.TournamentID, req.TeamName).
		Count(&count).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if count > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "team name already exists"})
	}

	if tournament.MaxTeams > 0 {
		var registered int64
		if err := s.DB.Model(&models.Team{}).
			Where("tournament_id = ?", req.TournamentID).
			Count(&registered).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "database error"})
		}
		if registered >= int64(tournament.MaxTeams) {
			return c.Status(400).JSON(fiber.Map{"error": "tournament is full"})
		}
	}

	team := models.Team{
		ID:           uuid.NewString(),
		UserID:       userID,
		TournamentID: req.TournamentID,
		Name:         req.TeamName,
		Members:      req.Members,
	}
	if err := s.DB.Create(&team).Error; err != nil {
		log.Printf("[Tournament] team registration failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to register team"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "team registered successfully", "team_id": team.ID})
}

// GetMyRegistrations lists the tournaments the caller has a team in.
func (s *TournamentService) GetMyRegistrations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var tournaments []models.Tournament
	if err := s.DB.
		Joins("JOIN teams ON teams.tournament_id = tournaments.id").
		Where("teams.user_id = ?", userID).
		Find(&tournaments).Error; err != nil {
		log.Printf("[Tournament] registrations query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(tournaments)
}

func (s *TournamentService) GetTeamsForTournament(c *fiber.Ctx) error {
	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", c.Params("id")).
		Order("created_at ASC").Find(&teams).Error; err != nil {
		log.Printf("[Tournament] teams query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to retrieve teams"})
	}
	return c.JSON(teams)
}

// GetTieSheet returns the registered teams padded with TBD entries up to
// the tournament's max_teams, in registration order.
func (s *TournamentService) GetTieSheet(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	var teams []models.Team
	if err := s.DB.Where("tournament_id = ?", tournament.ID).
		Order("created_at ASC").Find(&teams).Error; err != nil {
		log.Printf("[Tournament] tie sheet query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	type entry struct {
		ID      string   `json:"id"`
		Name    string   `json:"team_name"`
		Members []string `json:"members,omitempty"`
	}
	entries := make([]entry, 0, tournament.MaxTeams)
	for _, t := range teams {
		entries = append(entries, entry{ID: t.ID, Name: t.Name, Members: t.Members})
	}
	for len(entries) < tournament.MaxTeams {
		entries = append(entries, entry{
			ID:   fmt.Sprintf("tbd-%d", len(entries)+1),
			Name: TBDName,
		})
	}

	return c.JSON(fiber.Map{
		"max_teams":        tournament.MaxTeams,
		"registered_teams": entries,
	})
}
