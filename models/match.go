package models

import "time"

const (
	RoundGroup        = "group"
	RoundQuarterFinal = "quarter-final"
)

// ScorerEntry attributes one goal to a player of a team.
type ScorerEntry struct {
	TeamID string `json:"team_id"`
	Player string `json:"player"`
}

// MatchScore is the typed score payload. Nil until the match is played.
type MatchScore struct {
	Team1   int           `json:"team1"`
	Team2   int           `json:"team2"`
	Scorers []ScorerEntry `json:"scorers,omitempty"`
}

// Match pairs two teams of a tournament on a date. Created by fixture
// generation; the score is the only post-creation mutation and cascades
// into Team.Points.
type Match struct {
	ID           string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TournamentID string      `gorm:"index;not null" json:"tournament_id"`
	Team1ID      string      `gorm:"not null" json:"team1_id"`
	Team2ID      string      `gorm:"not null" json:"team2_id"`
	Date         time.Time   `gorm:"type:date;not null" json:"date"`
	Round        string      `gorm:"type:varchar(24);default:'group'" json:"round"`
	Score        *MatchScore `gorm:"serializer:json" json:"score,omitempty"`

	Timestamps
}
