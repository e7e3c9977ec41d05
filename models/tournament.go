package models

import "time"

// Tournament is hosted on a court and accepts team registrations up to
// MaxTeams. A tie sheet padded with TBD entries is derived from MaxTeams.
type Tournament struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"index" json:"slug"`
	CourtID   string    `gorm:"index" json:"court_id"`
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`
	MaxTeams  int       `gorm:"default:0" json:"max_teams"`

	Timestamps

	// Relationships
	Teams   []Team  `json:"teams,omitempty" gorm:"foreignKey:TournamentID"`
	Matches []Match `json:"matches,omitempty" gorm:"foreignKey:TournamentID"`
}

// MaxTeamMembers caps the roster size accepted at registration.
const MaxTeamMembers = 7

// Team is registered by one user for one tournament. Points are mutated
// only by the score-update step of the fixture service.
type Team struct {
	ID           string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID       string   `gorm:"index;not null" json:"user_id"`
	TournamentID string   `gorm:"index;not null" json:"tournament_id"`
	Name         string   `gorm:"not null" json:"name"`
	Members      []string `gorm:"serializer:json" json:"members"`
	Points       int      `gorm:"default:0" json:"points"`

	Timestamps
}
