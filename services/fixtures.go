package services

import (
	"errors"
	"sort"
	"time"

	"court-reservation-system/models"
)

// ErrInsufficientTeams is returned when fewer than two teams are available
// for fixture or knockout generation.
var ErrInsufficientTeams = errors.New("not enough teams to create matches")

const (
	// RoundRobinSpacingDays separates consecutive group-stage matches.
	RoundRobinSpacingDays = 2
	// KnockoutSpacingDays separates consecutive knockout pairings.
	KnockoutSpacingDays = 3
	// KnockoutQualifiers is how many top-ranked teams enter the knockout stage.
	KnockoutQualifiers = 8
)

// GenerateRoundRobinMatches emits one group-stage match per unordered team
// pair, in enumeration order (team 0 against each later team, then team 1,
// and so on), advancing the date two days after every pairing. Produces
// n(n-1)/2 matches.
func GenerateRoundRobinMatches(tournamentID string, teams []models.Team, start time.Time) ([]models.Match, error) {
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}
	var matches []models.Match
	date := start
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matches = append(matches, models.Match{
				TournamentID: tournamentID,
				Team1ID:      teams[i].ID,
				Team2ID:      teams[j].ID,
				Date:         date,
				Round:        models.RoundGroup,
			})
			date = date.AddDate(0, 0, RoundRobinSpacingDays)
		}
	}
	return matches, nil
}

// RankTeams orders teams for knockout seeding: points descending, then
// registration time ascending, then ID as a final stable tie-break.
func RankTeams(teams []models.Team) []models.Team {
	ranked := make([]models.Team, len(teams))
	copy(ranked, teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// GenerateKnockoutMatches pairs the ranked qualifiers consecutively
// (1st vs 2nd, 3rd vs 4th, and so on), three days apart. At most
// KnockoutQualifiers teams enter; an unpaired last qualifier is left out.
func GenerateKnockoutMatches(tournamentID string, ranked []models.Team, start time.Time) ([]models.Match, error) {
	if len(ranked) < 2 {
		return nil, ErrInsufficientTeams
	}
	qualified := ranked
	if len(qualified) > KnockoutQualifiers {
		qualified = qualified[:KnockoutQualifiers]
	}
	var matches []models.Match
	date := start
	for i := 0; i+1 < len(qualified); i += 2 {
		matches = append(matches, models.Match{
			TournamentID: tournamentID,
			Team1ID:      qualified[i].ID,
			Team2ID:      qualified[i+1].ID,
			Date:         date,
			Round:        models.RoundQuarterFinal,
		})
		date = date.AddDate(0, 0, KnockoutSpacingDays)
	}
	return matches, nil
}

// MatchPoints maps a final score to league points: 3 for a win, 1 each
// for a draw, 0 for a loss.
func MatchPoints(team1Score, team2Score int) (int, int) {
	switch {
	case team1Score > team2Score:
		return 3, 0
	case team1Score < team2Score:
		return 0, 3
	default:
		return 1, 1
	}
}
