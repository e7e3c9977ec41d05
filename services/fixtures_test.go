package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"court-reservation-system/models"
)

func teamList(n int) []models.Team {
	teams := make([]models.Team, n)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := range teams {
		teams[i] = models.Team{
			ID:   fmt.Sprintf("team-%d", i),
			Name: fmt.Sprintf("Team %d", i),
		}
		teams[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}
	return teams
}

func TestGenerateRoundRobinMatches(t *testing.T) {
	start := date(2026, 9, 1)
	for _, n := range []int{2, 3, 5, 8} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			matches, err := GenerateRoundRobinMatches("t-1", teamList(n), start)
			if err != nil {
				t.Fatal(err)
			}
			want := n * (n - 1) / 2
			if len(matches) != want {
				t.Fatalf("got %d matches, want %d", len(matches), want)
			}

			// every unordered pair exactly once
			seen := map[string]bool{}
			for _, m := range matches {
				if m.Team1ID == m.Team2ID {
					t.Errorf("team %s paired with itself", m.Team1ID)
				}
				key := m.Team1ID + "|" + m.Team2ID
				if m.Team2ID < m.Team1ID {
					key = m.Team2ID + "|" + m.Team1ID
				}
				if seen[key] {
					t.Errorf("pair %s generated twice", key)
				}
				seen[key] = true
				if m.Round != models.RoundGroup {
					t.Errorf("round = %q, want %q", m.Round, models.RoundGroup)
				}
			}

			// dates advance two days per pairing in enumeration order
			for i, m := range matches {
				want := start.AddDate(0, 0, i*RoundRobinSpacingDays)
				if !m.Date.Equal(want) {
					t.Errorf("match %d on %s, want %s", i, m.Date.Format("2006-01-02"), want.Format("2006-01-02"))
				}
			}
		})
	}
}

func TestGenerateRoundRobinInsufficientTeams(t *testing.T) {
	for _, n := range []int{0, 1} {
		if _, err := GenerateRoundRobinMatches("t-1", teamList(n), date(2026, 9, 1)); !errors.Is(err, ErrInsufficientTeams) {
			t.Errorf("%d teams: err = %v, want ErrInsufficientTeams", n, err)
		}
	}
}

func TestRankTeams(t *testing.T) {
	teams := teamList(4)
	teams[0].Points = 3
	teams[1].Points = 9
	teams[2].Points = 3
	teams[3].Points = 6

	ranked := RankTeams(teams)
	wantOrder := []string{"team-1", "team-3", "team-0", "team-2"}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Errorf("ranked[%d] = %s, want %s", i, ranked[i].ID, id)
		}
	}
	// equal points broke the tie by registration time: team-0 before team-2
}

func TestGenerateKnockoutMatches(t *testing.T) {
	start := date(2026, 10, 1)
	teams := teamList(10)
	for i := range teams {
		teams[i].Points = 30 - i // already in rank order
	}

	matches, err := GenerateKnockoutMatches("t-1", RankTeams(teams), start)
	if err != nil {
		t.Fatal(err)
	}
	// top 8 qualify → 4 quarter-finals
	if len(matches) != 4 {
		t.Fatalf("got %d matches, want 4", len(matches))
	}
	for i, m := range matches {
		wantT1 := fmt.Sprintf("team-%d", 2*i)
		wantT2 := fmt.Sprintf("team-%d", 2*i+1)
		if m.Team1ID != wantT1 || m.Team2ID != wantT2 {
			t.Errorf("match %d = %s vs %s, want %s vs %s", i, m.Team1ID, m.Team2ID, wantT1, wantT2)
		}
		wantDate := start.AddDate(0, 0, i*KnockoutSpacingDays)
		if !m.Date.Equal(wantDate) {
			t.Errorf("match %d on %s, want %s", i, m.Date.Format("2006-01-02"), wantDate.Format("2006-01-02"))
		}
		if m.Round != models.RoundQuarterFinal {
			t.Errorf("round = %q, want %q", m.Round, models.RoundQuarterFinal)
		}
	}
}

func TestGenerateKnockoutOddQualifiers(t *testing.T) {
	matches, err := GenerateKnockoutMatches("t-1", teamList(3), date(2026, 10, 1))
	if err != nil {
		t.Fatal(err)
	}
	// the unpaired third team sits out
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
}

func TestGenerateKnockoutInsufficientTeams(t *testing.T) {
	if _, err := GenerateKnockoutMatches("t-1", teamList(1), date(2026, 10, 1)); !errors.Is(err, ErrInsufficientTeams) {
		t.Errorf("err = %v, want ErrInsufficientTeams", err)
	}
}

func TestMatchPoints(t *testing.T) {
	tests := []struct {
		s1, s2 int
		p1, p2 int
	}{
		{3, 1, 3, 0},
		{0, 2, 0, 3},
		{1, 1, 1, 1},
		{0, 0, 1, 1},
	}
	for _, tt := range tests {
		p1, p2 := MatchPoints(tt.s1, tt.s2)
		if p1 != tt.p1 || p2 != tt.p2 {
			t.Errorf("MatchPoints(%d,%d) = (%d,%d), want (%d,%d)", tt.s1, tt.s2, p1, p2, tt.p1, tt.p2)
		}
	}
}
