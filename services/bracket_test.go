package services

import (
	"reflect"
	"testing"
)

func bracketByID(nodes []BracketNode) map[string]BracketNode {
	m := make(map[string]BracketNode, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func TestBuildBracketPadsToPowerOfTwo(t *testing.T) {
	nodes := BuildBracket([]string{"T1", "T2", "T3", "T4", "T5"})

	// 5 teams pad to 8 slots: 4 + 2 + 1 matches
	if len(nodes) != 7 {
		t.Fatalf("got %d nodes, want 7", len(nodes))
	}
	perRound := map[int]int{}
	byes := 0
	for _, n := range nodes {
		perRound[n.RoundIndex]++
		if n.RoundIndex == 0 {
			for _, p := range n.Participants {
				if p == ByeName {
					byes++
				}
			}
		}
	}
	if perRound[0] != 4 || perRound[1] != 2 || perRound[2] != 1 {
		t.Errorf("matches per round = %v, want 4/2/1", perRound)
	}
	if byes != 3 {
		t.Errorf("got %d BYEs in round 0, want 3", byes)
	}
}

func TestBuildBracketLinkage(t *testing.T) {
	nodes := BuildBracket([]string{"T1", "T2", "T3", "T4", "T5", "T6"})
	byID := bracketByID(nodes)

	finalRound := 0
	for _, n := range nodes {
		if n.RoundIndex > finalRound {
			finalRound = n.RoundIndex
		}
	}
	for _, n := range nodes {
		if n.RoundIndex == finalRound {
			if n.NextMatchID != nil {
				t.Errorf("final %s has a next match", n.ID)
			}
			continue
		}
		if n.NextMatchID == nil || n.NextMatchSide == nil {
			t.Fatalf("%s missing next-match link", n.ID)
		}
		next, ok := byID[*n.NextMatchID]
		if !ok {
			t.Fatalf("%s links to unknown match %s", n.ID, *n.NextMatchID)
		}
		if next.RoundIndex != n.RoundIndex+1 {
			t.Errorf("%s links across %d rounds", n.ID, next.RoundIndex-n.RoundIndex)
		}
		if side := *n.NextMatchSide; side != BracketSideA && side != BracketSideB {
			t.Errorf("%s has side %q", n.ID, side)
		}
	}

	// sibling matches feed opposite sides of the same next match
	for _, n := range nodes {
		if n.NextMatchID == nil || n.SlotIndex%2 != 0 {
			continue
		}
		for _, sib := range nodes {
			if sib.RoundIndex == n.RoundIndex && sib.SlotIndex == n.SlotIndex+1 {
				if *sib.NextMatchID != *n.NextMatchID {
					t.Errorf("%s and %s feed different matches", n.ID, sib.ID)
				}
				if *sib.NextMatchSide == *n.NextMatchSide {
					t.Errorf("%s and %s feed the same side", n.ID, sib.ID)
				}
			}
		}
	}
}

func TestBuildBracketByeAdvancement(t *testing.T) {
	// T5 lands in match-0-2 against a BYE; match-0-3 is BYE vs BYE.
	nodes := BuildBracket([]string{"T1", "T2", "T3", "T4", "T5"})
	byID := bracketByID(nodes)

	m02 := byID["match-0-2"]
	if m02.Winner == nil || *m02.Winner != "T5" {
		t.Fatalf("match-0-2 winner = %v, want T5", m02.Winner)
	}

	// the pad match has no winner, but its BYE still moves forward
	m03 := byID["match-0-3"]
	if m03.Winner != nil {
		t.Errorf("BYE-vs-BYE match recorded winner %q", *m03.Winner)
	}

	// T5 meets the propagated BYE in match-1-1 and advances again
	m11 := byID["match-1-1"]
	if m11.Participants != [2]string{"T5", ByeName} {
		t.Fatalf("match-1-1 participants = %v", m11.Participants)
	}
	if m11.Winner == nil || *m11.Winner != "T5" {
		t.Fatalf("match-1-1 winner = %v, want T5", m11.Winner)
	}

	// so the final already has T5 seeded on side b
	final := byID["match-2-0"]
	if final.Participants[1] != "T5" {
		t.Errorf("final side b = %q, want T5", final.Participants[1])
	}
	if final.Participants[0] != TBDName {
		t.Errorf("final side a = %q, want TBD", final.Participants[0])
	}
}

func TestBuildBracketIdempotent(t *testing.T) {
	teams := []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7"}
	first := BuildBracket(teams)
	second := BuildBracket(teams)
	if !reflect.DeepEqual(first, second) {
		t.Error("regenerating the bracket produced a different tree")
	}
}

func TestReservedTeamName(t *testing.T) {
	for _, name := range []string{"BYE", "bye", "Bye", "TBD", "tbd"} {
		if !ReservedTeamName(name) {
			t.Errorf("ReservedTeamName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Byers FC", "TBDoe", "Tigers", ""} {
		if ReservedTeamName(name) {
			t.Errorf("ReservedTeamName(%q) = true, want false", name)
		}
	}
}

func TestBuildBracketSmall(t *testing.T) {
	if nodes := BuildBracket(nil); nodes != nil {
		t.Errorf("empty team list produced %d nodes", len(nodes))
	}

	nodes := BuildBracket([]string{"Solo"})
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if w := nodes[0].Winner; w == nil || *w != "Solo" {
		t.Errorf("winner = %v, want Solo", w)
	}
}
