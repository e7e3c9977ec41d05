package services

// Single-elimination bracket construction. Pure and deterministic: the
// whole tree is re-derivable from the team list alone, so regeneration is
// idempotent and nothing here touches persistence.

import (
	"fmt"
	"strings"
)

const (
	// ByeName pads the entry list up to a power of two. A BYE never wins
	// against a real team.
	ByeName = "BYE"
	// TBDName fills participant slots of not-yet-decided later rounds.
	TBDName = "TBD"
)

// ReservedTeamName reports whether a name collides with the bracket
// sentinels. Registration rejects these so a real team is never mistaken
// for a padding entry and auto-advanced or ignored.
func ReservedTeamName(name string) bool {
	return strings.EqualFold(name, ByeName) || strings.EqualFold(name, TBDName)
}

// Bracket sides a feeding match can point at.
const (
	BracketSideA = "a"
	BracketSideB = "b"
)

// BracketNode is one match of the elimination tree. Every non-final node
// links to exactly one node in the next round via NextMatchID and
// NextMatchSide.
type BracketNode struct {
	ID            string    `json:"id"`
	RoundIndex    int       `json:"round_index"`
	SlotIndex     int       `json:"slot_index"`
	Participants  [2]string `json:"participants"`
	NextMatchID   *string   `json:"next_match_id,omitempty"`
	NextMatchSide *string   `json:"next_match_side,omitempty"`
	// Winner is set only for matches decided at build time, i.e. a real
	// team drawn against a BYE advancing automatically.
	Winner *string `json:"winner,omitempty"`
}

// BuildBracket constructs the full single-elimination tree for the given
// team names. Entries are padded with BYEs to the next power of two;
// round r has total/2^(r+1) matches and the loop ends at the final.
//
// BYE handling: a first-round team drawn against a BYE advances
// immediately and is seeded into its next-round slot. A BYE-vs-BYE pad
// match propagates the BYE forward (with no winner recorded) so that the
// auto-advance cascades correctly through later rounds.
func BuildBracket(teamNames []string) []BracketNode {
	if len(teamNames) == 0 {
		return nil
	}
	total := nextPowerOfTwo(len(teamNames))
	if total < 2 {
		total = 2
	}
	entries := make([]string, 0, total)
	entries = append(entries, teamNames...)
	for len(entries) < total {
		entries = append(entries, ByeName)
	}

	var rounds [][]BracketNode
	first := make([]BracketNode, 0, total/2)
	for i := 0; i < total; i += 2 {
		first = append(first, BracketNode{
			ID:           bracketMatchID(0, i/2),
			RoundIndex:   0,
			SlotIndex:    i / 2,
			Participants: [2]string{entries[i], entries[i+1]},
		})
	}
	rounds = append(rounds, first)

	for prev := first; len(prev) > 1; {
		r := rounds[len(rounds)-1][0].RoundIndex + 1
		next := make([]BracketNode, 0, len(prev)/2)
		for i := 0; i < len(prev); i += 2 {
			id := bracketMatchID(r, i/2)
			next = append(next, BracketNode{
				ID:           id,
				RoundIndex:   r,
				SlotIndex:    i / 2,
				Participants: [2]string{TBDName, TBDName},
			})
			sideA, sideB := BracketSideA, BracketSideB
			prev[i].NextMatchID = &id
			prev[i].NextMatchSide = &sideA
			prev[i+1].NextMatchID = &id
			prev[i+1].NextMatchSide = &sideB
		}
		rounds = append(rounds, next)
		prev = next
	}

	advanceByes(rounds)

	var nodes []BracketNode
	for _, r := range rounds {
		nodes = append(nodes, r...)
	}
	return nodes
}

// advanceByes walks rounds in order, resolving matches that are decided
// without play and seeding the advancing name into the linked slot.
func advanceByes(rounds [][]BracketNode) {
	for ri := range rounds {
		for mi := range rounds[ri] {
			node := &rounds[ri][mi]
			adv := autoAdvance(node.Participants)
			if adv == "" {
				continue
			}
			if adv != ByeName {
				winner := adv
				node.Winner = &winner
			}
			if node.NextMatchID == nil {
				continue
			}
			next := &rounds[ri+1][mi/2]
			if *node.NextMatchSide == BracketSideA {
				next.Participants[0] = adv
			} else {
				next.Participants[1] = adv
			}
		}
	}
}

// autoAdvance returns the name advancing from a playless match, or ""
// when the match actually has to be played (or is still TBD).
func autoAdvance(p [2]string) string {
	a, b := p[0], p[1]
	if a == TBDName || b == TBDName {
		return ""
	}
	switch {
	case a == ByeName && b == ByeName:
		return ByeName
	case b == ByeName:
		return a
	case a == ByeName:
		return b
	}
	return ""
}

func bracketMatchID(round, slot int) string {
	return fmt.Sprintf("match-%d-%d", round, slot)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
