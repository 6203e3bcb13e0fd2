package schedule

import (
	"testing"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

func TestSingleEliminationPowerOfTwo(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	rounds, err := gen.GeneratePairings(makeTeams(8))
	if err != nil {
		t.Fatalf("GeneratePairings() error: %v", err)
	}

	if len(rounds) != 3 {
		t.Fatalf("got %d rounds, want 3", len(rounds))
	}
	wantMatches := []int{4, 2, 1}
	for i, round := range rounds {
		if len(round.Matches) != wantMatches[i] {
			t.Errorf("round %d has %d matches, want %d", i, len(round.Matches), wantMatches[i])
		}
	}

	// Top seed meets bottom seed in round 0.
	opener := rounds[0].Matches[0]
	if opener.TeamAID == nil || opener.TeamBID == nil {
		t.Fatal("round 0 match must have both teams known")
	}
	if *opener.TeamAID != 1 || *opener.TeamBID != 8 {
		t.Errorf("opener = %d vs %d, want 1 vs 8", *opener.TeamAID, *opener.TeamBID)
	}

	// Later rounds are placeholders.
	final := rounds[2].Matches[0]
	if final.TeamAID != nil || final.TeamBID != nil {
		t.Error("final must be a placeholder until feeders decide")
	}
}

func TestSingleEliminationPadsWithByes(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	rounds, err := gen.GeneratePairings(makeTeams(6))
	if err != nil {
		t.Fatalf("GeneratePairings() error: %v", err)
	}

	// 6 teams pad to a bracket of 8: 3 rounds, 4+2+1 matches.
	if len(rounds) != 3 {
		t.Fatalf("got %d rounds, want 3", len(rounds))
	}

	byeTeams := make(map[int]bool)
	playing := 0
	for _, m := range rounds[0].Matches {
		if m.IsBye {
			if m.TeamAID == nil {
				t.Fatal("bye must carry the advancing team")
			}
			byeTeams[*m.TeamAID] = true
		} else {
			playing++
		}
	}
	// Seeds 1 and 2 draw the two empty slots.
	if len(byeTeams) != 2 || !byeTeams[1] || !byeTeams[2] {
		t.Errorf("bye teams = %v, want seeds 1 and 2", byeTeams)
	}
	if playing != 2 {
		t.Errorf("got %d played matches in round 0, want 2", playing)
	}

	// A bye advancer is already known in round 1.
	known := 0
	for _, m := range rounds[1].Matches {
		if m.TeamAID != nil {
			known++
		}
		if m.TeamBID != nil {
			known++
		}
	}
	if known != 2 {
		t.Errorf("round 1 has %d known slots, want 2", known)
	}
}

func TestSingleEliminationTwoTeams(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	rounds, err := gen.GeneratePairings(makeTeams(2))
	if err != nil {
		t.Fatalf("GeneratePairings() error: %v", err)
	}
	if len(rounds) != 1 || len(rounds[0].Matches) != 1 {
		t.Fatalf("got %d rounds, want a single round with one match", len(rounds))
	}
	m := rounds[0].Matches[0]
	if m.IsBye || m.TeamAID == nil || m.TeamBID == nil {
		t.Error("two teams must meet directly")
	}
}

func TestForFormat(t *testing.T) {
	if g, ok := ForFormat(models.FormatRoundRobin); !ok || g.Name() != "RoundRobin" {
		t.Error("round_robin must map to the round robin generator")
	}
	if g, ok := ForFormat(models.FormatSingleElimination); !ok || g.Name() != "SingleElimination" {
		t.Error("single_elimination must map to the elimination generator")
	}
	if _, ok := ForFormat(models.BracketFormat("double_elimination")); ok {
		t.Error("unknown formats must not resolve")
	}
}
