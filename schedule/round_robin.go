package schedule

import (
	"fmt"
	"sort"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() PairingGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// GeneratePairings builds a single round robin with the circle method: team 0
// stays fixed while the remaining positions rotate one step per round. With an
// odd team count a phantom slot is appended and whoever draws it rests that
// round as a bye. Teams are ordered by seed then id before pairing, so the
// same team set always yields the same pairing matrix.
func (g *RoundRobinGenerator) GeneratePairings(teams []*models.Team) ([]RoundPairing, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("round robin requires at least 2 teams, found %d", len(teams))
	}

	ordered := make([]*models.Team, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Seed != ordered[j].Seed {
			return ordered[i].Seed < ordered[j].Seed
		}
		return ordered[i].ID < ordered[j].ID
	})

	// nil marks the phantom bye slot.
	ring := make([]*models.Team, 0, len(ordered)+1)
	ring = append(ring, ordered...)
	if len(ring)%2 != 0 {
		ring = append(ring, nil)
	}

	n := len(ring)
	rounds := make([]RoundPairing, 0, n-1)

	for r := 0; r < n-1; r++ {
		round := RoundPairing{Idx: r, Matches: make([]MatchPairing, 0, n/2)}

		for i := 0; i < n/2; i++ {
			home := ring[i]
			away := ring[n-1-i]

			switch {
			case home == nil:
				teamID := away.ID
				round.Matches = append(round.Matches, MatchPairing{TeamAID: &teamID, IsBye: true})
			case away == nil:
				teamID := home.ID
				round.Matches = append(round.Matches, MatchPairing{TeamAID: &teamID, IsBye: true})
			default:
				aID, bID := home.ID, away.ID
				round.Matches = append(round.Matches, MatchPairing{TeamAID: &aID, TeamBID: &bID})
			}
		}
		rounds = append(rounds, round)

		// Rotate everything except position 0 one step clockwise.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	return rounds, nil
}
