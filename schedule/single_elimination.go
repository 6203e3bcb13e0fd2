package schedule

import (
	"fmt"
	"math"
	"sort"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() PairingGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// node is one slot in the bracket between rounds: either a known team, or a
// placeholder for a winner that is not decided at generation time.
type node struct {
	teamID  *int
	decided bool
}

// GeneratePairings seeds teams into a bracket padded to the next power of
// two. Seeds pair high against low (seed i vs seed size-1-i) in round 0, and
// missing opponents become byes whose team advances directly. Later rounds
// are materialized with nil team ids except where a bye advancer is already
// known.
func (g *SingleEliminationGenerator) GeneratePairings(teams []*models.Team) ([]RoundPairing, error) {
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("single elimination requires at least 2 teams, found %d", n)
	}

	ordered := make([]*models.Team, n)
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Seed != ordered[j].Seed {
			return ordered[i].Seed < ordered[j].Seed
		}
		return ordered[i].ID < ordered[j].ID
	})

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	size := 1 << uint(numRounds)

	current := make([]node, size)
	for i := 0; i < size; i++ {
		if i < n {
			id := ordered[i].ID
			current[i] = node{teamID: &id, decided: true}
		} else {
			current[i] = node{decided: true} // empty slot, opponent gets a bye
		}
	}

	// Arrange slots so seed i meets seed size-1-i in round 0 and the top two
	// seeds land in opposite halves of the bracket.
	folded := make([]node, 0, size)
	for _, idx := range bracketOrder(size) {
		folded = append(folded, current[idx])
	}
	current = folded

	rounds := make([]RoundPairing, 0, numRounds)
	for r := 0; r < numRounds; r++ {
		round := RoundPairing{Idx: r, Matches: make([]MatchPairing, 0, len(current)/2)}
		next := make([]node, 0, len(current)/2)

		for i := 0; i < len(current); i += 2 {
			a, b := current[i], current[i+1]

			aKnown := a.decided && a.teamID != nil
			bKnown := b.decided && b.teamID != nil
			aEmpty := a.decided && a.teamID == nil
			bEmpty := b.decided && b.teamID == nil

			switch {
			case aKnown && bEmpty:
				round.Matches = append(round.Matches, MatchPairing{TeamAID: a.teamID, IsBye: true})
				next = append(next, node{teamID: a.teamID, decided: true})
			case bKnown && aEmpty:
				round.Matches = append(round.Matches, MatchPairing{TeamAID: b.teamID, IsBye: true})
				next = append(next, node{teamID: b.teamID, decided: true})
			case aEmpty && bEmpty:
				// Two empty slots can only meet if the bracket math is wrong.
				return nil, fmt.Errorf("two empty slots met in round %d", r)
			default:
				round.Matches = append(round.Matches, MatchPairing{TeamAID: a.teamID, TeamBID: b.teamID})
				next = append(next, node{})
			}
		}

		rounds = append(rounds, round)
		current = next
	}

	return rounds, nil
}

// bracketOrder expands the seed placement recursively: each bracket of size
// 2n interleaves the size-n ordering with its complements, which keeps the
// strongest seeds apart until the last rounds.
func bracketOrder(size int) []int {
	order := []int{0}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		m := len(order)*2 - 1
		for _, s := range order {
			next = append(next, s, m-s)
		}
		order = next
	}
	return order
}
