package schedule

import (
	"github.com/markbrown88/pickleball-app-sub002/models"
)

// MatchPairing is one planned match within a round. A bye pairing carries the
// resting team in TeamAID and no opponent. Elimination placeholders whose
// feeder matches are undecided leave one or both team ids nil.
type MatchPairing struct {
	TeamAID *int
	TeamBID *int
	IsBye   bool
}

// RoundPairing is the planned set of matches for one round. Idx is contiguous
// from 0 within the generated scope.
type RoundPairing struct {
	Idx     int
	Matches []MatchPairing
}

// PairingGenerator turns an ordered team set into rounds of matches. Output
// must be deterministic for a fixed team order so that regeneration with
// overwrite produces the identical structure.
type PairingGenerator interface {
	GeneratePairings(teams []*models.Team) ([]RoundPairing, error)

	Name() string
}

// ForFormat selects the generator for a bracket's stored format.
func ForFormat(format models.BracketFormat) (PairingGenerator, bool) {
	switch format {
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), true
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), true
	}
	return nil, false
}
