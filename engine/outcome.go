package engine

import (
	"github.com/markbrown88/pickleball-app-sub002/models"
)

// GameOutcome is the single tagged representation of a game's state, replacing
// scattered nullable-score and boolean-flag checks. Exactly one variant holds:
//
//	pending:    no submissions
//	one_sided:  one side reported, waiting for the opponent
//	confirmed:  both sides reported and agreed (game complete)
//	mismatched: both sides reported and disagreed (retained for admin)
//	complete:   canonical scores set without a confirmed pair (admin override)
type GameOutcome struct {
	State models.GameState

	// one_sided
	SubmittedSide models.Side

	// confirmed / complete
	TeamAScore int
	TeamBScore int

	// mismatched
	SubmissionA *models.ScoreSubmission
	SubmissionB *models.ScoreSubmission
}

// ScoresMatch checks the symmetry condition between the two sides' reports:
// each side's own score must equal the other side's opponent score. The check
// is symmetric in its arguments.
func ScoresMatch(a, b *models.ScoreSubmission) bool {
	return a.MyScore == b.OpponentScore && a.OpponentScore == b.MyScore
}

// Canonical maps a matching pair of submissions onto side A's frame of
// reference: team A's score is what side A reported for itself.
func Canonical(subA *models.ScoreSubmission) (teamAScore, teamBScore int) {
	return subA.MyScore, subA.OpponentScore
}

// ComputeOutcome derives the tagged outcome for a game from its canonical
// fields and the submissions on record.
func ComputeOutcome(game *models.Game, subs []*models.ScoreSubmission) GameOutcome {
	var subA, subB *models.ScoreSubmission
	for _, s := range subs {
		switch s.Side {
		case models.SideA:
			subA = s
		case models.SideB:
			subB = s
		}
	}

	if game.IsComplete {
		out := GameOutcome{State: models.GameComplete}
		if game.TeamAScore != nil {
			out.TeamAScore = *game.TeamAScore
		}
		if game.TeamBScore != nil {
			out.TeamBScore = *game.TeamBScore
		}
		if subA != nil && subB != nil && ScoresMatch(subA, subB) {
			out.State = models.GameConfirmed
		}
		return out
	}

	switch {
	case subA == nil && subB == nil:
		return GameOutcome{State: models.GamePending}
	case subA != nil && subB != nil:
		return GameOutcome{
			State:       models.GameMismatched,
			SubmissionA: subA,
			SubmissionB: subB,
		}
	case subA != nil:
		return GameOutcome{State: models.GameOneSided, SubmittedSide: models.SideA}
	default:
		return GameOutcome{State: models.GameOneSided, SubmittedSide: models.SideB}
	}
}

// Overridden reports whether a complete game got its canonical scores from an
// admin override rather than a confirmed submission pair.
func Overridden(game *models.Game, subs []*models.ScoreSubmission) bool {
	if !game.IsComplete {
		return false
	}
	var subA, subB *models.ScoreSubmission
	for _, s := range subs {
		switch s.Side {
		case models.SideA:
			subA = s
		case models.SideB:
			subB = s
		}
	}
	return subA == nil || subB == nil || !ScoresMatch(subA, subB)
}
