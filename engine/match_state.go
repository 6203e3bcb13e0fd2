package engine

import (
	"github.com/markbrown88/pickleball-app-sub002/models"
)

// GameScore is the per-game input to match resolution, flattened from a game
// row plus its submissions.
type GameScore struct {
	Slot       models.Slot
	ScoreA     int
	ScoreB     int
	Complete   bool
	Started    bool
	Overridden bool
}

// MatchResolution is the aggregate decision for a match: its lifecycle
// status, the tiebreaker protocol state, and the winning side when terminal.
type MatchResolution struct {
	Status           models.MatchStatus
	TiebreakerStatus models.TiebreakerStatus
	WinnerSide       *models.Side
}

const standardGameCount = 4

// ResolveMatch aggregates game outcomes (or a forfeit) into the match's
// derived state. A forfeit always wins over partial game results. A bye match
// is reported complete with no winner; whether a bye counts as a win belongs
// to the standings consumer.
func ResolveMatch(games []GameScore, forfeit *models.Side, isBye bool, includeOverrides bool) MatchResolution {
	if isBye {
		return MatchResolution{Status: models.MatchComplete, TiebreakerStatus: models.TiebreakNone}
	}
	if forfeit != nil {
		winner := forfeit.Opponent()
		return MatchResolution{
			Status:           models.MatchForfeited,
			TiebreakerStatus: models.TiebreakNone,
			WinnerSide:       &winner,
		}
	}

	var standard, tiebreakers []GameScore
	started := false
	for _, g := range games {
		if g.Started || g.Complete {
			started = true
		}
		if g.Slot == models.SlotTiebreaker {
			tiebreakers = append(tiebreakers, g)
		} else {
			standard = append(standard, g)
		}
	}

	winsA, winsB, completed := 0, 0, 0
	for _, g := range standard {
		if !g.Complete {
			continue
		}
		completed++
		switch {
		case g.ScoreA > g.ScoreB:
			winsA++
		case g.ScoreB > g.ScoreA:
			winsB++
		}
	}

	base := models.MatchNotStarted
	if started {
		base = models.MatchInProgress
	}

	// A side with 3 standard wins has decided the match before a 2-2 tie is
	// possible; the tiebreaker protocol never applies.
	if winsA >= 3 {
		return terminal(models.SideA, models.TiebreakNone)
	}
	if winsB >= 3 {
		return terminal(models.SideB, models.TiebreakNone)
	}

	if completed < standardGameCount {
		return MatchResolution{Status: base, TiebreakerStatus: models.TiebreakNone}
	}

	// All four standard games decided. 2-2 is the only split left that did
	// not already produce 3 wins (ties inside a game count for neither side
	// and leave the match undecidable by wins alone).
	if winsA != 2 || winsB != 2 {
		return MatchResolution{Status: base, TiebreakerStatus: models.TiebreakNone}
	}

	return resolveTiebreaker(standard, tiebreakers, base, includeOverrides)
}

// resolveTiebreaker decides a 2-2 match: first by aggregate point
// differential, then by a dedicated tiebreaker game.
func resolveTiebreaker(standard, tiebreakers []GameScore, base models.MatchStatus, includeOverrides bool) MatchResolution {
	pointsA, pointsB := 0, 0
	for _, g := range standard {
		if g.Overridden && !includeOverrides {
			continue
		}
		pointsA += g.ScoreA
		pointsB += g.ScoreB
	}

	if pointsA != pointsB {
		if pointsA > pointsB {
			return terminal(models.SideA, models.TiebreakDecidedPoints)
		}
		return terminal(models.SideB, models.TiebreakDecidedPoints)
	}

	if len(tiebreakers) == 0 {
		return MatchResolution{Status: base, TiebreakerStatus: models.TiebreakRequiresTiebreaker}
	}

	tb := tiebreakers[0]
	if !tb.Complete {
		return MatchResolution{Status: base, TiebreakerStatus: models.TiebreakPending}
	}
	if tb.ScoreA > tb.ScoreB {
		return terminal(models.SideA, models.TiebreakDecidedTiebreaker)
	}
	return terminal(models.SideB, models.TiebreakDecidedTiebreaker)
}

func terminal(winner models.Side, tb models.TiebreakerStatus) MatchResolution {
	return MatchResolution{Status: models.MatchComplete, TiebreakerStatus: tb, WinnerSide: &winner}
}
