package services

import (
	"errors"

	"github.com/markbrown88/pickleball-app-sub002/engine"
	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
)

// buildGameScores flattens game rows plus their submissions into the pure
// resolver's input shape.
func buildGameScores(games []*models.Game, subs []*models.ScoreSubmission) []engine.GameScore {
	subsByGame := make(map[int][]*models.ScoreSubmission)
	for _, sub := range subs {
		subsByGame[sub.GameID] = append(subsByGame[sub.GameID], sub)
	}

	scores := make([]engine.GameScore, 0, len(games))
	for _, g := range games {
		gs := engine.GameScore{
			Slot:       g.Slot,
			Complete:   g.IsComplete,
			Started:    g.Started() || len(subsByGame[g.ID]) > 0,
			Overridden: engine.Overridden(g, subsByGame[g.ID]),
		}
		if g.TeamAScore != nil {
			gs.ScoreA = *g.TeamAScore
		}
		if g.TeamBScore != nil {
			gs.ScoreB = *g.TeamBScore
		}
		scores = append(scores, gs)
	}
	return scores
}

// winnerTeamID maps a winning side onto the match's team ids.
func winnerTeamID(match *models.Match, side *models.Side) *int {
	if side == nil {
		return nil
	}
	return match.TeamID(*side)
}

// mapRepoNotFound translates repository not-found sentinels into the service
// taxonomy; anything else passes through for the 500 path.
func mapRepoNotFound(err error) error {
	switch {
	case errors.Is(err, repositories.ErrStopNotFound):
		return ErrStopNotFound
	case errors.Is(err, repositories.ErrBracketNotFound):
		return ErrBracketNotFound
	case errors.Is(err, repositories.ErrRoundNotFound):
		return ErrRoundNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	default:
		return err
	}
}
