package services

import (
	"context"
	"fmt"
	"time"

	"github.com/markbrown88/pickleball-app-sub002/engine"
	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
)

// Lineup submission states per (match, side).
const (
	LineupNotSubmitted = "NOT_SUBMITTED"
	LineupSubmitted    = "SUBMITTED"
	LineupLocked       = "LOCKED"
)

// LineupState is one side's lineup with its evaluated lock window.
type LineupState struct {
	MatchID     int                     `json:"match_id"`
	Side        models.Side             `json:"side"`
	State       string                  `json:"state"`
	Editable    bool                    `json:"editable"`
	LockReasons []engine.LockReason     `json:"lock_reasons,omitempty"`
	Lineup      *models.Lineup          `json:"lineup,omitempty"`
	Slots       []engine.SlotAssignment `json:"slots,omitempty"`
}

type MatchLineups struct {
	MatchID        int          `json:"match_id"`
	LineupDeadline *time.Time   `json:"lineup_deadline,omitempty"`
	SideA          *LineupState `json:"side_a"`
	SideB          *LineupState `json:"side_b"`
}

type LineupService interface {
	SubmitLineup(ctx context.Context, matchID int, side models.Side, playerIDs [4]int) (*LineupState, error)
	GetLineups(ctx context.Context, matchID int) (*MatchLineups, error)
}

type lineupService struct {
	matchRepo  repositories.MatchRepository
	roundRepo  repositories.RoundRepository
	gameRepo   repositories.GameRepository
	lineupRepo repositories.LineupRepository
	roster     RosterProvider
	now        func() time.Time
}

func NewLineupService(
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	gameRepo repositories.GameRepository,
	lineupRepo repositories.LineupRepository,
	roster RosterProvider,
) LineupService {
	return &lineupService{
		matchRepo:  matchRepo,
		roundRepo:  roundRepo,
		gameRepo:   gameRepo,
		lineupRepo: lineupRepo,
		roster:     roster,
		now:        time.Now,
	}
}

// SubmitLineup creates or overwrites the side's lineup for a match. Both lock
// reasons are evaluated at write time against stored state; no timers are
// involved. Positions are fixed as [man1, man2, woman1, woman2].
func (s *lineupService) SubmitLineup(ctx context.Context, matchID int, side models.Side, playerIDs [4]int) (*LineupState, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: side must be A or B", ErrValidationFailed)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if match.IsBye {
		return nil, ErrByeMatch
	}
	if match.ForfeitTeam != nil {
		return nil, ErrMatchFinished
	}

	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	games, err := s.gameRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}

	lock := engine.EvaluateLineupLock(round.LineupDeadline, games, s.now())
	if !lock.Editable {
		return nil, fmt.Errorf("%w: %v", ErrLineupLocked, lock.Reasons)
	}

	teamID := match.TeamID(side)
	if teamID == nil {
		return nil, fmt.Errorf("%w: match has no team on side %s yet", ErrValidationFailed, side)
	}

	rosterPlayers, err := s.roster.Roster(ctx, round.StopID, *teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}
	if err := engine.ValidateLineup(playerIDs, rosterPlayers); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLineupInvalid, err)
	}

	lineup := &models.Lineup{
		MatchID:  matchID,
		Side:     side,
		Man1ID:   playerIDs[0],
		Man2ID:   playerIDs[1],
		Woman1ID: playerIDs[2],
		Woman2ID: playerIDs[3],
	}
	if err := s.lineupRepo.Upsert(ctx, nil, lineup); err != nil {
		return nil, err
	}

	return s.lineupState(matchID, side, lineup, lock), nil
}

func (s *lineupService) GetLineups(ctx context.Context, matchID int) (*MatchLineups, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if match.IsBye {
		return nil, ErrByeMatch
	}

	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	games, err := s.gameRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	lineups, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	lock := engine.EvaluateLineupLock(round.LineupDeadline, games, s.now())
	if match.ForfeitTeam != nil {
		lock.Editable = false
		lock.HardLocked = true
	}

	byside := make(map[models.Side]*models.Lineup, 2)
	for _, l := range lineups {
		byside[l.Side] = l
	}

	return &MatchLineups{
		MatchID:        matchID,
		LineupDeadline: round.LineupDeadline,
		SideA:          s.lineupState(matchID, models.SideA, byside[models.SideA], lock),
		SideB:          s.lineupState(matchID, models.SideB, byside[models.SideB], lock),
	}, nil
}

func (s *lineupService) lineupState(matchID int, side models.Side, lineup *models.Lineup, lock engine.LineupLock) *LineupState {
	state := &LineupState{
		MatchID:     matchID,
		Side:        side,
		State:       LineupNotSubmitted,
		Editable:    lock.Editable,
		LockReasons: lock.Reasons,
	}
	if lineup != nil {
		state.State = LineupSubmitted
		state.Lineup = lineup
		state.Slots = engine.DeriveSlots(lineup)
	}
	if !lock.Editable {
		state.State = LineupLocked
	}
	return state
}
