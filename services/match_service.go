package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/markbrown88/pickleball-app-sub002/engine"
	"github.com/markbrown88/pickleball-app-sub002/live"
	"github.com/markbrown88/pickleball-app-sub002/metrics"
	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
)

// MatchState is the derived lifecycle view of one match. Status and the
// tiebreaker fields come out of the resolver, not a stored column, so reads
// always reflect the current game rows.
type MatchState struct {
	MatchID                int                     `json:"match_id"`
	Status                 models.MatchStatus      `json:"status"`
	TiebreakerStatus       models.TiebreakerStatus `json:"tiebreaker_status"`
	TiebreakerWinnerTeamID *int                    `json:"tiebreaker_winner_team_id,omitempty"`
	ForfeitTeam            *models.Side            `json:"forfeit_team,omitempty"`
	WinnerTeamID           *int                    `json:"winner_team_id,omitempty"`
	IsBye                  bool                    `json:"is_bye"`
	Games                  []*models.Game          `json:"games,omitempty"`
}

type MatchService interface {
	GetMatchState(ctx context.Context, matchID int) (*MatchState, error)
	// SetForfeit marks the side as forfeiting. Terminal and unconditional:
	// the opposing team wins no matter how many games were played.
	SetForfeit(ctx context.Context, matchID int, side models.Side) (*MatchState, error)
	// ScheduleTiebreaker materializes the TIEBREAKER game for a match
	// waiting on one (tied_requires_tiebreaker).
	ScheduleTiebreaker(ctx context.Context, matchID int) (*MatchState, error)
}

type matchService struct {
	db               *sql.DB
	matchRepo        repositories.MatchRepository
	roundRepo        repositories.RoundRepository
	gameRepo         repositories.GameRepository
	submissionRepo   repositories.SubmissionRepository
	hub              *live.Hub
	logger           *slog.Logger
	includeOverrides bool
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	gameRepo repositories.GameRepository,
	submissionRepo repositories.SubmissionRepository,
	hub *live.Hub,
	logger *slog.Logger,
	includeOverrides bool,
) MatchService {
	return &matchService{
		db:               db,
		matchRepo:        matchRepo,
		roundRepo:        roundRepo,
		gameRepo:         gameRepo,
		submissionRepo:   submissionRepo,
		hub:              hub,
		logger:           logger,
		includeOverrides: includeOverrides,
	}
}

func (s *matchService) GetMatchState(ctx context.Context, matchID int) (*MatchState, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	games, err := s.gameRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	gameIDs := make([]int, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	subs, err := s.submissionRepo.ListByGameIDs(ctx, nil, gameIDs)
	if err != nil {
		return nil, err
	}

	res := engine.ResolveMatch(buildGameScores(games, subs), match.ForfeitTeam, match.IsBye, s.includeOverrides)
	return &MatchState{
		MatchID:                match.ID,
		Status:                 res.Status,
		TiebreakerStatus:       res.TiebreakerStatus,
		TiebreakerWinnerTeamID: match.TiebreakerWinnerTeamID,
		ForfeitTeam:            match.ForfeitTeam,
		WinnerTeamID:           winnerTeamID(match, res.WinnerSide),
		IsBye:                  match.IsBye,
		Games:                  games,
	}, nil
}

func (s *matchService) SetForfeit(ctx context.Context, matchID int, side models.Side) (*MatchState, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: side must be A or B", ErrValidationFailed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin forfeit transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	state, stopID, err := s.setForfeitInTx(ctx, tx, matchID, side)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit forfeit transaction: %w", err)
	}

	metrics.MatchesCompleted.WithLabelValues("forfeit").Inc()
	s.logger.Info("match forfeited",
		slog.Int("match_id", matchID),
		slog.String("forfeit_team", string(side)),
	)
	s.hub.BroadcastToStop(stopID, live.Event{Type: live.EventMatchCompleted, Payload: state})
	return state, nil
}

func (s *matchService) setForfeitInTx(ctx context.Context, tx *sql.Tx, matchID int, side models.Side) (*MatchState, int, error) {
	match, err := s.matchRepo.GetForUpdate(ctx, tx, matchID)
	if err != nil {
		return nil, 0, mapRepoNotFound(err)
	}
	if match.IsBye {
		return nil, 0, ErrByeMatch
	}
	if match.ForfeitTeam != nil {
		return nil, 0, ErrMatchAlreadyDecided
	}

	res, err := s.resolveInTx(ctx, tx, match)
	if err != nil {
		return nil, 0, err
	}
	if res.Status == models.MatchComplete {
		return nil, 0, ErrMatchAlreadyDecided
	}

	if err := s.matchRepo.UpdateForfeit(ctx, tx, matchID, side); err != nil {
		return nil, 0, err
	}

	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		return nil, 0, err
	}

	opponent := side.Opponent()
	state := &MatchState{
		MatchID:      match.ID,
		Status:       models.MatchForfeited,
		ForfeitTeam:  &side,
		WinnerTeamID: match.TeamID(opponent),
		IsBye:        false,
	}
	return state, round.StopID, nil
}

func (s *matchService) ScheduleTiebreaker(ctx context.Context, matchID int) (*MatchState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tiebreaker transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	state, stopID, err := s.scheduleTiebreakerInTx(ctx, tx, matchID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tiebreaker transaction: %w", err)
	}

	s.logger.Info("tiebreaker scheduled", slog.Int("match_id", matchID))
	s.hub.BroadcastToStop(stopID, live.Event{Type: live.EventScheduleGenerated, Payload: state})
	return state, nil
}

func (s *matchService) scheduleTiebreakerInTx(ctx context.Context, tx *sql.Tx, matchID int) (*MatchState, int, error) {
	match, err := s.matchRepo.GetForUpdate(ctx, tx, matchID)
	if err != nil {
		return nil, 0, mapRepoNotFound(err)
	}
	if match.ForfeitTeam != nil {
		return nil, 0, ErrMatchAlreadyDecided
	}

	res, err := s.resolveInTx(ctx, tx, match)
	if err != nil {
		return nil, 0, err
	}
	if res.TiebreakerStatus != models.TiebreakRequiresTiebreaker {
		return nil, 0, ErrTiebreakerNotRequired
	}

	tb := &models.Game{MatchID: matchID, Slot: models.SlotTiebreaker}
	if err := s.gameRepo.Create(ctx, tx, tb); err != nil {
		if errors.Is(err, repositories.ErrGameSlotConflict) {
			return nil, 0, ErrTiebreakerNotRequired
		}
		return nil, 0, err
	}
	if err := s.matchRepo.UpdateTiebreaker(ctx, tx, matchID, models.TiebreakPending, nil); err != nil {
		return nil, 0, err
	}

	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		return nil, 0, err
	}

	state := &MatchState{
		MatchID:          match.ID,
		Status:           models.MatchInProgress,
		TiebreakerStatus: models.TiebreakPending,
		IsBye:            match.IsBye,
	}
	return state, round.StopID, nil
}

func (s *matchService) resolveInTx(ctx context.Context, tx *sql.Tx, match *models.Match) (engine.MatchResolution, error) {
	games, err := s.gameRepo.ListByMatch(ctx, tx, match.ID)
	if err != nil {
		return engine.MatchResolution{}, err
	}
	gameIDs := make([]int, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	subs, err := s.submissionRepo.ListByGameIDs(ctx, tx, gameIDs)
	if err != nil {
		return engine.MatchResolution{}, err
	}
	return engine.ResolveMatch(buildGameScores(games, subs), match.ForfeitTeam, match.IsBye, s.includeOverrides), nil
}
