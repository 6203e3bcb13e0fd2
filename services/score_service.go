package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/markbrown88/pickleball-app-sub002/engine"
	"github.com/markbrown88/pickleball-app-sub002/live"
	"github.com/markbrown88/pickleball-app-sub002/metrics"
	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
)

// Submission result statuses returned to captains.
const (
	ScoreWaitingForOpponent = "waiting_for_opponent"
	ScoreConfirmed          = "confirmed"
	ScoreMismatch           = "mismatch"
)

type SubmitScoreResult struct {
	Status             string                  `json:"status"`
	Game               *models.Game            `json:"game"`
	OpponentSubmission *models.ScoreSubmission `json:"opponent_submission,omitempty"`
	Match              *MatchState             `json:"match,omitempty"`
}

type ScoreService interface {
	SubmitScore(ctx context.Context, gameID int, side models.Side, myScore, opponentScore int) (*SubmitScoreResult, error)
	StartGame(ctx context.Context, gameID int) (*models.Game, error)
	// ResolveMismatch is the admin override for a MISMATCHED game: it sets
	// the canonical scores (team A's perspective) and completes the game.
	// Both captains' original submissions stay on record.
	ResolveMismatch(ctx context.Context, gameID int, teamAScore, teamBScore int) (*SubmitScoreResult, error)
}

type scoreService struct {
	db               *sql.DB
	matchRepo        repositories.MatchRepository
	roundRepo        repositories.RoundRepository
	gameRepo         repositories.GameRepository
	submissionRepo   repositories.SubmissionRepository
	hub              *live.Hub
	logger           *slog.Logger
	includeOverrides bool
	now              func() time.Time
}

func NewScoreService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	gameRepo repositories.GameRepository,
	submissionRepo repositories.SubmissionRepository,
	hub *live.Hub,
	logger *slog.Logger,
	includeOverrides bool,
) ScoreService {
	return &scoreService{
		db:               db,
		matchRepo:        matchRepo,
		roundRepo:        roundRepo,
		gameRepo:         gameRepo,
		submissionRepo:   submissionRepo,
		hub:              hub,
		logger:           logger,
		includeOverrides: includeOverrides,
		now:              time.Now,
	}
}

// SubmitScore records one side's report and, on the second report, reconciles
// the pair inside a single transaction. The match row is locked before the
// game row (every writer takes locks in that order), so two captains racing
// on the same game serialize and the second submission always sees the first.
func (s *scoreService) SubmitScore(ctx context.Context, gameID int, side models.Side, myScore, opponentScore int) (*SubmitScoreResult, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: side must be A or B", ErrValidationFailed)
	}
	if myScore < 0 || opponentScore < 0 {
		return nil, ErrScoreInvalid
	}

	peek, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin score transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	result, err := s.submitScoreInTx(ctx, tx, peek.MatchID, gameID, side, myScore, opponentScore)
	if err != nil {
		_ = tx.Rollback()
		metrics.ScoreSubmissions.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit score transaction: %w", err)
	}

	metrics.ScoreSubmissions.WithLabelValues(result.Status).Inc()
	s.publishResult(ctx, result)
	return result, nil
}

func (s *scoreService) submitScoreInTx(ctx context.Context, exec repositories.SQLExecutor, matchID, gameID int, side models.Side, myScore, opponentScore int) (*SubmitScoreResult, error) {
	match, err := s.matchRepo.GetForUpdate(ctx, exec, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if match.ForfeitTeam != nil {
		return nil, ErrMatchFinished
	}

	game, err := s.gameRepo.GetForUpdate(ctx, exec, gameID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if game.IsComplete {
		return nil, fmt.Errorf("%w: game %d", ErrGameAlreadyComplete, gameID)
	}

	// Reject mutations on a match that is already terminally decided.
	if res, err := s.resolveInTx(ctx, exec, match); err != nil {
		return nil, err
	} else if res.Status == models.MatchComplete {
		return nil, ErrMatchFinished
	}

	sub := &models.ScoreSubmission{
		GameID:        gameID,
		Side:          side,
		MyScore:       myScore,
		OpponentScore: opponentScore,
	}
	if err := s.submissionRepo.Create(ctx, exec, sub); err != nil {
		if errors.Is(err, repositories.ErrSubmissionDuplicate) {
			return nil, ErrDuplicateSubmission
		}
		return nil, err
	}

	// The first report implicitly starts the game, which also hard-locks
	// both lineups.
	if err := s.gameRepo.SetStarted(ctx, exec, gameID, s.now()); err != nil {
		return nil, err
	}

	subs, err := s.submissionRepo.ListByGame(ctx, exec, gameID)
	if err != nil {
		return nil, err
	}
	game, err = s.gameRepo.GetForUpdate(ctx, exec, gameID)
	if err != nil {
		return nil, err
	}
	if len(subs) < 2 {
		return &SubmitScoreResult{Status: ScoreWaitingForOpponent, Game: game}, nil
	}

	var subA, subB *models.ScoreSubmission
	for _, sc := range subs {
		switch sc.Side {
		case models.SideA:
			subA = sc
		case models.SideB:
			subB = sc
		}
	}

	if !engine.ScoresMatch(subA, subB) {
		// A mismatch is a legitimate pending outcome: both reports stay on
		// record for the admin, the game stays incomplete.
		opponent := subA
		if side == models.SideA {
			opponent = subB
		}
		return &SubmitScoreResult{Status: ScoreMismatch, Game: game, OpponentSubmission: opponent}, nil
	}

	teamAScore, teamBScore := engine.Canonical(subA)
	if err := s.gameRepo.UpdateCanonical(ctx, exec, gameID, teamAScore, teamBScore, s.now()); err != nil {
		return nil, err
	}

	matchState, err := s.progressMatch(ctx, exec, match)
	if err != nil {
		return nil, err
	}
	game, err = s.gameRepo.GetForUpdate(ctx, exec, gameID)
	if err != nil {
		return nil, err
	}
	return &SubmitScoreResult{Status: ScoreConfirmed, Game: game, Match: matchState}, nil
}

// StartGame stamps startedAt explicitly (courtside start). First trigger
// wins; starting an already started game is a no-op.
func (s *scoreService) StartGame(ctx context.Context, gameID int) (*models.Game, error) {
	peek, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	game, err := s.startGameInTx(ctx, tx, peek.MatchID, gameID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit start transaction: %w", err)
	}

	s.broadcastForMatch(ctx, game.MatchID, live.Event{Type: live.EventGameStarted, Payload: game})
	return game, nil
}

func (s *scoreService) startGameInTx(ctx context.Context, exec repositories.SQLExecutor, matchID, gameID int) (*models.Game, error) {
	match, err := s.matchRepo.GetForUpdate(ctx, exec, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if match.ForfeitTeam != nil {
		return nil, ErrMatchFinished
	}

	game, err := s.gameRepo.GetForUpdate(ctx, exec, gameID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if game.IsComplete {
		return nil, fmt.Errorf("%w: game %d", ErrGameAlreadyComplete, gameID)
	}

	if err := s.gameRepo.SetStarted(ctx, exec, gameID, s.now()); err != nil {
		return nil, err
	}
	return s.gameRepo.GetForUpdate(ctx, exec, gameID)
}

func (s *scoreService) ResolveMismatch(ctx context.Context, gameID int, teamAScore, teamBScore int) (*SubmitScoreResult, error) {
	if teamAScore < 0 || teamBScore < 0 {
		return nil, ErrScoreInvalid
	}

	peek, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin resolve transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	result, err := s.resolveMismatchInTx(ctx, tx, peek.MatchID, gameID, teamAScore, teamBScore)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolve transaction: %w", err)
	}

	s.publishResult(ctx, result)
	return result, nil
}

func (s *scoreService) resolveMismatchInTx(ctx context.Context, exec repositories.SQLExecutor, matchID, gameID, teamAScore, teamBScore int) (*SubmitScoreResult, error) {
	match, err := s.matchRepo.GetForUpdate(ctx, exec, matchID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if match.ForfeitTeam != nil {
		return nil, ErrMatchFinished
	}

	game, err := s.gameRepo.GetForUpdate(ctx, exec, gameID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}
	if game.IsComplete {
		return nil, fmt.Errorf("%w: game %d", ErrGameAlreadyComplete, gameID)
	}

	subs, err := s.submissionRepo.ListByGame(ctx, exec, gameID)
	if err != nil {
		return nil, err
	}
	if engine.ComputeOutcome(game, subs).State != models.GameMismatched {
		return nil, ErrGameNotMismatched
	}

	if err := s.gameRepo.UpdateCanonical(ctx, exec, gameID, teamAScore, teamBScore, s.now()); err != nil {
		return nil, err
	}
	matchState, err := s.progressMatch(ctx, exec, match)
	if err != nil {
		return nil, err
	}
	game, err = s.gameRepo.GetForUpdate(ctx, exec, gameID)
	if err != nil {
		return nil, err
	}
	return &SubmitScoreResult{Status: ScoreConfirmed, Game: game, Match: matchState}, nil
}

// resolveInTx derives the match's current state from the rows visible to the
// transaction.
func (s *scoreService) resolveInTx(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (engine.MatchResolution, error) {
	games, err := s.gameRepo.ListByMatch(ctx, exec, match.ID)
	if err != nil {
		return engine.MatchResolution{}, err
	}
	gameIDs := make([]int, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	subs, err := s.submissionRepo.ListByGameIDs(ctx, exec, gameIDs)
	if err != nil {
		return engine.MatchResolution{}, err
	}
	return engine.ResolveMatch(buildGameScores(games, subs), match.ForfeitTeam, match.IsBye, s.includeOverrides), nil
}

// progressMatch re-derives the match state after a game completed and
// persists the tiebreaker fields. A 2-2 equal-points tie materializes the
// TIEBREAKER game lazily inside the same transaction, moving the match
// straight to tied_pending.
func (s *scoreService) progressMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (*MatchState, error) {
	res, err := s.resolveInTx(ctx, exec, match)
	if err != nil {
		return nil, err
	}

	if res.TiebreakerStatus == models.TiebreakRequiresTiebreaker {
		tb := &models.Game{MatchID: match.ID, Slot: models.SlotTiebreaker}
		if err := s.gameRepo.Create(ctx, exec, tb); err != nil {
			if !errors.Is(err, repositories.ErrGameSlotConflict) {
				return nil, err
			}
		} else {
			res.TiebreakerStatus = models.TiebreakPending
		}
	}

	var tbWinner *int
	switch res.TiebreakerStatus {
	case models.TiebreakDecidedPoints, models.TiebreakDecidedTiebreaker:
		tbWinner = winnerTeamID(match, res.WinnerSide)
	}
	if err := s.matchRepo.UpdateTiebreaker(ctx, exec, match.ID, res.TiebreakerStatus, tbWinner); err != nil {
		return nil, err
	}

	state := &MatchState{
		MatchID:                match.ID,
		Status:                 res.Status,
		TiebreakerStatus:       res.TiebreakerStatus,
		TiebreakerWinnerTeamID: tbWinner,
		ForfeitTeam:            match.ForfeitTeam,
		WinnerTeamID:           winnerTeamID(match, res.WinnerSide),
		IsBye:                  match.IsBye,
	}
	if res.Status == models.MatchComplete {
		via := "wins"
		switch res.TiebreakerStatus {
		case models.TiebreakDecidedPoints:
			via = "points"
		case models.TiebreakDecidedTiebreaker:
			via = "tiebreaker"
		}
		metrics.MatchesCompleted.WithLabelValues(via).Inc()
		s.logger.Info("match completed",
			slog.Int("match_id", match.ID),
			slog.String("via", via),
		)
	}
	return state, nil
}

func (s *scoreService) publishResult(ctx context.Context, result *SubmitScoreResult) {
	if result.Game == nil {
		return
	}
	switch result.Status {
	case ScoreConfirmed:
		s.broadcastForMatch(ctx, result.Game.MatchID, live.Event{Type: live.EventGameConfirmed, Payload: result.Game})
		if result.Match != nil && (result.Match.Status == models.MatchComplete || result.Match.Status == models.MatchForfeited) {
			s.broadcastForMatch(ctx, result.Game.MatchID, live.Event{Type: live.EventMatchCompleted, Payload: result.Match})
		}
	case ScoreMismatch:
		s.broadcastForMatch(ctx, result.Game.MatchID, live.Event{Type: live.EventGameMismatched, Payload: result.Game})
	}
}

// broadcastForMatch resolves the match's stop to pick the scoreboard room.
func (s *scoreService) broadcastForMatch(ctx context.Context, matchID int, event live.Event) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		s.logger.Error("broadcast: failed to load match", slog.Int("match_id", matchID), slog.Any("error", err))
		return
	}
	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		s.logger.Error("broadcast: failed to load round", slog.Int("round_id", match.RoundID), slog.Any("error", err))
		return
	}
	s.hub.BroadcastToStop(round.StopID, event)
}
