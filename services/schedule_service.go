package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markbrown88/pickleball-app-sub002/live"
	"github.com/markbrown88/pickleball-app-sub002/metrics"
	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
	"github.com/markbrown88/pickleball-app-sub002/schedule"
	"github.com/markbrown88/pickleball-app-sub002/storage"
)

type GenerateParams struct {
	StopID    int
	BracketID *int // nil targets every bracket of the stop's tournament
	Slots     []models.Slot
	Overwrite bool
}

type GenerateResult struct {
	RoundsCreated  int `json:"rounds_created"`
	MatchesCreated int `json:"matches_created"`
	GamesCreated   int `json:"games_created"`
}

type ScheduleService interface {
	Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error)
	GetSchedule(ctx context.Context, stopID int) ([]*models.Round, error)
}

type scheduleService struct {
	db          *sql.DB
	stopRepo    repositories.StopRepository
	bracketRepo repositories.BracketRepository
	teamRepo    repositories.TeamRepository
	roundRepo   repositories.RoundRepository
	matchRepo   repositories.MatchRepository
	gameRepo    repositories.GameRepository
	lineupRepo  repositories.LineupRepository
	uploader    storage.FileUploader // nil disables snapshot archiving
	hub         *live.Hub
	logger      *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	stopRepo repositories.StopRepository,
	bracketRepo repositories.BracketRepository,
	teamRepo repositories.TeamRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	gameRepo repositories.GameRepository,
	lineupRepo repositories.LineupRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:          db,
		stopRepo:    stopRepo,
		bracketRepo: bracketRepo,
		teamRepo:    teamRepo,
		roundRepo:   roundRepo,
		matchRepo:   matchRepo,
		gameRepo:    gameRepo,
		lineupRepo:  lineupRepo,
		uploader:    uploader,
		hub:         hub,
		logger:      logger,
	}
}

// bracketPlan is one bracket's pairing output, computed before the
// transaction opens so generator failures cannot leave a partial scope.
type bracketPlan struct {
	bracket *models.Bracket
	rounds  []schedule.RoundPairing
}

func (s *scheduleService) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	if err := validateSlots(params.Slots); err != nil {
		metrics.ScheduleGenerations.WithLabelValues("error").Inc()
		return nil, err
	}

	stop, err := s.stopRepo.GetByID(ctx, params.StopID)
	if err != nil {
		return nil, mapRepoNotFound(err)
	}

	brackets, err := s.targetBrackets(ctx, stop, params.BracketID)
	if err != nil {
		return nil, err
	}

	plans := make([]bracketPlan, 0, len(brackets))
	for _, bracket := range brackets {
		teams, err := s.teamRepo.ListByBracket(ctx, bracket.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load teams for bracket %d: %w", bracket.ID, err)
		}
		if len(teams) < 2 {
			return nil, fmt.Errorf("%w: bracket %d has %d", ErrNotEnoughTeams, bracket.ID, len(teams))
		}

		generator, ok := schedule.ForFormat(bracket.Format)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, bracket.Format)
		}
		rounds, err := generator.GeneratePairings(teams)
		if err != nil {
			return nil, fmt.Errorf("%s pairing failed for bracket %d: %w", generator.Name(), bracket.ID, err)
		}
		plans = append(plans, bracketPlan{bracket: bracket, rounds: rounds})
	}

	result, err := s.persistPlans(ctx, params, plans)
	if err != nil {
		return nil, err
	}

	metrics.ScheduleGenerations.WithLabelValues("created").Inc()
	s.logger.Info("schedule generated",
		slog.Int("stop_id", params.StopID),
		slog.Int("rounds", result.RoundsCreated),
		slog.Int("matches", result.MatchesCreated),
		slog.Int("games", result.GamesCreated),
	)

	s.hub.BroadcastToStop(params.StopID, live.Event{Type: live.EventScheduleGenerated, Payload: result})
	s.archiveSnapshot(params.StopID)

	return result, nil
}

// persistPlans replaces the scope as a single atomic unit: either the entire
// new round/match/game set commits, or nothing changes.
func (s *scheduleService) persistPlans(ctx context.Context, params GenerateParams, plans []bracketPlan) (*GenerateResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin generation transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	result, err := s.persistPlansInTx(ctx, tx, params, plans)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, ErrAlreadyScheduled) {
			metrics.ScheduleGenerations.WithLabelValues("conflict").Inc()
		} else {
			metrics.ScheduleGenerations.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		metrics.ScheduleGenerations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to commit generation transaction: %w", err)
	}
	return result, nil
}

func (s *scheduleService) persistPlansInTx(ctx context.Context, exec repositories.SQLExecutor, params GenerateParams, plans []bracketPlan) (*GenerateResult, error) {
	// Serialize concurrent generates on the stop before looking at the
	// scope; without this two writers can both see it empty and both insert.
	if err := s.roundRepo.LockScope(ctx, exec, params.StopID); err != nil {
		return nil, err
	}

	exists, err := s.roundRepo.ExistsByScope(ctx, exec, params.StopID, params.BracketID)
	if err != nil {
		return nil, err
	}
	if exists {
		if !params.Overwrite {
			return nil, ErrAlreadyScheduled
		}
		if err := s.roundRepo.DeleteByScope(ctx, exec, params.StopID, params.BracketID); err != nil {
			return nil, err
		}
	}

	result := &GenerateResult{}
	for _, plan := range plans {
		for _, roundPlan := range plan.rounds {
			round := &models.Round{
				StopID:    params.StopID,
				BracketID: plan.bracket.ID,
				Idx:       roundPlan.Idx,
			}
			if err := s.roundRepo.Create(ctx, exec, round); err != nil {
				return nil, err
			}
			result.RoundsCreated++

			for _, pairing := range roundPlan.Matches {
				match := &models.Match{
					RoundID: round.ID,
					TeamAID: pairing.TeamAID,
					TeamBID: pairing.TeamBID,
					IsBye:   pairing.IsBye,
				}
				if err := s.matchRepo.Create(ctx, exec, match); err != nil {
					return nil, err
				}
				result.MatchesCreated++

				// A bye owns no games.
				if pairing.IsBye {
					continue
				}
				for _, slot := range params.Slots {
					game := &models.Game{MatchID: match.ID, Slot: slot}
					if err := s.gameRepo.Create(ctx, exec, game); err != nil {
						return nil, err
					}
					result.GamesCreated++
				}
			}
		}
	}
	return result, nil
}

func (s *scheduleService) targetBrackets(ctx context.Context, stop *models.Stop, bracketID *int) ([]*models.Bracket, error) {
	if bracketID != nil {
		bracket, err := s.bracketRepo.GetByID(ctx, *bracketID)
		if err != nil {
			return nil, mapRepoNotFound(err)
		}
		if bracket.TournamentID != stop.TournamentID {
			return nil, ErrBracketNotFound
		}
		return []*models.Bracket{bracket}, nil
	}

	brackets, err := s.bracketRepo.ListByTournament(ctx, stop.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brackets for tournament %d: %w", stop.TournamentID, err)
	}
	if len(brackets) == 0 {
		return nil, ErrBracketNotFound
	}
	return brackets, nil
}

// GetSchedule returns the stop's rounds with nested matches, games and
// lineups. Games and lineups load in parallel once the match set is known.
func (s *scheduleService) GetSchedule(ctx context.Context, stopID int) ([]*models.Round, error) {
	if _, err := s.stopRepo.GetByID(ctx, stopID); err != nil {
		return nil, mapRepoNotFound(err)
	}

	rounds, err := s.roundRepo.ListByStop(ctx, stopID, nil)
	if err != nil {
		return nil, err
	}

	roundIDs := make([]int, 0, len(rounds))
	for _, r := range rounds {
		roundIDs = append(roundIDs, r.ID)
	}
	matches, err := s.matchRepo.ListByRoundIDs(ctx, roundIDs)
	if err != nil {
		return nil, err
	}

	matchIDs := make([]int, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}

	var games []*models.Game
	var lineups []*models.Lineup

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListByMatchIDs(gCtx, matchIDs)
		return err
	})
	g.Go(func() error {
		var err error
		lineups, err = s.lineupRepo.ListByMatchIDs(gCtx, matchIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gamesByMatch := make(map[int][]*models.Game)
	for _, game := range games {
		gamesByMatch[game.MatchID] = append(gamesByMatch[game.MatchID], game)
	}
	lineupsByMatch := make(map[int][]*models.Lineup)
	for _, lineup := range lineups {
		lineupsByMatch[lineup.MatchID] = append(lineupsByMatch[lineup.MatchID], lineup)
	}
	matchesByRound := make(map[int][]*models.Match)
	for _, match := range matches {
		match.Games = gamesByMatch[match.ID]
		match.Lineups = lineupsByMatch[match.ID]
		matchesByRound[match.RoundID] = append(matchesByRound[match.RoundID], match)
	}
	for _, round := range rounds {
		round.Matches = matchesByRound[round.ID]
	}
	return rounds, nil
}

// archiveSnapshot uploads the freshly generated schedule as JSON for audit.
// Best effort: failures are logged, never surfaced to the caller.
func (s *scheduleService) archiveSnapshot(stopID int) {
	if s.uploader == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	rounds, err := s.GetSchedule(ctx, stopID)
	if err != nil {
		s.logger.Error("snapshot: failed to load schedule", slog.Int("stop_id", stopID), slog.Any("error", err))
		return
	}
	payload, err := json.Marshal(rounds)
	if err != nil {
		s.logger.Error("snapshot: failed to marshal schedule", slog.Int("stop_id", stopID), slog.Any("error", err))
		return
	}

	key := fmt.Sprintf("schedules/stop-%d/%d.json", stopID, time.Now().UTC().Unix())
	if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		s.logger.Error("snapshot: upload failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	s.logger.Info("snapshot archived", slog.String("key", key))
}

func validateSlots(slots []models.Slot) error {
	if len(slots) == 0 {
		return fmt.Errorf("%w: no slots requested", ErrSlotsInvalid)
	}
	seen := make(map[models.Slot]bool, len(slots))
	for _, slot := range slots {
		if !slot.Valid() {
			return fmt.Errorf("%w: unknown slot %q", ErrSlotsInvalid, slot)
		}
		if seen[slot] {
			return fmt.Errorf("%w: duplicate slot %q", ErrSlotsInvalid, slot)
		}
		seen[slot] = true
	}
	return nil
}
