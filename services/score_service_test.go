package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
)

type fakeSubmissionRepo struct {
	subs []*models.ScoreSubmission
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, sub *models.ScoreSubmission) error {
	for _, existing := range f.subs {
		if existing.GameID == sub.GameID && existing.Side == sub.Side {
			return repositories.ErrSubmissionDuplicate
		}
	}
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeSubmissionRepo) ListByGame(ctx context.Context, exec repositories.SQLExecutor, gameID int) ([]*models.ScoreSubmission, error) {
	var out []*models.ScoreSubmission
	for _, s := range f.subs {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListByGameIDs(ctx context.Context, exec repositories.SQLExecutor, gameIDs []int) ([]*models.ScoreSubmission, error) {
	ids := make(map[int]bool, len(gameIDs))
	for _, id := range gameIDs {
		ids[id] = true
	}
	var out []*models.ScoreSubmission
	for _, s := range f.subs {
		if ids[s.GameID] {
			out = append(out, s)
		}
	}
	return out, nil
}

type scoreFixture struct {
	service *scoreService
	matches *fakeMatchRepo
	games   *fakeGameRepo
	subs    *fakeSubmissionRepo
}

func newScoreFixture(t *testing.T) *scoreFixture {
	t.Helper()

	teamA, teamB := 10, 20
	f := &scoreFixture{
		matches: &fakeMatchRepo{matches: map[int]*models.Match{
			1: {ID: 1, RoundID: 1, TeamAID: &teamA, TeamBID: &teamB},
		}},
		games: &fakeGameRepo{byMatch: map[int][]*models.Game{}},
		subs:  &fakeSubmissionRepo{},
	}
	for i, slot := range models.StandardSlots {
		f.games.byMatch[1] = append(f.games.byMatch[1], &models.Game{ID: i + 1, MatchID: 1, Slot: slot})
	}
	f.service = &scoreService{
		matchRepo:        f.matches,
		roundRepo:        &fakeRoundRepo{rounds: map[int]*models.Round{1: {ID: 1, StopID: 1}}},
		gameRepo:         f.games,
		submissionRepo:   f.subs,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		includeOverrides: true,
		now:              func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *scoreFixture) submit(t *testing.T, gameID int, side models.Side, my, opp int) (*SubmitScoreResult, error) {
	t.Helper()
	return f.service.submitScoreInTx(context.Background(), nil, 1, gameID, side, my, opp)
}

func TestSubmitScoreFirstReportWaits(t *testing.T) {
	f := newScoreFixture(t)

	result, err := f.submit(t, 1, models.SideA, 11, 5)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if result.Status != ScoreWaitingForOpponent {
		t.Errorf("Status = %s, want %s", result.Status, ScoreWaitingForOpponent)
	}
	if result.Game.StartedAt == nil {
		t.Error("first report must start the game")
	}
}

func TestSubmitScoreSecondReportFromSameSideRejected(t *testing.T) {
	f := newScoreFixture(t)

	if _, err := f.submit(t, 1, models.SideA, 11, 5); err != nil {
		t.Fatalf("first submit error: %v", err)
	}
	_, err := f.submit(t, 1, models.SideA, 11, 7)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("err = %v, want %v", err, ErrDuplicateSubmission)
	}

	// First writer wins: the original report is untouched.
	subs, _ := f.subs.ListByGame(context.Background(), nil, 1)
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
	if subs[0].MyScore != 11 || subs[0].OpponentScore != 5 {
		t.Errorf("surviving submission = %d-%d, want 11-5", subs[0].MyScore, subs[0].OpponentScore)
	}
}

func TestSubmitScoreAgreementConfirms(t *testing.T) {
	f := newScoreFixture(t)

	if _, err := f.submit(t, 1, models.SideA, 11, 5); err != nil {
		t.Fatalf("side A submit error: %v", err)
	}
	result, err := f.submit(t, 1, models.SideB, 5, 11)
	if err != nil {
		t.Fatalf("side B submit error: %v", err)
	}
	if result.Status != ScoreConfirmed {
		t.Errorf("Status = %s, want %s", result.Status, ScoreConfirmed)
	}
	if !result.Game.IsComplete {
		t.Error("confirmed game must be complete")
	}
	if result.Game.TeamAScore == nil || *result.Game.TeamAScore != 11 {
		t.Errorf("TeamAScore = %v, want 11", result.Game.TeamAScore)
	}
	if result.Game.TeamBScore == nil || *result.Game.TeamBScore != 5 {
		t.Errorf("TeamBScore = %v, want 5", result.Game.TeamBScore)
	}
}

func TestSubmitScoreDisagreementIsMismatch(t *testing.T) {
	f := newScoreFixture(t)

	if _, err := f.submit(t, 1, models.SideA, 11, 5); err != nil {
		t.Fatalf("side A submit error: %v", err)
	}
	result, err := f.submit(t, 1, models.SideB, 11, 5)
	if err != nil {
		t.Fatalf("side B submit error: %v", err)
	}
	if result.Status != ScoreMismatch {
		t.Errorf("Status = %s, want %s", result.Status, ScoreMismatch)
	}
	if result.Game.IsComplete {
		t.Error("mismatched game must stay incomplete")
	}
	if result.OpponentSubmission == nil || result.OpponentSubmission.Side != models.SideA {
		t.Errorf("OpponentSubmission = %+v, want side A's report", result.OpponentSubmission)
	}

	// Both reports stay on record for the admin.
	subs, _ := f.subs.ListByGame(context.Background(), nil, 1)
	if len(subs) != 2 {
		t.Errorf("got %d submissions, want 2", len(subs))
	}
}

func TestSubmitScoreForfeitedMatchLocked(t *testing.T) {
	f := newScoreFixture(t)
	forfeit := models.SideB
	f.matches.matches[1].ForfeitTeam = &forfeit

	_, err := f.submit(t, 1, models.SideA, 11, 5)
	if !errors.Is(err, ErrMatchFinished) {
		t.Errorf("err = %v, want %v", err, ErrMatchFinished)
	}
}

func TestSubmitScoreCompleteGameRejected(t *testing.T) {
	f := newScoreFixture(t)
	f.games.byMatch[1][0].IsComplete = true

	_, err := f.submit(t, 1, models.SideA, 11, 5)
	if !errors.Is(err, ErrGameAlreadyComplete) {
		t.Errorf("err = %v, want %v", err, ErrGameAlreadyComplete)
	}
}
