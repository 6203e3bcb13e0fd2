package services

import (
	"context"
	"errors"
	"testing"

	"github.com/markbrown88/pickleball-app-sub002/models"
	"github.com/markbrown88/pickleball-app-sub002/schedule"
)

func newScheduleFixture() (*scheduleService, *fakeRoundRepo, *fakeMatchRepo, *fakeGameRepo) {
	rounds := &fakeRoundRepo{rounds: map[int]*models.Round{}}
	matches := &fakeMatchRepo{matches: map[int]*models.Match{}}
	games := &fakeGameRepo{byMatch: map[int][]*models.Game{}}
	svc := &scheduleService{
		roundRepo: rounds,
		matchRepo: matches,
		gameRepo:  games,
	}
	return svc, rounds, matches, games
}

// onePlanWithBye is one round robin round: a played match plus a bye.
func onePlanWithBye() []bracketPlan {
	teamA, teamB, teamC := 10, 20, 30
	return []bracketPlan{{
		bracket: &models.Bracket{ID: 7, Format: models.FormatRoundRobin},
		rounds: []schedule.RoundPairing{
			{Idx: 0, Matches: []schedule.MatchPairing{
				{TeamAID: &teamA, TeamBID: &teamB},
				{TeamAID: &teamC, IsBye: true},
			}},
		},
	}}
}

func TestPersistPlansLocksScopeBeforeChecking(t *testing.T) {
	svc, rounds, _, _ := newScheduleFixture()
	params := GenerateParams{StopID: 1, Slots: models.StandardSlots}

	if _, err := svc.persistPlansInTx(context.Background(), nil, params, onePlanWithBye()); err != nil {
		t.Fatalf("persistPlansInTx() error: %v", err)
	}

	if len(rounds.calls) < 2 || rounds.calls[0] != "lock" || rounds.calls[1] != "exists" {
		t.Errorf("scope calls = %v, want the lock taken before the existence check", rounds.calls)
	}
}

func TestPersistPlansConflictWithoutOverwrite(t *testing.T) {
	svc, rounds, matches, games := newScheduleFixture()
	rounds.exists = true
	params := GenerateParams{StopID: 1, Slots: models.StandardSlots}

	_, err := svc.persistPlansInTx(context.Background(), nil, params, onePlanWithBye())
	if !errors.Is(err, ErrAlreadyScheduled) {
		t.Fatalf("err = %v, want %v", err, ErrAlreadyScheduled)
	}
	for _, call := range rounds.calls {
		if call == "delete" {
			t.Error("conflicting generate must not delete the existing scope")
		}
	}
	if len(rounds.rounds) != 0 || len(matches.matches) != 0 || len(games.byMatch) != 0 {
		t.Error("conflicting generate must not create anything")
	}
}

func TestPersistPlansOverwriteReplacesScope(t *testing.T) {
	svc, rounds, _, _ := newScheduleFixture()
	rounds.exists = true
	rounds.rounds[99] = &models.Round{ID: 99, StopID: 1}
	params := GenerateParams{StopID: 1, Slots: models.StandardSlots, Overwrite: true}

	result, err := svc.persistPlansInTx(context.Background(), nil, params, onePlanWithBye())
	if err != nil {
		t.Fatalf("persistPlansInTx() error: %v", err)
	}

	want := []string{"lock", "exists", "delete"}
	if len(rounds.calls) != len(want) {
		t.Fatalf("scope calls = %v, want %v", rounds.calls, want)
	}
	for i, call := range want {
		if rounds.calls[i] != call {
			t.Errorf("scope calls[%d] = %s, want %s", i, rounds.calls[i], call)
		}
	}
	if result.RoundsCreated != 1 {
		t.Errorf("RoundsCreated = %d, want 1", result.RoundsCreated)
	}
	for _, r := range rounds.rounds {
		if r.ID == 99 {
			t.Error("stale round survived an overwrite")
		}
	}
}

func TestPersistPlansByeOwnsNoGames(t *testing.T) {
	svc, _, matches, games := newScheduleFixture()
	params := GenerateParams{StopID: 1, Slots: models.StandardSlots}

	result, err := svc.persistPlansInTx(context.Background(), nil, params, onePlanWithBye())
	if err != nil {
		t.Fatalf("persistPlansInTx() error: %v", err)
	}

	if result.MatchesCreated != 2 {
		t.Errorf("MatchesCreated = %d, want 2", result.MatchesCreated)
	}
	if result.GamesCreated != len(models.StandardSlots) {
		t.Errorf("GamesCreated = %d, want %d", result.GamesCreated, len(models.StandardSlots))
	}
	for _, m := range matches.matches {
		if m.IsBye && len(games.byMatch[m.ID]) != 0 {
			t.Errorf("bye match %d owns %d games, want 0", m.ID, len(games.byMatch[m.ID]))
		}
	}
}
