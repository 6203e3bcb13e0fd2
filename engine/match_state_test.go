package engine

import (
	"testing"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

func completeGame(slot models.Slot, scoreA, scoreB int) GameScore {
	return GameScore{Slot: slot, ScoreA: scoreA, ScoreB: scoreB, Complete: true, Started: true}
}

func fourGames(scores [4][2]int) []GameScore {
	slots := models.StandardSlots
	games := make([]GameScore, 0, 4)
	for i, s := range scores {
		games = append(games, completeGame(slots[i], s[0], s[1]))
	}
	return games
}

func TestResolveMatchNotStarted(t *testing.T) {
	games := []GameScore{
		{Slot: models.SlotMensDoubles},
		{Slot: models.SlotWomensDoubles},
	}
	res := ResolveMatch(games, nil, false, true)
	if res.Status != models.MatchNotStarted {
		t.Errorf("Status = %s, want %s", res.Status, models.MatchNotStarted)
	}
	if res.WinnerSide != nil {
		t.Error("undecided match must have no winner")
	}
}

func TestResolveMatchInProgress(t *testing.T) {
	games := []GameScore{
		completeGame(models.SlotMensDoubles, 11, 9),
		{Slot: models.SlotWomensDoubles, Started: true},
		{Slot: models.SlotMixed1},
		{Slot: models.SlotMixed2},
	}
	res := ResolveMatch(games, nil, false, true)
	if res.Status != models.MatchInProgress {
		t.Errorf("Status = %s, want %s", res.Status, models.MatchInProgress)
	}
}

func TestResolveMatchThreeWinsDecides(t *testing.T) {
	// Side A takes the first three games; the fourth is still pending.
	games := []GameScore{
		completeGame(models.SlotMensDoubles, 11, 9),
		completeGame(models.SlotWomensDoubles, 11, 5),
		completeGame(models.SlotMixed1, 11, 8),
		{Slot: models.SlotMixed2, Started: true},
	}
	res := ResolveMatch(games, nil, false, true)
	if res.Status != models.MatchComplete {
		t.Fatalf("Status = %s, want %s", res.Status, models.MatchComplete)
	}
	if res.WinnerSide == nil || *res.WinnerSide != models.SideA {
		t.Errorf("WinnerSide = %v, want A", res.WinnerSide)
	}
	if res.TiebreakerStatus != models.TiebreakNone {
		t.Errorf("TiebreakerStatus = %s, want %s", res.TiebreakerStatus, models.TiebreakNone)
	}
}

func TestResolveMatchPointDifferential(t *testing.T) {
	// 2-2 split, side B ahead on aggregate points: 38 vs 40.
	games := fourGames([4][2]int{
		{11, 9},
		{11, 9},
		{8, 11},
		{8, 11},
	})
	res := ResolveMatch(games, nil, false, true)
	if res.Status != models.MatchComplete {
		t.Fatalf("Status = %s, want %s", res.Status, models.MatchComplete)
	}
	if res.TiebreakerStatus != models.TiebreakDecidedPoints {
		t.Errorf("TiebreakerStatus = %s, want %s", res.TiebreakerStatus, models.TiebreakDecidedPoints)
	}
	if res.WinnerSide == nil || *res.WinnerSide != models.SideB {
		t.Errorf("WinnerSide = %v, want B", res.WinnerSide)
	}
}

func TestResolveMatchEqualPointsRequiresTiebreaker(t *testing.T) {
	// 2-2 split with equal aggregates: 40 points each.
	games := fourGames([4][2]int{
		{11, 9},
		{11, 9},
		{9, 11},
		{9, 11},
	})
	res := ResolveMatch(games, nil, false, true)
	if res.Status != models.MatchInProgress {
		t.Errorf("Status = %s, want %s", res.Status, models.MatchInProgress)
	}
	if res.TiebreakerStatus != models.TiebreakRequiresTiebreaker {
		t.Errorf("TiebreakerStatus = %s, want %s", res.TiebreakerStatus, models.TiebreakRequiresTiebreaker)
	}
	if res.WinnerSide != nil {
		t.Error("tied match must have no winner before the tiebreaker game")
	}
}

func TestResolveMatchTiebreakerPending(t *testing.T) {
	games := fourGames([4][2]int{
		{11, 9},
		{11, 9},
		{9, 11},
		{9, 11},
	})
	games = append(games, GameScore{Slot: models.SlotTiebreaker, Started: true})

	res := ResolveMatch(games, nil, false, true)
	if res.TiebreakerStatus != models.TiebreakPending {
		t.Errorf("TiebreakerStatus = %s, want %s", res.TiebreakerStatus, models.TiebreakPending)
	}
	if res.Status != models.MatchInProgress {
		t.Errorf("Status = %s, want %s", res.Status, models.MatchInProgress)
	}
}

func TestResolveMatchTiebreakerDecides(t *testing.T) {
	games := fourGames([4][2]int{
		{11, 9},
		{11, 9},
		{9, 11},
		{9, 11},
	})
	games = append(games, completeGame(models.SlotTiebreaker, 15, 13))

	res := ResolveMatch(games, nil, false, true)
	if res.Status != models.MatchComplete {
		t.Fatalf("Status = %s, want %s", res.Status, models.MatchComplete)
	}
	if res.TiebreakerStatus != models.TiebreakDecidedTiebreaker {
		t.Errorf("TiebreakerStatus = %s, want %s", res.TiebreakerStatus, models.TiebreakDecidedTiebreaker)
	}
	if res.WinnerSide == nil || *res.WinnerSide != models.SideA {
		t.Errorf("WinnerSide = %v, want A", res.WinnerSide)
	}
}

func TestResolveMatchNoTiebreakerOnThreeOne(t *testing.T) {
	// 3-1 split: equal aggregate points must not trigger the protocol.
	games := fourGames([4][2]int{
		{11, 9},
		{11, 9},
		{11, 9},
		{7, 13},
	})
	res := ResolveMatch(games, nil, false, true)
	if res.TiebreakerStatus != models.TiebreakNone {
		t.Errorf("TiebreakerStatus = %s, want %s", res.TiebreakerStatus, models.TiebreakNone)
	}
	if res.WinnerSide == nil || *res.WinnerSide != models.SideA {
		t.Errorf("WinnerSide = %v, want A", res.WinnerSide)
	}
}

func TestResolveMatchForfeitWinsOverEverything(t *testing.T) {
	// Side A was cruising, then forfeits; side B takes the match.
	games := []GameScore{
		completeGame(models.SlotMensDoubles, 11, 2),
		completeGame(models.SlotWomensDoubles, 11, 3),
	}
	forfeit := models.SideA
	res := ResolveMatch(games, &forfeit, false, true)
	if res.Status != models.MatchForfeited {
		t.Fatalf("Status = %s, want %s", res.Status, models.MatchForfeited)
	}
	if res.WinnerSide == nil || *res.WinnerSide != models.SideB {
		t.Errorf("WinnerSide = %v, want B", res.WinnerSide)
	}
}

func TestResolveMatchBye(t *testing.T) {
	res := ResolveMatch(nil, nil, true, true)
	if res.Status != models.MatchComplete {
		t.Errorf("Status = %s, want %s", res.Status, models.MatchComplete)
	}
	if res.WinnerSide != nil {
		t.Error("bye match reports no winner; standings decide what a bye means")
	}
}

func TestResolveMatchOverrideExclusionFlipsOutcome(t *testing.T) {
	// 2-2 split. The first game was admin-overridden and carries side A's
	// points lead; excluding it leaves the aggregates tied.
	games := fourGames([4][2]int{
		{11, 5},
		{13, 9},
		{9, 11},
		{11, 13},
	})
	games[0].Overridden = true

	withOverrides := ResolveMatch(games, nil, false, true)
	if withOverrides.TiebreakerStatus != models.TiebreakDecidedPoints {
		t.Errorf("including overrides: TiebreakerStatus = %s, want %s",
			withOverrides.TiebreakerStatus, models.TiebreakDecidedPoints)
	}

	withoutOverrides := ResolveMatch(games, nil, false, false)
	if withoutOverrides.TiebreakerStatus != models.TiebreakRequiresTiebreaker {
		t.Errorf("excluding overrides: TiebreakerStatus = %s, want %s",
			withoutOverrides.TiebreakerStatus, models.TiebreakRequiresTiebreaker)
	}
}
