package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

func testRoster() []models.Player {
	return []models.Player{
		{ID: 1, Gender: models.GenderMale},
		{ID: 2, Gender: models.GenderMale},
		{ID: 3, Gender: models.GenderMale},
		{ID: 4, Gender: models.GenderFemale},
		{ID: 5, Gender: models.GenderFemale},
		{ID: 6, Gender: models.GenderFemale},
	}
}

func TestDeriveSlots(t *testing.T) {
	lineup := &models.Lineup{Man1ID: 1, Man2ID: 2, Woman1ID: 4, Woman2ID: 5}
	slots := DeriveSlots(lineup)

	want := map[models.Slot][2]int{
		models.SlotMensDoubles:   {1, 2},
		models.SlotWomensDoubles: {4, 5},
		models.SlotMixed1:        {1, 4},
		models.SlotMixed2:        {2, 5},
	}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(slots), len(want))
	}
	for _, sa := range slots {
		if want[sa.Slot] != sa.PlayerIDs {
			t.Errorf("slot %s = %v, want %v", sa.Slot, sa.PlayerIDs, want[sa.Slot])
		}
	}
}

func TestValidateLineup(t *testing.T) {
	tests := []struct {
		name      string
		playerIDs [4]int
		roster    []models.Player
		wantErr   error
	}{
		{
			name:      "valid lineup",
			playerIDs: [4]int{1, 2, 4, 5},
			roster:    testRoster(),
		},
		{
			name:      "duplicate player",
			playerIDs: [4]int{1, 1, 4, 5},
			roster:    testRoster(),
			wantErr:   ErrLineupDuplicatePlayer,
		},
		{
			name:      "player not on roster",
			playerIDs: [4]int{1, 99, 4, 5},
			roster:    testRoster(),
			wantErr:   ErrLineupPlayerNotOnRoster,
		},
		{
			name:      "woman in a male position",
			playerIDs: [4]int{1, 4, 5, 6},
			roster:    testRoster(),
			wantErr:   ErrLineupPositionGender,
		},
		{
			name:      "man in a female position",
			playerIDs: [4]int{1, 2, 3, 4},
			roster:    testRoster(),
			wantErr:   ErrLineupPositionGender,
		},
		{
			name:      "roster short on women",
			playerIDs: [4]int{1, 2, 4, 5},
			roster: []models.Player{
				{ID: 1, Gender: models.GenderMale},
				{ID: 2, Gender: models.GenderMale},
				{ID: 4, Gender: models.GenderFemale},
			},
			wantErr: ErrRosterUnderPopulated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineup(tt.playerIDs, tt.roster)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateLineup() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLineup() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluateLineupLock(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	started := now.Add(-10 * time.Minute)

	startedGame := &models.Game{StartedAt: &started}
	finishedGame := &models.Game{IsComplete: true}
	pendingGame := &models.Game{}

	tests := []struct {
		name        string
		deadline    *time.Time
		games       []*models.Game
		wantEdit    bool
		wantHard    bool
		wantReasons []LockReason
	}{
		{
			name:     "no deadline, nothing started",
			games:    []*models.Game{pendingGame},
			wantEdit: true,
		},
		{
			name:     "future deadline",
			deadline: &future,
			games:    []*models.Game{pendingGame},
			wantEdit: true,
		},
		{
			name:        "deadline passed",
			deadline:    &past,
			games:       []*models.Game{pendingGame},
			wantReasons: []LockReason{LockDeadlinePassed},
		},
		{
			name:        "game started",
			games:       []*models.Game{startedGame},
			wantHard:    true,
			wantReasons: []LockReason{LockMatchStarted},
		},
		{
			name:        "complete game counts as started",
			games:       []*models.Game{finishedGame},
			wantHard:    true,
			wantReasons: []LockReason{LockMatchStarted},
		},
		{
			name:        "both reasons apply independently",
			deadline:    &past,
			games:       []*models.Game{startedGame},
			wantHard:    true,
			wantReasons: []LockReason{LockDeadlinePassed, LockMatchStarted},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock := EvaluateLineupLock(tt.deadline, tt.games, now)
			if lock.Editable != tt.wantEdit {
				t.Errorf("Editable = %v, want %v", lock.Editable, tt.wantEdit)
			}
			if lock.HardLocked != tt.wantHard {
				t.Errorf("HardLocked = %v, want %v", lock.HardLocked, tt.wantHard)
			}
			if len(lock.Reasons) != len(tt.wantReasons) {
				t.Fatalf("Reasons = %v, want %v", lock.Reasons, tt.wantReasons)
			}
			for i, r := range tt.wantReasons {
				if lock.Reasons[i] != r {
					t.Errorf("Reasons[%d] = %s, want %s", i, lock.Reasons[i], r)
				}
			}
		})
	}
}
