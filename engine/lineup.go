package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

// Lineup positions are fixed: [man1, man2, woman1, woman2]. The slot mapping
// below is part of the product contract and must not be reordered.
type SlotAssignment struct {
	Slot      models.Slot `json:"slot"`
	PlayerIDs [2]int      `json:"player_ids"`
}

// DeriveSlots expands a lineup into its four doubles pairings:
// MENS=(man1,man2), WOMENS=(woman1,woman2), MIXED_1=(man1,woman1),
// MIXED_2=(man2,woman2).
func DeriveSlots(l *models.Lineup) []SlotAssignment {
	return []SlotAssignment{
		{Slot: models.SlotMensDoubles, PlayerIDs: [2]int{l.Man1ID, l.Man2ID}},
		{Slot: models.SlotWomensDoubles, PlayerIDs: [2]int{l.Woman1ID, l.Woman2ID}},
		{Slot: models.SlotMixed1, PlayerIDs: [2]int{l.Man1ID, l.Woman1ID}},
		{Slot: models.SlotMixed2, PlayerIDs: [2]int{l.Man2ID, l.Woman2ID}},
	}
}

var (
	ErrLineupDuplicatePlayer   = errors.New("lineup contains duplicate players")
	ErrLineupPlayerNotOnRoster = errors.New("lineup player is not on the team roster")
	ErrLineupPositionGender    = errors.New("lineup position does not match player gender")
	ErrRosterUnderPopulated    = errors.New("roster needs at least 2 male and 2 female eligible players")
)

// ValidateLineup checks the four positions against the team's roster for the
// stop: distinct players, every player on the roster, men in positions 0-1
// and women in positions 2-3, and a roster carrying at least two eligible
// players of each gender.
func ValidateLineup(playerIDs [4]int, roster []models.Player) error {
	males, females := 0, 0
	byID := make(map[int]models.Player, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
		switch p.Gender {
		case models.GenderMale:
			males++
		case models.GenderFemale:
			females++
		}
	}
	if males < 2 || females < 2 {
		return fmt.Errorf("%w: have %d male, %d female", ErrRosterUnderPopulated, males, females)
	}

	seen := make(map[int]bool, 4)
	for i, id := range playerIDs {
		if seen[id] {
			return fmt.Errorf("%w: player %d", ErrLineupDuplicatePlayer, id)
		}
		seen[id] = true

		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: player %d", ErrLineupPlayerNotOnRoster, id)
		}

		want := models.GenderMale
		if i >= 2 {
			want = models.GenderFemale
		}
		if p.Gender != want {
			return fmt.Errorf("%w: position %d expects %s, player %d is %s", ErrLineupPositionGender, i, want, id, p.Gender)
		}
	}
	return nil
}

type LockReason string

const (
	LockDeadlinePassed LockReason = "deadline_passed"
	LockMatchStarted   LockReason = "match_started"
)

// LineupLock is the evaluated edit-lock state for one match side. Editable is
// false once any reason applies; HardLocked means the lineup can no longer be
// viewed as editable at all (match underway).
type LineupLock struct {
	Editable   bool
	HardLocked bool
	Reasons    []LockReason
}

// EvaluateLineupLock applies the two lock reasons independently at call time.
// deadline_passed: the round's configured deadline has elapsed (lineups stay
// visible, scoring is unaffected). match_started: any game of the match has
// started or completed, which locks harder than any deadline.
func EvaluateLineupLock(deadline *time.Time, games []*models.Game, now time.Time) LineupLock {
	lock := LineupLock{Editable: true}

	if deadline != nil && now.After(*deadline) {
		lock.Editable = false
		lock.Reasons = append(lock.Reasons, LockDeadlinePassed)
	}
	for _, g := range games {
		if g.Started() {
			lock.Editable = false
			lock.HardLocked = true
			lock.Reasons = append(lock.Reasons, LockMatchStarted)
			break
		}
	}
	return lock
}
