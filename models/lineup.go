package models

import "time"

// Lineup is the four players one team fields for a match, in fixed positions
// [man1, man2, woman1, woman2]. One row per (match, side); resubmission
// before lock overwrites in place, no history is kept.
type Lineup struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	Side      Side      `json:"side" db:"side"`
	Man1ID    int       `json:"man1_id" db:"man1_id"`
	Man2ID    int       `json:"man2_id" db:"man2_id"`
	Woman1ID  int       `json:"woman1_id" db:"woman1_id"`
	Woman2ID  int       `json:"woman2_id" db:"woman2_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlayerIDs returns the lineup in position order.
func (l *Lineup) PlayerIDs() [4]int {
	return [4]int{l.Man1ID, l.Man2ID, l.Woman1ID, l.Woman2ID}
}
