package models

import "time"

// Round is an ordered set of matches within a bracket at a stop. Idx is
// contiguous from 0 for the scope. LineupDeadline, when set, makes lineups
// read-only for editing after it passes; scoring is unaffected.
type Round struct {
	ID             int        `json:"id" db:"id"`
	StopID         int        `json:"stop_id" db:"stop_id"`
	BracketID      int        `json:"bracket_id" db:"bracket_id"`
	Idx            int        `json:"idx" db:"idx"`
	LineupDeadline *time.Time `json:"lineup_deadline,omitempty" db:"lineup_deadline"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`

	Matches []*Match `json:"matches,omitempty" db:"-"`
}
