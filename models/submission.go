package models

import "time"

// ScoreSubmission is one side's report for one game, framed from its own
// perspective. At most one row per (game, side); revisions require an admin
// override, never an implicit overwrite.
type ScoreSubmission struct {
	ID            int       `json:"id" db:"id"`
	GameID        int       `json:"game_id" db:"game_id"`
	Side          Side      `json:"side" db:"side"`
	MyScore       int       `json:"my_score" db:"my_score"`
	OpponentScore int       `json:"opponent_score" db:"opponent_score"`
	SubmittedAt   time.Time `json:"submitted_at" db:"submitted_at"`
}
