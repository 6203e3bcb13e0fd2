package models

import "time"

// GameState is the derived ledger state of a game, never stored directly.
type GameState string

const (
	GamePending    GameState = "pending"
	GameOneSided   GameState = "one_sided"
	GameConfirmed  GameState = "confirmed"
	GameMismatched GameState = "mismatched"
	GameComplete   GameState = "complete"
)

// Game is one doubles contest within a match. Canonical scores stay null
// until both sides' submissions reconcile or an admin override resolves a
// mismatch.
type Game struct {
	ID         int        `json:"id" db:"id"`
	MatchID    int        `json:"match_id" db:"match_id"`
	Slot       Slot       `json:"slot" db:"slot"`
	TeamAScore *int       `json:"team_a_score,omitempty" db:"team_a_score"`
	TeamBScore *int       `json:"team_b_score,omitempty" db:"team_b_score"`
	IsComplete bool       `json:"is_complete" db:"is_complete"`
	StartedAt  *time.Time `json:"started_at,omitempty" db:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Started reports whether the game has begun, which hard-locks both lineups.
func (g *Game) Started() bool {
	return g.StartedAt != nil || g.IsComplete
}
