package models

import "time"

type BracketFormat string

const (
	FormatRoundRobin        BracketFormat = "round_robin"
	FormatSingleElimination BracketFormat = "single_elimination"
)

// Bracket is a skill-division grouping of teams within a tournament. The
// format decides the pairing strategy used by schedule generation.
type Bracket struct {
	ID           int           `json:"id" db:"id"`
	TournamentID int           `json:"tournament_id" db:"tournament_id"`
	Name         string        `json:"name" db:"name"`
	Format       BracketFormat `json:"format" db:"format"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
