package models

import "time"

// Team is a club's roster-bearing entity within one bracket. Seed fixes the
// pairing order so regeneration is reproducible for the same team set.
type Team struct {
	ID        int       `json:"id" db:"id"`
	BracketID int       `json:"bracket_id" db:"bracket_id"`
	ClubID    int       `json:"club_id" db:"club_id"`
	Name      string    `json:"name" db:"name"`
	Seed      int       `json:"seed" db:"seed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
