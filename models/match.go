package models

import "time"

// MatchStatus is derived from game outcomes and the forfeit flag, never set
// directly by a client.
type MatchStatus string

const (
	MatchNotStarted MatchStatus = "not_started"
	MatchInProgress MatchStatus = "in_progress"
	MatchComplete   MatchStatus = "complete"
	MatchForfeited  MatchStatus = "forfeited"
)

type TiebreakerStatus string

const (
	TiebreakNone               TiebreakerStatus = "none"
	TiebreakRequiresTiebreaker TiebreakerStatus = "tied_requires_tiebreaker"
	TiebreakPending            TiebreakerStatus = "tied_pending"
	TiebreakDecidedPoints      TiebreakerStatus = "decided_points"
	TiebreakDecidedTiebreaker  TiebreakerStatus = "decided_tiebreaker"
)

// Match pairs exactly two teams within a round, or one team with a bye.
// A bye match owns no games. TeamB is null for byes and for elimination
// placeholders whose feeder matches have not been decided yet.
type Match struct {
	ID                     int              `json:"id" db:"id"`
	RoundID                int              `json:"round_id" db:"round_id"`
	TeamAID                *int             `json:"team_a_id,omitempty" db:"team_a_id"`
	TeamBID                *int             `json:"team_b_id,omitempty" db:"team_b_id"`
	IsBye                  bool             `json:"is_bye" db:"is_bye"`
	ForfeitTeam            *Side            `json:"forfeit_team,omitempty" db:"forfeit_team"`
	TiebreakerStatus       TiebreakerStatus `json:"tiebreaker_status" db:"tiebreaker_status"`
	TiebreakerWinnerTeamID *int             `json:"tiebreaker_winner_team_id,omitempty" db:"tiebreaker_winner_team_id"`
	CreatedAt              time.Time        `json:"created_at" db:"created_at"`

	Games   []*Game   `json:"games,omitempty" db:"-"`
	Lineups []*Lineup `json:"lineups,omitempty" db:"-"`
}

// TeamID returns the id of the team playing the given side, nil for unfilled
// elimination placeholders.
func (m *Match) TeamID(side Side) *int {
	if side == SideA {
		return m.TeamAID
	}
	return m.TeamBID
}
