package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/markbrown88/pickleball-app-sub002/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match references an unknown team")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetForUpdate locks the match row for the duration of the transaction.
	// Score submission, forfeit and tiebreaker scheduling all take this lock
	// first, which serializes the two uncoordinated captain writers per match.
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByRoundIDs(ctx context.Context, roundIDs []int) ([]*models.Match, error)
	UpdateTiebreaker(ctx context.Context, exec SQLExecutor, matchID int, status models.TiebreakerStatus, winnerTeamID *int) error
	UpdateForfeit(ctx context.Context, exec SQLExecutor, matchID int, forfeitTeam models.Side) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, round_id, team_a_id, team_b_id, is_bye, forfeit_team,
	       tiebreaker_status, tiebreaker_winner_team_id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches (round_id, team_a_id, team_b_id, is_bye, tiebreaker_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		match.RoundID,
		match.TeamAID,
		match.TeamBID,
		match.IsBye,
		models.TiebreakNone,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return r.handleMatchError(err)
	}
	match.TiebreakerStatus = models.TiebreakNone
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return r.scanOne(executor(r.db, exec).QueryRowContext(ctx, query, id), id)
}

func (r *postgresMatchRepository) scanOne(row *sql.Row, id int) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID,
		&match.RoundID,
		&match.TeamAID,
		&match.TeamBID,
		&match.IsBye,
		&match.ForfeitTeam,
		&match.TiebreakerStatus,
		&match.TiebreakerWinnerTeamID,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByRoundIDs(ctx context.Context, roundIDs []int) ([]*models.Match, error) {
	if len(roundIDs) == 0 {
		return []*models.Match{}, nil
	}

	query := `SELECT ` + matchColumns + ` FROM matches WHERE round_id = ANY($1) ORDER BY round_id ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(roundIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for rounds: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if err := rows.Scan(
			&match.ID,
			&match.RoundID,
			&match.TeamAID,
			&match.TeamBID,
			&match.IsBye,
			&match.ForfeitTeam,
			&match.TiebreakerStatus,
			&match.TiebreakerWinnerTeamID,
			&match.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateTiebreaker(ctx context.Context, exec SQLExecutor, matchID int, status models.TiebreakerStatus, winnerTeamID *int) error {
	query := `UPDATE matches SET tiebreaker_status = $1, tiebreaker_winner_team_id = $2 WHERE id = $3`
	result, err := executor(r.db, exec).ExecContext(ctx, query, status, winnerTeamID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateForfeit(ctx context.Context, exec SQLExecutor, matchID int, forfeitTeam models.Side) error {
	query := `UPDATE matches SET forfeit_team = $1 WHERE id = $2`
	result, err := executor(r.db, exec).ExecContext(ctx, query, forfeitTeam, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_team_a_id_fkey", "matches_team_b_id_fkey", "matches_tiebreaker_winner_team_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_round_id_fkey":
			return fmt.Errorf("match round conflict: %w", err)
		}
	}
	return err
}
