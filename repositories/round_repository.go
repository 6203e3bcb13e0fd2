package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	ListByStop(ctx context.Context, stopID int, bracketID *int) ([]*models.Round, error)
	// LockScope serializes schedule generation per stop for the lifetime of
	// the surrounding transaction. It must be taken before ExistsByScope so
	// two concurrent generates cannot both observe an empty scope and both
	// insert.
	LockScope(ctx context.Context, exec SQLExecutor, stopID int) error
	ExistsByScope(ctx context.Context, exec SQLExecutor, stopID int, bracketID *int) (bool, error)
	DeleteByScope(ctx context.Context, exec SQLExecutor, stopID int, bracketID *int) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `
		INSERT INTO rounds (stop_id, bracket_id, idx, lineup_deadline)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		round.StopID,
		round.BracketID,
		round.Idx,
		round.LineupDeadline,
	).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create round idx %d for stop %d bracket %d: %w",
			round.Idx, round.StopID, round.BracketID, err)
	}
	return nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `
		SELECT id, stop_id, bracket_id, idx, lineup_deadline, created_at
		FROM rounds
		WHERE id = $1`

	round := &models.Round{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&round.ID,
		&round.StopID,
		&round.BracketID,
		&round.Idx,
		&round.LineupDeadline,
		&round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round by id %d: %w", id, err)
	}
	return round, nil
}

func (r *postgresRoundRepository) ListByStop(ctx context.Context, stopID int, bracketID *int) ([]*models.Round, error) {
	query := `
		SELECT id, stop_id, bracket_id, idx, lineup_deadline, created_at
		FROM rounds
		WHERE stop_id = $1 AND ($2::int IS NULL OR bracket_id = $2)
		ORDER BY bracket_id ASC, idx ASC`

	rows, err := r.db.QueryContext(ctx, query, stopID, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for stop %d: %w", stopID, err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		var round models.Round
		if err := rows.Scan(
			&round.ID,
			&round.StopID,
			&round.BracketID,
			&round.Idx,
			&round.LineupDeadline,
			&round.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", err)
		}
		rounds = append(rounds, &round)
	}
	return rounds, rows.Err()
}

// scheduleLockClass namespaces the advisory lock so other subsystems can use
// advisory locks with their own class without colliding.
const scheduleLockClass = 4201

// LockScope takes a transaction-scoped advisory lock keyed on the stop. An
// advisory lock rather than a row lock because a fresh scope has no rows to
// lock yet. Locking the whole stop also covers single-bracket generates that
// overlap a stop-wide one.
func (r *postgresRoundRepository) LockScope(ctx context.Context, exec SQLExecutor, stopID int) error {
	query := `SELECT pg_advisory_xact_lock($1, $2)`
	if _, err := executor(r.db, exec).ExecContext(ctx, query, scheduleLockClass, stopID); err != nil {
		return fmt.Errorf("failed to lock schedule scope for stop %d: %w", stopID, err)
	}
	return nil
}

func (r *postgresRoundRepository) ExistsByScope(ctx context.Context, exec SQLExecutor, stopID int, bracketID *int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM rounds
			WHERE stop_id = $1 AND ($2::int IS NULL OR bracket_id = $2)
		)`

	var exists bool
	err := executor(r.db, exec).QueryRowContext(ctx, query, stopID, bracketID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule existence for stop %d: %w", stopID, err)
	}
	return exists, nil
}

// DeleteByScope removes the whole round set for the scope. Matches, games,
// lineups and score submissions go with it via ON DELETE CASCADE, so the
// scope is always replaced wholesale, never piecemeal.
func (r *postgresRoundRepository) DeleteByScope(ctx context.Context, exec SQLExecutor, stopID int, bracketID *int) error {
	query := `DELETE FROM rounds WHERE stop_id = $1 AND ($2::int IS NULL OR bracket_id = $2)`
	if _, err := executor(r.db, exec).ExecContext(ctx, query, stopID, bracketID); err != nil {
		return fmt.Errorf("failed to delete rounds for stop %d: %w", stopID, err)
	}
	return nil
}
