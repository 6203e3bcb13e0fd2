package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/markbrown88/pickleball-app-sub002/models"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameSlotConflict = errors.New("game slot already exists for this match")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Game, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.Game, error)
	UpdateCanonical(ctx context.Context, exec SQLExecutor, id int, teamAScore, teamBScore int, endedAt time.Time) error
	// SetStarted stamps started_at once; later calls are no-ops so the first
	// trigger (explicit start or first score submission) wins.
	SetStarted(ctx context.Context, exec SQLExecutor, id int, startedAt time.Time) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, match_id, slot, team_a_score, team_b_score, is_complete,
	       started_at, ended_at, created_at`

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games (match_id, slot)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query, game.MatchID, game.Slot).
		Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		return r.handleGameError(err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *postgresGameRepository) GetForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`
	return r.scanOne(executor(r.db, exec).QueryRowContext(ctx, query, id), id)
}

func (r *postgresGameRepository) scanOne(row *sql.Row, id int) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.ID,
		&game.MatchID,
		&game.Slot,
		&game.TeamAScore,
		&game.TeamBScore,
		&game.IsComplete,
		&game.StartedAt,
		&game.EndedAt,
		&game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game by id %d: %w", id, err)
	}
	return game, nil
}

func (r *postgresGameRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE match_id = $1 ORDER BY id ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for match %d: %w", matchID, err)
	}
	return r.collect(rows)
}

func (r *postgresGameRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.Game, error) {
	if len(matchIDs) == 0 {
		return []*models.Game{}, nil
	}
	query := `SELECT ` + gameColumns + ` FROM games WHERE match_id = ANY($1) ORDER BY match_id ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query games for matches: %w", err)
	}
	return r.collect(rows)
}

func (r *postgresGameRepository) collect(rows *sql.Rows) ([]*models.Game, error) {
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		var game models.Game
		if err := rows.Scan(
			&game.ID,
			&game.MatchID,
			&game.Slot,
			&game.TeamAScore,
			&game.TeamBScore,
			&game.IsComplete,
			&game.StartedAt,
			&game.EndedAt,
			&game.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, &game)
	}
	return games, rows.Err()
}

func (r *postgresGameRepository) UpdateCanonical(ctx context.Context, exec SQLExecutor, id int, teamAScore, teamBScore int, endedAt time.Time) error {
	query := `
		UPDATE games
		SET team_a_score = $1, team_b_score = $2, is_complete = TRUE, ended_at = $3
		WHERE id = $4`

	result, err := executor(r.db, exec).ExecContext(ctx, query, teamAScore, teamBScore, endedAt, id)
	if err != nil {
		return fmt.Errorf("failed to set canonical score for game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) SetStarted(ctx context.Context, exec SQLExecutor, id int, startedAt time.Time) error {
	query := `UPDATE games SET started_at = $1 WHERE id = $2 AND started_at IS NULL`
	if _, err := executor(r.db, exec).ExecContext(ctx, query, startedAt, id); err != nil {
		return fmt.Errorf("failed to mark game %d started: %w", id, err)
	}
	return nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "games_match_id_slot_key":
			return ErrGameSlotConflict
		case "games_match_id_fkey":
			return fmt.Errorf("game match conflict: %w", err)
		}
	}
	return err
}
