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
	ErrSubmissionDuplicate   = errors.New("score submission already exists for this side")
	ErrSubmissionGameInvalid = errors.New("score submission references an unknown game")
)

type SubmissionRepository interface {
	// Create inserts one side's report. The unique (game_id, side) constraint
	// is the first-writer-wins guarantee: a duplicate, including the same
	// captain double-clicking, surfaces as ErrSubmissionDuplicate instead of
	// overwriting.
	Create(ctx context.Context, exec SQLExecutor, sub *models.ScoreSubmission) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.ScoreSubmission, error)
	ListByGameIDs(ctx context.Context, exec SQLExecutor, gameIDs []int) ([]*models.ScoreSubmission, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

const submissionColumns = `id, game_id, side, my_score, opponent_score, submitted_at`

func (r *postgresSubmissionRepository) Create(ctx context.Context, exec SQLExecutor, sub *models.ScoreSubmission) error {
	query := `
		INSERT INTO score_submissions (game_id, side, my_score, opponent_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, submitted_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		sub.GameID,
		sub.Side,
		sub.MyScore,
		sub.OpponentScore,
	).Scan(&sub.ID, &sub.SubmittedAt)
	if err != nil {
		return r.handleSubmissionError(err)
	}
	return nil
}

func (r *postgresSubmissionRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.ScoreSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM score_submissions WHERE game_id = $1 ORDER BY side ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions for game %d: %w", gameID, err)
	}
	return r.collect(rows)
}

func (r *postgresSubmissionRepository) ListByGameIDs(ctx context.Context, exec SQLExecutor, gameIDs []int) ([]*models.ScoreSubmission, error) {
	if len(gameIDs) == 0 {
		return []*models.ScoreSubmission{}, nil
	}
	query := `SELECT ` + submissionColumns + ` FROM score_submissions WHERE game_id = ANY($1) ORDER BY game_id ASC, side ASC`
	rows, err := executor(r.db, exec).QueryContext(ctx, query, pq.Array(gameIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions for games: %w", err)
	}
	return r.collect(rows)
}

func (r *postgresSubmissionRepository) collect(rows *sql.Rows) ([]*models.ScoreSubmission, error) {
	defer rows.Close()

	subs := make([]*models.ScoreSubmission, 0)
	for rows.Next() {
		var sub models.ScoreSubmission
		if err := rows.Scan(
			&sub.ID,
			&sub.GameID,
			&sub.Side,
			&sub.MyScore,
			&sub.OpponentScore,
			&sub.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (r *postgresSubmissionRepository) handleSubmissionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch {
		case pqErr.Constraint == "score_submissions_game_id_side_key":
			return ErrSubmissionDuplicate
		case pqErr.Constraint == "score_submissions_game_id_fkey":
			return ErrSubmissionGameInvalid
		case pqErr.Code == "23505":
			return ErrSubmissionDuplicate
		}
	}
	return err
}
