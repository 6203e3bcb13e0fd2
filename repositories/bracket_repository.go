package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

var ErrBracketNotFound = errors.New("bracket not found")

type BracketRepository interface {
	GetByID(ctx context.Context, id int) (*models.Bracket, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Bracket, error)
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	query := `
		SELECT id, tournament_id, name, format, created_at
		FROM brackets
		WHERE id = $1`

	bracket := &models.Bracket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bracket.ID,
		&bracket.TournamentID,
		&bracket.Name,
		&bracket.Format,
		&bracket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to scan bracket by id %d: %w", id, err)
	}
	return bracket, nil
}

func (r *postgresBracketRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Bracket, error) {
	query := `
		SELECT id, tournament_id, name, format, created_at
		FROM brackets
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query brackets for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	brackets := make([]*models.Bracket, 0)
	for rows.Next() {
		var b models.Bracket
		if err := rows.Scan(&b.ID, &b.TournamentID, &b.Name, &b.Format, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bracket row: %w", err)
		}
		brackets = append(brackets, &b)
	}
	return brackets, rows.Err()
}
