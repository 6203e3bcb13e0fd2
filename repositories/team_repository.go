package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByBracket(ctx context.Context, bracketID int) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, bracket_id, club_id, name, seed, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.BracketID,
		&team.ClubID,
		&team.Name,
		&team.Seed,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return team, nil
}

// ListByBracket returns teams in seed order; generators rely on this order
// being stable across calls.
func (r *postgresTeamRepository) ListByBracket(ctx context.Context, bracketID int) ([]*models.Team, error) {
	query := `
		SELECT id, bracket_id, club_id, name, seed, created_at
		FROM teams
		WHERE bracket_id = $1
		ORDER BY seed ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for bracket %d: %w", bracketID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.BracketID, &t.ClubID, &t.Name, &t.Seed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}
