package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markbrown88/pickleball-app-sub002/models"
)

var ErrStopNotFound = errors.New("stop not found")

type StopRepository interface {
	GetByID(ctx context.Context, id int) (*models.Stop, error)
}

type postgresStopRepository struct {
	db *sql.DB
}

func NewPostgresStopRepository(db *sql.DB) StopRepository {
	return &postgresStopRepository{db: db}
}

func (r *postgresStopRepository) GetByID(ctx context.Context, id int) (*models.Stop, error) {
	query := `
		SELECT id, tournament_id, name, start_date, end_date, created_at
		FROM stops
		WHERE id = $1`

	stop := &models.Stop{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&stop.ID,
		&stop.TournamentID,
		&stop.Name,
		&stop.StartDate,
		&stop.EndDate,
		&stop.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStopNotFound
		}
		return nil, fmt.Errorf("failed to scan stop by id %d: %w", id, err)
	}
	return stop, nil
}
