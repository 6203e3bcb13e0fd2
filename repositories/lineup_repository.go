package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/markbrown88/pickleball-app-sub002/models"
)

type LineupRepository interface {
	// Upsert overwrites any prior lineup for the (match, side) pair. Lock
	// windows are enforced by the service before this is called; no history
	// is kept.
	Upsert(ctx context.Context, exec SQLExecutor, lineup *models.Lineup) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Lineup, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.Lineup, error)
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

const lineupColumns = `id, match_id, side, man1_id, man2_id, woman1_id, woman2_id, created_at, updated_at`

func (r *postgresLineupRepository) Upsert(ctx context.Context, exec SQLExecutor, lineup *models.Lineup) error {
	query := `
		INSERT INTO lineups (match_id, side, man1_id, man2_id, woman1_id, woman2_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id, side) DO UPDATE
		SET man1_id = EXCLUDED.man1_id,
		    man2_id = EXCLUDED.man2_id,
		    woman1_id = EXCLUDED.woman1_id,
		    woman2_id = EXCLUDED.woman2_id,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := executor(r.db, exec).QueryRowContext(ctx, query,
		lineup.MatchID,
		lineup.Side,
		lineup.Man1ID,
		lineup.Man2ID,
		lineup.Woman1ID,
		lineup.Woman2ID,
	).Scan(&lineup.ID, &lineup.CreatedAt, &lineup.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert lineup for match %d side %s: %w", lineup.MatchID, lineup.Side, err)
	}
	return nil
}

func (r *postgresLineupRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Lineup, error) {
	query := `SELECT ` + lineupColumns + ` FROM lineups WHERE match_id = $1 ORDER BY side ASC`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lineups for match %d: %w", matchID, err)
	}
	return r.collect(rows)
}

func (r *postgresLineupRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.Lineup, error) {
	if len(matchIDs) == 0 {
		return []*models.Lineup{}, nil
	}
	query := `SELECT ` + lineupColumns + ` FROM lineups WHERE match_id = ANY($1) ORDER BY match_id ASC, side ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query lineups for matches: %w", err)
	}
	return r.collect(rows)
}

func (r *postgresLineupRepository) collect(rows *sql.Rows) ([]*models.Lineup, error) {
	defer rows.Close()

	lineups := make([]*models.Lineup, 0)
	for rows.Next() {
		var lineup models.Lineup
		if err := rows.Scan(
			&lineup.ID,
			&lineup.MatchID,
			&lineup.Side,
			&lineup.Man1ID,
			&lineup.Man2ID,
			&lineup.Woman1ID,
			&lineup.Woman2ID,
			&lineup.CreatedAt,
			&lineup.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lineup row: %w", err)
		}
		lineups = append(lineups, &lineup)
	}
	return lineups, rows.Err()
}
