package repository

import (
	"context"
	"fmt"

	"github.com/langchou/apexgazer/internal/models"
)

// LapRepository is the lap-level view of the telemetry cache.
type LapRepository struct {
	db *DB
}

// NewLapRepository creates a lap repository.
func NewLapRepository(db *DB) *LapRepository {
	return &LapRepository{db: db}
}

// Create inserts a cached lap.
func (r *LapRepository) Create(ctx context.Context, lap *models.Lap) error {
	query := `
		INSERT INTO laps (session_id, driver, lap_number, lap_time_ms, sector1_ms, sector2_ms, sector3_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		lap.SessionID,
		lap.Driver,
		lap.LapNumber,
		lap.LapTimeMs,
		lap.Sector1Ms,
		lap.Sector2Ms,
		lap.Sector3Ms,
	).Scan(&lap.ID)

	if err != nil {
		return fmt.Errorf("insert lap: %w", err)
	}
	return nil
}

// ListBySessionID returns a session's laps ordered by lap time, fastest
// first.
func (r *LapRepository) ListBySessionID(ctx context.Context, sessionID int64) ([]*models.Lap, error) {
	query := `
		SELECT id, session_id, driver, lap_number, lap_time_ms, sector1_ms, sector2_ms, sector3_ms
		FROM laps WHERE session_id = $1 ORDER BY lap_time_ms
	`
	rows, err := r.db.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list laps: %w", err)
	}
	defer rows.Close()

	var laps []*models.Lap
	for rows.Next() {
		lap := &models.Lap{}
		err := rows.Scan(
			&lap.ID,
			&lap.SessionID,
			&lap.Driver,
			&lap.LapNumber,
			&lap.LapTimeMs,
			&lap.Sector1Ms,
			&lap.Sector2Ms,
			&lap.Sector3Ms,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lap: %w", err)
		}
		laps = append(laps, lap)
	}

	return laps, nil
}

// CountBySessionID returns the number of cached laps for a session.
func (r *LapRepository) CountBySessionID(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM laps WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count laps: %w", err)
	}
	return count, nil
}
