package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/apexgazer/internal/models"
)

// SampleRepository is the per-sample view of the telemetry cache.
type SampleRepository struct {
	db *DB
}

// NewSampleRepository creates a sample repository.
func NewSampleRepository(db *DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// CreateBatch bulk-inserts a lap's samples in source order.
func (r *SampleRepository) CreateBatch(ctx context.Context, samples []models.TelemetrySample) error {
	if len(samples) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(samples))
	for i, s := range samples {
		rows[i] = []interface{}{
			s.LapID,
			s.ElapsedSeconds,
			s.X,
			s.Y,
			s.SpeedKmh,
			s.Throttle,
			s.Brake,
			s.RPM,
			s.Gear,
			s.DRS,
		}
	}

	_, err := r.db.Pool.CopyFrom(ctx,
		pgx.Identifier{"samples"},
		[]string{"lap_id", "elapsed_seconds", "x", "y", "speed_kmh", "throttle", "brake", "rpm", "gear", "drs"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy samples: %w", err)
	}
	return nil
}

// ListByLapID returns a lap's samples in time order.
func (r *SampleRepository) ListByLapID(ctx context.Context, lapID int64) ([]models.TelemetrySample, error) {
	query := `
		SELECT id, lap_id, elapsed_seconds, x, y, speed_kmh, throttle, brake, rpm, gear, drs
		FROM samples WHERE lap_id = $1 ORDER BY elapsed_seconds, id
	`
	rows, err := r.db.Pool.Query(ctx, query, lapID)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []models.TelemetrySample
	for rows.Next() {
		var s models.TelemetrySample
		err := rows.Scan(
			&s.ID,
			&s.LapID,
			&s.ElapsedSeconds,
			&s.X,
			&s.Y,
			&s.SpeedKmh,
			&s.Throttle,
			&s.Brake,
			&s.RPM,
			&s.Gear,
			&s.DRS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, nil
}
