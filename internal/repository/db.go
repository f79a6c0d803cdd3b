package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to the telemetry cache database.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate applies the schema. Every statement is idempotent so repeated
// startups are safe.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateSessions,
		migrationCreateLaps,
		migrationCreateSamples,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id BIGSERIAL PRIMARY KEY,
    year INT NOT NULL,
    event_name VARCHAR(64) NOT NULL,
    session_type VARCHAR(8) NOT NULL,
    loaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE (year, event_name, session_type)
);
CREATE INDEX IF NOT EXISTS idx_sessions_year ON sessions(year);
`

const migrationCreateLaps = `
CREATE TABLE IF NOT EXISTS laps (
    id BIGSERIAL PRIMARY KEY,
    session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    driver VARCHAR(16) NOT NULL,
    lap_number INT NOT NULL,
    lap_time_ms BIGINT NOT NULL,
    sector1_ms BIGINT,
    sector2_ms BIGINT,
    sector3_ms BIGINT
);
CREATE INDEX IF NOT EXISTS idx_laps_session_id ON laps(session_id);
CREATE INDEX IF NOT EXISTS idx_laps_lap_time ON laps(session_id, lap_time_ms);
`

const migrationCreateSamples = `
CREATE TABLE IF NOT EXISTS samples (
    id BIGSERIAL PRIMARY KEY,
    lap_id BIGINT NOT NULL REFERENCES laps(id) ON DELETE CASCADE,
    elapsed_seconds DOUBLE PRECISION NOT NULL,
    x DOUBLE PRECISION NOT NULL,
    y DOUBLE PRECISION NOT NULL,
    speed_kmh DOUBLE PRECISION NOT NULL,
    throttle DOUBLE PRECISION NOT NULL,
    brake DOUBLE PRECISION NOT NULL,
    rpm DOUBLE PRECISION NOT NULL,
    gear INT NOT NULL,
    drs INT
);
CREATE INDEX IF NOT EXISTS idx_samples_lap_id ON samples(lap_id);
`
