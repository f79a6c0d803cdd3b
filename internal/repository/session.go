package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/apexgazer/internal/models"
)

// ErrNotFound is returned when a cache lookup misses.
var ErrNotFound = errors.New("repository: not found")

// SessionRepository is the session-level view of the telemetry cache.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a cached session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (year, event_name, session_type)
		VALUES ($1, $2, $3)
		RETURNING id, loaded_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		session.Year,
		session.EventName,
		session.SessionType,
	).Scan(&session.ID, &session.LoadedAt)

	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByKey looks up a cached session by its selection parameters.
func (r *SessionRepository) GetByKey(ctx context.Context, year int, event string, sessionType models.SessionType) (*models.Session, error) {
	query := `
		SELECT id, year, event_name, session_type, loaded_at
		FROM sessions WHERE year = $1 AND event_name = $2 AND session_type = $3
	`
	session := &models.Session{}
	err := r.db.Pool.QueryRow(ctx, query, year, event, sessionType).Scan(
		&session.ID,
		&session.Year,
		&session.EventName,
		&session.SessionType,
		&session.LoadedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// List returns all cached sessions, most recently loaded first.
func (r *SessionRepository) List(ctx context.Context) ([]*models.Session, error) {
	query := `
		SELECT id, year, event_name, session_type, loaded_at
		FROM sessions ORDER BY loaded_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		err := rows.Scan(
			&session.ID,
			&session.Year,
			&session.EventName,
			&session.SessionType,
			&session.LoadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// Delete evicts a session and, via cascade, its laps and samples.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
