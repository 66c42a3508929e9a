package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/telconnect/telconnect/internal/database"
	"github.com/telconnect/telconnect/internal/models"
)

// SessionRepository handles server-side session rows. Session IDs are
// opaque random tokens generated by the session manager; this layer never
// invents them.
type SessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, admin_id, admin_username, ip_address, csrf_token,
	login_time, created_at, expires_at`

func scanSessionRow(scanner rowScanner) (*models.Session, error) {
	var session models.Session

	err := scanner.Scan(
		&session.ID, &session.AdminID, &session.AdminUsername,
		&session.IPAddress, &session.CSRFToken,
		&session.LoginTime, &session.CreatedAt, &session.ExpiresAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &session, nil
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, admin_id, admin_username, ip_address, csrf_token, login_time, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		session.ID, session.AdminID, session.AdminUsername,
		session.IPAddress, session.CSRFToken,
		session.LoginTime, session.CreatedAt, session.ExpiresAt,
	)
	return database.MapPostgresError(err)
}

// Get fetches a session row by ID; expired rows are still returned and
// the caller decides how to dispose of them.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSessionRow(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrSessionNotFound
	}
	return session, err
}

// Rotate swaps a session onto a fresh ID, preserving the payload and
// resetting the creation clock. The old ID stops resolving the moment
// the statement commits.
func (r *SessionRepository) Rotate(ctx context.Context, oldID, newID string, now time.Time) error {
	query := `UPDATE sessions SET id = $2, created_at = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, oldID, newID, now)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

// SetCSRFToken stores the per-session CSRF token, only if none exists yet.
// Returns the token now on the row, which may be one set by a concurrent
// request that won the race.
func (r *SessionRepository) SetCSRFToken(ctx context.Context, id, token string) (string, error) {
	query := `
		UPDATE sessions
		SET csrf_token = COALESCE(csrf_token, $2)
		WHERE id = $1
		RETURNING csrf_token
	`

	var stored string
	err := r.db.Pool.QueryRow(ctx, query, id, token).Scan(&stored)
	if err != nil {
		if mapped := database.MapPostgresError(err); errors.Is(mapped, models.ErrNotFound) {
			return "", models.ErrSessionNotFound
		}
		return "", err
	}
	return stored, nil
}

// Delete removes one session row.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired removes all sessions past their lifetime.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
