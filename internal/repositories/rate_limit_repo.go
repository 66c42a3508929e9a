package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/telconnect/telconnect/internal/database"
	"github.com/telconnect/telconnect/internal/models"
)

// RateLimitRepository handles the per-IP submission counters.
type RateLimitRepository struct {
	db *database.DB
}

func NewRateLimitRepository(db *database.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// PurgeExpired lazily removes counters whose window has passed. Called
// before every check so a fresh window can open.
func (r *RateLimitRepository) PurgeExpired(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM rate_limits WHERE expires_at < NOW()`)
	return err
}

// Hit charges one attempt against the (ip, action) counter and reports
// whether it was allowed. A missing counter opens a fresh window at
// attempts=1; an existing one is incremented only while below max, so a
// rejected submission never extends the window. The upsert keeps the
// check-and-increment atomic under concurrent submissions.
func (r *RateLimitRepository) Hit(ctx context.Context, ipAddress, action string, max int, window time.Duration) (bool, error) {
	query := `
		INSERT INTO rate_limits (ip_address, action, attempts, expires_at)
		VALUES ($1, $2, 1, NOW() + make_interval(secs => $3))
		ON CONFLICT (ip_address, action)
		DO UPDATE SET attempts = rate_limits.attempts + 1
		WHERE rate_limits.attempts < $4
		RETURNING attempts
	`

	var attempts int
	err := r.db.Pool.QueryRow(ctx, query, ipAddress, action, window.Seconds(), max).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict row exists at the ceiling; nothing was updated.
			return false, nil
		}
		return false, err
	}

	return attempts <= max, nil
}

// Get fetches one counter, mainly for tests and inspection.
func (r *RateLimitRepository) Get(ctx context.Context, ipAddress, action string) (*models.RateLimitCounter, error) {
	query := `
		SELECT ip_address, action, attempts, expires_at
		FROM rate_limits
		WHERE ip_address = $1 AND action = $2
	`

	var counter models.RateLimitCounter
	err := r.db.Pool.QueryRow(ctx, query, ipAddress, action).Scan(
		&counter.IPAddress, &counter.Action, &counter.Attempts, &counter.ExpiresAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &counter, nil
}
