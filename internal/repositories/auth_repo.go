package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/telconnect/telconnect/internal/database"
	"github.com/telconnect/telconnect/internal/models"
)

// AuthRepository owns the admin_users and login_attempts tables. The two
// are kept in one repository because every authentication decision must
// commit its attempt-log row and its account mutation together.
type AuthRepository struct {
	db *database.DB
}

func NewAuthRepository(db *database.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

const adminColumns = `id, username, email, full_name, password_hash, is_active,
	failed_login_attempts, locked_until, last_login_at, last_login_ip,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdminRow(scanner rowScanner) (*models.AdminAccount, error) {
	var admin models.AdminAccount

	err := scanner.Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.FullName,
		&admin.PasswordHash, &admin.IsActive, &admin.FailedLoginAttempts,
		&admin.LockedUntil, &admin.LastLoginAt, &admin.LastLoginIP,
		&admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &admin, nil
}

// GetByUsername looks up an admin account by exact username match.
func (r *AuthRepository) GetByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE username = $1 LIMIT 1`, adminColumns)
	return scanAdminRow(r.db.Pool.QueryRow(ctx, query, username))
}

// GetByID looks up an admin account by ID.
func (r *AuthRepository) GetByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE id = $1 LIMIT 1`, adminColumns)
	return scanAdminRow(r.db.Pool.QueryRow(ctx, query, id))
}

// Create inserts a new admin account.
func (r *AuthRepository) Create(ctx context.Context, admin *models.AdminAccount) (*models.AdminAccount, error) {
	admin.ID = uuid.New().String()

	query := fmt.Sprintf(`
		INSERT INTO admin_users (id, username, email, full_name, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, adminColumns)

	created, err := scanAdminRow(r.db.Pool.QueryRow(ctx, query,
		admin.ID, admin.Username, admin.Email, admin.FullName,
		admin.PasswordHash, admin.IsActive,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

// CountRecentIPFailures returns the number of failed attempts from one IP
// since the given time, regardless of which usernames were tried.
func (r *AuthRepository) CountRecentIPFailures(ctx context.Context, ipAddress string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE ip_address = $1 AND success = FALSE AND created_at > $2
	`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, ipAddress, since).Scan(&count)
	return count, err
}

// RecordFailure appends a failed attempt row and, when the attempt was
// charged against a known account, increments its failure counter. The
// increment and the conditional lock are a single UPDATE so two
// concurrent failures cannot race past the threshold, and the whole call
// is one transaction so the log and the counter never diverge.
func (r *AuthRepository) RecordFailure(ctx context.Context, adminID *string, attempt *models.LoginAttempt, maxAttempts int, lockout time.Duration) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := insertAttempt(ctx, tx, attempt, false); err != nil {
			return err
		}

		if adminID == nil {
			return nil
		}

		query := `
			UPDATE admin_users
			SET failed_login_attempts = failed_login_attempts + 1,
			    locked_until = CASE
			        WHEN failed_login_attempts + 1 >= $2
			        THEN NOW() + make_interval(secs => $3)
			        ELSE locked_until
			    END,
			    updated_at = NOW()
			WHERE id = $1
		`

		_, err := tx.Exec(ctx, query, *adminID, maxAttempts, lockout.Seconds())
		return err
	})
}

// RecordSuccess appends a successful attempt row, resets the account's
// failure counter, clears any lock and stamps the last login.
func (r *AuthRepository) RecordSuccess(ctx context.Context, adminID string, attempt *models.LoginAttempt) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := insertAttempt(ctx, tx, attempt, true); err != nil {
			return err
		}

		query := `
			UPDATE admin_users
			SET failed_login_attempts = 0,
			    locked_until = NULL,
			    last_login_at = NOW(),
			    last_login_ip = $2,
			    updated_at = NOW()
			WHERE id = $1
		`

		_, err := tx.Exec(ctx, query, adminID, attempt.IPAddress)
		return err
	})
}

// Unlock clears the failure counter and lock for one account by username.
func (r *AuthRepository) Unlock(ctx context.Context, username string) error {
	query := `
		UPDATE admin_users
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE username = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, username)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PurgeAttemptsBefore removes attempt rows older than the cutoff. Rows
// only ever matter within the lockout window, so anything older is noise.
func (r *AuthRepository) PurgeAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM login_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func insertAttempt(ctx context.Context, tx pgx.Tx, attempt *models.LoginAttempt, success bool) error {
	attempt.ID = uuid.New().String()
	attempt.Success = success

	query := `
		INSERT INTO login_attempts (id, username, ip_address, user_agent, success)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query,
		attempt.ID, attempt.Username, attempt.IPAddress, attempt.UserAgent, attempt.Success,
	)
	return err
}
