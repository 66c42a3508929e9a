package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/telconnect/telconnect/internal/auth"
	"github.com/telconnect/telconnect/internal/models"
	pkgauth "github.com/telconnect/telconnect/pkg/auth"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

// AuthRepository defines the storage operations the authenticator needs.
type AuthRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminAccount, error)
	GetByID(ctx context.Context, id string) (*models.AdminAccount, error)
	CountRecentIPFailures(ctx context.Context, ipAddress string, since time.Time) (int, error)
	RecordFailure(ctx context.Context, adminID *string, attempt *models.LoginAttempt, maxAttempts int, lockout time.Duration) error
	RecordSuccess(ctx context.Context, adminID string, attempt *models.LoginAttempt) error
}

// AuthConfig holds the lockout knobs.
type AuthConfig struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
}

// AuthService orchestrates credential verification, per-account lockout
// and per-IP lockout.
type AuthService struct {
	repo        AuthRepository
	config      AuthConfig
	timingDelay *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo AuthRepository, config AuthConfig, timingDelay *auth.TimingDelay, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		repo:        repo,
		config:      config,
		timingDelay: timingDelay,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Authenticate verifies credentials for an admin account, in strict order:
// IP lockout, empty input, account lookup, active flag, account lockout,
// password. Apart from the empty-input rejection, every call appends
// exactly one login_attempts row; failed-attempt counting and conditional
// locking happen in the same transaction as the log append.
//
// Unknown username and wrong password both return ErrInvalidCredentials;
// lockout and disabled states are deliberately more specific.
func (s *AuthService) Authenticate(ctx context.Context, username, password, ipAddress, userAgent string) (*models.AdminAccount, error) {
	attempt := &models.LoginAttempt{
		Username:  username,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	// 1. IP-level lockout, checked before anything account-specific so a
	// blocked address learns nothing about account existence. The attempt
	// is still logged as a failure.
	since := time.Now().Add(-s.config.LockoutDuration)
	ipFailures, err := s.repo.CountRecentIPFailures(ctx, ipAddress, since)
	if err != nil {
		s.logger.Error("failed to check IP lockout", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if ipFailures >= s.config.MaxLoginAttempts {
		if err := s.repo.RecordFailure(ctx, nil, attempt, s.config.MaxLoginAttempts, s.config.LockoutDuration); err != nil {
			s.logger.Error("failed to record login attempt", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			IPAddress:     ipAddress,
			FailureReason: "ip_locked_out",
			Success:       false,
		})
		return nil, models.ErrIPLockedOut
	}

	// 2. Empty input is rejected locally, no storage consulted.
	if username == "" || password == "" {
		return nil, models.ErrEmptyCredentials
	}

	// 3. Account lookup. Nonexistent accounts get the same message and
	// comparable timing as a wrong password.
	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if err := s.repo.RecordFailure(ctx, nil, attempt, s.config.MaxLoginAttempts, s.config.LockoutDuration); err != nil {
				s.logger.Error("failed to record login attempt", slog.Any("error", err))
				return nil, models.ErrInternalServer
			}
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				IPAddress:     ipAddress,
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			s.timingDelay.Wait(false)
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get admin by username", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	// 4. Disabled account.
	if !admin.IsActive {
		if err := s.repo.RecordFailure(ctx, nil, attempt, s.config.MaxLoginAttempts, s.config.LockoutDuration); err != nil {
			s.logger.Error("failed to record login attempt", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AdminID:       admin.ID,
			IPAddress:     ipAddress,
			FailureReason: "account_disabled",
			Success:       false,
		})
		return nil, models.ErrAccountDisabled
	}

	// 5. Account-level lockout, decided before the password is evaluated
	// so a locked account is not a password oracle.
	if admin.Locked(time.Now()) {
		if err := s.repo.RecordFailure(ctx, nil, attempt, s.config.MaxLoginAttempts, s.config.LockoutDuration); err != nil {
			s.logger.Error("failed to record login attempt", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AdminID:       admin.ID,
			IPAddress:     ipAddress,
			FailureReason: "account_locked",
			Success:       false,
		})
		return nil, models.ErrAccountLocked
	}

	// 6. Password verification.
	if err := pkgauth.ComparePassword(admin.PasswordHash, password); err != nil {
		if err := s.repo.RecordFailure(ctx, &admin.ID, attempt, s.config.MaxLoginAttempts, s.config.LockoutDuration); err != nil {
			s.logger.Error("failed to record login attempt", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			AdminID:       admin.ID,
			IPAddress:     ipAddress,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		s.timingDelay.Wait(false)
		return nil, models.ErrInvalidCredentials
	}

	// 7. Success: counters reset, lock cleared, last login stamped, and
	// the success logged, all in one transaction.
	if err := s.repo.RecordSuccess(ctx, admin.ID, attempt); err != nil {
		s.logger.Error("failed to record successful login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("admin logged in", slog.String("admin_id", admin.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		AdminID:   admin.ID,
		IPAddress: ipAddress,
		Success:   true,
	})

	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil

	return admin, nil
}

// GetAdmin fetches the account behind an authenticated session.
func (s *AuthService) GetAdmin(ctx context.Context, id string) (*models.AdminAccount, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get admin by id", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return admin, nil
}
