package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/telconnect/telconnect/internal/repositories"
)

// attemptRetention is how long login_attempts rows are kept. They are only
// ever read within the lockout window; a week leaves room for incident
// review.
const attemptRetention = 7 * 24 * time.Hour

// CleanupManager periodically removes expired sessions, stale login
// attempts and lapsed rate-limit counters.
type CleanupManager struct {
	sessionRepo   *repositories.SessionRepository
	authRepo      *repositories.AuthRepository
	rateLimitRepo *repositories.RateLimitRepository
	logger        *slog.Logger
	interval      time.Duration
	stopCh        chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	sessionRepo *repositories.SessionRepository,
	authRepo *repositories.AuthRepository,
	rateLimitRepo *repositories.RateLimitRepository,
	logger *slog.Logger,
	interval time.Duration,
) *CleanupManager {
	return &CleanupManager{
		sessionRepo:   sessionRepo,
		authRepo:      authRepo,
		rateLimitRepo: rateLimitRepo,
		logger:        logger,
		interval:      interval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sessions, err := cm.sessionRepo.DeleteExpired(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to delete expired sessions", slog.Any("error", err))
	} else if sessions > 0 {
		cm.logger.Info("expired sessions removed", slog.Int64("rows_deleted", sessions))
	}

	attempts, err := cm.authRepo.PurgeAttemptsBefore(cleanupCtx, time.Now().Add(-attemptRetention))
	if err != nil {
		cm.logger.Error("failed to purge old login attempts", slog.Any("error", err))
	} else if attempts > 0 {
		cm.logger.Info("old login attempts purged", slog.Int64("rows_deleted", attempts))
	}

	if err := cm.rateLimitRepo.PurgeExpired(cleanupCtx); err != nil {
		cm.logger.Error("failed to purge expired rate limits", slog.Any("error", err))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
