package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/telconnect/telconnect/internal/models"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

// RateLimitRepository defines the storage operations for submission
// counters.
type RateLimitRepository interface {
	PurgeExpired(ctx context.Context) error
	Hit(ctx context.Context, ipAddress, action string, max int, window time.Duration) (bool, error)
}

// RateLimitConfig holds the submission rate limiting knobs.
type RateLimitConfig struct {
	Enabled        bool
	MaxSubmissions int
	Window         time.Duration
}

// RateLimitService enforces the fixed-window per-IP submission limit.
type RateLimitService struct {
	repo        RateLimitRepository
	config      RateLimitConfig
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewRateLimitService creates a new RateLimitService
func NewRateLimitService(repo RateLimitRepository, config RateLimitConfig, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *RateLimitService {
	return &RateLimitService{
		repo:        repo,
		config:      config,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Allow charges one attempt for ip/action and returns
// models.ErrRateLimitExceeded once the window's ceiling is reached.
// Expired counters are purged first so a new window can open. Storage
// errors propagate; the limiter never fails open by guessing.
func (s *RateLimitService) Allow(ctx context.Context, ipAddress, action string) error {
	if !s.config.Enabled {
		return nil
	}

	if err := s.repo.PurgeExpired(ctx); err != nil {
		s.logger.Error("failed to purge expired rate limits", slog.Any("error", err))
		return models.ErrInternalServer
	}

	allowed, err := s.repo.Hit(ctx, ipAddress, action, s.config.MaxSubmissions, s.config.Window)
	if err != nil {
		s.logger.Error("failed to check rate limit", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if !allowed {
		s.auditLogger.LogSecurityEvent("rate_limit_exceeded", ipAddress, map[string]string{
			"action": action,
		})
		return models.ErrRateLimitExceeded
	}

	return nil
}
