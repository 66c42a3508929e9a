package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/telconnect/telconnect/internal/models"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

// Function-field mocks: each test assigns only the calls it expects.

type MockAuthRepository struct {
	GetByUsernameFunc         func(ctx context.Context, username string) (*models.AdminAccount, error)
	GetByIDFunc               func(ctx context.Context, id string) (*models.AdminAccount, error)
	CountRecentIPFailuresFunc func(ctx context.Context, ipAddress string, since time.Time) (int, error)
	RecordFailureFunc         func(ctx context.Context, adminID *string, attempt *models.LoginAttempt, maxAttempts int, lockout time.Duration) error
	RecordSuccessFunc         func(ctx context.Context, adminID string, attempt *models.LoginAttempt) error
}

func (m *MockAuthRepository) GetByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *MockAuthRepository) GetByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockAuthRepository) CountRecentIPFailures(ctx context.Context, ipAddress string, since time.Time) (int, error) {
	return m.CountRecentIPFailuresFunc(ctx, ipAddress, since)
}

func (m *MockAuthRepository) RecordFailure(ctx context.Context, adminID *string, attempt *models.LoginAttempt, maxAttempts int, lockout time.Duration) error {
	return m.RecordFailureFunc(ctx, adminID, attempt, maxAttempts, lockout)
}

func (m *MockAuthRepository) RecordSuccess(ctx context.Context, adminID string, attempt *models.LoginAttempt) error {
	return m.RecordSuccessFunc(ctx, adminID, attempt)
}

type MockSessionRepository struct {
	CreateFunc        func(ctx context.Context, session *models.Session) error
	GetFunc           func(ctx context.Context, id string) (*models.Session, error)
	RotateFunc        func(ctx context.Context, oldID, newID string, now time.Time) error
	SetCSRFTokenFunc  func(ctx context.Context, id, token string) (string, error)
	DeleteFunc        func(ctx context.Context, id string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	return m.CreateFunc(ctx, session)
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockSessionRepository) Rotate(ctx context.Context, oldID, newID string, now time.Time) error {
	return m.RotateFunc(ctx, oldID, newID, now)
}

func (m *MockSessionRepository) SetCSRFToken(ctx context.Context, id, token string) (string, error) {
	return m.SetCSRFTokenFunc(ctx, id, token)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return m.DeleteExpiredFunc(ctx)
}

type MockContactRepository struct {
	CreateFunc       func(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error)
	GetByIDFunc      func(ctx context.Context, id string) (*models.ContactSubmission, error)
	ListFunc         func(ctx context.Context, filter models.ContactFilter, page, perPage int) (*models.ContactPage, error)
	ListAllFunc      func(ctx context.Context, filter models.ContactFilter) ([]*models.ContactSubmission, error)
	UpdateStatusFunc func(ctx context.Context, id, status string) error
	DeleteFunc       func(ctx context.Context, id string) error
	StatsFunc        func(ctx context.Context) (*models.ContactStats, error)
}

func (m *MockContactRepository) Create(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error) {
	return m.CreateFunc(ctx, contact)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockContactRepository) List(ctx context.Context, filter models.ContactFilter, page, perPage int) (*models.ContactPage, error) {
	return m.ListFunc(ctx, filter, page, perPage)
}

func (m *MockContactRepository) ListAll(ctx context.Context, filter models.ContactFilter) ([]*models.ContactSubmission, error) {
	return m.ListAllFunc(ctx, filter)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockContactRepository) Stats(ctx context.Context) (*models.ContactStats, error) {
	return m.StatsFunc(ctx)
}

type MockRateLimitRepository struct {
	PurgeExpiredFunc func(ctx context.Context) error
	HitFunc          func(ctx context.Context, ipAddress, action string, max int, window time.Duration) (bool, error)
}

func (m *MockRateLimitRepository) PurgeExpired(ctx context.Context) error {
	return m.PurgeExpiredFunc(ctx)
}

func (m *MockRateLimitRepository) Hit(ctx context.Context, ipAddress, action string, max int, window time.Duration) (bool, error) {
	return m.HitFunc(ctx, ipAddress, action, max, window)
}

type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, ipAddress, action string) error
}

func (m *MockRateLimiter) Allow(ctx context.Context, ipAddress, action string) error {
	if m.AllowFunc == nil {
		return nil
	}
	return m.AllowFunc(ctx, ipAddress, action)
}

type MockNotifier struct {
	NotifyNewContactFunc func(ctx context.Context, contact *models.ContactSubmission) error
}

func (m *MockNotifier) NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error {
	return m.NotifyNewContactFunc(ctx, contact)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}
