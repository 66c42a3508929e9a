package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telconnect/telconnect/internal/auth"
	"github.com/telconnect/telconnect/internal/models"
)

// SessionRepository defines the storage operations for server-side
// sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Rotate(ctx context.Context, oldID, newID string, now time.Time) error
	SetCSRFToken(ctx context.Context, id, token string) (string, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionConfig holds session lifetime and rotation settings.
type SessionConfig struct {
	Lifetime      time.Duration
	RegenInterval time.Duration
}

// SessionManager issues and validates server-side sessions bound to an
// authenticated admin, rotating IDs on login and periodically thereafter.
type SessionManager struct {
	repo   SessionRepository
	config SessionConfig
	logger *slog.Logger
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(repo SessionRepository, config SessionConfig, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// newSessionID returns a 32-byte random identifier. The ID is the only
// secret tying a browser to its session row.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Issue establishes a fresh session for an admin who just authenticated.
// A brand-new ID is always generated here, which is what makes login a
// session-regeneration point: any pre-login session ID the browser held
// never becomes privileged.
func (m *SessionManager) Issue(ctx context.Context, admin *models.AdminAccount, ipAddress string) (*models.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.Session{
		ID:            id,
		AdminID:       admin.ID,
		AdminUsername: admin.Username,
		IPAddress:     ipAddress,
		LoginTime:     now,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.config.Lifetime),
	}

	if err := m.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Load resolves a session ID from a request cookie. Expired sessions are
// deleted and reported as expired. When the session has outlived the
// rotation interval its ID is regenerated in place: payload preserved,
// creation clock reset. Callers must re-set the cookie whenever the
// returned session's ID differs from the one they passed in.
//
// Load is idempotent for a live, young session: it just returns the row.
// Storage failures propagate; a request is never silently treated as
// unauthenticated.
func (m *SessionManager) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, models.ErrSessionNotFound
	}

	session, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if session.Expired(now) {
		if err := m.repo.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, models.ErrSessionExpired
	}

	if session.NeedsRotation(now, m.config.RegenInterval) {
		newID, err := newSessionID()
		if err != nil {
			return nil, err
		}
		if err := m.repo.Rotate(ctx, session.ID, newID, now); err != nil {
			// A concurrent request may have rotated first; its cookie wins.
			if errors.Is(err, models.ErrSessionNotFound) {
				return nil, models.ErrSessionNotFound
			}
			return nil, err
		}
		m.logger.Debug("session id rotated", slog.String("admin_id", session.AdminID))
		session.ID = newID
		session.CreatedAt = now
	}

	return session, nil
}

// CSRFToken returns the session's CSRF token, generating it on first
// demand. The token lives as long as the session payload does.
func (m *SessionManager) CSRFToken(ctx context.Context, session *models.Session) (string, error) {
	if session.CSRFToken != nil && *session.CSRFToken != "" {
		return *session.CSRFToken, nil
	}

	token, err := auth.GenerateCSRFToken()
	if err != nil {
		return "", err
	}

	stored, err := m.repo.SetCSRFToken(ctx, session.ID, token)
	if err != nil {
		return "", err
	}

	session.CSRFToken = &stored
	return stored, nil
}

// VerifyCSRF checks a submitted token against the session's token in
// constant time, failing closed on any absence or mismatch.
func (m *SessionManager) VerifyCSRF(session *models.Session, candidate string) bool {
	return auth.VerifyCSRFToken(session.CSRFToken, candidate)
}

// Destroy clears the server-side session state. The caller is responsible
// for expiring the cookie on the same response.
func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.repo.Delete(ctx, sessionID)
}
