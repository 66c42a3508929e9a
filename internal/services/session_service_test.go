package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telconnect/telconnect/internal/models"
)

func testSessionConfig() SessionConfig {
	return SessionConfig{
		Lifetime:      2 * time.Hour,
		RegenInterval: 30 * time.Minute,
	}
}

func TestSessionIssue(t *testing.T) {
	var created *models.Session
	repo := &MockSessionRepository{
		CreateFunc: func(ctx context.Context, session *models.Session) error {
			created = session
			return nil
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())
	admin := &models.AdminAccount{ID: "admin-1", Username: "admin"}

	session, err := manager.Issue(context.Background(), admin, "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "admin-1", session.AdminID)
	assert.Equal(t, "admin", session.AdminUsername)
	assert.Equal(t, "10.0.0.1", session.IPAddress)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), session.ExpiresAt, 5*time.Second)

	// Two logins never share an ID.
	second, err := manager.Issue(context.Background(), admin, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, second.ID)
}

func TestSessionLoad_YoungSessionUntouched(t *testing.T) {
	now := time.Now()
	stored := &models.Session{
		ID:        "sess-1",
		AdminID:   "admin-1",
		CreatedAt: now.Add(-time.Minute),
		ExpiresAt: now.Add(time.Hour),
	}

	repo := &MockSessionRepository{
		GetFunc: func(ctx context.Context, id string) (*models.Session, error) {
			assert.Equal(t, "sess-1", id)
			return stored, nil
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())

	session, err := manager.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
}

func TestSessionLoad_EmptyID(t *testing.T) {
	manager := NewSessionManager(&MockSessionRepository{}, testSessionConfig(), testLogger())

	_, err := manager.Load(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSessionLoad_ExpiredSessionDeleted(t *testing.T) {
	now := time.Now()
	deleted := ""
	repo := &MockSessionRepository{
		GetFunc: func(ctx context.Context, id string) (*models.Session, error) {
			return &models.Session{
				ID:        id,
				CreatedAt: now.Add(-3 * time.Hour),
				ExpiresAt: now.Add(-time.Hour),
			}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())

	_, err := manager.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, models.ErrSessionExpired)
	assert.Equal(t, "sess-1", deleted)
}

func TestSessionLoad_RotationPreservesPayload(t *testing.T) {
	now := time.Now()
	var rotatedOld, rotatedNew string
	repo := &MockSessionRepository{
		GetFunc: func(ctx context.Context, id string) (*models.Session, error) {
			return &models.Session{
				ID:        id,
				AdminID:   "admin-1",
				LoginTime: now.Add(-45 * time.Minute),
				CreatedAt: now.Add(-45 * time.Minute),
				ExpiresAt: now.Add(time.Hour),
			}, nil
		},
		RotateFunc: func(ctx context.Context, oldID, newID string, rotatedAt time.Time) error {
			rotatedOld = oldID
			rotatedNew = newID
			return nil
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())

	session, err := manager.Load(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", rotatedOld)
	assert.NotEmpty(t, rotatedNew)
	assert.NotEqual(t, rotatedOld, rotatedNew)
	assert.Equal(t, rotatedNew, session.ID)
	// Payload survives the ID swap.
	assert.Equal(t, "admin-1", session.AdminID)
	assert.WithinDuration(t, now.Add(-45*time.Minute), session.LoginTime, time.Second)
}

func TestSessionLoad_ConcurrentRotationLoses(t *testing.T) {
	now := time.Now()
	repo := &MockSessionRepository{
		GetFunc: func(ctx context.Context, id string) (*models.Session, error) {
			return &models.Session{
				ID:        id,
				CreatedAt: now.Add(-time.Hour),
				ExpiresAt: now.Add(time.Hour),
			}, nil
		},
		RotateFunc: func(ctx context.Context, oldID, newID string, rotatedAt time.Time) error {
			return models.ErrSessionNotFound
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())

	_, err := manager.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestCSRFToken_GeneratedOnce(t *testing.T) {
	var storedToken string
	repo := &MockSessionRepository{
		SetCSRFTokenFunc: func(ctx context.Context, id, token string) (string, error) {
			// First writer wins; later calls would return the stored value.
			if storedToken == "" {
				storedToken = token
			}
			return storedToken, nil
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())
	session := &models.Session{ID: "sess-1"}

	token, err := manager.CSRFToken(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	// Second call short-circuits on the cached value.
	again, err := manager.CSRFToken(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.True(t, manager.VerifyCSRF(session, token))
	assert.False(t, manager.VerifyCSRF(session, "forged"))
}

func TestSessionDestroy(t *testing.T) {
	deleted := ""
	repo := &MockSessionRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	manager := NewSessionManager(repo, testSessionConfig(), testLogger())

	require.NoError(t, manager.Destroy(context.Background(), "sess-1"))
	assert.Equal(t, "sess-1", deleted)

	// Destroying an absent cookie is a no-op, not an error.
	require.NoError(t, manager.Destroy(context.Background(), ""))
}
