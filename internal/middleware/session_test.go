package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telconnect/telconnect/internal/auth"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/services"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

type memSessionRepo struct {
	sessions map[string]*models.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*models.Session)}
}

func (s *memSessionRepo) Create(ctx context.Context, session *models.Session) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *memSessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *memSessionRepo) Rotate(ctx context.Context, oldID, newID string, now time.Time) error {
	session, ok := s.sessions[oldID]
	if !ok {
		return models.ErrSessionNotFound
	}
	delete(s.sessions, oldID)
	session.ID = newID
	session.CreatedAt = now
	s.sessions[newID] = session
	return nil
}

func (s *memSessionRepo) SetCSRFToken(ctx context.Context, id, token string) (string, error) {
	session, ok := s.sessions[id]
	if !ok {
		return "", models.ErrSessionNotFound
	}
	if session.CSRFToken == nil {
		session.CSRFToken = &token
	}
	return *session.CSRFToken, nil
}

func (s *memSessionRepo) Delete(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *memSessionRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func testFixture(t *testing.T) (*SessionMiddleware, *memSessionRepo) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemSessionRepo()
	manager := services.NewSessionManager(repo, services.SessionConfig{
		Lifetime:      2 * time.Hour,
		RegenInterval: 30 * time.Minute,
	}, logger)
	cookies := auth.CookieConfig{Name: "telconnect_session"}
	mw := NewSessionMiddleware(manager, cookies, 2*time.Hour, logger, pkglogger.NewAuditLogger(logger))
	return mw, repo
}

func liveSession(repo *memSessionRepo, id string) *models.Session {
	now := time.Now()
	session := &models.Session{
		ID:        id,
		AdminID:   "admin-1",
		CreatedAt: now,
		ExpiresAt: now.Add(2 * time.Hour),
	}
	repo.sessions[id] = session
	return session
}

func captureSession(got **models.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadSession_AnonymousWithoutCookie(t *testing.T) {
	mw, _ := testFixture(t)

	var got *models.Session
	w := httptest.NewRecorder()
	mw.LoadSession(captureSession(&got)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got)
}

func TestLoadSession_ValidCookie(t *testing.T) {
	mw, repo := testFixture(t)
	liveSession(repo, "sess-1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "telconnect_session", Value: "sess-1"})

	var got *models.Session
	w := httptest.NewRecorder()
	mw.LoadSession(captureSession(&got)).ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.Equal(t, "admin-1", got.AdminID)
	// Young session: no rotation, no new cookie.
	assert.Empty(t, w.Result().Cookies())
}

func TestLoadSession_RotationSetsNewCookie(t *testing.T) {
	mw, repo := testFixture(t)
	session := liveSession(repo, "sess-1")
	session.CreatedAt = time.Now().Add(-45 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "telconnect_session", Value: "sess-1"})

	var got *models.Session
	w := httptest.NewRecorder()
	mw.LoadSession(captureSession(&got)).ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.NotEqual(t, "sess-1", got.ID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, got.ID, cookies[0].Value)
}

func TestLoadSession_StaleCookieCleared(t *testing.T) {
	mw, _ := testFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "telconnect_session", Value: "gone"})

	var got *models.Session
	w := httptest.NewRecorder()
	mw.LoadSession(captureSession(&got)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRequireAdmin(t *testing.T) {
	mw, _ := testFixture(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous browser is redirected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	})

	t.Run("anonymous API call gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/api/contacts/1", nil)
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated request passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req = req.WithContext(ContextWithSession(req.Context(), &models.Session{ID: "sess-1"}))
		w := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestVerifyCSRF(t *testing.T) {
	mw, repo := testFixture(t)
	token := "a-csrf-token"
	session := liveSession(repo, "sess-1")
	session.CSRFToken = &token

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	post := func(values url.Values, withSession bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/logout", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if withSession {
			req = req.WithContext(ContextWithSession(req.Context(), session))
		}
		w := httptest.NewRecorder()
		mw.VerifyCSRF(next).ServeHTTP(w, req)
		return w
	}

	t.Run("valid token passes", func(t *testing.T) {
		w := post(url.Values{"csrf_token": {token}}, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token fails closed", func(t *testing.T) {
		w := post(url.Values{}, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		w := post(url.Values{"csrf_token": {"forged"}}, true)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous request rejected", func(t *testing.T) {
		w := post(url.Values{"csrf_token": {token}}, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		mw.VerifyCSRF(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
