package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/telconnect/telconnect/internal/auth"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/services"
	pkghttp "github.com/telconnect/telconnect/pkg/http"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

type contextKey string

const sessionContextKey contextKey = "admin_session"

// SessionMiddleware resolves the session cookie into an authenticated
// session and gates the admin surface behind it.
type SessionMiddleware struct {
	sessions    *services.SessionManager
	cookies     auth.CookieConfig
	lifetime    time.Duration
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewSessionMiddleware(
	sessions *services.SessionManager,
	cookies auth.CookieConfig,
	lifetime time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:    sessions,
		cookies:     cookies,
		lifetime:    lifetime,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// LoadSession attaches the request's session to the context when a valid
// cookie is present. Absent, expired or unknown sessions leave the
// request anonymous and clear the stale cookie; only storage failures
// abort the request.
func (sm *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := auth.GetSessionCookie(r, sm.cookies)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := sm.sessions.Load(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, models.ErrSessionNotFound) || errors.Is(err, models.ErrSessionExpired) {
				auth.ClearSessionCookie(w, sm.cookies)
				next.ServeHTTP(w, r)
				return
			}
			sm.logger.Error("failed to load session", slog.Any("error", err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// Load rotates aging session IDs; the browser needs the new one.
		if session.ID != sessionID {
			auth.SetSessionCookie(w, session.ID, int(sm.lifetime.Seconds()), sm.cookies)
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects anonymous requests. HTML requests are redirected
// to the login page; the rest get a plain 401.
func (sm *SessionMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			if acceptsHTML(r) {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			} else {
				pkghttp.WriteUnauthorized(w, "Authentication required")
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// VerifyCSRF validates the csrf_token form field on every state-changing
// request that passes through it. Requests must already be
// authenticated; the check fails closed.
func (sm *SessionMiddleware) VerifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		session := SessionFromContext(r.Context())
		if session == nil {
			pkghttp.WriteUnauthorized(w, "Authentication required")
			return
		}

		if err := r.ParseForm(); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid form data")
			return
		}

		if !sm.sessions.VerifyCSRF(session, r.PostFormValue("csrf_token")) {
			sm.auditLogger.LogSecurityEvent("csrf_rejected", r.RemoteAddr, map[string]string{
				"path": r.URL.Path,
			})
			pkghttp.WriteForbidden(w, "Invalid security token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the authenticated session, or nil for
// anonymous requests.
func SessionFromContext(ctx context.Context) *models.Session {
	session, _ := ctx.Value(sessionContextKey).(*models.Session)
	return session
}

// ContextWithSession is used by handler tests to seed an authenticated
// request.
func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func acceptsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
