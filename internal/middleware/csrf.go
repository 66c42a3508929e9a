package middleware

import (
	"log/slog"
	"net/http"

	"github.com/telconnect/telconnect/internal/auth"
	pkghttp "github.com/telconnect/telconnect/pkg/http"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

// GuestCSRF protects the unauthenticated forms. Admin sessions keep
// their token server-side; visitors have no session row, so the token
// lives in a dedicated cookie and the posted form must echo it back.
type GuestCSRF struct {
	cookieName  string
	secure      bool
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewGuestCSRF(secure bool, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *GuestCSRF {
	return &GuestCSRF{
		cookieName:  "csrf_token",
		secure:      secure,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Issue returns the visitor's token for embedding in a form, minting the
// cookie on first contact. A minting failure returns "" and the eventual
// POST fails closed.
func (g *GuestCSRF) Issue(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(g.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token, err := auth.GenerateCSRFToken()
	if err != nil {
		g.logger.Error("failed to generate csrf token", slog.Any("error", err))
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// Verify requires the posted csrf_token field to match the visitor's
// cookie before the handler runs. Safe methods pass through; a missing
// cookie, missing field, or any mismatch is rejected.
func (g *GuestCSRF) Verify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if err := r.ParseForm(); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid form data")
			return
		}

		var cookieToken *string
		if cookie, err := r.Cookie(g.cookieName); err == nil {
			cookieToken = &cookie.Value
		}

		if !auth.VerifyCSRFToken(cookieToken, r.PostFormValue("csrf_token")) {
			g.auditLogger.LogSecurityEvent("csrf_rejected", r.RemoteAddr, map[string]string{
				"path": r.URL.Path,
			})
			pkghttp.WriteForbidden(w, "Invalid security token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
