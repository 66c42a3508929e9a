package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/telconnect/telconnect/internal/auth"
	"github.com/telconnect/telconnect/internal/i18n"
	"github.com/telconnect/telconnect/internal/middleware"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/services"
	pkghttp "github.com/telconnect/telconnect/pkg/http"
)

// AuthHandler serves the admin login and logout endpoints.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *services.SessionManager
	renderer    *Renderer
	csrf        *middleware.GuestCSRF
	cookies     auth.CookieConfig
	lifetime    time.Duration
	ipConfig    *pkghttp.IPConfig
	defaultLang string
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	authService *services.AuthService,
	sessions *services.SessionManager,
	renderer *Renderer,
	csrf *middleware.GuestCSRF,
	cookies auth.CookieConfig,
	lifetime time.Duration,
	ipConfig *pkghttp.IPConfig,
	defaultLang string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		renderer:    renderer,
		csrf:        csrf,
		cookies:     cookies,
		lifetime:    lifetime,
		ipConfig:    ipConfig,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// ShowLogin renders the login form, or sends an already-authenticated
// admin straight to the dashboard.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	lang := i18n.FromRequest(r, h.defaultLang)
	h.renderer.Render(w, r, http.StatusOK, "login", &PageData{
		Title:     i18n.T(lang, "login.title"),
		Lang:      lang,
		CSRFToken: h.csrf.Issue(w, r),
	})
}

// Login processes a credential submission. Every failure re-renders the
// form with a message; only the storage-error path degrades to the
// error page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)

	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, lang, http.StatusBadRequest, "Invalid form data.", "")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := pkghttp.UserAgent(r)

	admin, err := h.authService.Authenticate(r.Context(), username, password, ipAddress, userAgent)
	if err != nil {
		status, message := loginFailure(err)
		h.renderLoginError(w, r, lang, status, message, username)
		return
	}

	session, err := h.sessions.Issue(r.Context(), admin, ipAddress)
	if err != nil {
		h.logger.Error("failed to issue session", slog.Any("error", err))
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		return
	}

	auth.SetSessionCookie(w, session.ID, int(h.lifetime.Seconds()), h.cookies)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout destroys the session. The route is POST-only and CSRF-checked,
// so a cross-site GET cannot log an admin out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session != nil {
		if err := h.sessions.Destroy(r.Context(), session.ID); err != nil {
			h.logger.Error("failed to destroy session", slog.Any("error", err))
		}
	}

	auth.ClearSessionCookie(w, h.cookies)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// loginFailure maps an authentication error to a response status and the
// message the form shows. Unknown-user and wrong-password share one
// message by construction.
func loginFailure(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrEmptyCredentials):
		return http.StatusBadRequest, "Username and password are required."
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password."
	case errors.Is(err, models.ErrAccountDisabled):
		return http.StatusForbidden, "This account has been disabled."
	case errors.Is(err, models.ErrAccountLocked):
		return http.StatusForbidden, "Account temporarily locked due to too many failed attempts. Please try again later."
	case errors.Is(err, models.ErrIPLockedOut):
		return http.StatusTooManyRequests, "Too many failed login attempts. Please try again later."
	default:
		return http.StatusInternalServerError, "An error occurred. Please try again."
	}
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, lang string, status int, message, username string) {
	h.renderer.Render(w, r, status, "login", &PageData{
		Title:     i18n.T(lang, "login.title"),
		Lang:      lang,
		CSRFToken: h.csrf.Issue(w, r),
		Flash:     message,
		Form:      map[string]string{"username": username},
	})
}
