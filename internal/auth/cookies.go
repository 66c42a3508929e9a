package auth

import (
	"net/http"
)

// CookieConfig holds session cookie settings. HttpOnly and SameSite=Strict
// are fixed; only the name and the Secure flag vary by deployment.
type CookieConfig struct {
	Name   string
	Secure bool // HTTPS only
}

// SetSessionCookie sets the session ID cookie. HttpOnly keeps it away from
// scripts, Secure restricts it to the established transport, and strict
// same-site stops cross-site sends.
func SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge int, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     config.Name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     config.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, cookie)
}

// GetSessionCookie retrieves the session ID from the request, or "" when
// no cookie is present.
func GetSessionCookie(r *http.Request, config CookieConfig) string {
	cookie, err := r.Cookie(config.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
