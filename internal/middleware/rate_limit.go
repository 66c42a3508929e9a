package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RequestRateLimit caps the raw request rate on a route group. It is the
// outer, transport-level throttle; the per-IP submission and login
// lockout rules in the services layer are enforced separately and
// persist across restarts.
type RequestRateLimit struct {
	Requests int
	Window   time.Duration
}

// DefaultLoginRateLimit bounds login POSTs per IP. Deliberately above
// the account lockout threshold so the database-backed lockout, not
// this throttle, is what callers observe first.
func DefaultLoginRateLimit() RequestRateLimit {
	return RequestRateLimit{Requests: 10, Window: time.Minute}
}

// DefaultFormRateLimit bounds public form POSTs per IP.
func DefaultFormRateLimit() RequestRateLimit {
	return RequestRateLimit{Requests: 20, Window: time.Minute}
}

// RateLimitByIP creates a middleware that rate limits requests by client IP
func RateLimitByIP(config RequestRateLimit) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("Too many requests. Please try again later.\n"))
		}),
	)
}
