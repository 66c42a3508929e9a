package models

import "time"

// Session is a server-side admin session row. The ID is an opaque random
// token carried only in the session cookie; rotating the session issues a
// new ID, preserves the payload and resets CreatedAt.
type Session struct {
	ID            string
	AdminID       string
	AdminUsername string
	IPAddress     string
	CSRFToken     *string // Generated on first demand, one per session
	LoginTime     time.Time
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Expired reports whether the session has passed its lifetime.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// NeedsRotation reports whether the session ID is due for periodic
// regeneration.
func (s *Session) NeedsRotation(now time.Time, interval time.Duration) bool {
	return now.Sub(s.CreatedAt) > interval
}
