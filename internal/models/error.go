package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// unknown-username and wrong-password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password are required")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrIPLockedOut        = errors.New("too many failed attempts from this address")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Abuse-control errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrCSRFTokenInvalid  = errors.New("invalid security token")
)

// ValidationError carries per-field messages for user-correctable input
// problems. All violations are collected before it is returned; a spam
// (honeypot) hit is folded in without a distinguishing field so automated
// probes cannot tell it apart from ordinary validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// FieldError returns the message for one field, or "" when the field passed.
func (e *ValidationError) FieldError(field string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	return e.Fields[field]
}
