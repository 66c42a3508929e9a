package models

import (
	"time"
)

// AdminAccount is a dashboard operator account.
type AdminAccount struct {
	ID                  string
	Username            string
	Email               string
	FullName            string
	PasswordHash        string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time // Temporary lock expiration, nil when not locked
	LastLoginAt         *time.Time
	LastLoginIP         *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is currently under a temporary lock.
func (a *AdminAccount) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}
