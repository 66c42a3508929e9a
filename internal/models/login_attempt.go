package models

import "time"

// LoginAttempt is one append-only record of a login attempt. The username
// is stored as submitted, whether or not such an account exists; rows are
// only ever read in aggregate for IP-level throttling.
type LoginAttempt struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	IPAddress string `db:"ip_address"`
	UserAgent string `db:"user_agent"`
	Success   bool   `db:"success"`
	CreatedAt time.Time `db:"created_at"`
}
