package models

import "time"

// Rate limit action tags.
const (
	RateLimitActionContactForm = "contact_form"
)

// RateLimitCounter tracks submissions from one IP for one action within a
// fixed window. Once Attempts reaches the configured maximum the counter is
// no longer incremented, so a flood cannot extend its own window.
type RateLimitCounter struct {
	IPAddress string
	Action    string
	Attempts  int
	ExpiresAt time.Time
}
