package models

import "time"

// Contact submission statuses.
const (
	ContactStatusNew     = "new"
	ContactStatusReplied = "replied"
	ContactStatusClosed  = "closed"
)

// ValidContactStatus reports whether s is one of the allowed statuses.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusReplied, ContactStatusClosed:
		return true
	}
	return false
}

// ContactSubmission is a contact-form submission stored for admin triage.
type ContactSubmission struct {
	ID           string
	Name         string
	Email        string
	Phone        *string // Normalized to digits with optional leading +
	Subject      string
	Message      string
	PlanInterest *string
	IPAddress    string
	UserAgent    string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContactFilter narrows contact listings and exports.
type ContactFilter struct {
	Status string // Exact status match, empty for all
	Search string // Case-insensitive substring over name/email/subject/message
}

// ContactPage is one page of a filtered contact listing.
type ContactPage struct {
	Contacts   []*ContactSubmission
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// ContactStats aggregates submission counts for the dashboard header.
type ContactStats struct {
	Total   int
	New     int
	Replied int
	Closed  int
	Today   int
}
