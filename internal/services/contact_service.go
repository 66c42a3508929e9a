package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/telconnect/telconnect/internal/models"
	pkglogger "github.com/telconnect/telconnect/pkg/logger"
)

// ContactRepository defines the storage operations for contact
// submissions.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error)
	GetByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	List(ctx context.Context, filter models.ContactFilter, page, perPage int) (*models.ContactPage, error)
	ListAll(ctx context.Context, filter models.ContactFilter) ([]*models.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.ContactStats, error)
}

// RateLimiter is the slice of RateLimitService the intake pipeline uses.
type RateLimiter interface {
	Allow(ctx context.Context, ipAddress, action string) error
}

// Notifier delivers new-submission notifications to the site mailbox.
type Notifier interface {
	NotifyNewContact(ctx context.Context, contact *models.ContactSubmission) error
}

// ContactForm carries the raw public form fields. Website is a hidden
// honeypot input; humans never fill it.
type ContactForm struct {
	Name         string `validate:"required,min=2,max=100"`
	Email        string `validate:"required,email"`
	Phone        string `validate:"omitempty,intl_phone"`
	Subject      string `validate:"required,min=3,max=200"`
	Message      string `validate:"required,min=10,max=5000"`
	PlanInterest string `validate:"omitempty,max=100"`
	Website      string
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

var phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

func newContactValidator() *validator.Validate {
	v := validator.New()
	// Phone numbers arrive in display form; separators are stripped before
	// checking the international grammar.
	_ = v.RegisterValidation("intl_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(phoneStripper.Replace(fl.Field().String()))
	})
	return v
}

// ContactService runs the public intake pipeline and the admin
// query/action layer over stored submissions.
type ContactService struct {
	repo        ContactRepository
	rateLimiter RateLimiter
	notifier    Notifier // nil when email notifications are disabled
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo ContactRepository, rateLimiter RateLimiter, notifier Notifier, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:        repo,
		rateLimiter: rateLimiter,
		notifier:    notifier,
		validate:    newContactValidator(),
		logger:      logger,
	}
}

// genericFormMessage is what honeypot hits see. It is indistinguishable
// from the envelope of an ordinary validation failure.
const genericFormMessage = "Please check the form and try again."

// ValidateForm checks every rule and collects all violations instead of
// stopping at the first. A filled honeypot is reported as a bare form
// error carrying no field detail.
func (s *ContactService) ValidateForm(form *ContactForm) *models.ValidationError {
	if form.Website != "" {
		return &models.ValidationError{Fields: map[string]string{
			"form": genericFormMessage,
		}}
	}

	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &models.ValidationError{Fields: map[string]string{
			"form": genericFormMessage,
		}}
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[strings.ToLower(fe.Field())] = contactFieldMessage(fe)
	}
	return &models.ValidationError{Fields: fields}
}

func contactFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		switch fe.Tag() {
		case "required":
			return "Name is required."
		case "min":
			return "Name must be at least 2 characters."
		default:
			return "Name must not exceed 100 characters."
		}
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required."
		}
		return "Please enter a valid email address."
	case "Phone":
		return "Please enter a valid phone number."
	case "Subject":
		switch fe.Tag() {
		case "required":
			return "Subject is required."
		case "min":
			return "Subject must be at least 3 characters."
		default:
			return "Subject must not exceed 200 characters."
		}
	case "Message":
		switch fe.Tag() {
		case "required":
			return "Message is required."
		case "min":
			return "Message must be at least 10 characters."
		default:
			return "Message must not exceed 5000 characters."
		}
	default:
		return genericFormMessage
	}
}

// normalizePhone reduces a phone number to digits with an optional
// leading plus.
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Submit validates, rate-limits and persists one public contact-form
// submission. Validation failures leave no trace; a rate-limited
// submission is never persisted.
func (s *ContactService) Submit(ctx context.Context, form *ContactForm, ipAddress, userAgent string) (*models.ContactSubmission, error) {
	if verr := s.ValidateForm(form); verr != nil {
		return nil, verr
	}

	if err := s.rateLimiter.Allow(ctx, ipAddress, models.RateLimitActionContactForm); err != nil {
		return nil, err
	}

	contact := &models.ContactSubmission{
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Subject:   strings.TrimSpace(form.Subject),
		Message:   strings.TrimSpace(form.Message),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	if form.Phone != "" {
		phone := normalizePhone(form.Phone)
		contact.Phone = &phone
	}
	if form.PlanInterest != "" {
		plan := strings.TrimSpace(form.PlanInterest)
		contact.PlanInterest = &plan
	}

	created, err := s.repo.Create(ctx, contact)
	if err != nil {
		s.logger.Error("failed to save contact submission", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("contact submission received",
		slog.String("contact_id", created.ID),
		slog.String("email", pkglogger.SanitizedEmail(created.Email)),
		slog.String("ip_address", ipAddress),
	)

	// Notification failures are logged, never surfaced: the submission is
	// already stored.
	if s.notifier != nil {
		if err := s.notifier.NotifyNewContact(ctx, created); err != nil {
			s.logger.Error("failed to send contact notification",
				slog.String("contact_id", created.ID),
				slog.Any("error", err),
			)
		}
	}

	return created, nil
}

// List returns one page of submissions matching the filter, newest first.
func (s *ContactService) List(ctx context.Context, filter models.ContactFilter, page, perPage int) (*models.ContactPage, error) {
	result, err := s.repo.List(ctx, filter, page, perPage)
	if err != nil {
		s.logger.Error("failed to list contacts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return result, nil
}

// Get fetches a single submission; read-only.
func (s *ContactService) Get(ctx context.Context, id string) (*models.ContactSubmission, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get contact", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return contact, nil
}

// UpdateStatus transitions a submission between new/replied/closed. Any
// other value is rejected before storage is touched.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidContactStatus(status) {
		return models.ErrBadRequest
	}

	err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrBadRequest) {
			return err
		}
		s.logger.Error("failed to update contact status", slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// Delete hard-deletes one submission.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete contact", slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// Stats aggregates submission counts for the dashboard.
func (s *ContactService) Stats(ctx context.Context) (*models.ContactStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error("failed to get contact stats", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return stats, nil
}

// ExportCSV renders every submission matching the filter as CSV. The
// export is read-only and touches no counters.
func (s *ContactService) ExportCSV(ctx context.Context, filter models.ContactFilter) ([]byte, error) {
	contacts, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to export contacts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ID", "Name", "Email", "Phone", "Subject", "Plan Interest", "Status", "Created At"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, contact := range contacts {
		record := []string{
			contact.ID,
			contact.Name,
			contact.Email,
			stringOrEmpty(contact.Phone),
			contact.Subject,
			stringOrEmpty(contact.PlanInterest),
			contact.Status,
			contact.CreatedAt.Format(time.DateTime),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
