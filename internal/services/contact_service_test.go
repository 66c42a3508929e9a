package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telconnect/telconnect/internal/models"
)

func validForm() *ContactForm {
	return &ContactForm{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Fiber availability",
		Message: "Is the 1 Gbps fiber plan available in my area?",
	}
}

func newTestContactService(repo *MockContactRepository, limiter RateLimiter, notifier Notifier) *ContactService {
	return NewContactService(repo, limiter, notifier, testLogger())
}

func TestValidateForm(t *testing.T) {
	service := newTestContactService(nil, nil, nil)

	tests := []struct {
		name    string
		mutate  func(f *ContactForm)
		field   string
		message string
	}{
		{
			name:    "missing name",
			mutate:  func(f *ContactForm) { f.Name = "" },
			field:   "name",
			message: "Name is required.",
		},
		{
			name:    "name too short",
			mutate:  func(f *ContactForm) { f.Name = "A" },
			field:   "name",
			message: "Name must be at least 2 characters.",
		},
		{
			name:    "name too long",
			mutate:  func(f *ContactForm) { f.Name = strings.Repeat("a", 101) },
			field:   "name",
			message: "Name must not exceed 100 characters.",
		},
		{
			name:    "invalid email",
			mutate:  func(f *ContactForm) { f.Email = "not-an-email" },
			field:   "email",
			message: "Please enter a valid email address.",
		},
		{
			name:    "phone too short",
			mutate:  func(f *ContactForm) { f.Phone = "1234567" },
			field:   "phone",
			message: "Please enter a valid phone number.",
		},
		{
			name:    "phone with letters",
			mutate:  func(f *ContactForm) { f.Phone = "+1-800-CALLNOW" },
			field:   "phone",
			message: "Please enter a valid phone number.",
		},
		{
			name:    "subject too short",
			mutate:  func(f *ContactForm) { f.Subject = "Hi" },
			field:   "subject",
			message: "Subject must be at least 3 characters.",
		},
		{
			name:    "message too short",
			mutate:  func(f *ContactForm) { f.Message = "Too short" },
			field:   "message",
			message: "Message must be at least 10 characters.",
		},
		{
			name:    "message too long",
			mutate:  func(f *ContactForm) { f.Message = strings.Repeat("a", 5001) },
			field:   "message",
			message: "Message must not exceed 5000 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(form)

			verr := service.ValidateForm(form)
			require.NotNil(t, verr)
			assert.Equal(t, tt.message, verr.Fields[tt.field])
		})
	}
}

func TestValidateForm_Valid(t *testing.T) {
	service := newTestContactService(nil, nil, nil)

	form := validForm()
	form.Phone = "+1 (555) 123-4567"
	form.PlanInterest = "fiber-1g"

	assert.Nil(t, service.ValidateForm(form))
}

func TestValidateForm_CollectsAllViolations(t *testing.T) {
	service := newTestContactService(nil, nil, nil)

	form := &ContactForm{}
	verr := service.ValidateForm(form)
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "subject")
	assert.Contains(t, verr.Fields, "message")
}

func TestValidateForm_HoneypotIndistinguishable(t *testing.T) {
	service := newTestContactService(nil, nil, nil)

	form := validForm()
	form.Website = "https://spam.example"

	verr := service.ValidateForm(form)
	require.NotNil(t, verr)
	// A bot that filled the hidden field sees only the generic form error,
	// with no hint about which field tripped it.
	assert.Equal(t, map[string]string{"form": "Please check the form and try again."}, verr.Fields)
}

func TestSubmit_PersistsNormalizedForm(t *testing.T) {
	var saved *models.ContactSubmission
	repo := &MockContactRepository{
		CreateFunc: func(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error) {
			saved = contact
			contact.ID = "contact-1"
			return contact, nil
		},
	}

	service := newTestContactService(repo, &MockRateLimiter{}, nil)

	form := validForm()
	form.Name = "  Jane Doe  "
	form.Phone = "+1 (555) 123-4567"
	form.PlanInterest = "fiber-1g"

	created, err := service.Submit(context.Background(), form, "10.0.0.1", "agent/1.0")
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "contact-1", created.ID)
	assert.Equal(t, "Jane Doe", saved.Name)
	require.NotNil(t, saved.Phone)
	assert.Equal(t, "+15551234567", *saved.Phone)
	require.NotNil(t, saved.PlanInterest)
	assert.Equal(t, "fiber-1g", *saved.PlanInterest)
	assert.Equal(t, "10.0.0.1", saved.IPAddress)
	assert.Equal(t, "agent/1.0", saved.UserAgent)
}

func TestSubmit_RateLimitedNeverPersists(t *testing.T) {
	created := false
	repo := &MockContactRepository{
		CreateFunc: func(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error) {
			created = true
			return contact, nil
		},
	}
	limiter := &MockRateLimiter{
		AllowFunc: func(ctx context.Context, ip, action string) error {
			assert.Equal(t, models.RateLimitActionContactForm, action)
			return models.ErrRateLimitExceeded
		},
	}

	service := newTestContactService(repo, limiter, nil)

	_, err := service.Submit(context.Background(), validForm(), "10.0.0.1", "test")
	assert.ErrorIs(t, err, models.ErrRateLimitExceeded)
	assert.False(t, created)
}

func TestSubmit_InvalidFormSkipsRateLimiter(t *testing.T) {
	charged := false
	limiter := &MockRateLimiter{
		AllowFunc: func(ctx context.Context, ip, action string) error {
			charged = true
			return nil
		},
	}

	service := newTestContactService(nil, limiter, nil)

	form := validForm()
	form.Email = "broken"

	_, err := service.Submit(context.Background(), form, "10.0.0.1", "test")

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.False(t, charged)
}

func TestSubmit_NotifierFailureNotSurfaced(t *testing.T) {
	repo := &MockContactRepository{
		CreateFunc: func(ctx context.Context, contact *models.ContactSubmission) (*models.ContactSubmission, error) {
			contact.ID = "contact-1"
			return contact, nil
		},
	}
	notifier := &MockNotifier{
		NotifyNewContactFunc: func(ctx context.Context, contact *models.ContactSubmission) error {
			return assert.AnError
		},
	}

	service := newTestContactService(repo, &MockRateLimiter{}, notifier)

	created, err := service.Submit(context.Background(), validForm(), "10.0.0.1", "test")
	require.NoError(t, err)
	assert.Equal(t, "contact-1", created.ID)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	touched := false
	repo := &MockContactRepository{
		UpdateStatusFunc: func(ctx context.Context, id, status string) error {
			touched = true
			return nil
		},
	}

	service := newTestContactService(repo, nil, nil)

	err := service.UpdateStatus(context.Background(), "contact-1", "archived")
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.False(t, touched)

	require.NoError(t, service.UpdateStatus(context.Background(), "contact-1", models.ContactStatusReplied))
	assert.True(t, touched)
}

func TestExportCSV(t *testing.T) {
	phone := "+15551234567"
	repo := &MockContactRepository{
		ListAllFunc: func(ctx context.Context, filter models.ContactFilter) ([]*models.ContactSubmission, error) {
			return []*models.ContactSubmission{
				{
					ID:      "contact-1",
					Name:    "Jane Doe",
					Email:   "jane@example.com",
					Phone:   &phone,
					Subject: "Fiber, please",
					Status:  models.ContactStatusNew,
				},
			}, nil
		},
	}

	service := newTestContactService(repo, nil, nil)

	out, err := service.ExportCSV(context.Background(), models.ContactFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Email,Phone,Subject,Plan Interest,Status,Created At", lines[0])
	// The comma in the subject must be quoted, not split.
	assert.Contains(t, lines[1], `"Fiber, please"`)
	assert.Contains(t, lines[1], "+15551234567")
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"555 123 4567", "5551234567"},
		{"1+2", "12"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePhone(tt.in))
	}
}
