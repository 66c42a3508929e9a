package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/telconnect/telconnect/internal/i18n"
	"github.com/telconnect/telconnect/internal/middleware"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/services"
	pkghttp "github.com/telconnect/telconnect/pkg/http"
)

// ContactHandler serves the public contact form.
type ContactHandler struct {
	contacts    *services.ContactService
	renderer    *Renderer
	csrf        *middleware.GuestCSRF
	ipConfig    *pkghttp.IPConfig
	defaultLang string
	logger      *slog.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *services.ContactService, renderer *Renderer, csrf *middleware.GuestCSRF, ipConfig *pkghttp.IPConfig, defaultLang string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts:    contacts,
		renderer:    renderer,
		csrf:        csrf,
		ipConfig:    ipConfig,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// ShowForm renders the contact form. After a successful submission the
// browser is redirected here with ?sent=1 so a refresh cannot resubmit.
func (h *ContactHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)

	data := &PageData{
		Title:     i18n.T(lang, "contact.title"),
		Lang:      lang,
		CSRFToken: h.csrf.Issue(w, r),
		Form:      map[string]string{"plan_interest": r.URL.Query().Get("plan")},
	}
	if r.URL.Query().Get("sent") == "1" {
		data.Flash = i18n.T(lang, "contact.success")
	}

	h.renderer.Render(w, r, http.StatusOK, "contact", data)
}

// Submit handles a contact form POST.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, lang, "Invalid form data.")
		return
	}

	form := &services.ContactForm{
		Name:         r.PostFormValue("name"),
		Email:        r.PostFormValue("email"),
		Phone:        r.PostFormValue("phone"),
		Subject:      r.PostFormValue("subject"),
		Message:      r.PostFormValue("message"),
		PlanInterest: r.PostFormValue("plan_interest"),
		Website:      r.PostFormValue("website"),
	}

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := pkghttp.UserAgent(r)

	_, err := h.contacts.Submit(r.Context(), form, ipAddress, userAgent)
	if err == nil {
		http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
		return
	}

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderForm(w, r, lang, http.StatusUnprocessableEntity, form, verr.Fields)
	case errors.Is(err, models.ErrRateLimitExceeded):
		h.renderForm(w, r, lang, http.StatusTooManyRequests, form, map[string]string{
			"rate_limit": i18n.T(lang, "contact.rate_limited"),
		})
	default:
		h.logger.Error("contact submission failed", slog.Any("error", err))
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
	}
}

// renderForm re-renders the form with errors and the visitor's values
// intact. The honeypot value is deliberately not echoed back.
func (h *ContactHandler) renderForm(w http.ResponseWriter, r *http.Request, lang string, status int, form *services.ContactForm, fieldErrors map[string]string) {
	h.renderer.Render(w, r, status, "contact", &PageData{
		Title:       i18n.T(lang, "contact.title"),
		Lang:        lang,
		CSRFToken:   h.csrf.Issue(w, r),
		FieldErrors: fieldErrors,
		Form: map[string]string{
			"name":          form.Name,
			"email":         form.Email,
			"phone":         form.Phone,
			"subject":       form.Subject,
			"message":       form.Message,
			"plan_interest": form.PlanInterest,
		},
	})
}
