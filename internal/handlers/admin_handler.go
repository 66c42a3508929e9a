package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/telconnect/telconnect/internal/i18n"
	"github.com/telconnect/telconnect/internal/middleware"
	"github.com/telconnect/telconnect/internal/models"
	"github.com/telconnect/telconnect/internal/services"
	pkghttp "github.com/telconnect/telconnect/pkg/http"
)

// AdminHandler serves the contact triage dashboard. Every route here
// sits behind RequireAdmin; state changes additionally pass VerifyCSRF.
type AdminHandler struct {
	contacts     *services.ContactService
	sessions     *services.SessionManager
	renderer     *Renderer
	itemsPerPage int
	defaultLang  string
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(contacts *services.ContactService, sessions *services.SessionManager, renderer *Renderer, itemsPerPage int, defaultLang string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		contacts:     contacts,
		sessions:     sessions,
		renderer:     renderer,
		itemsPerPage: itemsPerPage,
		defaultLang:  defaultLang,
		logger:       logger,
	}
}

type dashboardData struct {
	Stats     *models.ContactStats
	Page      *models.ContactPage
	Filter    models.ContactFilter
	ExportURL template.URL
	PrevURL   template.URL
	NextURL   template.URL
}

// contactResponse is the JSON shape the dashboard detail view fetches.
type contactResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	PlanInterest string    `json:"plan_interest,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Dashboard renders the filtered, paginated submission listing with
// aggregate counts.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	filter := filterFromQuery(r)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	stats, err := h.contacts.Stats(r.Context())
	if err != nil {
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		return
	}

	listing, err := h.contacts.List(r.Context(), filter, page, h.itemsPerPage)
	if err != nil {
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		return
	}

	session := middleware.SessionFromContext(r.Context())
	csrfToken, err := h.sessions.CSRFToken(r.Context(), session)
	if err != nil {
		h.logger.Error("failed to get csrf token", slog.Any("error", err))
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "dashboard", &PageData{
		Title:     i18n.T(lang, "admin.title"),
		Lang:      lang,
		Session:   session,
		CSRFToken: csrfToken,
		Data: &dashboardData{
			Stats:     stats,
			Page:      listing,
			Filter:    filter,
			ExportURL: adminURL("/admin/contacts/export", filter, 0),
			PrevURL:   adminURL("/admin", filter, listing.Page-1),
			NextURL:   adminURL("/admin", filter, listing.Page+1),
		},
	})
}

// UpdateStatus moves one submission between new/replied/closed and
// returns to the listing.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	id := chi.URLParam(r, "id")
	status := r.PostFormValue("status")

	if err := h.contacts.UpdateStatus(r.Context(), id, status); err != nil {
		switch {
		case errors.Is(err, models.ErrBadRequest):
			h.renderer.RenderError(w, r, http.StatusBadRequest, lang, "Invalid status.")
		case errors.Is(err, models.ErrNotFound):
			h.renderer.RenderError(w, r, http.StatusNotFound, lang, "Submission not found.")
		default:
			h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		}
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// DeleteContact removes one submission.
func (h *AdminHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	id := chi.URLParam(r, "id")

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.renderer.RenderError(w, r, http.StatusNotFound, lang, "Submission not found.")
			return
		}
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// GetContact returns one submission as JSON for the dashboard detail
// view.
func (h *AdminHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	contact, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteNotFound(w, "Submission not found")
			return
		}
		pkghttp.WriteInternalError(w, "An error occurred")
		return
	}

	resp := contactResponse{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Subject:   contact.Subject,
		Message:   contact.Message,
		Status:    contact.Status,
		CreatedAt: contact.CreatedAt,
	}
	if contact.Phone != nil {
		resp.Phone = *contact.Phone
	}
	if contact.PlanInterest != nil {
		resp.PlanInterest = *contact.PlanInterest
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// ExportCSV streams the filtered listing as a CSV download.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	filter := filterFromQuery(r)

	data, err := h.contacts.ExportCSV(r.Context(), filter)
	if err != nil {
		h.renderer.RenderError(w, r, http.StatusInternalServerError, lang, "An error occurred. Please try again.")
		return
	}

	filename := fmt.Sprintf("contacts-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func filterFromQuery(r *http.Request) models.ContactFilter {
	filter := models.ContactFilter{
		Search: r.URL.Query().Get("search"),
	}
	if status := r.URL.Query().Get("status"); models.ValidContactStatus(status) {
		filter.Status = status
	}
	return filter
}

// adminURL builds a listing or export URL carrying the active filter.
// The values pass through url.Values so the result is safe to mark as a
// trusted URL.
func adminURL(path string, filter models.ContactFilter, page int) template.URL {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if encoded := q.Encode(); encoded != "" {
		return template.URL(path + "?" + encoded)
	}
	return template.URL(path)
}
