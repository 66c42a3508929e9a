package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/telconnect/telconnect/internal/i18n"
	"github.com/telconnect/telconnect/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists the per-page templates, each parsed together with the
// shared layout.
var pages = []string{
	"home",
	"plans",
	"contact",
	"login",
	"dashboard",
	"error",
}

// PageData is the payload every template renders from. Translator is
// exposed to templates as the "t" function via Translate.
type PageData struct {
	Title       string
	SiteName    string
	Lang        string
	Translator  *i18n.Translator
	Session     *models.Session
	CSRFToken   string
	Flash       string
	FieldErrors map[string]string
	Form        map[string]string
	Data        any
}

// Translate is called from templates as .Translate "key".
func (d *PageData) Translate(key string) string {
	if d.Translator == nil {
		return key
	}
	return d.Translator.T(key)
}

// FieldError returns the validation message for one form field.
func (d *PageData) FieldError(field string) string {
	return d.FieldErrors[field]
}

// FormValue returns a sticky form value for re-rendering after a
// validation failure.
func (d *PageData) FormValue(field string) string {
	return d.Form[field]
}

// Renderer holds the parsed template set. Pages render into a buffer
// first so a template fault becomes a clean 500 instead of a torn page.
type Renderer struct {
	templates map[string]*template.Template
	siteName  string
	logger    *slog.Logger
}

// NewRenderer parses the embedded templates.
func NewRenderer(siteName string, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{
		templates: templates,
		siteName:  siteName,
		logger:    logger,
	}, nil
}

// Render writes one page. Data may be nil for pages that only need the
// chrome.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data *PageData) {
	t, ok := rn.templates[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	if data.SiteName == "" {
		data.SiteName = rn.siteName
	}
	if data.Translator == nil {
		data.Translator = i18n.NewTranslator(data.Lang)
	}
	if data.Lang == "" {
		data.Lang = data.Translator.Lang()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.Any("error", err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError shows the generic error page.
func (rn *Renderer) RenderError(w http.ResponseWriter, r *http.Request, status int, lang, message string) {
	rn.Render(w, r, status, "error", &PageData{
		Title: "Error",
		Lang:  lang,
		Flash: message,
	})
}
