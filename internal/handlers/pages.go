package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/telconnect/telconnect/internal/i18n"
)

// Plan is one marketed offer shown on the plans page.
type Plan struct {
	ID       string
	Name     string
	Price    string
	Features []string
}

// PlanCategory groups plans under a translated heading.
type PlanCategory struct {
	TitleKey string
	Plans    []Plan
}

// planCatalog is the static marketing catalog. Pricing changes ship as
// deploys, the same cadence as the rest of the site copy.
var planCatalog = []PlanCategory{
	{
		TitleKey: "plans.mobile",
		Plans: []Plan{
			{ID: "mobile-essential", Name: "Essential", Price: "$25", Features: []string{"10 GB data", "Unlimited calls & texts", "EU roaming"}},
			{ID: "mobile-plus", Name: "Plus", Price: "$40", Features: []string{"50 GB data", "Unlimited calls & texts", "5G included", "EU roaming"}},
			{ID: "mobile-unlimited", Name: "Unlimited", Price: "$55", Features: []string{"Unlimited data", "Unlimited calls & texts", "5G included", "Worldwide roaming"}},
		},
	},
	{
		TitleKey: "plans.fiber",
		Plans: []Plan{
			{ID: "fiber-300", Name: "Fiber 300", Price: "$35", Features: []string{"300 Mbps down", "100 Mbps up", "Wi-Fi router included"}},
			{ID: "fiber-1g", Name: "Fiber 1G", Price: "$50", Features: []string{"1 Gbps down", "500 Mbps up", "Wi-Fi 6 router included"}},
		},
	},
	{
		TitleKey: "plans.tv",
		Plans: []Plan{
			{ID: "tv-basic", Name: "TV Basic", Price: "$15", Features: []string{"80+ channels", "Catch-up TV"}},
			{ID: "tv-premium", Name: "TV Premium", Price: "$30", Features: []string{"180+ channels", "Sports package", "4K streaming box"}},
		},
	},
}

// PageHandler serves the static marketing pages and the language
// switcher.
type PageHandler struct {
	renderer    *Renderer
	defaultLang string
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(renderer *Renderer, defaultLang string) *PageHandler {
	return &PageHandler{
		renderer:    renderer,
		defaultLang: defaultLang,
	}
}

// Home renders the landing page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	h.renderer.Render(w, r, http.StatusOK, "home", &PageData{
		Title: i18n.T(lang, "home.title"),
		Lang:  lang,
	})
}

// Plans renders the plan catalog.
func (h *PageHandler) Plans(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	h.renderer.Render(w, r, http.StatusOK, "plans", &PageData{
		Title: i18n.T(lang, "plans.title"),
		Lang:  lang,
		Data:  planCatalog,
	})
}

// SetLanguage stores the visitor's language choice and returns to the
// page they came from. Only same-site referers are honored.
func (h *PageHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	i18n.SetLanguage(w, lang)

	target := "/"
	if ref := r.Header.Get("Referer"); strings.HasPrefix(ref, "/") {
		target = ref
	} else if ref != "" {
		if idx := strings.Index(ref, "://"); idx > 0 {
			if slash := strings.Index(ref[idx+3:], "/"); slash >= 0 {
				target = ref[idx+3+slash:]
			}
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// NotFound renders the branded 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromRequest(r, h.defaultLang)
	h.renderer.Render(w, r, http.StatusNotFound, "error", &PageData{
		Title: "404",
		Lang:  lang,
		Flash: "The page you are looking for does not exist.",
	})
}
