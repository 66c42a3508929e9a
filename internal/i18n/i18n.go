package i18n

import (
	"net/http"
	"strings"
)

// Table is a nested translation map, addressed by dotted paths like
// "nav.home".
type Table map[string]any

var languages = map[string]Table{
	"en": english,
	"fr": french,
	"es": spanish,
}

const (
	DefaultLanguage = "en"
	cookieName      = "language"
	cookieMaxAge    = 86400 * 365
)

// Supported reports whether a language code has a translation table.
func Supported(lang string) bool {
	_, ok := languages[lang]
	return ok
}

// T resolves a dotted translation key for a language. Unknown languages
// fall back to English; a missing key resolves to the key itself so
// untranslated strings surface visibly instead of failing.
func T(lang, key string) string {
	table, ok := languages[lang]
	if !ok {
		table = languages[DefaultLanguage]
	}

	value := any(table)
	for _, part := range strings.Split(key, ".") {
		m, ok := value.(Table)
		if !ok {
			return key
		}
		value, ok = m[part]
		if !ok {
			return key
		}
	}

	s, ok := value.(string)
	if !ok {
		return key
	}
	return s
}

// FromRequest picks the request language from the language cookie,
// falling back to the given default.
func FromRequest(r *http.Request, fallback string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && Supported(cookie.Value) {
		return cookie.Value
	}
	if Supported(fallback) {
		return fallback
	}
	return DefaultLanguage
}

// SetLanguage persists a language choice in a long-lived cookie. Unknown
// codes are ignored.
func SetLanguage(w http.ResponseWriter, lang string) bool {
	if !Supported(lang) {
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

// Translator is a per-request lookup bound to one language, handed to
// templates as the "t" function.
type Translator struct {
	lang string
}

func NewTranslator(lang string) *Translator {
	if !Supported(lang) {
		lang = DefaultLanguage
	}
	return &Translator{lang: lang}
}

func (tr *Translator) Lang() string { return tr.lang }

func (tr *Translator) T(key string) string { return T(tr.lang, key) }
