package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Home", T("en", "nav.home"))
	assert.Equal(t, "Accueil", T("fr", "nav.home"))
	assert.Equal(t, "Inicio", T("es", "nav.home"))

	// Unknown language falls back to English.
	assert.Equal(t, "Home", T("de", "nav.home"))

	// Missing keys resolve to the key itself.
	assert.Equal(t, "nav.missing", T("en", "nav.missing"))
	assert.Equal(t, "not.a.path", T("en", "not.a.path"))
	// A key that stops at a branch, not a leaf.
	assert.Equal(t, "nav", T("en", "nav"))
	// Descending past a leaf.
	assert.Equal(t, "nav.home.deeper", T("en", "nav.home.deeper"))
}

func TestTablesCoverSameKeys(t *testing.T) {
	var keys func(prefix string, table Table) []string
	keys = func(prefix string, table Table) []string {
		var out []string
		for k, v := range table {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			if sub, ok := v.(Table); ok {
				out = append(out, keys(path, sub)...)
			} else {
				out = append(out, path)
			}
		}
		return out
	}

	for _, lang := range []string{"fr", "es"} {
		for _, key := range keys("", english) {
			assert.NotEqual(t, key, T(lang, key), "key %q untranslated in %s", key, lang)
		}
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "en", FromRequest(r, "en"))
	assert.Equal(t, "fr", FromRequest(r, "fr"))
	assert.Equal(t, "en", FromRequest(r, "xx"))

	r.AddCookie(&http.Cookie{Name: "language", Value: "es"})
	assert.Equal(t, "es", FromRequest(r, "en"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "language", Value: "xx"})
	assert.Equal(t, "en", FromRequest(r, "en"))
}

func TestSetLanguage(t *testing.T) {
	w := httptest.NewRecorder()
	require.True(t, SetLanguage(w, "fr"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "language", cookies[0].Name)
	assert.Equal(t, "fr", cookies[0].Value)

	w = httptest.NewRecorder()
	assert.False(t, SetLanguage(w, "xx"))
	assert.Empty(t, w.Result().Cookies())
}
