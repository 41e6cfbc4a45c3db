package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_ParsesAllPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range append(pageFiles, "login.html") {
		assert.Contains(t, r.pages, name)
	}
}

func TestRender_ErrorPageWithFlash(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusBadGateway, "error.html", Page{
		Title: "Error",
		Nav:   "products",
		Flash: &Flash{Kind: FlashError, Message: "Sync failed"},
		Data:  map[string]string{"Message": "Backend unavailable", "Back": "/products"},
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Backend unavailable")
	assert.Contains(t, body, `flash flash-error`)
	assert.Contains(t, body, `href="/products" class="active"`)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "missing.html", Page{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFuncs(t *testing.T) {
	datetime := funcs["datetime"].(func(string) string)
	assert.Equal(t, "2024-03-01 12:30:00", datetime("2024-03-01T12:30:00.123456"))
	assert.Equal(t, "not a time", datetime("not a time"))

	date := funcs["date"].(func(string) string)
	assert.Equal(t, "2024-03-01", date("2024-03-01T12:30:00Z"))

	initial := funcs["initial"].(func(string) string)
	assert.Equal(t, "K", initial("kim"))
	assert.Equal(t, "?", initial(""))

	pct := funcs["pct"].(func(float64) string)
	assert.Equal(t, "66.7", pct(66.6666))
}
