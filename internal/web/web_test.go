package web

import (
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangasearch/pkg/models"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	RegisterRoutes(r)
	return r
}

func TestHomeRendersSearchForm(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/results"`)
	assert.Contains(t, body, `name="title"`)
}

func TestIndexRedirectsHome(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/index", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestStaticAssetsServed(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "font-family")
}

func TestHistoryTemplateStates(t *testing.T) {
	tmpl := Templates()
	render := func(data any) string {
		var sb strings.Builder
		require.NoError(t, tmpl.ExecuteTemplate(&sb, "history.tmpl", data))
		return sb.String()
	}

	ts := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	full := render(gin.H{"Entries": []models.HistoryEntry{{ID: "1", SearchQuery: "<b>naruto</b>", Timestamp: ts}}})
	assert.Contains(t, full, "<th>Search Query</th>")
	assert.Contains(t, full, "&lt;b&gt;naruto&lt;/b&gt;")
	assert.Equal(t, "Sat Mar 09 2024 18:30:00 GMT+0000 (UTC)", FormatTimestamp(ts))
	assert.Contains(t, html.UnescapeString(full), FormatTimestamp(ts))

	assert.Contains(t, render(gin.H{}), "No history found")
	assert.Contains(t, render(gin.H{"Error": "Error accessing database: boom"}), "Error accessing database: boom")
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/ping", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}
