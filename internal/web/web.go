// Package web holds the HTML templates, static assets and the page routes
// that need no domain data.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// TimestampLayout mirrors a JavaScript Date string, which is how search
// times have always been shown on the history page.
const TimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Templates parses every page template. Pages are addressed by file name,
// e.g. "results.tmpl".
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"formatTime": FormatTimestamp,
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

func RegisterRoutes(r *gin.Engine) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.tmpl", nil)
	})
	r.GET("/index", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
}
