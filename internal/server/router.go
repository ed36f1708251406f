// Package server assembles the gin engine from the feature handlers.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mangasearch/internal/history"
	"mangasearch/internal/live"
	"mangasearch/internal/manga"
	"mangasearch/internal/web"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	DB       Pinger
	Dialect  string
	Lookup   manga.Looker
	Recorder manga.Recorder
	History  history.Lister
	Hub      *live.Hub
	Log      logrus.FieldLogger

	// TrustedProxies defaults to loopback only.
	TrustedProxies []string
}

var defaultTrustedProxies = []string{"127.0.0.1"}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery(), web.RequestLogger(d.Log.WithField("component", "http")))
	proxies := d.TrustedProxies
	if len(proxies) == 0 {
		proxies = defaultTrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		d.Log.WithError(err).WithField("proxies", proxies).Error("invalid trusted proxies")
	}
	router.SetHTMLTemplate(web.Templates())

	web.RegisterRoutes(router)
	manga.NewHandler(d.Lookup, d.Recorder, d.Log).RegisterRoutes(router)
	history.NewHandler(d.History, d.Log).RegisterRoutes(router)
	router.GET("/ws", live.WSHandler(d.Hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": d.Dialect})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := d.Hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	return router
}
