package manga

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mangasearch/pkg/models"
)

const CatalogFailedNotice = "Catalog lookup failed, please try again later."

type Looker interface {
	Lookup(ctx context.Context, query string) (models.DisplayModel, error)
}

// Recorder appends one history entry per search.
type Recorder interface {
	Record(ctx context.Context, query string) (models.HistoryEntry, error)
}

type Handler struct {
	Lookup  Looker
	History Recorder
	Log     logrus.FieldLogger
}

func NewHandler(lookup Looker, history Recorder, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Lookup: lookup, History: history, Log: log.WithField("component", "results")}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/results", h.results) // GET /results?title=
}

type resultsView struct {
	models.DisplayModel
	Notice string
}

func (h *Handler) results(c *gin.Context) {
	query := c.Query("title")
	if strings.TrimSpace(query) == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	ctx := c.Request.Context()

	if _, err := h.History.Record(ctx, query); err != nil {
		h.Log.WithError(err).WithField("query", query).Error("record search history")
	}

	model, err := h.Lookup.Lookup(ctx, query)
	if err != nil {
		h.Log.WithError(err).WithField("query", query).Warn("catalog lookup failed")
		c.HTML(http.StatusBadGateway, "results.tmpl", resultsView{DisplayModel: model, Notice: CatalogFailedNotice})
		return
	}

	c.HTML(http.StatusOK, "results.tmpl", resultsView{DisplayModel: model})
}
