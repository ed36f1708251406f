package history

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mangasearch/pkg/models"
)

type Lister interface {
	List(ctx context.Context) ([]models.HistoryEntry, error)
}

type Handler struct {
	History Lister
	Log     logrus.FieldLogger
}

func NewHandler(history Lister, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{History: history, Log: log.WithField("component", "history")}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/history", h.page)         // HTML table
	r.GET("/api/history", h.listJSON) // same data as JSON
}

func (h *Handler) page(c *gin.Context) {
	entries, err := h.History.List(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("list history")
		c.HTML(http.StatusInternalServerError, "history.tmpl", gin.H{
			"Error": "Error accessing database: " + err.Error(),
		})
		return
	}
	c.HTML(http.StatusOK, "history.tmpl", gin.H{"Entries": entries})
}

func (h *Handler) listJSON(c *gin.Context) {
	entries, err := h.History.List(c.Request.Context())
	if err != nil {
		h.Log.WithError(err).Error("list history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error accessing database: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total": len(entries),
		"items": entries,
	})
}
