package manga

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"mangasearch/pkg/models"
)

// Catalog is the outbound side of a lookup. *mangadex.Client implements it.
type Catalog interface {
	SearchFirst(ctx context.Context, title string) (*models.RawManga, error)
	Statistics(ctx context.Context, id string) (*models.RawStatistics, error)
}

type Service struct {
	Catalog    Catalog
	Normalizer Normalizer
	Log        logrus.FieldLogger
}

func NewService(catalog Catalog, normalizer Normalizer, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Catalog:    catalog,
		Normalizer: normalizer,
		Log:        log.WithField("component", "lookup"),
	}
}

// Lookup searches the catalog and returns a render-ready model. On a failed
// search it still returns the no-match model alongside the error, so callers
// always have something to render. A failed statistics call only costs the rating.
func (s *Service) Lookup(ctx context.Context, query string) (models.DisplayModel, error) {
	record, err := s.Catalog.SearchFirst(ctx, query)
	if err != nil {
		return NoMatch(query), fmt.Errorf("search catalog: %w", err)
	}
	if record == nil {
		return NoMatch(query), nil
	}

	stats, err := s.Catalog.Statistics(ctx, record.ID)
	if err != nil {
		s.Log.WithError(err).WithField("manga_id", record.ID).Warn("statistics unavailable, rendering without rating")
		stats = nil
	}

	return s.Normalizer.Normalize(query, record, stats), nil
}
