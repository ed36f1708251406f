package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mangasearch/pkg/models"
)

type Store interface {
	Insert(ctx context.Context, e models.HistoryEntry) error
	List(ctx context.Context) ([]models.HistoryEntry, error)
}

// Publisher is notified after an entry is stored. *live.Hub implements it.
type Publisher interface {
	PublishHistory(e models.HistoryEntry)
}

type Service struct {
	Store     Store
	Publisher Publisher // optional
	Now       func() time.Time
}

func NewService(store Store, pub Publisher) *Service {
	return &Service{Store: store, Publisher: pub, Now: time.Now}
}

// Record stamps and stores one search. The timestamp is taken here, not by
// the database.
func (s *Service) Record(ctx context.Context, query string) (models.HistoryEntry, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	e := models.HistoryEntry{
		ID:          uuid.NewString(),
		SearchQuery: query,
		Timestamp:   now().UTC(),
	}
	if err := s.Store.Insert(ctx, e); err != nil {
		return models.HistoryEntry{}, err
	}
	if s.Publisher != nil {
		s.Publisher.PublishHistory(e)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context) ([]models.HistoryEntry, error) {
	return s.Store.List(ctx)
}
