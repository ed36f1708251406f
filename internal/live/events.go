package live

import "time"

const HistoryRecordedType = "history.recorded"

type HistoryEvent struct {
	Type        string    `json:"type"` // "history.recorded"
	ID          string    `json:"id"`
	SearchQuery string    `json:"search_query"`
	Timestamp   time.Time `json:"timestamp"`
}
