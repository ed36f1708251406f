package models

import "time"

type HistoryEntry struct {
	ID          string    `json:"id"`
	SearchQuery string    `json:"search_query"`
	Timestamp   time.Time `json:"timestamp"`
}
