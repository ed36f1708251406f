package models

import (
	"bytes"
	"encoding/json"
)

// LocalizedString is a locale code -> text mapping as returned by MangaDex.
// The API encodes an empty mapping as `[]`, so both shapes are accepted.
type LocalizedString map[string]string

func (l *LocalizedString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) {
		*l = LocalizedString{}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*l = m
	return nil
}

// Get returns the value for lang, or "" when absent.
func (l LocalizedString) Get(lang string) string {
	if l == nil {
		return ""
	}
	return l[lang]
}

// RawManga is one catalog record from GET /manga. Nothing in it is trusted:
// any attribute may be missing.
type RawManga struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	Attributes    RawMangaAttributes `json:"attributes"`
	Relationships []RawRelationship  `json:"relationships"`
}

type RawMangaAttributes struct {
	Title       LocalizedString `json:"title"`
	Description LocalizedString `json:"description"`
	Status      string          `json:"status,omitempty"`
	Year        *int            `json:"year,omitempty"`
}

// RawRelationship links a record to a related entity. Attributes are only
// present when the entity type was requested via includes[].
type RawRelationship struct {
	ID         string                     `json:"id"`
	Type       string                     `json:"type"`
	Attributes *RawRelationshipAttributes `json:"attributes,omitempty"`
}

type RawRelationshipAttributes struct {
	Name     *string `json:"name,omitempty"`     // author
	FileName *string `json:"fileName,omitempty"` // cover_art
}

// RawStatistics is the per-title entry of GET /statistics/manga/{id}.
type RawStatistics struct {
	Rating  RawRating `json:"rating"`
	Follows int       `json:"follows"`
}

type RawRating struct {
	Average  *float64 `json:"average"`
	Bayesian *float64 `json:"bayesian"`
}
