package manga

import (
	"fmt"
	"strconv"
	"strings"

	"mangasearch/pkg/models"
)

const DefaultCoverBaseURL = "https://uploads.mangadex.org"

// User-visible sentinels. The no-match author text ("N/A") intentionally
// differs from the missing-author text.
const (
	NoResultsTitle          = "No results found"
	TitleNotAvailable       = "Title not available"
	DescriptionNotAvailable = "Description not available"
	AuthorNotAvailable      = "Author not available"
	NotAvailable            = "N/A"
)

const (
	relCoverArt = "cover_art"
	relAuthor   = "author"
)

// titleLocales is the full fallback chain for titles; no other locale is consulted.
var titleLocales = []string{"en", "ja-ro", "ja"}

// Normalizer maps raw catalog data into a DisplayModel.
type Normalizer struct {
	CoverBaseURL string
}

// Normalize uses the default MangaDex cover host.
func Normalize(query string, record *models.RawManga, stats *models.RawStatistics) models.DisplayModel {
	return Normalizer{}.Normalize(query, record, stats)
}

// NoMatch is the model rendered when the catalog returns no candidate.
func NoMatch(query string) models.DisplayModel {
	return models.DisplayModel{
		Query:         query,
		Title:         NoResultsTitle,
		Description:   "",
		Rating:        NotAvailable,
		CoverImageURL: "",
		Author:        NotAvailable,
	}
}

// Normalize is total: a nil record yields NoMatch, a nil stats yields an
// "N/A" rating, and missing attributes resolve to their sentinels.
func (n Normalizer) Normalize(query string, record *models.RawManga, stats *models.RawStatistics) models.DisplayModel {
	if record == nil {
		return NoMatch(query)
	}

	out := models.DisplayModel{
		Query:         query,
		MangaID:       record.ID,
		Title:         resolveTitle(record.Attributes.Title),
		Description:   resolveDescription(record.Attributes.Description),
		Rating:        resolveRating(stats),
		CoverImageURL: n.coverURL(record),
		Author:        resolveAuthor(record.Relationships),
	}
	if stats != nil {
		out.Follows = stats.Follows
	}
	return out
}

func resolveTitle(title models.LocalizedString) string {
	for _, lang := range titleLocales {
		if v := title.Get(lang); v != "" {
			return v
		}
	}
	return TitleNotAvailable
}

func resolveDescription(desc models.LocalizedString) string {
	if v := desc.Get("en"); v != "" {
		return v
	}
	return DescriptionNotAvailable
}

// resolveRating keeps a true zero as "0.00"; only an absent value is "N/A".
func resolveRating(stats *models.RawStatistics) string {
	if stats == nil || stats.Rating.Bayesian == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*stats.Rating.Bayesian, 'f', 2, 64)
}

func resolveAuthor(rels []models.RawRelationship) string {
	rel := findRelation(rels, relAuthor)
	if rel == nil || rel.Attributes == nil || rel.Attributes.Name == nil || *rel.Attributes.Name == "" {
		return AuthorNotAvailable
	}
	return *rel.Attributes.Name
}

func (n Normalizer) coverURL(record *models.RawManga) string {
	rel := findRelation(record.Relationships, relCoverArt)
	if rel == nil || rel.Attributes == nil || rel.Attributes.FileName == nil || *rel.Attributes.FileName == "" {
		return ""
	}
	base := n.CoverBaseURL
	if base == "" {
		base = DefaultCoverBaseURL
	}
	return fmt.Sprintf("%s/covers/%s/%s", strings.TrimRight(base, "/"), record.ID, *rel.Attributes.FileName)
}

// findRelation returns the first relationship of the given type.
func findRelation(rels []models.RawRelationship, kind string) *models.RawRelationship {
	for i := range rels {
		if rels[i].Type == kind {
			return &rels[i]
		}
	}
	return nil
}
