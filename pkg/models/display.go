package models

// DisplayModel is what the results page renders. Every field holds either
// real data or one of the sentinel strings; nothing is left unset.
type DisplayModel struct {
	Query         string `json:"query"`
	MangaID       string `json:"manga_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Rating        string `json:"rating"`
	CoverImageURL string `json:"cover_image_url"`
	Author        string `json:"author"`
	Follows       int    `json:"follows"`
}
