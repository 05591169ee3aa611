// Package model holds the value types shared by the fetcher, the matcher,
// the orchestrator and the HTTP layer.
package model

import "fmt"

type MediaKind string

const (
	MediaMovie MediaKind = "movie"
	MediaTV    MediaKind = "tv"
)

// RawItem is one row of an upstream top-10 table.
type RawItem struct {
	Rank   int
	Title  string
	Tenure string
}

// RankedItem is a top-10 entry, optionally enriched with a catalog match.
type RankedItem struct {
	Rank       int        `json:"rank"`
	Title      string     `json:"title"`
	Tenure     string     `json:"days_in_top_10"`
	CatalogID  *int64     `json:"tmdb_id,omitempty"`
	MediaKind  *MediaKind `json:"media_type,omitempty"`
	Year       *int       `json:"year,omitempty"`
	Confidence *float64   `json:"match_confidence,omitempty"`
	PosterRef  *string    `json:"poster_path,omitempty"`
}

// FromRaw builds an unenriched item.
func FromRaw(r RawItem) RankedItem {
	return RankedItem{Rank: r.Rank, Title: r.Title, Tenure: r.Tenure}
}

// Enriched returns a copy of it carrying the match fields.
func (it RankedItem) Enriched(m Match) RankedItem {
	out := it
	id := m.CatalogID
	kind := m.MediaKind
	conf := m.Confidence
	out.CatalogID = &id
	out.MediaKind = &kind
	out.Confidence = &conf
	if m.Year != 0 {
		y := m.Year
		out.Year = &y
	}
	if m.PosterPath != "" {
		p := m.PosterPath
		out.PosterRef = &p
	}
	return out
}

// CatalogCandidate is one search hit from the external catalog.
type CatalogCandidate struct {
	ID            int64
	Kind          MediaKind
	Title         string
	OriginalTitle string
	// Year is zero when the catalog has no release date.
	Year       int
	VoteCount  int
	PosterPath string
}

// Match is an accepted catalog candidate.
type Match struct {
	CatalogID    int64     `json:"tmdb_id"`
	MediaKind    MediaKind `json:"media_type"`
	Year         int       `json:"year,omitempty"`
	Confidence   float64   `json:"match_confidence"`
	PosterPath   string    `json:"poster_path,omitempty"`
	MatchedTitle string    `json:"matched_title"`
}

// ValidateSequence checks that ranks are dense from 1 and that confidences lie in [0,1].
func ValidateSequence(items []RankedItem) error {
	for i, it := range items {
		if it.Rank != i+1 {
			return fmt.Errorf("item %d has rank %d, want %d", i, it.Rank, i+1)
		}
		if it.Confidence != nil && (*it.Confidence < 0 || *it.Confidence > 1) {
			return fmt.Errorf("item %d confidence %v out of range", i, *it.Confidence)
		}
	}
	return nil
}
