// Package matching resolves a free-text chart title to the most likely
// catalog entry.
package matching

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

const (
	// AcceptThreshold is the minimum confidence, inclusive, for a match.
	AcceptThreshold = 0.6
	// candidatesPerKind caps how many search hits are scored per media kind.
	candidatesPerKind = 10
)

// Searcher is the catalog search port.
type Searcher interface {
	Search(ctx context.Context, query string, kind model.MediaKind) ([]model.CatalogCandidate, error)
}

type Engine struct {
	searcher Searcher
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock overrides the clock used for recency scoring.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an engine over s. A nil searcher disables matching.
func NewEngine(s Searcher, opts ...Option) *Engine {
	e := &Engine{searcher: s, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Enabled() bool { return e != nil && e.searcher != nil }

// KindsFor lists the media kinds searched for a category.
func KindsFor(c catalog.Category) []model.MediaKind {
	switch c {
	case catalog.Movies:
		return []model.MediaKind{model.MediaMovie}
	case catalog.TVShows:
		return []model.MediaKind{model.MediaTV}
	default:
		return []model.MediaKind{model.MediaMovie, model.MediaTV}
	}
}

// Match returns the best catalog entry for title when its confidence
// reaches AcceptThreshold. Search failures are logged and skipped, so a
// failing kind never hides results from the other.
func (e *Engine) Match(ctx context.Context, title string, category catalog.Category) (model.Match, bool) {
	if !e.Enabled() {
		return model.Match{}, false
	}

	clean, explicitYear := ExtractYear(title)
	query := Normalize(clean)
	if query == "" {
		e.log.Debug("title normalizes to nothing", zap.String("title", title))
		return model.Match{}, false
	}
	currentYear := e.now().Year()

	var (
		best  Candidate
		found bool
	)
	for _, kind := range KindsFor(category) {
		hits, err := e.searcher.Search(ctx, query, kind)
		if err != nil {
			e.log.Warn("catalog search failed",
				zap.String("query", query),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			continue
		}
		if len(hits) > candidatesPerKind {
			hits = hits[:candidatesPerKind]
		}
		for _, h := range hits {
			if h.Kind == "" {
				h.Kind = kind
			}
			scored := Score(h, query, explicitYear, currentYear)
			if !found || scored.CombinedScore > best.CombinedScore {
				best, found = scored, true
			}
		}
	}

	if !found {
		e.log.Debug("no catalog candidates", zap.String("title", title), zap.String("query", query))
		return model.Match{}, false
	}
	confidence, ok := accept(best.CombinedScore)
	if !ok {
		e.log.Info("no confident match",
			zap.String("title", title),
			zap.String("best_title", best.Title),
			zap.Float64("best_score", confidence),
		)
		return model.Match{}, false
	}

	e.log.Debug("matched title",
		zap.String("title", title),
		zap.String("matched_title", best.Title),
		zap.Int64("catalog_id", best.CatalogID),
		zap.Float64("confidence", confidence),
	)
	return model.Match{
		CatalogID:    best.CatalogID,
		MediaKind:    best.MediaKind,
		Year:         best.Year,
		Confidence:   confidence,
		PosterPath:   best.PosterPath,
		MatchedTitle: best.Title,
	}, true
}

// accept rounds score to the reported precision and applies the threshold
// to the rounded value.
func accept(score float64) (float64, bool) {
	c := round3(score)
	return c, c >= AcceptThreshold
}
