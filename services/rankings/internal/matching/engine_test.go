package matching

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

type stubSearcher struct {
	mu      sync.Mutex
	results map[model.MediaKind][]model.CatalogCandidate
	errs    map[model.MediaKind]error
	queries []string
	kinds   []model.MediaKind
}

func (s *stubSearcher) Search(_ context.Context, query string, kind model.MediaKind) ([]model.CatalogCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	s.kinds = append(s.kinds, kind)
	if err := s.errs[kind]; err != nil {
		return nil, err
	}
	return s.results[kind], nil
}

func fixedClock() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }

func newTestEngine(s Searcher) *Engine {
	return NewEngine(s, WithClock(fixedClock))
}

func TestMatch_Kantara(t *testing.T) {
	s := &stubSearcher{results: map[model.MediaKind][]model.CatalogCandidate{
		model.MediaMovie: {
			{ID: 1, Kind: model.MediaMovie, Title: "Kantara Chapter 1", Year: 2025},
			{ID: 848, Kind: model.MediaMovie, Title: "Kantara", Year: 2022, VoteCount: 1500, PosterPath: "/k.jpg"},
		},
	}}
	m, ok := newTestEngine(s).Match(context.Background(), "Kantara (2022)", catalog.Movies)
	require.True(t, ok)
	assert.Equal(t, model.Match{
		CatalogID: 848, MediaKind: model.MediaMovie, Year: 2022, Confidence: 1.0,
		PosterPath: "/k.jpg", MatchedTitle: "Kantara",
	}, m)
	assert.Equal(t, []string{"Kantara"}, s.queries)
	assert.Equal(t, []model.MediaKind{model.MediaMovie}, s.kinds)
}

func TestMatch_KindFanOut(t *testing.T) {
	cases := map[catalog.Category][]model.MediaKind{
		catalog.Movies:  {model.MediaMovie},
		catalog.TVShows: {model.MediaTV},
		catalog.Overall: {model.MediaMovie, model.MediaTV},
	}
	for cat, want := range cases {
		s := &stubSearcher{}
		_, ok := newTestEngine(s).Match(context.Background(), "Anything", cat)
		assert.False(t, ok)
		assert.Equal(t, want, s.kinds, cat.String())
	}
}

func TestMatch_OverallCandidatesCompeteAcrossKinds(t *testing.T) {
	s := &stubSearcher{results: map[model.MediaKind][]model.CatalogCandidate{
		model.MediaMovie: {{ID: 10, Title: "Panchayat Returns", Year: 2026}},
		model.MediaTV:    {{ID: 20, Title: "Panchayat", Year: 2020, VoteCount: 2000}},
	}}
	m, ok := newTestEngine(s).Match(context.Background(), "Panchayat Season 4", catalog.Overall)
	require.True(t, ok)
	assert.Equal(t, int64(20), m.CatalogID)
	assert.Equal(t, model.MediaTV, m.MediaKind)
}

func TestMatch_TiesKeepFirstSeen(t *testing.T) {
	s := &stubSearcher{results: map[model.MediaKind][]model.CatalogCandidate{
		model.MediaMovie: {{ID: 1, Title: "Dunki", Year: 2023}},
		model.MediaTV:    {{ID: 2, Title: "Dunki", Year: 2023}},
	}}
	m, ok := newTestEngine(s).Match(context.Background(), "Dunki", catalog.Overall)
	require.True(t, ok)
	assert.Equal(t, int64(1), m.CatalogID)
}

func TestMatch_OnlyFirstTenCandidatesScored(t *testing.T) {
	hits := make([]model.CatalogCandidate, 0, 11)
	for i := 0; i < 10; i++ {
		hits = append(hits, model.CatalogCandidate{ID: int64(i), Title: strings.Repeat("z", 12), Year: 1950})
	}
	hits = append(hits, model.CatalogCandidate{ID: 99, Title: "Animal", Year: 2023})
	s := &stubSearcher{results: map[model.MediaKind][]model.CatalogCandidate{model.MediaMovie: hits}}

	_, ok := newTestEngine(s).Match(context.Background(), "Animal", catalog.Movies)
	assert.False(t, ok)
}

func TestMatch_ThresholdBoundary(t *testing.T) {
	// "abcdefghi" against itself plus ten extra runes: ratio 18/28, year unknown,
	// so 0.7*9/14 + 0.3*0.5 = 0.6 exactly once rounded.
	atThreshold := model.CatalogCandidate{ID: 1, Title: "abcdefghi" + strings.Repeat("x", 10)}
	s := &stubSearcher{results: map[model.MediaKind][]model.CatalogCandidate{model.MediaMovie: {atThreshold}}}
	m, ok := newTestEngine(s).Match(context.Background(), "abcdefghi", catalog.Movies)
	require.True(t, ok)
	assert.Equal(t, 0.6, m.Confidence)

	below := model.CatalogCandidate{ID: 2, Title: "abcdefghi" + strings.Repeat("x", 11)}
	s = &stubSearcher{results: map[model.MediaKind][]model.CatalogCandidate{model.MediaMovie: {below}}}
	_, ok = newTestEngine(s).Match(context.Background(), "abcdefghi", catalog.Movies)
	assert.False(t, ok)
}

func TestMatch_SearchErrorOnOneKindDoesNotHideOther(t *testing.T) {
	s := &stubSearcher{
		errs: map[model.MediaKind]error{model.MediaMovie: errors.New("timeout")},
		results: map[model.MediaKind][]model.CatalogCandidate{
			model.MediaTV: {{ID: 7, Title: "Kota Factory", Year: 2024}},
		},
	}
	m, ok := newTestEngine(s).Match(context.Background(), "Kota Factory", catalog.Overall)
	require.True(t, ok)
	assert.Equal(t, int64(7), m.CatalogID)
	assert.Equal(t, model.MediaTV, m.MediaKind)
}

func TestMatch_DisabledWithoutSearcher(t *testing.T) {
	e := NewEngine(nil)
	assert.False(t, e.Enabled())
	_, ok := e.Match(context.Background(), "Kantara", catalog.Movies)
	assert.False(t, ok)
}

func TestMatch_EmptyNormalizedTitleSkipsSearch(t *testing.T) {
	s := &stubSearcher{}
	_, ok := newTestEngine(s).Match(context.Background(), "???", catalog.Movies)
	assert.False(t, ok)
	assert.Empty(t, s.queries)
}
