package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

func TestYearScore_ExplicitYear(t *testing.T) {
	assert.Equal(t, 1.0, YearScore(2022, 2022, 2026))
	assert.InDelta(t, 0.9, YearScore(2020, 2022, 2026), 1e-12)
	assert.InDelta(t, 0.4, YearScore(2010, 2022, 2026), 1e-12)
	// 21 years apart would go negative; it floors instead.
	assert.Equal(t, 0.3, YearScore(2000, 2021, 2026))
	assert.Equal(t, 0.5, YearScore(0, 2022, 2026))
}

func TestYearScore_RecencyCurve(t *testing.T) {
	cases := []struct {
		year int
		want float64
	}{
		{2026, 1.0},
		{2025, 1.0},
		{2027, 1.0},
		{2023, 0.9},
		{2021, 0.8},
		{2016, 0.7},
		{2005, 1.0 - 21.0/50},
		{1990, 0.3},
		{1900, 0.3},
		{0, 0.5},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, YearScore(tc.year, 0, 2026), 1e-12, "year %d", tc.year)
	}
}

func TestScore_KantaraScenario(t *testing.T) {
	c := model.CatalogCandidate{ID: 848, Kind: model.MediaMovie, Title: "Kantara", Year: 2022, VoteCount: 1500}
	got := Score(c, "Kantara", 2022, 2026)

	assert.Equal(t, 1.0, got.TitleSimilarity)
	assert.Equal(t, 1.0, got.YearScore)
	assert.Equal(t, 1.0, got.CombinedScore)
}

func TestScore_UsesBestOfPrimaryAndOriginal(t *testing.T) {
	c := model.CatalogCandidate{Title: "The Diamond Bazaar", OriginalTitle: "Heeramandi", Year: 2024}
	got := Score(c, "Heeramandi", 0, 2026)
	assert.Equal(t, 1.0, got.TitleSimilarity)
	// 0.7 + 0.27 + exact bonus, capped.
	assert.Equal(t, 1.0, got.CombinedScore)
}

func TestScore_WeightsAndBonuses(t *testing.T) {
	c := model.CatalogCandidate{Title: "Stree 2", OriginalTitle: "Stree 2", Year: 2024, VoteCount: 500}
	got := Score(c, "Stree", 0, 2026)
	assert.InDelta(t, 0.853333, got.CombinedScore, 1e-6)

	c.VoteCount = 1001
	assert.InDelta(t, 0.903333, Score(c, "Stree", 0, 2026).CombinedScore, 1e-6)

	low := model.CatalogCandidate{Title: "Kota", Year: 1990}
	assert.InDelta(t, 0.44, Score(low, "Kota Factory", 0, 2026).CombinedScore, 1e-9)
}

func TestAccept_InclusiveThreshold(t *testing.T) {
	c, ok := accept(0.6)
	assert.True(t, ok)
	assert.Equal(t, 0.6, c)

	_, ok = accept(0.599)
	assert.False(t, ok)

	_, ok = accept(0.5994)
	assert.False(t, ok)

	c, ok = accept(0.85333333)
	assert.True(t, ok)
	assert.Equal(t, 0.853, c)
}
