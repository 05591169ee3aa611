package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnriched_DoesNotMutateReceiver(t *testing.T) {
	base := FromRaw(RawItem{Rank: 1, Title: "Kantara", Tenure: "12 d"})
	out := base.Enriched(Match{CatalogID: 42, MediaKind: MediaMovie, Year: 2022, Confidence: 0.97, PosterPath: "/k.jpg"})

	assert.Nil(t, base.CatalogID)
	require.NotNil(t, out.CatalogID)
	assert.Equal(t, int64(42), *out.CatalogID)
	assert.Equal(t, MediaMovie, *out.MediaKind)
	assert.Equal(t, 2022, *out.Year)
	assert.Equal(t, "/k.jpg", *out.PosterRef)
}

func TestEnriched_OmitsMissingYearAndPoster(t *testing.T) {
	out := FromRaw(RawItem{Rank: 1, Title: "X"}).Enriched(Match{CatalogID: 1, MediaKind: MediaTV, Confidence: 0.7})
	assert.Nil(t, out.Year)
	assert.Nil(t, out.PosterRef)
}

func TestRankedItem_JSONFieldNames(t *testing.T) {
	it := FromRaw(RawItem{Rank: 3, Title: "Panchayat", Tenure: "N/A"}).
		Enriched(Match{CatalogID: 7, MediaKind: MediaTV, Year: 2020, Confidence: 0.9})
	b, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rank":3,"title":"Panchayat","days_in_top_10":"N/A","tmdb_id":7,"media_type":"tv","year":2020,"match_confidence":0.9}`, string(b))
}

func TestValidateSequence(t *testing.T) {
	good := []RankedItem{{Rank: 1}, {Rank: 2}}
	assert.NoError(t, ValidateSequence(good))

	gap := []RankedItem{{Rank: 1}, {Rank: 3}}
	assert.Error(t, ValidateSequence(gap))

	bad := 1.5
	assert.Error(t, ValidateSequence([]RankedItem{{Rank: 1, Confidence: &bad}}))
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, PlatformCategoryStatus{Available: true, Count: 10, Status: "success(10)"}, SuccessStatus(10))
	assert.Equal(t, PlatformCategoryStatus{Status: "error"}, ErrorStatus())
	assert.Equal(t, PlatformCategoryStatus{Status: "no data"}, NoDataStatus())
}
