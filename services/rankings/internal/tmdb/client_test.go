package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

func TestNew_RequiresKeyAndURL(t *testing.T) {
	_, err := New("", "https://api.themoviedb.org/3", "en-US")
	assert.Error(t, err)
	_, err = New("key", " ", "en-US")
	assert.Error(t, err)
}

func TestSearch_MovieParamsAndMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "Kantara", q.Get("query"))
		assert.Equal(t, "en-US", q.Get("language"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "false", q.Get("include_adult"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":848,"title":"Kantara","original_title":"ಕಾಂತಾರ","release_date":"2022-09-30","vote_count":1500,"poster_path":"/k.jpg"},
			{"id":9,"title":"Kantara Untold","release_date":""}
		]}`))
	}))
	defer srv.Close()

	c, err := New("secret", srv.URL, "en-US")
	require.NoError(t, err)

	got, err := c.Search(context.Background(), " Kantara ", model.MediaMovie)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.CatalogCandidate{
		ID: 848, Kind: model.MediaMovie, Title: "Kantara", OriginalTitle: "ಕಾಂತಾರ",
		Year: 2022, VoteCount: 1500, PosterPath: "/k.jpg",
	}, got[0])
	assert.Zero(t, got[1].Year)
}

func TestSearch_TVUsesNameFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)
		_, _ = w.Write([]byte(`{"results":[{"id":5,"name":"Panchayat","original_name":"Panchayat","first_air_date":"2020-04-03"}]}`))
	}))
	defer srv.Close()

	c, err := New("k", srv.URL, "")
	require.NoError(t, err)
	got, err := c.Search(context.Background(), "Panchayat", model.MediaTV)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Panchayat", got[0].Title)
	assert.Equal(t, 2020, got[0].Year)
	assert.Equal(t, model.MediaTV, got[0].Kind)
}

func TestSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New("bad", srv.URL, "en-US")
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "x", model.MediaMovie)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tmdb search returned 401")
}

func TestSearch_RejectsEmptyQuery(t *testing.T) {
	c, err := New("k", "http://127.0.0.1:1", "")
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "  ", model.MediaMovie)
	assert.Error(t, err)
}

func TestYearOf(t *testing.T) {
	assert.Equal(t, 1999, yearOf("1999-03-31"))
	assert.Equal(t, 2001, yearOf("2001"))
	assert.Zero(t, yearOf(""))
	assert.Zero(t, yearOf("unknown"))
}
