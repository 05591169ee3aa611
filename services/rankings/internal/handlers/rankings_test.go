package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/api"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/rankings"
)

type stubRankings struct {
	outcome      rankings.Outcome
	resolveErr   error
	report       model.AggregateReport
	aggregateErr error

	gotPlatform, gotCategory string
	gotRefresh               bool
	resolveCalls             int
}

func (s *stubRankings) Resolve(_ context.Context, platform, category string, refresh bool) (rankings.Outcome, error) {
	s.resolveCalls++
	s.gotPlatform, s.gotCategory, s.gotRefresh = platform, category, refresh
	if s.resolveErr != nil {
		return rankings.Outcome{}, s.resolveErr
	}
	if _, err := catalog.Resolve(platform, category); err != nil {
		return rankings.Outcome{}, err
	}
	return s.outcome, nil
}

func (s *stubRankings) Aggregate(_ context.Context, refresh bool) (model.AggregateReport, error) {
	s.gotRefresh = refresh
	return s.report, s.aggregateErr
}

var testInfo = Info{AppName: "FlixPatrol India Scraper API", Version: "1.0.0", Region: "india"}

func newTestRouter(svc Rankings) chi.Router {
	r := chi.NewRouter()
	Mount(r, svc, testInfo, nil, nil)
	return r
}

func serve(t *testing.T, r http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.APIError {
	t.Helper()
	var body api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestGetPair_OK(t *testing.T) {
	items := []model.RankedItem{
		{Rank: 1, Title: "Kantara", Tenure: "5 days"},
		{Rank: 2, Title: "Jawan", Tenure: "2 days"},
	}
	stub := &stubRankings{outcome: rankings.Found(items, false)}
	rec := serve(t, newTestRouter(stub), "/api/v1/india/netflix/movies?refresh=true")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotPlatform != "netflix" || stub.gotCategory != "movies" || !stub.gotRefresh {
		t.Fatalf("unexpected call: %s/%s refresh=%v", stub.gotPlatform, stub.gotCategory, stub.gotRefresh)
	}
	var got []model.RankedItem
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Kantara" || got[1].Rank != 2 {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestGetPair_RefreshDefaultsFalse(t *testing.T) {
	stub := &stubRankings{outcome: rankings.Found([]model.RankedItem{{Rank: 1, Title: "x"}}, true)}
	serve(t, newTestRouter(stub), "/api/v1/india/zee5/overall?refresh=maybe")
	if stub.gotRefresh {
		t.Fatal("expected refresh=false for an unparsable value")
	}
}

func TestGetPair_InvalidRequests(t *testing.T) {
	cases := []struct {
		url  string
		code string
	}{
		{"/api/v1/india/hulu/movies", "UNSUPPORTED_PLATFORM"},
		{"/api/v1/india/netflix/anime", "UNSUPPORTED_CATEGORY"},
		{"/api/v1/india/netflix/overall", "UNSUPPORTED_COMBINATION"},
		{"/api/v1/japan/netflix/movies", "UNSUPPORTED_REGION"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := serve(t, newTestRouter(&stubRankings{}), tc.url)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got.Code != tc.code {
				t.Fatalf("expected code %s, got %s (%s)", tc.code, got.Code, got.Message)
			}
		})
	}
}

func TestGetPair_UnsupportedCombinationListsSupported(t *testing.T) {
	rec := serve(t, newTestRouter(&stubRankings{}), "/api/v1/india/zee5/movies")
	got := decodeError(t, rec)
	supported, ok := got.Details["supported"].([]any)
	if !ok || len(supported) != 1 || supported[0] != "overall" {
		t.Fatalf("unexpected details: %+v", got.Details)
	}
}

func TestGetPair_SuggestsClosestSlug(t *testing.T) {
	rec := serve(t, newTestRouter(&stubRankings{}), "/api/v1/india/netflx/movies")
	got := decodeError(t, rec)
	if got.Details["did_you_mean"] != "netflix" {
		t.Fatalf("expected suggestion, got %+v", got.Details)
	}
}

func TestGetPair_RegionNeverReachesService(t *testing.T) {
	stub := &stubRankings{}
	serve(t, newTestRouter(stub), "/api/v1/japan/netflix/movies")
	if stub.resolveCalls != 0 {
		t.Fatalf("expected no resolve call, got %d", stub.resolveCalls)
	}
}

func TestGetPair_Unavailable(t *testing.T) {
	for _, out := range []rankings.Outcome{rankings.Absent(), rankings.Failed(errors.New("timeout"))} {
		t.Run(out.Kind.String(), func(t *testing.T) {
			rec := serve(t, newTestRouter(&stubRankings{outcome: out}), "/api/v1/india/apple-tv/tv-shows")
			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("expected 503, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got.Code != "DATA_UNAVAILABLE" {
				t.Fatalf("unexpected code %s", got.Code)
			}
		})
	}
}

func TestGetPair_UnexpectedError(t *testing.T) {
	rec := serve(t, newTestRouter(&stubRankings{resolveErr: errors.New("boom")}), "/api/v1/india/netflix/movies")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetAggregate_OK(t *testing.T) {
	report := model.AggregateReport{
		Summary: model.AggregateSummary{TotalPlatforms: 6, TotalRequests: 10, SuccessfulRequests: 1, CacheHitRate: "0%"},
		Data: map[string]map[string][]model.RankedItem{
			"amazon_prime": {"tv_shows": {{Rank: 1, Title: "Panchayat"}}},
		},
	}
	stub := &stubRankings{report: report}
	rec := serve(t, newTestRouter(stub), "/api/v1/india/fetchall?refresh=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !stub.gotRefresh {
		t.Fatal("expected refresh=true")
	}

	var got map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got["summary"]; !ok {
		t.Fatal("missing summary")
	}
	var data map[string]map[string][]model.RankedItem
	if err := json.Unmarshal(got["data"], &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data["amazon_prime"]["tv_shows"][0].Title != "Panchayat" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestGetAggregate_Error(t *testing.T) {
	rec := serve(t, newTestRouter(&stubRankings{aggregateErr: errors.New("panic")}), "/api/v1/india/fetchall")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestListPlatforms(t *testing.T) {
	rec := serve(t, newTestRouter(&stubRankings{}), "/api/v1/india/platforms")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []platformResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 platforms, got %d", len(got))
	}
	if got[1].Slug != "amazon-prime" || got[1].ResponseKey != "amazon_prime" || len(got[1].Categories) != 3 {
		t.Fatalf("unexpected amazon entry: %+v", got[1])
	}
}

func TestRootAndHealth(t *testing.T) {
	r := newTestRouter(&stubRankings{})

	rec := serve(t, r, "/")
	var root map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&root); err != nil {
		t.Fatalf("decode root: %v", err)
	}
	if root["message"] != "Welcome to FlixPatrol India Scraper API" || root["status"] != "operational" {
		t.Fatalf("unexpected root: %+v", root)
	}

	rec = serve(t, r, "/health")
	var health map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "healthy" || health["version"] != "1.0.0" {
		t.Fatalf("unexpected health: %+v", health)
	}
}
