package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/api"
	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/httpserver"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/rankings"
)

// Rankings is the part of rankings.Service the HTTP layer needs.
type Rankings interface {
	Resolve(ctx context.Context, platform, category string, refresh bool) (rankings.Outcome, error)
	Aggregate(ctx context.Context, refresh bool) (model.AggregateReport, error)
}

var _ Rankings = (*rankings.Service)(nil)

// GetPair handles GET /api/v1/{region}/{platform}/{category}
func GetPair(svc Rankings, region string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		if !checkRegion(w, r, region, rid) {
			return
		}
		platform := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "platform")))
		category := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "category")))

		out, err := svc.Resolve(r.Context(), platform, category, refreshRequested(r))
		if err != nil {
			var invalid *catalog.InvalidRequestError
			if errors.As(err, &invalid) {
				details := map[string]any{"supported": invalid.Supported}
				if invalid.Suggestion != "" {
					details["did_you_mean"] = invalid.Suggestion
				}
				api.NotFound(w, string(invalid.Reason), invalid.Error(), rid, details)
				return
			}
			log.Error("resolve pair", zap.String("platform", platform), zap.String("category", category), zap.Error(err))
			api.Internal(w, rid)
			return
		}

		if !out.HasData() {
			api.Unavailable(w, "DATA_UNAVAILABLE",
				fmt.Sprintf("Could not retrieve data for %s %s. The service may be temporarily unavailable.", platform, category),
				rid, map[string]any{"outcome": out.Kind.String()})
			return
		}
		api.WriteJSON(w, http.StatusOK, out.Items)
	}
}

// GetAggregate handles GET /api/v1/{region}/fetchall
func GetAggregate(svc Rankings, region string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		if !checkRegion(w, r, region, rid) {
			return
		}
		report, err := svc.Aggregate(r.Context(), refreshRequested(r))
		if err != nil {
			log.Error("aggregate", zap.Error(err))
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, report)
	}
}

type platformResponse struct {
	Slug        string   `json:"slug"`
	ResponseKey string   `json:"response_key"`
	Categories  []string `json:"categories"`
}

// ListPlatforms handles GET /api/v1/{region}/platforms
func ListPlatforms(region string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		if !checkRegion(w, r, region, rid) {
			return
		}
		out := make([]platformResponse, 0, len(catalog.Platforms()))
		for _, p := range catalog.Platforms() {
			cats := p.Categories()
			names := make([]string, len(cats))
			for i, c := range cats {
				names[i] = c.String()
			}
			out = append(out, platformResponse{Slug: p.String(), ResponseKey: catalog.ResponseKey(p.String()), Categories: names})
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}

func checkRegion(w http.ResponseWriter, r *http.Request, region, rid string) bool {
	got := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "region")))
	if got == region {
		return true
	}
	api.NotFound(w, "UNSUPPORTED_REGION", fmt.Sprintf("region %q not supported; available regions: %s", got, region), rid, nil)
	return false
}

func refreshRequested(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("refresh"))
	return err == nil && v
}
