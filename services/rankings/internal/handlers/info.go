package handlers

import (
	"net/http"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/api"
)

type Info struct {
	AppName string
	Version string
	Region  string
}

// Root handles GET /
func Root(info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"message":       "Welcome to " + info.AppName,
			"version":       info.Version,
			"documentation": "/api/v1/" + info.Region + "/platforms",
			"status":        "operational",
		})
	}
}

// Health handles GET /health
func Health(info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": info.AppName,
			"version": info.Version,
		})
	}
}
