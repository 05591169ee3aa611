package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Mount registers the public routes on r.
func Mount(r chi.Router, svc Rankings, info Info, limiter *RateLimiter, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	r.Get("/", Root(info))
	r.Get("/health", Health(info))

	r.Route("/api/v1/{region}", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/platforms", ListPlatforms(info.Region))
		r.Get("/fetchall", GetAggregate(svc, info.Region, log))
		r.Get("/{platform}/{category}", GetPair(svc, info.Region, log))
	})
}
