// Package app wires the rankings service graph from configuration. Both the
// server and the operator CLI build through here.
package app

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/events"
	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/natsconn"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/cache"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/config"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/flixpatrol"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/matching"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/rankings"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/tmdb"
)

type App struct {
	Config  config.Config
	Log     *zap.Logger
	Store   cache.Store
	Fetcher *flixpatrol.Client
	// Matcher is nil when no TMDB key is configured.
	Matcher *matching.Engine
	Service *rankings.Service
	// NATS is nil unless NATS_URL is set and Options.NATS is true.
	NATS *nats.Conn

	closers []func()
}

type Options struct {
	// NATS connects to NATS_URL for invalidation and events.
	NATS bool
}

// Build opens the cache store and constructs the clients and service.
// The caller must Close the result.
func Build(ctx context.Context, cfg config.Config, log *zap.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Log: log}

	store, err := cache.NewStore(ctx, cache.Options{
		Backend:       cfg.CacheBackend,
		RedisURL:      cfg.RedisURL,
		RedisPoolSize: cfg.RedisPoolSize,
		DatabaseURL:   cfg.DatabaseURL,
		BoltPath:      cfg.BoltPath,
		Production:    cfg.IsProduction(),
	})
	if err != nil {
		return nil, fmt.Errorf("cache store: %w", err)
	}
	a.Store = store
	a.closers = append(a.closers, func() {
		if err := store.Close(); err != nil {
			log.Warn("cache close", zap.Error(err))
		}
	})

	a.Fetcher = flixpatrol.New(cfg.FlixPatrolBaseURL, flixpatrol.ClientConfig{
		UserAgent:      cfg.UserAgent(),
		Region:         cfg.Region,
		Timeout:        cfg.FetchTimeout,
		MaxRetries:     cfg.FetchMaxRetries,
		RetryBaseDelay: cfg.FetchRetryBaseDelay,
		MaxIdleConns:   cfg.HTTPMaxIdleConns,
		MaxConns:       cfg.HTTPMaxConns,
	}, flixpatrol.WithCircuitBreakers(func(name string) *gobreaker.CircuitBreaker {
		return newPageBreaker(name, cfg, log)
	}), flixpatrol.WithLogger(log.Named("flixpatrol")))

	var matcher rankings.Matcher
	if cfg.MatchingEnabled() {
		tc, err := tmdb.New(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.TMDBLanguage,
			tmdb.WithTimeout(cfg.TMDBTimeout),
			tmdb.WithCircuitBreaker(NewBreaker("tmdb", cfg, log)),
			tmdb.WithLogger(log.Named("tmdb")),
		)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		a.Matcher = matching.NewEngine(tc, matching.WithLogger(log.Named("matching")))
		matcher = a.Matcher
	} else {
		log.Warn("TMDB_API_KEY not set; items will not be enriched")
	}

	var publisher *events.Publisher
	if opts.NATS && cfg.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL, Name: cfg.ServiceName, Logger: log.Named("nats")})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.NATS = nc
		a.closers = append(a.closers, nc.Close)

		js, err := nc.JetStream()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("jetstream: %w", err)
		}
		if err := events.EnsureStream(js); err != nil {
			log.Warn("events stream unavailable; publishing disabled", zap.Error(err))
		} else {
			publisher = events.New(js, cfg.ServiceName, log.Named("events"))
		}
	}

	a.Service = rankings.New(store, a.Fetcher, matcher, rankings.Options{
		Namespace:            cfg.Region,
		TTL:                  cfg.CacheTTL,
		AggregateConcurrency: cfg.AggregateConcurrency,
	}, rankings.WithLogger(log.Named("rankings")), rankings.WithPublisher(publisher))
	return a, nil
}

// SubscribeInvalidation listens for cache invalidation messages. It is a
// no-op without a NATS connection.
func (a *App) SubscribeInvalidation() error {
	if a.NATS == nil {
		return nil
	}
	sub, err := cache.SubscribeInvalidation(a.NATS, a.Config.NATSInvalidateSubject, a.Store, a.Config.Region, a.Log.Named("invalidate"))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", a.Config.NATSInvalidateSubject, err)
	}
	a.closers = append(a.closers, func() { _ = sub.Unsubscribe() })
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// NewBreaker builds a breaker from the CB_* settings.
func NewBreaker(name string, cfg config.Config, log *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(breakerSettings(name, cfg, log))
}

// newPageBreaker is NewBreaker for one FlixPatrol page; missing pages do not
// count against it.
func newPageBreaker(name string, cfg config.Config, log *zap.Logger) *gobreaker.CircuitBreaker {
	st := breakerSettings(name, cfg, log)
	st.IsSuccessful = flixpatrol.BreakerSuccess
	return gobreaker.NewCircuitBreaker(st)
}

func breakerSettings(name string, cfg config.Config, log *zap.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.CBFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
}
