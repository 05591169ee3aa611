package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	platformconfig "github.com/MaheshSharan/FlixPatrol-API/internal/platform/config"
)

type Config struct {
	platformconfig.AppConfig

	AppName      string `validate:"required"`
	Version      string `validate:"required"`
	ContactEmail string `validate:"required,email"`
	GRPCAddr     string
	Region       string `validate:"required,lowercase,excludesall=: "`

	CacheBackend  string        `validate:"omitempty,oneof=redis postgres bolt memory"`
	CacheTTL      time.Duration `validate:"gt=0"`
	RedisURL      string
	RedisPoolSize int `validate:"gte=1"`
	DatabaseURL   string
	BoltPath      string

	FlixPatrolBaseURL   string        `validate:"required,url"`
	FetchTimeout        time.Duration `validate:"gt=0"`
	FetchMaxRetries     int           `validate:"gte=0,lte=10"`
	FetchRetryBaseDelay time.Duration `validate:"gt=0"`
	HTTPMaxIdleConns    int           `validate:"gte=1"`
	HTTPMaxConns        int           `validate:"gte=1"`

	// TMDBAPIKey empty disables catalog matching.
	TMDBAPIKey   string
	TMDBBaseURL  string        `validate:"required,url"`
	TMDBLanguage string        `validate:"required"`
	TMDBTimeout  time.Duration `validate:"gt=0"`

	CBMaxRequests      uint32
	CBInterval         time.Duration
	CBTimeout          time.Duration
	CBFailureThreshold uint32 `validate:"gte=1"`

	AggregateConcurrency int `validate:"gte=0"`

	NATSURL               string
	NATSInvalidateSubject string `validate:"required"`

	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=0"`
}

// Load reads the service settings from the environment and validates them.
func Load() (Config, error) {
	app, err := platformconfig.Load("rankings")
	if err != nil {
		return Config{}, err
	}

	ttl := platformconfig.Duration("CACHE_TTL", 4*time.Hour)
	if secs := platformconfig.Int("CACHE_EXPIRATION_SECONDS", 0); secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	cfg := Config{
		AppConfig:    app,
		AppName:      platformconfig.String("APP_NAME", "FlixPatrol India Scraper API"),
		Version:      platformconfig.String("APP_VERSION", "1.0.0"),
		ContactEmail: platformconfig.String("CONTACT_EMAIL", ""),
		GRPCAddr:     platformconfig.String("GRPC_ADDR", ""),
		Region:       strings.ToLower(platformconfig.String("REGION", "india")),

		CacheBackend:  strings.ToLower(platformconfig.String("CACHE_BACKEND", "redis")),
		CacheTTL:      ttl,
		RedisURL:      platformconfig.String("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize: platformconfig.Int("REDIS_POOL_SIZE", 20),
		DatabaseURL:   platformconfig.String("DATABASE_URL", ""),
		BoltPath:      platformconfig.String("BOLT_PATH", ""),

		FlixPatrolBaseURL:   platformconfig.String("FLIXPATROL_BASE_URL", "https://flixpatrol.com/top10"),
		FetchTimeout:        platformconfig.Duration("FETCH_TIMEOUT", 30*time.Second),
		FetchMaxRetries:     platformconfig.Int("FETCH_MAX_RETRIES", 2),
		FetchRetryBaseDelay: platformconfig.Duration("FETCH_RETRY_BASE_DELAY", 500*time.Millisecond),
		HTTPMaxIdleConns:    platformconfig.Int("HTTP_MAX_IDLE_CONNS", 10),
		HTTPMaxConns:        platformconfig.Int("HTTP_MAX_CONNS", 50),

		TMDBAPIKey:   platformconfig.String("TMDB_API_KEY", ""),
		TMDBBaseURL:  platformconfig.String("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBLanguage: platformconfig.String("TMDB_LANGUAGE", "en-US"),
		TMDBTimeout:  platformconfig.Duration("TMDB_TIMEOUT", 10*time.Second),

		CBMaxRequests:      uint32(platformconfig.Int("CB_MAX_REQUESTS", 5)),
		CBInterval:         platformconfig.Duration("CB_INTERVAL", 60*time.Second),
		CBTimeout:          platformconfig.Duration("CB_TIMEOUT", 30*time.Second),
		CBFailureThreshold: uint32(platformconfig.Int("CB_FAILURE_THRESHOLD", 5)),

		AggregateConcurrency: platformconfig.Int("AGGREGATE_CONCURRENCY", 0),

		NATSURL:               platformconfig.String("NATS_URL", ""),
		NATSInvalidateSubject: platformconfig.String("NATS_INVALIDATE_SUBJECT", "rankings.cache.invalidate"),

		RateLimitRPS:   platformconfig.Float("RATE_LIMIT_RPS", 10),
		RateLimitBurst: platformconfig.Int("RATE_LIMIT_BURST", 20),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the backend-specific requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.CacheBackend {
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("config: CACHE_BACKEND=redis requires REDIS_URL")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: CACHE_BACKEND=postgres requires DATABASE_URL")
		}
	case "bolt":
		if c.BoltPath == "" {
			return fmt.Errorf("config: CACHE_BACKEND=bolt requires BOLT_PATH")
		}
	case "memory":
		if c.IsProduction() {
			return fmt.Errorf("config: in-memory cache is not allowed in production")
		}
	}
	return nil
}

// UserAgent identifies the service to FlixPatrol.
func (c Config) UserAgent() string {
	return fmt.Sprintf("%s/1.0 (Contact: %s)", c.AppName, c.ContactEmail)
}

// MatchingEnabled reports whether a TMDB key is configured.
func (c Config) MatchingEnabled() bool { return c.TMDBAPIKey != "" }
