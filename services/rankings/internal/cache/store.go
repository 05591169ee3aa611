// Package cache is the byte-oriented TTL store behind the rankings cache.
//
// Backends: Redis (default), Postgres, a bbolt file for single-node
// deployments and an in-memory map for development.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store is a key/value byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns ok=false for a missing or expired key.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix and reports how many went.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

type Options struct {
	Backend       string
	RedisURL      string
	RedisPoolSize int
	DatabaseURL   string
	BoltPath      string
	// Production forbids the in-memory backend.
	Production bool
}

// NewStore opens the configured backend. An empty Backend picks the first
// one configured: Redis > Postgres > bolt > memory.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		switch {
		case opts.RedisURL != "":
			backend = BackendRedis
		case opts.DatabaseURL != "":
			backend = BackendPostgres
		case opts.BoltPath != "":
			backend = BackendBolt
		default:
			backend = BackendMemory
		}
	}

	switch backend {
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, errors.New("redis cache requires REDIS_URL")
		}
		return newRedisStore(opts.RedisURL, opts.RedisPoolSize)
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, errors.New("postgres cache requires DATABASE_URL")
		}
		return newPostgresStore(ctx, opts.DatabaseURL)
	case BackendBolt:
		if opts.BoltPath == "" {
			return nil, errors.New("bolt cache requires BOLT_PATH")
		}
		return newBoltStore(opts.BoltPath)
	case BackendMemory:
		if opts.Production {
			return nil, errors.New("production requires a shared cache backend; in-memory cache is not allowed")
		}
		return newMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// GetJSON decodes the value at key into dest. A value that fails to decode
// is returned as an error with ok=false so callers can treat it as a miss.
func GetJSON(ctx context.Context, s Store, key string, dest any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b, ttl)
}
