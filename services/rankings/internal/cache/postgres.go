package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/db"
)

const createCacheTable = `CREATE TABLE IF NOT EXISTS rankings_cache (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

type postgresStore struct {
	pool *pgxpool.Pool
}

func newPostgresStore(ctx context.Context, dsn string) (*postgresStore, error) {
	pool, err := db.Open(ctx, dsn, db.Options{MaxConns: 20})
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, createCacheTable); err != nil {
		pool.Close()
		return nil, err
	}
	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM rankings_cache WHERE key = $1 AND expires_at > now()`
	var val []byte
	if err := s.pool.QueryRow(ctx, q, key).Scan(&val); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	const q = `INSERT INTO rankings_cache (key, value, expires_at)
	           VALUES ($1, $2, now() + make_interval(secs => $3))
	           ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`
	_, err := s.pool.Exec(ctx, q, key, value, ttl.Seconds())
	return err
}

func (s *postgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM rankings_cache WHERE key = ANY($1)`, keys)
	return err
}

func (s *postgresStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rankings_cache WHERE key LIKE $1 ESCAPE '\'`, likePrefix(prefix))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
