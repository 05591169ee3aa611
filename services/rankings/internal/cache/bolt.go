package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketEntries = []byte("entries")

// boltStore keeps entries in a single bucket. Each value is prefixed with
// its expiry as big-endian unix nanoseconds.
type boltStore struct {
	db  *bolt.DB
	now func() time.Time
}

func newBoltStore(path string) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &boltStore{db: db, now: time.Now}, nil
}

func (s *boltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var (
		out     []byte
		found   bool
		expired bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get([]byte(key))
		if len(raw) < 8 {
			return nil
		}
		exp := int64(binary.BigEndian.Uint64(raw[:8]))
		if s.now().UnixNano() >= exp {
			expired = true
			return nil
		}
		out = append([]byte(nil), raw[8:]...)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if expired {
		_ = s.Delete(context.Background(), key)
		return nil, false, nil
	}
	return out, found, nil
}

func (s *boltStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(s.now().Add(ttl).UnixNano()))
	copy(buf[8:], value)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), buf)
	})
}

func (s *boltStore) Delete(_ context.Context, keys ...string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *boltStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(keys)
		return nil
	})
	return removed, err
}

func (s *boltStore) Ping(context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketEntries) == nil {
			return fmt.Errorf("bolt cache: bucket missing")
		}
		return nil
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
