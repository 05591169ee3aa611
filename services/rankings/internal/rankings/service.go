// Package rankings serves top-10 lists through the cache: single pairs via
// Resolve and the all-platform report via Aggregate.
package rankings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/events"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/cache"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/flixpatrol"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

const (
	DefaultNamespace = "india"
	DefaultTTL       = 4 * time.Hour

	aggregateSentinel = "fetchall"
)

// Matcher enriches one title. A false result leaves the item unenriched.
type Matcher interface {
	Match(ctx context.Context, title string, category catalog.Category) (model.Match, bool)
}

type Options struct {
	Namespace string
	TTL       time.Duration
	// AggregateConcurrency caps in-flight pairs during Aggregate; 0 runs all at once.
	AggregateConcurrency int
}

type Service struct {
	store     cache.Store
	fetcher   flixpatrol.Fetcher
	matcher   Matcher
	publisher *events.Publisher
	log       *zap.Logger
	now       func() time.Time

	namespace      string
	ttl            time.Duration
	aggregateLimit int

	flights singleflight.Group
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithPublisher(p *events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New wires the service. matcher may be nil to skip enrichment.
func New(store cache.Store, fetcher flixpatrol.Fetcher, matcher Matcher, opts Options, options ...Option) *Service {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	s := &Service{
		store:          store,
		fetcher:        fetcher,
		matcher:        matcher,
		log:            zap.NewNop(),
		now:            time.Now,
		namespace:      opts.Namespace,
		ttl:            opts.TTL,
		aggregateLimit: opts.AggregateConcurrency,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Service) Namespace() string { return s.namespace }

func (s *Service) PairKey(p catalog.Pair) string {
	return fmt.Sprintf("%s:%s:%s", s.namespace, p.Platform, p.Category)
}

func (s *Service) AggregateKey() string {
	return s.namespace + ":" + aggregateSentinel
}

// Resolve parses the slugs and resolves the pair. The error is non-nil only
// for an invalid request (see catalog.InvalidRequestError).
func (s *Service) Resolve(ctx context.Context, platform, category string, refresh bool) (Outcome, error) {
	pair, err := catalog.Resolve(platform, category)
	if err != nil {
		return Outcome{}, err
	}
	return s.ResolvePair(ctx, pair, refresh)
}

// ResolvePair serves the pair from cache when possible, otherwise fetches,
// enriches and stores it. refresh skips the cache read. Absent and failed
// results are never cached.
func (s *Service) ResolvePair(ctx context.Context, pair catalog.Pair, refresh bool) (Outcome, error) {
	if err := catalog.Validate(pair.Platform, pair.Category); err != nil {
		return Outcome{}, err
	}
	key := s.PairKey(pair)
	log := s.log.With(zap.String("key", key))

	if !refresh {
		var items []model.RankedItem
		ok, err := cache.GetJSON(ctx, s.store, key, &items)
		switch {
		case err != nil:
			log.Warn("cache read failed; treating as miss", zap.Error(err))
		case ok:
			return Found(items, true), nil
		}
	}

	flightKey := key
	if refresh {
		flightKey = "refresh:" + key
	}
	v, err, shared := s.flights.Do(flightKey, func() (interface{}, error) {
		return s.fetchAndStore(context.WithoutCancel(ctx), pair, key, log), nil
	})
	if err != nil {
		return Failed(err), nil
	}
	if shared {
		log.Debug("joined in-flight fetch")
	}
	return v.(Outcome), nil
}

func (s *Service) fetchAndStore(ctx context.Context, pair catalog.Pair, key string, log *zap.Logger) Outcome {
	raw, err := s.fetcher.FetchSection(ctx, pair.Platform, pair.Category.Section())
	if err != nil {
		if flixpatrol.IsAbsent(err) {
			log.Info("no upstream data", zap.Error(err))
			return Absent()
		}
		log.Warn("upstream fetch failed", zap.Error(err))
		return Failed(err)
	}
	if len(raw) == 0 {
		return Absent()
	}

	items := s.enrich(ctx, pair.Category, raw)
	if err := model.ValidateSequence(items); err != nil {
		log.Warn("upstream ranks are not dense", zap.Error(err))
	}

	if err := cache.SetJSON(ctx, s.store, key, items, s.ttl); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}

	matched := 0
	for _, it := range items {
		if it.CatalogID != nil {
			matched++
		}
	}
	log.Info("pair refreshed", zap.Int("items", len(items)), zap.Int("matched", matched))
	s.publisher.Publish(events.SubjectPairRefreshed, "pair_refreshed", map[string]any{
		"platform": pair.Platform.String(),
		"category": pair.Category.String(),
		"items":    len(items),
		"matched":  matched,
	})
	return Found(items, false)
}

// enrich matches every item concurrently; results land at the item's
// original index so rank order never depends on match latency.
func (s *Service) enrich(ctx context.Context, category catalog.Category, raw []model.RawItem) []model.RankedItem {
	items := make([]model.RankedItem, len(raw))
	for i, r := range raw {
		items[i] = model.FromRaw(r)
	}
	if s.matcher == nil {
		return items
	}

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					s.log.Error("matcher panicked", zap.String("title", items[i].Title), zap.Any("panic", rec))
				}
			}()
			if m, ok := s.matcher.Match(ctx, items[i].Title, category); ok {
				items[i] = items[i].Enriched(m)
			}
		}(i)
	}
	wg.Wait()
	return items
}

// Invalidate drops a cache key, or the whole namespace for "" / "ALL".
func (s *Service) Invalidate(ctx context.Context, target string) (int, error) {
	return cache.Invalidate(ctx, s.store, s.namespace, target)
}

// Ready reports whether the cache backend answers.
func (s *Service) Ready(ctx context.Context) error {
	if s.store == nil {
		return errors.New("cache store not configured")
	}
	return s.store.Ping(ctx)
}
