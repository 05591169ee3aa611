package rankings

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MaheshSharan/FlixPatrol-API/internal/platform/events"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/cache"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/catalog"
	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

// Aggregate resolves every published pair and assembles the report. A
// failing pair only marks its own status; the report itself is always
// produced. refresh bypasses both the aggregate and per-pair cache reads.
func (s *Service) Aggregate(ctx context.Context, refresh bool) (model.AggregateReport, error) {
	key := s.AggregateKey()
	log := s.log.With(zap.String("key", key))

	if !refresh {
		var cached model.AggregateReport
		ok, err := cache.GetJSON(ctx, s.store, key, &cached)
		switch {
		case err != nil:
			log.Warn("aggregate cache read failed; rebuilding", zap.Error(err))
		case ok:
			return cached, nil
		}
	}

	flightKey := key
	if refresh {
		flightKey = "refresh:" + key
	}
	v, err, _ := s.flights.Do(flightKey, func() (res interface{}, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("aggregate: %v", rec)
			}
		}()
		return s.buildAggregate(context.WithoutCancel(ctx), refresh, log), nil
	})
	if err != nil {
		log.Error("aggregate build aborted", zap.Error(err))
		return model.AggregateReport{}, err
	}
	return v.(model.AggregateReport), nil
}

func (s *Service) buildAggregate(ctx context.Context, refresh bool, log *zap.Logger) model.AggregateReport {
	started := s.now()
	pairs := catalog.Pairs()
	outcomes := make([]Outcome, len(pairs))

	var g errgroup.Group
	if s.aggregateLimit > 0 {
		g.SetLimit(s.aggregateLimit)
	}
	for i, p := range pairs {
		g.Go(func() error {
			outcomes[i] = s.resolveUnit(ctx, p, refresh)
			return nil
		})
	}
	_ = g.Wait()

	report := Assemble(pairs, outcomes, s.now())
	if err := cache.SetJSON(ctx, s.store, s.AggregateKey(), report, s.ttl); err != nil {
		log.Warn("aggregate cache write failed", zap.Error(err))
	}

	sum := report.Summary
	log.Info("aggregate built",
		zap.Int("successful_requests", sum.SuccessfulRequests),
		zap.Int("total_requests", sum.TotalRequests),
		zap.String("cache_hit_rate", sum.CacheHitRate),
		zap.Duration("took", s.now().Sub(started)),
	)
	s.publisher.Publish(events.SubjectAggregateBuilt, "aggregate_built", map[string]any{
		"successful_platforms": sum.SuccessfulPlatforms,
		"successful_requests":  sum.SuccessfulRequests,
		"total_requests":       sum.TotalRequests,
		"cache_hit_rate":       sum.CacheHitRate,
	})
	return report
}

// resolveUnit isolates one pair: panics and errors become a Failed outcome.
func (s *Service) resolveUnit(ctx context.Context, p catalog.Pair, refresh bool) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error("pair panicked", zap.Stringer("pair", p), zap.Any("panic", rec))
			out = Failed(fmt.Errorf("panic: %v", rec))
		}
	}()
	o, err := s.ResolvePair(ctx, p, refresh)
	if err != nil {
		return Failed(err)
	}
	return o
}

// Assemble builds the report from per-pair outcomes given in the same order
// as pairs.
func Assemble(pairs []catalog.Pair, outcomes []Outcome, at time.Time) model.AggregateReport {
	sum := model.AggregateSummary{
		Timestamp:     at.UTC().Format(time.RFC3339),
		TotalRequests: len(pairs),
		TotalPairs:    len(pairs),
		Platforms:     map[string]map[string]model.PlatformCategoryStatus{},
	}
	data := map[string]map[string][]model.RankedItem{}

	hits := 0
	for i, p := range pairs {
		plat, cat := p.Platform.String(), p.Category.String()
		if sum.Platforms[plat] == nil {
			sum.Platforms[plat] = map[string]model.PlatformCategoryStatus{}
		}
		o := outcomes[i]
		if o.FromCache {
			hits++
		}
		switch {
		case o.HasData():
			sum.Platforms[plat][cat] = model.SuccessStatus(len(o.Items))
			sum.SuccessfulRequests++
			pk := catalog.ResponseKey(plat)
			if data[pk] == nil {
				data[pk] = map[string][]model.RankedItem{}
			}
			data[pk][catalog.ResponseKey(cat)] = o.Items
		case o.Kind == KindFailed:
			sum.Platforms[plat][cat] = model.ErrorStatus()
		default:
			sum.Platforms[plat][cat] = model.NoDataStatus()
		}
	}
	sum.TotalPlatforms = len(sum.Platforms)
	sum.SuccessfulPlatforms = len(data)
	sum.CacheHitRate = hitRate(hits, len(pairs))
	return model.AggregateReport{Summary: sum, Data: data}
}

func hitRate(hits, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(hits)*100/float64(total))))
}
