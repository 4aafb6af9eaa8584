// Package weather batches live condition lookups by region cell so a ranking
// request never fans out to more than a handful of upstream calls.
package weather

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/bite-score-service/internal/config"
	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/observability"
)

// RegionFetcher resolves weather for the distinct region cells covering a
// candidate list. Fetches run concurrently up to maxConcurrent; any region
// past the maxRegions cap, and any failed fetch, gets the fallback reading so
// scoring always has something to work with.
type RegionFetcher struct {
	source        domain.WeatherSource
	timeout       time.Duration
	maxRegions    int
	maxConcurrent int
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewRegionFetcher creates a RegionFetcher backed by the given source.
func NewRegionFetcher(source domain.WeatherSource, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *RegionFetcher {
	return &RegionFetcher{
		source:        source,
		timeout:       cfg.WeatherTimeout,
		maxRegions:    cfg.WeatherMaxRegions,
		maxConcurrent: cfg.WeatherMaxConcurrent,
		metrics:       metrics,
		logger:        logger,
	}
}

// FetchRegions returns a reading for every distinct region in keys. The input
// may contain duplicates; distinct regions are taken in first-seen order, and
// only the first maxRegions of them are fetched upstream. The rest, along
// with any region whose fetch fails, map to domain.FallbackReading.
func (f *RegionFetcher) FetchRegions(ctx context.Context, keys []domain.RegionKey) map[domain.RegionKey]domain.WeatherReading {
	distinct := dedupe(keys)
	f.metrics.RegionsPerRequest.Observe(float64(len(distinct)))

	results := make(map[domain.RegionKey]domain.WeatherReading, len(distinct))
	fetched := distinct
	if len(fetched) > f.maxRegions {
		fetched = distinct[:f.maxRegions]
		for _, key := range distinct[f.maxRegions:] {
			results[key] = domain.FallbackReading()
		}
		f.logger.Warn("region cap exceeded, using fallback weather for overflow",
			"distinct", len(distinct),
			"cap", f.maxRegions,
		)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, f.maxConcurrent)
	)
	for _, key := range fetched {
		wg.Add(1)
		sem <- struct{}{}
		go func(key domain.RegionKey) {
			defer wg.Done()
			defer func() { <-sem }()

			reading := f.fetchOne(ctx, key)
			mu.Lock()
			results[key] = reading
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	return results
}

func (f *RegionFetcher) fetchOne(ctx context.Context, key domain.RegionKey) domain.WeatherReading {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reading, err := f.source.Current(fetchCtx, key.Lat, key.Lon)
	if err != nil {
		f.metrics.WeatherFetches.WithLabelValues("error").Inc()
		f.logger.Warn("weather fetch failed, using fallback reading",
			"lat", key.Lat,
			"lon", key.Lon,
			"error", err,
		)
		return domain.FallbackReading()
	}

	f.metrics.WeatherFetches.WithLabelValues("ok").Inc()
	return reading
}

// dedupe keeps the first occurrence of each region, preserving order.
func dedupe(keys []domain.RegionKey) []domain.RegionKey {
	seen := make(map[domain.RegionKey]struct{}, len(keys))
	distinct := make([]domain.RegionKey, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	return distinct
}
