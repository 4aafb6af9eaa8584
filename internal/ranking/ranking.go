// Package ranking implements the bite-score request flow: filter candidates,
// pre-rank on habitat fit, enrich the short list with live weather, and score.
package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bite-score-service/internal/config"
	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/observability"
)

// SpotSource provides the loaded candidate snapshot.
type SpotSource interface {
	Snapshot() ([]domain.Spot, domain.ScoreRange, error)
	CheckReadiness(ctx context.Context) error
}

// WeatherFetcher resolves readings for a batch of region cells.
type WeatherFetcher interface {
	FetchRegions(ctx context.Context, keys []domain.RegionKey) map[domain.RegionKey]domain.WeatherReading
}

// Service ranks fishing spots for a species.
type Service struct {
	spots    SpotSource
	weather  WeatherFetcher
	clock    clockwork.Clock
	location *time.Location
	metrics  *observability.Metrics
	logger   *slog.Logger

	defaultLimit int
	maxLimit     int
	enrichLimit  int
}

// NewService wires a ranking Service from its dependencies. The clock is
// injected so tests can pin the local hour.
func NewService(spots SpotSource, weather WeatherFetcher, clock clockwork.Clock, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		spots:        spots,
		weather:      weather,
		clock:        clock,
		location:     cfg.Location(),
		metrics:      metrics,
		logger:       logger,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		enrichLimit:  cfg.EnrichLimit,
	}
}

// BoundingBox restricts candidates to a geographic window. A zero-valued edge
// is treated as unset.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b *BoundingBox) contains(lat, lon float64) bool {
	if b == nil {
		return true
	}
	if b.MinLat != 0 && lat < b.MinLat {
		return false
	}
	if b.MaxLat != 0 && lat > b.MaxLat {
		return false
	}
	if b.MinLon != 0 && lon < b.MinLon {
		return false
	}
	if b.MaxLon != 0 && lon > b.MaxLon {
		return false
	}
	return true
}

// Request describes one ranking query.
type Request struct {
	Species string
	Limit   int
	BBox    *BoundingBox
}

// SpotResult is one ranked entry in a Response.
type SpotResult struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Latitude  float64               `json:"latitude"`
	Longitude float64               `json:"longitude"`
	BiteScore int                   `json:"bite_score"`
	Status    string                `json:"status"`
	Reasoning string                `json:"reasoning"`
	Weather   domain.WeatherReading `json:"weather"`
}

// Response is the ranked result set for a Request. TotalSpots reports the
// size of the loaded dataset, not the post-filter survivor count.
type Response struct {
	Timestamp  time.Time    `json:"timestamp"`
	Species    string       `json:"species"`
	TotalSpots int          `json:"total_spots"`
	Returned   int          `json:"returned"`
	Spots      []SpotResult `json:"spots"`
}

// candidate carries the per-spot pre-ranking state.
type candidate struct {
	spot  domain.Spot
	match domain.HabitatMatch
	base  float64
}

// Rank produces the bite-score ranking for one request. Candidates without
// coordinates or outside the bounding box are dropped before scoring, and the
// effective limit is capped by the enrichment ceiling so every returned spot
// was part of the weather fetch. When the context deadline expires
// mid-request, whatever has been scored so far is returned;
// domain.ErrRequestTimeout is returned only when nothing was.
func (s *Service) Rank(ctx context.Context, req Request) (*Response, error) {
	start := s.clock.Now()
	// Species is matched case-sensitively against the rule tables; anything
	// outside them ranks on habitat tiers with neutral weather/time.
	species := req.Species
	if strings.TrimSpace(species) == "" {
		species = "walleye"
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	if limit > s.enrichLimit {
		limit = s.enrichLimit
	}

	spots, scoreRange, err := s.spots.Snapshot()
	if err != nil {
		s.metrics.RankRequests.WithLabelValues(species, "no_data").Inc()
		return nil, fmt.Errorf("loading candidates: %w", err)
	}

	candidates := make([]candidate, 0, len(spots))
	for _, spot := range spots {
		if !spot.HasCoordinates {
			continue
		}
		if !req.BBox.contains(spot.Latitude, spot.Longitude) {
			continue
		}
		candidates = append(candidates, candidate{
			spot:  spot,
			match: domain.MatchHabitat(species, spot.Habitat),
			base:  domain.NormalizeScore(spot.RawPotential, scoreRange),
		})
	}
	total := len(spots)

	// Pre-rank on habitat fit so weather enrichment goes to the most
	// promising candidates.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].match.Multiplier != candidates[j].match.Multiplier {
			return candidates[i].match.Multiplier > candidates[j].match.Multiplier
		}
		return candidates[i].base > candidates[j].base
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	keys := make([]domain.RegionKey, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, domain.RegionFor(c.spot.Latitude, c.spot.Longitude))
	}
	readings := s.weather.FetchRegions(ctx, keys)

	hour := s.clock.Now().In(s.location).Hour()

	results := make([]SpotResult, 0, len(candidates))
	partial := false
	for _, c := range candidates {
		if ctx.Err() != nil {
			partial = true
			break
		}
		reading, ok := readings[domain.RegionFor(c.spot.Latitude, c.spot.Longitude)]
		if !ok {
			reading = domain.FallbackReading()
		}
		score := domain.CalculateBiteScore(species, c.base, c.match.Multiplier, reading, hour)
		results = append(results, SpotResult{
			ID:        c.spot.ID,
			Name:      c.spot.Name,
			Latitude:  c.spot.Latitude,
			Longitude: c.spot.Longitude,
			BiteScore: score.Score,
			Status:    score.Status,
			Reasoning: c.match.Reason + "; " + score.Reasoning,
			Weather:   reading,
		})
	}

	if partial && len(results) == 0 {
		s.metrics.RankRequests.WithLabelValues(species, "timeout").Inc()
		return nil, domain.ErrRequestTimeout
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].BiteScore > results[j].BiteScore
	})

	outcome := "ok"
	if partial {
		outcome = "partial"
		s.logger.Warn("deadline expired mid-ranking, returning partial results",
			"species", species,
			"scored", len(results),
			"selected", len(candidates),
		)
	}
	s.metrics.RankRequests.WithLabelValues(species, outcome).Inc()
	s.metrics.RankDuration.Observe(s.clock.Since(start).Seconds())
	s.metrics.CandidatesReturned.Observe(float64(len(results)))

	s.logger.Debug("ranking complete",
		"species", species,
		"total", total,
		"returned", len(results),
		"hour", hour,
	)

	return &Response{
		Timestamp:  s.clock.Now().In(s.location),
		Species:    species,
		TotalSpots: total,
		Returned:   len(results),
		Spots:      results,
	}, nil
}

// CheckReadiness reports whether the service can rank, which reduces to
// whether candidate data is loaded.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.spots.CheckReadiness(ctx)
}
