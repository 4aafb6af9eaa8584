// Package store loads and serves the scored fishing-spot dataset.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/observability"
)

// Store holds the candidate spots and their score range. Spots are immutable
// once loaded; Load/Reload swap the whole snapshot atomically, so concurrent
// ranking requests read without locking beyond the snapshot fetch.
type Store struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics

	mu         sync.RWMutex
	spots      []domain.Spot
	scoreRange domain.ScoreRange
}

// New creates a Store for the given GeoJSON dataset path. Call Load before
// serving.
func New(path string, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		path:    path,
		logger:  logger,
		metrics: metrics,
	}
}

// Load reads and parses the dataset, computing the score range over all
// strictly-positive raw potentials. It never installs a partial snapshot: on
// any read or parse failure the previous data (if any) stays in place and
// the error wraps domain.ErrDataUnavailable.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrDataUnavailable, s.path, err)
	}

	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrDataUnavailable, s.path, err)
	}

	spots := make([]domain.Spot, 0, len(fc.Features))
	scoreRange := domain.ScoreRange{Min: 1, Max: 1}
	havePositive := false

	for _, f := range fc.Features {
		spot := f.Properties.toSpot()
		spots = append(spots, spot)

		if spot.RawPotential > 0 {
			if !havePositive {
				scoreRange.Min = spot.RawPotential
				scoreRange.Max = spot.RawPotential
				havePositive = true
				continue
			}
			if spot.RawPotential < scoreRange.Min {
				scoreRange.Min = spot.RawPotential
			}
			if spot.RawPotential > scoreRange.Max {
				scoreRange.Max = spot.RawPotential
			}
		}
	}

	s.mu.Lock()
	s.spots = spots
	s.scoreRange = scoreRange
	s.mu.Unlock()

	s.metrics.SpotsLoaded.Set(float64(len(spots)))
	s.metrics.DatasetReloads.Inc()
	s.logger.Info("fishing spots loaded",
		"path", s.path,
		"spots", len(spots),
		"score_min", scoreRange.Min,
		"score_max", scoreRange.Max,
	)
	return nil
}

// Reload re-reads the dataset from disk, replacing the snapshot on success.
func (s *Store) Reload() error {
	return s.Load()
}

// Snapshot returns the loaded spots and score range. The returned slice is
// shared and must not be mutated. Returns domain.ErrDataUnavailable when no
// data has been loaded.
func (s *Store) Snapshot() ([]domain.Spot, domain.ScoreRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.spots) == 0 {
		return nil, domain.ScoreRange{}, domain.ErrDataUnavailable
	}
	return s.spots, s.scoreRange, nil
}

// Count reports the number of loaded spots.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spots)
}

// CheckReadiness reports whether candidate data is available to rank.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.Count() == 0 {
		return domain.ErrDataUnavailable
	}
	return nil
}

// GeoJSON dataset types. Only the properties the engine consumes are
// declared; everything else in the file is ignored.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	UniqID        json.RawMessage `json:"UNIQID"`
	LakeName      string          `json:"LAKE_NAME"`
	CentroidLat   *float64        `json:"centroid_lat_wgs84"`
	CentroidLon   *float64        `json:"centroid_lon_wgs84"`
	Potential     *float64        `json:"potential_score"`
	PotentialCap  *float64        `json:"potential_score_capped"`
	HabitatType   string          `json:"HABITAT_FE"`
	HabitatDetail string          `json:"HABITAT_DE"`
	Area          float64         `json:"AREA"`
}

func (p properties) toSpot() domain.Spot {
	spot := domain.Spot{
		ID:            rawToString(p.UniqID),
		Name:          p.LakeName,
		Habitat:       p.HabitatType,
		HabitatDetail: p.HabitatDetail,
		Area:          p.Area,
	}
	if spot.Name == "" {
		spot.Name = "Unknown"
	}

	// The capped variant is preferred when present and scored; 0 falls
	// through to the raw column.
	if p.PotentialCap != nil && *p.PotentialCap != 0 {
		spot.RawPotential = *p.PotentialCap
	} else if p.Potential != nil {
		spot.RawPotential = *p.Potential
	}

	if p.CentroidLat != nil && p.CentroidLon != nil {
		spot.Latitude = *p.CentroidLat
		spot.Longitude = *p.CentroidLon
		spot.HasCoordinates = true
	}
	return spot
}

// rawToString renders the UNIQID property, which appears as either a JSON
// string or a number depending on the dataset export.
func rawToString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
