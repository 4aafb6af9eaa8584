package domain

import (
	"errors"
	"math"
)

// ErrDataUnavailable indicates the candidate dataset is missing or corrupt.
// It is fatal to a ranking request and surfaced to the caller.
var ErrDataUnavailable = errors.New("fishing spot data unavailable")

// ErrRequestTimeout indicates the caller's deadline expired before any
// candidate finished scoring.
var ErrRequestTimeout = errors.New("ranking request timed out")

// Spot is an immutable geo-tagged candidate loaded from the habitat dataset.
type Spot struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	HasCoordinates bool    `json:"-"`

	// RawPotential is the precomputed habitat potential, 0 meaning unscored.
	// The capped variant from the dataset is preferred when present.
	RawPotential  float64 `json:"potential_score"`
	Habitat       string  `json:"habitat_type"`
	HabitatDetail string  `json:"habitat_desc"`
	Area          float64 `json:"area"`
}

// ScoreRange holds the dataset-wide min/max of strictly-positive raw
// potential values, computed once at load time. Min ≤ Max always; when no
// positive values exist both collapse to 1 so normalization degenerates to a
// constant midpoint.
type ScoreRange struct {
	Min float64
	Max float64
}

// HabitatMatch is the coarse species-habitat confidence tier.
type HabitatMatch struct {
	Multiplier float64
	Reason     string
}

// WeatherReading holds current conditions for a coordinate.
type WeatherReading struct {
	Temperature float64 `json:"temperature"` // °C
	Pressure    float64 `json:"pressure"`    // hPa, mean sea level
	WindSpeed   float64 `json:"wind_speed"`  // km/h at 10 m
}

// FallbackReading is substituted whenever a live fetch fails, times out, or
// a coordinate cannot be resolved. Weather is advisory, never load-bearing.
func FallbackReading() WeatherReading {
	return WeatherReading{Temperature: 10, Pressure: 1013, WindSpeed: 10}
}

// RegionKey identifies a 0.5° grid cell used to deduplicate weather fetches
// across nearby candidates.
type RegionKey struct {
	Lat float64
	Lon float64
}

// RegionFor snaps a coordinate to its grid cell.
func RegionFor(lat, lon float64) RegionKey {
	return RegionKey{
		Lat: math.Round(lat*2) / 2,
		Lon: math.Round(lon*2) / 2,
	}
}

// Bite score status labels, assigned by fixed thresholds.
const (
	StatusGreat = "Great"
	StatusGood  = "Good"
	StatusFair  = "Fair"
	StatusPoor  = "Poor"
)

// BiteScore is the composite ranking result for one candidate.
type BiteScore struct {
	Score     int    `json:"score"`
	Status    string `json:"status"`
	Reasoning string `json:"reasoning"`
}
