package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionFor_SnapsToHalfDegreeGrid(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     RegionKey
	}{
		{45.12, -79.31, RegionKey{Lat: 45.0, Lon: -79.5}},
		{45.26, -79.24, RegionKey{Lat: 45.5, Lon: -79.0}},
		{45.0, -79.5, RegionKey{Lat: 45.0, Lon: -79.5}},
		{-0.1, 0.1, RegionKey{Lat: 0, Lon: 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RegionFor(tt.lat, tt.lon), "(%v,%v)", tt.lat, tt.lon)
	}
}

func TestRegionFor_NearbyCoordinatesShareCell(t *testing.T) {
	// Two lakes ~10 km apart land in the same 0.5° cell and so will share
	// one weather reading per ranking request.
	a := RegionFor(44.91, -78.12)
	b := RegionFor(44.98, -78.09)
	assert.Equal(t, a, b)
}

func TestFallbackReading_FixedValues(t *testing.T) {
	w := FallbackReading()
	assert.Equal(t, WeatherReading{Temperature: 10, Pressure: 1013, WindSpeed: 10}, w)
}
