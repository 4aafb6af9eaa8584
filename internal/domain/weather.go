package domain

import "context"

// WeatherSource fetches current conditions for a coordinate.
type WeatherSource interface {
	// Current returns the live reading for a coordinate. Implementations
	// carry their own request deadline; callers substitute
	// FallbackReading() on error.
	Current(ctx context.Context, lat, lon float64) (WeatherReading, error)
}
