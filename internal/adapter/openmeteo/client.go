// Package openmeteo implements domain.WeatherSource against the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/bite-score-service/internal/config"
	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/observability"
)

// Client fetches current conditions from Open-Meteo. Outbound calls are
// rate-limited and run through a circuit breaker so a dead upstream fails
// fast instead of burning the per-fetch timeout on every region.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timezone   string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[domain.WeatherReading]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client from config.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.WeatherTimeout},
		baseURL:    cfg.WeatherBaseURL,
		timezone:   cfg.Timezone,
		limiter:    rate.NewLimiter(rate.Limit(cfg.WeatherRateLimit), cfg.WeatherMaxConcurrent),
		metrics:    metrics,
		logger:     logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[domain.WeatherReading](gobreaker.Settings{
		Name:     "open-meteo",
		Interval: 30 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("weather breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.WeatherBreakerState.Set(breakerStateValue(to))
		},
	})

	return c
}

// Current fetches the live reading for a coordinate. Any failure (rate-limit
// cancellation, open breaker, transport error, non-200 status, malformed
// payload) is returned to the caller, who substitutes the fallback reading.
func (c *Client) Current(ctx context.Context, lat, lon float64) (domain.WeatherReading, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("weather rate limit: %w", err)
	}

	start := time.Now()
	reading, err := c.breaker.Execute(func() (domain.WeatherReading, error) {
		return c.doRequest(ctx, lat, lon)
	})
	c.metrics.WeatherDuration.Observe(time.Since(start).Seconds())
	return reading, err
}

func (c *Client) doRequest(ctx context.Context, lat, lon float64) (domain.WeatherReading, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', 4, 64)},
		"current":   {"temperature_2m,pressure_msl,wind_speed_10m"},
		"timezone":  {c.timezone},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherReading{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var meteoResp response
	if err := json.NewDecoder(resp.Body).Decode(&meteoResp); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("decode response: %w", err)
	}

	// Missing fields default to the fallback reading's component.
	reading := domain.FallbackReading()
	if meteoResp.Current.Temperature != nil {
		reading.Temperature = *meteoResp.Current.Temperature
	}
	if meteoResp.Current.Pressure != nil {
		reading.Pressure = *meteoResp.Current.Pressure
	}
	if meteoResp.Current.WindSpeed != nil {
		reading.WindSpeed = *meteoResp.Current.WindSpeed
	}
	return reading, nil
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}

// Open-Meteo API response types.

type response struct {
	Current current `json:"current"`
}

type current struct {
	Temperature *float64 `json:"temperature_2m"`
	Pressure    *float64 `json:"pressure_msl"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
}
