package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Candidate dataset.
	SpotsPath string
	Timezone  string

	// Open-Meteo weather configuration.
	WeatherBaseURL       string
	WeatherTimeout       time.Duration
	WeatherMaxRegions    int
	WeatherMaxConcurrent int
	WeatherRateLimit     float64 // outbound requests per second

	// Ranking limits.
	DefaultLimit int
	MaxLimit     int
	EnrichLimit  int

	// Optional Kafka ranking publisher.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeoutStr := sharedcfg.EnvOrDefault("WEATHER_TIMEOUT", "5s")
	weatherTimeout, err := time.ParseDuration(weatherTimeoutStr)
	if err != nil || weatherTimeout <= 0 {
		return nil, errors.New("invalid WEATHER_TIMEOUT")
	}

	maxRegions, err := parsePositiveInt("WEATHER_MAX_REGIONS", 8)
	if err != nil {
		return nil, err
	}
	maxConcurrent, err := parsePositiveInt("WEATHER_MAX_CONCURRENT", 8)
	if err != nil {
		return nil, err
	}
	rateLimit, err := parsePositiveFloat("WEATHER_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	defaultLimit, err := parsePositiveInt("RANK_DEFAULT_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	maxLimit, err := parsePositiveInt("RANK_MAX_LIMIT", 50)
	if err != nil {
		return nil, err
	}
	enrichLimit, err := parsePositiveInt("RANK_ENRICH_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SpotsPath: sharedcfg.EnvOrDefault("SPOTS_PATH", "data/fish_hab_type_wgs84_scored.geojson"),
		Timezone:  sharedcfg.EnvOrDefault("TIMEZONE", "America/Toronto"),

		WeatherBaseURL:       sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		WeatherTimeout:       weatherTimeout,
		WeatherMaxRegions:    maxRegions,
		WeatherMaxConcurrent: maxConcurrent,
		WeatherRateLimit:     rateLimit,

		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
		EnrichLimit:  enrichLimit,

		KafkaBrokers:   brokers,
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "spot-rankings"),
		KafkaEnabled:   kafkaEnabled,
	}

	if cfg.SpotsPath == "" {
		return nil, errors.New("SPOTS_PATH is required")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		return nil, errors.New("RANK_MAX_LIMIT must be >= RANK_DEFAULT_LIMIT")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// Location resolves the configured IANA timezone. Call after Load has
// validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parsePositiveFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
