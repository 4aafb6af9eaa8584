package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// bite-score ranking engine.
type Metrics struct {
	RankRequests       *prometheus.CounterVec // labels: species, outcome={ok,partial,no_data,timeout}
	RankDuration       prometheus.Histogram
	CandidatesReturned prometheus.Histogram

	// Dataset metrics.
	SpotsLoaded    prometheus.Gauge
	DatasetReloads prometheus.Counter

	// Weather enrichment metrics.
	WeatherFetches      *prometheus.CounterVec // labels: outcome={ok,error}
	WeatherDuration     prometheus.Histogram
	RegionsPerRequest   prometheus.Histogram
	WeatherBreakerState prometheus.Gauge // 0 closed, 1 half-open, 2 open

	// Kafka publishing metrics.
	RankingsPublished prometheus.Counter
	PublishErrors     prometheus.Counter
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RankRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bite_score",
			Name:      "rank_requests_total",
			Help:      "Ranking requests by species and outcome.",
		}, []string{"species", "outcome"}),
		RankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bite_score",
			Name:      "rank_duration_seconds",
			Help:      "Duration of a complete ranking request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CandidatesReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bite_score",
			Name:      "candidates_returned",
			Help:      "Number of ranked spots returned per request.",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 50},
		}),
		SpotsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bite_score",
			Name:      "spots_loaded",
			Help:      "Number of candidate spots in the current dataset snapshot.",
		}),
		DatasetReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bite_score",
			Name:      "dataset_reloads_total",
			Help:      "Successful dataset load/reload operations.",
		}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bite_score",
			Name:      "weather_fetches_total",
			Help:      "Region weather fetches by outcome.",
		}, []string{"outcome"}),
		WeatherDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bite_score",
			Name:      "weather_fetch_duration_seconds",
			Help:      "Open-Meteo request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RegionsPerRequest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bite_score",
			Name:      "weather_regions_per_request",
			Help:      "Distinct weather regions resolved per ranking request.",
			Buckets:   []float64{0, 1, 2, 4, 6, 8},
		}),
		WeatherBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bite_score",
			Name:      "weather_breaker_state",
			Help:      "Open-Meteo circuit breaker state (0 closed, 1 half-open, 2 open).",
		}),
		RankingsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bite_score",
			Name:      "rankings_published_total",
			Help:      "Ranking responses published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bite_score",
			Name:      "publish_errors_total",
			Help:      "Failed publishes to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.RankRequests,
		m.RankDuration,
		m.CandidatesReturned,
		m.SpotsLoaded,
		m.DatasetReloads,
		m.WeatherFetches,
		m.WeatherDuration,
		m.RegionsPerRequest,
		m.WeatherBreakerState,
		m.RankingsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RankRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bite_score", Name: "rank_requests_total"}, []string{"species", "outcome"}),
		RankDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bite_score", Name: "rank_duration_seconds"}),
		CandidatesReturned:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bite_score", Name: "candidates_returned"}),
		SpotsLoaded:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bite_score", Name: "spots_loaded"}),
		DatasetReloads:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bite_score", Name: "dataset_reloads_total"}),
		WeatherFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bite_score", Name: "weather_fetches_total"}, []string{"outcome"}),
		WeatherDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bite_score", Name: "weather_fetch_duration_seconds"}),
		RegionsPerRequest:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bite_score", Name: "weather_regions_per_request"}),
		WeatherBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bite_score", Name: "weather_breaker_state"}),
		RankingsPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bite_score", Name: "rankings_published_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bite_score", Name: "publish_errors_total"}),
	}
}
