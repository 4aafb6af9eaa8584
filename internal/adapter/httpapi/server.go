// Package httpapi exposes the ranking engine over HTTP alongside health,
// readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/ranking"
)

// Ranker produces spot rankings.
type Ranker interface {
	Rank(ctx context.Context, req ranking.Request) (*ranking.Response, error)
	CheckReadiness(ctx context.Context) error
}

// RankingPublisher forwards successful rankings to a downstream sink.
type RankingPublisher interface {
	PublishRanking(ctx context.Context, resp *ranking.Response) error
}

// Server exposes the ranking API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	ranker     Ranker
	publisher  RankingPublisher
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes. publisher may
// be nil when the Kafka sink is disabled.
func NewServer(addr string, ranker Ranker, publisher RankingPublisher, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ranker:    ranker,
		publisher: publisher,
		logger:    logger,
	}

	mux.HandleFunc("GET /api/fishing-spots", s.handleFishingSpots)
	mux.HandleFunc("GET /api/best-spot", s.handleBestSpot)
	mux.HandleFunc("GET /api/species", s.handleSpecies)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ranker))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleFishingSpots(w http.ResponseWriter, r *http.Request) {
	req, err := parseRankRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := s.ranker.Rank(r.Context(), req)
	if err != nil {
		s.writeRankError(w, err)
		return
	}
	s.publishAsync(resp)
	writeJSON(w, http.StatusOK, resp)
}

// publishAsync ships a ranking to the sink without holding up the response.
func (s *Server) publishAsync(resp *ranking.Response) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.publisher.PublishRanking(ctx, resp); err != nil {
			s.logger.Warn("ranking publish failed", "species", resp.Species, "error", err)
		}
	}()
}

func (s *Server) handleBestSpot(w http.ResponseWriter, r *http.Request) {
	req, err := parseRankRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Limit = 1

	resp, err := s.ranker.Rank(r.Context(), req)
	if err != nil {
		s.writeRankError(w, err)
		return
	}
	if len(resp.Spots) == 0 {
		writeError(w, http.StatusNotFound, errors.New("no rankable spots for request"))
		return
	}

	writeJSON(w, http.StatusOK, bestSpotResponse{
		Timestamp: resp.Timestamp,
		Species:   resp.Species,
		Spot:      resp.Spots[0],
	})
}

func (s *Server) handleSpecies(w http.ResponseWriter, _ *http.Request) {
	descriptions := domain.SpeciesDescriptions()
	species := make([]speciesEntry, 0, len(descriptions))
	for _, name := range domain.SupportedSpecies() {
		species = append(species, speciesEntry{Name: name, Description: descriptions[name]})
	}
	writeJSON(w, http.StatusOK, speciesResponse{Species: species})
}

type bestSpotResponse struct {
	Timestamp time.Time          `json:"timestamp"`
	Species   string             `json:"species"`
	Spot      ranking.SpotResult `json:"spot"`
}

type speciesEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type speciesResponse struct {
	Species []speciesEntry `json:"species"`
}

func parseRankRequest(r *http.Request) (ranking.Request, error) {
	q := r.URL.Query()
	req := ranking.Request{Species: q.Get("species")}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return ranking.Request{}, fmt.Errorf("invalid limit %q", raw)
		}
		req.Limit = limit
	}

	var bbox ranking.BoundingBox
	haveBBox := false
	for _, edge := range []struct {
		name   string
		target *float64
	}{
		{"min_lat", &bbox.MinLat},
		{"max_lat", &bbox.MaxLat},
		{"min_lon", &bbox.MinLon},
		{"max_lon", &bbox.MaxLon},
	} {
		raw := q.Get(edge.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ranking.Request{}, fmt.Errorf("invalid %s %q", edge.name, raw)
		}
		*edge.target = v
		haveBBox = true
	}
	if haveBBox {
		req.BBox = &bbox
	}

	return req, nil
}

func (s *Server) writeRankError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(err, domain.ErrRequestTimeout):
		writeError(w, http.StatusGatewayTimeout, err)
	default:
		s.logger.Error("ranking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
