package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/bite-score-service/internal/domain"
	"github.com/couchcryptid/bite-score-service/internal/ranking"
)

type stubRanker struct {
	gotReq   ranking.Request
	resp     *ranking.Response
	rankErr  error
	readyErr error
}

func (s *stubRanker) Rank(_ context.Context, req ranking.Request) (*ranking.Response, error) {
	s.gotReq = req
	if s.rankErr != nil {
		return nil, s.rankErr
	}
	return s.resp, nil
}

func (s *stubRanker) CheckReadiness(_ context.Context) error { return s.readyErr }

func newTestServer(ranker Ranker) *Server {
	return NewServer(":0", ranker, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func rankedResponse() *ranking.Response {
	return &ranking.Response{
		Timestamp:  time.Date(2026, 3, 15, 6, 30, 0, 0, time.UTC),
		Species:    "walleye",
		TotalSpots: 2,
		Returned:   2,
		Spots: []ranking.SpotResult{
			{ID: "1", Name: "Rocky Shoal", BiteScore: 95, Status: domain.StatusGreat, Reasoning: "Prime walleye habitat; Prime feeding time"},
			{ID: "2", Name: "Weed Flat", BiteScore: 62, Status: domain.StatusGood, Reasoning: "Favorable habitat"},
		},
	}
}

func TestFishingSpots(t *testing.T) {
	ranker := &stubRanker{resp: rankedResponse()}
	srv := newTestServer(ranker)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fishing-spots?species=Walleye&limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Walleye", ranker.gotReq.Species)
	assert.Equal(t, 5, ranker.gotReq.Limit)
	assert.Nil(t, ranker.gotReq.BBox)

	var resp ranking.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Returned)
	assert.Equal(t, "Rocky Shoal", resp.Spots[0].Name)
}

func TestFishingSpots_BoundingBox(t *testing.T) {
	ranker := &stubRanker{resp: rankedResponse()}
	srv := newTestServer(ranker)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fishing-spots?min_lat=44.5&max_lon=-78.0", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ranker.gotReq.BBox)
	assert.Equal(t, 44.5, ranker.gotReq.BBox.MinLat)
	assert.Equal(t, -78.0, ranker.gotReq.BBox.MaxLon)
	assert.Zero(t, ranker.gotReq.BBox.MaxLat)
}

func TestFishingSpots_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad limit", "/api/fishing-spots?limit=abc"},
		{"zero limit", "/api/fishing-spots?limit=0"},
		{"bad min_lat", "/api/fishing-spots?min_lat=north"},
		{"bad max_lon", "/api/fishing-spots?max_lon="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubRanker{resp: rankedResponse()})
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if tt.name == "bad max_lon" {
				// Empty values are treated as unset, not invalid.
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFishingSpots_DataUnavailable(t *testing.T) {
	srv := newTestServer(&stubRanker{rankErr: domain.ErrDataUnavailable})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fishing-spots", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFishingSpots_Timeout(t *testing.T) {
	srv := newTestServer(&stubRanker{rankErr: domain.ErrRequestTimeout})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fishing-spots", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestBestSpot(t *testing.T) {
	ranker := &stubRanker{resp: rankedResponse()}
	srv := newTestServer(ranker)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/best-spot?species=walleye&limit=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ranker.gotReq.Limit, "best-spot forces limit 1")

	var resp bestSpotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "walleye", resp.Species)
	assert.Equal(t, "Rocky Shoal", resp.Spot.Name)
	assert.Equal(t, 95, resp.Spot.BiteScore)
}

func TestBestSpot_NoResults(t *testing.T) {
	srv := newTestServer(&stubRanker{resp: &ranking.Response{Species: "walleye"}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/best-spot", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSpecies(t *testing.T) {
	srv := newTestServer(&stubRanker{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/species", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp speciesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Species, 5)
	assert.Equal(t, "walleye", resp.Species[0].Name)
	assert.NotEmpty(t, resp.Species[0].Description)
}

type capturePublisher struct {
	published chan *ranking.Response
}

func (p *capturePublisher) PublishRanking(_ context.Context, resp *ranking.Response) error {
	p.published <- resp
	return nil
}

func TestFishingSpots_PublishesRanking(t *testing.T) {
	pub := &capturePublisher{published: make(chan *ranking.Response, 1)}
	srv := NewServer(":0", &stubRanker{resp: rankedResponse()}, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fishing-spots", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case resp := <-pub.published:
		assert.Equal(t, "walleye", resp.Species)
	case <-time.After(time.Second):
		t.Fatal("ranking was not published")
	}
}

func TestHealthAndReadiness(t *testing.T) {
	ranker := &stubRanker{}
	srv := newTestServer(ranker)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	ranker.readyErr = domain.ErrDataUnavailable
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
