package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
	"github.com/ttpr0/go-tour/graphcache"
	"github.com/ttpr0/go-tour/matrix"
	"github.com/ttpr0/go-tour/resultcache"
	"github.com/ttpr0/go-tour/routing/routingtest"
	"github.com/ttpr0/go-tour/tour"
)

var (
	S  = geo.NewCoord(28.79, 40.98)
	P1 = geo.NewCoord(28.90, 41.00)
	P2 = geo.NewCoord(28.97, 41.01)
	E  = geo.NewCoord(29.02, 41.04)
)

func scenarioProvider() *routingtest.Provider {
	p := routingtest.NewProvider(S, P1, P2, E)
	p.SetDistance(0, 1, 10)
	p.SetDistance(0, 2, 3)
	p.SetDistance(0, 3, 15)
	p.SetDistance(1, 2, 4)
	p.SetDistance(1, 3, 6)
	p.SetDistance(2, 3, 8)
	return p
}

func loadTestGraph(ctx context.Context, r io.ReadSeeker) (*graph.Graph, error) {
	builder := graph.NewBuilder(2, 1)
	a := builder.AddNode(S)
	b := builder.AddNode(E)
	if err := builder.AddEdge(a, b, 100, 10); err != nil {
		return nil, err
	}
	return builder.Build(), nil
}

func testSource(t *testing.T) graphcache.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.pbf")
	require.NoError(t, os.WriteFile(path, []byte("network"), 0o644))
	return graphcache.FileSource{Path: path}
}

func newTestRouter(t *testing.T, provider *routingtest.Provider, source graphcache.Source) (*gin.Engine, *graphcache.Cache) {
	t.Helper()
	config := DefaultConfig()
	metrics := NewMetrics()
	graphs := graphcache.New(source, loadTestGraph, 0, graphcache.WithLoadObserver(metrics.ObserveGraphLoad))
	t.Cleanup(graphs.Close)
	cache, err := resultcache.New[*tour.Result](time.Minute, 16, resultcache.WithObserver(metrics.ObserveCache))
	require.NoError(t, err)
	builder := matrix.NewBuilder(provider, 2, time.Second)
	service := tour.NewService(graphs, builder, cache, config.Matrix.SearchRadius)
	return NewRouter(config, NewTourHandlers(service, graphs), metrics), graphs
}

func doRequest(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const tourBody = `{"waypoints": [
	{"lat": 40.98, "lon": 28.79, "role": "start"},
	{"lat": 41.00, "lon": 28.90},
	{"lat": 41.01, "lon": 28.97},
	{"lat": 41.04, "lon": 29.02, "role": "end"}
]}`

func TestTourEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	rec := doRequest(router, http.MethodPost, "/v1/tour", tourBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(REQUEST_ID_HEADER))

	var resp TourResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{0, 2, 1, 3}, resp.OrderIDs)
	assert.Equal(t, []geo.Coord{S, P2, P1, E}, resp.Order)
	assert.Empty(t, resp.Unreachable)
	assert.InDelta(t, 13.0, resp.TotalCost, 1e-9)
}

func TestTourEndpointErrors(t *testing.T) {
	provider := scenarioProvider()
	router, _ := newTestRouter(t, provider, testSource(t))

	rec := doRequest(router, http.MethodPost, "/v1/tour", `{"waypoints": [{"lat": 40.98, "lon": 28.79}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/v1/tour", resp.Request)
	assert.Contains(t, resp.Error, "at least 2 waypoints")

	rec = doRequest(router, http.MethodPost, "/v1/tour", `{"waypoints": [{"lat": 40.98, "lon": 28.79, "role": "depot"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPost, "/v1/tour", `{"waypoints": [{"lat": 40.98, "lon": 28.79}, {"lat": 41.00}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "waypoint 1: lat and lon are required")

	rec = doRequest(router, http.MethodPost, "/v1/tour", `{"waypoints": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	provider.FailResolve(0)
	rec = doRequest(router, http.MethodPost, "/v1/tour", tourBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTourEndpointGraphUnavailable(t *testing.T) {
	missing := graphcache.FileSource{Path: filepath.Join(t.TempDir(), "missing.pbf")}
	router, _ := newTestRouter(t, scenarioProvider(), missing)

	rec := doRequest(router, http.MethodPost, "/v1/tour", tourBody)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "unavailable", health.Status)
	assert.NotEmpty(t, health.Graph.Error)
}

func TestHealthEndpoint(t *testing.T) {
	router, graphs := newTestRouter(t, scenarioProvider(), testSource(t))

	rec := doRequest(router, http.MethodGet, "/health", "")
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "loading", health.Status)

	_, err := graphs.Acquire(context.Background())
	require.NoError(t, err)

	rec = doRequest(router, http.MethodGet, "/health", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Graph.Generation)
	assert.Equal(t, 2, health.Graph.Nodes)
}

func TestRequestIDIsKept(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(REQUEST_ID_HEADER, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(REQUEST_ID_HEADER))
}

func TestRouteEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	rec := doRequest(router, http.MethodGet, "/api/route?startLat=40.98&startLng=28.79&endLat=41.04&endLng=29.02", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, 15.0, fc.Features[0].Properties["total_cost"])
	assert.Equal(t, "Point", fc.Features[1].Geometry.Type)
}

func TestRotaEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	rec := doRequest(router, http.MethodGet, "/api/rota?startLat=40.98&startLng=28.79&endLat=41.04&endLng=29.02", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"type":"FeatureCollection"`)
}

func TestGeoJSONTourEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	body := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [28.79, 40.98]}, "properties": {"role": "start"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [28.90, 41.00]}, "properties": {"name": "Eczane"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [28.97, 41.01]}, "properties": {}}
	]}`
	rec := doRequest(router, http.MethodPost, "/v1/tour/geojson", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"total_cost":7`)

	rec = doRequest(router, http.MethodPost, "/v1/tour/geojson", `{"type": "FeatureCollection", "features": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCSVTourEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	body := "lat;lon;role\n40.98;28.79;start\n41.00;28.90;\n41.01;28.97;\n41.04;29.02;end\n"
	rec := doRequest(router, http.MethodPost, "/v1/tour/csv", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TourResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{0, 2, 1, 3}, resp.OrderIDs)

	rec = doRequest(router, http.MethodPost, "/v1/tour/csv", "lat;lon;role\nabc;28.79;start\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, scenarioProvider(), testSource(t))

	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/v1/tour", tourBody).Code)
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/v1/tour", tourBody).Code)

	rec := doRequest(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	text := rec.Body.String()
	assert.Contains(t, text, `tour_result_cache_events_total{event="miss"} 1`)
	assert.Contains(t, text, `tour_result_cache_events_total{event="hit"} 1`)
	assert.Contains(t, text, `tour_graph_loads_total{result="ok"} 1`)
	assert.Contains(t, text, `tour_http_request_duration_seconds_count{method="POST",path="/v1/tour",status="200"} 2`)
}
