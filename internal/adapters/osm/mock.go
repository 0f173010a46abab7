package osm

import (
	"context"
	"sync"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"
)

// MockGeocodingProvider answers place searches from a fixed table. Unknown
// places yield zero results; entries in Errs fail.
type MockGeocodingProvider struct {
	mu     sync.Mutex
	places map[string]domain.GeoPoint
	errs   map[string]error
	calls  []string
}

func NewMockGeocodingProvider(places map[string]domain.GeoPoint) *MockGeocodingProvider {
	return &MockGeocodingProvider{places: places, errs: map[string]error{}}
}

// FailOn makes every search for query return err.
func (m *MockGeocodingProvider) FailOn(query string, err error) *MockGeocodingProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[query] = err
	return m
}

func (m *MockGeocodingProvider) Search(ctx context.Context, query string, limit int) ([]domain.GeoPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, query)
	if err, ok := m.errs[query]; ok {
		return nil, err
	}

	p, ok := m.places[query]
	if !ok {
		return []domain.GeoPoint{}, nil
	}
	return []domain.GeoPoint{p}, nil
}

// Calls returns the queries searched so far.
func (m *MockGeocodingProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockRoutingProvider returns canned route candidates and records waypoints.
type MockRoutingProvider struct {
	mu       sync.Mutex
	routes   []ports.RouteCandidate
	err      error
	requests [][]domain.GeoPoint
}

func NewMockRoutingProvider(routes []ports.RouteCandidate, err error) *MockRoutingProvider {
	return &MockRoutingProvider{routes: routes, err: err}
}

func (m *MockRoutingProvider) Route(ctx context.Context, waypoints []domain.GeoPoint) ([]ports.RouteCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, append([]domain.GeoPoint(nil), waypoints...))
	if m.err != nil {
		return nil, m.err
	}
	return m.routes, nil
}

func (m *MockRoutingProvider) Requests() [][]domain.GeoPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.GeoPoint(nil), m.requests...)
}
