package ports

import (
	"context"
	"encoding/json"
	"trip-log-service/internal/domain"
)

// One driving action as described by the routing engine.
type RouteStep struct {
	ManeuverType     string
	ManeuverModifier string
	Name             string
	DistanceMeters   float64
}

// One segment between consecutive waypoints.
type RouteLeg struct {
	Steps []RouteStep
}

// A single route candidate.
type RouteCandidate struct {
	DistanceMeters  float64
	DurationSeconds float64
	Legs            []RouteLeg
	Geometry        json.RawMessage
}

// Contract for driving directions through ordered waypoints.
type RoutingProvider interface {
	// Return route candidates, best first, with full overview, geometry and steps.
	Route(ctx context.Context, waypoints []domain.GeoPoint) ([]RouteCandidate, error)
}
