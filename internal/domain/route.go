package domain

import "encoding/json"

// Represents a resolved driving route across current -> pickup -> dropoff.
// A RouteResult is produced once per route request and is read-only downstream.
type RouteResult struct {
	DistanceMiles float64
	DurationHours float64
	Instructions  []string
	MapURL        string
	// Geometry is the provider's route shape, passed through untouched.
	Geometry json.RawMessage
	// Polyline is Geometry re-encoded as a Google encoded polyline when it is a
	// GeoJSON LineString; empty otherwise.
	Polyline string
}
