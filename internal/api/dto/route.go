package dto

import (
	"encoding/json"
	"trip-log-service/internal/domain"
)

type RouteResponse struct {
	Distance     float64         `json:"distance"`
	Duration     float64         `json:"duration"`
	Instructions []string        `json:"instructions"`
	MapURL       string          `json:"map_url"`
	Geometry     json.RawMessage `json:"geometry"`
	Polyline     string          `json:"polyline"`
}

func NewRouteResponse(r *domain.RouteResult) RouteResponse {
	geometry := r.Geometry
	if len(geometry) == 0 {
		geometry = json.RawMessage("null")
	}

	return RouteResponse{
		Distance:     r.DistanceMiles,
		Duration:     r.DurationHours,
		Instructions: r.Instructions,
		MapURL:       r.MapURL,
		Geometry:     geometry,
		Polyline:     r.Polyline,
	}
}
