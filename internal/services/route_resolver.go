package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
	"unicode/utf8"

	"github.com/twpayne/go-polyline"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MetersToMiles  = 0.000621371
	SecondsPerHour = 3600

	DefaultMapViewerURL = "https://www.openstreetmap.org/directions"
)

// RouteResolver resolves the current -> pickup -> dropoff route of a trip.
type RouteResolver struct {
	geocoder     *Geocoder
	provider     ports.RoutingProvider
	mapViewerURL string
}

func NewRouteResolver(geocoder *Geocoder, provider ports.RoutingProvider, mapViewerURL string) *RouteResolver {
	if strings.TrimSpace(mapViewerURL) == "" {
		mapViewerURL = DefaultMapViewerURL
	}
	return &RouteResolver{
		geocoder:     geocoder,
		provider:     provider,
		mapViewerURL: mapViewerURL,
	}
}

// Route geocodes the three locations, asks the routing provider for one route
// through them and formats its steps. Any failure aborts the whole call.
func (r *RouteResolver) Route(
	ctx context.Context,
	current string,
	pickup string,
	dropoff string,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "route.Resolve")(&err)

	points, err := r.geocoder.ResolveAll(ctx, current, pickup, dropoff)
	if err != nil {
		return nil, fmt.Errorf("resolve route: %w", err)
	}

	routes, err := r.provider.Route(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("resolve route: %w", &domain.RoutingError{Err: err})
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("resolve route: %w", &domain.RoutingError{Err: domain.ErrNoRoutes})
	}
	best := routes[0]

	return &domain.RouteResult{
		DistanceMiles: best.DistanceMeters * MetersToMiles,
		DurationHours: best.DurationSeconds / SecondsPerHour,
		Instructions:  FormatInstructions(best.Legs, current, pickup, dropoff),
		MapURL:        r.mapURL(points),
		Geometry:      best.Geometry,
		Polyline:      encodePolyline(best.Geometry),
	}, nil
}

// FormatInstructions renders every step of every leg. Leg 0 runs current -> pickup;
// every later leg is labelled pickup -> dropoff.
func FormatInstructions(legs []ports.RouteLeg, current, pickup, dropoff string) []string {
	out := make([]string, 0)
	for i, leg := range legs {
		start, end := pickup, dropoff
		if i == 0 {
			start, end = current, pickup
		}

		for _, step := range leg.Steps {
			out = append(out, FormatInstruction(step, start, end))
		}
	}
	return out
}

// FormatInstruction renders a single maneuver as a sentence.
func FormatInstruction(step ports.RouteStep, start, end string) string {
	miles := domain.FormatFloat(round2(step.DistanceMeters * MetersToMiles))

	switch step.ManeuverType {
	case "depart":
		return fmt.Sprintf("Depart from %s onto %s and continue for %s miles.", start, step.Name, miles)
	case "arrive":
		return fmt.Sprintf("Arrive at %s.", end)
	}

	verb := capitalize(step.ManeuverType)
	if step.ManeuverModifier != "" {
		verb += " " + step.ManeuverModifier
	}
	return fmt.Sprintf("%s onto %s and continue for %s miles.", verb, step.Name, miles)
}

func (r *RouteResolver) mapURL(points []domain.GeoPoint) string {
	waypoints := make([]string, 0, len(points))
	for _, p := range points {
		waypoints = append(waypoints, p.LonLat())
	}
	return fmt.Sprintf("%s?engine=osrm_car&route=%s", r.mapViewerURL, strings.Join(waypoints, ";"))
}

// capitalize upper-cases the first letter and lower-cases the rest ("new name" -> "New name").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// encodePolyline re-encodes a GeoJSON LineString ([lon, lat] pairs) as a Google polyline.
func encodePolyline(geometry json.RawMessage) string {
	if len(geometry) == 0 {
		return ""
	}

	var line struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(geometry, &line); err != nil || line.Type != "LineString" {
		return ""
	}

	coords := make([][]float64, 0, len(line.Coordinates))
	for _, c := range line.Coordinates {
		if len(c) < 2 {
			return ""
		}
		coords = append(coords, []float64{c[1], c[0]})
	}
	return string(polyline.EncodeCoords(coords))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
