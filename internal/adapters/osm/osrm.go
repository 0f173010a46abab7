package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64         `json:"distance"`
		Duration float64         `json:"duration"`
		Geometry json.RawMessage `json:"geometry"`
		Legs     []struct {
			Steps []struct {
				Name     string  `json:"name"`
				Distance float64 `json:"distance"`
				Maneuver struct {
					Type     string `json:"type"`
					Modifier string `json:"modifier"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// OSRMRouter implements ports.RoutingProvider using the OSRM route service.
type OSRMRouter struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMRouter(client *http.Client, baseURL string) (*OSRMRouter, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("osrm base url is empty")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &OSRMRouter{
		session: client,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}, nil
}

// Route requests one driving route through waypoints, in order, with the full
// overview geometry as GeoJSON and step-level maneuvers.
func (o *OSRMRouter) Route(
	ctx context.Context,
	waypoints []domain.GeoPoint,
) (_ []ports.RouteCandidate, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("osrm route: need at least 2 waypoints, got %d", len(waypoints))
	}

	coords := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, w.LonLat())
	}
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, strings.Join(coords, ";"))

	req, err := newRequest(ctx, http.MethodGet, endpoint, "")
	if err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}

	q := req.URL.Query()
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	q.Set("steps", "true")
	req.URL.RawQuery = q.Encode()

	resp, err := do(o.session, req)
	if err != nil {
		return nil, fmt.Errorf("osrm route: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm route: unexpected status: %d", resp.StatusCode)
	}

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("osrm route: decode response: %w", err)
	}

	if decoded.Code != "" && decoded.Code != "Ok" {
		return nil, fmt.Errorf("osrm route: %s: %s", decoded.Code, decoded.Message)
	}

	out := make([]ports.RouteCandidate, 0, len(decoded.Routes))
	for _, r := range decoded.Routes {
		legs := make([]ports.RouteLeg, 0, len(r.Legs))
		for _, l := range r.Legs {
			steps := make([]ports.RouteStep, 0, len(l.Steps))
			for _, s := range l.Steps {
				steps = append(steps, ports.RouteStep{
					ManeuverType:     s.Maneuver.Type,
					ManeuverModifier: s.Maneuver.Modifier,
					Name:             s.Name,
					DistanceMeters:   s.Distance,
				})
			}
			legs = append(legs, ports.RouteLeg{Steps: steps})
		}

		out = append(out, ports.RouteCandidate{
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
			Legs:            legs,
			Geometry:        r.Geometry,
		})
	}

	return out, nil
}
