package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"

	"golang.org/x/time/rate"
)

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder implements ports.GeocodingProvider against the OpenStreetMap
// Nominatim search API.
//
// Nominatim's usage policy allows about one request per second, so calls share a
// process-wide limiter. The provider is safe for concurrent use.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

func NewNominatimGeocoder(
	client *http.Client,
	baseURL string,
	userAgent string,
	ratePerSecond float64,
) (*NominatimGeocoder, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("nominatim base url is empty")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim requires a User-Agent")
	}
	if ratePerSecond <= 0 {
		return nil, errors.New("nominatim rate must be positive")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &NominatimGeocoder{
		session:   client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSecond), 1),
	}, nil
}

// Search issues a single /search request and returns up to limit places.
func (n *NominatimGeocoder) Search(
	ctx context.Context,
	query string,
	limit int,
) (_ []domain.GeoPoint, err error) {
	defer obs.Time(ctx, "nominatim.Search")(&err)

	if strings.TrimSpace(query) == "" {
		return nil, errors.New("nominatim search: query must be non-empty")
	}
	if limit < 1 {
		limit = 1
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim search: wait for rate limiter: %w", err)
	}

	req, err := newRequest(ctx, http.MethodGet, n.baseURL+"/search", n.userAgent)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}

	q := req.URL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	resp, err := do(n.session, req)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim search: unexpected status: %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("nominatim search: decode response: %w", err)
	}

	out := make([]domain.GeoPoint, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("nominatim search: invalid lat %q for %q: %w", p.Lat, query, err)
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("nominatim search: invalid lon %q for %q: %w", p.Lon, query, err)
		}
		out = append(out, domain.GeoPoint{Lat: lat, Lon: lon})
	}

	return out, nil
}
