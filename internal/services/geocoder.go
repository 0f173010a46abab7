package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

var coordinatePattern = regexp.MustCompile(`^\s*[-+]?\d+(\.\d+)?\s*,\s*[-+]?\d+(\.\d+)?\s*$`)

// IsCoordinate reports whether location is a literal "lat,lon" pair.
func IsCoordinate(location string) bool {
	return coordinatePattern.MatchString(location)
}

// Geocoder turns a location string into a GeoPoint.
//
// Coordinate pairs are parsed locally. Anything else costs exactly one provider
// lookup: there is no retry, and a failed or empty lookup aborts the request.
type Geocoder struct {
	provider ports.GeocodingProvider
}

func NewGeocoder(provider ports.GeocodingProvider) *Geocoder {
	return &Geocoder{provider: provider}
}

func (g *Geocoder) Resolve(ctx context.Context, location string) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocoder.Resolve")(&err)

	if IsCoordinate(location) {
		return parseCoordinate(location)
	}

	if g.provider == nil {
		return domain.GeoPoint{}, &domain.GeocodeError{Location: location, Err: errors.New("no geocoding provider configured")}
	}

	results, err := g.provider.Search(ctx, location, 1)
	if err != nil {
		return domain.GeoPoint{}, &domain.GeocodeError{Location: location, Err: err}
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, &domain.GeocodeError{Location: location, Err: domain.ErrNoResults}
	}

	return results[0], nil
}

// ResolveAll resolves independent locations concurrently. All must succeed;
// the first failure cancels the rest and is returned.
func (g *Geocoder) ResolveAll(ctx context.Context, locations ...string) ([]domain.GeoPoint, error) {
	points := make([]domain.GeoPoint, len(locations))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		i, loc := i, loc
		eg.Go(func() error {
			p, err := g.Resolve(egCtx, loc)
			if err != nil {
				return err
			}
			points[i] = p
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func parseCoordinate(location string) (domain.GeoPoint, error) {
	latStr, lonStr, _ := strings.Cut(location, ",")

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.GeoPoint{}, &domain.ParseError{Location: location, Err: fmt.Errorf("latitude: %w", err)}
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return domain.GeoPoint{}, &domain.ParseError{Location: location, Err: fmt.Errorf("longitude: %w", err)}
	}

	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
