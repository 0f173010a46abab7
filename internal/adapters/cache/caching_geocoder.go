package cache

import (
	"context"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

// CachingGeocoder decorates a GeocodingProvider with a GeocodeCache.
//
// Only the first result of a successful, non-empty search is stored, and a cache
// hit answers with that single point. Cache failures are logged and fall through
// to the provider.
type CachingGeocoder struct {
	provider ports.GeocodingProvider
	cache    ports.GeocodeCache
}

func NewCachingGeocoder(provider ports.GeocodingProvider, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{provider: provider, cache: cache}
}

func (c *CachingGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.GeoPoint, error) {
	log := obs.FromContext(ctx)

	p, ok, err := c.cache.Get(ctx, query)
	if err != nil {
		log.Warn("geocode cache lookup failed", "query", query, "error", err)
	}
	if ok {
		return []domain.GeoPoint{p}, nil
	}

	results, err := c.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if err := c.cache.Put(ctx, query, results[0]); err != nil {
			log.Warn("geocode cache store failed", "query", query, "error", err)
		}
	}

	return results, nil
}
