package ports

import (
	"context"
	"trip-log-service/internal/domain"
)

// Contract for free-text place search.
type GeocodingProvider interface {
	// Return up to limit candidates for query, best-ranked first.
	Search(ctx context.Context, query string, limit int) ([]domain.GeoPoint, error)
}

// Persistent place -> coordinate store used by the opt-in caching decorator.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (domain.GeoPoint, bool, error)
	Put(ctx context.Context, query string, p domain.GeoPoint) error
}
