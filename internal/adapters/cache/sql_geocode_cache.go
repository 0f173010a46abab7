package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/platform/obs"
)

// SQLGeocodeCache is a SQL-backed cache mapping place names to coordinates.
// Keys are trimmed; everything else about normalization is left to the caller.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect string
}

func NewSQLGeocodeCache(conn *sql.DB, dialect string) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Fetch the cached coordinates for one place name.
func (s *SQLGeocodeCache) Get(ctx context.Context, query string) (_ domain.GeoPoint, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.GeoPoint{}, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.GeoPoint{}, false, nil
	}

	q := db.Rebind(s.Dialect, `
	SELECT lat, lon
    FROM geocode_cache
    WHERE address = ?;
	`)

	var p domain.GeoPoint
	err = s.DB.QueryRowContext(ctx, q, query).Scan(&p.Lat, &p.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeoPoint{}, false, nil
	}
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return p, true, nil
}

// Store a place name -> coordinate mapping, replacing any previous entry.
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, p domain.GeoPoint) (err error) {
	defer obs.Time(ctx, "geocode.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	q := db.Rebind(s.Dialect, `
	INSERT INTO geocode_cache (address, lat, lon)
    VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`)

	if _, err := s.DB.ExecContext(ctx, q, query, p.Lat, p.Lon); err != nil {
		return fmt.Errorf("insert geocode cache address=%q: %w", query, err)
	}

	return nil
}
