package cache

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"trip-log-service/internal/adapters/osm"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *SQLGeocodeCache {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn, db.DriverSQLite))

	return NewSQLGeocodeCache(conn, db.DriverSQLite)
}

func TestSQLGeocodeCacheGetPut(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, ok, err := c.Get(ctx, "Boston, MA")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "Boston, MA", domain.GeoPoint{Lat: 42.36, Lon: -71.06}))
	require.NoError(t, c.Put(ctx, " Boston, MA ", domain.GeoPoint{Lat: 42.3601, Lon: -71.0589}))

	p, ok, err := c.Get(ctx, "Boston, MA")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.GeoPoint{Lat: 42.3601, Lon: -71.0589}, p)

	assert.Error(t, c.Put(ctx, "  ", domain.GeoPoint{}))
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	c := NewSQLGeocodeCache((*sql.DB)(nil), db.DriverSQLite)
	_, _, err := c.Get(context.Background(), "x")
	assert.Error(t, err)
}

func TestCachingGeocoderHitsProviderOnce(t *testing.T) {
	ctx := context.Background()
	provider := osm.NewMockGeocodingProvider(map[string]domain.GeoPoint{
		"Boston, MA": {Lat: 42.36, Lon: -71.06},
	})
	g := NewCachingGeocoder(provider, newTestCache(t))

	for i := 0; i < 3; i++ {
		got, err := g.Search(ctx, "Boston, MA", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.GeoPoint{Lat: 42.36, Lon: -71.06}, got[0])
	}
	assert.Equal(t, []string{"Boston, MA"}, provider.Calls())
}

func TestCachingGeocoderDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	provider := osm.NewMockGeocodingProvider(nil).FailOn("Broken", boom)
	g := NewCachingGeocoder(provider, newTestCache(t))

	got, err := g.Search(ctx, "Nowhere", 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = g.Search(ctx, "Broken", 1)
	assert.ErrorIs(t, err, boom)

	_, err = g.Search(ctx, "Nowhere", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nowhere", "Broken", "Nowhere"}, provider.Calls())
}
