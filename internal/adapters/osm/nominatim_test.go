package osm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"trip-log-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimSearch(t *testing.T) {
	var gotUA, gotPath string
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"40.7127281","lon":"-74.0060152","display_name":"New York"}]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.Client(), srv.URL+"/", "trip-log-test/1.0", 100)
	require.NoError(t, err)

	got, err := g.Search(context.Background(), "New York, NY", 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.GeoPoint{{Lat: 40.7127281, Lon: -74.0060152}}, got)

	assert.Equal(t, "trip-log-test/1.0", gotUA)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "New York, NY", gotQuery["q"][0])
	assert.Equal(t, "json", gotQuery["format"][0])
	assert.Equal(t, "1", gotQuery["limit"][0])
}

func TestNominatimSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.Client(), srv.URL, "ua", 100)
	require.NoError(t, err)

	got, err := g.Search(context.Background(), "Atlantis", 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNominatimSearchSingleAttemptOnFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.Client(), srv.URL, "ua", 100)
	require.NoError(t, err)

	_, err = g.Search(context.Background(), "Boston, MA", 1)
	require.Error(t, err)

	var statusErr *httpStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Equal(t, "slow down", statusErr.Body)
	assert.Equal(t, 1, calls)
}

func TestNominatimSearchBadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"north","lon":"-74.0"}]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.Client(), srv.URL, "ua", 100)
	require.NoError(t, err)

	_, err = g.Search(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "invalid lat")
}

func TestNewNominatimGeocoderValidates(t *testing.T) {
	_, err := NewNominatimGeocoder(nil, "", "ua", 1)
	assert.Error(t, err)
	_, err = NewNominatimGeocoder(nil, "http://x", "", 1)
	assert.Error(t, err)
	_, err = NewNominatimGeocoder(nil, "http://x", "ua", 0)
	assert.Error(t, err)
}

func TestNominatimSearchHonoursCancellation(t *testing.T) {
	g, err := NewNominatimGeocoder(nil, "http://127.0.0.1:1", "ua", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Search(ctx, "Boston, MA", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
