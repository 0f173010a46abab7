package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"trip-log-service/internal/adapters/logsheet"
	"trip-log-service/internal/adapters/osm"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/adapters/session"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/ports"
	"trip-log-service/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	handler  http.Handler
	accounts *services.Accounts
	trips    ports.TripRepository
}

func newTestEnv(t *testing.T, rateLimit float64) *testEnv {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn, db.DriverSQLite))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	tokens, err := session.NewRedisTokenStore(rdb, 5*time.Minute, time.Hour)
	require.NoError(t, err)

	accounts := services.NewAccounts(repositories.NewSQLDriverRepository(conn, db.DriverSQLite), tokens).
		WithHashCost(bcrypt.MinCost)

	geo := osm.NewMockGeocodingProvider(map[string]domain.GeoPoint{
		"New York, NY": {Lat: 40.7128, Lon: -74.006},
		"Boston, MA":   {Lat: 42.3601, Lon: -71.0589},
	})
	router := osm.NewMockRoutingProvider([]ports.RouteCandidate{{
		DistanceMeters:  306000,
		DurationSeconds: 18000,
		Geometry:        json.RawMessage(`{"type":"LineString","coordinates":[[-75.0,40.0],[-71.0589,42.3601]]}`),
		Legs: []ports.RouteLeg{{Steps: []ports.RouteStep{
			{ManeuverType: "turn", ManeuverModifier: "left", Name: "Main St", DistanceMeters: 1609.34},
		}}},
	}}, nil)
	planner := services.NewTripPlanner(services.NewRouteResolver(services.NewGeocoder(geo), router, ""))

	trips := repositories.NewSQLTripRepository(conn, db.DriverSQLite)

	return &testEnv{
		handler: NewRouter(Deps{
			Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
			Accounts:           accounts,
			Trips:              trips,
			Planner:            planner,
			RenderSheet:        logsheet.Render,
			RateLimitPerSecond: rateLimit,
		}),
		accounts: accounts,
		trips:    trips,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// login registers username (unless it exists) and returns its tokens.
func (e *testEnv) login(t *testing.T, username string, staff bool) map[string]string {
	t.Helper()

	if staff {
		_, err := e.accounts.Register(context.Background(), services.RegisterInput{Username: username, Password: "pw", IsStaff: true})
		require.NoError(t, err)
	} else {
		rec := e.do(t, http.MethodPost, "/api/accounts/register", "", map[string]string{
			"username": username, "password": "pw", "carrier": "Acme Freight", "truck_number": "T-42",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := e.do(t, http.MethodPost, "/api/accounts/login", "", map[string]string{"username": username, "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	return tokens
}

func (e *testEnv) createTrip(t *testing.T, token, current string) map[string]any {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/trips", token, map[string]any{
		"current_location":    current,
		"pickup_location":     "New York, NY",
		"dropoff_location":    "Boston, MA",
		"current_cycle_hours": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var trip map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trip))
	return trip
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestAccountsFlow(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.do(t, http.MethodPost, "/api/accounts/register", "", map[string]string{"username": "jdoe", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"msg":"User registered successfully"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/accounts/register", "", map[string]string{"username": "jdoe", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/accounts/login", "", map[string]string{"username": "jdoe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/accounts/login", "", map[string]string{"username": "jdoe", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/accounts/login", "", map[string]string{"username": "jdoe", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	rec = env.do(t, http.MethodGet, "/api/trips", tokens["access"], nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/accounts/logout", tokens["access"], map[string]string{"refresh": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/accounts/logout", tokens["access"], map[string]string{"refresh": tokens["refresh"]})
	assert.Equal(t, http.StatusResetContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/trips", tokens["access"], nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTripsRequireAuth(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.do(t, http.MethodGet, "/api/trips", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = env.do(t, http.MethodGet, "/api/trips", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTripCRUD(t *testing.T) {
	env := newTestEnv(t, 0)
	owner := env.login(t, "owner", false)["access"]
	other := env.login(t, "other", false)["access"]

	trip := env.createTrip(t, owner, "40.0,-75.0")
	path := fmt.Sprintf("/api/trips/%d", int64(trip["id"].(float64)))

	rec := env.do(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, path, owner, map[string]any{"dropoff_location": "Albany, NY"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"dropoff_location":"Albany, NY"`)
	assert.Contains(t, rec.Body.String(), `"pickup_location":"New York, NY"`)

	rec = env.do(t, http.MethodPut, path, owner, map[string]any{"dropoff_location": "Boston, MA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "current_location is required", decodeError(t, rec))

	rec = env.do(t, http.MethodPost, "/api/trips", owner, map[string]any{
		"current_location": " ", "pickup_location": "a", "dropoff_location": "b", "current_cycle_hours": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/trips/abc", owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTripsForOtherUser(t *testing.T) {
	env := newTestEnv(t, 0)
	driver := env.login(t, "driver", false)["access"]
	staff := env.login(t, "dispatcher", true)["access"]
	env.createTrip(t, driver, "40.0,-75.0")

	rec := env.do(t, http.MethodGet, "/api/trips", driver, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own struct {
		Trips []struct {
			ID     int64 `json:"id"`
			Driver int64 `json:"driver"`
		} `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &own))
	require.Len(t, own.Trips, 1)
	driverID := own.Trips[0].Driver

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/trips?user_id=%d", driverID), staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New York, NY")

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/trips?user_id=%d", driverID+1), driver, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/trips?user_id=abc", driver, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteMapAndLogs(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.login(t, "jdoe", false)["access"]
	id := int64(env.createTrip(t, token, "40.0,-75.0")["id"].(float64))

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/trips/%d/route_map", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var route struct {
		Distance     float64         `json:"distance"`
		Duration     float64         `json:"duration"`
		Instructions []string        `json:"instructions"`
		MapURL       string          `json:"map_url"`
		Geometry     json.RawMessage `json:"geometry"`
		Polyline     string          `json:"polyline"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &route))
	assert.Equal(t, 5.0, route.Duration)
	assert.Equal(t, []string{"Turn left onto Main St and continue for 1.0 miles."}, route.Instructions)
	assert.True(t, strings.HasSuffix(route.MapURL, "?engine=osrm_car&route=-75.0,40.0;-74.006,40.7128;-71.0589,42.3601"))
	assert.NotEmpty(t, route.Polyline)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/trips/%d/generate_logs", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var logs []struct {
		Day               int        `json:"day"`
		DriverName        string     `json:"driver_name"`
		Carrier           string     `json:"carrier"`
		DailyDrivingHours float64    `json:"daily_driving_hours"`
		DailyDistance     float64    `json:"daily_distance"`
		Pickup            bool       `json:"pickup"`
		Dropoff           bool       `json:"dropoff"`
		StatusGrid        [][]*int   `json:"status_grid"`
		Remarks           string     `json:"remarks"`
		Date              *time.Time `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 8)

	day1 := logs[0]
	assert.Equal(t, "jdoe", day1.DriverName)
	assert.Equal(t, "Acme Freight", day1.Carrier)
	assert.Equal(t, 5.0, day1.DailyDrivingHours)
	assert.Equal(t, 190.14, day1.DailyDistance)
	assert.True(t, day1.Pickup)
	assert.True(t, logs[7].Dropoff)
	assert.Equal(t, "Day 1: jdoe driving from 40.0,-75.0 to Boston, MA via New York, NY", day1.Remarks)
	assert.NotNil(t, day1.Date)

	require.Len(t, day1.StatusGrid, 5)
	require.Len(t, day1.StatusGrid[2], 24)
	require.NotNil(t, day1.StatusGrid[2][6])
	assert.Equal(t, 2, *day1.StatusGrid[2][6])
	assert.Nil(t, day1.StatusGrid[0][6])
	require.NotNil(t, day1.StatusGrid[0][5])
	assert.Equal(t, 0, *day1.StatusGrid[0][5])
}

func TestCoreErrorMapping(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.login(t, "jdoe", false)["access"]

	// Too long for the API's location limit, so write it straight to the store.
	created := env.createTrip(t, token, "40.0,-75.0")
	overflow, err := env.trips.GetTrip(context.Background(), int64(created["id"].(float64)), int64(created["driver"].(float64)))
	require.NoError(t, err)
	overflow.CurrentLocation = strings.Repeat("9", 400) + ",5"
	_, err = env.trips.UpdateTrip(context.Background(), overflow)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/trips/%d/generate_logs", overflow.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "error parsing coordinates")

	unknown := env.createTrip(t, token, "Atlantis")
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/trips/%d/route_map", int64(unknown["id"].(float64))), token, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decodeError(t, rec), `geocoding error for place "Atlantis"`)
}

func TestLogSheetPNG(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.login(t, "jdoe", false)["access"]
	id := int64(env.createTrip(t, token, "40.0,-75.0")["id"].(float64))

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/trips/%d/logs/1/sheet.png", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(rec.Body)
	require.NoError(t, err)

	for _, day := range []string{"0", "9", "x"} {
		rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/trips/%d/logs/%s/sheet.png", id, day), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "day %s", day)
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, 1)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, env.do(t, http.MethodGet, "/health", "", nil).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGzipCompression(t *testing.T) {
	env := newTestEnv(t, 0)
	token := env.login(t, "jdoe", false)["access"]
	id := int64(env.createTrip(t, token, "40.0,-75.0")["id"].(float64))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/trips/%d/generate_logs", id), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
