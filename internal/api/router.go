package api

import (
	"io"
	"log/slog"
	"net/http"
	"trip-log-service/internal/api/handlers"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"

	"github.com/julienschmidt/httprouter"
	"github.com/klauspost/compress/gzhttp"
)

type AccountService interface {
	handlers.AccountService
	Authenticator
}

// Deps holds everything the HTTP layer needs. Handlers stay unaware of concrete adapters.
type Deps struct {
	Logger      *slog.Logger
	Accounts    AccountService
	Trips       ports.TripRepository
	Planner     handlers.TripPlanner
	RenderSheet func(w io.Writer, entry domain.LogEntry) error

	// Per-client request rate; zero disables limiting.
	RateLimitPerSecond float64
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	accountHandler := &handlers.AccountHandler{Accounts: d.Accounts}
	tripHandler := &handlers.TripHandler{Trips: d.Trips}
	logHandler := &handlers.LogHandler{
		Trips:       d.Trips,
		Planner:     d.Planner,
		RenderSheet: d.RenderSheet,
	}

	auth := func(h http.HandlerFunc) http.Handler { return requireAuth(d.Accounts, h) }

	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found.")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.HandlerFunc(http.MethodGet, "/health", handlers.Health)

	router.HandlerFunc(http.MethodPost, "/api/accounts/register", accountHandler.Register)
	router.HandlerFunc(http.MethodPost, "/api/accounts/login", accountHandler.Login)
	router.Handler(http.MethodPost, "/api/accounts/logout", auth(accountHandler.Logout))

	router.Handler(http.MethodGet, "/api/trips", auth(tripHandler.List))
	router.Handler(http.MethodPost, "/api/trips", auth(tripHandler.Create))
	router.Handler(http.MethodGet, "/api/trips/:id", auth(tripHandler.Get))
	router.Handler(http.MethodPut, "/api/trips/:id", auth(tripHandler.Update))
	router.Handler(http.MethodPatch, "/api/trips/:id", auth(tripHandler.Update))
	router.Handler(http.MethodDelete, "/api/trips/:id", auth(tripHandler.Delete))

	router.Handler(http.MethodGet, "/api/trips/:id/route_map", auth(logHandler.RouteMap))
	router.Handler(http.MethodGet, "/api/trips/:id/generate_logs", auth(logHandler.GenerateLogs))
	router.Handler(http.MethodGet, "/api/trips/:id/logs/:day/sheet.png", auth(logHandler.Sheet))

	var h http.Handler = router
	h = gzhttp.GzipHandler(h)
	h = rateLimitMiddleware(d.RateLimitPerSecond, h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(logger, h)
	return h
}
