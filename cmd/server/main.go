package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-log-service/internal/adapters/cache"
	"trip-log-service/internal/adapters/logsheet"
	"trip-log-service/internal/adapters/osm"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/adapters/session"
	"trip-log-service/internal/api"
	"trip-log-service/internal/config"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
	"trip-log-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, Nominatim, OSRM) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := obs.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, cfg); err != nil {
		return err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}

	tokens, err := session.NewRedisTokenStore(rdb, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	// Zero timeout: external calls are bounded only by the request context.
	client := &http.Client{Timeout: cfg.HTTPClientTimeout}

	nominatim, err := osm.NewNominatimGeocoder(client, cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimRatePerSecond)
	if err != nil {
		return err
	}
	var geocoding ports.GeocodingProvider = nominatim
	if cfg.GeocodeCache {
		geocoding = cache.NewCachingGeocoder(nominatim, cache.NewSQLGeocodeCache(conn, cfg.DBDriver))
	}

	osrm, err := osm.NewOSRMRouter(client, cfg.OSRMURL)
	if err != nil {
		return err
	}

	resolver := services.NewRouteResolver(services.NewGeocoder(geocoding), osrm, cfg.MapViewerURL)
	drivers := repositories.NewSQLDriverRepository(conn, cfg.DBDriver)

	router := api.NewRouter(api.Deps{
		Logger:             logger,
		Accounts:           services.NewAccounts(drivers, tokens),
		Trips:              repositories.NewSQLTripRepository(conn, cfg.DBDriver),
		Planner:            services.NewTripPlanner(resolver),
		RenderSheet:        logsheet.Render,
		RateLimitPerSecond: float64(cfg.RateLimitPerSecond),
	})

	// Write timeout leaves room for slow geocoding (Nominatim allows ~1 req/s).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "geocode_cache", cfg.GeocodeCache)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(ctx context.Context, conn *sql.DB, cfg config.Config) error {
	if err := repositories.InitSchema(ctx, conn, cfg.DBDriver); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(cfg.SeedPath); errors.Is(err, fs.ErrNotExist) {
		slog.Info("no seed file, skipping", "path", cfg.SeedPath)
		return nil
	}

	n, err := repositories.SeedFromYAML(ctx, conn, cfg.DBDriver, cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	slog.Info("seed applied", "path", cfg.SeedPath, "drivers_created", n)

	return nil
}
