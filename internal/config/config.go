package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds service settings. Precedence: environment, then the YAML file, then defaults.
type Config struct {
	Port string

	DBDriver    string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	NominatimURL           string
	NominatimUserAgent     string
	NominatimRatePerSecond float64
	OSRMURL                string
	MapViewerURL           string
	HTTPClientTimeout      time.Duration
	GeocodeCache           bool

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RateLimitPerSecond int

	LogLevel  string
	LogFormat string
}

type fileConfig struct {
	Port     string `yaml:"port"`
	Database struct {
		Driver   string `yaml:"driver"`
		Path     string `yaml:"path"`
		URL      string `yaml:"url"`
		SeedPath string `yaml:"seed_path"`
	} `yaml:"database"`
	Providers struct {
		NominatimURL           string   `yaml:"nominatim_url"`
		NominatimUserAgent     string   `yaml:"nominatim_user_agent"`
		NominatimRatePerSecond *float64 `yaml:"nominatim_rate_per_second"`
		OSRMURL                string   `yaml:"osrm_url"`
		MapViewerURL           string   `yaml:"map_viewer_url"`
		HTTPClientTimeout      string   `yaml:"http_client_timeout"`
		GeocodeCache           *bool    `yaml:"geocode_cache"`
	} `yaml:"providers"`
	Redis struct {
		Addr            string `yaml:"addr"`
		Password        string `yaml:"password"`
		DB              *int   `yaml:"db"`
		AccessTokenTTL  string `yaml:"access_token_ttl"`
		RefreshTokenTTL string `yaml:"refresh_token_ttl"`
	} `yaml:"redis"`
	RateLimitPerSecond *int `yaml:"rate_limit_per_second"`
	Log                struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

const (
	defaultPort            = "8080"
	defaultDBDriver        = "sqlite"
	defaultDBPath          = "data/app.db"
	defaultSeedPath        = "data/seeds/seed.yaml"
	defaultNominatimURL    = "https://nominatim.openstreetmap.org"
	defaultUserAgent       = "trip-log-service/1.0"
	defaultOSRMURL         = "http://router.project-osrm.org"
	defaultMapViewerURL    = "https://www.openstreetmap.org/directions"
	defaultRedisAddr       = "localhost:6379"
	defaultAccessTokenTTL  = 5 * time.Minute
	defaultRefreshTokenTTL = 24 * time.Hour
	defaultRateLimit       = 20
)

// Load reads .env (if present), the optional YAML file at CONFIG_PATH and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	path := Get("CONFIG_PATH", filepath.Join("config", "config.yaml"))
	fc, err := loadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}

	return fromSources(fc)
}

func fromSources(fc fileConfig) (Config, error) {
	cfg := Config{
		Port:               firstNonEmpty(os.Getenv("PORT"), fc.Port, defaultPort),
		DBDriver:           strings.ToLower(firstNonEmpty(os.Getenv("DB_DRIVER"), fc.Database.Driver, defaultDBDriver)),
		DBPath:             firstNonEmpty(os.Getenv("DB_PATH"), fc.Database.Path, defaultDBPath),
		DatabaseURL:        firstNonEmpty(os.Getenv("DATABASE_URL"), fc.Database.URL),
		SeedPath:           firstNonEmpty(os.Getenv("SEED_PATH"), fc.Database.SeedPath, defaultSeedPath),
		NominatimURL:       strings.TrimRight(firstNonEmpty(os.Getenv("NOMINATIM_URL"), fc.Providers.NominatimURL, defaultNominatimURL), "/"),
		NominatimUserAgent: firstNonEmpty(os.Getenv("NOMINATIM_USER_AGENT"), fc.Providers.NominatimUserAgent, defaultUserAgent),
		OSRMURL:            strings.TrimRight(firstNonEmpty(os.Getenv("OSRM_URL"), fc.Providers.OSRMURL, defaultOSRMURL), "/"),
		MapViewerURL:       firstNonEmpty(os.Getenv("MAP_VIEWER_URL"), fc.Providers.MapViewerURL, defaultMapViewerURL),
		RedisAddr:          firstNonEmpty(os.Getenv("REDIS_ADDR"), fc.Redis.Addr, defaultRedisAddr),
		RedisPassword:      firstNonEmpty(os.Getenv("REDIS_PASSWORD"), fc.Redis.Password),
		LogLevel:           firstNonEmpty(os.Getenv("LOG_LEVEL"), fc.Log.Level, "info"),
		LogFormat:          firstNonEmpty(os.Getenv("LOG_FORMAT"), fc.Log.Format, "json"),
	}

	var err error

	cfg.NominatimRatePerSecond = 1
	if fc.Providers.NominatimRatePerSecond != nil {
		cfg.NominatimRatePerSecond = *fc.Providers.NominatimRatePerSecond
	}
	if cfg.NominatimRatePerSecond, err = envFloat("NOMINATIM_RATE_PER_SECOND", cfg.NominatimRatePerSecond); err != nil {
		return Config{}, err
	}

	if fc.Providers.GeocodeCache != nil {
		cfg.GeocodeCache = *fc.Providers.GeocodeCache
	}
	if cfg.GeocodeCache, err = envBool("GEOCODE_CACHE", cfg.GeocodeCache); err != nil {
		return Config{}, err
	}

	if fc.Redis.DB != nil {
		cfg.RedisDB = *fc.Redis.DB
	}
	if cfg.RedisDB, err = envInt("REDIS_DB", cfg.RedisDB); err != nil {
		return Config{}, err
	}

	cfg.RateLimitPerSecond = defaultRateLimit
	if fc.RateLimitPerSecond != nil {
		cfg.RateLimitPerSecond = *fc.RateLimitPerSecond
	}
	if cfg.RateLimitPerSecond, err = envInt("RATE_LIMIT_PER_SECOND", cfg.RateLimitPerSecond); err != nil {
		return Config{}, err
	}

	if cfg.HTTPClientTimeout, err = duration("HTTP_CLIENT_TIMEOUT", fc.Providers.HTTPClientTimeout, 0); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = duration("ACCESS_TOKEN_TTL", fc.Redis.AccessTokenTTL, defaultAccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = duration("REFRESH_TOKEN_TTL", fc.Redis.RefreshTokenTTL, defaultRefreshTokenTTL); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.NominatimRatePerSecond <= 0 {
		return errors.New("config: NOMINATIM_RATE_PER_SECOND must be positive")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}

	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func duration(key, fileValue string, fallback time.Duration) (time.Duration, error) {
	v := firstNonEmpty(os.Getenv(key), fileValue)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
