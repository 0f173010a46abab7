package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Column types that differ between the supported dialects.
type columnTypes struct {
	serialPK string
	float    string
	boolean  string
}

func typesFor(dialect string) columnTypes {
	if dialect == db.DriverPostgres {
		return columnTypes{serialPK: "BIGSERIAL PRIMARY KEY", float: "DOUBLE PRECISION", boolean: "BOOLEAN"}
	}
	return columnTypes{serialPK: "INTEGER PRIMARY KEY AUTOINCREMENT", float: "REAL", boolean: "INTEGER"}
}

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	t := typesFor(dialect)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDriversQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS drivers (
		id %s,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_staff %s NOT NULL DEFAULT FALSE,
		carrier TEXT NOT NULL DEFAULT '',
		truck_number TEXT NOT NULL DEFAULT '',
		home_terminal_address TEXT NOT NULL DEFAULT '',
		shipping_docs TEXT NOT NULL DEFAULT '',
		driver_signature TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	`, t.serialPK, t.boolean)

	createTripsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS trips (
		id %s,
		driver_id BIGINT REFERENCES drivers(id) ON DELETE CASCADE,
		current_location TEXT NOT NULL,
		pickup_location TEXT NOT NULL,
		dropoff_location TEXT NOT NULL,
		current_cycle_hours %s NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	`, t.serialPK, t.float)

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lat %[1]s NOT NULL,
        lon %[1]s NOT NULL
    );
	`, t.float)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_driver_id
    ON trips(driver_id);
	`

	statements := []string{
		createDriversQuery,
		createTripsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TripSeed struct {
	CurrentLocation   string  `yaml:"current_location"`
	PickupLocation    string  `yaml:"pickup_location"`
	DropoffLocation   string  `yaml:"dropoff_location"`
	CurrentCycleHours float64 `yaml:"current_cycle_hours"`
}

type DriverSeed struct {
	Username            string     `yaml:"username"`
	Password            string     `yaml:"password"`
	IsStaff             bool       `yaml:"is_staff"`
	Carrier             string     `yaml:"carrier"`
	TruckNumber         string     `yaml:"truck_number"`
	HomeTerminalAddress string     `yaml:"home_terminal_address"`
	ShippingDocs        string     `yaml:"shipping_docs"`
	DriverSignature     string     `yaml:"driver_signature"`
	Trips               []TripSeed `yaml:"trips"`
}

type Seed struct {
	Drivers []DriverSeed `yaml:"drivers"`
}

// SeedFromYAML populates drivers and their trips from a YAML file.
// Drivers whose username already exists are left untouched together with their
// trips, so seeding twice is harmless. It returns the number of drivers created.
func SeedFromYAML(ctx context.Context, conn *sql.DB, dialect, path string) (int, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed: read %q: %w", path, err)
	}

	var data Seed
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed: parse yaml: %w", err)
	}

	for i, d := range data.Drivers {
		if strings.TrimSpace(d.Username) == "" || d.Password == "" {
			return 0, fmt.Errorf("seed: driver at index %d: username and password are required", i+1)
		}
		for j, t := range d.Trips {
			if strings.TrimSpace(t.CurrentLocation) == "" ||
				strings.TrimSpace(t.PickupLocation) == "" ||
				strings.TrimSpace(t.DropoffLocation) == "" {
				return 0, fmt.Errorf("seed: driver %q trip at index %d: locations cannot be empty", d.Username, j+1)
			}
		}
	}

	drivers := NewSQLDriverRepository(conn, dialect)
	trips := NewSQLTripRepository(conn, dialect)
	now := time.Now().UTC()

	created := 0
	for _, d := range data.Drivers {
		username := strings.TrimSpace(d.Username)

		if _, err := drivers.GetDriverByUsername(ctx, username); err == nil {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, fmt.Errorf("seed: hash password for %q: %w", username, err)
		}

		driver, err := drivers.CreateDriver(ctx, &domain.Driver{
			Username:            username,
			PasswordHash:        string(hash),
			IsStaff:             d.IsStaff,
			Carrier:             d.Carrier,
			TruckNumber:         d.TruckNumber,
			HomeTerminalAddress: d.HomeTerminalAddress,
			ShippingDocs:        d.ShippingDocs,
			DriverSignature:     d.DriverSignature,
			CreatedAt:           now,
		})
		if err != nil {
			return created, fmt.Errorf("seed: insert driver %q: %w", username, err)
		}
		created++

		for _, t := range d.Trips {
			if _, err := trips.CreateTrip(ctx, &domain.Trip{
				DriverID:          driver.ID,
				CurrentLocation:   strings.TrimSpace(t.CurrentLocation),
				PickupLocation:    strings.TrimSpace(t.PickupLocation),
				DropoffLocation:   strings.TrimSpace(t.DropoffLocation),
				CurrentCycleHours: t.CurrentCycleHours,
				CreatedAt:         now,
			}); err != nil {
				return created, fmt.Errorf("seed: insert trip for %q: %w", username, err)
			}
		}
	}

	return created, nil
}
