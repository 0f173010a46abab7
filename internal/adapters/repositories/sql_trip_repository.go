package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

// SQL-backed implementation of the TripRepository port. Loaded trips carry the
// owning driver's profile.
type SQLTripRepository struct {
	DB      *sql.DB
	Dialect string
}

func NewSQLTripRepository(conn *sql.DB, dialect string) *SQLTripRepository {
	return &SQLTripRepository{DB: conn, Dialect: dialect}
}

const tripSelect = `
	SELECT
		t.id,
		t.driver_id,
		t.current_location,
		t.pickup_location,
		t.dropoff_location,
		t.current_cycle_hours,
		t.created_at,
		d.username,
		d.carrier,
		d.truck_number,
		d.home_terminal_address,
		d.shipping_docs,
		d.driver_signature
	FROM trips t
	LEFT JOIN drivers d ON d.id = t.driver_id
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var t domain.Trip
	var createdAt string
	var username, carrier, truck, terminal, docs, signature sql.NullString

	if err := row.Scan(
		&t.ID,
		&t.DriverID,
		&t.CurrentLocation,
		&t.PickupLocation,
		&t.DropoffLocation,
		&t.CurrentCycleHours,
		&createdAt,
		&username,
		&carrier,
		&truck,
		&terminal,
		&docs,
		&signature,
	); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	if username.Valid {
		t.Driver = &domain.DriverProfile{
			Username:            username.String,
			Carrier:             carrier.String,
			TruckNumber:         truck.String,
			HomeTerminalAddress: terminal.String,
			ShippingDocs:        docs.String,
			DriverSignature:     signature.String,
		}
	}

	return &t, nil
}

func (s *SQLTripRepository) CreateTrip(ctx context.Context, trip *domain.Trip) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.Create")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return nil, errors.New("create trip: trip is nil")
	}

	createdAt := trip.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := db.Rebind(s.Dialect, `
	INSERT INTO trips (
		driver_id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_hours,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)

	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		trip.DriverID,
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.CurrentCycleHours,
		formatTime(createdAt),
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("create trip: insert row: %w", err)
	}

	return s.GetTrip(ctx, id, trip.DriverID)
}

func (s *SQLTripRepository) GetTrip(ctx context.Context, id, driverID int64) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, tripSelect+`WHERE t.id = ? AND t.driver_id = ?;`)

	trip, err := scanTrip(s.DB.QueryRowContext(ctx, query, id, driverID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %d: %w", id, err)
	}

	return trip, nil
}

// Return the driver's trips, newest first.
func (s *SQLTripRepository) ListTripsByDriver(ctx context.Context, driverID int64) (_ []*domain.Trip, err error) {
	defer obs.Time(ctx, "trips.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, tripSelect+`WHERE t.driver_id = ?
	ORDER BY t.id DESC;`)

	rows, err := s.DB.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

// Update the locations and cycle hours of a trip owned by trip.DriverID.
func (s *SQLTripRepository) UpdateTrip(ctx context.Context, trip *domain.Trip) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "trips.Update")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return nil, errors.New("update trip: trip is nil")
	}

	query := db.Rebind(s.Dialect, `
	UPDATE trips
	SET current_location = ?,
		pickup_location = ?,
		dropoff_location = ?,
		current_cycle_hours = ?
	WHERE id = ? AND driver_id = ?;
	`)

	res, err := s.DB.ExecContext(ctx, query,
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.CurrentCycleHours,
		trip.ID,
		trip.DriverID,
	)
	if err != nil {
		return nil, fmt.Errorf("update trip %d: %w", trip.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update trip %d: rows affected: %w", trip.ID, err)
	}
	if n == 0 {
		return nil, ports.ErrNotFound
	}

	return s.GetTrip(ctx, trip.ID, trip.DriverID)
}

func (s *SQLTripRepository) DeleteTrip(ctx context.Context, id, driverID int64) (err error) {
	defer obs.Time(ctx, "trips.Delete")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, `DELETE FROM trips WHERE id = ? AND driver_id = ?;`)

	res, err := s.DB.ExecContext(ctx, query, id, driverID)
	if err != nil {
		return fmt.Errorf("delete trip %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip %d: rows affected: %w", id, err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}

	return nil
}
