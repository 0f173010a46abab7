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

// SQL-backed implementation of the DriverRepository port.
type SQLDriverRepository struct {
	DB      *sql.DB
	Dialect string
}

func NewSQLDriverRepository(conn *sql.DB, dialect string) *SQLDriverRepository {
	return &SQLDriverRepository{DB: conn, Dialect: dialect}
}

const driverColumns = `
		id,
		username,
		password_hash,
		is_staff,
		carrier,
		truck_number,
		home_terminal_address,
		shipping_docs,
		driver_signature,
		created_at`

func (s *SQLDriverRepository) CreateDriver(ctx context.Context, d *domain.Driver) (_ *domain.Driver, err error) {
	defer obs.Time(ctx, "drivers.Create")(&err)

	if s.DB == nil {
		return nil, errors.New("sql driver repository: DB is nil")
	}
	if d == nil {
		return nil, errors.New("create driver: driver is nil")
	}

	out := *d
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}

	query := db.Rebind(s.Dialect, `
	INSERT INTO drivers (
		username,
		password_hash,
		is_staff,
		carrier,
		truck_number,
		home_terminal_address,
		shipping_docs,
		driver_signature,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)

	err = s.DB.QueryRowContext(ctx, query,
		out.Username,
		out.PasswordHash,
		out.IsStaff,
		out.Carrier,
		out.TruckNumber,
		out.HomeTerminalAddress,
		out.ShippingDocs,
		out.DriverSignature,
		formatTime(out.CreatedAt),
	).Scan(&out.ID)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create driver %q: %w", out.Username, ports.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create driver: insert row: %w", err)
	}

	return &out, nil
}

func (s *SQLDriverRepository) GetDriverByUsername(ctx context.Context, username string) (*domain.Driver, error) {
	return s.getOne(ctx, "username = ?", username)
}

func (s *SQLDriverRepository) GetDriverByID(ctx context.Context, id int64) (*domain.Driver, error) {
	return s.getOne(ctx, "id = ?", id)
}

func (s *SQLDriverRepository) getOne(ctx context.Context, where string, arg any) (_ *domain.Driver, err error) {
	defer obs.Time(ctx, "drivers.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql driver repository: DB is nil")
	}

	query := db.Rebind(s.Dialect, `SELECT`+driverColumns+`
	FROM drivers
	WHERE `+where+`;`)

	var d domain.Driver
	var createdAt string
	err = s.DB.QueryRowContext(ctx, query, arg).Scan(
		&d.ID,
		&d.Username,
		&d.PasswordHash,
		&d.IsStaff,
		&d.Carrier,
		&d.TruckNumber,
		&d.HomeTerminalAddress,
		&d.ShippingDocs,
		&d.DriverSignature,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get driver: scan row: %w", err)
	}

	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("get driver: parse created_at: %w", err)
	}

	return &d, nil
}
