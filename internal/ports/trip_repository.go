package ports

import (
	"context"
	"errors"
	"trip-log-service/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Port: a boundary for storing and retrieving Trip entities.
// Every lookup is scoped to the owning driver; trips owned by someone else
// behave as if they did not exist.
type TripRepository interface {
	CreateTrip(ctx context.Context, trip *domain.Trip) (*domain.Trip, error)
	GetTrip(ctx context.Context, id, driverID int64) (*domain.Trip, error)
	ListTripsByDriver(ctx context.Context, driverID int64) ([]*domain.Trip, error)
	UpdateTrip(ctx context.Context, trip *domain.Trip) (*domain.Trip, error)
	DeleteTrip(ctx context.Context, id, driverID int64) error
}

// Port: a boundary for driver accounts.
type DriverRepository interface {
	CreateDriver(ctx context.Context, d *domain.Driver) (*domain.Driver, error)
	GetDriverByUsername(ctx context.Context, username string) (*domain.Driver, error)
	GetDriverByID(ctx context.Context, id int64) (*domain.Driver, error)
}
