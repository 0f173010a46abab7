package handlers

import (
	"context"
	"trip-log-service/internal/domain"
)

type driverKey struct{}

// WithDriver stores the authenticated driver for downstream handlers.
func WithDriver(ctx context.Context, d *domain.Driver) context.Context {
	return context.WithValue(ctx, driverKey{}, d)
}

// DriverFromContext returns the authenticated driver, or nil.
func DriverFromContext(ctx context.Context) *domain.Driver {
	d, _ := ctx.Value(driverKey{}).(*domain.Driver)
	return d
}
