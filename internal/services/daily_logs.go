package services

import (
	"context"
	"errors"
	"fmt"
	"trip-log-service/internal/domain"
)

// GenerateDailyLogs builds one log entry per cycle day from a resolved route.
func GenerateDailyLogs(trip *domain.Trip, route *domain.RouteResult) []domain.LogEntry {
	allocations := Allocate(route.DurationHours)

	logs := make([]domain.LogEntry, 0, len(allocations))
	for _, alloc := range allocations {
		logs = append(logs, Assemble(trip, route, Encode(alloc)))
	}
	return logs
}

// TripPlanner runs the route-to-duty-status pipeline for stored trips.
type TripPlanner struct {
	resolver *RouteResolver
}

func NewTripPlanner(resolver *RouteResolver) *TripPlanner {
	return &TripPlanner{resolver: resolver}
}

func (p *TripPlanner) RouteForTrip(ctx context.Context, trip *domain.Trip) (*domain.RouteResult, error) {
	if trip == nil {
		return nil, errors.New("route for trip: trip must be non-nil")
	}

	route, err := p.resolver.Route(ctx, trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation)
	if err != nil {
		return nil, fmt.Errorf("route for trip %d: %w", trip.ID, err)
	}
	return route, nil
}

func (p *TripPlanner) LogsForTrip(ctx context.Context, trip *domain.Trip) ([]domain.LogEntry, error) {
	route, err := p.RouteForTrip(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("logs for trip: %w", err)
	}
	return GenerateDailyLogs(trip, route), nil
}
