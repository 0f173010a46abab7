package dto

import (
	"time"
	"trip-log-service/internal/domain"
)

// TripRequest is the body of create and update calls. Pointer fields tell a
// PATCH which values were supplied.
type TripRequest struct {
	CurrentLocation   *string  `json:"current_location"`
	PickupLocation    *string  `json:"pickup_location"`
	DropoffLocation   *string  `json:"dropoff_location"`
	CurrentCycleHours *float64 `json:"current_cycle_hours"`
}

type TripResponse struct {
	ID                int64     `json:"id"`
	Driver            int64     `json:"driver"`
	CurrentLocation   string    `json:"current_location"`
	PickupLocation    string    `json:"pickup_location"`
	DropoffLocation   string    `json:"dropoff_location"`
	CurrentCycleHours float64   `json:"current_cycle_hours"`
	CreatedAt         time.Time `json:"created_at"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}

func NewTripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                t.ID,
		Driver:            t.DriverID,
		CurrentLocation:   t.CurrentLocation,
		PickupLocation:    t.PickupLocation,
		DropoffLocation:   t.DropoffLocation,
		CurrentCycleHours: t.CurrentCycleHours,
		CreatedAt:         t.CreatedAt,
	}
}
