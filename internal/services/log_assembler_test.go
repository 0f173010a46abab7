package services

import (
	"testing"
	"time"
	"trip-log-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testTrip(driver *domain.DriverProfile) *domain.Trip {
	return &domain.Trip{
		ID:                1,
		CurrentLocation:   "40.0,-75.0",
		PickupLocation:    "New York, NY",
		DropoffLocation:   "Boston, MA",
		CurrentCycleHours: 10,
		CreatedAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Driver:            driver,
	}
}

func TestAssembleWithDriver(t *testing.T) {
	trip := testTrip(&domain.DriverProfile{
		Username:            "jdoe",
		Carrier:             "Acme Freight",
		TruckNumber:         "T-42",
		HomeTerminalAddress: "1 Depot Rd",
		ShippingDocs:        "BOL-7",
		DriverSignature:     "J. Doe",
	})
	route := &domain.RouteResult{DistanceMiles: 550, DurationHours: 10}

	entry := Assemble(trip, route, Encode(domain.DayAllocation{Day: 1, DrivingHours: 10}))

	assert.Equal(t, 1, entry.Cycle)
	assert.Equal(t, 1, entry.Day)
	assert.Equal(t, "jdoe", entry.DriverName)
	assert.Equal(t, "Acme Freight", entry.Carrier)
	assert.Equal(t, "T-42", entry.TruckNumber)
	assert.Equal(t, "1 Depot Rd", entry.HomeTerminalAddress)
	assert.Equal(t, "BOL-7", entry.ShippingDocs)
	assert.Equal(t, "J. Doe", entry.DriverSignature)
	assert.Equal(t, 10.0, entry.CurrentCycleHours)
	assert.Equal(t, 550.0, entry.DailyDistance)
	assert.Equal(t, 10.0, entry.DailyDrivingHours)
	assert.Equal(t, 0.5, entry.BreakTime)
	assert.Equal(t, 10.5, entry.EffectiveDrivingHours)
	assert.Equal(t, 13.5, entry.RestHours)
	assert.Equal(t, entry.EffectiveDrivingHours, entry.OnDutyHours)
	assert.False(t, entry.FuelingStop)
	assert.True(t, entry.Pickup)
	assert.False(t, entry.Dropoff)
	assert.Equal(t, "Day 1: jdoe driving from 40.0,-75.0 to Boston, MA via New York, NY", entry.Remarks)
	assert.True(t, entry.Date.Equal(trip.CreatedAt))
	assert.Equal(t, 70, entry.SeventyHourEightDay)
	assert.Equal(t, 60, entry.SixtyHourSevenDay)
}

func TestAssembleWithoutDriver(t *testing.T) {
	trip := testTrip(nil)
	route := &domain.RouteResult{DistanceMiles: 100, DurationHours: 3}

	entry := Assemble(trip, route, Encode(domain.DayAllocation{Day: domain.CycleDays, DrivingHours: 0}))

	assert.Empty(t, entry.DriverName)
	assert.Empty(t, entry.Carrier)
	assert.Empty(t, entry.TruckNumber)
	assert.Empty(t, entry.HomeTerminalAddress)
	assert.Empty(t, entry.ShippingDocs)
	assert.Empty(t, entry.DriverSignature)
	assert.Equal(t, "Day 8: N/A driving from 40.0,-75.0 to Boston, MA via New York, NY", entry.Remarks)
	assert.False(t, entry.Pickup)
	assert.True(t, entry.Dropoff)
	assert.Zero(t, entry.DailyDistance)
}

func TestAssembleRoundsToTwoPlaces(t *testing.T) {
	route := &domain.RouteResult{DistanceMiles: 100, DurationHours: 3}

	entry := Assemble(testTrip(nil), route, Encode(domain.DayAllocation{Day: 1, DrivingHours: 1}))

	assert.Equal(t, 33.33, entry.DailyDistance)
}

func TestAssembleZeroDurationRoute(t *testing.T) {
	route := &domain.RouteResult{DistanceMiles: 12, DurationHours: 0}

	entry := Assemble(testTrip(nil), route, Encode(domain.DayAllocation{Day: 1, DrivingHours: 0}))

	assert.Zero(t, entry.DailyDistance)
}
