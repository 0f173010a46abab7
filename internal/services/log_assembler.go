package services

import (
	"fmt"
	"trip-log-service/internal/domain"
)

// Assemble merges one encoded day with trip and driver metadata.
// Distance is attributed to the day in proportion to its share of the route's
// driving time; a zero-duration route attributes nothing.
func Assemble(trip *domain.Trip, route *domain.RouteResult, day domain.DayTimeline) domain.LogEntry {
	dailyDistance := 0.0
	if route.DurationHours > 0 {
		dailyDistance = route.DistanceMiles * (day.DrivingHours / route.DurationHours)
	}

	profile := trip.Profile()

	return domain.LogEntry{
		Cycle: 1,
		Day:   day.Day,

		DriverName:          profile.Username,
		Carrier:             profile.Carrier,
		TruckNumber:         profile.TruckNumber,
		HomeTerminalAddress: profile.HomeTerminalAddress,
		ShippingDocs:        profile.ShippingDocs,
		DriverSignature:     profile.DriverSignature,
		CurrentCycleHours:   trip.CurrentCycleHours,

		CurrentLocation: trip.CurrentLocation,
		PickupLocation:  trip.PickupLocation,
		DropoffLocation: trip.DropoffLocation,

		DailyDistance:         round2(dailyDistance),
		DailyDrivingHours:     round2(day.DrivingHours),
		BreakTime:             round2(day.BreakTime),
		EffectiveDrivingHours: round2(day.EffectiveDrivingHours),
		RestHours:             round2(day.RestHours),
		OnDutyHours:           round2(day.EffectiveDrivingHours),

		FuelingStop: false,
		Pickup:      day.Day == 1,
		Dropoff:     day.Day == domain.CycleDays,
		Remarks: fmt.Sprintf(
			"Day %d: %s driving from %s to %s via %s",
			day.Day, trip.RemarkName(), trip.CurrentLocation, trip.DropoffLocation, trip.PickupLocation,
		),
		Date: trip.CreatedAt,

		SeventyHourEightDay: domain.SeventyHourEightDayLimit,
		SixtyHourSevenDay:   domain.SixtyHourSevenDayLimit,

		StatusGrid: day.Grid,
	}
}
