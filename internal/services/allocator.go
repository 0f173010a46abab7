package services

import (
	"math"
	"trip-log-service/internal/domain"
)

// Allocate spreads total driving time across the cycle greedily.
//
// Each day takes min(11, remaining) hours, left to right, and every day after the
// time runs out gets zero. Driving beyond CycleDays*MaxDailyDrivingHours does not
// fit the cycle and is dropped.
func Allocate(totalDrivingHours float64) []domain.DayAllocation {
	out := make([]domain.DayAllocation, 0, domain.CycleDays)

	remaining := totalDrivingHours
	for day := 1; day <= domain.CycleDays; day++ {
		hours := 0.0
		if remaining > 0 {
			hours = math.Min(domain.MaxDailyDrivingHours, remaining)
			remaining -= hours
		}
		out = append(out, domain.DayAllocation{Day: day, DrivingHours: hours})
	}

	return out
}
