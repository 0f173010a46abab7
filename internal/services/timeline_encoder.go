package services

import (
	"math"
	"trip-log-service/internal/domain"
)

const (
	breakHour  = domain.DrivingStartHour + domain.BreakAfterDrivingHours
	resumeHour = breakHour + 1
)

// Encode lays one day's driving onto a 24-hour timeline.
//
// Driving starts at 06:00. Up to 8 hours run continuously. Longer days drive
// 06:00-14:00, take the break in hour 14 and resume at 15:00. Fractional hours
// are rounded to the nearest hour (ties to even) on the timeline only; the
// numeric outputs keep full precision. Every other hour is Off Duty, so Sleeper
// Berth and On Duty never appear.
func Encode(alloc domain.DayAllocation) domain.DayTimeline {
	hours := alloc.DrivingHours

	var timeline domain.DailyTimeline
	breakTime := 0.0

	if hours <= domain.BreakAfterDrivingHours {
		markDriving(&timeline, domain.DrivingStartHour, domain.DrivingStartHour+roundHours(hours))
	} else {
		markDriving(&timeline, domain.DrivingStartHour, breakHour)
		timeline[breakHour] = domain.Break
		markDriving(&timeline, resumeHour, resumeHour+roundHours(hours-domain.BreakAfterDrivingHours))
		breakTime = domain.BreakHours
	}

	effective := hours + breakTime

	return domain.DayTimeline{
		Day:                   alloc.Day,
		DrivingHours:          hours,
		Timeline:              timeline,
		Grid:                  BuildStatusGrid(timeline),
		BreakTime:             breakTime,
		EffectiveDrivingHours: effective,
		RestHours:             math.Max(0, domain.HoursPerDay-effective),
	}
}

// BuildStatusGrid projects a timeline onto the 5x24 grid: each hour fills only the
// row of its status, with the status ordinal as the value.
func BuildStatusGrid(timeline domain.DailyTimeline) domain.StatusGrid {
	var grid domain.StatusGrid
	for hour, status := range timeline {
		if !status.Valid() {
			continue
		}
		s := status
		grid[status][hour] = &s
	}
	return grid
}

func markDriving(timeline *domain.DailyTimeline, from, to int) {
	to = min(to, domain.HoursPerDay)
	for hour := max(from, 0); hour < to; hour++ {
		timeline[hour] = domain.Driving
	}
}

func roundHours(h float64) int {
	return int(math.RoundToEven(h))
}
