package domain

import "time"

// FMCSA property-carrying limits used by the log generator.
const (
	MaxDailyDrivingHours = 11
	CycleDays            = 8
	HoursPerDay          = 24

	// Driving always starts at 06:00.
	DrivingStartHour = 6
	// Continuous driving beyond this many hours requires a 30-minute break.
	BreakAfterDrivingHours = 8
	// The break is drawn as one full grid hour but counted as half an hour.
	BreakHours = 0.5

	// Reference ceilings printed on every sheet; never computed.
	SeventyHourEightDayLimit = 70
	SixtyHourSevenDayLimit   = 60
)

// One day's share of the cycle's driving time.
type DayAllocation struct {
	Day          int
	DrivingHours float64
}

// One duty status per hour of the day, hour 0 = midnight.
type DailyTimeline [HoursPerDay]DutyStatus

// Row = status ordinal, column = hour. A cell is non-nil only when the timeline
// holds that status at that hour.
type StatusGrid [NumDutyStatuses][HoursPerDay]*DutyStatus

// Encoded form of a single day's allocation.
type DayTimeline struct {
	Day                   int
	DrivingHours          float64
	Timeline              DailyTimeline
	Grid                  StatusGrid
	BreakTime             float64
	EffectiveDrivingHours float64
	RestHours             float64
}

// Represents one day's log sheet. Immutable once assembled.
type LogEntry struct {
	Cycle int
	Day   int

	DriverName          string
	Carrier             string
	TruckNumber         string
	HomeTerminalAddress string
	ShippingDocs        string
	DriverSignature     string
	CurrentCycleHours   float64

	CurrentLocation string
	PickupLocation  string
	DropoffLocation string

	DailyDistance         float64
	DailyDrivingHours     float64
	BreakTime             float64
	EffectiveDrivingHours float64
	RestHours             float64
	OnDutyHours           float64

	FuelingStop bool
	Pickup      bool
	Dropoff     bool
	Remarks     string
	Date        time.Time

	SeventyHourEightDay int
	SixtyHourSevenDay   int

	StatusGrid StatusGrid
}
