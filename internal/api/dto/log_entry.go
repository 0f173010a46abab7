package dto

import (
	"time"
	"trip-log-service/internal/domain"
)

type LogEntryResponse struct {
	Cycle               int     `json:"cycle"`
	Day                 int     `json:"day"`
	DriverName          string  `json:"driver_name"`
	Carrier             string  `json:"carrier"`
	TruckNumber         string  `json:"truck_number"`
	HomeTerminalAddress string  `json:"home_terminal_address"`
	ShippingDocs        string  `json:"shipping_docs"`
	DriverSignature     string  `json:"driver_signature"`
	CurrentCycleHours   float64 `json:"current_cycle_hours"`

	CurrentLocation string `json:"current_location"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`

	DailyDistance         float64 `json:"daily_distance"`
	DailyDrivingHours     float64 `json:"daily_driving_hours"`
	BreakTime             float64 `json:"break_time"`
	EffectiveDrivingHours float64 `json:"effective_driving_hours"`
	RestHours             float64 `json:"rest_hours"`

	FuelingStop bool      `json:"fueling_stop"`
	Pickup      bool      `json:"pickup"`
	Dropoff     bool      `json:"dropoff"`
	Remarks     string    `json:"remarks"`
	Date        time.Time `json:"date"`

	OnDutyHours         float64 `json:"on_duty_hours"`
	SeventyHourEightDay int     `json:"seventy_hr_eight_day"`
	SixtyHourSevenDay   int     `json:"sixty_hr_seven_day"`

	// Five rows of 24 cells; empty cells encode as null.
	StatusGrid domain.StatusGrid `json:"status_grid"`
}

func NewLogEntryResponse(e domain.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		Cycle:                 e.Cycle,
		Day:                   e.Day,
		DriverName:            e.DriverName,
		Carrier:               e.Carrier,
		TruckNumber:           e.TruckNumber,
		HomeTerminalAddress:   e.HomeTerminalAddress,
		ShippingDocs:          e.ShippingDocs,
		DriverSignature:       e.DriverSignature,
		CurrentCycleHours:     e.CurrentCycleHours,
		CurrentLocation:       e.CurrentLocation,
		PickupLocation:        e.PickupLocation,
		DropoffLocation:       e.DropoffLocation,
		DailyDistance:         e.DailyDistance,
		DailyDrivingHours:     e.DailyDrivingHours,
		BreakTime:             e.BreakTime,
		EffectiveDrivingHours: e.EffectiveDrivingHours,
		RestHours:             e.RestHours,
		FuelingStop:           e.FuelingStop,
		Pickup:                e.Pickup,
		Dropoff:               e.Dropoff,
		Remarks:               e.Remarks,
		Date:                  e.Date,
		OnDutyHours:           e.OnDutyHours,
		SeventyHourEightDay:   e.SeventyHourEightDay,
		SixtyHourSevenDay:     e.SixtyHourSevenDay,
		StatusGrid:            e.StatusGrid,
	}
}
