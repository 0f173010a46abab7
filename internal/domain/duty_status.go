package domain

// DutyStatus classifies a driver's legal activity for one hour of the day.
// The ordinal doubles as the row index of the StatusGrid.
type DutyStatus int

const (
	OffDuty DutyStatus = iota
	SleeperBerth
	Driving
	Break
	OnDuty
)

// NumDutyStatuses is the size of the closed DutyStatus set.
const NumDutyStatuses = 5

func (s DutyStatus) Valid() bool {
	return s >= OffDuty && s <= OnDuty
}

func (s DutyStatus) String() string {
	switch s {
	case OffDuty:
		return "Off Duty"
	case SleeperBerth:
		return "Sleeper Berth"
	case Driving:
		return "Driving"
	case Break:
		return "Break"
	case OnDuty:
		return "On Duty"
	default:
		return "Unknown"
	}
}
