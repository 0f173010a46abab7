package domain

import "time"

// Identity and paperwork fields printed on every log sheet.
type DriverProfile struct {
	Username            string
	Carrier             string
	TruckNumber         string
	HomeTerminalAddress string
	ShippingDocs        string
	DriverSignature     string
}

// Represents a planned trip owned by a single driver.
// Driver is nil when the trip is not linked to a driver profile; use Profile and
// RemarkName instead of inspecting it directly.
type Trip struct {
	ID                int64
	DriverID          int64
	CurrentLocation   string
	PickupLocation    string
	DropoffLocation   string
	CurrentCycleHours float64
	CreatedAt         time.Time
	Driver            *DriverProfile
}

// Profile returns the linked driver profile, or the empty profile when none is linked.
func (t *Trip) Profile() DriverProfile {
	if t.Driver == nil {
		return DriverProfile{}
	}
	return *t.Driver
}

// RemarkName is the driver name used in log remarks.
func (t *Trip) RemarkName() string {
	if t.Driver == nil {
		return "N/A"
	}
	return t.Driver.Username
}
