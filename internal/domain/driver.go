package domain

import "time"

// Registered driver account. PasswordHash is never serialized.
type Driver struct {
	ID                  int64
	Username            string
	PasswordHash        string
	IsStaff             bool
	Carrier             string
	TruckNumber         string
	HomeTerminalAddress string
	ShippingDocs        string
	DriverSignature     string
	CreatedAt           time.Time
}

func (d *Driver) Profile() *DriverProfile {
	return &DriverProfile{
		Username:            d.Username,
		Carrier:             d.Carrier,
		TruckNumber:         d.TruckNumber,
		HomeTerminalAddress: d.HomeTerminalAddress,
		ShippingDocs:        d.ShippingDocs,
		DriverSignature:     d.DriverSignature,
	}
}

// Access/refresh token pair issued at login.
type Tokens struct {
	Access  string
	Refresh string
}
