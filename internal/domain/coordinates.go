package domain

import "strconv"

// Immutable geographic point (latitude, longitude).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// LonLat renders the point as "lon,lat", the waypoint order routing engines expect.
func (p GeoPoint) LonLat() string {
	return FormatFloat(p.Lon) + "," + FormatFloat(p.Lat)
}

// FormatFloat prints f in its shortest round-trip form, always keeping at least
// one fractional digit ("-75.0", "1.0", "0.25").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s
		}
	}
	return s + ".0"
}
