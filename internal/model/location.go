package model

import "fmt"

// GeoLocation is an immutable location snapshot. A relocation replaces the
// whole value; nothing mutates it in place.
type GeoLocation struct {
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	// Timezone is an IANA zone id, e.g. "Asia/Riyadh".
	Timezone string `db:"timezone" json:"timezone"`
	City     string `db:"city" json:"city"`
	Country  string `db:"country" json:"country"`
}

// Validate checks the coordinate ranges. Labels and timezone are display
// concerns and are not validated here.
func (g GeoLocation) Validate() error {
	if g.Latitude < -90 || g.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", g.Latitude)
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", g.Longitude)
	}
	return nil
}
