package model

import "fmt"

// PrayerName identifies one of the six daily schedule entries. Sunrise is
// informational only: never reminder-eligible, never completion-eligible.
type PrayerName string

const (
	Fajr    PrayerName = "fajr"
	Sunrise PrayerName = "sunrise"
	Dhuhr   PrayerName = "dhuhr"
	Asr     PrayerName = "asr"
	Maghrib PrayerName = "maghrib"
	Isha    PrayerName = "isha"
)

// PrayerNames lists all schedule entries in chronological order.
var PrayerNames = []PrayerName{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// EligiblePrayers lists the five completion/reminder-eligible prayers.
var EligiblePrayers = []PrayerName{Fajr, Dhuhr, Asr, Maghrib, Isha}

// ParsePrayerName converts a wire string into a PrayerName.
func ParsePrayerName(s string) (PrayerName, error) {
	for _, p := range PrayerNames {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown prayer %q", s)
}

// Eligible reports whether the prayer counts for completion and reminders.
func (p PrayerName) Eligible() bool {
	return p != Sunrise && p != ""
}

// Next returns the prayer following p in the fixed daily order, wrapping
// from Isha back to Fajr.
func (p PrayerName) Next() PrayerName {
	for i, name := range PrayerNames {
		if name == p {
			return PrayerNames[(i+1)%len(PrayerNames)]
		}
	}
	return Fajr
}
