package model

import "time"

// DailySchedule holds the computed prayer instants for one calendar date at
// one location under one method/asr pair. Immutable once computed; any input
// change produces a fresh schedule.
type DailySchedule struct {
	Date      string                   `json:"date"` // YYYY-MM-DD
	Location  GeoLocation              `json:"location"`
	Method    CalculationMethod        `json:"method"`
	AsrMethod AsrJuristicMethod        `json:"asr_method"`
	Times     map[PrayerName]time.Time `json:"times"`

	// FallbackUsed is set when the high-latitude night-fraction
	// approximation replaced an unreachable depression angle.
	FallbackUsed bool `json:"fallback_used"`
}

// At returns the instant for the named prayer.
func (s *DailySchedule) At(p PrayerName) time.Time {
	return s.Times[p]
}

// Ordered returns the six (name, instant) pairs in chronological order.
func (s *DailySchedule) Ordered() []ScheduleEntry {
	out := make([]ScheduleEntry, 0, len(PrayerNames))
	for _, p := range PrayerNames {
		out = append(out, ScheduleEntry{Name: p, Time: s.Times[p]})
	}
	return out
}

type ScheduleEntry struct {
	Name PrayerName `json:"name"`
	Time time.Time  `json:"time"`
}
