package model

import "time"

// UserSettings is the persisted per-user configuration triple (location,
// method, asr) plus the strict-mode flag and reminder toggles. Readers always
// observe a wholesale snapshot, never a partial update.
type UserSettings struct {
	UserID     int                 `json:"user_id"`
	Location   *GeoLocation        `json:"location,omitempty"`
	MethodID   string              `json:"method_id"`
	AsrMethod  AsrJuristicMethod   `json:"asr_method"`
	StrictMode bool                `json:"strict_mode"`
	Reminders  map[PrayerName]bool `json:"reminders"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// DefaultSettings is the state of a fresh account: no location yet, MWL
// convention, standard Asr, strict mode off, reminders on for the five
// eligible prayers.
func DefaultSettings(userID int) UserSettings {
	reminders := make(map[PrayerName]bool, len(EligiblePrayers))
	for _, p := range EligiblePrayers {
		reminders[p] = true
	}
	return UserSettings{
		UserID:    userID,
		MethodID:  "mwl",
		AsrMethod: AsrStandard,
		Reminders: reminders,
	}
}
