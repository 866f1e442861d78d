package packets

import (
	"time"

	"github.com/sajda-app/sajda/internal/model"
)

type ProfileResponse struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type ScheduleResponse struct {
	Date         string          `json:"date"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	Method       string          `json:"method"`
	AsrMethod    string          `json:"asr_method"`
	FallbackUsed bool            `json:"fallback_used"`
	Times        []ScheduleEntry `json:"times"`
}

type ScheduleEntry struct {
	Name string `json:"name"`
	Time string `json:"time"` // RFC3339 in the location's timezone
}

type ClockResponse struct {
	Current          *model.PrayerName `json:"current,omitempty"`
	Next             model.PrayerName  `json:"next"`
	NextAt           string            `json:"next_at"`
	SecondsUntilNext int               `json:"seconds_until_next"`
	Display          string            `json:"display"`
}

type StatsResponse struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Eligible  int    `json:"eligible"`
	Degraded  bool   `json:"degraded,omitempty"`
}

type StreakResponse struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

type FocusResponse struct {
	State       model.FocusState `json:"state"`
	Prayer      model.PrayerName `json:"prayer,omitempty"`
	WindowStart string           `json:"window_start,omitempty"`
	WindowEnd   string           `json:"window_end,omitempty"`
	Attempts    int              `json:"attempts"`
}

type TranscriptResponse struct {
	Matched bool             `json:"matched"`
	State   model.FocusState `json:"state"`
}

type SettingsResponse struct {
	Location   *model.GeoLocation `json:"location,omitempty"`
	Method     string             `json:"method"`
	AsrMethod  string             `json:"asr_method"`
	StrictMode bool               `json:"strict_mode"`
	Reminders  map[string]bool    `json:"reminders"`
	UpdatedAt  string             `json:"updated_at"`
}

// NewFocusResponse flattens a session snapshot.
func NewFocusResponse(state model.FocusState, session *model.BlockingSession) FocusResponse {
	out := FocusResponse{State: state}
	if session != nil {
		out.Prayer = session.Prayer
		out.WindowStart = session.WindowStart.Format(time.RFC3339)
		out.WindowEnd = session.WindowEnd.Format(time.RFC3339)
		out.Attempts = len(session.Attempts)
	}
	return out
}
