package model

import "time"

// FocusState is the blocking state machine position for the active window.
type FocusState string

const (
	FocusDisabled            FocusState = "disabled"
	FocusIdle                FocusState = "idle"
	FocusArmed               FocusState = "armed"
	FocusBlocking            FocusState = "blocking"
	FocusWaitingConfirmation FocusState = "waiting_confirmation"
	FocusUnlocked            FocusState = "unlocked"
)

// VoiceAttempt records one delivered transcript and whether it matched.
// Attempts live only as long as their BlockingSession.
type VoiceAttempt struct {
	Transcript string    `json:"transcript"`
	Matched    bool      `json:"matched"`
	At         time.Time `json:"at"`
}

// BlockingSession is the per-prayer blocking window owned by the focus state
// machine. It is discarded on unlock or when superseded.
type BlockingSession struct {
	Prayer      PrayerName     `json:"prayer"`
	Day         string         `json:"day"` // YYYY-MM-DD
	WindowStart time.Time      `json:"window_start"`
	WindowEnd   time.Time      `json:"window_end"`
	State       FocusState     `json:"state"`
	Attempts    []VoiceAttempt `json:"attempts,omitempty"`
}
