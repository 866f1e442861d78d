package model

import "time"

// CompletionRecord is one persisted (day, prayer) completion flag. Rows are
// created lazily on first toggle and kept indefinitely.
type CompletionRecord struct {
	UserID    int        `db:"user_id" json:"user_id"`
	Day       string     `db:"day" json:"day"` // YYYY-MM-DD
	Prayer    PrayerName `db:"prayer" json:"prayer"`
	Completed bool       `db:"completed" json:"completed"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// DayStats summarizes one day's completion progress.
type DayStats struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
	Eligible  int    `json:"eligible"`
}

// StreakState is derived from completion history, never stored.
type StreakState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}
