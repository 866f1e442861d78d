// Package clock derives the current/next prayer view from a cached schedule.
// Tick is a pure function of its inputs; the caller owns the cadence.
package clock

import (
	"time"

	"github.com/sajda-app/sajda/internal/model"
)

// DisplayState tells the UI which countdown to render.
type DisplayState string

const (
	BeforeFirstPrayer         DisplayState = "before_first_prayer"
	WithinCurrentPrayerWindow DisplayState = "within_current_prayer_window"
	BetweenPrayers            DisplayState = "between_prayers"
)

// State is the derived clock view for one instant.
type State struct {
	Current       *model.PrayerName `json:"current,omitempty"`
	Next          model.PrayerName  `json:"next"`
	NextAt        time.Time         `json:"next_at"`
	TimeUntilNext time.Duration     `json:"time_until_next"`
	Display       DisplayState      `json:"display"`
}

// Tick computes the clock state at now. A prayer is "current" from its
// instant until the next prayer's instant, so current is only undefined
// before Fajr. The window duration bounds the WithinCurrentPrayerWindow
// display; past it the display switches to BetweenPrayers.
func Tick(today, tomorrow *model.DailySchedule, now time.Time, window time.Duration) State {
	names := model.PrayerNames

	if now.Before(today.At(model.Fajr)) {
		next := model.Fajr
		at := today.At(next)
		return State{
			Next:          next,
			NextAt:        at,
			TimeUntilNext: at.Sub(now),
			Display:       BeforeFirstPrayer,
		}
	}

	current := names[len(names)-1]
	var nextAt time.Time
	next := model.Fajr
	for i, name := range names {
		if now.Before(today.At(name)) {
			current = names[i-1]
			next = name
			nextAt = today.At(name)
			break
		}
	}
	if nextAt.IsZero() {
		// past Isha; the next prayer is tomorrow's Fajr
		nextAt = tomorrow.At(model.Fajr)
	}

	display := BetweenPrayers
	windowEnd := today.At(current).Add(window)
	if windowEnd.After(nextAt) {
		windowEnd = nextAt
	}
	if !now.After(windowEnd) {
		display = WithinCurrentPrayerWindow
	}

	return State{
		Current:       &current,
		Next:          next,
		NextAt:        nextAt,
		TimeUntilNext: nextAt.Sub(now),
		Display:       display,
	}
}
