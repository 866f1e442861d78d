// Package tracker records per-day, per-prayer completion flags and derives
// streak statistics from the full history. Persistence failures degrade to
// an in-memory overlay so the tracker keeps working while the store is down.
package tracker

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/prayer"
)

// ErrNotEligible rejects completion toggles for Sunrise (or unknown names).
var ErrNotEligible = errors.New("prayer is not completion-eligible")

// Storage is the persistence surface the tracker needs. The Postgres store
// satisfies it.
type Storage interface {
	UpsertCompletion(userID int, day string, p model.PrayerName, completed bool) error
	CompletionsForDay(userID int, day string) (map[model.PrayerName]bool, error)
	CompletionHistory(userID int) ([]model.CompletionRecord, error)
}

// Tracker is the completion store facade.
type Tracker struct {
	mu       sync.Mutex
	store    Storage
	overlay  map[int]map[string]map[model.PrayerName]bool
	degraded bool
}

func New(store Storage) *Tracker {
	return &Tracker{
		store:   store,
		overlay: make(map[int]map[string]map[model.PrayerName]bool),
	}
}

// Degraded reports whether at least one write failed to persist and is held
// only in memory. Surfaced to the client as a transient notice.
func (t *Tracker) Degraded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.degraded
}

// SetCompletion toggles the (day, prayer) flag. Sunrise is rejected. A
// failed persistence write is kept in the in-memory overlay instead of
// failing the command.
func (t *Tracker) SetCompletion(userID int, day string, p model.PrayerName, completed bool) error {
	if !p.Eligible() {
		return ErrNotEligible
	}
	if _, err := time.Parse(prayer.DayFormat, day); err != nil {
		return prayer.ErrInvalidDate
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.UpsertCompletion(userID, day, p, completed); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Str("day", day).
			Msg("completion write not persisted, keeping in memory")
		t.degraded = true
	}
	days, ok := t.overlay[userID]
	if !ok {
		days = make(map[string]map[model.PrayerName]bool)
		t.overlay[userID] = days
	}
	flags, ok := days[day]
	if !ok {
		flags = make(map[model.PrayerName]bool)
		days[day] = flags
	}
	flags[p] = completed
	return nil
}

// Completed reports whether the (day, prayer) pair is marked complete.
func (t *Tracker) Completed(userID int, day string, p model.PrayerName) bool {
	flags := t.dayFlags(userID, day)
	return flags[p]
}

// Stats returns the completed count against the five eligible prayers for
// one day.
func (t *Tracker) Stats(userID int, day string) model.DayStats {
	flags := t.dayFlags(userID, day)
	done := 0
	for _, p := range model.EligiblePrayers {
		if flags[p] {
			done++
		}
	}
	return model.DayStats{Day: day, Completed: done, Eligible: len(model.EligiblePrayers)}
}

// Streaks recomputes current and best streaks from the full history. A day
// counts when all five eligible prayers are complete. The current streak
// walks backward from today; today itself is exempt while still in
// progress, so only fully elapsed incomplete days break it.
func (t *Tracker) Streaks(userID int, today string) (model.StreakState, error) {
	todayDate, err := time.Parse(prayer.DayFormat, today)
	if err != nil {
		return model.StreakState{}, prayer.ErrInvalidDate
	}

	complete, err := t.completeDays(userID)
	if err != nil {
		return model.StreakState{}, err
	}

	var st model.StreakState

	cursor := todayDate
	if complete[today] {
		st.Current = 1
	}
	for {
		cursor = cursor.AddDate(0, 0, -1)
		if !complete[cursor.Format(prayer.DayFormat)] {
			break
		}
		st.Current++
	}

	st.Best = bestRun(complete)
	if st.Current > st.Best {
		st.Best = st.Current
	}
	return st, nil
}

// completeDays merges persisted history with the overlay and returns the
// set of fully complete days.
func (t *Tracker) completeDays(userID int) (map[string]bool, error) {
	byDay := make(map[string]map[model.PrayerName]bool)

	records, err := t.store.CompletionHistory(userID)
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).
			Msg("completion history unavailable, using in-memory records")
		t.mu.Lock()
		t.degraded = true
		t.mu.Unlock()
	} else {
		for _, r := range records {
			flags, ok := byDay[r.Day]
			if !ok {
				flags = make(map[model.PrayerName]bool)
				byDay[r.Day] = flags
			}
			flags[r.Prayer] = r.Completed
		}
	}

	t.mu.Lock()
	for day, overlay := range t.overlay[userID] {
		flags, ok := byDay[day]
		if !ok {
			flags = make(map[model.PrayerName]bool)
			byDay[day] = flags
		}
		for p, v := range overlay {
			flags[p] = v
		}
	}
	t.mu.Unlock()

	complete := make(map[string]bool, len(byDay))
	for day, flags := range byDay {
		all := true
		for _, p := range model.EligiblePrayers {
			if !flags[p] {
				all = false
				break
			}
		}
		if all {
			complete[day] = true
		}
	}
	return complete, nil
}

func (t *Tracker) dayFlags(userID int, day string) map[model.PrayerName]bool {
	flags, err := t.store.CompletionsForDay(userID, day)
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).Str("day", day).
			Msg("completion read failed, using in-memory records")
		flags = make(map[model.PrayerName]bool)
		t.mu.Lock()
		t.degraded = true
		t.mu.Unlock()
	}
	t.mu.Lock()
	for p, v := range t.overlay[userID][day] {
		flags[p] = v
	}
	t.mu.Unlock()
	return flags
}

// bestRun finds the longest run of consecutive complete days anywhere in
// the history.
func bestRun(complete map[string]bool) int {
	if len(complete) == 0 {
		return 0
	}
	days := make([]time.Time, 0, len(complete))
	for day := range complete {
		d, err := time.Parse(prayer.DayFormat, day)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}
