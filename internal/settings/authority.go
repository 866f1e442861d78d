// Package settings is the single-writer authority for the per-user
// configuration triple (location, calculation method, asr juristic method)
// plus the strict-mode flag and reminder toggles. Readers always observe a
// wholesale snapshot; every change invalidates the schedule cache and
// discards any active blocking session before it is visible.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/focus"
	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/prayer"
	"github.com/sajda-app/sajda/internal/schedule"
)

// ErrNoLocation means neither GPS nor a manual location has been set. A
// blocking precondition for schedule reads, not an exception.
var ErrNoLocation = errors.New("no location available")

const refreshTTL = time.Minute

// Storage is the persistence surface the authority needs.
type Storage interface {
	GetSettings(userID int) (model.UserSettings, error)
	SaveSettings(s model.UserSettings) error
}

// Authority owns every user's settings snapshot.
type Authority struct {
	mu        sync.RWMutex
	store     Storage
	snapshots map[int]model.UserSettings

	cache *schedule.Cache
	focus *focus.Manager
	rdb   *redis.Client // nil disables the refreshing indicator
}

func NewAuthority(store Storage, cache *schedule.Cache, focusMgr *focus.Manager, rdb *redis.Client) *Authority {
	return &Authority{
		store:     store,
		snapshots: make(map[int]model.UserSettings),
		cache:     cache,
		focus:     focusMgr,
		rdb:       rdb,
	}
}

// Snapshot returns the user's current settings, loading them from the store
// on first access. A store failure degrades to in-memory defaults.
func (a *Authority) Snapshot(userID int) model.UserSettings {
	a.mu.RLock()
	s, ok := a.snapshots[userID]
	a.mu.RUnlock()
	if ok {
		return s
	}

	loaded, err := a.store.GetSettings(userID)
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).
			Msg("settings unavailable, using defaults")
		loaded = model.DefaultSettings(userID)
	}

	a.mu.Lock()
	// another reader may have raced the load; first writer wins
	if cached, ok := a.snapshots[userID]; ok {
		loaded = cached
	} else {
		a.snapshots[userID] = loaded
	}
	a.mu.Unlock()

	if a.focus != nil {
		a.focus.SetEnabled(userID, loaded.StrictMode)
	}
	return loaded
}

// Location resolves the user's active location.
func (a *Authority) Location(userID int) (model.GeoLocation, error) {
	s := a.Snapshot(userID)
	if s.Location == nil {
		return model.GeoLocation{}, ErrNoLocation
	}
	return *s.Location, nil
}

// SetLocation replaces the location snapshot wholesale, invalidates the
// schedule cache, discards any active blocking session and recomputes
// today's schedule before returning.
func (a *Authority) SetLocation(ctx context.Context, userID int, loc model.GeoLocation) error {
	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", prayer.ErrInvalidLocation, err)
	}
	return a.apply(ctx, userID, func(s *model.UserSettings) {
		s.Location = &loc
	})
}

// ApplyMethod is the settings-apply command of the external protocol: it
// swaps the method/asr pair, invalidates, discards the blocking session and
// recomputes before the caller reports "done".
func (a *Authority) ApplyMethod(ctx context.Context, userID int, methodID string, asr model.AsrJuristicMethod) error {
	if _, err := model.MethodByID(methodID); err != nil {
		return err
	}
	return a.apply(ctx, userID, func(s *model.UserSettings) {
		s.MethodID = methodID
		s.AsrMethod = asr
	})
}

// SetStrictMode flips the strict-mode flag and gates the focus machine.
func (a *Authority) SetStrictMode(ctx context.Context, userID int, on bool) error {
	err := a.apply(ctx, userID, func(s *model.UserSettings) {
		s.StrictMode = on
	})
	if err != nil {
		return err
	}
	if a.focus != nil {
		a.focus.SetEnabled(userID, on)
	}
	return nil
}

// SetReminder toggles the per-prayer reminder flag. Sunrise is never
// reminder-eligible.
func (a *Authority) SetReminder(ctx context.Context, userID int, p model.PrayerName, on bool) error {
	if !p.Eligible() {
		return fmt.Errorf("prayer %q is not reminder-eligible", p)
	}
	return a.apply(ctx, userID, func(s *model.UserSettings) {
		if s.Reminders == nil {
			s.Reminders = make(map[model.PrayerName]bool)
		}
		s.Reminders[p] = on
	})
}

// apply runs a mutation under the writer lock, persists the new snapshot,
// then invalidates derived state so no reader can observe a schedule built
// from the old triple. A persistence failure keeps the in-memory snapshot
// authoritative rather than failing the command.
func (a *Authority) apply(ctx context.Context, userID int, mutate func(*model.UserSettings)) error {
	a.markRefreshing(ctx, userID, true)
	defer a.markRefreshing(ctx, userID, false)

	current := a.Snapshot(userID)

	a.mu.Lock()
	next := current
	mutate(&next)
	next.UpdatedAt = time.Now()
	a.snapshots[userID] = next
	a.mu.Unlock()

	if err := a.store.SaveSettings(next); err != nil {
		log.Warn().Err(err).Int("user_id", userID).
			Msg("settings not persisted, keeping in-memory snapshot")
	}

	if a.cache != nil {
		a.cache.Invalidate(ctx, userID)
	}
	if a.focus != nil {
		a.focus.Invalidate(userID)
	}

	a.recompute(ctx, userID, next)
	return nil
}

// recompute warms today's schedule under the new snapshot so the change is
// fully applied before the "done" signal goes back.
func (a *Authority) recompute(ctx context.Context, userID int, s model.UserSettings) {
	if s.Location == nil || a.cache == nil {
		return
	}
	method, err := model.MethodByID(s.MethodID)
	if err != nil {
		return
	}
	day := todayIn(*s.Location)
	if _, err := a.cache.Get(ctx, userID, *s.Location, day, method, s.AsrMethod); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Str("day", day).
			Msg("failed to recompute schedule after settings change")
	}
}

func (a *Authority) markRefreshing(ctx context.Context, userID int, on bool) {
	if a.rdb == nil {
		return
	}
	key := fmt.Sprintf("settings:refreshing:%d", userID)
	var err error
	if on {
		err = a.rdb.Set(ctx, key, "1", refreshTTL).Err()
	} else {
		err = a.rdb.Del(ctx, key).Err()
	}
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("failed to update refreshing flag")
	}
}

// todayIn formats the current calendar date in the location's timezone.
func todayIn(loc model.GeoLocation) string {
	tz := time.UTC
	if loc.Timezone != "" {
		if parsed, err := time.LoadLocation(loc.Timezone); err == nil {
			tz = parsed
		}
	}
	return time.Now().In(tz).Format(prayer.DayFormat)
}
