// Package schedule caches computed daily schedules per user and date, with a
// best-effort Redis mirror for the notification collaborator.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/prayer"
)

const mirrorTTL = 48 * time.Hour

type cacheKey struct {
	userID int
	day    string
}

// Cache computes-and-stores schedules on demand. Entries are replaced
// wholesale under the lock, so readers see either the old schedule or the
// new one, never a partial write.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*model.DailySchedule
	rdb     *redis.Client // nil disables the mirror
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{
		entries: make(map[cacheKey]*model.DailySchedule),
		rdb:     rdb,
	}
}

// Get returns the schedule for the user's day, computing it on a miss. An
// entry computed under a different location/method/asr snapshot is treated
// as a miss and recomputed, so a stale read can never follow an invalidation.
func (c *Cache) Get(ctx context.Context, userID int, loc model.GeoLocation, day string, method model.CalculationMethod, asr model.AsrJuristicMethod) (*model.DailySchedule, error) {
	key := cacheKey{userID: userID, day: day}

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && matches(cached, loc, method, asr) {
		return cached, nil
	}

	computed, err := prayer.Compute(loc, day, method, asr)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = computed
	c.mu.Unlock()

	c.mirror(ctx, userID, computed)
	return computed, nil
}

// Invalidate drops every cached entry for the user and clears the Redis
// mirror. Called whenever location, method or asr juristic method changes.
func (c *Cache) Invalidate(ctx context.Context, userID int) {
	c.mu.Lock()
	var days []string
	for key := range c.entries {
		if key.userID == userID {
			days = append(days, key.day)
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	for _, day := range days {
		if err := c.rdb.Del(ctx, mirrorKey(userID, day)).Err(); err != nil {
			log.Warn().Err(err).Int("user_id", userID).Str("day", day).
				Msg("failed to clear schedule mirror")
		}
	}
}

func (c *Cache) mirror(ctx context.Context, userID int, sched *model.DailySchedule) {
	if c.rdb == nil {
		return
	}
	payload, err := json.Marshal(sched)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, mirrorKey(userID, sched.Date), payload, mirrorTTL).Err(); err != nil {
		log.Warn().Err(err).Int("user_id", userID).Str("day", sched.Date).
			Msg("failed to mirror schedule")
	}
}

func mirrorKey(userID int, day string) string {
	return fmt.Sprintf("schedule:%d:%s", userID, day)
}

func matches(s *model.DailySchedule, loc model.GeoLocation, method model.CalculationMethod, asr model.AsrJuristicMethod) bool {
	return s.Location == loc && s.Method.ID == method.ID && s.AsrMethod == asr
}
