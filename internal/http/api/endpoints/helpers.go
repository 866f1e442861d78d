package endpoints

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sajda-app/sajda/internal/http/api"
	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/prayer"
	"github.com/sajda-app/sajda/internal/schedule"
	"github.com/sajda-app/sajda/internal/settings"
)

// resolved is the settings triple a schedule read needs.
type resolved struct {
	Settings model.UserSettings
	Location model.GeoLocation
	Method   model.CalculationMethod
	TZ       *time.Location
}

// resolveUser loads the user's snapshot and maps the missing-location
// precondition to 409.
func resolveUser(authority *settings.Authority, userID int) (resolved, *api.APIError) {
	snap := authority.Snapshot(userID)
	if snap.Location == nil {
		return resolved{}, &api.APIError{Code: http.StatusConflict, Message: "no location available"}
	}
	method, err := model.MethodByID(snap.MethodID)
	if err != nil {
		return resolved{}, &api.APIError{Code: http.StatusInternalServerError, Message: "unknown calculation method"}
	}
	tz := time.UTC
	if snap.Location.Timezone != "" {
		if parsed, err := time.LoadLocation(snap.Location.Timezone); err == nil {
			tz = parsed
		}
	}
	return resolved{Settings: snap, Location: *snap.Location, Method: method, TZ: tz}, nil
}

// getSchedule fetches one day's schedule through the cache, translating
// calculator errors to API errors.
func getSchedule(ctx context.Context, cache *schedule.Cache, userID int, r resolved, day string) (*model.DailySchedule, *api.APIError) {
	sched, err := cache.Get(ctx, userID, r.Location, day, r.Method, r.Settings.AsrMethod)
	if err != nil {
		if errors.Is(err, prayer.ErrInvalidDate) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date"}
		}
		if errors.Is(err, prayer.ErrInvalidLocation) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid location"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute schedule"}
	}
	return sched, nil
}

// dayPair returns today's and tomorrow's date strings in the user's zone.
func dayPair(tz *time.Location, now time.Time) (string, string) {
	local := now.In(tz)
	return local.Format(prayer.DayFormat),
		local.AddDate(0, 0, 1).Format(prayer.DayFormat)
}
