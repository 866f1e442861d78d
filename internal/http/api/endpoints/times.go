package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajda-app/sajda/internal/clock"
	"github.com/sajda-app/sajda/internal/focus"
	"github.com/sajda-app/sajda/internal/http/api"
	"github.com/sajda-app/sajda/internal/http/api/packets"
	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/schedule"
	"github.com/sajda-app/sajda/internal/settings"
)

type TimesController struct {
	authority *settings.Authority
	cache     *schedule.Cache
	window    time.Duration
}

func NewTimesController(authority *settings.Authority, cache *schedule.Cache, window time.Duration) *TimesController {
	if window <= 0 {
		window = focus.DefaultWindowDuration
	}
	return &TimesController{authority: authority, cache: cache, window: window}
}

func TimesModule(authority *settings.Authority, cache *schedule.Cache, window time.Duration) api.Module {
	ctl := NewTimesController(authority, cache, window)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/times", ctl.getTimes)
		c.GET("/clock", ctl.getClock)
		c.GET("/methods", ctl.listMethods)
	})
}

// GET /times?date=YYYY-MM-DD (default: today in the user's zone)
func (t *TimesController) getTimes(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	r, apiErr := resolveUser(t.authority, user.ID)
	if apiErr != nil {
		return nil, apiErr
	}

	day := ctx.Query("date")
	if day == "" {
		day, _ = dayPair(r.TZ, time.Now())
	}

	sched, apiErr := getSchedule(ctx.Request.Context(), t.cache, user.ID, r, day)
	if apiErr != nil {
		return nil, apiErr
	}

	response := packets.ScheduleResponse{
		Date:         sched.Date,
		City:         sched.Location.City,
		Country:      sched.Location.Country,
		Method:       sched.Method.ID,
		AsrMethod:    string(sched.AsrMethod),
		FallbackUsed: sched.FallbackUsed,
	}
	for _, entry := range sched.Ordered() {
		response.Times = append(response.Times, packets.ScheduleEntry{
			Name: string(entry.Name),
			Time: entry.Time.In(r.TZ).Format(time.RFC3339),
		})
	}
	return response, nil
}

// GET /clock
func (t *TimesController) getClock(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	r, apiErr := resolveUser(t.authority, user.ID)
	if apiErr != nil {
		return nil, apiErr
	}

	now := time.Now()
	today, tomorrow := dayPair(r.TZ, now)

	todaySched, apiErr := getSchedule(ctx.Request.Context(), t.cache, user.ID, r, today)
	if apiErr != nil {
		return nil, apiErr
	}
	tomorrowSched, apiErr := getSchedule(ctx.Request.Context(), t.cache, user.ID, r, tomorrow)
	if apiErr != nil {
		return nil, apiErr
	}

	state := clock.Tick(todaySched, tomorrowSched, now, t.window)
	return packets.ClockResponse{
		Current:          state.Current,
		Next:             state.Next,
		NextAt:           state.NextAt.In(r.TZ).Format(time.RFC3339),
		SecondsUntilNext: int(state.TimeUntilNext.Seconds()),
		Display:          string(state.Display),
	}, nil
}

// GET /methods
func (t *TimesController) listMethods(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return model.Methods(), nil
}
