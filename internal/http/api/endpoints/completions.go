package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sajda-app/sajda/internal/http/api"
	"github.com/sajda-app/sajda/internal/http/api/packets"
	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/prayer"
	"github.com/sajda-app/sajda/internal/settings"
	"github.com/sajda-app/sajda/internal/tracker"
)

type CompletionController struct {
	authority *settings.Authority
	tracker   *tracker.Tracker
}

func NewCompletionController(authority *settings.Authority, trk *tracker.Tracker) *CompletionController {
	return &CompletionController{authority: authority, tracker: trk}
}

func CompletionModule(authority *settings.Authority, trk *tracker.Tracker) api.Module {
	ctl := NewCompletionController(authority, trk)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUT("/completions/:date/:prayer", ctl.setCompletion)
		c.GET("/completions/:date", ctl.getStats)
		c.GET("/streaks", ctl.getStreaks)
	})
}

// PUT /completions/:date/:prayer
func (cc *CompletionController) setCompletion(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	p, err := model.ParsePrayerName(ctx.Param("prayer"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unknown prayer"}
	}

	var request packets.CompletionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	err = cc.tracker.SetCompletion(user.ID, ctx.Param("date"), p, request.Completed)
	if errors.Is(err, tracker.ErrNotEligible) {
		return nil, &api.APIError{Code: http.StatusUnprocessableEntity, Message: "prayer is not completion-eligible"}
	}
	if errors.Is(err, prayer.ErrInvalidDate) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not record completion"}
	}

	return gin.H{"message": "recorded"}, nil
}

// GET /completions/:date
func (cc *CompletionController) getStats(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	day := ctx.Param("date")
	if _, err := time.Parse(prayer.DayFormat, day); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date"}
	}

	stats := cc.tracker.Stats(user.ID, day)
	return packets.StatsResponse{
		Day:       stats.Day,
		Completed: stats.Completed,
		Eligible:  stats.Eligible,
		Degraded:  cc.tracker.Degraded(),
	}, nil
}

// GET /streaks
func (cc *CompletionController) getStreaks(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	today := time.Now().Format(prayer.DayFormat)
	if r, apiErr := resolveUser(cc.authority, user.ID); apiErr == nil {
		today, _ = dayPair(r.TZ, time.Now())
	}

	streaks, err := cc.tracker.Streaks(user.ID, today)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute streaks"}
	}
	return packets.StreakResponse{Current: streaks.Current, Best: streaks.Best}, nil
}
