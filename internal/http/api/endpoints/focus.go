package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/focus"
	"github.com/sajda-app/sajda/internal/http/api"
	"github.com/sajda-app/sajda/internal/http/api/packets"
	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/schedule"
	"github.com/sajda-app/sajda/internal/settings"
	"github.com/sajda-app/sajda/internal/tracker"
)

type FocusController struct {
	authority *settings.Authority
	cache     *schedule.Cache
	tracker   *tracker.Tracker
	manager   *focus.Manager
}

func NewFocusController(authority *settings.Authority, cache *schedule.Cache, trk *tracker.Tracker, manager *focus.Manager) *FocusController {
	return &FocusController{authority: authority, cache: cache, tracker: trk, manager: manager}
}

func FocusModule(authority *settings.Authority, cache *schedule.Cache, trk *tracker.Tracker, manager *focus.Manager) api.Module {
	ctl := NewFocusController(authority, cache, trk, manager)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/focus", ctl.getFocus)
		c.POST("/focus/transcript", ctl.submitTranscript)
		c.POST("/focus/clear", ctl.clearBlocking)
	})
}

// tick advances the user's machine against the current schedules. The
// enforcement collaborator polls GET /focus, so every poll is also the
// external driver's tick.
func (f *FocusController) tick(ctx *gin.Context, user *model.User) (model.FocusState, *model.BlockingSession, *api.APIError) {
	r, apiErr := resolveUser(f.authority, user.ID)
	if apiErr != nil {
		return "", nil, apiErr
	}

	now := time.Now()
	today, tomorrow := dayPair(r.TZ, now)

	todaySched, apiErr := getSchedule(ctx.Request.Context(), f.cache, user.ID, r, today)
	if apiErr != nil {
		return "", nil, apiErr
	}
	tomorrowSched, apiErr := getSchedule(ctx.Request.Context(), f.cache, user.ID, r, tomorrow)
	if apiErr != nil {
		return "", nil, apiErr
	}

	completed := false
	if _, session := f.manager.Snapshot(user.ID); session != nil {
		completed = f.tracker.Completed(user.ID, session.Day, session.Prayer)
	} else if p := focus.ActivePrayer(now, todaySched, tomorrowSched); p != "" {
		// no session yet, so check the prayer that would arm this tick
		completed = f.tracker.Completed(user.ID, todaySched.Date, p)
	}

	f.manager.Tick(user.ID, now, todaySched, tomorrowSched, completed)
	state, session := f.manager.Snapshot(user.ID)
	return state, session, nil
}

// GET /focus
func (f *FocusController) getFocus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	state, session, apiErr := f.tick(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.NewFocusResponse(state, session), nil
}

// POST /focus/transcript
func (f *FocusController) submitTranscript(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.TranscriptRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, _, apiErr := f.tick(ctx, user); apiErr != nil {
		return nil, apiErr
	}
	_, before := f.manager.Snapshot(user.ID)

	attempt, err := f.manager.SubmitTranscript(user.ID, request.Transcript, time.Now())
	if errors.Is(err, focus.ErrInvalidStateTransition) {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "no confirmation expected right now"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not process transcript"}
	}

	if attempt.Matched && before != nil {
		// a verified confirmation also records the prayer as completed
		if err := f.tracker.SetCompletion(user.ID, before.Day, before.Prayer, true); err != nil {
			log.Warn().Err(err).Int("user_id", user.ID).
				Msg("could not record completion after unlock")
		}
	}

	state, _ := f.manager.Snapshot(user.ID)
	return packets.TranscriptResponse{Matched: attempt.Matched, State: state}, nil
}

// POST /focus/clear is privileged: only meaningful on the unlock path, any
// other use is rejected.
func (f *FocusController) clearBlocking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	state, _ := f.manager.Snapshot(user.ID)
	switch state {
	case model.FocusIdle, model.FocusDisabled, model.FocusUnlocked:
		f.manager.ClearBlocking(user.ID)
		return gin.H{"state": model.FocusIdle}, nil
	}
	return nil, &api.APIError{Code: http.StatusConflict, Message: "blocking can only be cleared by a verified confirmation"}
}
