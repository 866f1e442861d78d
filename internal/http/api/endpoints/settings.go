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
)

type SettingsController struct {
	authority *settings.Authority
}

func NewSettingsController(authority *settings.Authority) *SettingsController {
	return &SettingsController{authority: authority}
}

func SettingsModule(authority *settings.Authority) api.Module {
	ctl := NewSettingsController(authority)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/settings", ctl.getSettings)
		c.PUT("/settings", ctl.applySettings)
		c.PUT("/settings/strict", ctl.setStrictMode)
		c.PUT("/location", ctl.setLocation)
		c.PUT("/reminders/:prayer", ctl.setReminder)
	})
}

// GET /settings
func (s *SettingsController) getSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	snap := s.authority.Snapshot(user.ID)

	reminders := make(map[string]bool, len(snap.Reminders))
	for p, on := range snap.Reminders {
		reminders[string(p)] = on
	}
	return packets.SettingsResponse{
		Location:   snap.Location,
		Method:     snap.MethodID,
		AsrMethod:  string(snap.AsrMethod),
		StrictMode: snap.StrictMode,
		Reminders:  reminders,
		UpdatedAt:  snap.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// PUT /settings is the settings-apply command: invalidates the schedule
// cache, discards any blocking session, recomputes, then answers done.
func (s *SettingsController) applySettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ApplySettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	asr, err := model.ParseAsrMethod(request.AsrMethod)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := s.authority.ApplyMethod(ctx.Request.Context(), user.ID, request.Method, asr); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	return gin.H{"done": true}, nil
}

// PUT /settings/strict
func (s *SettingsController) setStrictMode(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.StrictModeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := s.authority.SetStrictMode(ctx.Request.Context(), user.ID, request.Enabled); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update strict mode"}
	}
	return gin.H{"done": true}, nil
}

// PUT /location
func (s *SettingsController) setLocation(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateLocationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	loc := model.GeoLocation{
		Latitude:  *request.Latitude,
		Longitude: *request.Longitude,
		Timezone:  request.Timezone,
		City:      request.City,
		Country:   request.Country,
	}
	err := s.authority.SetLocation(ctx.Request.Context(), user.ID, loc)
	if errors.Is(err, prayer.ErrInvalidLocation) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "coordinates out of range"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update location"}
	}
	return gin.H{"done": true}, nil
}

// PUT /reminders/:prayer
func (s *SettingsController) setReminder(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	p, err := model.ParsePrayerName(ctx.Param("prayer"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unknown prayer"}
	}

	var request packets.ReminderRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := s.authority.SetReminder(ctx.Request.Context(), user.ID, p, request.Enabled); err != nil {
		return nil, &api.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	}
	return gin.H{"done": true}, nil
}
