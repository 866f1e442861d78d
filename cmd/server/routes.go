package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sajda-app/sajda/internal/db"
	"github.com/sajda-app/sajda/internal/focus"
	"github.com/sajda-app/sajda/internal/http/api"
	"github.com/sajda-app/sajda/internal/http/api/endpoints"
	"github.com/sajda-app/sajda/internal/schedule"
	"github.com/sajda-app/sajda/internal/settings"
	"github.com/sajda-app/sajda/internal/tracker"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	authority *settings.Authority,
	cache *schedule.Cache,
	trk *tracker.Tracker,
	focusMgr *focus.Manager,
	window time.Duration,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/app",
		Auth:   false,
	},
		endpoints.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/app",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		endpoints.AuthSessionModule(env.SecretKey, store),
		endpoints.TimesModule(authority, cache, window),
		endpoints.CompletionModule(authority, trk),
		endpoints.FocusModule(authority, cache, trk, focusMgr),
		endpoints.SettingsModule(authority),
	)
}
