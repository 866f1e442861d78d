package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sajda-app/sajda/internal/db"
	"github.com/sajda-app/sajda/internal/enforcement"
	"github.com/sajda-app/sajda/internal/focus"
	"github.com/sajda-app/sajda/internal/model"
	"github.com/sajda-app/sajda/internal/redis"
	"github.com/sajda-app/sajda/internal/schedule"
	"github.com/sajda-app/sajda/internal/settings"
	"github.com/sajda-app/sajda/internal/tracker"
)

func main() {
	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	migrations := env.MigrationsPath
	if migrations == "" {
		migrations = "./migrations"
	}
	if err := db.RunMigrations(migrations); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	store := db.NewStore()
	cache := schedule.NewCache(redis.Rdb)

	focusCfg := focus.DefaultConfig()
	if env.FocusWindowMinutes > 0 {
		focusCfg.WindowDuration = time.Duration(env.FocusWindowMinutes) * time.Minute
	}
	if env.ConfirmationPhrase != "" {
		focusCfg.Phrase = env.ConfirmationPhrase
	}

	var onTransition func(userID int, session model.BlockingSession)
	if env.MQTTBrokerURL != "" {
		publisher, err := enforcement.NewPublisher(env.MQTTBrokerURL, "sajda-server")
		if err != nil {
			log.Warn().Err(err).Msg("running without enforcement export")
		} else {
			onTransition = publisher.PublishTransition
		}
	}

	focusMgr := focus.NewManager(focusCfg, onTransition)
	authority := settings.NewAuthority(store, cache, focusMgr, redis.Rdb)
	trk := tracker.New(store)

	// set up gin router
	r := gin.Default()
	RegisterRoutes(r, env, store, authority, cache, trk, focusMgr, focusCfg.WindowDuration)

	// start
	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
