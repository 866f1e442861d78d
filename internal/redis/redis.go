package redis

import (
	"github.com/redis/go-redis/v9"
)

// Rdb stays nil when no address is configured; consumers treat a nil client
// as "mirror disabled".
var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}
