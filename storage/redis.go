package storage

import (
	"log"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// InitializeRedis connects the refresh-token allowlist store. Accepts either
// a bare host:port or a redis://-style URL (managed Redis providers hand out
// the latter).
func InitializeRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	if strings.Contains(redisURL, "://") {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Panic("invalid REDIS_URL: " + err.Error())
		}
		Redis = redis.NewClient(opts)
	} else {
		Redis = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	log.Println("Redis initialized with address:", redisURL)
}
