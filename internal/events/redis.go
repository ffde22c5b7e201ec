package events

import (
	"context"
	"strings"
	"time"

	"redesocial/internal/observability"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using either a redis:// URL or a bare
// host:port address. A failed ping is logged but not fatal; callers that
// depend on Redis will surface errors per operation.
func NewRedisClient(redisURL string) *redis.Client {
	var client *redis.Client

	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			observability.GlobalLogger.Error("Invalid Redis URL, falling back to localhost", "error", err)
			opt = &redis.Options{Addr: "localhost:6379"}
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		observability.GlobalLogger.Warn("Redis not reachable at startup", "addr", redisURL, "error", err)
		observability.RedisErrorRate.WithLabelValues("ping").Inc()
	} else {
		observability.GlobalLogger.Info("Redis connected successfully", "addr", redisURL)
	}

	return client
}
