package http

import (
	"context"
	"time"

	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/avolkov/doorkeeper/internal/infra/config"
)

// redisLimiter is a fixed-window counter shared across replicas. It fails
// open: any Redis error lets the request through.
type redisLimiter struct {
	client  *redis.Client
	logger  *slog.Logger
	prefix  string
	limit   int
	window  time.Duration
	timeout time.Duration
}

func newRedisLimiter(cfg config.RateLimitConfig, logger *slog.Logger) (*redisLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisLimiter{
		client:  client,
		logger:  logger,
		prefix:  "doorkeeper:ratelimit:",
		limit:   cfg.RequestsPerMinute,
		window:  time.Minute,
		timeout: 250 * time.Millisecond,
	}, nil
}

func (l *redisLimiter) allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	redisKey := l.prefix + key
	counter, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logRedisError("incr", err)
		return true
	}
	if counter == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logRedisError("expire", err)
		}
	}
	return int(counter) <= l.limit
}

func (l *redisLimiter) logRedisError(op string, err error) {
	if l.logger == nil {
		return
	}
	l.logger.Error("redis rate limiter error", "op", op, "error", err)
}
