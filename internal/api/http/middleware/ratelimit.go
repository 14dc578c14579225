package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dmarkhas/tasklane-server/internal/logger"
)

// rateCounter is the slice of the Redis API the limiter uses.
type rateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit is a fixed-window per-IP limiter backed by Redis, applied to
// the login link endpoint so one caller cannot flood the notifier. With
// no Redis client it passes everything through.
type RateLimit struct {
	rdb    rateCounter
	limit  int64
	window time.Duration
	logger *logger.Logger
}

func NewRateLimit(rdb *redis.Client, limit int64, window time.Duration, logger *logger.Logger) *RateLimit {
	m := &RateLimit{limit: limit, window: window, logger: logger}
	if rdb != nil {
		m.rdb = rdb
	}
	return m
}

// Limit counts requests per client IP in the current window and rejects
// with 429 past the limit. Redis failures degrade to letting the request
// through.
func (m *RateLimit) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	if m.rdb == nil {
		return next
	}

	return func(c echo.Context) error {
		ctx := c.Request().Context()
		key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.RealIP())

		count, err := m.rdb.Incr(ctx, key).Result()
		if err != nil {
			m.logger.Error("rate limiter unavailable", "error", err.Error())
			return next(c)
		}
		if count == 1 {
			// A key that never expires would lock the IP out permanently.
			if err := m.rdb.Expire(ctx, key, m.window).Err(); err != nil {
				m.logger.Error("failed to set rate limit window",
					"key", key,
					"error", err.Error())
			}
		}

		if count > m.limit {
			c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(m.window.Seconds())))
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		}

		return next(c)
	}
}
