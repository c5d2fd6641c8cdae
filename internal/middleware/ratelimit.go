package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/config"
	"github.com/social-feed/social-feed/pkg/response"
)

const rateLimitMessage = "Too many requests from this IP, please try again later."

// WindowCounter is a fixed-window counter, see cache.RedisClient.IncrWindow.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit 按客户端 IP 的固定窗口限流
func RateLimit(counter WindowCounter, cfg config.RateLimitConfig, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP()
		count, ttl, err := counter.IncrWindow(c.Request.Context(), key, cfg.Window)
		if err != nil {
			log.WithError(err).WithField("client_ip", c.ClientIP()).Warn("Rate limiter unavailable")
			if cfg.FailOpen {
				c.Next()
				return
			}
			response.Fail(c, http.StatusServiceUnavailable, "Rate limiter unavailable")
			return
		}

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			response.Fail(c, http.StatusTooManyRequests, rateLimitMessage)
			return
		}
		c.Next()
	}
}
