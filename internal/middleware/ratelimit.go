package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/config"
)

// RateLimit applies a fixed-window per-caller limit backed by redis. The
// window key is the username form field when present, else the client IP.
// Without a redis client the limiter is a no-op.
func RateLimit(client *redis.Client, cfg config.RateLimitConfig, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || cfg.Requests <= 0 {
			c.Next()
			return
		}

		caller := c.PostForm("username")
		if caller == "" {
			caller = c.ClientIP()
		}
		key := "ratelimit:tryon:" + caller

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not block generation.
			log.Warn().Err(err).Msg("rate limit check failed")
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, cfg.Window)
		}

		if count > int64(cfg.Requests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many try-on requests, please wait and retry",
			})
			return
		}

		c.Next()
	}
}
