package middlewares

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cbeuvrin/toogo-shop-v2-sub001/metrics"
)

type MiddlewareConfig struct {
	RedisClient *redis.Client
	// ServiceKey authenticates internal callers (ops dashboard, poller).
	ServiceKey string
	// RatePerMinute bounds activation requests per caller key.
	RatePerMinute int64
}

// activationRateKey buckets requests per caller key per minute window.
func activationRateKey(apiKey string, now time.Time) string {
	return fmt.Sprintf("ratelimit:activation:%s:%d", apiKey, now.Unix()/60)
}

type bodyWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

// ActivationMiddleware guards the activation endpoint: service-key auth,
// Redis-backed idempotent response replay, and a per-key minute rate limit.
func ActivationMiddleware(cfg *MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		apiKey := c.GetHeader("X-API-Key")
		idempotencyKey := c.GetHeader("X-Idempotency-Key")

		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(cfg.ServiceKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		if idempotencyKey != "" {
			idempRedisKey := fmt.Sprintf("idempotency:activation:%s", idempotencyKey)
			resp, err := cfg.RedisClient.Get(ctx, idempRedisKey).Result()
			if err == nil {
				c.Data(http.StatusOK, "application/json", []byte(resp))
				c.Abort()
				return
			}
		}

		limit := cfg.RatePerMinute
		if limit == 0 {
			limit = 30
		}
		shortKey := activationRateKey(apiKey, time.Now())
		count, _ := cfg.RedisClient.Incr(ctx, shortKey).Result()
		if count == 1 {
			cfg.RedisClient.Expire(ctx, shortKey, time.Minute)
		}
		if count > limit {
			metrics.HttpRateLimitRejectionsTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		bw := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()

		if idempotencyKey != "" && c.Writer.Status() < 400 {
			idempRedisKey := fmt.Sprintf("idempotency:activation:%s", idempotencyKey)
			cfg.RedisClient.Set(ctx, idempRedisKey, bw.body, 24*time.Hour)
		}
	}
}
