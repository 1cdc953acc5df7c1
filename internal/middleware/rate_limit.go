package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/bitebox/frontend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per key in fixed Redis windows. A nil
// *RateLimiter allows everything, which is how limits are disabled when
// Redis is not configured.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	reject ErrorRenderer
	log    *logger.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, reject ErrorRenderer, log *logger.Logger) *RateLimiter {
	if redisClient == nil {
		return nil
	}
	if reject == nil {
		reject = jsonError
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		reject: reject,
		log:    logger.OrNop(log).With("limit", config.KeyPrefix),
		now:    time.Now,
	}
}

// NewLoginRateLimiter limits login attempts to 10 per 15 minutes.
func NewLoginRateLimiter(redisClient *redis.Client, reject ErrorRenderer, log *logger.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    15 * time.Minute,
		Limit:     10,
		KeyPrefix: "bitebox:rate_limit:login",
	}, reject, log)
}

// NewRecipePostRateLimiter limits recipe submissions to 5 per hour.
func NewRecipePostRateLimiter(redisClient *redis.Client, reject ErrorRenderer, log *logger.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     5,
		KeyPrefix: "bitebox:rate_limit:recipe_post",
	}, reject, log)
}

// NewCommentRateLimiter limits comments to 20 per hour.
func NewCommentRateLimiter(redisClient *redis.Client, reject ErrorRenderer, log *logger.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     20,
		KeyPrefix: "bitebox:rate_limit:comment",
	}, reject, log)
}

// Middleware enforces the limit keyed by the visitor's session id.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}

		key := SessionFrom(c).ID()
		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), key)
		if err != nil {
			// Redis trouble must not lock users out
			rl.log.Warnw("rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := resetTime.Sub(rl.now())
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			rl.reject(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many attempts. Please wait %s and try again.", retryAfter.Round(time.Minute)))
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) windowKey(id string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, id, windowStart.Unix())
}

// IsAllowed counts a request for id and reports whether it is within the limit
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, id string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	key := rl.windowKey(id, windowStart)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}
