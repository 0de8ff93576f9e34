package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/voice2action/civic-service/internal/config"
	"github.com/voice2action/civic-service/internal/persistence"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

const rateLimitWindow = 24 * time.Hour

// RateLimiter bounds how many issues a single reporter may submit per day,
// keyed by citizen contact when present and the client IP otherwise. Redis
// outages fail open.
type RateLimiter struct {
	redis  *persistence.Redis
	limit  int
	prefix string
	logger *zap.Logger
}

// NewRateLimiter builds a limiter from config.
func NewRateLimiter(redis *persistence.Redis, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{redis: redis, limit: cfg.IssuesPerDay, prefix: cfg.KeyPrefix, logger: logger}
}

// LimitIssueCreation enforces the per-reporter daily submission cap.
func (rl *RateLimiter) LimitIssueCreation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.redis == nil || rl.redis.Client == nil || rl.limit <= 0 {
			return c.Next()
		}

		key := rl.prefix + ":" + reporterKey(c)
		ctx := c.Context()

		count, err := rl.redis.Client.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("rate limit check failed, allowing request", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := rl.redis.Client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				rl.logger.Warn("rate limit expiry failed", zap.Error(err))
			}
		}
		if count > int64(rl.limit) {
			retryAfter := rateLimitWindow
			if ttl, err := rl.redis.Client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			return apperrors.NewRateLimited("daily submission limit reached", map[string]any{
				"retry_after_seconds": int(retryAfter.Seconds()),
			})
		}
		return c.Next()
	}
}

// reporterKey prefers the citizen contact from the payload so the limit
// follows the reporter across devices. Malformed bodies fall through to the
// handler's own validation.
func reporterKey(c *fiber.Ctx) string {
	var probe struct {
		CitizenContact *string `json:"citizenContact"`
	}
	if err := json.Unmarshal(c.Body(), &probe); err == nil && probe.CitizenContact != nil {
		if contact := strings.TrimSpace(*probe.CitizenContact); contact != "" {
			return contact
		}
	}
	if contact := strings.TrimSpace(c.FormValue("From")); contact != "" {
		return contact
	}
	return c.IP()
}
