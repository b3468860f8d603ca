package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
	"interior-design-backend/internal/redisstore"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redisstore.Decision, error)
}

// RateLimit allows limit requests per window per authenticated user under the given scope.
// A nil limiter or a non-positive limit disables it; a limiter error lets the request through.
func RateLimit(limiter Limiter, log *logger.Logger, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		userID := c.GetString(UserIDKey)
		if userID == "" {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), scope+":"+userID, limit, window)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate limit exceeded",
				Message: "too many generation requests, try again later",
				Code:    "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
