package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/ratelimit"
)

// RateLimit rejects clients that exceed the limiter's budget, keyed by IP
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			common.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
