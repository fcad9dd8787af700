package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the limiter on a route group. Applied to mutating
// routes only; reads go through the query cache and are not limited.
func Middleware(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			stats := limiter.GetStats()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
				"stats": stats,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
