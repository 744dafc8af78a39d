package ratelimit

import (
	"converse/common"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware caps the request rate of the whole engine, bursts up to
// rps are allowed.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), rps)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, &common.ErrorBody{
				Code: "common.too_many_requests", Message: "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
