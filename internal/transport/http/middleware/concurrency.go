package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"go-rest-secure-api/internal/transport/http/response"
)

// ConcurrencyLimit 限制在处理的请求数，保护 DB 和 S3 下游
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c, 1); err != nil {
			response.Abort(c, http.StatusServiceUnavailable, "SERVER_BUSY", "server busy")
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
