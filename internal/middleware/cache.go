package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets Cache-Control for the suggestion-list endpoints.
// Lists change rarely and staleness is harmless (they are hints, not
// references), so clients may serve a stale copy while revalidating.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	header := fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		maxAgeSeconds, maxAgeSeconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", header)
		c.Next()
	}
}
