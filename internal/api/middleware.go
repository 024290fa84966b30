package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const ownerKey = "ownerID"

// OwnerMiddleware scopes every request to the server's configured owner
func OwnerMiddleware(ownerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// RequestLogger logs each request through slog
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
