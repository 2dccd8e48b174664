package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware creates a custom logging middleware
func LoggerMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)

		logger.Printf(
			"[%s] %s %s | %d | %s | %s",
			c.ClientIP(),
			c.Request.Method,
			path,
			c.Writer.Status(),
			latency,
			c.Errors.String(),
		)
	}
}

// BodyLimitMiddleware caps the request body size so oversized uploads
// fail early instead of being buffered whole.
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
