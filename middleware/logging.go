// File: middleware/logging.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"kabaddi-scoreboard/logger"
)

// RequestLogger logs one line per request; server errors go to the error level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		path := c.Request.URL.Path
		switch {
		case status >= 500:
			logger.Error.Printf("[%s] %s %d %s %v", c.Request.Method, path, status, elapsed, c.Errors.String())
		case status >= 400:
			logger.Warn.Printf("[%s] %s %d %s", c.Request.Method, path, status, elapsed)
		default:
			logger.Debug.Printf("[%s] %s %d %s", c.Request.Method, path, status, elapsed)
		}
	}
}
