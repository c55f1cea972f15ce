// Package middleware provides request filters shared by every route.
// File: middleware/security.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// FrameAncestors controls which sites may embed the scoreboard in a frame,
// e.g. a venue display page. With no ancestors only same-origin framing is allowed.
func FrameAncestors(ancestors []string) gin.HandlerFunc {
	policy := ""
	if len(ancestors) > 0 {
		policy = "frame-ancestors " + strings.Join(ancestors, " ")
	}
	return func(c *gin.Context) {
		if policy == "" {
			c.Header("X-Frame-Options", "SAMEORIGIN")
		} else {
			c.Header("Content-Security-Policy", policy)
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}
