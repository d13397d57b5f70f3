package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP extracts the client IP, preferring headers set by the fronting proxy
func GetRealIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	// X-Forwarded-For is "client, proxy1, proxy2"; the leftmost entry is the client
	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		clientIP, _, _ := strings.Cut(forwardedFor, ",")
		if clientIP = strings.TrimSpace(clientIP); clientIP != "" {
			return clientIP
		}
	}

	return c.ClientIP()
}
