package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/constants"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/utils"
)

// RequestLogger logs one line per request when enabled
func RequestLogger(logger *logging.Logger, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
