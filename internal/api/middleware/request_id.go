package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/knottin/enquiry-api/internal/api/constants"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Reuse an upstream request ID when the proxy provides one
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()
	}
}
