package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/dto/common"
)

// LimitRequestBody rejects bodies larger than maxBytes.
// Declared lengths are checked up front; streamed bodies are capped with http.MaxBytesReader.
func LimitRequestBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse("Request body too large"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
