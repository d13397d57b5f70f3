package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/constants"
	"github.com/knottin/enquiry-api/internal/api/dto/common"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/utils"
)

// Recovery turns panics into a logged 500 response
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		logger.Error("[PANIC] %s %s | %s | %s | %v",
			c.Request.Method,
			c.Request.URL.Path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse("Internal server error"))
	})
}
