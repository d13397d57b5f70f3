package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/dto/common"
	"github.com/knottin/enquiry-api/internal/logging"
)

// HandleAPIError logs the failure and writes {"error": message} with the given status
func HandleAPIError(c *gin.Context, err error, status int, message string) {
	logging.GetGlobalLogger().LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	c.JSON(status, common.NewErrorResponse(message))
}
