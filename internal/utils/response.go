package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/dto/common"
)

// HandleMessage sends a 200 response with just a message
func HandleMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, common.NewMessageResponse(message))
}

// HandleError sends an error body without logging, for expected client mistakes
func HandleError(c *gin.Context, status int, message string) {
	c.JSON(status, common.NewErrorResponse(message))
}
