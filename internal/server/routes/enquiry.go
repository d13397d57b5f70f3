package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/handlers"
)

// SetupEnquiryRoutes configures the public enquiry form endpoint
func SetupEnquiryRoutes(router *gin.RouterGroup, enquiry *handlers.EnquiryHandler) {
	router.POST("/enquire", enquiry.Submit)
	// Lets CORS middleware answer browser preflights
	router.OPTIONS("/enquire", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}
