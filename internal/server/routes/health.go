package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/handlers"
)

// SetupHealthRoutes registers the liveness probe. HEAD is answered without a body for load balancers.
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler) {
	router.GET("/health", health.Check)
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}
