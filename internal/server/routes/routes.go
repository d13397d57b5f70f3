package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers) {
	SetupHealthRoutes(router, h.Health)
	SetupEnquiryRoutes(router.Group("/api"), h.Enquiry)
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, m MiddlewareConfig) {
	router.Use(middleware.Recovery(m.Logger))
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(m.ServiceName))
	router.Use(middleware.RequestLogger(m.Logger, m.LogRequests))
	router.Use(middleware.CORS(m.CORS))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.LimitRequestBody(m.MaxBodyBytes))
}
