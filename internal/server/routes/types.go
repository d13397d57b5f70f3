package routes

import (
	"github.com/knottin/enquiry-api/internal/api/handlers"
	"github.com/knottin/enquiry-api/internal/api/middleware"
	"github.com/knottin/enquiry-api/internal/logging"
)

// Handlers contains all the route handlers
type Handlers struct {
	Enquiry *handlers.EnquiryHandler
	Health  *handlers.HealthHandler
}

// MiddlewareConfig carries the settings global middleware needs
type MiddlewareConfig struct {
	ServiceName  string
	LogRequests  bool
	MaxBodyBytes int64
	CORS         middleware.CORSConfig
	Logger       *logging.Logger
}
