package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knottin/enquiry-api/internal/api/handlers"
	"github.com/knottin/enquiry-api/internal/api/middleware"
	"github.com/knottin/enquiry-api/internal/config"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/server/routes"
)

// ServiceName identifies this process in traces and logs
const ServiceName = "enquiry-api"

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	logger     *logging.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Gin's own logger is replaced by the request logger middleware
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	return &Server{
		cfg:    cfg,
		logger: logger,
		router: gin.New(),
	}
}

// Init builds services and handlers and registers all routes
func (s *Server) Init(ctx context.Context) error {
	services, err := NewServices(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}

	s.logger.Info("Mail transport: %s, email validation: %s", s.cfg.MailTransport, services.Validator.Policy())

	h := &routes.Handlers{
		Enquiry: handlers.NewEnquiryHandler(handlers.EnquiryConfig{
			Inbox:         s.cfg.EnquiryInbox,
			Subject:       s.cfg.EnquirySubject,
			SenderName:    s.cfg.SenderName,
			SenderAddress: s.cfg.SenderAddress,
			TemplatePath:  s.cfg.EnquiryTemplatePath,
		}, services.Validator, services.Templates, services.Mail, s.logger),
		Health: handlers.NewHealthHandler(),
	}

	routes.SetupGlobalMiddleware(s.router, routes.MiddlewareConfig{
		ServiceName:  ServiceName,
		LogRequests:  s.cfg.LogRequests,
		MaxBodyBytes: s.cfg.MaxBodyBytes,
		CORS: middleware.CORSConfig{
			Permissive:     !s.cfg.IsProduction(),
			AllowedOrigins: s.cfg.Origins(),
		},
		Logger: s.logger,
	})
	routes.Setup(s.router, h)

	s.logger.Info("All routes have been set up successfully")
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Listening on :%s", s.cfg.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
