package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"retrofit_risk/internal/api/handlers"
	"retrofit_risk/internal/api/middleware"
)

// Server represents the HTTP server with dependency injection
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *Config
	logger     *slog.Logger
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	EnableCORS   bool
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Assessment *handlers.AssessmentHandler
	Stream     *handlers.StreamHandler
	Health     *handlers.HealthHandler

	// Metrics is nil when metrics exposure is disabled
	Metrics http.Handler
}

// NewServer creates a new server wired with the given handlers
func NewServer(h *Handlers, config *Config, logger *slog.Logger) *Server {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	server := &Server{
		router: router,
		config: config,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes(h)

	server.httpServer = &http.Server{
		Addr:         config.Host + ":" + config.Port,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return server
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	// Recovery middleware (must be first)
	s.router.Use(middleware.ErrorHandlerMiddleware(s.logger))
	s.router.Use(middleware.LoggingMiddleware())
	s.router.Use(middleware.SecurityHeadersMiddleware())
	if s.config.EnableCORS {
		s.router.Use(middleware.CORSMiddleware())
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(h *Handlers) {
	s.router.GET("/health", h.Health.Health)
	s.router.GET("/ready", h.Health.Ready)

	if h.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/risk-assessment", h.Assessment.RunAssessment)
	}

	s.router.GET("/ws/risk-assessment", h.Stream.Stream)
}

// StartWithContext runs the server until the context is cancelled
func (s *Server) StartWithContext(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Router exposes the gin engine for handler tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
