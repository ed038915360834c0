package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"retrofit_risk/internal/config"
)

// Application represents the main application orchestrator
type Application struct {
	config    *config.Config
	logger    *slog.Logger
	container *Container

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	waitGroup sync.WaitGroup

	// State tracking
	startTime time.Time
	isRunning bool
	mutex     sync.RWMutex
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := initializeLogger(cfg.Logging)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	container, err := NewContainer(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	app.container = container

	logger.Info("Application initialized",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"metrics_enabled", cfg.Metrics.Enabled,
		"health_enabled", cfg.Health.Enabled,
	)
	return app, nil
}

// Start starts the application and all its components
func (a *Application) Start() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.isRunning {
		return fmt.Errorf("application is already running")
	}

	a.logger.Info("Starting application")
	a.startTime = time.Now()

	if err := a.startServer(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	a.isRunning = true
	a.logger.Info("Application started",
		"startup_duration", time.Since(a.startTime),
	)
	return nil
}

// startServer starts the HTTP server in the background
func (a *Application) startServer() error {
	server := a.container.GetServer()
	if server == nil {
		return fmt.Errorf("server not available")
	}

	a.waitGroup.Add(1)
	go func() {
		defer a.waitGroup.Done()

		a.logger.Info("HTTP server listening",
			"host", a.config.Server.Host,
			"port", a.config.Server.Port,
			"environment", a.config.Server.Environment,
		)

		if err := server.StartWithContext(a.ctx); err != nil {
			select {
			case <-a.ctx.Done():
				a.logger.Info("HTTP server stopped")
			default:
				a.logger.Error("HTTP server failed", "error", err)
			}
		}
	}()
	return nil
}

// Stop gracefully stops the application and all its components
func (a *Application) Stop() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if !a.isRunning {
		return fmt.Errorf("application is not running")
	}

	a.logger.Info("Stopping application")
	stopStart := time.Now()

	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := a.container.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("Container shutdown completed with errors", "error", err)
	}

	done := make(chan struct{})
	go func() {
		a.waitGroup.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All goroutines stopped gracefully")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached, some goroutines may still be running")
	}

	a.isRunning = false
	a.logger.Info("Application stopped",
		"uptime", time.Since(a.startTime),
		"shutdown_duration", time.Since(stopStart),
	)
	return nil
}

// IsRunning returns true if the application is currently running
func (a *Application) IsRunning() bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.isRunning
}

// GetConfig returns the application configuration
func (a *Application) GetConfig() *config.Config {
	return a.config
}

// GetContainer returns the dependency injection container
func (a *Application) GetContainer() *Container {
	return a.container
}

// initializeLogger builds the structured logger from configuration
func initializeLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
