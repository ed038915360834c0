package app

import (
	"context"
	"fmt"
	"log/slog"

	"retrofit_risk/internal/api"
	"retrofit_risk/internal/api/handlers"
	"retrofit_risk/internal/assessment"
	"retrofit_risk/internal/config"
	"retrofit_risk/internal/engine"
	"retrofit_risk/internal/forecast"
	"retrofit_risk/internal/repository"
	"retrofit_risk/pkg/cache"
	"retrofit_risk/pkg/database"
	"retrofit_risk/pkg/monitoring"
)

// Container manages all application dependencies following dependency
// injection principles
type Container struct {
	config *config.Config
	logger *slog.Logger

	forecasts     *forecast.MarketForecasts
	assessmentSvc *assessment.Service
	defaultsRepo  repository.DefaultsRepository
	healthService *HealthService
	metrics       *monitoring.MetricsCollector

	db    *database.PostgresDB
	redis *cache.RedisClient

	server *api.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}
	if err := container.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	return container, nil
}

// initializeServices initializes all services in dependency order
func (c *Container) initializeServices() error {
	// Forecast tables first: an invalid dataset must prevent startup
	forecasts, err := forecast.LoadMarketForecasts(c.config.Forecast.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load market forecasts: %w", err)
	}
	c.forecasts = forecasts
	c.logger.Info("Market forecasts loaded",
		"version", forecasts.Version,
		"source", forecastSource(c.config.Forecast.DataPath),
	)

	if c.config.Metrics.Enabled {
		c.metrics = monitoring.NewMetricsCollector()
	}

	if err := c.initializeStorage(); err != nil {
		return err
	}
	c.initializeAssessmentService()
	c.initializeHealthService()
	c.initializeAPIComponents()
	return nil
}

// initializeStorage wires the optional defaults database and result cache
func (c *Container) initializeStorage() error {
	if dsn := c.config.Database.ConnectionString; dsn != "" {
		db, err := database.NewPostgresDB(dsn)
		if err != nil {
			return fmt.Errorf("failed to connect defaults store: %w", err)
		}
		c.db = db
		c.defaultsRepo = repository.NewPostgresDefaultsRepository(db.GetDB())
		c.logger.Info("Defaults store connected", "backend", "postgres")
	} else {
		c.defaultsRepo = repository.NewMemoryDefaultsRepository()
		c.logger.Info("Defaults store connected", "backend", "memory")
	}

	if addr := c.config.Cache.Address; addr != "" {
		c.redis = cache.NewRedisClient(addr, c.config.Cache.Password, c.config.Cache.DB)
		c.logger.Info("Result cache enabled", "addr", addr)
	}
	return nil
}

func (c *Container) initializeAssessmentService() {
	kernel := engine.NewKernel(c.config.Engine.WorkerCount)
	svc := assessment.NewService(c.forecasts, kernel, c.logger)
	if c.redis != nil {
		svc = svc.WithCache(c.redis, c.config.Cache.TTL)
	}
	if c.metrics != nil {
		svc = svc.WithRecorder(c.metrics)
	}
	c.assessmentSvc = svc
}

func (c *Container) initializeHealthService() {
	c.healthService = NewHealthService(c.config.Health, c.logger)

	c.healthService.RegisterCheck("forecasts", func(context.Context) error {
		return c.forecasts.Validate()
	})
	if c.db != nil {
		c.healthService.RegisterCheck("database", c.db.Ping)
	}
	if c.redis != nil {
		c.healthService.RegisterCheck("cache", c.redis.Ping)
	}
}

func (c *Container) initializeAPIComponents() {
	handlerSet := &api.Handlers{
		Assessment: handlers.NewAssessmentHandler(c.assessmentSvc, c.defaultsRepo, c.logger),
		Stream:     handlers.NewStreamHandler(c.assessmentSvc, c.defaultsRepo, c.logger),
		Health:     handlers.NewHealthHandler(c.healthService),
	}
	if c.metrics != nil {
		handlerSet.Metrics = c.metrics.Handler()
	}

	c.server = api.NewServer(handlerSet, &api.Config{
		Host:         c.config.Server.Host,
		Port:         c.config.Server.Port,
		Environment:  c.config.Server.Environment,
		ReadTimeout:  c.config.Server.ReadTimeout,
		WriteTimeout: c.config.Server.WriteTimeout,
		IdleTimeout:  c.config.Server.IdleTimeout,
		EnableCORS:   c.config.Server.EnableCORS,
	}, c.logger)
}

// GetServer returns the HTTP server
func (c *Container) GetServer() *api.Server {
	return c.server
}

// GetAssessmentService returns the risk-assessment service
func (c *Container) GetAssessmentService() *assessment.Service {
	return c.assessmentSvc
}

// GetHealthService returns the health service
func (c *Container) GetHealthService() *HealthService {
	return c.healthService
}

// Shutdown closes all held resources
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error

	if c.healthService != nil {
		c.healthService.Stop()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func forecastSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
