package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"retrofit_risk/internal/config"
)

// HealthCheck represents a single component health check
type HealthCheck func(ctx context.Context) error

// HealthStatus represents the aggregated health of the service
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Duration   time.Duration     `json:"duration"`
	Checks     map[string]string `json:"checks"`
	ErrorCount int               `json:"error_count"`
	LastError  string            `json:"last_error,omitempty"`
}

// HealthService manages health checks for all application components
type HealthService struct {
	config config.HealthConfig
	logger *slog.Logger

	checks    map[string]HealthCheck
	checksMux sync.RWMutex

	lastStatus HealthStatus
	statusMux  sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHealthService creates a new health service
func NewHealthService(cfg config.HealthConfig, logger *slog.Logger) *HealthService {
	ctx, cancel := context.WithCancel(context.Background())

	service := &HealthService{
		config: cfg,
		logger: logger,
		checks: make(map[string]HealthCheck),
		lastStatus: HealthStatus{
			Status:    "starting",
			Timestamp: time.Now(),
			Checks:    make(map[string]string),
		},
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.Enabled {
		go service.runPeriodicChecks()
	}
	return service
}

// RegisterCheck registers a new health check
func (h *HealthService) RegisterCheck(name string, check HealthCheck) {
	h.checksMux.Lock()
	defer h.checksMux.Unlock()

	h.checks[name] = check
	h.logger.Info("Health check registered", "name", name)
}

// Check performs all registered health checks
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	start := time.Now()

	h.checksMux.RLock()
	checks := make(map[string]HealthCheck, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.checksMux.RUnlock()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: start,
		Checks:    make(map[string]string),
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	for name, check := range checks {
		if err := check(checkCtx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = "failed: " + err.Error()
			status.ErrorCount++
			status.LastError = err.Error()
			h.logger.Warn("Health check failed", "name", name, "error", err)
		} else {
			status.Checks[name] = "healthy"
		}
	}
	status.Duration = time.Since(start)

	h.statusMux.Lock()
	h.lastStatus = status
	h.statusMux.Unlock()

	return status
}

// Status implements the handlers.HealthChecker interface
func (h *HealthService) Status(ctx context.Context) (bool, map[string]string) {
	status := h.Check(ctx)
	return status.Status == "healthy", status.Checks
}

// GetStatus returns the last health check status
func (h *HealthService) GetStatus() HealthStatus {
	h.statusMux.RLock()
	defer h.statusMux.RUnlock()
	return h.lastStatus
}

// Stop terminates the periodic check loop
func (h *HealthService) Stop() {
	h.cancel()
}

func (h *HealthService) runPeriodicChecks() {
	ticker := time.NewTicker(h.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.Check(h.ctx)
		}
	}
}
