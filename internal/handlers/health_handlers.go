package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything a readiness probe can reach: the pgx pool, the cache and
// the object store all satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name     string
	pinger   Pinger
	critical bool
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	deps      []dependency
	version   string
	startedAt time.Time
	timeout   time.Duration
}

// NewHealthHandlers creates health handlers for the database. Optional
// dependencies are added with WithDependency.
func NewHealthHandlers(db Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		deps:      []dependency{{name: "database", pinger: db, critical: true}},
		version:   version,
		startedAt: time.Now(),
		timeout:   2 * time.Second,
	}
}

// WithDependency registers another backend. Critical dependencies fail the
// readiness probe; the others only degrade /health.
func (h *HealthHandlers) WithDependency(name string, p Pinger, critical bool) *HealthHandlers {
	h.deps = append(h.deps, dependency{name: name, pinger: p, critical: critical})
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func (h *HealthHandlers) check(ctx context.Context) (services map[string]string, degraded, critical bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	services = make(map[string]string, len(h.deps))
	for _, d := range h.deps {
		if err := d.pinger.Ping(ctx); err != nil {
			services[d.name] = "unhealthy"
			degraded = true
			critical = critical || d.critical
			continue
		}
		services[d.name] = "healthy"
	}
	return services, degraded, critical
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	services, degraded, _ := h.check(c.Request().Context())
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   services,
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	statusCode := http.StatusOK
	if degraded {
		health.Status = "degraded"
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck handles GET /health/ready
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	services, _, critical := h.check(c.Request().Context())
	if critical {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   "not_ready",
			"message":  "Critical services unavailable",
			"services": services,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ready",
		"message":  "All systems operational",
		"services": services,
	})
}

// LivenessCheck handles GET /health/live
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
