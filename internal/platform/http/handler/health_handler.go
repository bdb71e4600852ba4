// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// checkTimeout bounds each dependency check.
const checkTimeout = 2 * time.Second

// Check reports whether a dependency is reachable.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// HealthHandler serves /healthz.
type HealthHandler struct {
	checks []Check
	log    logrus.FieldLogger
}

// NewHealthHandler returns a handler that runs checks on every GET/HEAD request.
// With no checks it only reports that the process is up.
func NewHealthHandler(log logrus.FieldLogger, checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, log: log}
}

// Health responds according to the HTTP method and always disables caching.
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	failed := h.runChecks(c.Request.Context())
	status := http.StatusOK
	if len(failed) > 0 {
		status = http.StatusServiceUnavailable
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	if len(failed) > 0 {
		c.JSON(status, gin.H{"status": "unavailable", "checks": failed})
		return
	}
	c.JSON(status, gin.H{"status": "ok"})
}

// runChecks returns the name of each failing check mapped to "down".
func (h *HealthHandler) runChecks(ctx context.Context) map[string]string {
	var failed map[string]string
	for _, chk := range h.checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := chk.Fn(cctx)
		cancel()
		if err == nil {
			continue
		}
		h.log.WithError(err).WithField("check", chk.Name).Warn("health check failed")
		if failed == nil {
			failed = make(map[string]string, len(h.checks))
		}
		failed[chk.Name] = "down"
	}
	return failed
}
