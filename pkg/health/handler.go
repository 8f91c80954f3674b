package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	LivePath  = "/health/live"
	ReadyPath = "/health/ready"
)

// Register mounts the liveness and readiness probes on r.
func Register(r gin.IRoutes, registry *Registry, timeout time.Duration) {
	r.GET(LivePath, LivenessHandler())
	r.GET(ReadyPath, ReadinessHandler(registry, timeout))
}

// LivenessHandler always answers 200 while the process serves requests.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": StatusUp})
	}
}

// ReadinessHandler answers 200 when all checks pass and 503 otherwise.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)

		status := http.StatusOK
		if response.Status != StatusUp {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, response)
	}
}
