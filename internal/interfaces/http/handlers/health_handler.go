package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// Check probes one dependency. Implementations should respect the
// context deadline; the handler bounds every probe.
type Check func(ctx context.Context) error

// Checker is one named readiness probe.
type Checker struct {
	Name  string
	Check Check
}

// checkTimeout bounds each individual readiness probe.
const checkTimeout = 3 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version  string
	startAt  time.Time
	checkers []Checker
}

// NewHealthHandler builds the handler with the dependencies readiness
// should verify.
func NewHealthHandler(version string, checkers ...Checker) *HealthHandler {
	return &HealthHandler{
		version:  version,
		startAt:  time.Now(),
		checkers: checkers,
	}
}

// LivenessResponse answers /healthz.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse answers /readyz.
type ReadinessResponse struct {
	Status     string                   `json:"status"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Liveness handles GET /healthz. It confirms the process only; no
// dependency is touched.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  string(common.HealthUp),
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz. All probes run concurrently; any
// failure makes the whole answer 503 so load balancers stop routing.
func (h *HealthHandler) Readiness(c *gin.Context) {
	components := h.probe(c.Request.Context())

	status := common.HealthUp
	httpStatus := http.StatusOK
	for _, comp := range components {
		if comp.Status != common.HealthUp {
			status = common.HealthDown
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(httpStatus, ReadinessResponse{
		Status:     string(status),
		Components: components,
	})
}

func (h *HealthHandler) probe(ctx context.Context) []common.ComponentHealth {
	components := make([]common.ComponentHealth, len(h.checkers))
	var wg sync.WaitGroup
	for i, checker := range h.checkers {
		wg.Add(1)
		go func(i int, checker Checker) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			started := time.Now()
			err := checker.Check(probeCtx)
			health := common.ComponentHealth{
				Name:    checker.Name,
				Status:  common.HealthUp,
				Latency: time.Since(started),
			}
			if err != nil {
				health.Status = common.HealthDown
				health.Message = err.Error()
			}
			components[i] = health
		}(i, checker)
	}
	wg.Wait()
	return components
}
