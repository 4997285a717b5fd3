// Package http assembles the gin route tree and the HTTP server
// around the API handlers.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies
// the route tree needs. Nil handlers leave their routes unregistered
// so partial deployments still boot.
type RouterConfig struct {
	AnalysisHandler *handlers.AnalysisHandler
	DocumentHandler *handlers.DocumentHandler
	SearchHandler   *handlers.SearchHandler
	HealthHandler   *handlers.HealthHandler

	Logger      logging.Logger
	Metrics     *prometheus.AppMetrics
	CORS        *middleware.CORSConfig
	RateLimiter *middleware.RateLimiter

	// MetricsCollector, when set, has its registry mounted at /metrics.
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Handler())
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	if h := cfg.AnalysisHandler; h != nil {
		api.POST("/jurisdiction/detect", h.Detect)

		api.POST("/analysis", h.Run)
		api.POST("/analysis/india", h.AnalyzeIndia)
		api.POST("/analysis/us", h.AnalyzeUS)
		api.POST("/analysis/cross-border", h.AnalyzeCrossBorder)
		api.GET("/analysis", h.List)
		api.GET("/analysis/:id", h.Get)
	}
	if h := cfg.DocumentHandler; h != nil {
		api.POST("/documents", h.Upload)
		api.GET("/documents", h.List)
		api.GET("/documents/:id", h.Get)
		api.GET("/documents/:id/content", h.GetContent)
	}
	if h := cfg.SearchHandler; h != nil {
		api.GET("/search", h.Search)
	}

	return r
}
