package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/middleware"
)

func TestRouterServesHealthWithoutAPIHandlers(t *testing.T) {
	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test"),
		Logger:        logging.NewNopLogger(),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterUnregisteredRouteIs404(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: logging.NewNopLogger()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/analysis", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterStampsRequestID(t *testing.T) {
	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test"),
		Logger:        logging.NewNopLogger(),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouterAppliesRateLimit(t *testing.T) {
	router := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test"),
		Logger:        logging.NewNopLogger(),
		RateLimiter:   middleware.NewRateLimiter(middleware.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}),
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
