package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace: "test",
		Subsystem: "unit",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_ValidConfig(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)
	assert.NotNil(t, c)
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	t.Parallel()
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "unit"}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestNewMetricsCollector_WithProcessMetrics(t *testing.T) {
	t.Parallel()
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace:            "test",
		EnableProcessMetrics: true,
	}, logging.NewNopLogger())
	require.NoError(t, err)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "process_cpu_seconds_total")
}

func TestNewMetricsCollector_WithGoMetrics(t *testing.T) {
	t.Parallel()
	c, err := NewMetricsCollector(CollectorConfig{
		Namespace:       "test",
		EnableGoMetrics: true,
	}, logging.NewNopLogger())
	require.NoError(t, err)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "go_goroutines")
}

func TestRegisterCounter_WithLabels(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	counter := c.RegisterCounter("http_requests", "HTTP requests", "method")
	counter.WithLabelValues("GET").Add(5)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests{method="GET"} 5`)
}

func TestRegisterCounter_DuplicateSharesInstrument(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	c1 := c.RegisterCounter("dup_counter", "help")
	c2 := c.RegisterCounter("dup_counter", "help")
	c1.WithLabelValues().Inc()
	c2.WithLabelValues().Inc()

	// Both handles point at the same registered counter.
	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_dup_counter 2")
}

func TestRegisterGauge_Success(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	gauge := c.RegisterGauge("active_reviews", "Active reviews", "engine")
	gauge.WithLabelValues("india_lex").Set(10)
	gauge.WithLabelValues("india_lex").Dec()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_active_reviews{engine="india_lex"} 9`)
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	hist := c.RegisterHistogram("latency", "Latency", nil)
	hist.WithLabelValues().Observe(0.1)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_latency_bucket")
	assert.Contains(t, output, "test_unit_latency_count 1")
}

func TestTypeConflictFallsBackToNoop(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	// Same name, different type: callers get a working no-op, the registry
	// keeps the original.
	gauge := c.RegisterGauge("conflict", "help")
	assert.NotPanics(t, func() { gauge.WithLabelValues().Set(10) })

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "# TYPE test_unit_conflict counter")
}

func TestConcurrentRegistration(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_metric", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_concurrent_metric{id="1"} 50`)
}

func TestTimer_MeasuresDuration(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	hist := c.RegisterHistogram("timer_test", "Timer test", nil)
	timer := NewTimer(hist.WithLabelValues())
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "test_unit_timer_test_count 1")
}

func TestTimer_NilHistogramIsSafe(t *testing.T) {
	t.Parallel()
	timer := NewTimer(nil)
	assert.NotPanics(t, timer.ObserveDuration)
}

func TestMustRegister_CustomCollector(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	pc := prometheus.NewCounter(prometheus.CounterOpts{Name: "custom_collector"})
	c.MustRegister(pc)
	pc.Inc()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, "custom_collector 1")
}

func TestUnregister_Success(t *testing.T) {
	t.Parallel()
	c := newTestCollector(t)

	pc := prometheus.NewCounter(prometheus.CounterOpts{Name: "to_unregister"})
	c.MustRegister(pc)
	assert.True(t, c.Unregister(pc))

	output := scrapeMetrics(t, c)
	assert.NotContains(t, output, "to_unregister")
}
