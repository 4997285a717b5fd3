package prometheus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllInstrumentsRegistered(t *testing.T) {
	t.Parallel()
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.AnalysesTotal)
	assert.NotNil(t, m.DetectionConfidence)
	assert.NotNil(t, m.EngineDuration)
	assert.NotNil(t, m.EscalationsTotal)
	assert.NotNil(t, m.LLMReviewsTotal)
	assert.NotNil(t, m.TasksTotal)
	assert.NotNil(t, m.DeadLettersTotal)
	assert.NotNil(t, m.SearchRequestsTotal)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.HealthCheckStatus)
}

func TestRecordHTTPRequest(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/analysis", 202, 100*time.Millisecond, 2048)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="POST",path="/api/v1/analysis",status_code="202"} 1`)
	assert.Contains(t, output, `test_unit_http_request_duration_seconds_count{method="POST",path="/api/v1/analysis"} 1`)
	assert.Contains(t, output, `test_unit_http_response_size_bytes_sum{method="POST",path="/api/v1/analysis"} 2048`)
}

func TestRecordHTTPRequest_ZeroResponseSizeSkipped(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "GET", "/healthz", 200, time.Millisecond, 0)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="GET",path="/healthz",status_code="200"} 1`)
	assert.NotContains(t, output, `test_unit_http_response_size_bytes_count{method="GET"`)
}

func TestRecordAnalysis_Completed(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordAnalysis(m, "full", "INDIA", 150*time.Millisecond, nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_analyses_total{jurisdiction="INDIA",status="completed",type="full"} 1`)
	assert.Contains(t, output, `test_unit_analysis_duration_seconds_count{type="full"} 1`)
}

func TestRecordAnalysis_Failed(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordAnalysis(m, "cross_border", "CROSS_BORDER", time.Second, errors.New("boom"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_analyses_total{jurisdiction="CROSS_BORDER",status="failed",type="cross_border"} 1`)
}

func TestRecordDetection(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordDetection(m, "USA", 0.65)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_detection_confidence_count{jurisdiction="USA"} 1`)
	assert.Contains(t, output, `test_unit_detection_confidence_sum{jurisdiction="USA"} 0.65`)
}

func TestRecordEngineRun(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordEngineRun(m, "juris_net", 2*time.Millisecond)
	RecordEngineRun(m, "juris_net", 3*time.Millisecond)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_engine_duration_seconds_count{engine="juris_net"} 2`)
}

func TestRecordEscalation(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordEscalation(m, "low_confidence")

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_escalations_total{reason="low_confidence"} 1`)
}

func TestRecordLLMReview(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordLLMReview(m, "gemini/gemini-1.5-flash", LLMOutcomeAdopted, 2*time.Second)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_llm_reviews_total{model="gemini/gemini-1.5-flash",outcome="adopted"} 1`)
	assert.Contains(t, output, `test_unit_llm_review_duration_seconds_count{model="gemini/gemini-1.5-flash"} 1`)
}

func TestRecordTaskLifecycle(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordTask(m, "legal.analysis.request", "completed", 500*time.Millisecond)
	RecordTaskRetry(m, "legal.analysis.request")
	RecordDeadLetter(m, "legal.analysis.request")

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_tasks_total{status="completed",topic="legal.analysis.request"} 1`)
	assert.Contains(t, output, `test_unit_task_retries_total{topic="legal.analysis.request"} 1`)
	assert.Contains(t, output, `test_unit_dead_letters_total{topic="legal.analysis.request"} 1`)
}

func TestRecordDocumentOperationAndSize(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordDocumentOperation(m, "upload", nil)
	RecordDocumentOperation(m, "fetch", errors.New("missing"))
	RecordDocumentSize(m, 4096)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_document_operations_total{operation="upload",status="completed"} 1`)
	assert.Contains(t, output, `test_unit_document_operations_total{operation="fetch",status="failed"} 1`)
	assert.Contains(t, output, "test_unit_document_size_bytes_sum 4096")
}

func TestRecordSearch(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordSearch(m, 20*time.Millisecond, nil)
	RecordSearch(m, 5*time.Millisecond, errors.New("index down"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_search_requests_total{status="completed"} 1`)
	assert.Contains(t, output, `test_unit_search_requests_total{status="failed"} 1`)
	assert.Contains(t, output, "test_unit_search_duration_seconds_count 2")
}

func TestRecordIndexOperation(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordIndexOperation(m, "index", nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_index_operations_total{operation="index",status="completed"} 1`)
}

func TestRecordDBQuery_Error(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordDBQuery(m, "insert", 5*time.Millisecond, errors.New("db error"))

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_db_query_duration_seconds_count{operation="insert"} 1`)
	assert.Contains(t, output, `test_unit_errors_total{code="query_error",component="postgres"} 1`)
}

func TestSetDBPoolStats(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	SetDBPoolStats(m, 3, 7, 25)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_db_pool_connections{state="acquired"} 3`)
	assert.Contains(t, output, `test_unit_db_pool_connections{state="idle"} 7`)
	assert.Contains(t, output, `test_unit_db_pool_connections{state="max"} 25`)
}

func TestRecordCacheAccess(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "analysis", true)
	RecordCacheAccess(m, "analysis", true)
	RecordCacheAccess(m, "analysis", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_cache_hits_total{cache="analysis"} 2`)
	assert.Contains(t, output, `test_unit_cache_misses_total{cache="analysis"} 1`)
}

func TestRecordStorageOperation(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	RecordStorageOperation(m, "put", nil)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_storage_operations_total{operation="put",status="completed"} 1`)
}

func TestSetComponentHealth(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	SetComponentHealth(m, "postgres", true)
	SetComponentHealth(m, "opensearch", false)

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_health_check_status{component="postgres"} 1`)
	assert.Contains(t, output, `test_unit_health_check_status{component="opensearch"} 0`)
}

func TestConcurrentMetricRecording(t *testing.T) {
	t.Parallel()
	m, c := newTestAppMetrics(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordHTTPRequest(m, "GET", "/path", 200, time.Millisecond, 10)
			}
		}()
	}
	wg.Wait()

	output := scrapeMetrics(t, c)
	assert.Contains(t, output, `test_unit_http_requests_total{method="GET",path="/path",status_code="200"} 1000`)
}
