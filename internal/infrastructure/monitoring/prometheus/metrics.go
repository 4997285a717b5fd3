package prometheus

import (
	"strconv"
	"time"
)

// LLM review outcomes recorded against llm_reviews_total. The orchestrator
// labels each collaborator round-trip with how its opinion was used.
const (
	LLMOutcomeAdopted   = "adopted"
	LLMOutcomeAgreed    = "agreed"
	LLMOutcomeDisagreed = "disagreed"
	LLMOutcomeUnparsed  = "unparsed"
	LLMOutcomeError     = "error"
)

// AppMetrics holds every instrument the platform exports.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPResponseSize    HistogramVec
	HTTPActiveRequests  GaugeVec

	// Detection and analysis
	AnalysesTotal       CounterVec
	AnalysisDuration    HistogramVec
	DetectionConfidence HistogramVec
	EngineDuration      HistogramVec
	EscalationsTotal    CounterVec

	// LLM collaborator
	LLMReviewsTotal   CounterVec
	LLMReviewDuration HistogramVec

	// Async pipeline
	TasksTotal       CounterVec
	TaskDuration     HistogramVec
	TaskRetriesTotal CounterVec
	DeadLettersTotal CounterVec
	ActiveWorkers    GaugeVec

	// Documents and search
	DocumentOperationsTotal CounterVec
	DocumentSize            HistogramVec
	SearchRequestsTotal     CounterVec
	SearchDuration          HistogramVec
	IndexOperationsTotal    CounterVec

	// Infrastructure
	DBQueryDuration        HistogramVec
	DBPoolConnections      GaugeVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	StorageOperationsTotal CounterVec

	// Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Bucket layouts. Rule-based engines run in-process and finish in
// milliseconds; LLM reviews and async tasks live on a much slower scale.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultEngineDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultLLMDurationBuckets    = []float64{.25, .5, 1, 2, 5, 10, 15, 30, 60}
	DefaultTaskDurationBuckets   = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultSizeBuckets           = []float64{1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 16 << 20}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	ConfidenceBuckets            = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// NewAppMetrics registers the full instrument set on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "HTTP requests served", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request latency", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response body size", DefaultSizeBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	// Detection and analysis
	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Completed legal analyses", "type", "jurisdiction", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "End-to-end analysis latency", DefaultTaskDurationBuckets, "type")
	m.DetectionConfidence = collector.RegisterHistogram("detection_confidence", "Jurisdiction detection confidence", ConfidenceBuckets, "jurisdiction")
	m.EngineDuration = collector.RegisterHistogram("engine_duration_seconds", "Rule engine execution time", DefaultEngineDurationBuckets, "engine")
	m.EscalationsTotal = collector.RegisterCounter("escalations_total", "Detections escalated to the LLM collaborator", "reason")

	// LLM collaborator
	m.LLMReviewsTotal = collector.RegisterCounter("llm_reviews_total", "LLM second-opinion reviews", "model", "outcome")
	m.LLMReviewDuration = collector.RegisterHistogram("llm_review_duration_seconds", "LLM review round-trip time", DefaultLLMDurationBuckets, "model")

	// Async pipeline
	m.TasksTotal = collector.RegisterCounter("tasks_total", "Async analysis tasks processed", "topic", "status")
	m.TaskDuration = collector.RegisterHistogram("task_duration_seconds", "Async task processing time", DefaultTaskDurationBuckets, "topic")
	m.TaskRetriesTotal = collector.RegisterCounter("task_retries_total", "Async task retry attempts", "topic")
	m.DeadLettersTotal = collector.RegisterCounter("dead_letters_total", "Tasks shunted to the dead-letter topic", "topic")
	m.ActiveWorkers = collector.RegisterGauge("active_workers", "Running worker goroutines", "group")

	// Documents and search
	m.DocumentOperationsTotal = collector.RegisterCounter("document_operations_total", "Document store operations", "operation", "status")
	m.DocumentSize = collector.RegisterHistogram("document_size_bytes", "Uploaded document size", DefaultSizeBuckets)
	m.SearchRequestsTotal = collector.RegisterCounter("search_requests_total", "Full-text search requests", "status")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Full-text search latency", DefaultHTTPDurationBuckets)
	m.IndexOperationsTotal = collector.RegisterCounter("index_operations_total", "Search index writes", "operation", "status")

	// Infrastructure
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query latency", DefaultDBDurationBuckets, "operation")
	m.DBPoolConnections = collector.RegisterGauge("db_pool_connections", "Database pool connections by state", "state")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.StorageOperationsTotal = collector.RegisterCounter("storage_operations_total", "Object storage operations", "operation", "status")

	// Health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Recorders
// ─────────────────────────────────────────────────────────────────────────────

func statusLabel(err error) string {
	if err != nil {
		return "failed"
	}
	return "completed"
}

// RecordHTTPRequest feeds the HTTP middleware instruments.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration, respSize int) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize > 0 {
		m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

// RecordAnalysis counts one finished analysis of the given type.
func RecordAnalysis(m *AppMetrics, analysisType, jurisdiction string, duration time.Duration, err error) {
	m.AnalysesTotal.WithLabelValues(analysisType, jurisdiction, statusLabel(err)).Inc()
	m.AnalysisDuration.WithLabelValues(analysisType).Observe(duration.Seconds())
}

// RecordDetection tracks the confidence distribution per detected regime.
func RecordDetection(m *AppMetrics, jurisdiction string, confidence float64) {
	m.DetectionConfidence.WithLabelValues(jurisdiction).Observe(confidence)
}

// RecordEngineRun times one rule-engine pass.
func RecordEngineRun(m *AppMetrics, engine string, duration time.Duration) {
	m.EngineDuration.WithLabelValues(engine).Observe(duration.Seconds())
}

// RecordEscalation counts a detection handed to the collaborator.
func RecordEscalation(m *AppMetrics, reason string) {
	m.EscalationsTotal.WithLabelValues(reason).Inc()
}

// RecordLLMReview records one collaborator round trip and its outcome.
func RecordLLMReview(m *AppMetrics, model, outcome string, duration time.Duration) {
	m.LLMReviewsTotal.WithLabelValues(model, outcome).Inc()
	m.LLMReviewDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordTask records one async task attempt.
func RecordTask(m *AppMetrics, topic, status string, duration time.Duration) {
	m.TasksTotal.WithLabelValues(topic, status).Inc()
	m.TaskDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordTaskRetry counts a scheduled retry.
func RecordTaskRetry(m *AppMetrics, topic string) {
	m.TaskRetriesTotal.WithLabelValues(topic).Inc()
}

// RecordDeadLetter counts a task abandoned to the DLQ.
func RecordDeadLetter(m *AppMetrics, topic string) {
	m.DeadLettersTotal.WithLabelValues(topic).Inc()
}

// RecordDocumentOperation counts a document store call.
func RecordDocumentOperation(m *AppMetrics, operation string, err error) {
	m.DocumentOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordDocumentSize tracks uploaded document sizes.
func RecordDocumentSize(m *AppMetrics, sizeBytes int64) {
	m.DocumentSize.WithLabelValues().Observe(float64(sizeBytes))
}

// RecordSearch records a full-text query.
func RecordSearch(m *AppMetrics, duration time.Duration, err error) {
	m.SearchRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
	m.SearchDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordIndexOperation counts a search index write.
func RecordIndexOperation(m *AppMetrics, operation string, err error) {
	m.IndexOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// RecordDBQuery times a database call and counts failures.
func RecordDBQuery(m *AppMetrics, operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("postgres", "query_error").Inc()
	}
}

// SetDBPoolStats publishes connection pool gauges.
func SetDBPoolStats(m *AppMetrics, acquired, idle, max int) {
	m.DBPoolConnections.WithLabelValues("acquired").Set(float64(acquired))
	m.DBPoolConnections.WithLabelValues("idle").Set(float64(idle))
	m.DBPoolConnections.WithLabelValues("max").Set(float64(max))
}

// RecordCacheAccess counts a cache lookup.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordStorageOperation counts an object storage call.
func RecordStorageOperation(m *AppMetrics, operation string, err error) {
	m.StorageOperationsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

// SetComponentHealth publishes a component health gauge.
func SetComponentHealth(m *AppMetrics, component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// RecordError counts an error by component and code.
func RecordError(m *AppMetrics, component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
