package common

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// AnalysisMetrics is the unified telemetry API of the engine layer.
// Every engine (detector, extractors, comparative analyzer, LLM
// advisor) records through this interface so the backing
// implementation (Prometheus, in-memory, noop) can be swapped without
// touching engine code.
type AnalysisMetrics interface {
	// RecordDetection records one jurisdiction detection call.
	RecordDetection(ctx context.Context, params *DetectionMetricParams)

	// RecordAnalysis records one analyzer run.
	RecordAnalysis(ctx context.Context, params *AnalysisMetricParams)

	// RecordCacheAccess records a result-cache hit or miss per engine.
	RecordCacheAccess(ctx context.Context, hit bool, engine string)

	// RecordLLMConsult records one advisory LLM call.
	RecordLLMConsult(ctx context.Context, params *LLMMetricParams)

	// RecordRiskLevel counts a produced overall risk level.
	RecordRiskLevel(ctx context.Context, riskLevel string)

	// GetAnalysisLatencyHistogram returns the engine latency histogram
	// for SLO checks.
	GetAnalysisLatencyHistogram() LatencyHistogram

	// GetCurrentStats returns a point-in-time snapshot.
	GetCurrentStats() *AnalysisStats
}

// LatencyHistogram provides percentile-based latency observation.
type LatencyHistogram interface {
	// Observe records a latency sample in milliseconds.
	Observe(durationMs float64)

	// Percentile returns the value at the given percentile (0 to 100).
	Percentile(p float64) float64

	// Count returns the number of observed samples.
	Count() int64

	// Sum returns the sum of all observed values.
	Sum() float64
}

// ---------------------------------------------------------------------------
// Parameter structs
// ---------------------------------------------------------------------------

// DetectionMetricParams carries the data for one detection event.
type DetectionMetricParams struct {
	Jurisdiction string  `json:"jurisdiction"`
	Confidence   float64 `json:"confidence"`
	DurationMs   float64 `json:"duration_ms"`
	TextLength   int     `json:"text_length"`
}

// AnalysisMetricParams carries the data for one analyzer run.
type AnalysisMetricParams struct {
	Engine     string  `json:"engine"`
	DurationMs float64 `json:"duration_ms"`
	Success    bool    `json:"success"`
}

// LLMMetricParams carries the data for one advisory LLM call.
type LLMMetricParams struct {
	Model      string  `json:"model"`
	DurationMs float64 `json:"duration_ms"`
	Success    bool    `json:"success"`

	// Adopted is true when the LLM opinion replaced the rule-based
	// detection outcome.
	Adopted bool `json:"adopted"`
}

// AnalysisStats is a point-in-time snapshot of engine-layer metrics.
type AnalysisStats struct {
	TotalAnalyses      int64            `json:"total_analyses"`
	SuccessfulAnalyses int64            `json:"successful_analyses"`
	FailedAnalyses     int64            `json:"failed_analyses"`
	AvgLatencyMs       float64          `json:"avg_latency_ms"`
	P50LatencyMs       float64          `json:"p50_latency_ms"`
	P95LatencyMs       float64          `json:"p95_latency_ms"`
	P99LatencyMs       float64          `json:"p99_latency_ms"`
	CacheHitRate       float64          `json:"cache_hit_rate"`
	DetectionsByResult map[string]int64 `json:"detections_by_result"`
	RiskLevelCounts    map[string]int64 `json:"risk_level_counts"`
}

// ---------------------------------------------------------------------------
// Prometheus implementation
// ---------------------------------------------------------------------------

const metricsPrefix = "lexbridge_analysis_"

var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

type prometheusAnalysisMetrics struct {
	detectionTotal    *prometheus.CounterVec
	detectionDuration prometheus.Histogram
	analysisDuration  *prometheus.HistogramVec
	analysisTotal     *prometheus.CounterVec
	cacheAccessTotal  *prometheus.CounterVec
	llmConsultTotal   *prometheus.CounterVec
	llmDuration       prometheus.Histogram
	riskLevelTotal    *prometheus.CounterVec

	// in-memory tracking for GetCurrentStats
	latencyHist   *latencyHistogram
	totalRuns     atomic.Int64
	successRuns   atomic.Int64
	failedRuns    atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	detectCounts  sync.Map // jurisdiction -> *atomic.Int64
	riskCounts    sync.Map // risk level -> *atomic.Int64
}

// NewPrometheusAnalysisMetrics creates a Prometheus-backed collector
// and registers every metric with the supplied Registerer. A nil
// registerer falls back to the default one.
func NewPrometheusAnalysisMetrics(registerer prometheus.Registerer) (AnalysisMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &prometheusAnalysisMetrics{
		latencyHist: newLatencyHistogram(),
	}

	m.detectionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "detection_total",
		Help: "Total jurisdiction detections by result.",
	}, []string{"jurisdiction"})

	m.detectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    metricsPrefix + "detection_duration_milliseconds",
		Help:    "Histogram of jurisdiction detection latency in milliseconds.",
		Buckets: defaultLatencyBuckets,
	})

	m.analysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricsPrefix + "engine_duration_milliseconds",
		Help:    "Histogram of analyzer run latency in milliseconds.",
		Buckets: defaultLatencyBuckets,
	}, []string{"engine"})

	m.analysisTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "engine_total",
		Help: "Total analyzer runs by engine and status.",
	}, []string{"engine", "status"})

	m.cacheAccessTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "cache_access_total",
		Help: "Total result-cache accesses.",
	}, []string{"engine", "result"})

	m.llmConsultTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "llm_consult_total",
		Help: "Total advisory LLM consultations by status and adoption.",
	}, []string{"model", "status", "adopted"})

	m.llmDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    metricsPrefix + "llm_duration_milliseconds",
		Help:    "Histogram of advisory LLM call latency in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.riskLevelTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "risk_level_total",
		Help: "Total produced overall risk levels.",
	}, []string{"risk_level"})

	collectors := []prometheus.Collector{
		m.detectionTotal,
		m.detectionDuration,
		m.analysisDuration,
		m.analysisTotal,
		m.cacheAccessTotal,
		m.llmConsultTotal,
		m.llmDuration,
		m.riskLevelTotal,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *prometheusAnalysisMetrics) RecordDetection(_ context.Context, p *DetectionMetricParams) {
	if p == nil {
		return
	}
	m.detectionTotal.WithLabelValues(p.Jurisdiction).Inc()
	m.detectionDuration.Observe(p.DurationMs)
	m.latencyHist.Observe(p.DurationMs)
	bumpCounter(&m.detectCounts, p.Jurisdiction)
}

func (m *prometheusAnalysisMetrics) RecordAnalysis(_ context.Context, p *AnalysisMetricParams) {
	if p == nil {
		return
	}
	status := "success"
	if !p.Success {
		status = "failure"
	}
	m.analysisDuration.WithLabelValues(p.Engine).Observe(p.DurationMs)
	m.analysisTotal.WithLabelValues(p.Engine, status).Inc()

	m.latencyHist.Observe(p.DurationMs)
	m.totalRuns.Add(1)
	if p.Success {
		m.successRuns.Add(1)
	} else {
		m.failedRuns.Add(1)
	}
}

func (m *prometheusAnalysisMetrics) RecordCacheAccess(_ context.Context, hit bool, engine string) {
	result := "miss"
	if hit {
		result = "hit"
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
	m.cacheAccessTotal.WithLabelValues(engine, result).Inc()
}

func (m *prometheusAnalysisMetrics) RecordLLMConsult(_ context.Context, p *LLMMetricParams) {
	if p == nil {
		return
	}
	status := "success"
	if !p.Success {
		status = "failure"
	}
	adopted := "false"
	if p.Adopted {
		adopted = "true"
	}
	m.llmConsultTotal.WithLabelValues(p.Model, status, adopted).Inc()
	m.llmDuration.Observe(p.DurationMs)
}

func (m *prometheusAnalysisMetrics) RecordRiskLevel(_ context.Context, riskLevel string) {
	m.riskLevelTotal.WithLabelValues(riskLevel).Inc()
	bumpCounter(&m.riskCounts, riskLevel)
}

func (m *prometheusAnalysisMetrics) GetAnalysisLatencyHistogram() LatencyHistogram {
	return m.latencyHist
}

func (m *prometheusAnalysisMetrics) GetCurrentStats() *AnalysisStats {
	total := m.totalRuns.Load()

	var avgLatency float64
	if n := m.latencyHist.Count(); n > 0 {
		avgLatency = m.latencyHist.Sum() / float64(n)
	}

	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	var hitRate float64
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	return &AnalysisStats{
		TotalAnalyses:      total,
		SuccessfulAnalyses: m.successRuns.Load(),
		FailedAnalyses:     m.failedRuns.Load(),
		AvgLatencyMs:       avgLatency,
		P50LatencyMs:       m.latencyHist.Percentile(50),
		P95LatencyMs:       m.latencyHist.Percentile(95),
		P99LatencyMs:       m.latencyHist.Percentile(99),
		CacheHitRate:       hitRate,
		DetectionsByResult: drainCounters(&m.detectCounts),
		RiskLevelCounts:    drainCounters(&m.riskCounts),
	}
}

func bumpCounter(m *sync.Map, key string) {
	v, _ := m.LoadOrStore(key, &atomic.Int64{})
	v.(*atomic.Int64).Add(1)
}

func drainCounters(m *sync.Map) map[string]int64 {
	out := make(map[string]int64)
	m.Range(func(key, value any) bool {
		out[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})
	return out
}

// ---------------------------------------------------------------------------
// Noop implementation
// ---------------------------------------------------------------------------

type noopAnalysisMetrics struct{}

// NewNoopAnalysisMetrics returns a metrics implementation that records
// nothing.
func NewNoopAnalysisMetrics() AnalysisMetrics {
	return &noopAnalysisMetrics{}
}

func (n *noopAnalysisMetrics) RecordDetection(context.Context, *DetectionMetricParams) {}
func (n *noopAnalysisMetrics) RecordAnalysis(context.Context, *AnalysisMetricParams)   {}
func (n *noopAnalysisMetrics) RecordCacheAccess(context.Context, bool, string)         {}
func (n *noopAnalysisMetrics) RecordLLMConsult(context.Context, *LLMMetricParams)      {}
func (n *noopAnalysisMetrics) RecordRiskLevel(context.Context, string)                 {}

func (n *noopAnalysisMetrics) GetAnalysisLatencyHistogram() LatencyHistogram {
	return newLatencyHistogram()
}

func (n *noopAnalysisMetrics) GetCurrentStats() *AnalysisStats {
	return &AnalysisStats{
		DetectionsByResult: map[string]int64{},
		RiskLevelCounts:    map[string]int64{},
	}
}

// ---------------------------------------------------------------------------
// In-memory implementation (for testing)
// ---------------------------------------------------------------------------

type inMemoryAnalysisMetrics struct {
	mu sync.Mutex

	detections   []*DetectionMetricParams
	analyses     []*AnalysisMetricParams
	llmConsults  []*LLMMetricParams
	cacheHits    int64
	cacheMisses  int64
	riskCounts   map[string]int64
	detectCounts map[string]int64
	latencyHist  *latencyHistogram
}

// NewInMemoryAnalysisMetrics returns an in-memory implementation
// suitable for unit tests.
func NewInMemoryAnalysisMetrics() *inMemoryAnalysisMetrics {
	return &inMemoryAnalysisMetrics{
		riskCounts:   make(map[string]int64),
		detectCounts: make(map[string]int64),
		latencyHist:  newLatencyHistogram(),
	}
}

func (m *inMemoryAnalysisMetrics) RecordDetection(_ context.Context, p *DetectionMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.detections = append(m.detections, &cp)
	m.detectCounts[p.Jurisdiction]++
	m.latencyHist.observeUnlocked(p.DurationMs)
}

func (m *inMemoryAnalysisMetrics) RecordAnalysis(_ context.Context, p *AnalysisMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.analyses = append(m.analyses, &cp)
	m.latencyHist.observeUnlocked(p.DurationMs)
}

func (m *inMemoryAnalysisMetrics) RecordCacheAccess(_ context.Context, hit bool, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

func (m *inMemoryAnalysisMetrics) RecordLLMConsult(_ context.Context, p *LLMMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.llmConsults = append(m.llmConsults, &cp)
}

func (m *inMemoryAnalysisMetrics) RecordRiskLevel(_ context.Context, riskLevel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.riskCounts[riskLevel]++
}

func (m *inMemoryAnalysisMetrics) GetAnalysisLatencyHistogram() LatencyHistogram {
	return m.latencyHist
}

func (m *inMemoryAnalysisMetrics) GetCurrentStats() *AnalysisStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := int64(len(m.analyses))
	var success, failed int64
	var sumLatency float64
	for _, a := range m.analyses {
		if a.Success {
			success++
		} else {
			failed++
		}
		sumLatency += a.DurationMs
	}

	var avgLatency float64
	if total > 0 {
		avgLatency = sumLatency / float64(total)
	}

	var hitRate float64
	if m.cacheHits+m.cacheMisses > 0 {
		hitRate = float64(m.cacheHits) / float64(m.cacheHits+m.cacheMisses)
	}

	detections := make(map[string]int64, len(m.detectCounts))
	for k, v := range m.detectCounts {
		detections[k] = v
	}
	risks := make(map[string]int64, len(m.riskCounts))
	for k, v := range m.riskCounts {
		risks[k] = v
	}

	return &AnalysisStats{
		TotalAnalyses:      total,
		SuccessfulAnalyses: success,
		FailedAnalyses:     failed,
		AvgLatencyMs:       avgLatency,
		P50LatencyMs:       m.latencyHist.percentileUnlocked(50),
		P95LatencyMs:       m.latencyHist.percentileUnlocked(95),
		P99LatencyMs:       m.latencyHist.percentileUnlocked(99),
		CacheHitRate:       hitRate,
		DetectionsByResult: detections,
		RiskLevelCounts:    risks,
	}
}

// Detections returns a copy of the recorded detection events.
func (m *inMemoryAnalysisMetrics) Detections() []*DetectionMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*DetectionMetricParams, len(m.detections))
	copy(out, m.detections)
	return out
}

// Analyses returns a copy of the recorded analyzer runs.
func (m *inMemoryAnalysisMetrics) Analyses() []*AnalysisMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*AnalysisMetricParams, len(m.analyses))
	copy(out, m.analyses)
	return out
}

// LLMConsults returns a copy of the recorded LLM consultations.
func (m *inMemoryAnalysisMetrics) LLMConsults() []*LLMMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*LLMMetricParams, len(m.llmConsults))
	copy(out, m.llmConsults)
	return out
}

// ---------------------------------------------------------------------------
// Latency histogram
// ---------------------------------------------------------------------------

// latencyHistogram keeps raw samples in a sorted slice and answers
// percentile queries by linear interpolation. Sample count is bounded;
// once full, a reservoir-style overwrite keeps memory flat.
type latencyHistogram struct {
	mu      sync.Mutex
	samples []float64
	sorted  bool
	count   int64
	sum     float64
}

const maxHistogramSamples = 10000

func newLatencyHistogram() *latencyHistogram {
	return &latencyHistogram{samples: make([]float64, 0, 256)}
}

func (h *latencyHistogram) Observe(durationMs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observeUnlocked(durationMs)
}

func (h *latencyHistogram) observeUnlocked(durationMs float64) {
	h.count++
	h.sum += durationMs
	if len(h.samples) < maxHistogramSamples {
		h.samples = append(h.samples, durationMs)
	} else {
		h.samples[int(h.count)%maxHistogramSamples] = durationMs
	}
	h.sorted = false
}

func (h *latencyHistogram) Percentile(p float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.percentileUnlocked(p)
}

func (h *latencyHistogram) percentileUnlocked(p float64) float64 {
	if len(h.samples) == 0 {
		return 0
	}
	if !h.sorted {
		sort.Float64s(h.samples)
		h.sorted = true
	}
	if p <= 0 {
		return h.samples[0]
	}
	if p >= 100 {
		return h.samples[len(h.samples)-1]
	}

	rank := (p / 100) * float64(len(h.samples)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return h.samples[lower]
	}
	frac := rank - float64(lower)
	return h.samples[lower] + frac*(h.samples[upper]-h.samples[lower])
}

func (h *latencyHistogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *latencyHistogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}
