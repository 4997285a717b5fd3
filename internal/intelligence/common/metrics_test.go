package common

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusAnalysisMetrics(reg)
	if err != nil {
		t.Fatalf("NewPrometheusAnalysisMetrics: %v", err)
	}
	if m == nil {
		t.Fatal("nil metrics")
	}

	// Registering twice on the same registry must fail with a
	// duplicate-collector error.
	if _, err := NewPrometheusAnalysisMetrics(reg); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestPrometheusMetricsRecordAndSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusAnalysisMetrics(reg)
	if err != nil {
		t.Fatalf("NewPrometheusAnalysisMetrics: %v", err)
	}
	ctx := context.Background()

	m.RecordDetection(ctx, &DetectionMetricParams{Jurisdiction: "INDIA", Confidence: 0.9, DurationMs: 3, TextLength: 1200})
	m.RecordAnalysis(ctx, &AnalysisMetricParams{Engine: "india_lex", DurationMs: 10, Success: true})
	m.RecordAnalysis(ctx, &AnalysisMetricParams{Engine: "us_lex", DurationMs: 20, Success: false})
	m.RecordCacheAccess(ctx, true, "india_lex")
	m.RecordCacheAccess(ctx, false, "india_lex")
	m.RecordRiskLevel(ctx, "HIGH")
	m.RecordLLMConsult(ctx, &LLMMetricParams{Model: "gemini-pro", DurationMs: 800, Success: true, Adopted: false})

	stats := m.GetCurrentStats()
	if stats.TotalAnalyses != 2 {
		t.Errorf("TotalAnalyses = %d, want 2", stats.TotalAnalyses)
	}
	if stats.SuccessfulAnalyses != 1 || stats.FailedAnalyses != 1 {
		t.Errorf("success/failed = %d/%d, want 1/1", stats.SuccessfulAnalyses, stats.FailedAnalyses)
	}
	if stats.CacheHitRate != 0.5 {
		t.Errorf("CacheHitRate = %v, want 0.5", stats.CacheHitRate)
	}
	if stats.DetectionsByResult["INDIA"] != 1 {
		t.Errorf("DetectionsByResult = %v", stats.DetectionsByResult)
	}
	if stats.RiskLevelCounts["HIGH"] != 1 {
		t.Errorf("RiskLevelCounts = %v", stats.RiskLevelCounts)
	}
}

func TestNilParamsAreSafe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusAnalysisMetrics(reg)
	if err != nil {
		t.Fatalf("NewPrometheusAnalysisMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordDetection(ctx, nil)
	m.RecordAnalysis(ctx, nil)
	m.RecordLLMConsult(ctx, nil)

	if got := m.GetCurrentStats().TotalAnalyses; got != 0 {
		t.Errorf("TotalAnalyses = %d after nil records", got)
	}
}

func TestNoopMetricsZeroValueSafe(t *testing.T) {
	m := NewNoopAnalysisMetrics()
	ctx := context.Background()
	m.RecordDetection(ctx, &DetectionMetricParams{})
	m.RecordAnalysis(ctx, &AnalysisMetricParams{})
	m.RecordCacheAccess(ctx, true, "x")
	m.RecordRiskLevel(ctx, "LOW")
	m.RecordLLMConsult(ctx, &LLMMetricParams{})

	stats := m.GetCurrentStats()
	if stats == nil || stats.DetectionsByResult == nil || stats.RiskLevelCounts == nil {
		t.Fatal("noop stats must be fully populated")
	}
}

func TestInMemoryMetricsQueries(t *testing.T) {
	m := NewInMemoryAnalysisMetrics()
	ctx := context.Background()

	m.RecordAnalysis(ctx, &AnalysisMetricParams{Engine: "cross_border", DurationMs: 5, Success: true})
	m.RecordLLMConsult(ctx, &LLMMetricParams{Model: "gemini-pro", Success: true, Adopted: true})

	if got := len(m.Analyses()); got != 1 {
		t.Errorf("Analyses len = %d", got)
	}
	if got := m.LLMConsults(); len(got) != 1 || !got[0].Adopted {
		t.Errorf("LLMConsults = %+v", got)
	}

	// Returned slices are copies.
	m.Analyses()[0].Engine = "mutated"
	if m.Analyses()[0].Engine != "cross_border" {
		t.Error("Analyses must return copies")
	}
}

func TestLatencyHistogramPercentiles(t *testing.T) {
	h := newLatencyHistogram()
	for i := 1; i <= 100; i++ {
		h.Observe(float64(i))
	}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 50.5},
		{95, 95.05},
		{100, 100},
	}
	for _, tt := range tests {
		if got := h.Percentile(tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if h.Count() != 100 {
		t.Errorf("Count = %d", h.Count())
	}
	if h.Sum() != 5050 {
		t.Errorf("Sum = %v", h.Sum())
	}
}

func TestLatencyHistogramEmpty(t *testing.T) {
	h := newLatencyHistogram()
	if got := h.Percentile(95); got != 0 {
		t.Errorf("empty histogram percentile = %v", got)
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := NewInMemoryAnalysisMetrics()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordAnalysis(ctx, &AnalysisMetricParams{Engine: "juris_net", DurationMs: 1, Success: true})
				m.RecordCacheAccess(ctx, j%2 == 0, "juris_net")
				_ = m.GetCurrentStats()
			}
		}()
	}
	wg.Wait()

	if got := m.GetCurrentStats().TotalAnalyses; got != 800 {
		t.Errorf("TotalAnalyses = %d, want 800", got)
	}
}
