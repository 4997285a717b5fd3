package gemini

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexBridge-Intelligence/internal/config"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/counsel_gpt"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// fakeGenerator scripts GenerateContent results. When calls outrun the
// script, the last entry repeats.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	results []fakeResult
}

type fakeResult struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	r := f.results[idx]
	return r.resp, r.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}

func newTestAnalyst(gen generator) *Analyst {
	return &Analyst{
		gen:     gen,
		model:   "test-model",
		timeout: time.Second,
		retry: counsel_gpt.RetryConfig{
			MaxRetries:        2,
			InitialBackoff:    time.Millisecond,
			MaxBackoff:        4 * time.Millisecond,
			BackoffMultiplier: 2.0,
		},
		maxExcerptRunes: counsel_gpt.DefaultMaxExcerptRunes,
		logger:          logging.NewNopLogger(),
	}
}

func reviewRequest() *counsel_gpt.ReviewRequest {
	return &counsel_gpt.ReviewRequest{
		Excerpt:          "This Agreement shall be governed by the laws of India.",
		RuleJurisdiction: legal.JurisdictionUnknown,
		RuleConfidence:   0.4,
	}
}

func TestNewAnalyst_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewAnalyst(context.Background(), config.LLMConfig{Provider: "gemini"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMUnavailable))
}

func TestNewAnalyst_DefaultsModelAndRetry(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyst(context.Background(), config.LLMConfig{
		Provider: "gemini",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "gemini/"+config.DefaultLLMModel, a.Name())
	assert.Equal(t, counsel_gpt.DefaultRetryConfig(), a.retry)
	assert.Equal(t, counsel_gpt.DefaultMaxExcerptRunes, a.maxExcerptRunes)
}

func TestNewAnalyst_MapsConfigToRetryPolicy(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyst(context.Background(), config.LLMConfig{
		Provider:     "gemini",
		APIKey:       "test-key",
		Model:        "gemini-1.5-pro",
		Timeout:      5 * time.Second,
		MaxRetries:   5,
		RetryBackoff: time.Second,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "gemini/gemini-1.5-pro", a.Name())
	assert.Equal(t, 5, a.retry.MaxRetries)
	assert.Equal(t, time.Second, a.retry.InitialBackoff)
	assert.Equal(t, 5*time.Second, a.timeout)
}

func TestNewAnalyst_Options(t *testing.T) {
	t.Parallel()

	rc := counsel_gpt.RetryConfig{MaxRetries: 1, InitialBackoff: time.Millisecond}
	a, err := NewAnalyst(context.Background(), config.LLMConfig{
		Provider: "gemini",
		APIKey:   "test-key",
	},
		WithRetryConfig(rc),
		WithMaxExcerptRunes(1234),
		WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, rc, a.retry)
	assert.Equal(t, 1234, a.maxExcerptRunes)
}

func TestReview_ParsesJSONOpinion(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{resp: textResponse(`{"jurisdiction": "INDIA", "confidence": 0.85, "rationale": "Indian governing-law clause."}`)},
	}}
	a := newTestAnalyst(gen)

	op, err := a.Review(context.Background(), reviewRequest())
	require.NoError(t, err)
	require.NotNil(t, op)

	assert.True(t, op.Parsed)
	assert.Equal(t, legal.JurisdictionIndia, op.Jurisdiction)
	assert.InDelta(t, 0.85, op.Confidence, 1e-9)
	assert.Equal(t, "Indian governing-law clause.", op.Rationale)
	assert.Equal(t, "gemini/test-model", op.Model)
	assert.Equal(t, 1, gen.callCount())
}

func TestReview_FreeFormAnswerStillParses(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{resp: textResponse("In my reading this agreement sits under INDIA jurisdiction based on the governing-law clause.")},
	}}
	a := newTestAnalyst(gen)

	op, err := a.Review(context.Background(), reviewRequest())
	require.NoError(t, err)
	assert.True(t, op.Parsed)
	assert.Equal(t, legal.JurisdictionIndia, op.Jurisdiction)
}

func TestReview_UnparseableAnswerIsNotAnError(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{resp: textResponse("I cannot tell from this excerpt.")},
	}}
	a := newTestAnalyst(gen)

	op, err := a.Review(context.Background(), reviewRequest())
	require.NoError(t, err)
	assert.False(t, op.Parsed)
	assert.Equal(t, legal.JurisdictionUnknown, op.Jurisdiction)
	assert.Equal(t, "I cannot tell from this excerpt.", op.Raw)
}

func TestReview_RetriesTransientFailure(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{err: fmt.Errorf("transport is closing")},
		{resp: textResponse(`{"jurisdiction": "USA", "confidence": 0.7, "rationale": "UCC references."}`)},
	}}
	a := newTestAnalyst(gen)

	op, err := a.Review(context.Background(), reviewRequest())
	require.NoError(t, err)
	assert.Equal(t, legal.JurisdictionUSA, op.Jurisdiction)
	assert.Equal(t, 2, gen.callCount())
}

func TestReview_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{err: fmt.Errorf("quota exceeded")},
	}}
	a := newTestAnalyst(gen)

	op, err := a.Review(context.Background(), reviewRequest())
	require.Error(t, err)
	assert.Nil(t, op)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMUnavailable))
	// Initial attempt plus MaxRetries.
	assert.Equal(t, 3, gen.callCount())
}

func TestReview_EmptyCandidatesIsBadResponse(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{resp: &genai.GenerateContentResponse{}},
	}}
	a := newTestAnalyst(gen)

	op, err := a.Review(context.Background(), reviewRequest())
	require.Error(t, err)
	assert.Nil(t, op)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMResponse))
}

func TestReview_InvalidRequestRejectedBeforeCall(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{{resp: textResponse("unused")}}}
	a := newTestAnalyst(gen)

	_, err := a.Review(context.Background(), &counsel_gpt.ReviewRequest{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
	assert.Equal(t, 0, gen.callCount())
}

func TestReview_StopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{results: []fakeResult{
		{err: fmt.Errorf("connection refused")},
	}}
	a := newTestAnalyst(gen)
	a.retry.InitialBackoff = time.Minute // retry wait must lose to the cancelled context

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Review(ctx, reviewRequest())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLLMUnavailable))
	assert.Equal(t, 1, gen.callCount())
}

func TestResponseText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			want: "",
		},
		{
			name: "single text part",
			resp: textResponse("hello"),
			want: "hello",
		},
		{
			name: "parts concatenated",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("{\"jurisdiction\""), genai.Text(": \"USA\"}")}}},
			}},
			want: `{"jurisdiction": "USA"}`,
		},
		{
			name: "non-text parts skipped",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "image/png", Data: []byte{0x89}},
					genai.Text("answer"),
				}}},
			}},
			want: "answer",
		},
		{
			name: "surrounding whitespace trimmed",
			resp: textResponse("\n  {\"jurisdiction\": \"INDIA\"}  \n"),
			want: `{"jurisdiction": "INDIA"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, responseText(tt.resp))
		})
	}
}
