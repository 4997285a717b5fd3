// Package gemini implements the counsel_gpt.Analyst contract on Google's
// Gemini API through the official generative-ai-go SDK. The analyst is
// advisory infrastructure: construction fails fast on missing credentials,
// but once built, call failures surface as LLM_* errors that the caller is
// expected to log and swallow.
package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/turtacn/LexBridge-Intelligence/internal/config"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/counsel_gpt"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
)

// reviewTemperature keeps classification output near-deterministic. The
// collaborator is asked to label a document, not to draft prose.
const reviewTemperature = 0.1

// generator is the slice of the genai SDK the analyst calls per review.
// *genai.GenerativeModel satisfies it; tests substitute a scripted fake.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Analyst asks Gemini for a second opinion on jurisdiction detection.
// Safe for concurrent use: the underlying model is configured once at
// construction and never mutated afterwards.
type Analyst struct {
	client          *genai.Client
	gen             generator
	model           string
	timeout         time.Duration
	retry           counsel_gpt.RetryConfig
	maxExcerptRunes int
	logger          logging.Logger
}

// Option customizes an Analyst beyond what config.LLMConfig carries.
type Option func(*Analyst)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(a *Analyst) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRetryConfig overrides the retry policy derived from config.
func WithRetryConfig(rc counsel_gpt.RetryConfig) Option {
	return func(a *Analyst) { a.retry = rc }
}

// WithMaxExcerptRunes bounds the document excerpt embedded in prompts.
func WithMaxExcerptRunes(n int) Option {
	return func(a *Analyst) {
		if n > 0 {
			a.maxExcerptRunes = n
		}
	}
}

// NewAnalyst builds a Gemini-backed analyst from the llm config section.
// The context governs client construction only, not later reviews.
func NewAnalyst(ctx context.Context, cfg config.LLMConfig, opts ...Option) (*Analyst, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeLLMUnavailable, "gemini api key is required")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = config.DefaultLLMModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLLMUnavailable, "failed to create gemini client")
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(counsel_gpt.SystemPrompt())},
	}
	model.SetTemperature(reviewTemperature)
	// Nudge the API toward the JSON shape the prompt asks for. The opinion
	// parser still accepts free-form output when the model ignores this.
	model.ResponseMIMEType = "application/json"

	retry := counsel_gpt.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryBackoff > 0 {
		retry.InitialBackoff = cfg.RetryBackoff
	}

	a := &Analyst{
		client:          client,
		gen:             model,
		model:           modelName,
		timeout:         cfg.Timeout,
		retry:           retry,
		maxExcerptRunes: counsel_gpt.DefaultMaxExcerptRunes,
		logger:          logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name identifies the backing model for logs and metrics.
func (a *Analyst) Name() string {
	return "gemini/" + a.model
}

// Close releases the underlying API client.
func (a *Analyst) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// Review implements counsel_gpt.Analyst. Transient failures are retried with
// backoff; the final error carries an LLM_* code so callers can distinguish
// "collaborator down" from "collaborator answered garbage" in metrics.
func (a *Analyst) Review(ctx context.Context, req *counsel_gpt.ReviewRequest) (*counsel_gpt.Opinion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt := counsel_gpt.BuildPrompt(req, a.maxExcerptRunes)
	if prompt.Truncated {
		a.logger.Debug("review excerpt truncated",
			logging.Int("max_runes", a.maxExcerptRunes))
	}

	var lastErr error
	for attempt := 0; attempt <= a.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := a.retry.NextBackoff(attempt - 1)
			a.logger.Debug("retrying gemini review",
				logging.Int("attempt", attempt),
				logging.Duration("backoff", wait),
				logging.Err(lastErr))
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.ErrCodeLLMUnavailable, "gemini review abandoned")
			case <-time.After(wait):
			}
		}

		raw, err := a.generate(ctx, prompt.User)
		if err != nil {
			lastErr = err
			continue
		}

		opinion := counsel_gpt.ParseOpinion(raw)
		opinion.Model = a.Name()
		return opinion, nil
	}
	return nil, lastErr
}

// generate performs one API call under the per-call timeout and extracts
// the candidate text.
func (a *Analyst) generate(ctx context.Context, user string) (string, error) {
	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.gen.GenerateContent(callCtx, genai.Text(user))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeLLMUnavailable, "gemini generation failed")
	}

	text := responseText(resp)
	if text == "" {
		// Candidates can come back empty when the safety filter trips or the
		// prompt is blocked outright.
		return "", errors.New(errors.ErrCodeLLMResponse, "gemini returned no text candidates")
	}

	a.logger.Debug("gemini review completed",
		logging.String("model", a.model),
		logging.Duration("duration", time.Since(start)),
		logging.Int("response_chars", len(text)))
	return text, nil
}

// responseText concatenates the text parts of every candidate. Non-text
// parts (function calls, blobs) are skipped.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
