// Package counsel_gpt defines the optional LLM legal-counsel collaborator
// used to refine low-confidence jurisdiction detections. The collaborator is
// strictly advisory: its output is free-form text that gets parsed on a
// best-effort basis, and the analysis pipeline must produce a complete
// rule-based result whether the collaborator is absent, slow, or wrong.
package counsel_gpt

import (
	"context"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Analyst is the advisory second-opinion contract. Implementations live in
// the infrastructure layer (internal/infrastructure/llm); the application
// orchestrator holds a nil Analyst when no collaborator is configured.
type Analyst interface {
	// Review asks the collaborator for a jurisdiction reading of the
	// document excerpt. The returned Opinion is advisory text plus a
	// best-effort parse; callers decide whether to adopt it. Errors are
	// expected (network, timeout, quota) and must never fail the analysis
	// that triggered the review.
	Review(ctx context.Context, req *ReviewRequest) (*Opinion, error)

	// Name identifies the backing model for logs and metrics.
	Name() string
}

// ReviewRequest carries the context the collaborator needs for a second
// opinion: the document excerpt, what the rule-based detector concluded, and
// any caller-supplied jurisdiction hint.
type ReviewRequest struct {
	Excerpt          string             `json:"excerpt"`
	RuleJurisdiction legal.Jurisdiction `json:"rule_jurisdiction"`
	RuleConfidence   float64            `json:"rule_confidence"`
	Hint             string             `json:"hint,omitempty"`
}

// Validate checks the request is answerable.
func (r *ReviewRequest) Validate() error {
	if r == nil {
		return errors.NewInvalidInput("review request is required")
	}
	if r.Excerpt == "" {
		return errors.NewInvalidInput("review request excerpt is empty")
	}
	if r.RuleConfidence < 0 || r.RuleConfidence > 1 {
		return errors.NewInvalidInput("rule confidence must be within [0, 1]")
	}
	return nil
}

// Opinion is a parsed collaborator response. Raw always carries the full
// model output; the structured fields are best-effort and Parsed reports
// whether anything recognizable was extracted. An unparsed opinion is not an
// error — it simply carries no adoptable signal.
type Opinion struct {
	Jurisdiction legal.Jurisdiction `json:"jurisdiction"`
	Confidence   float64            `json:"confidence"`
	Rationale    string             `json:"rationale,omitempty"`
	Raw          string             `json:"raw"`
	Parsed       bool               `json:"parsed"`
	Model        string             `json:"model,omitempty"`
}

// RetryConfig holds retry settings for collaborator calls.
type RetryConfig struct {
	MaxRetries        int           `json:"max_retries"`
	InitialBackoff    time.Duration `json:"initial_backoff"`
	MaxBackoff        time.Duration `json:"max_backoff"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
}

// DefaultRetryConfig returns the production retry policy: two retries with
// doubling backoff, capped so a review never stalls an analysis for long.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        2,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        4 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// NextBackoff returns the wait before the given attempt (0-based first
// retry), applying the multiplier and cap.
func (c RetryConfig) NextBackoff(attempt int) time.Duration {
	backoff := c.InitialBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	mult := c.BackoffMultiplier
	if mult < 1 {
		mult = 2.0
	}
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * mult)
		if c.MaxBackoff > 0 && backoff > c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	if c.MaxBackoff > 0 && backoff > c.MaxBackoff {
		return c.MaxBackoff
	}
	return backoff
}
