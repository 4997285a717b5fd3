// Package analysis is the application layer of the analysis pipeline:
// the orchestrator routing text through the detection and extraction
// engines, and the service that persists, caches, indexes and
// publishes the runs. The legal reasoning itself lives in
// internal/intelligence; this layer never re-derives it.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/lexicon"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/counsel_gpt"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/cross_border"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/india_lex"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/juris_net"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/us_lex"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// DefaultEscalationThreshold is the detection confidence below which
// the orchestrator consults the LLM collaborator when one is
// configured. Calibration parameter, overridable via config.
const DefaultEscalationThreshold = 0.7

// hintConfidenceFloor is the minimum confidence a caller-supplied
// jurisdiction hint forces. Hints outrank both the rule-based reading
// and the collaborator's opinion.
const hintConfidenceFloor = 0.8

// Collaborator adoption confidences: an opinion that resolves an
// UNKNOWN detection is adopted at a fixed reduced confidence; one that
// agrees with the rule-based reading raises it to at least the
// agreement level. A disagreeing opinion is recorded but never adopted.
const (
	opinionAdoptConfidence = 0.60
	opinionAgreeConfidence = 0.75
)

var hintJurisdictions = map[string]legal.Jurisdiction{
	"india":         legal.JurisdictionIndia,
	"indian":        legal.JurisdictionIndia,
	"in":            legal.JurisdictionIndia,
	"us":            legal.JurisdictionUSA,
	"usa":           legal.JurisdictionUSA,
	"united states": legal.JurisdictionUSA,
	"american":      legal.JurisdictionUSA,
	"cross_border":  legal.JurisdictionCrossBorder,
	"cross-border":  legal.JurisdictionCrossBorder,
}

// ParseHint maps a free-form caller hint to a jurisdiction. Unknown
// hints return JurisdictionUnknown and are ignored by the pipeline.
func ParseHint(hint string) legal.Jurisdiction {
	return hintJurisdictions[strings.ToLower(strings.TrimSpace(hint))]
}

// Orchestrator composes the four engines per the routing contract:
// detect, refine low-confidence detections through the advisory
// collaborator, apply the caller hint, then dispatch to the matching
// extractor. Every path returns a fully-populated report.
type Orchestrator struct {
	detector   *juris_net.Detector
	india      *india_lex.Extractor
	us         *us_lex.Extractor
	compare    *cross_border.Analyzer
	analyst    counsel_gpt.Analyst
	threshold  float64
	maxExcerpt int
	log        logging.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithAnalyst attaches the advisory LLM collaborator. Nil keeps the
// pipeline rule-based only.
func WithAnalyst(a counsel_gpt.Analyst) OrchestratorOption {
	return func(o *Orchestrator) { o.analyst = a }
}

// WithEscalationThreshold overrides the confidence below which the
// collaborator is consulted.
func WithEscalationThreshold(threshold float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if threshold > 0 && threshold <= 1 {
			o.threshold = threshold
		}
	}
}

// WithOrchestratorLogger attaches a logger.
func WithOrchestratorLogger(log logging.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// NewOrchestrator builds the full engine set over one lexicon
// registry. The comparative analyzer shares the two extractors'
// compiled matchers.
func NewOrchestrator(reg *lexicon.Registry, opts ...OrchestratorOption) *Orchestrator {
	if reg == nil {
		reg = lexicon.Default()
	}
	india := india_lex.New(reg)
	us := us_lex.New(reg)
	o := &Orchestrator{
		detector:   juris_net.New(reg),
		india:      india,
		us:         us,
		compare:    cross_border.New(reg, cross_border.WithExtractors(india, us)),
		threshold:  DefaultEscalationThreshold,
		maxExcerpt: 4000,
		log:        logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Detector exposes the underlying detector for direct detection calls.
func (o *Orchestrator) Detector() *juris_net.Detector { return o.detector }

// India exposes the Indian extractor for direct calls.
func (o *Orchestrator) India() *india_lex.Extractor { return o.india }

// US exposes the US extractor for direct calls.
func (o *Orchestrator) US() *us_lex.Extractor { return o.us }

// CrossBorder exposes the comparative analyzer for direct calls.
func (o *Orchestrator) CrossBorder() *cross_border.Analyzer { return o.compare }

// Review reports how the collaborator influenced one run.
type Review struct {
	Consulted bool
	Adopted   bool
	Opinion   *counsel_gpt.Opinion
	Err       error
}

// Run executes the full routed pipeline. Total over string input: an
// unknown detection yields a report flagged for review, never an error.
func (o *Orchestrator) Run(ctx context.Context, text, hint, indianState, usState string) (*legal.AnalysisReport, *Review) {
	detection := o.detector.Detect(text)
	review := &Review{}

	// 1. Low-confidence detections get an advisory second opinion.
	if o.analyst != nil && detection.Confidence < o.threshold {
		o.consult(ctx, text, hint, detection, review)
	}

	// 2. The caller's hint outranks everything, floored at 0.8.
	if hinted := ParseHint(hint); hinted != legal.JurisdictionUnknown {
		if detection.Jurisdiction != hinted {
			o.setMetadata(detection, "hint_override", detection.Jurisdiction.String())
			detection.Jurisdiction = hinted
		}
		if detection.Confidence < hintConfidenceFloor {
			detection.Confidence = hintConfidenceFloor
		}
	}

	report := &legal.AnalysisReport{Detection: detection}

	// 3. Route to the matching engine.
	switch detection.Jurisdiction {
	case legal.JurisdictionIndia:
		state := firstNonEmpty(indianState, detection.IndianState)
		report.India = o.india.Analyze(text, state)
	case legal.JurisdictionUSA:
		state := firstNonEmpty(usState, detection.USState)
		report.US = o.us.Analyze(text, state)
	case legal.JurisdictionCrossBorder:
		inState := firstNonEmpty(indianState, detection.IndianState)
		uState := firstNonEmpty(usState, detection.USState)
		report.CrossBorder = o.compare.Compare(ctx, text, inState, uState)
	default:
		report.NeedsReview = true
		report.ReviewReasons = append(report.ReviewReasons,
			"jurisdiction could not be determined; supply a hint or review manually")
	}

	if detection.Jurisdiction != legal.JurisdictionUnknown && detection.Confidence < o.threshold {
		report.NeedsReview = true
		report.ReviewReasons = append(report.ReviewReasons,
			fmt.Sprintf("detection confidence %.2f is below the %.2f review threshold",
				detection.Confidence, o.threshold))
	}
	return report, review
}

// consult asks the collaborator and folds its opinion into the
// detection. Collaborator failure is logged and absorbed: the
// rule-based result stands at its original confidence.
func (o *Orchestrator) consult(ctx context.Context, text, hint string, detection *legal.JurisdictionResult, review *Review) {
	review.Consulted = true
	opinion, err := o.analyst.Review(ctx, &counsel_gpt.ReviewRequest{
		Excerpt:          truncate(text, o.maxExcerpt),
		RuleJurisdiction: detection.Jurisdiction,
		RuleConfidence:   detection.Confidence,
		Hint:             hint,
	})
	if err != nil {
		review.Err = err
		o.log.Warn("LLM review failed; keeping rule-based detection",
			logging.String("analyst", o.analyst.Name()), logging.Err(err))
		return
	}
	review.Opinion = opinion
	if !opinion.Parsed || opinion.Jurisdiction == legal.JurisdictionUnknown {
		return
	}

	switch {
	case detection.Jurisdiction == legal.JurisdictionUnknown:
		detection.Jurisdiction = opinion.Jurisdiction
		detection.Confidence = opinionAdoptConfidence
		review.Adopted = true
		o.setMetadata(detection, "llm_resolved", opinion.Jurisdiction.String())
	case detection.Jurisdiction == opinion.Jurisdiction:
		if detection.Confidence < opinionAgreeConfidence {
			detection.Confidence = opinionAgreeConfidence
		}
		review.Adopted = true
		o.setMetadata(detection, "llm_agreed", opinion.Jurisdiction.String())
	default:
		// Disagreement is advisory metadata only.
		o.setMetadata(detection, "llm_disagreed", opinion.Jurisdiction.String())
	}
}

func (o *Orchestrator) setMetadata(detection *legal.JurisdictionResult, key, value string) {
	if detection.Metadata == nil {
		detection.Metadata = map[string]interface{}{}
	}
	detection.Metadata[key] = value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate cuts text at a rune boundary for the review excerpt.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
