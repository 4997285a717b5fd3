// Package juris_net classifies contract text as governed by Indian
// law, US law, both (cross-border), or neither. It scores the text
// against two disjoint legal vocabularies with fixed category weights
// and derives a calibrated confidence from the score pair.
//
// Detection is a total function: any string input, including empty
// text, yields a well-formed result and never an error.
package juris_net

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/lexicon"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Category weights. Values are calibration parameters carried over
// from the shipped scoring model; tune against a labeled corpus, not
// by intuition.
const (
	weightAct       = 3.0
	weightCourt     = 2.5
	weightRegulator = 2.0
	weightLegalTerm = 1.5
	// weightCurrency applies per occurrence, not per distinct pattern.
	weightCurrency = 1.5
	weightEntity   = 1.0
	weightState    = 1.0
	weightIdiom    = 0.5
	// Governing-law idioms outweigh generic drafting idioms because a
	// choice-of-law phrase is a direct jurisdiction signal.
	weightGoverningIdiom = 1.5
)

// Decision thresholds. The cross-border gate requires strong and
// comparably strong evidence on both sides so a single borrowed term
// cannot flip a domestic contract to cross-border.
const (
	// minSignalScore is the floor below which both sides together are
	// treated as noise.
	minSignalScore = 1.0

	crossBorderFloor   = 5.0
	crossBorderMaxGap  = 5.0
	crossBorderMinSide = 4.0

	// crossBorderConfidenceNorm divides the score sum; the cap leaves
	// headroom signaling the inherent ambiguity of a dual match.
	crossBorderConfidenceNorm = 25.0
	crossBorderConfidenceCap  = 0.90

	// Single-jurisdiction confidence blends absolute evidence with
	// dominance over the runner-up. Either term alone misbehaves:
	// ratios explode on tiny scores, absolutes ignore near-ties.
	absoluteEvidenceNorm = 10.0
	absoluteWeight       = 0.8
	dominanceNorm        = 2.5
	dominanceWeight      = 0.2
	singleConfidenceCap  = 0.95
)

// maxElementsPerSide caps the detected-elements list for output size.
// Scoring always runs over the full match set.
const maxElementsPerSide = 20

// Detector scores text against both vocabularies. It is immutable
// after New and safe for concurrent use.
type Detector struct {
	india sideMatchers
	us    sideMatchers

	usClausePatterns []statePattern
	usStateDisplay   map[string]string

	log     common.Logger
	metrics common.AnalysisMetrics
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger attaches a logger.
func WithLogger(log common.Logger) Option {
	return func(d *Detector) {
		if log != nil {
			d.log = log
		}
	}
}

// WithMetrics attaches analysis metrics.
func WithMetrics(m common.AnalysisMetrics) Option {
	return func(d *Detector) {
		if m != nil {
			d.metrics = m
		}
	}
}

// New builds a Detector over the given lexicon registry. A nil
// registry uses the process-wide default tables.
func New(reg *lexicon.Registry, opts ...Option) *Detector {
	if reg == nil {
		reg = lexicon.Default()
	}
	d := &Detector{
		india:            newIndiaMatchers(reg.India),
		us:               newUSMatchers(reg.US),
		usClausePatterns: compileStatePatterns(reg.US.ChoiceOfLawPatterns),
		usStateDisplay:   stateDisplayIndex(reg.US.States),
		log:              common.NewNoopLogger(),
		metrics:          common.NewNoopAnalysisMetrics(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies the text. The returned result is freshly
// allocated per call; identical input yields value-identical output.
func (d *Detector) Detect(text string) *legal.JurisdictionResult {
	started := time.Now()

	// 1. Short-circuit unanalyzable input.
	if common.IsBlank(text) {
		result := &legal.JurisdictionResult{
			Jurisdiction: legal.JurisdictionUnknown,
			Confidence:   0.0,
			Scores:       legal.JurisdictionScores{},
			Metadata:     common.Metadata{"text_length": len(text)},
		}
		d.record(result, started, len(text))
		return result
	}
	lowered := common.Lower(text)

	// 2. Score both vocabularies independently.
	india := d.scoreSide(lowered, d.india)
	us := d.scoreSide(lowered, d.us)

	// 3. Sub-classify states. These are orthogonal to the final
	// jurisdiction and reported whenever found.
	indianState := d.detectIndianState(lowered)
	usState := d.detectUSState(lowered)

	// 4. Apply the decision rule.
	jurisdiction, confidence := decide(india.score, us.score)

	// 5. Assemble the result.
	elements := make([]string, 0, maxElementsPerSide*2)
	elements = append(elements, capElements(india.elements)...)
	elements = append(elements, capElements(us.elements)...)

	result := &legal.JurisdictionResult{
		Jurisdiction: jurisdiction,
		Confidence:   common.RoundTo4(confidence),
		Scores: legal.JurisdictionScores{
			India:         india.score,
			USA:           us.score,
			TotalElements: len(india.elements) + len(us.elements),
		},
		DetectedElements: elements,
		USState:          usState,
		IndianState:      indianState,
		Metadata: common.Metadata{
			"text_length":             len(text),
			"india_element_count":     len(india.elements),
			"us_element_count":        len(us.elements),
			"india_currency_detected": india.currencyHits > 0,
			"us_currency_detected":    us.currencyHits > 0,
			"india_court_detected":    india.courtFound,
			"us_court_detected":       us.courtFound,
		},
	}

	d.log.Debug("jurisdiction detected",
		"jurisdiction", result.Jurisdiction.String(),
		"confidence", result.Confidence,
		"india_score", india.score,
		"us_score", us.score,
	)
	d.record(result, started, len(text))
	return result
}

func (d *Detector) record(result *legal.JurisdictionResult, started time.Time, textLen int) {
	d.metrics.RecordDetection(context.Background(), &common.DetectionMetricParams{
		Jurisdiction: result.Jurisdiction.String(),
		Confidence:   result.Confidence,
		DurationMs:   float64(time.Since(started).Microseconds()) / 1000.0,
		TextLength:   textLen,
	})
}

type sideScore struct {
	score        float64
	elements     []string
	currencyHits int
	courtFound   bool
}

func (d *Detector) scoreSide(lowered string, side sideMatchers) sideScore {
	var s sideScore
	hit := func(weight float64, label, display string) {
		s.score += weight
		s.elements = append(s.elements, label+": "+display)
	}

	for _, m := range side.acts {
		if m.matches(lowered) {
			hit(weightAct, side.labels.act, m.display)
		}
	}
	for _, m := range side.courts {
		if m.matches(lowered) {
			hit(weightCourt, side.labels.court, m.display)
			s.courtFound = true
		}
	}
	for _, m := range side.regulators {
		if m.matches(lowered) {
			hit(weightRegulator, side.labels.regulator, m.display)
		}
	}
	for _, m := range side.terms {
		if m.matches(lowered) {
			hit(weightLegalTerm, side.labels.term, m.display)
		}
	}
	for _, re := range side.currency {
		count := common.CountMatches(lowered, re)
		if count == 0 {
			continue
		}
		s.score += weightCurrency * float64(count)
		s.currencyHits += count
		sample := strings.TrimSpace(re.FindString(lowered))
		s.elements = append(s.elements,
			fmt.Sprintf("%s: %s (%d)", side.labels.currency, sample, count))
	}
	for _, m := range side.entities {
		if m.matches(lowered) {
			hit(weightEntity, side.labels.entity, m.display)
		}
	}
	for _, m := range side.states {
		if m.matches(lowered) {
			hit(weightState, side.labels.state, m.display)
		}
	}
	for _, m := range side.idioms {
		if m.matches(lowered) {
			hit(weightIdiom, side.labels.idiom, m.display)
		}
	}
	for _, m := range side.governing {
		if m.matches(lowered) {
			hit(weightGoverningIdiom, side.labels.idiom, m.display)
		}
	}
	return s
}

// decide maps the score pair to (jurisdiction, confidence).
func decide(india, us float64) (legal.Jurisdiction, float64) {
	if india < minSignalScore && us < minSignalScore {
		return legal.JurisdictionUnknown, 0.0
	}

	if india >= crossBorderFloor && us >= crossBorderFloor &&
		math.Abs(india-us) <= crossBorderMaxGap &&
		math.Min(india, us) >= crossBorderMinSide {
		confidence := common.MinFloat(crossBorderConfidenceCap, (india+us)/crossBorderConfidenceNorm)
		return legal.JurisdictionCrossBorder, confidence
	}

	primary, secondary := india, us
	jurisdiction := legal.JurisdictionIndia
	if us > india {
		primary, secondary = us, india
		jurisdiction = legal.JurisdictionUSA
	}

	absolute := common.MinFloat(1.0, primary/absoluteEvidenceNorm)
	dominance := common.MinFloat(1.0, (primary/(secondary+1.0))/dominanceNorm)
	confidence := absoluteWeight*absolute + dominanceWeight*dominance
	if confidence > singleConfidenceCap {
		confidence = singleConfidenceCap
	}
	return jurisdiction, confidence
}

// detectIndianState returns the first recognized Indian state name,
// in table order, or empty when none is present.
func (d *Detector) detectIndianState(lowered string) string {
	for _, m := range d.india.states {
		if m.matches(lowered) {
			return m.display
		}
	}
	return ""
}

// detectUSState prefers a state named inside a choice-of-law clause
// over a bare mention anywhere in the text; governing-law clauses are
// authoritative, passing references are not.
func (d *Detector) detectUSState(lowered string) string {
	for _, sp := range d.usClausePatterns {
		for _, sub := range sp.re.FindAllStringSubmatch(lowered, -1) {
			candidate := strings.TrimSpace(sub[1])
			if display, ok := d.usStateDisplay[candidate]; ok {
				return display
			}
		}
	}
	for _, m := range d.us.states {
		if m.matches(lowered) {
			return m.display
		}
	}
	return ""
}

func capElements(elements []string) []string {
	if len(elements) <= maxElementsPerSide {
		return elements
	}
	return elements[:maxElementsPerSide]
}
