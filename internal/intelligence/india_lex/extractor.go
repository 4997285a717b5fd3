// Package india_lex extracts Indian legal facts from contract text:
// acts referenced, stamp duty, GST treatment, registration
// requirements, and a mandatory-clause compliance check.
//
// Analyze is a total function over string input. Blank text yields a
// fully-populated result with unknown compliance rather than an error,
// since unextractable text (bad OCR, empty uploads) is a normal case.
package india_lex

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/lexicon"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/amount_parser"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// DefaultState is assumed when no Indian state can be read from the
// text or the caller. Delhi is an administrative-capital default, not
// a legal one; any analysis shipped against it carries the default
// marker in metadata so callers can prompt for the real state.
const DefaultState = "Delhi"

const engineName = "india_lex"

// Act reference confidence. The base applies to any alias hit; the
// bonus applies when the act's year of enactment appears in the
// surrounding context, which rules out most false positives.
const (
	actBaseConfidence = 0.75
	actYearBonus      = 0.2
)

const (
	contextRadius = 150
	sectionWindow = 200
)

type docTypeMatcher struct {
	docType  legal.DocumentType
	patterns []*regexp.Regexp
}

type actMatcher struct {
	entry    lexicon.ActEntry
	patterns []*regexp.Regexp
}

type clauseMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

type stateMatcher struct {
	display string
	key     string
	re      *regexp.Regexp
}

type gstCategoryMatcher struct {
	category lexicon.GSTCategory
	patterns []*regexp.Regexp
}

type exemptionMatcher struct {
	description string
	patterns    []*regexp.Regexp
}

// Extractor derives Indian legal analysis from raw text. Immutable
// after New; safe for concurrent use.
type Extractor struct {
	lex    *lexicon.IndiaLexicon
	parser *amount_parser.Parser

	states     []stateMatcher
	docTypes   []docTypeMatcher
	acts       []actMatcher
	clauses    map[legal.DocumentType][]clauseMatcher
	violations []*regexp.Regexp

	gstKeywords   []*regexp.Regexp
	gstCategories []gstCategoryMatcher

	stampMentions []*regexp.Regexp
	exemptions    []exemptionMatcher

	leaseMonthsRe  *regexp.Regexp
	leaseYearsRe   *regexp.Regexp
	registrationRe *regexp.Regexp

	log     common.Logger
	metrics common.AnalysisMetrics
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger attaches a logger.
func WithLogger(log common.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithMetrics attaches analysis metrics.
func WithMetrics(m common.AnalysisMetrics) Option {
	return func(e *Extractor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// New builds an Extractor over the given lexicon registry. A nil
// registry uses the process-wide default tables.
func New(reg *lexicon.Registry, opts ...Option) *Extractor {
	if reg == nil {
		reg = lexicon.Default()
	}
	lex := reg.India

	e := &Extractor{
		lex:            lex,
		parser:         amount_parser.New(legal.LocaleIndia),
		states:         buildStateMatchers(lex.States),
		docTypes:       buildDocTypeMatchers(lex.DocTypes),
		acts:           buildActMatchers(lex.Acts),
		clauses:        buildClauseMatchers(lex.MandatoryClauses),
		violations:     compileTerms(lex.ViolationTokens),
		gstKeywords:    compileTerms(lex.GSTKeywords),
		gstCategories:  buildGSTCategoryMatchers(lex.GSTCategories),
		stampMentions:  compileTerms([]string{"stamp duty paid", "duly stamped", "stamp paper", "e-stamp", "franking"}),
		exemptions:     buildExemptionMatchers(lex.StampExemptions),
		leaseMonthsRe:  regexp.MustCompile(`(\d+)\s*months?\b`),
		leaseYearsRe:   regexp.MustCompile(`(\d+)\s*years?\b`),
		registrationRe: common.WordPattern("registration"),
		log:            common.NewNoopLogger(),
		metrics:        common.NewNoopAnalysisMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze extracts the full Indian analysis. An empty state is
// resolved from the text, defaulting to DefaultState.
func (e *Extractor) Analyze(text, state string) *legal.IndianLegalAnalysis {
	started := time.Now()
	lowered := common.Lower(text)

	// 1. Resolve the state and its rate-table key.
	display, key, source := e.resolveState(state, lowered)

	// 2. Blank input short-circuits into the unknown-shaped result.
	if common.IsBlank(text) {
		result := e.emptyAnalysis(display, key, source, len(text))
		e.record(started)
		return result
	}

	// 3. Classify the document type, most specific rule first.
	docType := e.detectDocumentType(lowered)

	// 4. Parse amounts; the largest is the presumptive consideration.
	amounts := e.parser.Parse(text)
	var consideration *legal.MonetaryAmount
	if len(amounts) > 0 {
		consideration = &amounts[0]
	}

	result := &legal.IndianLegalAnalysis{
		State:          display,
		DocumentType:   docType,
		ActsReferenced: e.extractActs(text, lowered),
		StampDuty:      e.analyzeStampDuty(lowered, display, key, docType, consideration),
		GST:            e.analyzeGST(lowered),
		Registration:   e.analyzeRegistration(docType),
		Compliance:     e.checkCompliance(lowered, docType),
		Amounts:        amounts,
		Metadata: common.Metadata{
			"text_length":   len(text),
			"state_source":  source,
			"amounts_found": len(amounts),
		},
	}

	e.log.Debug("indian analysis complete",
		"state", display,
		"document_type", string(docType),
		"acts", len(result.ActsReferenced),
		"amounts", len(amounts),
	)
	e.record(started)
	return result
}

func (e *Extractor) record(started time.Time) {
	e.metrics.RecordAnalysis(context.Background(), &common.AnalysisMetricParams{
		Engine:     engineName,
		DurationMs: float64(time.Since(started).Microseconds()) / 1000.0,
		Success:    true,
	})
}

// resolveState returns the display name, the lowercase rate-table
// key, and the provenance of the decision.
func (e *Extractor) resolveState(state, lowered string) (display, key, source string) {
	if s := strings.TrimSpace(state); s != "" {
		k := strings.ToLower(s)
		for _, m := range e.states {
			if m.key == k {
				return m.display, m.key, "provided"
			}
		}
		// Unrecognized states still flow through; the rate lookup
		// falls back along its documented chain.
		return s, k, "provided"
	}
	for _, m := range e.states {
		if m.re.MatchString(lowered) {
			return m.display, m.key, "detected"
		}
	}
	return DefaultState, strings.ToLower(DefaultState), "default"
}

func (e *Extractor) detectDocumentType(lowered string) legal.DocumentType {
	for _, m := range e.docTypes {
		for _, re := range m.patterns {
			if re.MatchString(lowered) {
				return m.docType
			}
		}
	}
	return legal.DocTypeAgreement
}

func (e *Extractor) emptyAnalysis(display, key, source string, textLen int) *legal.IndianLegalAnalysis {
	return &legal.IndianLegalAnalysis{
		State:        display,
		DocumentType: legal.DocTypeAgreement,
		StampDuty:    e.analyzeStampDuty("", display, key, legal.DocTypeAgreement, nil),
		GST:          &legal.GSTAnalysis{Applicable: false},
		Registration: e.analyzeRegistration(legal.DocTypeAgreement),
		Compliance: &legal.ComplianceCheck{
			Status: legal.ComplianceUnknown,
			Risk:   legal.ComplianceRiskLow,
		},
		Metadata: common.Metadata{
			"text_length":   textLen,
			"state_source":  source,
			"amounts_found": 0,
		},
	}
}

func buildStateMatchers(states []string) []stateMatcher {
	matchers := make([]stateMatcher, 0, len(states))
	for _, s := range states {
		matchers = append(matchers, stateMatcher{
			display: s,
			key:     strings.ToLower(s),
			re:      common.WordPattern(s),
		})
	}
	return matchers
}

func buildDocTypeMatchers(rules []lexicon.DocTypeRule) []docTypeMatcher {
	matchers := make([]docTypeMatcher, 0, len(rules))
	for _, rule := range rules {
		matchers = append(matchers, docTypeMatcher{
			docType:  rule.Type,
			patterns: compileTerms(rule.Keywords),
		})
	}
	return matchers
}

func buildActMatchers(acts []lexicon.ActEntry) []actMatcher {
	matchers := make([]actMatcher, 0, len(acts))
	for _, act := range acts {
		matchers = append(matchers, actMatcher{
			entry:    act,
			patterns: compileTerms(act.Aliases),
		})
	}
	return matchers
}

func buildClauseMatchers(table map[legal.DocumentType][]lexicon.ClauseRule) map[legal.DocumentType][]clauseMatcher {
	out := make(map[legal.DocumentType][]clauseMatcher, len(table))
	for docType, rules := range table {
		matchers := make([]clauseMatcher, 0, len(rules))
		for _, rule := range rules {
			matchers = append(matchers, clauseMatcher{
				name:     rule.Name,
				patterns: compileTerms(rule.Synonyms),
			})
		}
		out[docType] = matchers
	}
	return out
}

func buildGSTCategoryMatchers(categories []lexicon.GSTCategory) []gstCategoryMatcher {
	matchers := make([]gstCategoryMatcher, 0, len(categories))
	for _, cat := range categories {
		matchers = append(matchers, gstCategoryMatcher{
			category: cat,
			patterns: compileTerms(cat.Keywords),
		})
	}
	return matchers
}

func buildExemptionMatchers(exemptions []lexicon.StampExemption) []exemptionMatcher {
	matchers := make([]exemptionMatcher, 0, len(exemptions))
	for _, ex := range exemptions {
		matchers = append(matchers, exemptionMatcher{
			description: ex.Description,
			patterns:    compileTerms(ex.Keywords),
		})
	}
	return matchers
}

func compileTerms(terms []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		res = append(res, common.WordPattern(term))
	}
	return res
}

func anyMatch(lowered string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(lowered) {
			return true
		}
	}
	return false
}
