// Package cross_border compares one instrument across the Indian and
// US regimes: enforceability scoring, execution-formality diff, treaty
// and transfer-pricing tax positions, governing-law and
// dispute-resolution recommendations, typed compliance gaps, and a
// phased implementation roadmap.
//
// Compare is a total function over string input. Blank text yields a
// fully-populated critical-risk aggregate rather than an error, so
// callers never nil-check the result's substructure.
package cross_border

import (
	"context"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/lexicon"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/india_lex"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/us_lex"
	typescommon "github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

const engineName = "cross_border"

// Enforceability bases. The US side starts higher as a fixed modeling
// assumption about a more litigation-tested common-law baseline; the
// gap is not derived from the document.
const (
	indiaEnforceabilityBase = 0.5
	usEnforceabilityBase    = 0.6

	// complianceBonus is added on a side whose mandatory-clause check
	// passed outright.
	complianceBonus = 0.3

	// stampBonus and registrationBonus together cap the India-side
	// formality credit at 0.2.
	stampBonus        = 0.1
	registrationBonus = 0.1

	// governingStateBonus is the US-side credit for a governing state
	// evidenced in the text or supplied by the caller.
	governingStateBonus = 0.2

	// riskPenalty is subtracted per detected cross-border risk, from
	// both sides uniformly.
	riskPenalty = 0.05
)

type dtaaMatcher struct {
	provision lexicon.DTAAProvision
	patterns  []*regexp.Regexp
}

type governingMatcher struct {
	option      lexicon.GoverningLawOption
	party       []*regexp.Regexp
	transaction []*regexp.Regexp
}

type riskMatcher struct {
	description string
	patterns    []*regexp.Regexp
}

// Analyzer merges both extractors' outputs into one comparative
// result. Immutable after New; safe for concurrent use.
type Analyzer struct {
	lex   *lexicon.ComparativeLexicon
	india *india_lex.Extractor
	us    *us_lex.Extractor

	dtaa            []dtaaMatcher
	transferPricing []*regexp.Regexp
	exportTerms     []*regexp.Regexp
	importTerms     []*regexp.Regexp

	governing []governingMatcher

	ip              []*regexp.Regexp
	regulatory      []*regexp.Regexp
	multiParty      []*regexp.Regexp
	confidentiality []*regexp.Regexp
	enforcement     []*regexp.Regexp
	arbitration     []*regexp.Regexp

	risks []riskMatcher

	log     common.Logger
	metrics common.AnalysisMetrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger attaches a logger.
func WithLogger(log common.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMetrics attaches analysis metrics.
func WithMetrics(m common.AnalysisMetrics) Option {
	return func(a *Analyzer) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithExtractors substitutes pre-built extractors, sharing their
// compiled matchers instead of building a second set.
func WithExtractors(india *india_lex.Extractor, us *us_lex.Extractor) Option {
	return func(a *Analyzer) {
		if india != nil {
			a.india = india
		}
		if us != nil {
			a.us = us
		}
	}
}

// New builds an Analyzer over the given lexicon registry. A nil
// registry uses the process-wide default tables. Extractors not
// supplied through WithExtractors are built here and inherit the
// analyzer's logger and metrics.
func New(reg *lexicon.Registry, opts ...Option) *Analyzer {
	if reg == nil {
		reg = lexicon.Default()
	}
	lex := reg.Comparative

	a := &Analyzer{
		lex:             lex,
		dtaa:            buildDTAAMatchers(lex.DTAA),
		transferPricing: compileTerms(lex.TransferPricingKeywords),
		exportTerms:     compileTerms(lex.ExportKeywords),
		importTerms:     compileTerms(lex.ImportKeywords),
		governing:       buildGoverningMatchers(lex.GoverningLawOptions),
		ip:              compileTerms(lex.IPKeywords),
		regulatory:      compileTerms(lex.RegulatoryKeywords),
		multiParty:      compileTerms(lex.MultiPartyKeywords),
		confidentiality: compileTerms(lex.ConfidentialityKeywords),
		enforcement:     compileTerms(lex.EnforcementKeywords),
		arbitration:     compileTerms([]string{"arbitration", "arbitral", "arbitrator"}),
		risks:           buildRiskMatchers(lex.CrossBorderRisks),
		log:             common.NewNoopLogger(),
		metrics:         common.NewNoopAnalysisMetrics(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.india == nil {
		a.india = india_lex.New(reg, india_lex.WithLogger(a.log), india_lex.WithMetrics(a.metrics))
	}
	if a.us == nil {
		a.us = us_lex.New(reg, us_lex.WithLogger(a.log), us_lex.WithMetrics(a.metrics))
	}
	return a
}

// Compare runs the full comparative analysis. Empty states default per
// extractor policy (Delhi / Delaware). The two extractions have no
// data dependency and run concurrently; the join waits for both, and a
// cancelled context surfaces as the critical-risk aggregate rather
// than a half-complete comparison.
func (a *Analyzer) Compare(ctx context.Context, text, indianState, usState string) *legal.CrossBorderAnalysis {
	started := time.Now()
	lowered := common.Lower(text)

	// 1. Blank input short-circuits into the critical-shaped result.
	if common.IsBlank(text) {
		result := a.criticalAnalysis(lowered, len(text), "blank input")
		a.finish(ctx, started, result, false)
		return result
	}

	// 2. Join both extractions. Each goroutine reports the context
	// state on return so cancellation propagates through the join.
	var (
		indiaResult *legal.IndianLegalAnalysis
		usResult    *legal.USLegalAnalysis
	)
	var g errgroup.Group
	g.Go(func() error {
		indiaResult = a.india.Analyze(text, indianState)
		return ctx.Err()
	})
	g.Go(func() error {
		usResult = a.us.Analyze(text, usState)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		a.log.Warn("cross-border extraction join aborted", "error", err)
		result := a.criticalAnalysis(lowered, len(text), "extraction aborted: "+err.Error())
		a.finish(ctx, started, result, false)
		return result
	}

	// 3. Shared signals consumed by several sections below.
	risks := a.detectRisks(lowered)
	value := a.transactionValueUSD(indiaResult.Amounts, usResult.Amounts)
	complexity := a.assessComplexity(lowered)

	// 4. Section-by-section assembly.
	enforceability := a.compareEnforceability(indiaResult, usResult, risks)
	formalities := a.compareFormalities(indiaResult)
	tax := a.analyzeTax(lowered, indiaResult)
	gaps := a.identifyGaps(lowered, indiaResult, usResult, tax)
	recommendations := a.buildRecommendations(indiaResult, gaps)

	result := &legal.CrossBorderAnalysis{
		Enforceability:               enforceability,
		Formalities:                  formalities,
		Tax:                          tax,
		RecommendedGoverningLaw:      a.recommendGoverningLaw(lowered),
		RecommendedDisputeResolution: a.recommendDispute(lowered, value, complexity),
		ComplianceGaps:               gaps,
		Recommendations:              recommendations,
		OverallRisk:                  overallRisk(enforceability, formalities, tax, gaps),
		ImplementationRoadmap:        a.buildRoadmap(recommendations),
		Metadata: common.Metadata{
			"text_length":           len(text),
			"india_state":           indiaResult.State,
			"us_governing_state":    usResult.GoverningState,
			"cross_border_risks":    len(risks),
			"complexity":            complexity,
			"transaction_value_usd": value.String(),
		},
	}

	a.log.Debug("cross-border analysis complete",
		"overall_risk", string(result.OverallRisk),
		"gaps", len(gaps),
		"risks", len(risks),
		"complexity", complexity,
	)
	a.finish(ctx, started, result, true)
	return result
}

func (a *Analyzer) finish(ctx context.Context, started time.Time, result *legal.CrossBorderAnalysis, success bool) {
	a.metrics.RecordAnalysis(context.Background(), &common.AnalysisMetricParams{
		Engine:     engineName,
		DurationMs: float64(time.Since(started).Microseconds()) / 1000.0,
		Success:    success,
	})
	if result != nil {
		a.metrics.RecordRiskLevel(ctx, string(result.OverallRisk))
	}
}

// criticalAnalysis is the degraded-but-complete aggregate for blank
// input and aborted joins. The recommenders still run against the
// (possibly empty) lowered text so every field carries a usable value.
func (a *Analyzer) criticalAnalysis(lowered string, textLen int, note string) *legal.CrossBorderAnalysis {
	return &legal.CrossBorderAnalysis{
		Enforceability: &legal.EnforceabilityComparison{
			IndiaScore:       0,
			USScore:          0,
			IndiaFactors:     []string{"analysis incomplete: " + note},
			USFactors:        []string{"analysis incomplete: " + note},
			CrossBorderRisks: []string{},
			RiskLevel:        typescommon.RiskCritical,
		},
		Formalities: &legal.FormalitiesComparison{Items: a.staticFormalityItems()},
		Tax: &legal.TaxImplications{
			DTAABenefits:    []legal.DTAABenefit{},
			TransferPricing: []string{},
			GSTTreatment:    []string{},
			Recommendations: []string{},
		},
		RecommendedGoverningLaw:      a.recommendGoverningLaw(lowered),
		RecommendedDisputeResolution: a.recommendDispute(lowered, decimalZero, complexityLow),
		ComplianceGaps:               []legal.ComplianceGap{},
		Recommendations:              []legal.Recommendation{},
		OverallRisk:                  typescommon.RiskCritical,
		ImplementationRoadmap:        a.buildRoadmap(nil),
		Metadata: common.Metadata{
			"text_length": textLen,
			"note":        note,
		},
	}
}

func buildDTAAMatchers(provisions []lexicon.DTAAProvision) []dtaaMatcher {
	matchers := make([]dtaaMatcher, 0, len(provisions))
	for _, p := range provisions {
		matchers = append(matchers, dtaaMatcher{
			provision: p,
			patterns:  compileTerms(p.Keywords),
		})
	}
	return matchers
}

func buildGoverningMatchers(options []lexicon.GoverningLawOption) []governingMatcher {
	matchers := make([]governingMatcher, 0, len(options))
	for _, opt := range options {
		matchers = append(matchers, governingMatcher{
			option:      opt,
			party:       compileTerms(opt.PartyKeywords),
			transaction: compileTerms(opt.TransactionKeywords),
		})
	}
	return matchers
}

func buildRiskMatchers(rules []lexicon.CrossBorderRiskRule) []riskMatcher {
	matchers := make([]riskMatcher, 0, len(rules))
	for _, rule := range rules {
		matchers = append(matchers, riskMatcher{
			description: rule.Description,
			patterns:    compileTerms(rule.AnyKeywords),
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
