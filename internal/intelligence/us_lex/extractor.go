// Package us_lex extracts US legal facts from contract text: the
// governing state, federal statutes referenced, UCC applicability,
// securities screening, privacy regimes, and a mandatory-clause
// compliance check.
//
// Analyze is a total function over string input. Blank text yields a
// fully-populated result with unknown compliance rather than an error.
package us_lex

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

// DefaultGoverningState is assumed when neither a choice-of-law clause
// nor a bare mention names one. Delaware is the most frequently chosen
// commercial governing law; the result's Source field records the
// default so callers can weigh it accordingly.
const DefaultGoverningState = "Delaware"

const engineName = "us_lex"

// Federal statute confidence. The bonus applies when the year embedded
// in the statute's conventional citation form appears in the
// surrounding context.
const (
	lawBaseConfidence = 0.75
	lawYearBonus      = 0.2
)

const (
	contextRadius = 150
	sectionWindow = 200
)

type docTypeMatcher struct {
	docType  legal.DocumentType
	patterns []*regexp.Regexp
}

type lawMatcher struct {
	entry    lexicon.FederalLawEntry
	year     string
	patterns []*regexp.Regexp
}

type clauseMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

type stateMatcher struct {
	display string
	re      *regexp.Regexp
}

type violationRuleMatcher struct {
	description string
	all         []*regexp.Regexp
}

type articleMatcher struct {
	entry    lexicon.UCCArticleEntry
	patterns []*regexp.Regexp
}

type companionMatcher struct {
	check    lexicon.CompanionCheck
	expected []*regexp.Regexp
}

type exemptionMatcher struct {
	entry     lexicon.ExemptionEntry
	allWords  []*regexp.Regexp
	shorthand []*regexp.Regexp
}

type disclosureMatcher struct {
	element  string
	patterns []*regexp.Regexp
}

type privacyMatcher struct {
	law         lexicon.PrivacyLaw
	names       []*regexp.Regexp
	scope       []*regexp.Regexp
	disclosures []disclosureMatcher
}

// Extractor derives US legal analysis from raw text. Immutable after
// New; safe for concurrent use.
type Extractor struct {
	lex    *lexicon.USLexicon
	parser *amount_parser.Parser

	choiceOfLaw []*regexp.Regexp
	forum       []*regexp.Regexp
	stateIndex  map[string]string
	stateNames  []stateMatcher

	docTypes       []docTypeMatcher
	laws           []lawMatcher
	clauses        map[legal.DocumentType][]clauseMatcher
	violations     []*regexp.Regexp
	violationRules []violationRuleMatcher

	uccApplicability []*regexp.Regexp
	uccArticles      []articleMatcher
	uccCompanions    []companionMatcher

	secIndicators []*regexp.Regexp
	secExemptions []exemptionMatcher

	privacy []privacyMatcher

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
	lex := reg.US

	e := &Extractor{
		lex:              lex,
		parser:           amount_parser.New(legal.LocaleUS),
		choiceOfLaw:      compileSources(lex.ChoiceOfLawPatterns),
		forum:            compileSources(lex.ForumPatterns),
		stateIndex:       buildStateIndex(lex.States),
		stateNames:       buildStateMatchers(lex.States),
		docTypes:         buildDocTypeMatchers(lex.DocTypes),
		laws:             buildLawMatchers(lex.FederalLaws),
		clauses:          buildClauseMatchers(lex.MandatoryClauses),
		violations:       compileTerms(lex.ViolationTokens),
		violationRules:   buildViolationRuleMatchers(lex.ViolationRules),
		uccApplicability: compileTerms(lex.UCC.ApplicabilityKeywords),
		uccArticles:      buildArticleMatchers(lex.UCC.Articles),
		uccCompanions:    buildCompanionMatchers(lex.UCC.CompanionChecks),
		secIndicators:    compileTerms(lex.Securities.Indicators),
		secExemptions:    buildExemptionMatchers(lex.Securities.Exemptions),
		privacy:          buildPrivacyMatchers(lex.Privacy),
		log:              common.NewNoopLogger(),
		metrics:          common.NewNoopAnalysisMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze extracts the full US analysis. An empty state is resolved
// from the text: an explicit choice-of-law clause beats a bare state
// name, which beats the documented default.
func (e *Extractor) Analyze(text, state string) *legal.USLegalAnalysis {
	started := time.Now()
	lowered := common.Lower(text)

	// 1. Resolve the governing state, clause evidence first.
	jurisdiction := e.resolveState(text, lowered, state)

	// 2. Blank input short-circuits into the unknown-shaped result.
	if common.IsBlank(text) {
		result := e.emptyAnalysis(jurisdiction, len(text))
		e.record(started)
		return result
	}

	// 3. Classify the document type, most specific rule first.
	docType := e.detectDocumentType(lowered)

	// 4. Parse amounts in the US locale.
	amounts := e.parser.Parse(text)

	result := &legal.USLegalAnalysis{
		GoverningState:    jurisdiction.GoverningState,
		StateJurisdiction: jurisdiction,
		FederalLaws:       e.extractLaws(text, lowered),
		UCC:               e.analyzeUCC(lowered, jurisdiction.GoverningState),
		Securities:        e.analyzeSecurities(lowered),
		Privacy:           e.analyzePrivacy(lowered),
		Compliance:        e.checkCompliance(lowered, docType),
		Amounts:           amounts,
		Metadata: common.Metadata{
			"text_length":   len(text),
			"document_type": string(docType),
			"state_source":  string(jurisdiction.Source),
			"amounts_found": len(amounts),
		},
	}

	e.log.Debug("us analysis complete",
		"governing_state", jurisdiction.GoverningState,
		"document_type", string(docType),
		"federal_laws", len(result.FederalLaws),
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

// resolveState applies the precedence ladder: caller-provided state,
// choice-of-law clause, bare name mention, configured default. The
// forum state is reported only when a forum clause names a state
// different from the governing one.
func (e *Extractor) resolveState(text, lowered, state string) *legal.StateJurisdictionAnalysis {
	out := &legal.StateJurisdictionAnalysis{}

	if s := strings.TrimSpace(state); s != "" {
		out.GoverningState = s
		if display, ok := e.stateIndex[strings.ToLower(s)]; ok {
			out.GoverningState = display
		}
		out.Source = legal.StateFromProvided
	} else if display, clause := e.matchClauseState(text, lowered, e.choiceOfLaw); display != "" {
		out.GoverningState = display
		out.ClauseText = clause
		out.Source = legal.StateFromChoiceOfLaw
	} else if display := e.matchBareState(lowered); display != "" {
		out.GoverningState = display
		out.Source = legal.StateFromMention
	} else {
		out.GoverningState = DefaultGoverningState
		out.Source = legal.StateFromDefault
	}

	if display, _ := e.matchClauseState(text, lowered, e.forum); display != "" && display != out.GoverningState {
		out.ForumState = display
	}
	return out
}

// matchClauseState runs capture-group patterns in order and returns
// the first capture that names a recognized state, with the matched
// clause from the original-cased text.
func (e *Extractor) matchClauseState(text, lowered string, patterns []*regexp.Regexp) (string, string) {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatchIndex(lowered, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			candidate := strings.TrimSpace(lowered[m[2]:m[3]])
			if display, ok := e.stateIndex[candidate]; ok {
				return display, common.Snippet(text, m[0], m[1], 0)
			}
		}
	}
	return "", ""
}

func (e *Extractor) matchBareState(lowered string) string {
	for _, m := range e.stateNames {
		if m.re.MatchString(lowered) {
			return m.display
		}
	}
	return ""
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

func (e *Extractor) emptyAnalysis(jurisdiction *legal.StateJurisdictionAnalysis, textLen int) *legal.USLegalAnalysis {
	return &legal.USLegalAnalysis{
		GoverningState:    jurisdiction.GoverningState,
		StateJurisdiction: jurisdiction,
		UCC:               &legal.UCCAnalysis{},
		Securities:        &legal.SecuritiesAnalysis{Status: legal.SecuritiesNotApplicable},
		Privacy:           &legal.PrivacyAnalysis{},
		Compliance: &legal.ComplianceCheck{
			Status: legal.ComplianceUnknown,
			Risk:   legal.ComplianceRiskLow,
		},
		Metadata: common.Metadata{
			"text_length":   textLen,
			"state_source":  string(jurisdiction.Source),
			"amounts_found": 0,
		},
	}
}

func buildStateIndex(states []string) map[string]string {
	index := make(map[string]string, len(states))
	for _, s := range states {
		index[strings.ToLower(s)] = s
	}
	return index
}

func buildStateMatchers(states []string) []stateMatcher {
	matchers := make([]stateMatcher, 0, len(states))
	for _, s := range states {
		matchers = append(matchers, stateMatcher{
			display: s,
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

var citationYearRe = regexp.MustCompile(`\b(?:18|19|20)\d{2}\b`)

func buildLawMatchers(laws []lexicon.FederalLawEntry) []lawMatcher {
	matchers := make([]lawMatcher, 0, len(laws))
	for _, law := range laws {
		matchers = append(matchers, lawMatcher{
			entry:    law,
			year:     citationYearRe.FindString(law.FullName),
			patterns: compileTerms(law.Aliases),
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

func buildViolationRuleMatchers(rules []lexicon.ViolationRule) []violationRuleMatcher {
	matchers := make([]violationRuleMatcher, 0, len(rules))
	for _, rule := range rules {
		matchers = append(matchers, violationRuleMatcher{
			description: rule.Description,
			all:         compileTerms(rule.AllKeywords),
		})
	}
	return matchers
}

func buildArticleMatchers(articles []lexicon.UCCArticleEntry) []articleMatcher {
	matchers := make([]articleMatcher, 0, len(articles))
	for _, article := range articles {
		matchers = append(matchers, articleMatcher{
			entry:    article,
			patterns: compileTerms(article.Keywords),
		})
	}
	return matchers
}

func buildCompanionMatchers(checks []lexicon.CompanionCheck) []companionMatcher {
	matchers := make([]companionMatcher, 0, len(checks))
	for _, check := range checks {
		matchers = append(matchers, companionMatcher{
			check:    check,
			expected: compileTerms(check.ExpectAny),
		})
	}
	return matchers
}

func buildExemptionMatchers(exemptions []lexicon.ExemptionEntry) []exemptionMatcher {
	matchers := make([]exemptionMatcher, 0, len(exemptions))
	for _, ex := range exemptions {
		matchers = append(matchers, exemptionMatcher{
			entry:     ex,
			allWords:  compileTerms(ex.AllWords),
			shorthand: compileTerms(ex.Shorthand),
		})
	}
	return matchers
}

func buildPrivacyMatchers(laws []lexicon.PrivacyLaw) []privacyMatcher {
	matchers := make([]privacyMatcher, 0, len(laws))
	for _, law := range laws {
		disclosures := make([]disclosureMatcher, 0, len(law.Disclosures))
		for _, d := range law.Disclosures {
			disclosures = append(disclosures, disclosureMatcher{
				element:  d.Element,
				patterns: compileTerms(d.Keywords),
			})
		}
		matchers = append(matchers, privacyMatcher{
			law:         law,
			names:       compileTerms(law.Abbrevs),
			scope:       compileTerms(law.ScopeKeywords),
			disclosures: disclosures,
		})
	}
	return matchers
}

func compileSources(sources []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		res = append(res, regexp.MustCompile(src))
	}
	return res
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

func allMatch(lowered string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if !re.MatchString(lowered) {
			return false
		}
	}
	return true
}
