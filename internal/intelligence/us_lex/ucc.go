package us_lex

import (
	"strings"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// analyzeUCC screens for Uniform Commercial Code coverage. Several
// articles can match one document; the reported transaction type is
// the first hit in the fixed priority order. Risk factors come from
// the absence of clauses that usually accompany a matched article.
func (e *Extractor) analyzeUCC(lowered, governingState string) *legal.UCCAnalysis {
	analysis := &legal.UCCAnalysis{}
	if !anyMatch(lowered, e.uccApplicability) {
		return analysis
	}
	analysis.Applicable = true

	matched := make(map[string]bool, len(e.uccArticles))
	for _, m := range e.uccArticles {
		if anyMatch(lowered, m.patterns) {
			matched[m.entry.Article] = true
			analysis.Articles = append(analysis.Articles, m.entry.Article)
			analysis.Requirements = append(analysis.Requirements, e.lex.UCC.Requirements[m.entry.Article]...)
		}
	}

	for _, rule := range e.lex.UCC.TransactionPriority {
		if matched[rule.Article] {
			analysis.TransactionType = rule.Type
			break
		}
	}

	analysis.StateVariations = e.lex.UCC.StateVariations[strings.ToLower(governingState)]

	for _, c := range e.uccCompanions {
		if matched[c.check.Article] && !anyMatch(lowered, c.expected) {
			analysis.RiskFactors = append(analysis.RiskFactors, c.check.Risk)
		}
	}
	return analysis
}
