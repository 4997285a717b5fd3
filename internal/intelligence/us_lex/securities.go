package us_lex

import (
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// analyzeSecurities screens for a securities offering and resolves the
// three-way status: not applicable, exemption available (compliance
// still required), or registration likely required. An exemption
// matches when every word of its canonical name appears, or when any
// of its shorthand phrases does.
func (e *Extractor) analyzeSecurities(lowered string) *legal.SecuritiesAnalysis {
	analysis := &legal.SecuritiesAnalysis{Status: legal.SecuritiesNotApplicable}
	if !anyMatch(lowered, e.secIndicators) {
		return analysis
	}
	analysis.SecuritiesInvolved = true

	for _, ex := range e.secExemptions {
		byName := len(ex.allWords) > 0 && allMatch(lowered, ex.allWords)
		if byName || anyMatch(lowered, ex.shorthand) {
			analysis.FederalExemptions = append(analysis.FederalExemptions, ex.entry.Name)
			analysis.Requirements = append(analysis.Requirements, ex.entry.Requirements...)
		}
	}

	if len(analysis.FederalExemptions) > 0 {
		analysis.Status = legal.SecuritiesExemptionAvailable
		analysis.Requirements = append(analysis.Requirements, e.lex.Securities.ExemptionRequirements...)
		return analysis
	}

	analysis.Status = legal.SecuritiesRegistrationRequired
	analysis.Requirements = append(analysis.Requirements, e.lex.Securities.RegistrationRequirements...)
	analysis.RiskFactors = append(analysis.RiskFactors,
		"No registration exemption identified; unregistered offers and sales carry rescission and civil-liability exposure")
	return analysis
}
