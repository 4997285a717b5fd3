package us_lex

import (
	"fmt"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// analyzePrivacy matches each privacy regime by direct name mention or
// scope vocabulary. Name checks exist because several regimes have
// scope descriptions too generic to match on alone. A missing expected
// disclosure is reported as a gap, not a violation.
func (e *Extractor) analyzePrivacy(lowered string) *legal.PrivacyAnalysis {
	analysis := &legal.PrivacyAnalysis{}
	for _, m := range e.privacy {
		if !anyMatch(lowered, m.names) && !anyMatch(lowered, m.scope) {
			continue
		}
		analysis.ApplicableLaws = append(analysis.ApplicableLaws, m.law.Name)
		analysis.Requirements = append(analysis.Requirements, m.law.Requirements...)

		for _, d := range m.disclosures {
			if !anyMatch(lowered, d.patterns) {
				analysis.ComplianceGaps = append(analysis.ComplianceGaps,
					fmt.Sprintf("%s: no %s language found", m.law.Name, d.element))
			}
		}
	}
	analysis.Applicable = len(analysis.ApplicableLaws) > 0
	return analysis
}
