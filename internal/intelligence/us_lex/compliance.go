package us_lex

import (
	"fmt"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// checkCompliance verifies the mandatory-clause checklist for the
// document type and pattern-matches violations. A clause counts as
// present when any synonym appears anywhere in the lowered text.
func (e *Extractor) checkCompliance(lowered string, docType legal.DocumentType) *legal.ComplianceCheck {
	matchers, ok := e.clauses[docType]
	if !ok {
		matchers = e.clauses[legal.DocTypeAgreement]
	}

	missing := make([]string, 0, len(matchers))
	for _, clause := range matchers {
		if !anyMatch(lowered, clause.patterns) {
			missing = append(missing, clause.name)
		}
	}

	violations := e.detectViolations(lowered)

	check := &legal.ComplianceCheck{
		Status:         legal.ComplianceCompliant,
		MissingClauses: missing,
		Violations:     violations,
		Risk:           riskLevel(len(missing) + len(violations)),
	}
	if len(missing) > 0 || len(violations) > 0 {
		check.Status = legal.ComplianceNonCompliant
	}
	return check
}

// detectViolations combines bare prohibited-term hits with the
// all-keywords rules. Rules sharing a description report it once.
func (e *Extractor) detectViolations(lowered string) []string {
	var violations []string
	for i, re := range e.violations {
		if re.MatchString(lowered) {
			violations = append(violations, fmt.Sprintf("Text contains %q, suggesting an unlawful subject matter", e.lex.ViolationTokens[i]))
		}
	}

	seen := make(map[string]bool, len(e.violationRules))
	for _, rule := range e.violationRules {
		if seen[rule.description] {
			continue
		}
		if allMatch(lowered, rule.all) {
			seen[rule.description] = true
			violations = append(violations, rule.description)
		}
	}
	return violations
}

func riskLevel(issues int) legal.ComplianceRisk {
	switch {
	case issues == 0:
		return legal.ComplianceRiskLow
	case issues <= 2:
		return legal.ComplianceRiskMedium
	default:
		return legal.ComplianceRiskHigh
	}
}
