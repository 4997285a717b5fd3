package india_lex

import (
	"fmt"
	"strconv"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Lease terms beyond eleven months need registration under Section
// 107 of the Transfer of Property Act, 1882 read with Section 17 of
// the Registration Act, 1908.
const maxUnregisteredLeaseMonths = 11

// checkCompliance verifies the mandatory-clause checklist for the
// document type and pattern-matches violations. A clause counts as
// present when any synonym appears anywhere in the lowered text;
// proximity and ordering are not considered.
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

	violations := e.detectViolations(lowered, docType)

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

func (e *Extractor) detectViolations(lowered string, docType legal.DocumentType) []string {
	var violations []string
	for i, re := range e.violations {
		if re.MatchString(lowered) {
			violations = append(violations, fmt.Sprintf("Text contains %q, suggesting an unlawful object or consideration", e.lex.ViolationTokens[i]))
		}
	}
	if docType == legal.DocTypeLease && e.leaseExceedsElevenMonths(lowered) && !e.registrationRe.MatchString(lowered) {
		violations = append(violations, "Lease term exceeds eleven months with no mention of registration; unregistered long leases are inadmissible under Section 49 of the Registration Act, 1908")
	}
	return violations
}

// leaseExceedsElevenMonths reads every "N months" and "N years"
// duration in the text. Any year-denominated term is over the limit.
func (e *Extractor) leaseExceedsElevenMonths(lowered string) bool {
	for _, m := range e.leaseMonthsRe.FindAllStringSubmatch(lowered, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxUnregisteredLeaseMonths {
			return true
		}
	}
	for _, m := range e.leaseYearsRe.FindAllStringSubmatch(lowered, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 {
			return true
		}
	}
	return false
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
