package cross_border

import (
	"fmt"

	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	typescommon "github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Risk bucket thresholds over the average of the two enforceability
// scores, with risk-count overrides so a document dense in
// cross-border exposure never grades LOW on score alone.
const (
	criticalScoreBelow = 0.3
	highScoreBelow     = 0.5
	mediumScoreBelow   = 0.7

	criticalRiskCount = 6
	highRiskCount     = 4
	mediumRiskCount   = 2
)

// compareEnforceability scores each side from its extractor output.
// Both sides pay the same uniform penalty per cross-border risk; the
// risks endanger the arrangement as a whole, not one regime.
func (a *Analyzer) compareEnforceability(india *legal.IndianLegalAnalysis, us *legal.USLegalAnalysis, risks []string) *legal.EnforceabilityComparison {
	indiaScore, indiaFactors := a.scoreIndia(india)
	usScore, usFactors := a.scoreUS(us)

	penalty := riskPenalty * float64(len(risks))
	if penalty > 0 {
		indiaScore -= penalty
		usScore -= penalty
		note := fmt.Sprintf("%d cross-border risks identified", len(risks))
		indiaFactors = append(indiaFactors, note)
		usFactors = append(usFactors, note)
	}

	indiaScore = common.RoundTo2(common.Clamp01(indiaScore))
	usScore = common.RoundTo2(common.Clamp01(usScore))

	return &legal.EnforceabilityComparison{
		IndiaScore:       indiaScore,
		USScore:          usScore,
		IndiaFactors:     indiaFactors,
		USFactors:        usFactors,
		CrossBorderRisks: risks,
		RiskLevel:        bucketRisk((indiaScore+usScore)/2, len(risks)),
	}
}

func (a *Analyzer) scoreIndia(india *legal.IndianLegalAnalysis) (float64, []string) {
	score := indiaEnforceabilityBase
	factors := []string{"Indian Contract Act baseline"}

	if india.Compliance != nil && india.Compliance.Status == legal.ComplianceCompliant {
		score += complianceBonus
		factors = append(factors, "mandatory clause check passed")
	} else {
		factors = append(factors, "mandatory clause gaps or unknown compliance")
	}

	if india.StampDuty != nil && india.StampDuty.Status == legal.StampCompliant {
		score += stampBonus
		factors = append(factors, "text evidences stamping")
	} else {
		factors = append(factors, "stamping not evidenced; unstamped instruments are inadmissible in evidence")
	}

	if india.Registration != nil && !india.Registration.Required {
		score += registrationBonus
		factors = append(factors, "no compulsory registration for this instrument type")
	} else {
		factors = append(factors, "compulsory registration outstanding")
	}

	return score, factors
}

func (a *Analyzer) scoreUS(us *legal.USLegalAnalysis) (float64, []string) {
	score := usEnforceabilityBase
	factors := []string{"litigation-tested common-law baseline"}

	if us.Compliance != nil && us.Compliance.Status == legal.ComplianceCompliant {
		score += complianceBonus
		factors = append(factors, "essential element check passed")
	} else {
		factors = append(factors, "essential element gaps or unknown compliance")
	}

	evidenced := us.StateJurisdiction != nil && us.StateJurisdiction.Source != legal.StateFromDefault
	if evidenced {
		score += governingStateBonus
		factors = append(factors, fmt.Sprintf("governing state %s (%s)", us.GoverningState, us.StateJurisdiction.Source))
	} else {
		factors = append(factors, "no governing state evidenced; default applied")
	}

	return score, factors
}

// detectRisks collects the description of every risk rule with at
// least one keyword present. Order follows the rule table.
func (a *Analyzer) detectRisks(lowered string) []string {
	risks := []string{}
	for _, m := range a.risks {
		if anyMatch(lowered, m.patterns) {
			risks = append(risks, m.description)
		}
	}
	return risks
}

func bucketRisk(avgScore float64, riskCount int) typescommon.RiskLevel {
	switch {
	case avgScore < criticalScoreBelow || riskCount >= criticalRiskCount:
		return typescommon.RiskCritical
	case avgScore < highScoreBelow || riskCount >= highRiskCount:
		return typescommon.RiskHigh
	case avgScore < mediumScoreBelow || riskCount >= mediumRiskCount:
		return typescommon.RiskMedium
	default:
		return typescommon.RiskLow
	}
}
