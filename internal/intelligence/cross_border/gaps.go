package cross_border

import (
	"fmt"

	typescommon "github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// Overall-risk weights and bucket thresholds. A critical
// enforceability finding dominates; the counted terms accumulate the
// long tail of paperwork exposure.
const (
	enforceabilityCriticalWeight = 1.0
	formalityGapWeight           = 0.1
	taxRecommendationWeight      = 0.1
	highPriorityGapWeight        = 0.2

	overallCriticalAt = 1.5
	overallHighAt     = 1.0
	overallMediumAt   = 0.5
)

// identifyGaps emits one typed gap per structural disagreement between
// the two extractions. Each gap carries the fixed mitigation template
// for its type.
func (a *Analyzer) identifyGaps(lowered string, india *legal.IndianLegalAnalysis, us *legal.USLegalAnalysis, tax *legal.TaxImplications) []legal.ComplianceGap {
	gaps := []legal.ComplianceGap{}

	if india.StampDuty != nil && india.StampDuty.Status == legal.StampRequiresStamping {
		gaps = append(gaps, a.newGap(legal.GapFormality,
			"Indian stamp duty is payable but the text does not evidence stamping",
			stampFormalityItem(india.StampDuty).IndiaRequirement,
			"No stamp duty",
			"An unstamped instrument is inadmissible in evidence in India until duty and penalty are paid",
			typescommon.PriorityHigh))
	}

	if india.Registration != nil && india.Registration.Required {
		gaps = append(gaps, a.newGap(legal.GapRegistration,
			fmt.Sprintf("Compulsory registration applies to a %s in India; the US side has no counterpart filing", india.DocumentType),
			registrationFormalityItem(india.Registration).IndiaRequirement,
			"No general registration requirement",
			"An unregistered compulsorily-registrable instrument cannot affect the property or be received as evidence of the transaction",
			typescommon.PriorityHigh))
	}

	if len(tax.DTAABenefits) > 0 {
		gaps = append(gaps, a.newGap(legal.GapTax,
			"Cross-border payments attract Indian withholding tax; the US payee must document treaty eligibility",
			"Withhold under the Income Tax Act, 1961 at treaty rates with a valid TRC and Form 10F",
			"Provide Form W-8BEN-E and report treaty-based positions",
			"Withholding at domestic rates instead of treaty rates leaks tax that may not be creditable",
			typescommon.PriorityMedium))
	}

	if us.Privacy != nil && us.Privacy.Applicable && len(us.Privacy.ComplianceGaps) > 0 {
		gaps = append(gaps, a.newGap(legal.GapDisclosure,
			fmt.Sprintf("US privacy laws demand disclosures the Indian side does not mirror (%d missing elements)", len(us.Privacy.ComplianceGaps)),
			"Consent and notice duties under the DPDP Act, 2023",
			firstOf(us.Privacy.ApplicableLaws, "US state privacy law")+" disclosure elements missing from the text",
			"Missing disclosures expose the arrangement to regulatory action on the US side and void consent on the Indian side",
			typescommon.PriorityMedium))
	}

	if us.StateJurisdiction == nil || us.StateJurisdiction.Source == legal.StateFromDefault {
		gaps = append(gaps, a.newGap(legal.GapGoverningLaw,
			"No express governing-law clause was found",
			"Indian courts apply the law with the closest and most real connection",
			"US courts apply forum conflict-of-laws rules",
			"Each side's courts may reach a different governing law, making outcomes unpredictable",
			typescommon.PriorityHigh))
	}

	if !anyMatch(lowered, a.arbitration) {
		gaps = append(gaps, a.newGap(legal.GapDisputeResolution,
			"No arbitration clause was found",
			"Foreign judgments from non-reciprocating territories (including the US) require a fresh Indian suit",
			"Indian judgments face state-by-state recognition procedures",
			"Court judgments do not travel between the two jurisdictions the way arbitral awards do",
			typescommon.PriorityHigh))
	}

	return gaps
}

func (a *Analyzer) newGap(gapType legal.GapType, description, indiaReq, usReq, impact string, priority typescommon.Priority) legal.ComplianceGap {
	return legal.ComplianceGap{
		Type:             gapType,
		Description:      description,
		IndiaRequirement: indiaReq,
		USRequirement:    usReq,
		Impact:           impact,
		Mitigation:       a.lex.MitigationTemplates[gapType],
		Priority:         priority,
	}
}

// buildRecommendations turns gaps into actionable structuring
// recommendations, one per gap type present, ordered by the fixed
// category sequence below.
func (a *Analyzer) buildRecommendations(india *legal.IndianLegalAnalysis, gaps []legal.ComplianceGap) []legal.Recommendation {
	present := map[legal.GapType]legal.ComplianceGap{}
	for _, g := range gaps {
		if _, ok := present[g.Type]; !ok {
			present[g.Type] = g
		}
	}

	recs := []legal.Recommendation{}

	if g, ok := present[legal.GapFormality]; ok {
		rec := legal.Recommendation{
			Category:  "formalities",
			Priority:  g.Priority,
			Title:     "Stamp the India counterpart before execution",
			Rationale: g.Impact,
			Steps: []string{
				"Determine the applicable state schedule and duty amount",
				"Purchase e-stamp paper or frank the instrument before signatures",
				"Record the stamp certificate number in the execution block",
			},
			Timeline: "Before signing",
		}
		if india.StampDuty != nil && india.StampDuty.CalculatedDuty != nil {
			rec.CostEstimate = "INR " + india.StampDuty.CalculatedDuty.StringFixed(2)
		}
		recs = append(recs, rec)
	}

	if g, ok := present[legal.GapRegistration]; ok {
		recs = append(recs, legal.Recommendation{
			Category:  "formalities",
			Priority:  g.Priority,
			Title:     "Register the instrument with the Sub-Registrar",
			Rationale: g.Impact,
			Steps: []string{
				"Book a Sub-Registrar appointment in the district where the property is situated",
				"Present the stamped original with both parties or their attorneys",
				"Collect the registered counterpart and index entry",
			},
			Timeline: deadlineOr(india.Registration, "Within four months of execution"),
		})
	}

	if g, ok := present[legal.GapTax]; ok {
		recs = append(recs, legal.Recommendation{
			Category:  "tax",
			Priority:  g.Priority,
			Title:     "Apply treaty relief at source",
			Rationale: g.Impact,
			Steps: []string{
				"Collect a tax residency certificate and Form 10F from the payee",
				"Withhold at the treaty rate and deposit against the payee's PAN",
				"File Form 15CA/15CB before remitting",
			},
			Timeline: "Before the first cross-border payment",
		})
	}

	if g, ok := present[legal.GapDisclosure]; ok {
		recs = append(recs, legal.Recommendation{
			Category:  "compliance",
			Priority:  g.Priority,
			Title:     "Close the disclosure gap across both privacy regimes",
			Rationale: g.Impact,
			Steps: []string{
				"Map the missing disclosure elements against each applicable law",
				"Fold both regimes' notice obligations into one disclosure schedule",
			},
			Timeline: "Before processing personal data",
		})
	}

	if g, ok := present[legal.GapGoverningLaw]; ok {
		recs = append(recs, legal.Recommendation{
			Category:  "structure",
			Priority:  g.Priority,
			Title:     "Adopt an express governing-law clause",
			Rationale: g.Impact,
			Steps: []string{
				"Select the governing regime and state it expressly",
				"Carve out mandatory local law: stamp, registration, exchange control",
			},
			Timeline: "Next amendment or before execution",
		})
	}

	if g, ok := present[legal.GapDisputeResolution]; ok {
		recs = append(recs, legal.Recommendation{
			Category:  "structure",
			Priority:  g.Priority,
			Title:     "Adopt institutional arbitration seated in a New York Convention state",
			Rationale: g.Impact,
			Steps: []string{
				"Choose an institution and seat acceptable to both parties",
				"Adopt the institution's model clause with seat, language, and panel size",
			},
			Timeline: "Next amendment or before execution",
		})
	}

	return recs
}

// overallRisk is the weighted paperwork-exposure sum, bucketed. The
// formality term counts diverging rows; the tax term counts actionable
// tax recommendations; the gap term counts high-priority gaps.
func overallRisk(enforceability *legal.EnforceabilityComparison, formalities *legal.FormalitiesComparison, tax *legal.TaxImplications, gaps []legal.ComplianceGap) typescommon.RiskLevel {
	score := 0.0
	if enforceability.RiskLevel == typescommon.RiskCritical {
		score += enforceabilityCriticalWeight
	}

	differing := 0
	for _, item := range formalities.Items {
		if item.Differs {
			differing++
		}
	}
	score += formalityGapWeight * float64(differing)

	score += taxRecommendationWeight * float64(len(tax.Recommendations))

	highGaps := 0
	for _, g := range gaps {
		if g.Priority == typescommon.PriorityHigh {
			highGaps++
		}
	}
	score += highPriorityGapWeight * float64(highGaps)

	switch {
	case score >= overallCriticalAt:
		return typescommon.RiskCritical
	case score >= overallHighAt:
		return typescommon.RiskHigh
	case score >= overallMediumAt:
		return typescommon.RiskMedium
	default:
		return typescommon.RiskLow
	}
}

// roadmapPhaseByCategory folds each recommendation category into the
// matching phase of the fixed template: formalities are critical
// compliance, structure choices are phase 2, tax and regulatory work
// is phase 3.
var roadmapPhaseByCategory = map[string]int{
	"formalities": 0,
	"structure":   1,
	"tax":         2,
	"compliance":  2,
}

// buildRoadmap flattens the fixed phase template, appending each
// recommendation's title under its category's phase. The roadmap is
// presentation scaffolding, not a computed schedule.
func (a *Analyzer) buildRoadmap(recs []legal.Recommendation) []string {
	roadmap := []string{}
	for i, phase := range a.lex.RoadmapPhases {
		roadmap = append(roadmap, phase.Title)
		for _, item := range phase.Items {
			roadmap = append(roadmap, "- "+item)
		}
		for _, rec := range recs {
			if idx, ok := roadmapPhaseByCategory[rec.Category]; ok && idx == i {
				roadmap = append(roadmap, "- "+rec.Title)
			}
		}
	}
	return roadmap
}

func firstOf(values []string, fallback string) string {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

func deadlineOr(reg *legal.RegistrationRequirement, fallback string) string {
	if reg != nil && reg.Deadline != "" {
		return reg.Deadline
	}
	return fallback
}
