package legal

import (
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// GapType classifies a cross-border compliance gap.
type GapType string

const (
	GapFormality         GapType = "FORMALITY"
	GapRegistration      GapType = "REGISTRATION"
	GapTax               GapType = "TAX"
	GapDisclosure        GapType = "DISCLOSURE"
	GapGoverningLaw      GapType = "GOVERNING_LAW"
	GapDisputeResolution GapType = "DISPUTE_RESOLUTION"
)

// ComplianceGap is one divergence between the two regimes' requirements
// for the same instrument.
type ComplianceGap struct {
	Type             GapType         `json:"type"`
	Description      string          `json:"description"`
	IndiaRequirement string          `json:"india_requirement"`
	USRequirement    string          `json:"us_requirement"`
	Impact           string          `json:"impact"`
	Mitigation       string          `json:"mitigation"`
	Priority         common.Priority `json:"priority"`
}

// EnforceabilityComparison scores the likelihood that the instrument
// holds up in each jurisdiction. Scores are in [0.0, 1.0].
type EnforceabilityComparison struct {
	IndiaScore float64 `json:"india_score"`
	USScore    float64 `json:"us_score"`

	IndiaFactors []string `json:"india_factors,omitempty"`
	USFactors    []string `json:"us_factors,omitempty"`

	CrossBorderRisks []string         `json:"cross_border_risks"`
	RiskLevel        common.RiskLevel `json:"risk_level"`
}

// FormalityItem is one row of the execution-formalities comparison.
type FormalityItem struct {
	Aspect           string `json:"aspect"`
	IndiaRequirement string `json:"india_requirement"`
	USRequirement    string `json:"us_requirement"`
	Differs          bool   `json:"differs"`
}

// FormalitiesComparison contrasts execution formalities across regimes.
type FormalitiesComparison struct {
	Items []FormalityItem `json:"items"`
}

// DTAABenefit is one withholding-tax position under the India-US
// Double Taxation Avoidance Agreement.
type DTAABenefit struct {
	PaymentType     string `json:"payment_type"`
	TreatyArticle   string `json:"treaty_article,omitempty"`
	WithholdingRate string `json:"withholding_rate"`
	Description     string `json:"description,omitempty"`
}

// TaxImplications bundles treaty, transfer-pricing, and indirect-tax
// positions for a cross-border arrangement.
type TaxImplications struct {
	DTAABenefits    []DTAABenefit `json:"dtaa_benefits"`
	TransferPricing []string      `json:"transfer_pricing"`
	GSTTreatment    []string      `json:"gst_treatment"`
	Recommendations []string      `json:"recommendations"`
}

// Recommendation is one actionable structuring recommendation.
type Recommendation struct {
	Category     string          `json:"category"`
	Priority     common.Priority `json:"priority"`
	Title        string          `json:"title"`
	Rationale    string          `json:"rationale"`
	Steps        []string        `json:"steps,omitempty"`
	CostEstimate string          `json:"cost_estimate,omitempty"`
	Timeline     string          `json:"timeline,omitempty"`
}

// CrossBorderAnalysis is the full comparative output. Every pointer
// field is populated on success, including for empty input, where the
// result reflects maximal uncertainty rather than absence.
type CrossBorderAnalysis struct {
	Enforceability *EnforceabilityComparison `json:"enforceability"`
	Formalities    *FormalitiesComparison    `json:"formalities"`
	Tax            *TaxImplications          `json:"tax"`

	// RecommendedGoverningLaw is the top-scoring candidate with its
	// suitability score embedded, e.g.
	// "Singapore law (neutral) [score 7.5]".
	RecommendedGoverningLaw string `json:"recommended_governing_law"`

	// RecommendedDisputeResolution is the top-scoring mechanism with
	// its suitability score embedded.
	RecommendedDisputeResolution string `json:"recommended_dispute_resolution"`

	ComplianceGaps  []ComplianceGap  `json:"compliance_gaps"`
	Recommendations []Recommendation `json:"recommendations"`

	OverallRisk common.RiskLevel `json:"overall_risk"`

	// ImplementationRoadmap is the phased execution plan, ordered.
	ImplementationRoadmap []string `json:"implementation_roadmap"`

	Metadata common.Metadata `json:"metadata,omitempty"`
}
