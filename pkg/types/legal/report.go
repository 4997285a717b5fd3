package legal

import (
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// AnalysisReport is the combined output of a routed analysis. Exactly
// the sections matching the detected jurisdiction are populated:
// India for INDIA, US for USA, CrossBorder for CROSS_BORDER, and none
// of the three for UNKNOWN, where NeedsReview is set instead.
type AnalysisReport struct {
	Detection *JurisdictionResult `json:"detection"`

	India       *IndianLegalAnalysis `json:"india,omitempty"`
	US          *USLegalAnalysis     `json:"us,omitempty"`
	CrossBorder *CrossBorderAnalysis `json:"cross_border,omitempty"`

	// NeedsReview flags results that require human attention: unknown
	// jurisdiction, or low detection confidence.
	NeedsReview bool `json:"needs_review"`

	// ReviewReasons explains each NeedsReview flag in display form.
	ReviewReasons []string `json:"review_reasons,omitempty"`

	Metadata common.Metadata `json:"metadata,omitempty"`
}

// PrimaryJurisdiction returns the routed jurisdiction, UNKNOWN when
// detection is absent.
func (r *AnalysisReport) PrimaryJurisdiction() Jurisdiction {
	if r == nil || r.Detection == nil {
		return JurisdictionUnknown
	}
	return r.Detection.Jurisdiction
}
