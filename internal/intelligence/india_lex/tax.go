package india_lex

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

var percentDivisor = decimal.NewFromInt(100)

// analyzeStampDuty prices the instrument against the state stamp
// schedule. CalculatedDuty stays nil when no consideration amount was
// extracted; a missing figure is never reported as a zero figure.
//
// Status is unknown for blank input, compliant when the text itself
// records stamping (paid duty, stamp paper, franking), and
// requires_stamping otherwise. Instruments carry a minimum duty even
// without an ascertainable consideration, so the absence of an amount
// does not soften the status.
func (e *Extractor) analyzeStampDuty(lowered, display, key string, docType legal.DocumentType, consideration *legal.MonetaryAmount) *legal.StampDutyAnalysis {
	rate := e.lex.StampRateFor(key, docType)

	analysis := &legal.StampDutyAnalysis{
		State:         display,
		DocumentType:  docType,
		Consideration: consideration,
		RatePercent:   rate.Rate.InexactFloat64(),
		MinimumDuty:   rate.Minimum,
		MaximumDuty:   rate.Maximum,
		Requirements:  e.lex.StampRequirementsFor(docType),
		Status:        legal.StampUnknown,
	}

	for _, ex := range e.exemptions {
		if anyMatch(lowered, ex.patterns) {
			analysis.Exemptions = append(analysis.Exemptions, ex.description)
		}
	}

	if consideration != nil {
		// duty = max(minimum, min(maximum, consideration * rate / 100))
		duty := consideration.Amount.Mul(rate.Rate).Div(percentDivisor)
		if rate.Maximum != nil && duty.GreaterThan(*rate.Maximum) {
			duty = *rate.Maximum
		}
		if duty.LessThan(rate.Minimum) {
			duty = rate.Minimum
		}
		analysis.CalculatedDuty = &duty
	}

	if lowered == "" {
		return analysis
	}
	if anyMatch(lowered, e.stampMentions) {
		analysis.Status = legal.StampCompliant
	} else {
		analysis.Status = legal.StampRequiresStamping
	}
	return analysis
}

// analyzeGST tests supply-of-services vocabulary and classifies the
// service category from the HSN table. Applicable with a nil Rate is
// the deliberate "applicable but unclassified" state; callers must
// not read it as zero-rated.
func (e *Extractor) analyzeGST(lowered string) *legal.GSTAnalysis {
	analysis := &legal.GSTAnalysis{}
	if !anyMatch(lowered, e.gstKeywords) {
		return analysis
	}
	analysis.Applicable = true
	analysis.Requirements = e.lex.GSTRequirements

	for _, m := range e.gstCategories {
		if anyMatch(lowered, m.patterns) {
			rate := m.category.Rate
			analysis.Rate = &rate
			analysis.HSNCode = m.category.HSN
			analysis.ServiceCategory = m.category.Category
			break
		}
	}
	return analysis
}

// analyzeRegistration resolves the Registration Act, 1908 position
// from the static document-type table. Non-registration consequences
// are fixed boilerplate attached only when registration is required.
func (e *Extractor) analyzeRegistration(docType legal.DocumentType) *legal.RegistrationRequirement {
	rule := e.lex.RegistrationFor(docType)
	req := &legal.RegistrationRequirement{
		Required:     rule.Required,
		DocumentType: docType,
		Authority:    rule.Authority,
		Deadline:     rule.Deadline,
		Consequences: rule.Consequences,
	}
	if rule.Required && len(req.Consequences) == 0 {
		req.Consequences = e.lex.RegistrationConsequences
	}
	return req
}
