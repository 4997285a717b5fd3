package legal

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// DocumentType classifies an instrument for stamp duty and registration
// purposes. Classification is first-match over an ordered keyword list,
// specific instrument types before the generic agreement fallback.
type DocumentType string

const (
	DocTypeShareTransfer    DocumentType = "SHARE_TRANSFER"
	DocTypeConveyance       DocumentType = "CONVEYANCE"
	DocTypeLease            DocumentType = "LEASE"
	DocTypeMortgage         DocumentType = "MORTGAGE"
	DocTypePartnership      DocumentType = "PARTNERSHIP"
	DocTypePowerOfAttorney  DocumentType = "POWER_OF_ATTORNEY"
	DocTypePromissoryNote   DocumentType = "PROMISSORY_NOTE"
	DocTypeLoanAgreement    DocumentType = "LOAN_AGREEMENT"
	DocTypeServiceAgreement DocumentType = "SERVICE_AGREEMENT"
	DocTypeEmployment       DocumentType = "EMPLOYMENT"
	DocTypeNDA              DocumentType = "NDA"
	DocTypeAgreement        DocumentType = "AGREEMENT"
)

// ComplianceStatus is the closed vocabulary for clause-level compliance.
type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
	ComplianceUnknown      ComplianceStatus = "unknown"
)

// StampComplianceStatus is the closed vocabulary for stamp duty status.
type StampComplianceStatus string

const (
	StampCompliant        StampComplianceStatus = "compliant"
	StampRequiresStamping StampComplianceStatus = "requires_stamping"
	StampUnknown          StampComplianceStatus = "unknown"
)

// ComplianceRisk grades clause-level findings: zero issues is low, one
// or two is medium, more than two is high.
type ComplianceRisk string

const (
	ComplianceRiskLow    ComplianceRisk = "low"
	ComplianceRiskMedium ComplianceRisk = "medium"
	ComplianceRiskHigh   ComplianceRisk = "high"
)

// ActReference is one detected citation of an Indian statute.
type ActReference struct {
	// Name is the canonical short name, e.g. "Indian Contract Act".
	Name string `json:"name"`

	// FullName includes the year, e.g. "Indian Contract Act, 1872".
	FullName string `json:"full_name"`

	// Year is the year of enactment as it appears in the canonical
	// citation, empty when the statute is cited without one.
	Year string `json:"year,omitempty"`

	// Sections lists section identifiers found near the citation.
	Sections []string `json:"sections,omitempty"`

	// Confidence reflects citation form: higher when the year or
	// section numbers corroborate the act name.
	Confidence float64 `json:"confidence"`

	// Context is a snippet of surrounding text for reviewer display.
	Context string `json:"context,omitempty"`
}

// StampDutyAnalysis reports the duty position of an instrument under
// the applicable state stamp schedule.
//
// CalculatedDuty is nil when no consideration amount could be
// established from the text; absence of input is reported as absence,
// never as a zero duty.
type StampDutyAnalysis struct {
	State          string          `json:"state"`
	DocumentType   DocumentType    `json:"document_type"`
	Consideration  *MonetaryAmount `json:"consideration,omitempty"`
	RatePercent    float64         `json:"rate_percent"`
	MinimumDuty    decimal.Decimal `json:"minimum_duty"`
	MaximumDuty    *decimal.Decimal `json:"maximum_duty,omitempty"`
	CalculatedDuty *decimal.Decimal `json:"calculated_duty,omitempty"`

	Exemptions   []string              `json:"exemptions,omitempty"`
	Requirements []string              `json:"requirements"`
	Status       StampComplianceStatus `json:"status"`
}

// GSTAnalysis reports goods-and-services-tax treatment. Rate is nil in
// the "applicable but unclassified" state: supply indicators are
// present but no service category matched.
type GSTAnalysis struct {
	Applicable      bool     `json:"applicable"`
	Rate            *float64 `json:"rate,omitempty"`
	HSNCode         string   `json:"hsn_code,omitempty"`
	ServiceCategory string   `json:"service_category,omitempty"`
	Requirements    []string `json:"requirements"`
}

// RegistrationRequirement reports whether the instrument must be
// registered under the Registration Act, 1908.
type RegistrationRequirement struct {
	Required     bool         `json:"required"`
	DocumentType DocumentType `json:"document_type"`
	Authority    string       `json:"authority,omitempty"`
	Deadline     string       `json:"deadline,omitempty"`
	Consequences []string     `json:"consequences,omitempty"`
}

// ComplianceCheck reports mandatory-clause coverage and detected
// violations for one document type.
type ComplianceCheck struct {
	Status         ComplianceStatus `json:"status"`
	MissingClauses []string         `json:"missing_clauses"`
	Violations     []string         `json:"violations"`
	Risk           ComplianceRisk   `json:"risk"`
}

// IndianLegalAnalysis is the full output of the Indian analyzer.
// Every pointer field is populated on success; consumers never need a
// nil check after a nil-error return.
type IndianLegalAnalysis struct {
	State        string       `json:"state"`
	DocumentType DocumentType `json:"document_type"`

	ActsReferenced []ActReference           `json:"acts_referenced"`
	StampDuty      *StampDutyAnalysis       `json:"stamp_duty"`
	GST            *GSTAnalysis             `json:"gst"`
	Registration   *RegistrationRequirement `json:"registration"`
	Compliance     *ComplianceCheck         `json:"compliance"`

	// Amounts holds every parsed monetary amount, deduplicated and
	// sorted in descending order. Downstream comparative analysis
	// consumes this list rather than re-scanning the text.
	Amounts []MonetaryAmount `json:"amounts"`

	Metadata common.Metadata `json:"metadata,omitempty"`
}
