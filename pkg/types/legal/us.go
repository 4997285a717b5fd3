package legal

import (
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// StateDetectionSource records how a governing US state was identified.
type StateDetectionSource string

const (
	// StateFromProvided means the caller supplied the state, usually a
	// hint carried over from jurisdiction detection.
	StateFromProvided StateDetectionSource = "provided"

	// StateFromChoiceOfLaw means an explicit governing-law clause named
	// the state. This is the strongest signal and always wins over a
	// bare name mention.
	StateFromChoiceOfLaw StateDetectionSource = "choice_of_law_clause"

	// StateFromMention means the state name appeared in the text
	// without a governing-law construction around it.
	StateFromMention StateDetectionSource = "name_mention"

	// StateFromDefault means no state evidence was found and a
	// configured default was applied.
	StateFromDefault StateDetectionSource = "default"
)

// SecuritiesStatus is the three-way outcome of securities screening.
type SecuritiesStatus string

const (
	SecuritiesNotApplicable        SecuritiesStatus = "not_applicable"
	SecuritiesExemptionAvailable   SecuritiesStatus = "exemption_available"
	SecuritiesRegistrationRequired SecuritiesStatus = "registration_required"
)

// FederalLawReference is one detected citation of a US federal statute.
type FederalLawReference struct {
	// Name is the canonical short name, e.g. "Securities Act".
	Name string `json:"name"`

	// FullName is the conventional full citation form, e.g.
	// "Securities Act of 1933".
	FullName string `json:"full_name"`

	// Citation is the U.S. Code citation when known, e.g. "15 U.S.C.".
	Citation string `json:"citation,omitempty"`

	// Sections lists section identifiers found near the citation.
	Sections []string `json:"sections,omitempty"`

	Confidence float64 `json:"confidence"`
	Context    string  `json:"context,omitempty"`
}

// StateJurisdictionAnalysis reports governing state and forum findings.
type StateJurisdictionAnalysis struct {
	GoverningState string               `json:"governing_state"`
	Source         StateDetectionSource `json:"source"`

	// ClauseText is the matched governing-law clause, present only
	// when Source is StateFromChoiceOfLaw.
	ClauseText string `json:"clause_text,omitempty"`

	// ForumState names the forum-selection state when a forum clause
	// designates one distinct from the governing-law state.
	ForumState string `json:"forum_state,omitempty"`
}

// UCCAnalysis reports Uniform Commercial Code applicability.
type UCCAnalysis struct {
	Applicable bool `json:"applicable"`

	// Articles lists every matched article, e.g. "Article 2",
	// "Article 9". A sale secured by collateral matches both.
	Articles []string `json:"articles,omitempty"`

	// TransactionType is the first-match classification drawn from the
	// matched articles in priority order.
	TransactionType string `json:"transaction_type,omitempty"`

	StateVariations []string `json:"state_variations,omitempty"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
}

// SecuritiesAnalysis reports federal securities-law screening results.
type SecuritiesAnalysis struct {
	SecuritiesInvolved bool             `json:"securities_involved"`
	Status             SecuritiesStatus `json:"status"`
	FederalExemptions  []string         `json:"federal_exemptions,omitempty"`
	Requirements       []string         `json:"requirements,omitempty"`
	RiskFactors        []string         `json:"risk_factors,omitempty"`
}

// PrivacyAnalysis reports data-protection screening results.
type PrivacyAnalysis struct {
	Applicable     bool     `json:"applicable"`
	ApplicableLaws []string `json:"applicable_laws,omitempty"`
	ComplianceGaps []string `json:"compliance_gaps,omitempty"`
	Requirements   []string `json:"requirements,omitempty"`
}

// USLegalAnalysis is the full output of the US analyzer. Every pointer
// field is populated on success.
type USLegalAnalysis struct {
	GoverningState string `json:"governing_state"`

	StateJurisdiction *StateJurisdictionAnalysis `json:"state_jurisdiction"`
	FederalLaws       []FederalLawReference      `json:"federal_laws"`
	UCC               *UCCAnalysis               `json:"ucc"`
	Securities        *SecuritiesAnalysis        `json:"securities"`
	Privacy           *PrivacyAnalysis           `json:"privacy"`
	Compliance        *ComplianceCheck           `json:"compliance"`

	// Amounts holds every parsed monetary amount, deduplicated and
	// sorted in descending order.
	Amounts []MonetaryAmount `json:"amounts"`

	Metadata common.Metadata `json:"metadata,omitempty"`
}
