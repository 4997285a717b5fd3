// Package legal defines the shared result types produced by the
// jurisdiction detection and legal analysis engines. Every aggregate in
// this package is created fresh per analysis call and is immutable once
// returned; callers own storage decisions.
package legal

import (
	"encoding/json"
	"fmt"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Jurisdiction enumeration
// ---------------------------------------------------------------------------

// Jurisdiction identifies the legal regime governing a document.
type Jurisdiction int

const (
	JurisdictionUnknown Jurisdiction = iota
	JurisdictionIndia
	JurisdictionUSA
	JurisdictionCrossBorder
)

var jurisdictionNames = map[Jurisdiction]string{
	JurisdictionUnknown:     "UNKNOWN",
	JurisdictionIndia:       "INDIA",
	JurisdictionUSA:         "USA",
	JurisdictionCrossBorder: "CROSS_BORDER",
}

// String returns the canonical name of the jurisdiction.
func (j Jurisdiction) String() string {
	if name, ok := jurisdictionNames[j]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalJSON serializes the jurisdiction as its canonical name.
func (j Jurisdiction) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.String())
}

// UnmarshalJSON parses a jurisdiction from its canonical name.
func (j *Jurisdiction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for k, name := range jurisdictionNames {
		if name == s {
			*j = k
			return nil
		}
	}
	return fmt.Errorf("unknown jurisdiction: %s", s)
}

// ParseJurisdiction maps a canonical name to its Jurisdiction. Unrecognized
// input maps to JurisdictionUnknown; use UnmarshalJSON where unknown names
// must be rejected.
func ParseJurisdiction(s string) Jurisdiction {
	for k, name := range jurisdictionNames {
		if name == s {
			return k
		}
	}
	return JurisdictionUnknown
}

// Locale selects the pattern set and scale words for amount parsing.
type Locale string

const (
	LocaleIndia Locale = "IN"
	LocaleUS    Locale = "US"
)

// ---------------------------------------------------------------------------
// Detection result
// ---------------------------------------------------------------------------

// JurisdictionScores carries the raw weighted evidence per jurisdiction.
type JurisdictionScores struct {
	India         float64 `json:"india"`
	USA           float64 `json:"usa"`
	TotalElements int     `json:"total_elements"`
}

// JurisdictionResult is the output of a single detection call.
//
// Confidence is in [0.0, 1.0], capped at 0.95 for single-jurisdiction
// results and at 0.90 for CROSS_BORDER, which reserves headroom to
// signal the inherent ambiguity of mixed-regime documents. USState and
// IndianState are empty when no state evidence was found; the detection
// layer reports absence honestly and leaves defaulting to the
// jurisdiction-specific analyzers.
type JurisdictionResult struct {
	Jurisdiction     Jurisdiction       `json:"jurisdiction"`
	Confidence       float64            `json:"confidence"`
	Scores           JurisdictionScores `json:"scores"`
	DetectedElements []string           `json:"detected_elements"`
	USState          string             `json:"us_state,omitempty"`
	IndianState      string             `json:"indian_state,omitempty"`
	Metadata         common.Metadata    `json:"metadata,omitempty"`
}
