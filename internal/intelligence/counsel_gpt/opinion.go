package counsel_gpt

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// ParseOpinion converts raw collaborator output into an Opinion. It is a
// total function: any input, including garbage, yields a fully-populated
// Opinion with Parsed reporting whether a jurisdiction was recognized.
//
// Parsing is deliberately forgiving — the collaborator's output is advisory
// text, never schema-validated. A JSON object is preferred when one is
// present (including inside a markdown code fence); otherwise the text is
// scanned for a canonical jurisdiction token.
func ParseOpinion(raw string) *Opinion {
	op := &Opinion{
		Jurisdiction: legal.JurisdictionUnknown,
		Raw:          raw,
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return op
	}

	// 1. Structured path: first JSON object anywhere in the output.
	if block, ok := extractJSONObject(trimmed); ok {
		var payload struct {
			Jurisdiction string  `json:"jurisdiction"`
			Confidence   float64 `json:"confidence"`
			Rationale    string  `json:"rationale"`
		}
		if err := json.Unmarshal([]byte(block), &payload); err == nil {
			if j, ok := normalizeJurisdiction(payload.Jurisdiction); ok {
				op.Jurisdiction = j
				op.Confidence = clampConfidence(payload.Confidence)
				op.Rationale = strings.TrimSpace(payload.Rationale)
				op.Parsed = true
				return op
			}
		}
	}

	// 2. Free-form path: scan for canonical tokens. CROSS_BORDER is checked
	// first because its text necessarily mentions both single regimes.
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.Contains(upper, "CROSS_BORDER") || strings.Contains(upper, "CROSS-BORDER"):
		op.Jurisdiction = legal.JurisdictionCrossBorder
	case strings.Contains(upper, "INDIA") && containsUSToken(upper):
		op.Jurisdiction = legal.JurisdictionCrossBorder
	case strings.Contains(upper, "INDIA"):
		op.Jurisdiction = legal.JurisdictionIndia
	case containsUSToken(upper):
		op.Jurisdiction = legal.JurisdictionUSA
	default:
		return op
	}
	op.Parsed = true
	op.Confidence = defaultFreeFormConfidence
	return op
}

// defaultFreeFormConfidence is assigned when the collaborator named a
// jurisdiction without a numeric confidence. Free-form answers carry less
// signal than structured ones, so the default sits at the adoption floor.
const defaultFreeFormConfidence = 0.5

// normalizeJurisdiction maps collaborator spellings onto the enum.
func normalizeJurisdiction(s string) (legal.Jurisdiction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INDIA", "INDIAN", "IN":
		return legal.JurisdictionIndia, true
	case "USA", "US", "UNITED STATES", "UNITED STATES OF AMERICA", "AMERICAN":
		return legal.JurisdictionUSA, true
	case "CROSS_BORDER", "CROSS-BORDER", "CROSSBORDER", "BOTH", "MIXED":
		return legal.JurisdictionCrossBorder, true
	case "UNKNOWN", "NONE", "UNCLEAR":
		return legal.JurisdictionUnknown, true
	default:
		return legal.JurisdictionUnknown, false
	}
}

// usTokenPattern matches US spellings on word boundaries; a bare substring
// check would trip on words like "thousand".
var usTokenPattern = regexp.MustCompile(`\bUSA\b|\bU\.S\.|\bUNITED STATES\b|\bUS (LAW|COURTS?|FEDERAL|JURISDICTION)\b`)

func containsUSToken(upper string) bool {
	return usTokenPattern.MatchString(upper)
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// extractJSONObject returns the first balanced top-level JSON object in the
// text, tolerating surrounding prose and markdown code fences. The brace
// scan is string-aware so rationale text containing braces does not break
// the balance count.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
