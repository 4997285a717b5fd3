package counsel_gpt

import (
	"fmt"
	"strings"
)

// DefaultMaxExcerptRunes bounds the document excerpt embedded in a review
// prompt. Jurisdiction signals (governing-law clauses, party addresses,
// statute references) concentrate in the opening and boilerplate sections,
// so a generous head excerpt is enough.
const DefaultMaxExcerptRunes = 6000

// systemPrompt frames the collaborator as comparative-counsel and pins the
// response contract. The JSON shape is a request, not a requirement — the
// opinion parser accepts free-form answers too.
const systemPrompt = `You are a senior comparative-law counsel specializing in Indian and United States commercial contracts. You are asked for a second opinion on which legal regime governs a document when automated detection is uncertain.

Classify the document as exactly one of: INDIA, USA, CROSS_BORDER (both regimes are materially engaged), or UNKNOWN (insufficient signal).

Base your reading only on the excerpt provided: statutes and acts referenced, courts and regulators named, currency usage, governing-law and dispute-resolution clauses, party locations. Do not speculate beyond the text.

Respond with a single JSON object:
{"jurisdiction": "INDIA|USA|CROSS_BORDER|UNKNOWN", "confidence": 0.0-1.0, "rationale": "one or two sentences"}`

// SystemPrompt returns the fixed instruction block sent with every review.
// Backends that support a dedicated system role set it once at model
// construction instead of repeating it per request.
func SystemPrompt() string { return systemPrompt }

// Prompt is a fully assembled collaborator request.
type Prompt struct {
	System string `json:"system"`
	User   string `json:"user"`
	// Truncated reports whether the excerpt was cut to fit the budget.
	Truncated bool `json:"truncated"`
}

// BuildPrompt assembles the review prompt for a request. maxExcerptRunes <= 0
// selects DefaultMaxExcerptRunes.
func BuildPrompt(req *ReviewRequest, maxExcerptRunes int) *Prompt {
	if maxExcerptRunes <= 0 {
		maxExcerptRunes = DefaultMaxExcerptRunes
	}

	excerpt, truncated := truncateExcerpt(req.Excerpt, maxExcerptRunes)

	var b strings.Builder
	b.WriteString("## Document Excerpt\n")
	b.WriteString(excerpt)
	if truncated {
		b.WriteString("\n[...excerpt truncated]")
	}
	b.WriteString("\n\n## Automated Detection\n")
	fmt.Fprintf(&b, "Rule-based reading: %s (confidence %.2f)\n", req.RuleJurisdiction, req.RuleConfidence)
	if req.Hint != "" {
		fmt.Fprintf(&b, "Caller-supplied jurisdiction hint: %q\n", req.Hint)
	}
	b.WriteString("\n## Question\nWhich regime governs this document? Reply with the JSON object described in your instructions.")

	return &Prompt{
		System:    systemPrompt,
		User:      b.String(),
		Truncated: truncated,
	}
}

// truncateExcerpt cuts text to at most maxRunes runes, preferring a word
// boundary in the final tenth so the cut does not split a token.
func truncateExcerpt(text string, maxRunes int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text, false
	}
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > maxRunes*9/10 {
		cut = cut[:idx]
	}
	return cut, true
}
