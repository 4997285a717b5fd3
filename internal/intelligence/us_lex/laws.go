package us_lex

import (
	"regexp"
	"strings"

	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// extractLaws returns one reference per distinct federal statute, in
// table order. The reference carries section numbers cited near the
// first mention and a context snippet from the original-cased text.
func (e *Extractor) extractLaws(text, lowered string) []legal.FederalLawReference {
	var refs []legal.FederalLawReference
	for _, m := range e.laws {
		loc := firstMatch(lowered, m.patterns)
		if loc == nil {
			continue
		}

		context := common.Snippet(text, loc[0], loc[1], contextRadius)
		confidence := lawBaseConfidence
		if m.year != "" && strings.Contains(context, m.year) {
			confidence += lawYearBonus
		}

		refs = append(refs, legal.FederalLawReference{
			Name:       m.entry.Canonical,
			FullName:   m.entry.FullName,
			Citation:   m.entry.Citation,
			Sections:   common.SectionsNear(lowered, loc[0], sectionWindow),
			Confidence: common.MinFloat(confidence, 0.95),
			Context:    context,
		})
	}
	return refs
}

// firstMatch returns the earliest match location across the alias
// patterns, or nil when none match.
func firstMatch(lowered string, patterns []*regexp.Regexp) []int {
	var best []int
	for _, re := range patterns {
		loc := re.FindStringIndex(lowered)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}
	return best
}
