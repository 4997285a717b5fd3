package india_lex

import (
	"regexp"
	"strings"

	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

// extractActs returns one reference per distinct act, in table order.
// The reference carries the sections cited near the first mention and
// a context snippet from the original-cased text.
func (e *Extractor) extractActs(text, lowered string) []legal.ActReference {
	var refs []legal.ActReference
	for _, m := range e.acts {
		loc := firstMatch(lowered, m.patterns)
		if loc == nil {
			continue
		}

		context := common.Snippet(text, loc[0], loc[1], contextRadius)
		confidence := actBaseConfidence
		if m.entry.Year != "" && strings.Contains(context, m.entry.Year) {
			confidence += actYearBonus
		}

		refs = append(refs, legal.ActReference{
			Name:       m.entry.Canonical,
			FullName:   m.entry.FullName,
			Year:       m.entry.Year,
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
