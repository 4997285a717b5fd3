package juris_net

import (
	"regexp"
	"strings"

	"github.com/turtacn/LexBridge-Intelligence/internal/domain/lexicon"
	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
)

// matcher recognizes one vocabulary entry through any of its alias
// patterns. A match contributes its category weight exactly once.
type matcher struct {
	display  string
	patterns []*regexp.Regexp
}

func (m matcher) matches(text string) bool {
	for _, re := range m.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

type sideLabels struct {
	act       string
	court     string
	regulator string
	term      string
	entity    string
	state     string
	idiom     string
	currency  string
}

type sideMatchers struct {
	labels     sideLabels
	acts       []matcher
	courts     []matcher
	regulators []matcher
	terms      []matcher
	entities   []matcher
	states     []matcher
	idioms     []matcher
	governing  []matcher
	currency   []*regexp.Regexp
}

type statePattern struct {
	re *regexp.Regexp
}

func newIndiaMatchers(lex *lexicon.IndiaLexicon) sideMatchers {
	acts := make([]matcher, 0, len(lex.Acts))
	for _, act := range lex.Acts {
		acts = append(acts, aliasMatcher(act.Canonical, act.Aliases))
	}
	return sideMatchers{
		labels: sideLabels{
			act:       "Indian Act",
			court:     "Indian Court",
			regulator: "Indian Regulator",
			term:      "Indian Legal Term",
			entity:    "Indian Entity",
			state:     "Indian State",
			idiom:     "Indian Idiom",
			currency:  "Indian Currency Mention",
		},
		acts:       acts,
		courts:     termMatchers(lex.Courts),
		regulators: termMatchers(lex.Regulators),
		terms:      termMatchers(lex.LegalTerms),
		entities:   termMatchers(lex.Entities),
		states:     nameMatchers(lex.States),
		idioms:     termMatchers(lex.Idioms),
		governing:  termMatchers(lex.GoverningLawIdioms),
		currency:   compilePatterns(lex.CurrencyPatterns),
	}
}

func newUSMatchers(lex *lexicon.USLexicon) sideMatchers {
	laws := make([]matcher, 0, len(lex.FederalLaws))
	for _, law := range lex.FederalLaws {
		laws = append(laws, aliasMatcher(law.Canonical, law.Aliases))
	}
	return sideMatchers{
		labels: sideLabels{
			act:       "US Federal Law",
			court:     "US Court",
			regulator: "US Regulator",
			term:      "US Legal Term",
			entity:    "US Entity",
			state:     "US State",
			idiom:     "US Idiom",
			currency:  "US Currency Mention",
		},
		acts:       laws,
		courts:     termMatchers(lex.Courts),
		regulators: termMatchers(lex.Regulators),
		terms:      termMatchers(lex.LegalTerms),
		entities:   termMatchers(lex.Entities),
		states:     nameMatchers(lex.States),
		idioms:     termMatchers(lex.Idioms),
		governing:  termMatchers(lex.GoverningLawIdioms),
		currency:   compilePatterns(lex.CurrencyPatterns),
	}
}

func aliasMatcher(display string, aliases []string) matcher {
	patterns := make([]*regexp.Regexp, 0, len(aliases))
	for _, alias := range aliases {
		patterns = append(patterns, common.WordPattern(alias))
	}
	return matcher{display: display, patterns: patterns}
}

func termMatchers(terms []string) []matcher {
	matchers := make([]matcher, 0, len(terms))
	for _, term := range terms {
		matchers = append(matchers, matcher{
			display:  term,
			patterns: []*regexp.Regexp{common.WordPattern(term)},
		})
	}
	return matchers
}

// nameMatchers keeps the display casing of proper names while
// matching case-insensitively.
func nameMatchers(names []string) []matcher {
	matchers := make([]matcher, 0, len(names))
	for _, name := range names {
		matchers = append(matchers, matcher{
			display:  name,
			patterns: []*regexp.Regexp{common.WordPattern(name)},
		})
	}
	return matchers
}

func compilePatterns(sources []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		res = append(res, regexp.MustCompile(src))
	}
	return res
}

func compileStatePatterns(sources []string) []statePattern {
	patterns := make([]statePattern, 0, len(sources))
	for _, src := range sources {
		patterns = append(patterns, statePattern{re: regexp.MustCompile(src)})
	}
	return patterns
}

func stateDisplayIndex(states []string) map[string]string {
	index := make(map[string]string, len(states))
	for _, s := range states {
		index[strings.ToLower(s)] = s
	}
	return index
}
