// Package amount_parser extracts monetary amounts from contract text.
//
// Every amount must be anchored by a currency marker (a symbol, a
// currency code, or a currency word); bare numbers never parse. The
// locale selects which market's conventions are recognized, so the
// India-side parser yields INR amounts and the US-side parser yields
// USD amounts. Values are exact decimals end to end.
package amount_parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/turtacn/LexBridge-Intelligence/internal/intelligence/common"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/legal"
)

const (
	numberPattern = `(\d[\d,]*(?:\.\d+)?)`

	indiaScales = `(lakhs?|crores?|thousand|million|billion)`
	usScales    = `(thousand|million|billion|trillion)`
)

type patternKind int

const (
	kindNumeric patternKind = iota
	kindWords
)

type amountPattern struct {
	re   *regexp.Regexp
	kind patternKind
}

// Parser extracts amounts for one locale. It is immutable after New
// and safe for concurrent use.
type Parser struct {
	locale   legal.Locale
	currency string
	patterns []amountPattern
	log      common.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger attaches a logger for debug tracing.
func WithLogger(log common.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// New builds a parser for the given locale. Unrecognized locales fall
// back to the US battery.
func New(locale legal.Locale, opts ...Option) *Parser {
	p := &Parser{
		locale: locale,
		log:    common.NewNoopLogger(),
	}
	switch locale {
	case legal.LocaleIndia:
		p.currency = legal.CurrencyINR
		p.patterns = compile(indiaNumericSources(), indiaWordSources())
	default:
		p.currency = legal.CurrencyUSD
		p.patterns = compile(usNumericSources(), usWordSources())
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func scaleOpt(scales string) string {
	return `(?:\s*` + scales + `)?`
}

func indiaNumericSources() []string {
	return []string{
		`₹\s*` + numberPattern + scaleOpt(indiaScales),
		`\b(?:rs\.?|inr)\s*` + numberPattern + scaleOpt(indiaScales),
		`\brupees\s+` + numberPattern + scaleOpt(indiaScales),
		numberPattern + scaleOpt(indiaScales) + `\s*rupees\b`,
	}
}

func indiaWordSources() []string {
	return []string{
		numberWordsPattern + `\s+rupees\b`,
		`\brupees\s+` + numberWordsPattern,
	}
}

func usNumericSources() []string {
	return []string{
		`\$\s*` + numberPattern + scaleOpt(usScales),
		`\b(?:usd|us\$)\s*` + numberPattern + scaleOpt(usScales),
		numberPattern + scaleOpt(usScales) + `\s*dollars\b`,
	}
}

func usWordSources() []string {
	return []string{
		numberWordsPattern + `\s+dollars\b`,
	}
}

func compile(numeric, words []string) []amountPattern {
	patterns := make([]amountPattern, 0, len(numeric)+len(words))
	for _, src := range numeric {
		patterns = append(patterns, amountPattern{re: regexp.MustCompile(src), kind: kindNumeric})
	}
	for _, src := range words {
		patterns = append(patterns, amountPattern{re: regexp.MustCompile(src), kind: kindWords})
	}
	return patterns
}

// Parse extracts every anchored amount from the text. Results are
// de-duplicated by value and sorted largest first. Malformed
// candidates are skipped without error; parsing never fails.
func (p *Parser) Parse(text string) []legal.MonetaryAmount {
	if common.IsBlank(text) {
		return nil
	}
	lowered := common.Lower(text)

	var out []legal.MonetaryAmount
	seen := make(map[string]int)
	for _, pat := range p.patterns {
		for _, m := range pat.re.FindAllStringSubmatchIndex(lowered, -1) {
			amount, ok := p.evaluate(pat, text, lowered, m)
			if !ok {
				continue
			}
			key := amount.Amount.String()
			if at, dup := seen[key]; dup {
				// A numeric and a spelled-out mention of the same
				// value are one amount; keep the words as the
				// in-words rendering of the first hit.
				if out[at].AmountInWords == "" && amount.AmountInWords != "" {
					out[at].AmountInWords = amount.AmountInWords
				}
				continue
			}
			seen[key] = len(out)
			out = append(out, amount)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	p.log.Debug("parsed amounts", "locale", string(p.locale), "count", len(out))
	return out
}

func (p *Parser) evaluate(pat amountPattern, text, lowered string, m []int) (legal.MonetaryAmount, bool) {
	var value decimal.Decimal
	var inWords string

	switch pat.kind {
	case kindNumeric:
		raw := lowered[m[2]:m[3]]
		v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return legal.MonetaryAmount{}, false
		}
		if len(m) >= 6 && m[4] >= 0 {
			v = v.Mul(scaleMultiplier(lowered[m[4]:m[5]]))
		}
		value = v
	case kindWords:
		words := lowered[m[2]:m[3]]
		v, ok := wordsToValue(words)
		if !ok {
			return legal.MonetaryAmount{}, false
		}
		value = decimal.NewFromInt(v)
		inWords = strings.Join(strings.Fields(words), " ")
	}

	if !value.IsPositive() {
		return legal.MonetaryAmount{}, false
	}
	return legal.MonetaryAmount{
		Amount:          value,
		Currency:        p.currency,
		OriginalText:    common.Snippet(text, m[0], m[1], 0),
		FormattedAmount: formatAmount(value, p.currency),
		AmountInWords:   inWords,
	}, true
}

func scaleMultiplier(scale string) decimal.Decimal {
	switch strings.TrimSuffix(scale, "s") {
	case "thousand":
		return decimal.New(1, 3)
	case "lakh":
		return decimal.New(1, 5)
	case "million":
		return decimal.New(1, 6)
	case "crore":
		return decimal.New(1, 7)
	case "billion":
		return decimal.New(1, 9)
	case "trillion":
		return decimal.New(1, 12)
	}
	return decimal.New(1, 0)
}

// formatAmount renders the canonical display form: Indian digit
// grouping for INR, western grouping for USD.
func formatAmount(v decimal.Decimal, currency string) string {
	s := v.String()
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if currency == legal.CurrencyINR {
		return "₹" + groupIndian(intPart) + frac
	}
	return "$" + groupWestern(intPart) + frac
}

// groupIndian inserts separators in the Indian style: the last three
// digits form one group, the rest pair off (1,25,00,000).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}

func groupWestern(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, ",")
}
