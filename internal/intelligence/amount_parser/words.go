package amount_parser

import "strings"

// numberWordToken matches a single spelled-out number word, including
// the scale words of both numbering systems and the connective "and".
const numberWordToken = `(?:zero|one|two|three|four|five|six|seven|eight|nine|ten|` +
	`eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|` +
	`twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety|` +
	`hundred|thousand|lakhs?|crores?|million|billion|trillion|and)`

// numberWordsPattern captures a run of number words separated by
// whitespace or hyphens, e.g. "twenty five lakh" or "ninety-nine".
const numberWordsPattern = `\b(` + numberWordToken + `(?:[\s-]+` + numberWordToken + `)*)`

var unitValues = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// flushScales multiply the accumulator and move it into the running
// total, resetting the accumulator. "hundred" is not here: it scales
// the accumulator in place so "five hundred thousand" works.
var flushScales = map[string]int64{
	"thousand": 1_000,
	"lakh":     100_000,
	"lakhs":    100_000,
	"million":  1_000_000,
	"crore":    10_000_000,
	"crores":   10_000_000,
	"billion":  1_000_000_000,
	"trillion": 1_000_000_000_000,
}

// wordsToValue evaluates a spelled-out number. It returns false for
// anything it cannot fully account for, so a malformed phrase is
// skipped rather than half-parsed.
func wordsToValue(words string) (int64, bool) {
	tokens := strings.FieldsFunc(words, func(r rune) bool {
		return r == ' ' || r == '-' || r == '\t' || r == '\n' || r == '\r'
	})

	var total, acc int64
	matched := false
	for _, tok := range tokens {
		if tok == "and" {
			continue
		}
		if v, ok := unitValues[tok]; ok {
			acc += v
			matched = true
			continue
		}
		if tok == "hundred" {
			if acc == 0 {
				return 0, false
			}
			acc *= 100
			matched = true
			continue
		}
		mult, ok := flushScales[tok]
		if !ok {
			return 0, false
		}
		if acc == 0 {
			return 0, false
		}
		total += acc * mult
		acc = 0
		matched = true
	}
	total += acc
	if !matched || total <= 0 {
		return 0, false
	}
	return total, true
}
