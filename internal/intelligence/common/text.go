package common

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Lower returns the matching form of a document: NFC-normalized and
// lowercased. Offsets into the returned string are used against the
// original only for display snippets, so the engines tolerate the rare
// length drift of non-ASCII case folding.
func Lower(text string) string {
	return strings.ToLower(norm.NFC.String(text))
}

// IsBlank reports whether the text contains no analyzable content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// WordPattern compiles a case-insensitive word-boundary pattern for a
// literal term. Terms containing spaces match across any whitespace
// run, which tolerates line breaks inside scanned clauses. A boundary
// assertion is only anchored against ends of the term that are word
// characters; "inc." and "401(k)" would otherwise never match.
func WordPattern(term string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(strings.ToLower(term))
	escaped = strings.ReplaceAll(escaped, " ", `\s+`)

	pre, post := "", ""
	if first, _ := utf8.DecodeRuneInString(term); isWordRune(first) {
		pre = `\b`
	}
	if last, _ := utf8.DecodeLastRuneInString(term); isWordRune(last) {
		post = `\b`
	}
	return regexp.MustCompile(`(?i)` + pre + escaped + post)
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// CountMatches returns the number of non-overlapping matches of re.
func CountMatches(text string, re *regexp.Regexp) int {
	return len(re.FindAllStringIndex(text, -1))
}

// Snippet extracts a display window of the text around [start, end),
// widened by radius bytes on each side and clamped to valid UTF-8
// boundaries. Interior newlines are collapsed to spaces.
func Snippet(text string, start, end, radius int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start, end = end, start
	}

	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := end + radius
	if hi > len(text) {
		hi = len(text)
	}

	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}

	s := strings.Join(strings.Fields(text[lo:hi]), " ")
	return strings.TrimSpace(s)
}

// sectionRefPattern captures section citations such as "Section 17",
// "sections 23 and 24", or "Sec. 10A, 11".
var sectionRefPattern = regexp.MustCompile(
	`(?i)\bsec(?:tion)?s?\.?\s+(\d+[a-z]?(?:\s*(?:,|and|&|to)\s*\d+[a-z]?)*)`)

var sectionNumberPattern = regexp.MustCompile(`\d+[a-zA-Z]?`)

// SectionsNear harvests section identifiers cited within window bytes
// of position idx. Results are de-duplicated and keep first-seen
// order.
func SectionsNear(text string, idx, window int) []string {
	lo := idx - window
	if lo < 0 {
		lo = 0
	}
	hi := idx + window
	if hi > len(text) {
		hi = len(text)
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}

	var sections []string
	seen := make(map[string]bool)
	for _, m := range sectionRefPattern.FindAllStringSubmatch(text[lo:hi], -1) {
		for _, num := range sectionNumberPattern.FindAllString(m[1], -1) {
			key := strings.ToUpper(num)
			if !seen[key] {
				seen[key] = true
				sections = append(sections, key)
			}
		}
	}
	return sections
}

// Truncate shortens s to at most max runes, appending an ellipsis when
// truncation occurred.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
