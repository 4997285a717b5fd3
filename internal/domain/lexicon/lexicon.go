// Package lexicon holds the versioned legal vocabularies and rate
// tables that drive jurisdiction detection and regime-specific
// analysis. Everything in this package is immutable after
// construction: tables are built once at process start and shared by
// all concurrent analyses without synchronization.
//
// The tables are embedded constants rather than external files so a
// deployment can never separate the engine from the vocabulary
// calibrated against it. Version identifies the table revision for
// result metadata and cache keys.
package lexicon

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Version is the revision of the embedded tables. Bump on any table
// change so cached analysis results keyed on it are invalidated.
const Version = "2025.2"

// Registry aggregates all vocabularies behind one injection point.
type Registry struct {
	India       *IndiaLexicon
	US          *USLexicon
	Comparative *ComparativeLexicon
}

// NewRegistry builds the full embedded table set. Construction is
// cheap enough to run per test; production code shares one instance.
func NewRegistry() *Registry {
	return &Registry{
		India:       newIndiaLexicon(),
		US:          newUSLexicon(),
		Comparative: newComparativeLexicon(),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared process-wide Registry. Engines accept a
// *Registry in their constructors; Default covers call sites that do
// not need a custom one.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// dec parses a decimal literal, panicking on malformed input. Tables
// are static, so a bad literal is a programming error that must fail
// at process start rather than surface per document.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decPtr returns a pointer to a parsed decimal literal.
func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
