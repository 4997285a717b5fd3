// Package common holds the shared contracts and text utilities of the
// analysis engines. Engines depend only on this package and the domain
// lexicon, never on infrastructure.
package common

import (
	"errors"

	typescommon "github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// Metadata is the open-ended key-value bag attached to engine results,
// aliased from the shared types package so engine files carry a single
// common import.
type Metadata = typescommon.Metadata

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrInvalidInput marks a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyText marks an input document with no analyzable content.
	ErrEmptyText = errors.New("empty document text")
)

// ---------------------------------------------------------------------------
// Logger interface
// ---------------------------------------------------------------------------

// Logger is the minimal structured logging contract of the engine
// layer. It is deliberately smaller than the service-wide logger so
// the engines stay free of infrastructure imports; the application
// layer bridges its logger into this shape.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (n *noopLogger) Debug(string, ...interface{}) {}
func (n *noopLogger) Info(string, ...interface{})  {}
func (n *noopLogger) Warn(string, ...interface{})  {}
func (n *noopLogger) Error(string, ...interface{}) {}

// NewNoopLogger returns a Logger that discards all entries.
func NewNoopLogger() Logger {
	return &noopLogger{}
}
