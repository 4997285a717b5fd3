// Package testutil provides shared test helpers: a recording logger
// and realistic contract-text fixtures.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry so
// tests can assert on logging behavior.
type MockLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage is a single captured log entry.
type LogMessage struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// NewMockLogger returns an empty recording logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger { return m }
func (m *MockLogger) Named(name string) logging.Logger            { return m }
func (m *MockLogger) Sync() error                                 { return nil }

// Messages returns a copy of everything logged so far.
func (m *MockLogger) Messages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Clear discards recorded messages.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = m.messages[:0]
}

// HasMessage reports whether an entry at level whose message contains
// substr was logged.
func (m *MockLogger) HasMessage(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, logged := range m.messages {
		if logged.Level == level && strings.Contains(logged.Message, substr) {
			return true
		}
	}
	return false
}
