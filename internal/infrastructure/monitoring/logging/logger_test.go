package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T) (Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, logs
}

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestZapLogger_EmitsLevelsAndMessage(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "info msg", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestZapLogger_TypedFields(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Info("fields",
		String("s", "v"),
		Int("i", 7),
		Int64("i64", int64(9)),
		Float64("f", 0.5),
		Bool("b", true),
		Duration("d", time.Second),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "v", ctx["s"])
	assert.Equal(t, int64(7), ctx["i"])
	assert.Equal(t, int64(9), ctx["i64"])
	assert.Equal(t, 0.5, ctx["f"])
	assert.Equal(t, true, ctx["b"])
}

func TestErrField(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Error("failed", Err(errors.New("boom")))
	l.Info("fine", Err(nil))

	entries := logs.All()
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	assert.Equal(t, "<nil>", entries[1].ContextMap()["error"])
}

func TestWith_DoesNotMutateParent(t *testing.T) {
	parent, logs := newObservedLogger(t)
	child := parent.With(String("component", "detector"))

	child.Info("from child")
	parent.Info("from parent")

	entries := logs.All()
	assert.Equal(t, "detector", entries[0].ContextMap()["component"])
	assert.NotContains(t, entries[1].ContextMap(), "component")
}

func TestNamed_AppendsName(t *testing.T) {
	l, logs := newObservedLogger(t)
	l.Named("http").Info("msg")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "http", logs.All()[0].LoggerName)
}

func TestNopLogger_AllMethodsSafe(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg", String("k", "v"))
	l.Warn("msg")
	l.Error("msg", Err(errors.New("x")))
	assert.NoError(t, l.Sync())
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("child"))
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored, the previous default survives
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
