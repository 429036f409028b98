package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestLogger_WithAndNamed(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).Named("governor").With("tenant", "t1")

	l.Warn("rate limited", "retry_after", "30s")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		e := entries[0]
		assert.Equal(t, "governor", e.LoggerName)
		assert.Equal(t, "rate limited", e.Message)
		assert.Equal(t, "t1", e.ContextMap()["tenant"])
		assert.Equal(t, "30s", e.ContextMap()["retry_after"])
	}
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { OrNop(nil).Info("dropped") })
}
