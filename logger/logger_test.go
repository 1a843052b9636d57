package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := Logger
			defer func() { Logger = saved; JSONOutput = false }()

			require.NoError(t, Initialize(tt.jsonOutput))
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			Cleanup()
		})
	}
}

func TestInitializeWithLevel(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	require.NoError(t, InitializeWithLevel(false, zapcore.WarnLevel))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestLoggingFunctionsWithNilLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()
	Logger = nil

	Infow("test", "key", "value")
	Errorw("test", "key", "value")
	Warnw("test", "key", "value")
	Debugw("test", "key", "value")
	Cleanup()
}

func TestComponentLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()

	ComponentLogger("syn.parser").Infow("parse finished", FieldNodes, 4)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "syn.parser", entries[0].LoggerName)
	assert.Equal(t, int64(4), entries[0].ContextMap()[FieldNodes])
}

func TestLoggerFromContext(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithRequestID(ctx, "req-9")
	ctx = WithComponent(ctx, "server")

	LoggerFromContext(ctx).Infow("hello")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-1", fields[FieldRunID])
	assert.Equal(t, "req-9", fields[FieldRequestID])
	assert.Equal(t, "server", fields[FieldComponent])

	assert.Same(t, Logger, LoggerFromContext(context.Background()))
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestShouldLogTrace(t *testing.T) {
	assert.False(t, ShouldLogTrace(VerbosityDebug))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.Equal(t, "Trace (-vvv+)", LevelName(5))
	assert.Equal(t, "Unknown", LevelName(-2))
}
