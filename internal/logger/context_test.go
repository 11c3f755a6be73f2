package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestFromContext_FallsBackToGlobal verifies that an empty context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithKV_AttachesFields ensures fields attached to the context reach the log entry.
func TestWithKV_AttachesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "appbundler")
	ctx = WithKV(ctx, "bundle", "Demo.app")

	InfoKV(ctx, "Copying launcher", "step", "launcher")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "appbundler", entries[0].LoggerName)
	require.Equal(t, "Demo.app", entries[0].ContextMap()["bundle"])
	require.Equal(t, "launcher", entries[0].ContextMap()["step"])
}

// TestWithLevel_RaisesThreshold checks that WithLevel filters entries below the requested level.
func TestWithLevel_RaisesThreshold(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core, WithLevel(zapcore.WarnLevel)).Sugar())

	InfoKV(ctx, "hidden")
	WarnKV(ctx, "shown")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "shown", logs.All()[0].Message)
}
