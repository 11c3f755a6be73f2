package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

// TestWithMinLevel_QuietsProgressLogs mirrors the plist command: progress logs are
// dropped while warnings keep the names and fields of the original logger.
func TestWithMinLevel_QuietsProgressLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "bundler")

	ctx = WithMinLevel(ctx, zapcore.WarnLevel)
	ctx = WithKV(ctx, "bundle", "Demo.app")

	DebugKV(ctx, "Assembly step", "step", "copy icon")
	InfoKV(ctx, "Bundle created")
	WarnKV(ctx, "Application is running", "pid", 42)

	require.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	require.Equal(t, "Application is running", entry.Message)
	require.Equal(t, "bundler", entry.LoggerName)
	require.Equal(t, "Demo.app", entry.ContextMap()["bundle"])
	require.EqualValues(t, 42, entry.ContextMap()["pid"])
}

// TestWithMinLevel_KeepsStricterBase never lets the threshold lower the base core level.
func TestWithMinLevel_KeepsStricterBase(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	ctx := WithMinLevel(ToContext(context.Background(), zap.New(core).Sugar()), zapcore.WarnLevel)

	WarnKV(ctx, "dropped by the base core")
	FromContext(ctx).Errorw("kept")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}
