package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thresholdCore drops entries below level before they reach the wrapped core.
type thresholdCore struct {
	zapcore.Core

	// level is the lowest level passed through.
	level zapcore.Level
}

// Enabled reports whether entries at l pass both the threshold and the wrapped core.
func (c *thresholdCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

// Check adds the core to ce when the entry passes the threshold.
//
//nolint:gocritic // zapcore.Core fixes the by-value entry.
func (c *thresholdCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the threshold on derived cores.
//
//nolint:ireturn // zapcore.Core is the contract.
func (c *thresholdCore) With(fields []zapcore.Field) zapcore.Core {
	return &thresholdCore{Core: c.Core.With(fields), level: c.level}
}

// WithLevel raises the minimum level of a logger built from an existing core.
//
//nolint:ireturn // zap.Option is the contract.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &thresholdCore{Core: core, level: lvl}
	})
}

// WithMinLevel returns a context whose logger drops entries below lvl.
// Commands writing documents to stdout use it to keep progress logs quiet.
func WithMinLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	l := FromContext(ctx).Desugar().WithOptions(WithLevel(lvl)).Sugar()

	return ToContext(ctx, l)
}
