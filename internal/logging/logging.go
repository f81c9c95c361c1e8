// Package logging builds the zap loggers used across the CLI.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w at debug level when debug is set,
// and a no-op logger otherwise.
func New(debug bool, w io.Writer) *zap.Logger {
	if !debug || w == nil {
		return zap.NewNop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
