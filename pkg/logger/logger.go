package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init installs a development logger with coloured levels as the global zap logger and
// returns the function that flushes it.
func Init(component string) func() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	l = l.With(zap.String("component", component))
	zap.ReplaceGlobals(l)

	return func() { _ = l.Sync() }
}
