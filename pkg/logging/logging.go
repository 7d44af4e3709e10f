// Package logging builds the process logger: an ectologger front with a
// zap JSON sink underneath.
package logging

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
)

// New returns the service logger. Every ectologger entry is forwarded to
// zap as a structured field, so output is JSON lines on stdout.
func New(appName string) (ectologger.Logger, func()) {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	zapLogger = zapLogger.With(zap.String("app", appName))

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zapLogger.Info("log", zap.Any("entry", msg))
	})

	flush := func() {
		_ = zapLogger.Sync()
	}
	return logger, flush
}
