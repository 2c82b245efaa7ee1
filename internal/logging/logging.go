// Package logging builds the zap.Logger every process starts with,
// generalizing the console + service-field pattern from
// inventory-service's infrastructure.go in the retrieval pack.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-profile zap logger tagged with the service name.
func New(service string) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.Lock(os.Stdout),
		zap.InfoLevel,
	)
	logger := zap.New(core, zap.AddCaller())
	return logger.With(zap.String("service", service))
}
