// Package logger builds the application's zap logger and threads a
// request id through contexts so handler logs can be correlated.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// Config selects verbosity and output encoding.
type Config struct {
	Level    string
	Encoding string
}

// New builds a production zap logger. Unknown levels degrade to info
// and unknown encodings to json rather than failing startup.
func New(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	if cfg.Encoding == "console" {
		zapCfg.Encoding = "console"
	}

	return zapCfg.Build()
}

// ContextWithRequestID stores a request id for later log enrichment.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// WithRequestID returns the logger annotated with the context's
// request id, or the logger unchanged when none is present.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	if reqID, ok := ctx.Value(ctxKey{}).(string); ok && reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}
