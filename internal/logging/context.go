package logging

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKey struct{}

// WithRequestID stores the request id for loggers built from ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger tags every entry with the request id and the operation name.
type Logger struct {
	requestID string
	z         *zap.Logger
}

// NewLogger creates a logger with request context.
func NewLogger(ctx context.Context) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	// Skip the wrapper frame so entries report the caller of LogInfo etc.
	return &Logger{requestID: rid, z: global.WithOptions(zap.AddCallerSkip(1))}
}

func (l *Logger) with(operation string) *zap.SugaredLogger {
	return l.z.With(zap.String("request_id", l.requestID), zap.String("operation", operation)).Sugar()
}

func (l *Logger) LogError(operation string, err error) {
	l.with(operation).Errorw("operation failed", "error", err)
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.with(operation).Errorf(format, args...)
}

func (l *Logger) LogInfo(operation string, message string) {
	l.with(operation).Info(message)
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.with(operation).Infof(format, args...)
}

func (l *Logger) LogWarn(operation string, message string) {
	l.with(operation).Warn(message)
}

func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.with(operation).Warnf(format, args...)
}
