package logger

import (
	"go.uber.org/zap"

	"txpreview/internal/app/port"
)

// zapAdapter implements port.Logger on top of a zap sugared logger, so
// services can log key-value pairs without depending on zap directly.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZapAdapter wraps a zap logger into the port.Logger interface.
func NewZapAdapter(l *zap.Logger) port.Logger {
	return &zapAdapter{sugar: l.Sugar()}
}

func (a *zapAdapter) Info(msg string, args ...any) {
	a.sugar.Infow(msg, args...)
}

func (a *zapAdapter) Debug(msg string, args ...any) {
	a.sugar.Debugw(msg, args...)
}

func (a *zapAdapter) Warn(msg string, args ...any) {
	a.sugar.Warnw(msg, args...)
}

func (a *zapAdapter) Error(msg string, args ...any) {
	a.sugar.Errorw(msg, args...)
}
