package logging

import (
	"context"

	"github.com/saveligulas/debian-setup/internal/ports"
)

// NopLogger discards all messages. Tests that do not assert on logging
// use it.
type NopLogger struct{}

// NewNopLogger creates a NopLogger.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (l *NopLogger) Debug(context.Context, string, ...ports.Field) {}
func (l *NopLogger) Info(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (l *NopLogger) Error(context.Context, string, ...ports.Field) {}

// With returns the logger unchanged.
func (l *NopLogger) With(...ports.Field) ports.Logger {
	return l
}

var _ ports.Logger = (*NopLogger)(nil)
