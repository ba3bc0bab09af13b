package logger

import "dashboard_client/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level functions.
type slogAdapter struct{}

// NewSlogAdapter returns a port.Logger writing through the global slog/zap bridge.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) Info(msg string, args ...any)  { Info(msg, args...) }
func (a *slogAdapter) Debug(msg string, args ...any) { Debug(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { Error(msg, args...) }

type nopAdapter struct{}

// NewNop returns a port.Logger that discards everything. Used by tests and optional wiring.
func NewNop() port.Logger {
	return nopAdapter{}
}

func (nopAdapter) Info(string, ...any)  {}
func (nopAdapter) Debug(string, ...any) {}
func (nopAdapter) Warn(string, ...any)  {}
func (nopAdapter) Error(string, ...any) {}
