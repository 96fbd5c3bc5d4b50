package dpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so register-path
// logging costs a single atomic load when no logger is installed.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var silent = slog.New(discard{})

var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger installs l for the engine and the scene, platform and metrics
// packages. Nil restores the silent default. It may be called while writes
// are in flight.
//
// Records emitted:
//   - [slog.LevelDebug]: block init and deinit, frame writes demoted to
//     immediate, batch flushes
//   - [slog.LevelInfo]: scene enable and disable
//   - [slog.LevelWarn]: clear-acknowledge timeouts, consumer failures
//
// A dry run usually wants everything:
//
//	dpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//	    &slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the installed logger.
func Logger() *slog.Logger {
	return current.Load()
}
