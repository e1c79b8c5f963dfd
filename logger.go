package canvas

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/youngbloodcyb/shader-canvas/internal/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// SetLogger configures the logger for canvas and all its sub-packages.
// By default, canvas produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger
// atomically. Pass nil to disable logging (restore default silent
// behavior).
//
// Log levels used by canvas:
//   - [slog.LevelDebug]: internal diagnostics (pass plans, cache hits,
//     buffer sizes)
//   - [slog.LevelInfo]: important lifecycle events (GPU device acquired)
//   - [slog.LevelWarn]: non-fatal issues (shader compile failure,
//     passthrough fallback, resource release errors)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	canvas.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by canvas.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
