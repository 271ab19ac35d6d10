package interp

import "log/slog"

// LevelTrace is a custom log level more verbose than Debug, used for
// per-statement execution tracing. Enable with
// &slog.HandlerOptions{Level: slog.Level(-8)}.
const LevelTrace = slog.Level(-8)

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger an Interpreter uses for trace output. If
// not set, the interpreter logs to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}
