package parser

import "log/slog"

// LevelTrace is a custom log level more verbose than Debug, used for
// per-statement parse tracing. Enable with
// &slog.HandlerOptions{Level: slog.Level(-8)}.
const LevelTrace = slog.Level(-8)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger a Parser uses for trace output. If not
// set, the parser logs to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}
