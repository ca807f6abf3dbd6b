// Package logging configures the structured logger shared by the
// orchestrator, detector, and CLI. The teacher prints straight to stdout/
// stderr with fmt; a batch job running over thousands of statutes needs
// leveled, structured output instead, so this package wires in zap.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger writing to stderr, matching the
// orchestrator's convention that progress and diagnostics go to stderr and
// data output goes to stdout. Pass debug=true for development-style
// (console-encoded, caller-annotated, debug-level) output.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Nop returns a logger that discards everything, for tests and for callers
// (such as library consumers of pkg/impact or pkg/graph) that never want to
// force a logging dependency on their caller.
func Nop() *zap.Logger {
	return zap.NewNop()
}
