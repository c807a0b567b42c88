// Package logging configures the zap logger used for the CLI's own operational diagnostics (profiling setup, REPL
// start-up, file counts), kept entirely separate from the Lox program diagnostics written via loxerror.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger writing human-readable output to stderr. verbose lowers the level to debug;
// otherwise only warnings and above are logged, so that ordinary runs stay quiet.
func New(verbose bool) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// zap's development config only fails to build on a bad sink URL, which never happens for a fixed "stderr".
		panic(err)
	}
	return logger.Sugar()
}
