// Package log wires go.uber.org/zap into the CLI and installs it as the
// log/slog default. Library packages log through slog with *Context calls;
// only the command layer calls Initialize.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/blendle/zapdriver"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Env selects a logger configuration.
type Env string

func (e Env) String() string { return string(e) }

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

// ParseEnv maps a config value to an Env; anything unknown is dev.
func ParseEnv(s string) Env {
	if strings.EqualFold(strings.TrimSpace(s), EnvProd.String()) {
		return EnvProd
	}
	return EnvDev
}

// Level returns the minimum level for a run: debug when verbose, otherwise
// warnings only so that command output stays clean.
func Level(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// New builds a zap logger for env. Both configurations write to stderr.
func New(env Env, verbose bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(Level(verbose))
	switch env {
	case EnvProd:
		config := zapdriver.NewProductionConfig()
		// Make sure sampling is disabled.
		config.Sampling = nil
		config.Level = level
		// Use the zapdriver core so that labels are handled correctly.
		return config.Build(zapdriver.WrapCore())
	default:
		config := zap.NewDevelopmentConfig()
		config.Level = level
		return config.Build()
	}
}

// Initialize builds the logger, redirects the standard library logger to it
// and installs a context-aware slog handler as the slog default. The
// returned function flushes buffered entries.
func Initialize(env string, verbose bool) (func(), error) {
	logger, err := New(ParseEnv(env), verbose)
	if err != nil {
		return func() {}, fmt.Errorf("init logger: %w", err)
	}
	zap.RedirectStdLog(logger)
	slog.SetDefault(slog.New(NewContextLogHandler(zapslog.NewHandler(logger.Core(), &zapslog.HandlerOptions{
		AddSource: verbose,
	}))))
	return flusher(logger, verbose, os.Stderr), nil
}

// flusher syncs logger and reports failures to w. The std logger is
// redirected into logger, so it cannot carry the report.
func flusher(logger *zap.Logger, verbose bool, w io.Writer) func() {
	return func() {
		if err := logger.Sync(); err != nil && verbose {
			fmt.Fprintf(w, "log sync: %v\n", err)
		}
	}
}
