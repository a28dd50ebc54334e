// Package logging builds the zap logger used by the danfe CLI.
//
// Logs always go to stderr: stdout is reserved for the single
// SUCCESS:/ERROR: status line.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects how chatty the logger is.
type Level int

// Levels, from quietest to noisiest.
const (
	LevelQuiet Level = iota
	LevelNormal
	LevelVerbose
)

// LevelFor maps the --quiet and --verbose flags to a Level.
// Quiet wins when both are set.
func LevelFor(quiet, verbose bool) Level {
	switch {
	case quiet:
		return LevelQuiet
	case verbose:
		return LevelVerbose
	default:
		return LevelNormal
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelQuiet:
		return zapcore.ErrorLevel
	case LevelVerbose:
		return zapcore.DebugLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to stderr.
func New(level Level) *zap.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter returns a console logger writing to w.
func NewWithWriter(w io.Writer, level Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(level.zapLevel()),
	)
	return zap.New(core)
}

// Printf adapts logger to the printf-style hook automaxprocs expects.
func Printf(logger *zap.Logger) func(string, ...any) {
	sugar := logger.Sugar()
	return func(format string, args ...any) {
		sugar.Debugf(format, args...)
	}
}
