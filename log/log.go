// Package log provides logging utilities for the evaluator, operators,
// and HTTP clients. Adapted from the teacher's zap-backed logging
// package; the teacher's dependency on an external Logger interface
// (trpc-a2a-go/log) is dropped since this module has no a2a transport
// to interoperate with.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Logger defines the logging interface used throughout web-algebra.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
}

// Default is the package-level logger. Replace it with any Logger
// implementation; it defaults to a zap SugaredLogger writing to stdout.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// SetLevel sets the log level. Unrecognized levels fall back to info.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	case LevelFatal:
		zapLevel.SetLevel(zapcore.FatalLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

func Debug(args ...any)                  { Default.Debug(args...) }
func Debugf(format string, args ...any)  { Default.Debugf(format, args...) }
func Info(args ...any)                   { Default.Info(args...) }
func Infof(format string, args ...any)   { Default.Infof(format, args...) }
func Warn(args ...any)                   { Default.Warn(args...) }
func Warnf(format string, args ...any)   { Default.Warnf(format, args...) }
func Error(args ...any)                  { Default.Error(args...) }
func Errorf(format string, args ...any)  { Default.Errorf(format, args...) }
