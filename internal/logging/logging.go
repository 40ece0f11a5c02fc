// Package logging builds the zap logger shared by jdk-pulse components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conn-castle/jdk-pulse/internal/messages"
)

// Options configure the logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string
	// Verbose forces debug level on the console sink.
	Verbose bool
	// File, when set, receives JSON-encoded entries at the configured level.
	File string
	// Console receives human-readable entries. Nil means os.Stderr.
	Console io.Writer
}

var openFile = func(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// New builds a logger writing console-encoded entries to stderr and, optionally,
// JSON entries to a file. The returned cleanup flushes and closes the sinks.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	consoleLevel := level
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(console), consoleLevel),
	}

	var file *os.File
	if opts.File != "" {
		file, err = openFile(opts.File)
		if err != nil {
			return nil, nil, fmt.Errorf(messages.LoggingOpenFileFmt, opts.File, err)
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = logger.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return logger, cleanup, nil
}

// ParseLevel maps a config level name to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "warn", "warning":
		return zapcore.WarnLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.WarnLevel, fmt.Errorf(messages.LoggingInvalidLevelFmt, name)
	}
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
