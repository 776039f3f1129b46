// Package logging builds the zap logger shared by the CLI and the scanner.
//
// Diagnostics go to stderr so that stdout stays reserved for command output
// (project paths, JSON, YAML). By default only warnings and errors are shown;
// --verbose lowers the console level to debug. When a log file is configured,
// every debug entry is also written there as JSON, rotated by lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the optional log file.
const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// Options configures New.
type Options struct {
	// Verbose lowers the console level from warn to debug.
	Verbose bool

	// FilePath enables the JSON file core when non-empty.
	FilePath string

	// Console overrides the console destination. Defaults to os.Stderr.
	Console io.Writer
}

// New creates a logger according to opts. The returned cleanup function
// flushes buffered entries and closes the log file; it is always non-nil.
func New(opts Options) (*zap.Logger, func(), error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleLevel := zapcore.WarnLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.TimeKey = ""
	consoleCfg.CallerKey = ""
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), consoleLevel),
	}

	var fileWriter *lumberjack.Logger
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, func() {}, fmt.Errorf("failed to create log directory: %w", err)
		}

		fileWriter = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   true,
		}

		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.TimeKey = "ts"
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileCfg),
			zapcore.AddSync(fileWriter),
			zapcore.DebugLevel,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))

	cleanup := func() {
		_ = logger.Sync()
		if fileWriter != nil {
			_ = fileWriter.Close()
		}
	}
	return logger, cleanup, nil
}
