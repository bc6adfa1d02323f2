package internal

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger   = newLogger(zapcore.Lock(os.Stderr))
)

func newLogger(ws zapcore.WriteSyncer) *zap.SugaredLogger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.TimeKey = "time"
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), ws, zapLevel)
	return zap.New(core).Sugar()
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	switch level {
	case LogLevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	case LogLevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LogLevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	default:
		zapLevel.SetLevel(zapcore.DebugLevel)
	}
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

// SetLogOutput redirects log output to w
func SetLogOutput(w io.Writer) {
	_ = logger.Sync()
	logger = newLogger(zapcore.AddSync(w))
}

// SetLogFile truncates path and sends log output there. The returned function restores
// stderr output and closes the file.
func SetLogFile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	_ = logger.Sync()
	logger = newLogger(zapcore.Lock(f))
	return func() error {
		_ = logger.Sync()
		logger = newLogger(zapcore.Lock(os.Stderr))
		return f.Close()
	}, nil
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
