package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultLogger *Logger
	defaultMutex  sync.RWMutex
)

func init() {
	defaultLogger = New(os.Stdout, LogLevelInfo)
}

type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// traceLevel sits one step below zap's debug level.
const traceLevel = zapcore.DebugLevel - 1

func (level LogLevel) String() string {
	switch level {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	case LogLevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

func (level LogLevel) zapLevel() zapcore.Level {
	switch level {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelDebug:
		return zapcore.DebugLevel
	default:
		return traceLevel
	}
}

// ParseLogLevel parses a log level string into a LogLevel.
// Valid log levels are: error, warn, info, debug, trace.
func ParseLogLevel(level string) (LogLevel, error) {
	switch level {
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "info":
		return LogLevelInfo, nil
	case "debug":
		return LogLevelDebug, nil
	case "trace":
		return LogLevelTrace, nil
	default:
		return LogLevelError, fmt.Errorf("unknown log level: %s", level)
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == traceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}

// Logger is a leveled printf-style logger writing JSON lines.
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New creates a logger writing to out at the given level.
func New(out io.Writer, level LogLevel) *Logger {
	atom := zap.NewAtomicLevelAt(level.zapLevel())

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = encodeLevel

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(out), atom)
	return &Logger{
		sugar: zap.New(core).Sugar(),
		level: atom,
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Named returns a child logger that tags every entry with the given component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		sugar: l.sugar.Named(name),
		level: l.level,
	}
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.sugar.Logf(traceLevel, format, args...)
}

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(logger *Logger) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	defaultLogger = logger
}

func SetLevel(level LogLevel) {
	current().SetLevel(level)
	current().Info("Log level set to %s", level)
}

func Sync() error {
	return current().Sync()
}

func current() *Logger {
	defaultMutex.RLock()
	defer defaultMutex.RUnlock()
	return defaultLogger
}

func Info(format string, args ...interface{}) {
	current().Info(format, args...)
}

func Error(format string, args ...interface{}) {
	current().Error(format, args...)
}

func Warn(format string, args ...interface{}) {
	current().Warn(format, args...)
}

func Debug(format string, args ...interface{}) {
	current().Debug(format, args...)
}

func Trace(format string, args ...interface{}) {
	current().Trace(format, args...)
}
