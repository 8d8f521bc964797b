package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// zap has no trace level; it sits one step below debug.
const zapTraceLevel = zapcore.DebugLevel - 1

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a flag value to a Level, defaulting to InfoLevel.
func ParseLevel(s string) Level {
	switch s {
	case "trace", "TRACE":
		return TraceLevel
	case "debug", "DEBUG":
		return DebugLevel
	case "warn", "WARN", "warning":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case TraceLevel:
		return zapTraceLevel
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	NoOp      bool
}

// Logger wraps a zap core configured from Config.
type Logger struct {
	config Config
	mu     sync.Mutex
	out    io.Writer
	zl     *zap.Logger
}

var defaultLogger *Logger

// Initialize sets up the default logger writing to stderr
func Initialize(config Config) error {
	l, err := New(config, os.Stderr)
	if err != nil {
		return err
	}
	defaultLogger = l
	return nil
}

// New builds a Logger writing to w.
func New(config Config, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, fmt.Errorf("logger output writer is nil")
	}
	l := &Logger{config: config, out: w}
	l.zl = l.build()
	return l, nil
}

func (l *Logger) build() *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "message",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeLevel:    l.encodeLevel,
	}

	var enc zapcore.Encoder
	if l.config.JSON {
		encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(l.out), zap.NewAtomicLevelAt(l.config.Level.zapLevel()))
	opts := []zap.Option{}
	if l.config.Level <= DebugLevel {
		// caller info only for debug and trace, like the pretty logger did
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
	}
	zl := zap.New(core, opts...)
	if l.config.Component != "" {
		zl = zl.Named(l.config.Component)
	}
	if l.config.NoOp {
		zl = zl.With(zap.Bool("no_op", true))
	}
	return zl
}

func (l *Logger) encodeLevel(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name := levelName(lvl)
	if l.config.UseColor && !l.config.JSON {
		name = colorize(name)
	}
	enc.AppendString(name)
}

func levelName(lvl zapcore.Level) string {
	switch {
	case lvl <= zapTraceLevel:
		return "TRACE"
	case lvl == zapcore.DebugLevel:
		return "DEBUG"
	case lvl == zapcore.InfoLevel:
		return "INFO"
	case lvl == zapcore.WarnLevel:
		return "WARN"
	default:
		return "ERROR"
	}
}

func colorize(name string) string {
	switch name {
	case "TRACE":
		return "\033[37mTRACE\033[0m"
	case "DEBUG":
		return "\033[36mDEBUG\033[0m"
	case "INFO":
		return "\033[32mINFO\033[0m"
	case "WARN":
		return "\033[33mWARN\033[0m"
	case "ERROR":
		return "\033[31mERROR\033[0m"
	}
	return name
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	l.mu.Lock()
	zl := l.zl
	l.mu.Unlock()

	if ce := zl.Check(level.zapLevel(), message); ce != nil {
		ce.Write(toZap(fields)...)
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Trace(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(TraceLevel, message, fields...)
	}
}

func Debug(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(DebugLevel, message, fields...)
	}
}

func Info(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(InfoLevel, message, fields...)
	} else {
		// Fallback to stderr if logger not initialized
		_, _ = fmt.Fprintf(os.Stderr, "[INFO] patchwork: %s\n", message)
	}
}

func Warn(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(WarnLevel, message, fields...)
	}
}

func Error(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(ErrorLevel, message, fields...)
	}
}

// SetOutput redirects the default logger, rebuilding its core.
func SetOutput(w io.Writer) {
	if defaultLogger == nil || w == nil {
		return
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.out = w
	defaultLogger.zl = defaultLogger.build()
}
