package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name. An empty string is
// InfoLevel.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// ComponentKey is the field name used by WithComponent.
const ComponentKey = "component"

// Entry is a single rendered log record.
type Entry struct {
	Level     Level
	Message   string
	Fields    map[string]any
	Timestamp time.Time
	Caller    string
}

// Logger defines the logging interface used across the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	// With returns a child logger carrying fields on every record.
	With(fields ...Field) Logger
	WithError(err error) Logger
	WithComponent(component string) Logger

	// SetLevel changes the minimum level for this logger and all loggers
	// derived from it.
	SetLevel(level Level)
	GetLevel() Level

	// Slog exposes the underlying slog.Logger.
	Slog() *slog.Logger
}

// Formatter renders an Entry.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted entries.
type Output interface {
	Write(entry *Entry, formatted []byte) error
	Close() error
}

// LoggerOption configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements Logger.
type BaseLogger struct {
	level     *atomic.Int32
	formatter Formatter
	outputs   []Output
	handler   slog.Handler

	sampleInitial    int
	sampleThereafter int
}

// NewLogger creates a new logger with the given options. Defaults are
// InfoLevel, JSON formatting and console output.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:     new(atomic.Int32),
		formatter: &JSONFormatter{},
	}
	logger.level.Store(int32(InfoLevel))

	for _, option := range options {
		option(logger)
	}
	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}

	h := newBridgeHandler(logger)
	if logger.sampleThereafter > 0 {
		h = h.withSampler(logger.sampleInitial, logger.sampleThereafter)
	}
	logger.handler = h
	return logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return NewLogger(WithLevel(FatalLevel+1), WithOutput(NullOutput{}))
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) { l.level.Store(int32(level)) }
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		if formatter != nil {
			l.formatter = formatter
		}
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) { l.outputs = append(l.outputs, output) }
}

// WithSampling lets the first initial records of each level+message pass,
// then every thereafter-th one. thereafter <= 0 disables sampling.
func WithSampling(initial, thereafter int) LoggerOption {
	return func(l *BaseLogger) {
		l.sampleInitial = initial
		l.sampleThereafter = thereafter
	}
}

func (l *BaseLogger) child(h slog.Handler) *BaseLogger {
	nl := *l
	nl.handler = h
	return &nl
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if Level(l.level.Load()) > level {
		return
	}
	var pcs [1]uintptr
	// skip runtime.Callers, log, and the exported method
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), toSlogLevel(level), msg, pcs[0])
	r.AddAttrs(attrsFromFields(fields)...)
	_ = l.handler.Handle(context.Background(), r)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }
func (l *BaseLogger) Fatal(msg string, fields ...Field) { l.log(FatalLevel, msg, fields) }

func (l *BaseLogger) Debugf(format string, args ...any) {
	l.log(DebugLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Infof(format string, args ...any) {
	l.log(InfoLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Warnf(format string, args ...any) {
	l.log(WarnLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Errorf(format string, args ...any) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Fatalf(format string, args ...any) {
	l.log(FatalLevel, fmt.Sprintf(format, args...), nil)
}

// With adds fields to every record of the returned logger.
func (l *BaseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return l.child(l.handler.WithAttrs(attrsFromFields(fields)))
}

// WithError tags records with an "error" field.
func (l *BaseLogger) WithError(err error) Logger { return l.With(Err(err)) }

// WithComponent tags records with a component name.
func (l *BaseLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

func (l *BaseLogger) SetLevel(level Level) { l.level.Store(int32(level)) }
func (l *BaseLogger) GetLevel() Level      { return Level(l.level.Load()) }

// Slog returns a slog.Logger sharing this logger's pipeline.
func (l *BaseLogger) Slog() *slog.Logger { return slog.New(l.handler) }
