package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
)

// levelFatal sits above slog.LevelError so Fatal survives the round trip.
const levelFatal = slog.Level(12)

// bridgeHandler is a slog.Handler that renders records with the logger's
// formatter and fans them out to its outputs.
type bridgeHandler struct {
	logger  *BaseLogger
	attrs   []slog.Attr
	group   string
	sampler *sampler
}

func newBridgeHandler(logger *BaseLogger) *bridgeHandler {
	return &bridgeHandler{logger: logger}
}

// Enabled gates by the BaseLogger level.
func (h *bridgeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return Level(h.logger.level.Load()) <= fromSlogLevel(level)
}

// Handle converts the record to an Entry, formats it, and writes it.
func (h *bridgeHandler) Handle(_ context.Context, r slog.Record) error {
	if h.sampler != nil && !h.sampler.allow(r.Level, r.Message) {
		return nil
	}

	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields[h.key(a.Key)] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.key(a.Key)] = a.Value.Any()
		return true
	})

	caller := ""
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		if f, _ := frames.Next(); f.File != "" {
			caller = f.File + ":" + strconv.Itoa(f.Line)
		}
	}

	entry := &Entry{
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Fields:    fields,
		Timestamp: r.Time,
		Caller:    caller,
	}
	formatted, err := h.logger.formatter.Format(entry)
	if err != nil {
		return err
	}
	for _, out := range h.logger.outputs {
		_ = out.Write(entry, formatted)
	}
	return nil
}

func (h *bridgeHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// WithAttrs returns a copy of the handler with additional base attributes.
func (h *bridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	if len(attrs) > 0 {
		nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	}
	return &nh
}

// WithGroup returns a copy of the handler that prefixes keys with name.
func (h *bridgeHandler) WithGroup(name string) slog.Handler {
	nh := *h
	if name != "" {
		nh.group = h.key(name)
	}
	return &nh
}

// withSampler returns a copy of the handler with a sampling policy.
func (h *bridgeHandler) withSampler(initial, thereafter int) *bridgeHandler {
	if thereafter <= 0 {
		return h
	}
	nh := *h
	nh.sampler = newSampler(initial, thereafter)
	return &nh
}

// sampler implements simple per-message sampling. It is shared by all
// handlers derived from the same logger.
type sampler struct {
	mu         sync.Mutex
	initial    uint64
	thereafter uint64
	counts     map[string]uint64
}

func newSampler(initial, thereafter int) *sampler {
	if initial < 0 {
		initial = 0
	}
	if thereafter <= 0 {
		thereafter = 1
	}
	return &sampler{
		initial:    uint64(initial),
		thereafter: uint64(thereafter),
		counts:     make(map[string]uint64),
	}
}

func (s *sampler) allow(level slog.Level, message string) bool {
	key := strconv.Itoa(int(level)) + ":" + message
	s.mu.Lock()
	n := s.counts[key]
	s.counts[key] = n + 1
	s.mu.Unlock()
	if n < s.initial {
		return true
	}
	return (n-s.initial)%s.thereafter == 0
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case FatalLevel:
		return levelFatal
	default:
		if level > FatalLevel {
			return levelFatal + slog.Level(level-FatalLevel)
		}
		return slog.LevelInfo
	}
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level <= slog.LevelDebug:
		return DebugLevel
	case level <= slog.LevelInfo:
		return InfoLevel
	case level <= slog.LevelWarn:
		return WarnLevel
	case level < levelFatal:
		return ErrorLevel
	default:
		return FatalLevel
	}
}
