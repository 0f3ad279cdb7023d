package log

import (
	"log/slog"
	"time"
)

// Field is a key/value pair attached to a record.
type Field struct {
	Key   string
	Value any
}

func Str(key, value string) Field                { return Field{Key: key, Value: value} }
func Int(key string, value int) Field            { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field        { return Field{Key: key, Value: value} }
func Uint64(key string, value uint64) Field      { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field    { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field          { return Field{Key: key, Value: value} }
func Duration(key string, d time.Duration) Field { return Field{Key: key, Value: d} }
func Any(key string, value any) Field            { return Field{Key: key, Value: value} }

// Err returns an "error" field. A nil error yields a nil value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Component returns the component tag field.
func Component(name string) Field                { return Field{Key: ComponentKey, Value: name} }

func attrsFromFields(fields []Field) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}
