package log

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// TextFormatter renders "time LEVEL message key=value ..." lines with keys
// in sorted order.
type TextFormatter struct {
	// DisableTimestamp omits the leading timestamp.
	DisableTimestamp bool
	// ShowCaller appends the caller location.
	ShowCaller bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(e *Entry) ([]byte, error) {
	var b strings.Builder
	if !f.DisableTimestamp {
		b.WriteString(e.Timestamp.Format(timeFormat))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level.String(), e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := fmt.Sprint(e.Fields[k])
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(&b, " %s=%s", k, v)
	}
	if f.ShowCaller && e.Caller != "" {
		fmt.Fprintf(&b, " caller=%s", e.Caller)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONFormatter renders one JSON object per line.
type JSONFormatter struct {
	// ShowCaller adds a "caller" key.
	ShowCaller bool
}

// Format implements Formatter.
func (f *JSONFormatter) Format(e *Entry) ([]byte, error) {
	obj := make(map[string]any, len(e.Fields)+4)
	for k, v := range e.Fields {
		if d, ok := v.(time.Duration); ok {
			v = d.String()
		}
		obj[k] = v
	}
	obj["time"] = e.Timestamp.Format(timeFormat)
	obj["level"] = e.Level.String()
	obj["msg"] = e.Message
	if f.ShowCaller && e.Caller != "" {
		obj["caller"] = e.Caller
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
