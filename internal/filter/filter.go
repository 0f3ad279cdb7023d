// Package filter evaluates CEL predicates over ULIDs.
//
// Expressions see these variables:
//
//	ts_ms    int     embedded millisecond timestamp
//	text     string  canonical 26-character form
//	entropy  bytes   the 10 random bytes
//	uuid     string  the same 16 bytes formatted as a UUID
//	hash     int     ulid.Hash of the value
//	now_ms   int     current time, for windowed filters
//
// Example: `ts_ms > now_ms - 3600000 && text.startsWith("01H")`.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

// Filter wraps a compiled CEL program. The zero value and filters built
// from an empty expression accept everything.
type Filter struct {
	prog    cel.Program
	enabled bool
	now     func() time.Time
}

// Compile parses and type-checks expr. It must evaluate to a bool.
func Compile(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("ts_ms", cel.IntType),
		cel.Variable("text", cel.StringType),
		cel.Variable("entropy", cel.BytesType),
		cel.Variable("uuid", cel.StringType),
		cel.Variable("hash", cel.IntType),
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, fmt.Errorf("filter: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Filter{}, fmt.Errorf("filter: expression must be bool, got %s", ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Filter{}, fmt.Errorf("filter: %w", err)
	}
	return Filter{prog: prog, enabled: true, now: time.Now}, nil
}

// Enabled reports whether the filter was built from a non-empty expression.
func (f Filter) Enabled() bool { return f.enabled }

// Match evaluates the filter against id. Evaluation errors count as no
// match.
func (f Filter) Match(id ulid.ULID) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"ts_ms":   int64(id.Timestamp()),
		"text":    id.String(),
		"entropy": id.Entropy(),
		"uuid":    id.UUID().String(),
		"hash":    int64(ulid.Hash(id)),
		"now_ms":  f.now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
