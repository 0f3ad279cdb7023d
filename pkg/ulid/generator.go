package ulid

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// Clock reads the current wall-clock time.
type Clock func() (time.Time, error)

// SystemClock reads time.Now.
func SystemClock() (time.Time, error) { return time.Now(), nil }

// Generator mints ULIDs from a clock and an entropy source. It keeps no
// state between calls, so it is safe for concurrent use whenever its
// entropy reader is.
type Generator struct {
	clock   Clock
	entropy io.Reader
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the time source.
func WithClock(c Clock) GeneratorOption {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithEntropy overrides the random source.
func WithEntropy(r io.Reader) GeneratorOption {
	return func(g *Generator) {
		if r != nil {
			g.entropy = r
		}
	}
}

// NewGenerator creates a Generator using the system clock and crypto/rand.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{clock: SystemClock, entropy: rand.Reader}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// New returns a new ULID from the default generator.
func New() (ULID, error) { return defaultGenerator.New() }

// New returns a ULID stamped with the current millisecond and 80 fresh
// random bits. Failures are not retried.
func (g *Generator) New() (ULID, error) {
	now, err := g.clock()
	if err != nil {
		return ULID{}, fmt.Errorf("%w: %w", ErrClockUnavailable, err)
	}
	ms := now.UnixMilli()
	if ms < 0 || uint64(ms) > MaxTime {
		return ULID{}, fmt.Errorf("%w: timestamp %d outside 48-bit range", ErrClockUnavailable, ms)
	}

	var id ULID
	putTimestamp(&id, uint64(ms))
	if _, err := io.ReadFull(g.entropy, id[6:]); err != nil {
		return ULID{}, fmt.Errorf("%w: %w", ErrRandomSourceExhausted, err)
	}
	return id, nil
}
