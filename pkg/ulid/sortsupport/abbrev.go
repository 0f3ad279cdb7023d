// Package sortsupport accelerates sorting of ULIDs with abbreviated keys.
//
// # Overview
//
// An Abbreviator is created for exactly one sort. The sort driver passes
// every value through Convert, which returns the first 8 bytes of the ULID
// as an integer whose natural order matches the byte order of the prefix.
// Comparing those integers is much cheaper than a 16-byte comparison and
// resolves almost every pair, because the prefix holds the 48-bit timestamp
// plus 16 random bits.
//
// When many values share a prefix the cheap comparison mostly ties and the
// full comparator has to run anyway. To detect this online, Convert feeds a
// hash of each key into a HyperLogLog sketch, and the driver periodically
// calls ShouldAbort with the number of rows it has buffered:
//
//	Estimating --(card > 100000)--------------------> Confirmed
//	Estimating --(card < values/2000 + 0.5)---------> Aborted
//
// Both transitions are final. Once Confirmed the sketch is no longer fed.
// Once Aborted the driver must compare every pair, including those already
// buffered, with the full comparator. Compare does this dispatch on the
// current State.
//
// An Abbreviator has no locking; it must not be shared between sorts.
package sortsupport

import (
	"encoding/binary"
	"math/bits"

	"github.com/cespare/xxhash/v2"

	"github.com/dcbickfo/pg-ulid/internal/hll"
	"github.com/dcbickfo/pg-ulid/pkg/log"
	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

// State is the abbreviation verdict.
type State int

const (
	// Estimating keeps feeding the sketch and may still abort.
	Estimating State = iota
	// Confirmed keeps abbreviated keys for the rest of the sort.
	Confirmed
	// Aborted falls back to the full comparator.
	Aborted
)

func (s State) String() string {
	switch s {
	case Estimating:
		return "estimating"
	case Confirmed:
		return "confirmed"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Key is an abbreviated ULID: its first 8 bytes as a big-endian integer.
type Key uint64

// Entry pairs a ULID with its abbreviated key.
type Entry struct {
	Key Key
	ID  ulid.ULID
}

// Thresholds are the tunables of the abort decision.
type Thresholds struct {
	// MinRows is the buffered-row count below which no decision is made.
	MinRows int
	// MinValues is the converted-value count below which no decision is made.
	MinValues int64
	// ConfirmCardinality confirms abbreviation once the estimate exceeds it.
	ConfirmCardinality float64
	// ValuesPerDistinct is the tolerated number of values per distinct key.
	ValuesPerDistinct float64
	// Fudge is added to the minimum cardinality so that a single distinct
	// key within the first ValuesPerDistinct values already aborts.
	Fudge float64
	// SketchPrecision is the HyperLogLog register index width.
	SketchPrecision uint8
}

// DefaultThresholds returns the stock decision parameters.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRows:            10000,
		MinValues:          10000,
		ConfirmCardinality: 100000,
		ValuesPerDistinct:  2000,
		Fudge:              0.5,
		SketchPrecision:    hll.DefaultPrecision,
	}
}

// Observer is notified of every evaluated abort check.
type Observer interface {
	ObserveDecision(state State, cardinality float64, values int64, rows int)
}

// NoopObserver is used when no observer is provided.
type NoopObserver struct{}

func (NoopObserver) ObserveDecision(State, float64, int64, int) {}

// Option configures an Abbreviator.
type Option func(*Abbreviator)

// WithThresholds overrides the decision parameters. Zero fields keep their
// defaults.
func WithThresholds(t Thresholds) Option {
	return func(a *Abbreviator) {
		d := DefaultThresholds()
		if t.MinRows > 0 {
			d.MinRows = t.MinRows
		}
		if t.MinValues > 0 {
			d.MinValues = t.MinValues
		}
		if t.ConfirmCardinality > 0 {
			d.ConfirmCardinality = t.ConfirmCardinality
		}
		if t.ValuesPerDistinct > 0 {
			d.ValuesPerDistinct = t.ValuesPerDistinct
		}
		if t.Fudge > 0 {
			d.Fudge = t.Fudge
		}
		if t.SketchPrecision >= hll.MinPrecision && t.SketchPrecision <= hll.MaxPrecision {
			d.SketchPrecision = t.SketchPrecision
		}
		a.th = d
	}
}

// WithLogger routes decision traces to l at debug level.
func WithLogger(l log.Logger) Option {
	return func(a *Abbreviator) {
		if l != nil {
			a.logger = l.WithComponent("sortsupport")
		}
	}
}

// WithObserver reports decisions to o.
func WithObserver(o Observer) Option {
	return func(a *Abbreviator) {
		if o != nil {
			a.observer = o
		}
	}
}

// Abbreviator holds the per-sort abbreviation state.
type Abbreviator struct {
	th       Thresholds
	count    int64
	state    State
	sketch   *hll.Sketch
	logger   log.Logger
	observer Observer
}

// New creates an Abbreviator in the Estimating state.
func New(opts ...Option) *Abbreviator {
	a := &Abbreviator{
		th:       DefaultThresholds(),
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	sketch, err := hll.New(a.th.SketchPrecision)
	if err != nil {
		// WithThresholds only accepts valid precisions.
		panic(err)
	}
	a.sketch = sketch
	return a
}

// AbbreviateKey returns the abbreviated key of a 16-byte value, or of any
// key shorter than 8 bytes padded with zeros. It has no side effects.
func AbbreviateKey(b []byte) Key {
	if len(b) >= 8 {
		return Key(binary.BigEndian.Uint64(b))
	}
	var buf [8]byte
	copy(buf[:], b)
	return Key(binary.BigEndian.Uint64(buf[:]))
}

// Convert returns the abbreviated key of id and, while Estimating, adds it
// to the cardinality sketch.
func (a *Abbreviator) Convert(id ulid.ULID) Key {
	// The prefix as it sits in memory on a little-endian machine; the sketch
	// sees this word and the key is its byte swap.
	raw := binary.LittleEndian.Uint64(id[:8])
	a.count++
	if a.state == Estimating {
		a.sketch.Add(hashUint32(uint32(raw) ^ uint32(raw>>32)))
	}
	return Key(bits.ReverseBytes64(raw))
}

// Entry converts id and pairs it with its key.
func (a *Abbreviator) Entry(id ulid.ULID) Entry { return Entry{Key: a.Convert(id), ID: id} }

func hashUint32(v uint32) uint32 {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return uint32(xxhash.Sum64(b[:]))
}

// CompareKeys is the fast unsigned comparison of abbreviated keys.
func CompareKeys(x, y Key) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// CompareFull is the authoritative comparator.
func CompareFull(x, y ulid.ULID) int { return ulid.Compare(x, y) }

// Compare orders two entries according to the current state: full
// comparison once Aborted, otherwise keys first with ties broken by the
// full comparator.
func (a *Abbreviator) Compare(x, y Entry) int {
	if a.state == Aborted {
		return CompareFull(x.ID, y.ID)
	}
	if c := CompareKeys(x.Key, y.Key); c != 0 {
		return c
	}
	return CompareFull(x.ID, y.ID)
}

// ShouldAbort evaluates the abort decision given the number of rows the
// driver has buffered. It returns true once abbreviation is Aborted.
func (a *Abbreviator) ShouldAbort(bufferedRows int) bool {
	switch a.state {
	case Aborted:
		return true
	case Confirmed:
		return false
	}
	if bufferedRows < a.th.MinRows || a.count < a.th.MinValues {
		return false
	}

	card := a.sketch.Estimate()

	// Past this many distinct keys abbreviation pays off even for very large
	// sorts, so stop estimating.
	if card > a.th.ConfirmCardinality {
		a.state = Confirmed
		a.trace("abbreviation confirmed", card, bufferedRows)
		return false
	}

	threshold := float64(a.count)/a.th.ValuesPerDistinct + a.th.Fudge
	if card < threshold {
		a.state = Aborted
		a.trace("abbreviation aborted", card, bufferedRows, log.Float64("threshold", threshold))
		return true
	}

	a.trace("abbreviation cardinality", card, bufferedRows)
	return false
}

func (a *Abbreviator) trace(msg string, card float64, rows int, extra ...log.Field) {
	a.observer.ObserveDecision(a.state, card, a.count, rows)
	if a.logger == nil {
		return
	}
	fields := append([]log.Field{
		log.Float64("cardinality", card),
		log.Int64("values", a.count),
		log.Int("rows", rows),
		log.Str("state", a.state.String()),
	}, extra...)
	a.logger.Debug(msg, fields...)
}

// State returns the current verdict.
func (a *Abbreviator) State() State { return a.state }

// Count returns how many values have been converted.
func (a *Abbreviator) Count() int64 { return a.count }

// Cardinality returns the sketch's current distinct-key estimate.
func (a *Abbreviator) Cardinality() float64 { return a.sketch.Estimate() }

// SketchUpdates returns how many keys have been added to the sketch.
func (a *Abbreviator) SketchUpdates() uint64 { return a.sketch.Updates() }

// Thresholds returns the decision parameters in effect.
func (a *Abbreviator) Thresholds() Thresholds { return a.th }
