package sortsupport

import (
	"slices"

	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

// firstAbortCheck is the buffered-row count at which the Sorter first
// consults ShouldAbort; the interval doubles after every check.
const firstAbortCheck = 10

// SorterConfig selects the Sorter's behaviour.
type SorterConfig struct {
	// DisableAbbreviation sorts with the full comparator only.
	DisableAbbreviation bool
	// Descending reverses the order.
	Descending bool
}

// Result describes a finished sort.
type Result struct {
	IDs []ulid.ULID
	// State is Estimating when the sort ended before a decision was reached.
	State State
	// Abbreviated reports whether abbreviation was enabled at all.
	Abbreviated     bool
	Values          int64
	Cardinality     float64
	AbortChecks     int
	FullComparisons int
}

// Sorter is a reference sort driver: it buffers values, converts them while
// abbreviation is live, checks for abort at doubling intervals, and sorts
// with the comparator the final state calls for.
type Sorter struct {
	cfg     SorterConfig
	abbrev  *Abbreviator
	entries []Entry
	next    int
	checks  int
}

// NewSorter creates a Sorter. opts configure its Abbreviator.
func NewSorter(cfg SorterConfig, opts ...Option) *Sorter {
	s := &Sorter{cfg: cfg, next: firstAbortCheck}
	if !cfg.DisableAbbreviation {
		s.abbrev = New(opts...)
	}
	return s
}

// Add buffers one value.
func (s *Sorter) Add(id ulid.ULID) {
	if s.abbrev == nil || s.abbrev.State() == Aborted {
		s.entries = append(s.entries, Entry{ID: id})
		return
	}
	s.entries = append(s.entries, s.abbrev.Entry(id))
	if len(s.entries) >= s.next {
		s.next *= 2
		s.checks++
		s.abbrev.ShouldAbort(len(s.entries))
	}
}

// Len returns the number of buffered values.
func (s *Sorter) Len() int { return len(s.entries) }

// Abbreviator returns the Sorter's strategy object, or nil when
// abbreviation is disabled.
func (s *Sorter) Abbreviator() *Abbreviator { return s.abbrev }

// Sort orders the buffered values and returns them. The Sorter must not be
// reused afterwards.
func (s *Sorter) Sort() Result {
	full := 0
	var cmp func(x, y Entry) int
	if s.abbrev == nil {
		cmp = func(x, y Entry) int {
			full++
			return CompareFull(x.ID, y.ID)
		}
	} else {
		cmp = func(x, y Entry) int {
			if s.abbrev.State() == Aborted || x.Key == y.Key {
				full++
			}
			return s.abbrev.Compare(x, y)
		}
	}
	if s.cfg.Descending {
		asc := cmp
		cmp = func(x, y Entry) int { return asc(y, x) }
	}
	slices.SortFunc(s.entries, cmp)

	res := Result{
		IDs:             make([]ulid.ULID, len(s.entries)),
		State:           Estimating,
		AbortChecks:     s.checks,
		FullComparisons: full,
	}
	for i := range s.entries {
		res.IDs[i] = s.entries[i].ID
	}
	if s.abbrev != nil {
		res.Abbreviated = true
		res.State = s.abbrev.State()
		res.Values = s.abbrev.Count()
		res.Cardinality = s.abbrev.Cardinality()
	}
	return res
}

// Sort sorts ids in ascending order with abbreviation enabled and returns
// the sorted copy together with the strategy's outcome.
func Sort(ids []ulid.ULID, opts ...Option) Result {
	s := NewSorter(SorterConfig{}, opts...)
	for _, id := range ids {
		s.Add(id)
	}
	return s.Sort()
}
