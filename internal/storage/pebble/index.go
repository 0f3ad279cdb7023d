package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/dcbickfo/pg-ulid/internal/filter"
	"github.com/dcbickfo/pg-ulid/pkg/log"
	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

// ErrNotFound is returned by Index.Get for identifiers that are not stored.
var ErrNotFound = errors.New("pebblestore: id not found")

// Item is one identifier and its payload.
type Item struct {
	ID    ulid.ULID
	Value []byte
}

// ScanOptions bounds and shapes an Index scan.
type ScanOptions struct {
	// Since is the inclusive lower time bound; zero means unbounded.
	Since time.Time
	// Until is the exclusive upper time bound; zero means unbounded.
	Until time.Time
	// Reverse visits newest identifiers first.
	Reverse bool
	// Limit caps the number of visited items; 0 means no limit.
	Limit int
	// Filter drops identifiers it does not match before Limit is applied.
	Filter filter.Filter
}

// Index stores values keyed by the 16 bytes of a ULID, so that iteration
// order is identifier order and therefore time order.
type Index struct {
	db *DB
}

// NewIndex wraps an open DB.
func NewIndex(db *DB) *Index { return &Index{db: db} }

// Put stores value under id.
func (ix *Index) Put(ctx context.Context, id ulid.ULID, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ix.db.Set(id[:], value)
}

// PutBatch stores all items atomically.
func (ix *Index) PutBatch(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	b := ix.db.NewBatch()
	defer b.Close()
	for i := range items {
		if err := b.Set(items[i].ID[:], items[i].Value, nil); err != nil {
			return err
		}
	}
	if err := ix.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("commit %d items: %w", len(items), err)
	}
	ix.db.logger.Debug("batch committed", log.Int("items", len(items)))
	return nil
}

// Get returns a copy of the value stored under id.
func (ix *Index) Get(id ulid.ULID) ([]byte, error) {
	v, err := ix.db.Get(id[:])
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, err
}

// Delete removes id. Deleting a missing id is not an error.
func (ix *Index) Delete(id ulid.ULID) error {
	return ix.db.Delete(id[:])
}

var zeroEntropy = make([]byte, ulid.EntropyLen)

// bounds maps a time window to key bounds [since, until).
func bounds(since, until time.Time) (lower, upper []byte, err error) {
	if !since.IsZero() && since.UnixMilli() > 0 {
		lo, err := ulid.FromParts(uint64(since.UnixMilli()), zeroEntropy)
		if err != nil {
			return nil, nil, fmt.Errorf("since: %w", err)
		}
		lower = lo.Bytes()
	}
	if !until.IsZero() {
		ms := max(until.UnixMilli(), 0)
		if uint64(ms) <= ulid.MaxTime {
			hi, _ := ulid.FromParts(uint64(ms), zeroEntropy)
			upper = hi.Bytes()
		}
	}
	return lower, upper, nil
}

// Scan visits stored items in identifier order (or reverse order) within
// the window of opts, calling fn for each. Returning an error from fn stops
// the scan and returns that error.
func (ix *Index) Scan(ctx context.Context, opts ScanOptions, fn func(id ulid.ULID, value []byte) error) error {
	lower, upper, err := bounds(opts.Since, opts.Until)
	if err != nil {
		return err
	}
	start := time.Now()
	iter, err := ix.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return err
	}
	defer iter.Close()

	step := iter.Next
	valid := iter.First()
	if opts.Reverse {
		step = iter.Prev
		valid = iter.Last()
	}

	seen, read := 0, 0
	defer func() { ix.db.metrics.ObserveRead(time.Since(start), read) }()
	for ; valid; valid = step() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var id ulid.ULID
		if err := id.UnmarshalBinary(iter.Key()); err != nil {
			continue
		}
		if !opts.Filter.Match(id) {
			continue
		}
		value := append([]byte(nil), iter.Value()...)
		read += len(value)
		if err := fn(id, value); err != nil {
			return err
		}
		seen++
		if opts.Limit > 0 && seen >= opts.Limit {
			break
		}
	}
	return iter.Error()
}
