package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcbickfo/pg-ulid/internal/filter"
	"github.com/dcbickfo/pg-ulid/pkg/ulid"
)

var base = time.UnixMilli(1_700_000_000_000).UTC()

// seed stores one identifier per second starting at base, in shuffled
// insertion order, and returns them in time order.
func seed(t *testing.T, ix *Index, n int) []ulid.ULID {
	t.Helper()
	ids := make([]ulid.ULID, n)
	items := make([]Item, 0, n)
	for i := range ids {
		entropy := make([]byte, ulid.EntropyLen)
		entropy[9] = byte(i)
		id, err := ulid.FromParts(uint64(base.Add(time.Duration(i)*time.Second).UnixMilli()), entropy)
		require.NoError(t, err)
		ids[i] = id
	}
	for i := n - 1; i >= 0; i-- {
		items = append(items, Item{ID: ids[i], Value: []byte(fmt.Sprintf("v%d", i))})
	}
	require.NoError(t, ix.PutBatch(context.Background(), items))
	return ids
}

func collect(t *testing.T, ix *Index, opts ScanOptions) []ulid.ULID {
	t.Helper()
	var out []ulid.ULID
	require.NoError(t, ix.Scan(context.Background(), opts, func(id ulid.ULID, _ []byte) error {
		out = append(out, id)
		return nil
	}))
	return out
}

func TestIndexPutGetDelete(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	ctx := context.Background()

	id := ulid.MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.NoError(t, ix.Put(ctx, id, []byte("payload")))

	got, err := ix.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, ix.Delete(id))
	_, err = ix.Get(id)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), id.String())

	require.NoError(t, ix.Delete(id), "deleting a missing id")
}

func TestIndexPutCanceled(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ix.Put(ctx, ulid.Zero, nil), context.Canceled)
	assert.ErrorIs(t, ix.PutBatch(ctx, []Item{{ID: ulid.Zero}}), context.Canceled)
}

func TestIndexScanOrder(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	ids := seed(t, ix, 20)

	assert.Equal(t, ids, collect(t, ix, ScanOptions{}))

	rev := collect(t, ix, ScanOptions{Reverse: true, Limit: 3})
	assert.Equal(t, []ulid.ULID{ids[19], ids[18], ids[17]}, rev)
}

func TestIndexScanWindow(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	ids := seed(t, ix, 20)

	got := collect(t, ix, ScanOptions{
		Since: base.Add(5 * time.Second),
		Until: base.Add(8 * time.Second),
	})
	assert.Equal(t, ids[5:8], got)

	got = collect(t, ix, ScanOptions{Since: base.Add(18 * time.Second)})
	assert.Equal(t, ids[18:], got)

	got = collect(t, ix, ScanOptions{Until: base.Add(2 * time.Second), Reverse: true})
	assert.Equal(t, []ulid.ULID{ids[1], ids[0]}, got)

	err := ix.Scan(context.Background(), ScanOptions{Since: time.UnixMilli(int64(ulid.MaxTime) + 1)}, func(ulid.ULID, []byte) error { return nil })
	assert.ErrorIs(t, err, ulid.ErrOverflow)
}

func TestIndexScanFilterAndLimit(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	ids := seed(t, ix, 20)

	f, err := filter.Compile(fmt.Sprintf("ts_ms %% 2000 == %d", ids[0].Timestamp()%2000))
	require.NoError(t, err)
	got := collect(t, ix, ScanOptions{Filter: f, Limit: 4})
	assert.Equal(t, []ulid.ULID{ids[0], ids[2], ids[4], ids[6]}, got)
}

func TestIndexScanStopsOnCallbackError(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	seed(t, ix, 5)

	stop := errors.New("stop")
	calls := 0
	err := ix.Scan(context.Background(), ScanOptions{}, func(ulid.ULID, []byte) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestIndexScanValues(t *testing.T) {
	db, _ := newTestDB(t)
	ix := NewIndex(db)
	seed(t, ix, 3)

	var values []string
	require.NoError(t, ix.Scan(context.Background(), ScanOptions{}, func(_ ulid.ULID, v []byte) error {
		values = append(values, string(v))
		return nil
	}))
	assert.Equal(t, []string{"v0", "v1", "v2"}, values)
}
