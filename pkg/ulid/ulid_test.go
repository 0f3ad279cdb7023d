package ulid

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ms int64) Clock {
	return func() (time.Time, error) { return time.UnixMilli(ms), nil }
}

func TestGeneratorLayout(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xAB}, EntropyLen)
	g := NewGenerator(WithClock(fixedClock(1469922850259)), WithEntropy(bytes.NewReader(entropy)))

	id, err := g.New()
	require.NoError(t, err)
	assert.Equal(t, uint64(1469922850259), id.Timestamp())
	assert.Equal(t, []byte{0x01, 0x56, 0x3E, 0x3A, 0xB5, 0xD3}, id[:6])
	assert.Equal(t, entropy, id.Entropy())
	assert.Equal(t, time.UnixMilli(1469922850259).UTC(), id.Time())
}

func TestGeneratorClockFailure(t *testing.T) {
	boom := errors.New("clock_gettime failed")
	g := NewGenerator(WithClock(func() (time.Time, error) { return time.Time{}, boom }))

	id, err := g.New()
	require.ErrorIs(t, err, ErrClockUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.True(t, id.IsZero())
}

func TestGeneratorClockOutOfRange(t *testing.T) {
	for _, ms := range []int64{-1, int64(MaxTime) + 1} {
		g := NewGenerator(WithClock(fixedClock(ms)))
		_, err := g.New()
		assert.ErrorIs(t, err, ErrClockUnavailable, "ms=%d", ms)
	}
}

func TestGeneratorEntropyExhausted(t *testing.T) {
	g := NewGenerator(WithEntropy(bytes.NewReader(make([]byte, EntropyLen-1))))
	id, err := g.New()
	require.ErrorIs(t, err, ErrRandomSourceExhausted)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.True(t, id.IsZero())
}

func TestGeneratorConcurrent(t *testing.T) {
	const workers, perWorker = 8, 200
	var (
		mu   sync.Mutex
		seen = make(map[ULID]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := New()
				if err != nil {
					t.Errorf("new: %v", err)
					return
				}
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}

func TestOrderingFollowsTimestamp(t *testing.T) {
	var ids []ULID
	for ms := int64(1000); ms < 1100; ms++ {
		g := NewGenerator(WithClock(fixedClock(ms)))
		id, err := g.New()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	// shuffle by sorting on the random tail, then restore with Compare
	shuffled := append([]ULID(nil), ids...)
	sort.Slice(shuffled, func(i, j int) bool { return bytes.Compare(shuffled[i][6:], shuffled[j][6:]) < 0 })
	sort.Slice(shuffled, func(i, j int) bool { return Less(shuffled[i], shuffled[j]) })
	assert.Equal(t, ids, shuffled)
}

func TestOrderingSameTimestampUsesEntropy(t *testing.T) {
	lo, err := FromParts(42, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 1})
	require.NoError(t, err)
	hi, err := FromParts(42, []byte{0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, -1, Compare(lo, hi))
	assert.Equal(t, 1, hi.Compare(lo))
}

func TestPredicates(t *testing.T) {
	a := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	b := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAW")

	assert.True(t, Less(a, b))
	assert.True(t, LessOrEqual(a, b))
	assert.True(t, LessOrEqual(a, a))
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b))
	assert.True(t, NotEqual(a, b))
	assert.True(t, GreaterOrEqual(b, a))
	assert.True(t, GreaterOrEqual(b, b))
	assert.True(t, Greater(b, a))
	assert.False(t, Greater(a, a))
	assert.Equal(t, 0, Compare(a, a))
}

func TestCompareMatchesUnsignedBytes(t *testing.T) {
	for i := 0; i < 500; i++ {
		var a, b ULID
		_, _ = rand.Read(a[:])
		_, _ = rand.Read(b[:])
		if i%5 == 0 {
			copy(b[:8], a[:8])
		}
		require.Equal(t, bytes.Compare(a[:], b[:]), Compare(a, b))
		require.Equal(t, -Compare(a, b), Compare(b, a))
	}
}

func TestFromParts(t *testing.T) {
	_, err := FromParts(MaxTime+1, make([]byte, EntropyLen))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = FromParts(1, make([]byte, 3))
	assert.ErrorIs(t, err, ErrInvalidLength)

	id, err := FromParts(MaxTime, bytes.Repeat([]byte{0xFF}, EntropyLen))
	require.NoError(t, err)
	assert.Equal(t, "7ZZZZZZZZZZZZZZZZZZZZZZZZZ", id.String())
}

func TestHashDeterministic(t *testing.T) {
	id := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Equal(t, Hash(id), Hash(id))
	assert.Equal(t, HashExtended(id, 7), HashExtended(id, 7))

	other := id
	other[15] ^= 1
	assert.NotEqual(t, Hash(id), Hash(other))
}

func TestHashExtendedSeeds(t *testing.T) {
	id := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.Equal(t, Hash(id), uint32(HashExtended(id, 0)))

	distinct := make(map[uint64]struct{})
	for seed := uint64(0); seed < 64; seed++ {
		distinct[HashExtended(id, seed)] = struct{}{}
	}
	assert.Greater(t, len(distinct), 60)
}

func TestTransport(t *testing.T) {
	a := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	b := MustParse("7ZZZZZZZZZZZZZZZZZZZZZZZZZ")

	buf := a.AppendBinary(nil)
	buf = b.AppendBinary(buf)
	require.Len(t, buf, 2*Len)

	got, rest, err := Recv(buf)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	got, rest, err = Recv(rest)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Empty(t, rest)

	_, _, err = Recv(buf[:Len-1])
	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, Len-1, le.Actual)
}

func TestBinaryMarshaling(t *testing.T) {
	a := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	raw, err := a.MarshalBinary()
	require.NoError(t, err)
	raw[0] ^= 0xFF
	assert.Equal(t, byte(0x01), a[0], "MarshalBinary must copy")

	var back ULID
	require.NoError(t, back.UnmarshalBinary(a.Bytes()))
	assert.Equal(t, a, back)
	assert.ErrorIs(t, back.UnmarshalBinary(make([]byte, 17)), ErrInvalidLength)
}

func TestUUIDInterop(t *testing.T) {
	a := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	u := a.UUID()
	assert.Equal(t, "01563e3a-b5d3-d676-4c61-efb99302bd5b", u.String())
	assert.Equal(t, a, FromUUID(uuid.MustParse(u.String())))
}
