package hll

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashOf(v uint64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return uint32(xxhash.Sum64(b[:]))
}

func TestNewPrecisionBounds(t *testing.T) {
	_, err := New(MinPrecision - 1)
	assert.Error(t, err)
	_, err = New(MaxPrecision + 1)
	assert.Error(t, err)

	s, err := New(DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, uint8(DefaultPrecision), s.Precision())
}

func TestEmptyEstimateIsZero(t *testing.T) {
	s, err := New(DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Estimate())
}

func TestEstimateAccuracy(t *testing.T) {
	for _, n := range []int{1, 10, 1000, 20000, 250000} {
		s, err := New(DefaultPrecision)
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			s.Add(hashOf(uint64(i)))
		}
		got := s.Estimate()
		// ~3.25% standard error at precision 10; allow a generous margin.
		tolerance := math.Max(2, 0.12*float64(n))
		assert.InDelta(t, float64(n), got, tolerance, "n=%d", n)
	}
}

func TestDuplicatesDoNotInflate(t *testing.T) {
	s, err := New(DefaultPrecision)
	require.NoError(t, err)
	for i := 0; i < 50000; i++ {
		s.Add(hashOf(uint64(i % 3)))
	}
	assert.InDelta(t, 3.0, s.Estimate(), 1.1)
	assert.Equal(t, uint64(50000), s.Updates())
}

func TestMergeAndReset(t *testing.T) {
	a, _ := New(DefaultPrecision)
	b, _ := New(DefaultPrecision)
	for i := 0; i < 5000; i++ {
		a.Add(hashOf(uint64(i)))
		b.Add(hashOf(uint64(i + 5000)))
	}
	require.NoError(t, a.Merge(b))
	assert.InDelta(t, 10000.0, a.Estimate(), 1200)

	c, _ := New(DefaultPrecision + 1)
	assert.Error(t, a.Merge(c))

	a.Reset()
	assert.Equal(t, 0.0, a.Estimate())
	assert.Zero(t, a.Updates())
}
