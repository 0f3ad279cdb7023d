package ulid

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	oklog "github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceVector = ULID{
	0x01, 0x56, 0x3E, 0x3A, 0xB5, 0xD3, 0xD6, 0x76,
	0x4C, 0x61, 0xEF, 0xB9, 0x93, 0x02, 0xBD, 0x5B,
}

func TestKnownVector(t *testing.T) {
	id, err := Parse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.NoError(t, err)
	assert.Equal(t, referenceVector, id)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", referenceVector.String())
	assert.Equal(t, uint64(1469922850259), id.Timestamp())
}

func TestZeroAndMaxVectors(t *testing.T) {
	zeros := strings.Repeat("0", EncodedLen)
	id, err := Parse(zeros)
	require.NoError(t, err)
	assert.Equal(t, Zero, id)
	assert.Equal(t, zeros, Zero.String())

	var max ULID
	for i := range max {
		max[i] = 0xFF
	}
	assert.Equal(t, "7ZZZZZZZZZZZZZZZZZZZZZZZZZ", max.String())
	back, err := Parse("7ZZZZZZZZZZZZZZZZZZZZZZZZZ")
	require.NoError(t, err)
	assert.Equal(t, max, back)
}

func TestRoundTripRandom(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var id ULID
		_, err := rand.Read(id[:])
		require.NoError(t, err)

		s := id.String()
		require.Len(t, s, EncodedLen)
		back, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, id, back)

		// independent implementation must agree on the text form
		require.Equal(t, oklog.ULID(id).String(), s)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		var raw [EncodedLen]byte
		_, err := rand.Read(raw[:])
		require.NoError(t, err)
		raw[0] = alphabet[raw[0]&7]
		for j := 1; j < EncodedLen; j++ {
			raw[j] = alphabet[raw[j]&31]
		}
		s := string(raw[:])
		id, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, s, id.String())
	}
}

func TestParseLowerCase(t *testing.T) {
	id, err := Parse("01arz3ndektsv4rrffq69g5fav")
	require.NoError(t, err)
	assert.Equal(t, referenceVector, id)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", id.String())
}

func TestParseInvalidLength(t *testing.T) {
	for _, n := range []int{0, 1, 25, 27, 52} {
		_, err := Parse(strings.Repeat("0", n))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidLength)

		var le *LengthError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, EncodedLen, le.Expected)
		assert.Equal(t, n, le.Actual)
	}
}

func TestParseInvalidCharacter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pos  int
	}{
		{"bang first", "!" + strings.Repeat("0", 25), 0},
		{"excluded I", "0000000000I000000000000000", 10},
		{"excluded L", "0000000000000000000000000L", 25},
		{"excluded o", "00o00000000000000000000000", 2},
		{"excluded U", "00000U00000000000000000000", 5},
		{"non-ascii", "0000\xff000000000000000000000", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.ErrorIs(t, err, ErrInvalidCharacter)
			var ce *CharacterError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.pos, ce.Position)
			assert.Equal(t, tt.in[tt.pos], ce.Char)
		})
	}
}

func TestParseOverflow(t *testing.T) {
	_, err := Parse("8" + strings.Repeat("0", 25))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Parse("z" + strings.Repeat("0", 25))
	assert.ErrorIs(t, err, ErrOverflow)

	id, err := Parse("7" + strings.Repeat("0", 25))
	require.NoError(t, err)
	assert.Equal(t, byte(0xE0), id[0])
}

func TestParseCharacterCheckedBeforeOverflow(t *testing.T) {
	_, err := Parse("8" + strings.Repeat("0", 24) + "!")
	assert.ErrorIs(t, err, ErrInvalidCharacter)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
	assert.NotPanics(t, func() { MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV") })
}

func TestTextMarshaling(t *testing.T) {
	b, err := referenceVector.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", string(b))

	var id ULID
	require.NoError(t, id.UnmarshalText(b))
	assert.Equal(t, referenceVector, id)

	err = id.UnmarshalText([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.Equal(t, referenceVector, id, "failed unmarshal must not modify the receiver")
}
