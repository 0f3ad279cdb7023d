package ulid

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

const (
	// Len is the size of the binary form in bytes.
	Len = 16

	// EntropyLen is the size of the random tail in bytes.
	EntropyLen = 10

	// MaxTime is the largest millisecond timestamp a ULID can hold (2^48-1).
	MaxTime uint64 = 1<<48 - 1
)

// ULID is a 128-bit sortable identifier encoded as 16 bytes big-endian:
// [6 bytes ms_timestamp][10 bytes entropy].
type ULID [Len]byte

// Zero is the all-zero ULID.
var Zero ULID

// FromParts composes a ULID from a millisecond timestamp and 10 bytes of
// entropy.
func FromParts(ms uint64, entropy []byte) (ULID, error) {
	if ms > MaxTime {
		return ULID{}, ErrOverflow
	}
	if len(entropy) != EntropyLen {
		return ULID{}, &LengthError{Expected: EntropyLen, Actual: len(entropy)}
	}
	var id ULID
	putTimestamp(&id, ms)
	copy(id[6:], entropy)
	return id, nil
}

func putTimestamp(id *ULID, ms uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], ms)
	copy(id[:6], b[2:])
}

// Timestamp returns the embedded milliseconds since the Unix epoch.
func (id ULID) Timestamp() uint64 {
	return uint64(id[0])<<40 | uint64(id[1])<<32 | uint64(id[2])<<24 |
		uint64(id[3])<<16 | uint64(id[4])<<8 | uint64(id[5])
}

// Time returns the embedded timestamp as a time.Time in UTC.
func (id ULID) Time() time.Time {
	return time.UnixMilli(int64(id.Timestamp())).UTC()
}

// Entropy returns a copy of the 10 random bytes.
func (id ULID) Entropy() []byte {
	e := make([]byte, EntropyLen)
	copy(e, id[6:])
	return e
}

// Bytes returns a copy of the raw 16-byte representation.
func (id ULID) Bytes() []byte { b := make([]byte, Len); copy(b, id[:]); return b }

// IsZero reports whether id is the all-zero value.
func (id ULID) IsZero() bool { return id == Zero }

// String returns the canonical 26-character upper-case text form.
func (id ULID) String() string {
	var buf [EncodedLen]byte
	Encode(buf[:], id)
	return string(buf[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ULID) MarshalText() ([]byte, error) {
	buf := make([]byte, EncodedLen)
	Encode(buf, id)
	return buf, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ULID) UnmarshalText(text []byte) error {
	parsed, err := Decode(text)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (id ULID) MarshalBinary() ([]byte, error) { return id.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must be
// exactly 16 bytes.
func (id *ULID) UnmarshalBinary(data []byte) error {
	if len(data) != Len {
		return &LengthError{Expected: Len, Actual: len(data)}
	}
	copy(id[:], data)
	return nil
}

// AppendBinary appends the 16 raw bytes of id to dst.
func (id ULID) AppendBinary(dst []byte) []byte { return append(dst, id[:]...) }

// Recv copies exactly 16 bytes from the front of buf into a new ULID and
// returns the unread remainder.
func Recv(buf []byte) (ULID, []byte, error) {
	if len(buf) < Len {
		return ULID{}, buf, &LengthError{Expected: Len, Actual: len(buf)}
	}
	var id ULID
	copy(id[:], buf[:Len])
	return id, buf[Len:], nil
}

// UUID reinterprets the 16 bytes as a UUID without reordering.
func (id ULID) UUID() uuid.UUID { return uuid.UUID(id) }

// FromUUID reinterprets the 16 bytes of u as a ULID.
func FromUUID(u uuid.UUID) ULID { return ULID(u) }
