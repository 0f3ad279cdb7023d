package ulid

import "bytes"

// Compare returns -1, 0 or 1 comparing a and b as unsigned 128-bit
// big-endian integers.
func Compare(a, b ULID) int { return bytes.Compare(a[:], b[:]) }

// Compare returns -1, 0, 1 based on lexical comparison.
func (id ULID) Compare(other ULID) int { return Compare(id, other) }

// Relational predicates, all defined in terms of Compare.

func Less(a, b ULID) bool           { return Compare(a, b) < 0 }
func LessOrEqual(a, b ULID) bool    { return Compare(a, b) <= 0 }
func Equal(a, b ULID) bool          { return a == b }
func NotEqual(a, b ULID) bool       { return a != b }
func GreaterOrEqual(a, b ULID) bool { return Compare(a, b) >= 0 }
func Greater(a, b ULID) bool        { return Compare(a, b) > 0 }
