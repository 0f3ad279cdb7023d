// Package ulid provides a 128-bit, lexicographically sortable identifier.
//
// # Format
//
// A ULID is 16 bytes big-endian: [6 bytes ms_timestamp][10 bytes entropy].
// Byte-wise comparison therefore equals numeric comparison of the 128-bit
// value, and identifiers minted in different milliseconds sort
// chronologically.
//
// The canonical text form is 26 symbols of Crockford's Base32 alphabet
// (0-9 and A-Z without I, L, O, U), 5 bits per symbol, most significant
// first. The first symbol carries only 3 meaningful bits, so it is never
// greater than '7'. Parsing accepts lower case; String always emits upper
// case.
//
// # Errors
//
// Parse reports *LengthError, *CharacterError or ErrOverflow. Generation
// reports errors matching ErrClockUnavailable or ErrRandomSourceExhausted.
// No function returns a partially filled value alongside an error.
//
// Usage
//
//	id, err := ulid.New()
//	s := id.String()          // "01ARZ3NDEKTSV4RRFFQ69G5FAV"
//	back, err := ulid.Parse(s)
//	_ = ulid.Less(id, back)
//	h := ulid.HashExtended(id, seed)
package ulid
