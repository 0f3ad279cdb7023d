package ulid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is matched by *LengthError.
	ErrInvalidLength = errors.New("ulid: invalid length")

	// ErrInvalidCharacter is matched by *CharacterError.
	ErrInvalidCharacter = errors.New("ulid: invalid character")

	// ErrOverflow is returned when a decoded value would not fit in 128 bits.
	ErrOverflow = errors.New("ulid: value overflows 128 bit encoding")

	// ErrClockUnavailable is returned when the generator cannot obtain a
	// usable millisecond timestamp.
	ErrClockUnavailable = errors.New("ulid: clock unavailable")

	// ErrRandomSourceExhausted is returned when the entropy source fails to
	// supply the 10 random bytes.
	ErrRandomSourceExhausted = errors.New("ulid: random source exhausted")
)

// LengthError reports an input of the wrong size.
type LengthError struct {
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("ulid: invalid length %d (expected %d)", e.Actual, e.Expected)
}

// Is reports whether target is ErrInvalidLength.
func (e *LengthError) Is(target error) bool { return target == ErrInvalidLength }

// CharacterError reports the first byte outside the Base32 alphabet.
type CharacterError struct {
	Position int
	Char     byte
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("ulid: bad character %q at position %d", e.Char, e.Position)
}

// Is reports whether target is ErrInvalidCharacter.
func (e *CharacterError) Is(target error) bool { return target == ErrInvalidCharacter }
