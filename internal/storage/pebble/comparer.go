package pebblestore

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/dcbickfo/pg-ulid/pkg/ulid"
	"github.com/dcbickfo/pg-ulid/pkg/ulid/sortsupport"
)

// ComparerName is persisted in the store's manifest; a store created with
// it can only be reopened with the same comparer.
const ComparerName = "ulid.v1"

// Comparer orders keys bytewise, which for 16-byte keys is ulid.Compare.
// Its AbbreviatedKey is the sort abbreviation of the key's 8-byte prefix.
func Comparer() *pebble.Comparer {
	c := *pebble.DefaultComparer
	c.Name = ComparerName
	c.AbbreviatedKey = func(key []byte) uint64 {
		return uint64(sortsupport.AbbreviateKey(key))
	}
	raw := c.FormatKey
	c.FormatKey = func(key []byte) fmt.Formatter {
		var id ulid.ULID
		if err := id.UnmarshalBinary(key); err == nil {
			return textKey(id.String())
		}
		if raw != nil {
			return raw(key)
		}
		return textKey(fmt.Sprintf("%x", key))
	}
	return &c
}

// textKey prints keys in their canonical text form in Pebble's logs.
type textKey string

func (k textKey) Format(s fmt.State, _ rune) { _, _ = fmt.Fprint(s, string(k)) }
