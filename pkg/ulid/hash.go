package ulid

import "github.com/cespare/xxhash/v2"

// Hash returns a 32-bit hash of all 16 bytes, for hash-based indexing.
func Hash(id ULID) uint32 { return uint32(xxhash.Sum64(id[:])) }

// HashExtended returns a 64-bit seeded hash of all 16 bytes. With seed 0
// the low 32 bits equal Hash(id).
func HashExtended(id ULID, seed uint64) uint64 {
	if seed == 0 {
		return xxhash.Sum64(id[:])
	}
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(id[:])
	return d.Sum64()
}
