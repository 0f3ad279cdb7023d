// Package hll implements a HyperLogLog distinct-value estimator over 32-bit
// hashes.
//
// The sketch keeps 2^precision one-byte registers. Each added hash selects a
// register with its top precision bits and records the position of the first
// set bit in the remaining bits; the harmonic mean of the registers yields
// the estimate. Small cardinalities fall back to linear counting and large
// ones are corrected for 32-bit hash saturation.
package hll

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	// MinPrecision and MaxPrecision bound the register index width.
	MinPrecision = 4
	MaxPrecision = 16

	// DefaultPrecision gives 1024 registers, about 3.25% standard error.
	DefaultPrecision = 10

	twoTo32 = float64(1 << 32)
)

// Sketch is a HyperLogLog estimator. The zero value is not usable; call New.
// A Sketch is not safe for concurrent use.
type Sketch struct {
	precision uint8
	registers []uint8
	alphaMM   float64
	updates   uint64
}

// New creates an empty sketch with 2^precision registers.
func New(precision uint8) (*Sketch, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, fmt.Errorf("hll: precision %d outside [%d,%d]", precision, MinPrecision, MaxPrecision)
	}
	m := 1 << precision
	return &Sketch{
		precision: precision,
		registers: make([]uint8, m),
		alphaMM:   alpha(m) * float64(m) * float64(m),
	}, nil
}

func alpha(m int) float64 {
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	default:
		return 0.7213 / (1.0 + 1.079/float64(m))
	}
}

// Add records one hashed value.
func (s *Sketch) Add(hash uint32) {
	idx := hash >> (32 - s.precision)
	rest := hash << s.precision
	width := 32 - s.precision
	// rank of the first set bit among the remaining width bits, capped at width+1
	rank := uint8(bits.LeadingZeros32(rest)) + 1
	if rank > width+1 {
		rank = width + 1
	}
	if rank > s.registers[idx] {
		s.registers[idx] = rank
	}
	s.updates++
}

// Estimate returns the current distinct-value estimate.
func (s *Sketch) Estimate() float64 {
	m := float64(len(s.registers))
	var sum float64
	zeros := 0
	for _, r := range s.registers {
		sum += 1.0 / float64(uint64(1)<<r)
		if r == 0 {
			zeros++
		}
	}
	e := s.alphaMM / sum

	switch {
	case e <= 2.5*m:
		if zeros > 0 {
			e = m * math.Log(m/float64(zeros))
		}
	case e > twoTo32/30.0:
		e = -twoTo32 * math.Log(1.0-e/twoTo32)
	}
	return e
}

// Merge folds other into s. Both sketches must share a precision.
func (s *Sketch) Merge(other *Sketch) error {
	if other.precision != s.precision {
		return fmt.Errorf("hll: cannot merge precision %d into %d", other.precision, s.precision)
	}
	for i, r := range other.registers {
		if r > s.registers[i] {
			s.registers[i] = r
		}
	}
	s.updates += other.updates
	return nil
}

// Updates returns how many times Add has been called.
func (s *Sketch) Updates() uint64 { return s.updates }

// Precision returns the register index width.
func (s *Sketch) Precision() uint8 { return s.precision }

// Reset clears all registers.
func (s *Sketch) Reset() {
	clear(s.registers)
	s.updates = 0
}
