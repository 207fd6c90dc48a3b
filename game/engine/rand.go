package engine

import "math/rand"

// Rand is the random source used by every stochastic formula. Injecting it
// keeps the simulation deterministic under test.
type Rand interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// Intn returns a uniform value in [0,n).
	Intn(n int) int
}

// NewRand returns a Rand backed by math/rand with the given seed.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// SequenceRand replays a fixed sequence of Float64 values, cycling when
// exhausted. Intn scales the next value into range. Intended for tests.
type SequenceRand struct {
	Values []float64
	pos    int
}

func (s *SequenceRand) next() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Float64 returns the next value in the sequence.
func (s *SequenceRand) Float64() float64 { return s.next() }

// Intn returns the next value scaled into [0,n).
func (s *SequenceRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
