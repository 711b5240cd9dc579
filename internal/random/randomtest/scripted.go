// Package randomtest provides a scripted random source for tests that need to
// force specific branches such as weather triggers and skill checks.
package randomtest

import (
	"math/rand/v2"

	"paddlesim/internal/random"
)

// Scripted returns queued values first and falls back to a seeded stream once
// a queue is exhausted. Queued IntN values are reduced modulo n.
type Scripted struct {
	Floats []float64
	Ints   []int

	fallback *rand.Rand
}

var _ random.Source = (*Scripted)(nil)

func New(seed int64) *Scripted {
	return &Scripted{fallback: random.New(seed)}
}

// PushFloats appends values returned by subsequent Float64 calls.
func (s *Scripted) PushFloats(v ...float64) *Scripted {
	s.Floats = append(s.Floats, v...)
	return s
}

// PushInts appends values returned by subsequent IntN calls.
func (s *Scripted) PushInts(v ...int) *Scripted {
	s.Ints = append(s.Ints, v...)
	return s
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) > 0 {
		v := s.Floats[0]
		s.Floats = s.Floats[1:]
		return v
	}
	return s.fallback.Float64()
}

func (s *Scripted) IntN(n int) int {
	if len(s.Ints) > 0 {
		v := s.Ints[0]
		s.Ints = s.Ints[1:]
		return v % n
	}
	return s.fallback.IntN(n)
}

func (s *Scripted) Uint64() uint64 { return s.fallback.Uint64() }

func (s *Scripted) Shuffle(n int, swap func(i, j int)) { s.fallback.Shuffle(n, swap) }
