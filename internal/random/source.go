package random

import (
	"encoding/binary"
	"math/rand/v2"
)

// Source is the random stream consumed by the simulation. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
	Uint64() uint64
	Shuffle(n int, swap func(i, j int))
}

// Named streams derived from one seed.
const (
	StreamMatch  uint64 = 0
	StreamLeague uint64 = 1
)

// New returns a ChaCha8-backed source whose stream depends only on seed.
// It is the StreamMatch stream of that seed.
func New(seed int64) *rand.Rand {
	return NewStream(seed, StreamMatch)
}

// NewStream returns an independent stream of seed. Streams with different
// ids never share draws, so consuming one leaves the others untouched.
func NewStream(seed int64, stream uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(seed))
	binary.LittleEndian.PutUint64(key[8:16], stream)
	return rand.New(rand.NewChaCha8(key))
}

// Reader adapts a Source to io.Reader so byte-oriented generators (uuid)
// consume the same stream as the rest of the simulation.
type Reader struct {
	Src Source
}

func (r Reader) Read(p []byte) (int, error) {
	var tmp [8]byte
	n := 0
	for n < len(p) {
		binary.LittleEndian.PutUint64(tmp[:], r.Src.Uint64())
		n += copy(p[n:], tmp[:])
	}
	return n, nil
}
