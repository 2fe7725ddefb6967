package expedition

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Sampler is the selector's only source of randomness: a replicable PCG
// generator constructed from one attempt seed and threaded through the
// pipeline as an argument, never as ambient state. Identical seeds replay
// identical draw sequences.
type Sampler struct {
	r *rand.Rand
}

// NewSampler creates a sampler seeded for one assembly attempt.
func NewSampler(seed int64) *Sampler {
	return &Sampler{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// NextSeed derives the next attempt seed from this sampler's stream.
// Seeds stay in [0, 2^63) so they survive JSON round-trips as plain ints.
func (s *Sampler) NextSeed() int64 {
	return int64(s.r.Uint64() >> 1)
}

// IntN returns a uniform int in [0, n).
func (s *Sampler) IntN(n int) int {
	return s.r.IntN(n)
}

// pickOne draws a single item uniformly. Callers guarantee a non-empty pool.
func pickOne[T any](s *Sampler, items []T) T {
	return items[s.r.IntN(len(items))]
}

// sampleK draws k distinct items without replacement by shuffling a copy of
// the pool. The pool must already be deterministically ordered.
func sampleK[T any](s *Sampler, items []T, k int) []T {
	out := make([]T, len(items))
	copy(out, items)
	s.r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:k]
}

// NewRequestSeed generates a fresh high-entropy seed for requests that did
// not pin one. The result is recorded in packet metadata but the request
// itself stays non-reproducible.
func NewRequestSeed() (int64, error) {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1), nil
}
