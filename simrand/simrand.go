// Package simrand provides the single process-wide uniform random source
// that all stochastic sampling in si-taxi draws from: OD sampling, Poisson
// interarrival generation, and epsilon-greedy action selection.
package simrand

import (
	"hash/fnv"
	"math/rand"
)

// Source is a seedable uniform [0,1) generator. A simulation run must use
// exactly one Source, consumed by exactly one goroutine — the single-threaded
// model described in the package documentation guarantees no two handlers
// race to draw from it.
type Source interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// Seed resets the stream deterministically. Re-seeding does not allocate
	// a new stream; it resets the existing one in place.
	Seed(seed int64)
}

// mathRandSource wraps math/rand.Rand as a Source.
type mathRandSource struct {
	rng *rand.Rand
}

// New returns a Source backed by math/rand, seeded with seed.
func New(seed int64) Source {
	return &mathRandSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) Float64() float64 {
	return s.rng.Float64()
}

func (s *mathRandSource) Seed(seed int64) {
	s.rng.Seed(seed)
}

// DeriveSeed deterministically derives a child seed from a parent seed and a
// label, for use by components that need a reproducible but distinct stream
// from the core simulation RNG — e.g. rebasing a deterministic test pax
// stream. It must never be used for the core simulation RNG itself (see
// package docs: the simulation requires a single stream).
func DeriveSeed(parent int64, label string) int64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	return parent ^ int64(h.Sum64())
}
