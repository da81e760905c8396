package sarsa

import (
	"math"
	"sync/atomic"
)

// atomicFloat is a lock-free float64 cell holding the value's bit pattern
// in an atomic.Uint64, grounded on niceyeti-tabular/atomic_float's
// AtomicAdd/AtomicSet pattern. That package stores the bits behind an
// unsafe.Pointer cast to *uint64; here the standard library's
// atomic.Uint64 is used instead, without reaching for the unsafe package
// — an unsafe cast is a code smell to use carefully, and
// Go's atomic.Uint64 removes the need for it entirely. Only atomic Load
// and Store are provided; there is no compare-and-swap add.
//
// The simulator driving this table is strictly single-threaded (spec's
// concurrency model), so this buys nothing for training itself; it exists
// so an embedder can read a live Q-value from a monitoring goroutine while
// training proceeds without tearing a float64 read across two words.
type atomicFloat struct {
	bits atomic.Uint64
}

func newAtomicFloat(v float64) *atomicFloat {
	f := &atomicFloat{}
	f.bits.Store(math.Float64bits(v))
	return f
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
