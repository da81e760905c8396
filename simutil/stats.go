package simutil

import "sort"

// CumulativeMovingAverage is a running arithmetic mean, updated one sample
// at a time without retaining the sample history. Used by calltime.Tracker.
type CumulativeMovingAverage struct {
	mean  float64
	count int
}

// NewCumulativeMovingAverage returns a tracker initialized to mean with an
// implicit count of zero observed samples — the first Update still shifts
// the mean toward the new sample using count+1 in the denominator, matching
// calltime's "initialized to the nearest upstream trip time" contract: the
// initial value is a seed, not a sample.
func NewCumulativeMovingAverage(initial float64) CumulativeMovingAverage {
	return CumulativeMovingAverage{mean: initial, count: 0}
}

// Mean returns the current running mean.
func (c CumulativeMovingAverage) Mean() float64 { return c.mean }

// Count returns the number of samples folded in via Update.
func (c CumulativeMovingAverage) Count() int { return c.count }

// Update folds in a new sample.
func (c *CumulativeMovingAverage) Update(sample float64) {
	c.count++
	c.mean += (sample - c.mean) / float64(c.count)
}

// Reset erases all learned state, resetting to initial with zero samples.
// Preserves the explicit reset contract used throughout the small
// value-semantic structs in this codebase (call-time tracker, OD sampler,
// histograms) rather than relying on re-construction.
func (c *CumulativeMovingAverage) Reset(initial float64) {
	c.mean = initial
	c.count = 0
}

// SortPermutation returns the permutation of indices [0,n) that would sort
// the elements according to less, without mutating any caller-owned slice.
// Used by the surplus/deficit handler to rank stations by idle count.
func SortPermutation(n int, less func(i, j int) bool) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return less(perm[a], perm[b])
	})
	return perm
}
