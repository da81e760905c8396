// Package sampler provides O(log n) categorical sampling from a probability
// mass function, by prefix-summing it into a CDF and binary-searching a
// uniform draw against that CDF. Grounded on
// sim/workload/distribution.go's EmpiricalPDFSampler, which solves the same
// problem (draw a discrete outcome from an arbitrary PMF) for token-length
// sampling; this package generalizes it to an arbitrary flattened PMF (used
// by odmatrix for (origin,destin) sampling and reused as-is anywhere else a
// categorical draw is needed).
package sampler

import (
	"sort"

	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/simrand"
)

// DefaultCDFTolerance bounds how far a PMF's sum may drift from 1 before
// Categorical treats it as a violation (Kind Tolerance) rather than
// silently renormalizing.
const DefaultCDFTolerance = 1e-6

// Categorical draws indices in [0,len(pmf)) with probability proportional to
// pmf[i]. Construction prefix-sums pmf into a CDF and pins the final entry
// to exactly 1.0 to avoid binary-search overrun from floating-point drift
// (same fix as NewEmpiricalPDFSampler's "Ensure last CDF entry is exactly
// 1.0").
type Categorical struct {
	cdf []float64
}

// NewCategorical builds a Categorical from a probability mass function. The
// PMF need not already sum to exactly 1; drift up to tol is absorbed, drift
// beyond it panics with a *simerr.Violation (Kind Tolerance) since it
// usually indicates a caller bug in how the PMF was built.
func NewCategorical(pmf []float64, tol float64) *Categorical {
	simerr.Require(len(pmf) > 0, "sampler: empty pmf")
	cdf := make([]float64, len(pmf))
	sum := 0.0
	for i, p := range pmf {
		simerr.Require(p >= 0, "sampler: negative pmf entry at %d: %v", i, p)
		sum += p
		cdf[i] = sum
	}
	if sum <= 0 {
		panic(simerr.New(simerr.Precondition, "sampler: pmf sums to %v, need > 0", sum))
	}
	if d := sum - 1; d > tol || d < -tol {
		panic(simerr.New(simerr.Tolerance, "sampler: pmf sums to %v, drift exceeds tolerance %v", sum, tol))
	}
	for i := range cdf {
		cdf[i] /= sum
	}
	cdf[len(cdf)-1] = 1.0
	return &Categorical{cdf: cdf}
}

// Sample draws one outcome using u, a uniform [0,1) value from rng.
func (c *Categorical) Sample(rng simrand.Source) int {
	u := rng.Float64()
	idx := sort.SearchFloat64s(c.cdf, u)
	if idx >= len(c.cdf) {
		idx = len(c.cdf) - 1
	}
	return idx
}

// Len returns the number of categories.
func (c *Categorical) Len() int { return len(c.cdf) }
