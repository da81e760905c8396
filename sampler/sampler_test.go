package sampler

import (
	"testing"

	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/simrand"
)

func TestNewCategorical_RejectsEmptyPMF(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty pmf")
		}
	}()
	NewCategorical(nil, DefaultCDFTolerance)
}

func TestNewCategorical_RejectsNegativeEntry(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative entry")
		}
	}()
	NewCategorical([]float64{0.5, -0.5}, DefaultCDFTolerance)
}

func TestNewCategorical_RejectsDriftBeyondTolerance(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on drift")
		}
		v, ok := r.(*simerr.Violation)
		if !ok || v.Kind != simerr.Tolerance {
			t.Fatalf("expected Tolerance violation, got %v", r)
		}
	}()
	NewCategorical([]float64{0.5, 0.3}, 1e-6)
}

func TestNewCategorical_AbsorbsDriftWithinTolerance(t *testing.T) {
	c := NewCategorical([]float64{0.5, 0.5 + 1e-9}, DefaultCDFTolerance)
	if c.Len() != 2 {
		t.Fatalf("expected 2 categories, got %d", c.Len())
	}
}

func TestCategorical_SampleWithinRange(t *testing.T) {
	c := NewCategorical([]float64{0.2, 0.3, 0.5}, DefaultCDFTolerance)
	rng := simrand.New(1)
	for i := 0; i < 1000; i++ {
		idx := c.Sample(rng)
		if idx < 0 || idx >= 3 {
			t.Fatalf("Sample() = %d, out of range [0,3)", idx)
		}
	}
}

func TestCategorical_SampleDistributionApproximatesPMF(t *testing.T) {
	c := NewCategorical([]float64{0.1, 0.9}, DefaultCDFTolerance)
	rng := simrand.New(2)
	counts := [2]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[c.Sample(rng)]++
	}
	frac := float64(counts[1]) / n
	if frac < 0.85 || frac > 0.95 {
		t.Fatalf("category 1 frequency = %v, want close to 0.9", frac)
	}
}
