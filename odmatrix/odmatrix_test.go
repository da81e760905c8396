package odmatrix

import (
	"testing"

	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/simrand"
)

func sampleRates() [][]float64 {
	return [][]float64{
		{0, 2, 1},
		{1, 0, 3},
		{2, 2, 0},
	}
}

func TestNew_RejectsNonZeroDiagonal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on non-zero diagonal")
		}
	}()
	New([][]float64{{1, 0}, {0, 0}})
}

func TestNew_RejectsAllZero(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on all-zero matrix")
		}
	}()
	New([][]float64{{0, 0}, {0, 0}})
}

func TestNew_RejectsNegativeRate(t *testing.T) {
	defer func() {
		v := recover()
		if v == nil {
			t.Fatal("expected panic on negative rate")
		}
		if _, ok := v.(*simerr.Violation); !ok {
			t.Fatalf("expected *simerr.Violation, got %T", v)
		}
	}()
	New([][]float64{{0, -1}, {1, 0}})
}

func TestMarginals(t *testing.T) {
	m := New(sampleRates())
	if m.N() != 3 {
		t.Fatalf("N() = %d, want 3", m.N())
	}
	if got := m.RateFrom(0); got != 3 {
		t.Errorf("RateFrom(0) = %v, want 3", got)
	}
	if got := m.RateTo(1); got != 4 {
		t.Errorf("RateTo(1) = %v, want 4", got)
	}
}

func TestExpectedInterarrival(t *testing.T) {
	m := New(sampleRates())
	total := 2.0 + 1 + 1 + 3 + 2 + 2
	want := 1 / total
	if got := m.ExpectedInterarrival(); got != want {
		t.Errorf("ExpectedInterarrival() = %v, want %v", got, want)
	}
}

func TestTripProbability_SumsToOne(t *testing.T) {
	m := New(sampleRates())
	sum := 0.0
	for i := 0; i < m.N(); i++ {
		for j := 0; j < m.N(); j++ {
			sum += m.TripProbability(i, j)
		}
	}
	if diff := sum - 1; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("trip probabilities sum to %v, want 1", sum)
	}
}

func TestSampleTrip_NeverSamplesDiagonal(t *testing.T) {
	m := New(sampleRates())
	rng := simrand.New(3)
	for i := 0; i < 2000; i++ {
		o, d := m.SampleTrip(rng)
		if o == d {
			t.Fatalf("sampled trivial trip (%d,%d)", o, d)
		}
	}
}

func TestSampleTrip_RespectsZeroProbabilityCell(t *testing.T) {
	// rates[0][1] = 0, so (0,1) should never be drawn.
	rates := [][]float64{
		{0, 0, 5},
		{5, 0, 0},
		{5, 5, 0},
	}
	m := New(rates)
	rng := simrand.New(4)
	for i := 0; i < 2000; i++ {
		o, d := m.SampleTrip(rng)
		if o == 0 && d == 1 {
			t.Fatalf("sampled zero-probability trip (0,1)")
		}
	}
}
