// Package odmatrix wraps an origin-destination rate matrix: an N×N matrix of
// non-negative request rates (requests per unit time), zero on the diagonal,
// with at least one positive entry. It derives read-only row/column sums,
// the expected interarrival time, the trip-probability matrix, and a
// flattened categorical sampler over that probability matrix — grounded on
// sim/workload/distribution.go's PMF-to-CDF-to-sampler pipeline, generalized
// from a 1-D token-length PMF to a flattened 2-D trip PMF.
package odmatrix

import (
	"github.com/jdleesmiller/si-taxi/sampler"
	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/simrand"
)

// Matrix holds an OD rate matrix and its derived fields. All derived fields
// are computed once at construction and are immutable afterward, per the
// "structurally immutable after setup" contract shared by every matrix type
// in this codebase.
type Matrix struct {
	n        int
	rates    [][]float64
	rateFrom []float64 // row sums
	rateTo   []float64 // column sums
	total    float64
	interarr float64       // expected interarrival time: 1 / total
	trip     [][]float64   // p_ij = rates[i][j] * interarr
	sampler  *sampler.Categorical
}

// New builds a Matrix from an N×N rate matrix. Panics with a
// *simerr.Violation if the matrix is not square, has a non-zero diagonal, or
// has a non-positive total rate.
func New(rates [][]float64) *Matrix {
	n := len(rates)
	simerr.Require(n > 0, "odmatrix: empty matrix")
	for i, row := range rates {
		simerr.Require(len(row) == n, "odmatrix: row %d has length %d, want %d", i, len(row), n)
		simerr.Require(row[i] == 0, "odmatrix: non-zero diagonal at %d: %v", i, row[i])
		for j, v := range row {
			simerr.Require(v >= 0, "odmatrix: negative rate at (%d,%d): %v", i, j, v)
		}
	}

	m := &Matrix{
		n:        n,
		rates:    rates,
		rateFrom: make([]float64, n),
		rateTo:   make([]float64, n),
		trip:     make([][]float64, n),
	}
	for i := range m.trip {
		m.trip[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := rates[i][j]
			m.rateFrom[i] += v
			m.rateTo[j] += v
			m.total += v
		}
	}
	simerr.Require(m.total > 0, "odmatrix: total rate must be positive, got %v", m.total)
	m.interarr = 1 / m.total

	flat := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := rates[i][j] * m.interarr
			m.trip[i][j] = p
			flat = append(flat, p)
		}
	}
	m.sampler = sampler.NewCategorical(flat, sampler.DefaultCDFTolerance)

	return m
}

// N returns the station count.
func (m *Matrix) N() int { return m.n }

// Rate returns lambda_ij.
func (m *Matrix) Rate(i, j int) float64 { return m.rates[i][j] }

// RateFrom returns the row sum for station i: total outbound rate.
func (m *Matrix) RateFrom(i int) float64 { return m.rateFrom[i] }

// RateTo returns the column sum for station j: total inbound rate.
func (m *Matrix) RateTo(j int) float64 { return m.rateTo[j] }

// ExpectedInterarrival returns 1 / (sum of all rates).
func (m *Matrix) ExpectedInterarrival() float64 { return m.interarr }

// TripProbability returns p_ij = lambda_ij * ExpectedInterarrival().
func (m *Matrix) TripProbability(i, j int) float64 { return m.trip[i][j] }

// SampleTrip draws an (origin, destination) pair proportional to the trip
// probability matrix.
func (m *Matrix) SampleTrip(rng simrand.Source) (origin, destin int) {
	idx := m.sampler.Sample(rng)
	return idx / m.n, idx % m.n
}
