// Package simutil holds small numeric helpers shared by the proactive
// handlers and the SARSA learner: recursive enumeration of non-negative
// integer matrices under a row-sum constraint, a cumulative moving average,
// and a permutation sort. None of these have a natural home in a matrix
// library — each is a handful of lines of plain control flow, preferring
// hand-rolled numeric helpers over pulling in a matrix package for a
// single small computation (see
// sim/workload/distribution.go, which implements its own CDF search and
// Marsaglia-Tsang gamma sampler rather than reaching for gonum).
package simutil

// Matrix is a square matrix of non-negative integers, row-major.
type Matrix [][]int

// NewMatrix allocates an n×n zero matrix.
func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// EnumerateRowBoundedMatrices calls visit once for every N×N non-negative
// integer matrix with zero diagonal and row i summing to at most
// rowSumLimits[i]. The matrix passed to visit is reused between calls — visit
// must not retain it; callers needing to keep a result should Clone() it.
//
// The count of matrices generated for a single row of sum limit r over an
// N-station network (one column excluded by the zero-diagonal constraint,
// so N-1 free cells) is the number of non-negative integer solutions to
// x_1 + ... + x_{N-1} <= r, i.e. C(r+N-1, N-1); the full count multiplies
// this across independent rows.
func EnumerateRowBoundedMatrices(n int, rowSumLimits []int, visit func(Matrix)) {
	m := NewMatrix(n)
	enumerateRows(m, n, rowSumLimits, 0, visit)
}

func enumerateRows(m Matrix, n int, rowSumLimits []int, row int, visit func(Matrix)) {
	if row == n {
		visit(m)
		return
	}
	enumerateRow(m, n, row, 0, rowSumLimits[row], func() {
		enumerateRows(m, n, rowSumLimits, row+1, visit)
	})
}

// enumerateRow fills m[row][col:] with every combination of non-negative
// integers summing to at most remaining, skipping the diagonal cell, then
// invokes done for each completed row.
func enumerateRow(m Matrix, n, row, col, remaining int, done func()) {
	if col == n {
		done()
		return
	}
	if col == row {
		enumerateRow(m, n, row, col+1, remaining, done)
		return
	}
	for v := 0; v <= remaining; v++ {
		m[row][col] = v
		enumerateRow(m, n, row, col+1, remaining-v, done)
	}
	m[row][col] = 0
}
