package taxisim

import "github.com/jdleesmiller/si-taxi/simerr"

// TripTimes is an N×N matrix of non-negative integer trip times, zero on
// the diagonal, immutable after construction. It defines the station set:
// N is its side length.
type TripTimes struct {
	n   int
	t   [][]int
}

// NewTripTimes validates and wraps a trip-time matrix.
func NewTripTimes(matrix [][]int) *TripTimes {
	n := len(matrix)
	simerr.Require(n > 0, "triptimes: empty matrix")
	for i, row := range matrix {
		simerr.Require(len(row) == n, "triptimes: row %d has length %d, want %d", i, len(row), n)
		simerr.Require(row[i] == 0, "triptimes: non-zero diagonal at %d: %v", i, row[i])
		for j, v := range row {
			simerr.Require(v >= 0, "triptimes: negative trip time at (%d,%d): %v", i, j, v)
		}
	}
	cp := make([][]int, n)
	for i, row := range matrix {
		cp[i] = append([]int(nil), row...)
	}
	return &TripTimes{n: n, t: cp}
}

// N returns the station count.
func (t *TripTimes) N() int { return t.n }

// Time returns the trip time from i to j.
func (t *TripTimes) Time(i, j int) int { return t.t[i][j] }
