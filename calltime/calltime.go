// Package calltime tracks, per station, a running arithmetic mean of the
// durations of non-trivial (origin != destin) empty trips that have arrived
// at that station. Initialized to the shortest trip time from any other
// station into the station, so that a never-yet-observed call time is still
// a sane lower bound rather than zero. Grounded in style on
// simutil.CumulativeMovingAverage plus the small value-semantic,
// explicit-Reset struct pattern used throughout this codebase.
package calltime

import "github.com/jdleesmiller/si-taxi/simutil"

// Epsilon absorbs floating rounding in call-time comparisons (spec'd
// tolerance of ~1e-3).
const Epsilon = 1e-3

// Tracker holds one running mean per station.
type Tracker struct {
	n     int
	means []simutil.CumulativeMovingAverage
}

// New builds a Tracker from an N×N non-negative trip-time matrix (zero
// diagonal). Each station's tracker is seeded with the minimum trip time
// from any other station into it, satisfying the invariant
// call_time[i] >= min_{j!=i} trip_time(j,i).
func New(tripTimes [][]int) *Tracker {
	n := len(tripTimes)
	t := &Tracker{n: n, means: make([]simutil.CumulativeMovingAverage, n)}
	for i := 0; i < n; i++ {
		min := -1
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			tt := tripTimes[j][i]
			if min < 0 || tt < min {
				min = tt
			}
		}
		if min < 0 {
			min = 0
		}
		t.means[i] = simutil.NewCumulativeMovingAverage(float64(min))
	}
	return t
}

// CallTime returns the current running mean for station i.
func (t *Tracker) CallTime(i int) float64 {
	return t.means[i].Mean()
}

// Observe folds in a new non-trivial empty-trip duration arriving at
// station i. Callers must not call this for trivial (origin == destin)
// trips — the simulator only initiates empty trips between distinct
// stations, so this is enforced by construction rather than checked here.
func (t *Tracker) Observe(i int, duration int) {
	t.means[i].Update(float64(duration))
}

// Reset erases all learned state, reseeding every station's mean to the
// minimum inbound trip time from tripTimes with zero observed samples.
func (t *Tracker) Reset(tripTimes [][]int) {
	*t = *New(tripTimes)
}
