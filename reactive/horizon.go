package reactive

import (
	"github.com/jdleesmiller/si-taxi/odmatrix"
	"github.com/jdleesmiller/si-taxi/paxstream"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// H1 is the one-step-lookahead horizon heuristic: it picks the vehicle
// minimizing wait(pax,k) - alpha*future(destin_k), where future(i) is the
// expected empty trip time from i to an i.i.d.-sampled next passenger
// origin, plus the expected duration of the occupied leg that follows.
// Subtracting alpha*future penalizes diverting vehicles that are well
// positioned for the next request, in favor of vehicles already poorly
// placed: diverting a badly-placed vehicle gives up less future value.
//
// future is per-station and precomputed once at construction time as
// C*P*1 (trip times times trip probabilities times the all-ones vector)
// plus a constant expected-occupied-trip-duration term; this original
// heuristic appears only by name in the source material, with no
// reference implementation to copy, so this precomputation and the
// per-candidate evaluation point (each vehicle's own current
// destination, not the passenger's) are a documented judgment call.
type H1 struct {
	Alpha  float64
	future []float64
}

// NewH1 precomputes the future-value vector from trip times and an OD
// matrix describing the next-passenger distribution.
func NewH1(alpha float64, trips *taxisim.TripTimes, od *odmatrix.Matrix) *H1 {
	n := trips.N()
	future := make([]float64, n)

	// originProb[j] = probability the next passenger originates at j.
	originProb := make([]float64, n)
	total := 0.0
	for j := 0; j < n; j++ {
		total += od.RateFrom(j)
	}
	for j := 0; j < n; j++ {
		if total > 0 {
			originProb[j] = od.RateFrom(j) / total
		} else {
			originProb[j] = 0
		}
	}

	// expectedOccupied = E[trip_time(i,j)] over the joint (origin,destin)
	// distribution; a single scalar added to every station's future value.
	var expectedOccupied float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			expectedOccupied += od.TripProbability(i, j) * float64(trips.Time(i, j))
		}
	}

	for i := 0; i < n; i++ {
		var emptyTerm float64
		for j := 0; j < n; j++ {
			emptyTerm += originProb[j] * float64(trips.Time(i, j))
		}
		future[i] = emptyTerm + expectedOccupied
	}

	return &H1{Alpha: alpha, future: future}
}

func (h *H1) HandlePax(sim *taxisim.Sim, req paxstream.Request) int {
	best := taxisim.NoVehicle
	var bestCost float64
	for k, v := range sim.Vehicles {
		w := wait(v.Arrive, req.Arrive, sim.Trips.Time(v.Destin, req.Origin))
		cost := float64(w) - h.Alpha*h.future[v.Destin]
		if best == taxisim.NoVehicle || cost < bestCost {
			best = k
			bestCost = cost
		}
	}
	return best
}

// H2 is the second horizon heuristic: like H1, it penalizes diverting a
// well-positioned vehicle, but estimates a station's future value from the
// call-time tracker's running mean empty-trip duration into that station
// rather than a static precomputed OD-based estimate. The call-time
// tracker already approximates "expected wait if no vehicle is
// immediately available" at a station (spec's call-time invariant
// call_time[i] >= min_{j!=i} trip_time(j,i)), which is the same quantity
// H2's "worst-case expected wait if k were not used" describes; Horizon
// scales that estimate to stand in for the unspecified look-ahead window,
// since no reference implementation defines the window's exact mechanics.
type H2 struct {
	Alpha   float64
	Horizon float64
}

func (h *H2) HandlePax(sim *taxisim.Sim, req paxstream.Request) int {
	best := taxisim.NoVehicle
	var bestCost float64
	for k, v := range sim.Vehicles {
		w := wait(v.Arrive, req.Arrive, sim.Trips.Time(v.Destin, req.Origin))
		future := h.Horizon * sim.CallTimes.CallTime(v.Destin)
		cost := float64(w) - h.Alpha*future
		if best == taxisim.NoVehicle || cost < bestCost {
			best = k
			bestCost = cost
		}
	}
	return best
}
