// Package reactive implements the reactive dispatch handlers: nearest-
// neighbor, empty-time nearest-neighbor, static nearest-neighbor, and the
// H1/H2 horizon heuristics. Each is a small, self-contained type
// implementing taxisim.ReactiveHandler — a closed tagged-variant family,
// not a class hierarchy — grounded structurally on sim/routing.go's
// RoutingPolicy family
// (RoundRobin, LeastLoaded, WeightedScoring all implement the same small
// Route interface with no shared base type).
package reactive

import (
	"github.com/jdleesmiller/si-taxi/paxstream"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// wait returns max(0, arrive-pax.Arrive) + tripTime(destin, pax.Origin), the
// NN cost function, reused by H1 and H2 as their wait term.
func wait(arrive int64, paxArrive int64, tripTime int) int64 {
	extra := arrive - paxArrive
	if extra < 0 {
		extra = 0
	}
	return extra + int64(tripTime)
}

// NN is the nearest-neighbor reactive handler: picks the vehicle minimizing
// max(0, arrive_k - pax.arrive) + tripTime(destin_k, pax.origin), ties
// broken by lowest vehicle index.
type NN struct{}

func (NN) HandlePax(sim *taxisim.Sim, req paxstream.Request) int {
	best := taxisim.NoVehicle
	var bestCost int64
	for k, v := range sim.Vehicles {
		cost := wait(v.Arrive, req.Arrive, sim.Trips.Time(v.Destin, req.Origin))
		if best == taxisim.NoVehicle || cost < bestCost {
			best = k
			bestCost = cost
		}
	}
	return best
}

// ETNN is the empty-time nearest-neighbor handler: lexicographic minimum of
// (tripTime(destin_k, pax.origin), max(0, arrive_k-now)).
type ETNN struct{}

func (ETNN) HandlePax(sim *taxisim.Sim, req paxstream.Request) int {
	best := taxisim.NoVehicle
	var bestEmpty int
	var bestExtra int64
	for k, v := range sim.Vehicles {
		empty := sim.Trips.Time(v.Destin, req.Origin)
		extra := v.Arrive - sim.Now
		if extra < 0 {
			extra = 0
		}
		if best == taxisim.NoVehicle || empty < bestEmpty || (empty == bestEmpty && extra < bestExtra) {
			best = k
			bestEmpty = empty
			bestExtra = extra
		}
	}
	return best
}

// SNN is the "cheating" static nearest-neighbor baseline, allowed to
// retroactively move idle vehicles: it picks the lexicographic minimum of
// (wait, empty, -arrive) where wait = max(0, arrive_k + tripTime(destin_k,
// pax.origin) - pax.arrive), then updates the chosen vehicle directly and
// records the dispatch itself, bypassing the simulator's usual
// serveAndDispatch path — so it returns taxisim.NoVehicle.
type SNN struct{}

func (SNN) HandlePax(sim *taxisim.Sim, req paxstream.Request) int {
	best := -1
	var bestWait, bestEmpty int64
	var bestNegArrive int64
	for k, v := range sim.Vehicles {
		empty := int64(sim.Trips.Time(v.Destin, req.Origin))
		w := v.Arrive + empty - req.Arrive
		if w < 0 {
			w = 0
		}
		negArrive := -v.Arrive
		if best == -1 || less3(w, empty, negArrive, bestWait, bestEmpty, bestNegArrive) {
			best = k
			bestWait = w
			bestEmpty = empty
			bestNegArrive = negArrive
		}
	}
	if best == -1 {
		return taxisim.NoVehicle
	}

	v := &sim.Vehicles[best]
	pickup := req.Arrive
	if v.Arrive+bestEmpty > pickup {
		pickup = v.Arrive + bestEmpty
	}
	// Retroactively move: the empty leg's origin is wherever the vehicle
	// will in fact be coming from, but the vehicle's own Origin/Destin
	// fields must reflect the leg it ends up on, which starts at the
	// passenger's origin, not the vehicle's prior destination.
	emptyOrigin := v.Destin
	v.Origin = req.Origin
	v.Destin = req.Destin
	v.Arrive = pickup + int64(sim.Trips.Time(req.Origin, req.Destin))
	sim.Stats.RecordPaxServed(sim, req, best, pickup)
	sim.Proactive.HandlePaxServed(sim, emptyOrigin)
	return taxisim.NoVehicle
}

func less3(w1, e1, n1, w2, e2, n2 int64) bool {
	if w1 != w2 {
		return w1 < w2
	}
	if e1 != e2 {
		return e1 < e2
	}
	return n1 < n2
}
