// Package mdpsim implements the coarser discrete-time simulator used to
// train and evaluate the tabular SARSA policy: one tick is one action plus
// one batch of arrivals, rather than the continuous-time simulator's
// per-integer-tick vehicle tracking. Grounded structurally on
// taxisim.Sim's tick-ordering contract, reduced to a simpler
// queue/inbound-deque state.
package mdpsim

import (
	"sort"

	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// Request is a queued or arriving trip request in the coarse model — just
// an origin/destin pair, with no arrival timestamp (time only advances in
// whole ticks here).
type Request struct {
	Origin, Destin int
}

// Sim is the discrete-time MDP simulator. Queue holds, per station, a FIFO
// of unserved requests; Inbound holds, per station, the sorted
// non-decreasing tick at which each vehicle currently en route there will
// arrive (a value <= Now means the vehicle is already available).
type Sim struct {
	Trips   *taxisim.TripTimes
	Queue   [][]Request
	Inbound [][]int64

	// QueueMax truncates queues to this length at the end of each tick if
	// positive; zero means unbounded. A policy-compatibility aid so a
	// fixed-size state vector stays fixed-size even under
	// persistent oversubscription.
	QueueMax int

	Now int64

	// LastReward is the reward computed by the most recent Tick call:
	// -sum(queue lengths) after queued requests were served but before the
	// new action and arrivals are applied.
	LastReward float64
}

// New builds a Sim over trips, with fleetAtStation[i] vehicles initially
// available at station i.
func New(trips *taxisim.TripTimes, fleetAtStation []int) *Sim {
	n := trips.N()
	simerr.Require(len(fleetAtStation) == n, "mdpsim: fleetAtStation has %d entries, want %d", len(fleetAtStation), n)
	s := &Sim{
		Trips:   trips,
		Queue:   make([][]Request, n),
		Inbound: make([][]int64, n),
	}
	for i, count := range fleetAtStation {
		simerr.Require(count >= 0, "mdpsim: negative fleet count at station %d", i)
		for k := 0; k < count; k++ {
			s.Inbound[i] = append(s.Inbound[i], 0)
		}
	}
	return s
}

// FleetSize returns the total vehicle count, summed across every
// station's inbound deque. Constant across the simulation's lifetime (the
// MDP's fleet-conservation invariant).
func (s *Sim) FleetSize() int {
	total := 0
	for _, inbound := range s.Inbound {
		total += len(inbound)
	}
	return total
}

// move pops count entries from the head of Inbound[i] (all of which must
// already have arrived, value <= Now) and inserts count copies of
// Now+trip_time(i,j) into Inbound[j], preserving sort order.
func (s *Sim) move(i, j, count int) {
	simerr.Require(count <= len(s.Inbound[i]), "mdpsim: move(%d,%d,%d) but only %d inbound at %d", i, j, count, len(s.Inbound[i]), i)
	for k := 0; k < count; k++ {
		simerr.Require(s.Inbound[i][k] <= s.Now, "mdpsim: move(%d,%d) before vehicle arrives (%d > %d)", i, j, s.Inbound[i][k], s.Now)
	}
	s.Inbound[i] = s.Inbound[i][count:]
	arrive := s.Now + int64(s.Trips.Time(i, j))
	for k := 0; k < count; k++ {
		s.Inbound[j] = insertSorted(s.Inbound[j], arrive)
	}
}

func insertSorted(xs []int64, v int64) []int64 {
	idx := sort.Search(len(xs), func(i int) bool { return xs[i] >= v })
	xs = append(xs, 0)
	copy(xs[idx+1:], xs[idx:])
	xs[idx] = v
	return xs
}

// Tick advances the simulator by one step: serve what the existing fleet
// can serve from the queue, compute the reward from the resulting backlog,
// apply the controller's action matrix M, then admit new arrivals — in
// that fixed order.
func (s *Sim) Tick(M [][]int, arrivals []Request) float64 {
	n := s.Trips.N()
	available := make([]int, n)
	for i := 0; i < n; i++ {
		c := 0
		for _, t := range s.Inbound[i] {
			if t > s.Now {
				break
			}
			c++
		}
		available[i] = c
	}

	for i := 0; i < n; i++ {
		for available[i] > 0 && len(s.Queue[i]) > 0 {
			p := s.Queue[i][0]
			s.Queue[i] = s.Queue[i][1:]
			s.move(p.Origin, p.Destin, 1)
			available[p.Origin]--
		}
	}

	reward := 0.0
	for i := 0; i < n; i++ {
		reward -= float64(len(s.Queue[i]))
	}
	s.LastReward = reward

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || M[i][j] <= 0 {
				continue
			}
			simerr.Require(M[i][j] <= available[i], "mdpsim: action dispatches %d from %d but only %d available", M[i][j], i, available[i])
			s.move(i, j, M[i][j])
			available[i] -= M[i][j]
		}
	}

	for _, p := range arrivals {
		if available[p.Origin] > 0 {
			s.move(p.Origin, p.Destin, 1)
			available[p.Origin]--
		} else {
			s.Queue[p.Origin] = append(s.Queue[p.Origin], p)
		}
	}

	if s.QueueMax > 0 {
		for i := 0; i < n; i++ {
			if len(s.Queue[i]) > s.QueueMax {
				s.Queue[i] = s.Queue[i][:s.QueueMax]
			}
		}
	}

	s.Now++
	return reward
}

// State returns the three blocks the SARSA state vector concatenates:
// per-station queue lengths, per-station inbound vehicle counts, and the
// flattened list of every inbound vehicle's remaining ticks until arrival
// (station-major order), whose total length equals FleetSize().
func (s *Sim) State() (queueLengths []int, inboundCounts []int, remaining []int64) {
	n := s.Trips.N()
	queueLengths = make([]int, n)
	inboundCounts = make([]int, n)
	for i := 0; i < n; i++ {
		queueLengths[i] = len(s.Queue[i])
		inboundCounts[i] = len(s.Inbound[i])
		for _, t := range s.Inbound[i] {
			remaining = append(remaining, t-s.Now)
		}
	}
	return
}

// IdleCounts returns, per station, the number of inbound vehicles already
// available (Inbound[i] entries <= Now) — the per-station bound used when
// enumerating feasible action matrices (row sums <= idle counts).
func (s *Sim) IdleCounts() []int {
	n := s.Trips.N()
	idle := make([]int, n)
	for i := 0; i < n; i++ {
		for _, t := range s.Inbound[i] {
			if t > s.Now {
				break
			}
			idle[i]++
		}
	}
	return idle
}
