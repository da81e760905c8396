package proactive

import (
	"github.com/jdleesmiller/si-taxi/paxstream"
	"github.com/jdleesmiller/si-taxi/reactive"
	"github.com/jdleesmiller/si-taxi/simlog"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// rollableStream is a paxstream.Stream that can be rebased to a new start
// time — both paxstream.Poisson and paxstream.Deterministic satisfy this.
type rollableStream interface {
	paxstream.Stream
	RebaseTo(int64)
}

// SamplingVoting rebalances by Monte Carlo rollout: for each originally
// idle station, it runs NumSequences independent replays of NumPax
// requests through the SNN heuristic against a cloned fleet, and tallies
// which destination each station's vehicle ends up serving first. This is
// the most expensive proactive handler by far, so it is wired to
// HandleStrobe only; HandlePaxServed and HandleIdle firing a full Monte
// Carlo rollout on every single dispatch would make even modest fleets
// impractical to simulate.
type SamplingVoting struct {
	NumSequences int
	NumPax       int
	Stream       rollableStream

	// scratch is the reused clone buffer, reset rather than reallocated
	// per rollout.
	scratch []taxisim.Vehicle
}

// rolloutCapture observes a rollout Sim's dispatches by standing in for
// both its StatsSink and ProactiveHandler — SNN calls both directly since
// it bypasses the simulator's usual serve-and-dispatch path.
type rolloutCapture struct {
	vehicle     int
	emptyOrigin int
	req         paxstream.Request
	seen        bool
}

func (c *rolloutCapture) RecordTimeStep(*taxisim.Sim) {}

func (c *rolloutCapture) RecordPaxServed(_ *taxisim.Sim, req paxstream.Request, vehicle int, _ int64) {
	c.vehicle = vehicle
	c.req = req
	c.seen = true
}

func (c *rolloutCapture) HandleIdle(*taxisim.Sim, int) {}
func (c *rolloutCapture) HandleStrobe(*taxisim.Sim)    {}
func (c *rolloutCapture) HandlePaxServed(_ *taxisim.Sim, emptyOrigin int) {
	c.emptyOrigin = emptyOrigin
}

func (s *SamplingVoting) HandlePaxServed(*taxisim.Sim, int) {}
func (s *SamplingVoting) HandleIdle(*taxisim.Sim, int)      {}

func (s *SamplingVoting) HandleStrobe(sim *taxisim.Sim) {
	n := sim.Trips.N()
	idle := make([]bool, n)
	anyIdle := false
	for i := 0; i < n; i++ {
		if sim.IdleVehAt(i) != taxisim.NoVehicle {
			idle[i] = true
			anyIdle = true
		}
	}
	if !anyIdle {
		return
	}

	actionHist := make([][]int, n)
	for i := range actionHist {
		actionHist[i] = make([]int, n)
	}

	if cap(s.scratch) < len(sim.Vehicles) {
		s.scratch = make([]taxisim.Vehicle, len(sim.Vehicles))
	}
	clone := s.scratch[:len(sim.Vehicles)]

	for seq := 0; seq < s.NumSequences; seq++ {
		s.runSequence(sim, clone, idle, actionHist)
	}

	for i := 0; i < n; i++ {
		if !idle[i] {
			continue
		}
		destin, ok := bestVotedDestin(sim, actionHist[i], i)
		if !ok {
			continue
		}
		if k := sim.IdleVehAt(i); k != taxisim.NoVehicle {
			sim.MoveEmpty(k, destin)
			simlog.Dispatch("sampling-voting", i, destin, "vote")
		}
	}
}

// runSequence plays one rollout and tallies its vote into actionHist.
func (s *SamplingVoting) runSequence(sim *taxisim.Sim, clone []taxisim.Vehicle, idle []bool, actionHist [][]int) {
	n := sim.Trips.N()
	copy(clone, sim.Vehicles)
	for i := range clone {
		if clone[i].Arrive > sim.Now {
			clone[i].Arrive = sim.Now
		}
	}
	s.Stream.RebaseTo(sim.Now)

	capture := &rolloutCapture{}
	// CallTimes is deliberately left nil: SNN never reads it, and leaving
	// it unset avoids any risk of a future change accidentally leaking
	// rollout-only state into the real simulator's learned call times.
	rollout := &taxisim.Sim{
		Trips:     sim.Trips,
		Vehicles:  clone,
		Reactive:  reactive.SNN{},
		Proactive: capture,
		Stats:     capture,
		Now:       sim.Now,
	}

	firstIdleNonTrivial := make([]int, n)
	firstAnyNonTrivial := make([]int, n)
	trivialSeen := make([]bool, n)
	for i := range firstIdleNonTrivial {
		firstIdleNonTrivial[i] = -1
		firstAnyNonTrivial[i] = -1
	}

	remaining := 0
	for i := 0; i < n; i++ {
		if idle[i] {
			remaining++
		}
	}

	preArrive := make([]int64, len(clone))
	for p := 0; p < s.NumPax && remaining > 0; p++ {
		req, err := s.Stream.Next()
		if err != nil {
			break
		}
		for idx, v := range rollout.Vehicles {
			preArrive[idx] = v.Arrive
		}
		capture.seen = false
		rollout.Reactive.HandlePax(rollout, req)
		if !capture.seen {
			continue
		}
		i := capture.emptyOrigin
		if !idle[i] {
			continue
		}
		nonTrivial := req.Origin != i
		wasIdle := preArrive[capture.vehicle] <= rollout.Now
		switch {
		case wasIdle && nonTrivial && firstIdleNonTrivial[i] == -1:
			firstIdleNonTrivial[i] = req.Destin
			remaining--
		case !nonTrivial:
			trivialSeen[i] = true
		case firstAnyNonTrivial[i] == -1:
			firstAnyNonTrivial[i] = req.Destin
		}
	}

	for i := 0; i < n; i++ {
		if !idle[i] {
			continue
		}
		var destin int
		switch {
		case firstIdleNonTrivial[i] != -1:
			destin = firstIdleNonTrivial[i]
		case trivialSeen[i]:
			destin = i
		case firstAnyNonTrivial[i] != -1:
			destin = firstAnyNonTrivial[i]
		default:
			destin = i
		}
		actionHist[i][destin]++
	}
}

// bestVotedDestin returns argmax_j votes[j], ties broken by minimum
// trip_time(i,j); false if no votes were cast at all (shouldn't happen,
// since every station always gets a "stay" vote in the worst case, but
// defends against a zero-sequence configuration).
func bestVotedDestin(sim *taxisim.Sim, votes []int, i int) (int, bool) {
	best, bestVotes, bestDist := -1, -1, 0
	for j, v := range votes {
		if v == 0 {
			continue
		}
		dist := sim.Trips.Time(i, j)
		if v > bestVotes || (v == bestVotes && dist < bestDist) {
			best, bestVotes, bestDist = j, v, dist
		}
	}
	return best, best != -1
}
