package proactive

import (
	"sort"

	"github.com/jdleesmiller/si-taxi/mdpsim"
	"github.com/jdleesmiller/si-taxi/sarsa"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// MDPPolicy rebalances by consulting a trained tabular SARSA learner:
// every strobe, the live continuous-time fleet is snapshotted into a
// mdpsim.Sim (empty queues, since taxisim never actually queues requests),
// the learner's greedy action is looked up, and the resulting dispatch
// matrix is applied the same way DynamicTP applies its flow solution.
// Grounded on ext/si_taxi/bell_wong/mdp_policy.cpp's "look up the learned
// policy for the current state and dispatch it" shape.
type MDPPolicy struct {
	Learner *sarsa.Learner
}

// deriveMDPState snapshots sim's live vehicle positions into a fresh
// mdpsim.Sim with no queued requests: every vehicle becomes one entry in
// Inbound[v.Destin], valued at its actual arrival tick relative to sim.Now
// (vehicles already idle contribute a tick <= Now, same as mdpsim's own
// "available" convention).
func deriveMDPState(sim *taxisim.Sim) *mdpsim.Sim {
	n := sim.Trips.N()
	snap := &mdpsim.Sim{
		Trips:   sim.Trips,
		Queue:   make([][]mdpsim.Request, n),
		Inbound: make([][]int64, n),
		Now:     sim.Now,
	}
	for _, v := range sim.Vehicles {
		snap.Inbound[v.Destin] = append(snap.Inbound[v.Destin], v.Arrive)
	}
	for i := range snap.Inbound {
		sort.Slice(snap.Inbound[i], func(a, b int) bool { return snap.Inbound[i][a] < snap.Inbound[i][b] })
	}
	return snap
}

func (p *MDPPolicy) HandlePaxServed(*taxisim.Sim, int) {}
func (p *MDPPolicy) HandleIdle(*taxisim.Sim, int)      {}

func (p *MDPPolicy) HandleStrobe(sim *taxisim.Sim) {
	snap := deriveMDPState(sim)
	action := p.Learner.BestAction(snap)
	dispatchFlow(sim, action, false, "mdp-policy")
}
