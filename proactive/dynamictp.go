package proactive

import (
	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/simlog"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// FlowSolver is the pluggable min-cost flow oracle DynamicTP depends on,
// treating the min-cost flow solve as an oracle. cost[i][j]
// is the per-unit cost of moving one vehicle from i to j (i != j); demand
// is per-station net requirement (negative = surplus available to move
// out, positive = deficit that must be filled); cap bounds every
// station-to-station arc. Solve returns flow[i][j] >= 0 for i != j, or an
// error if no feasible flow exists.
type FlowSolver interface {
	Solve(cost [][]int, demand []int, cap int) ([][]int, error)
}

// DynamicTP rebalances idle vehicles by repeatedly solving a min-cost flow
// instance over the station graph: a station's net requirement is the gap
// between its inbound vehicle count and its target, clamped by how many
// vehicles are actually idle there to move. Triggered on every dispatch,
// idle event, and strobe.
//
// Each DynamicTP owns its own Solver. The original C++ library kept a
// single process-wide RELAX4 instance and documented at most one
// dynamic-TP handler existing at a time as a result; since this solver is
// stateless per call, that restriction is lifted here by construction
// rather than carried forward as a documented wart.
type DynamicTP struct {
	Solver  FlowSolver
	Targets []int
}

func (d *DynamicTP) redistribute(sim *taxisim.Sim) {
	n := sim.Trips.N()
	demand := make([]int, n)
	any := false
	for i := 0; i < n; i++ {
		demand[i] = -min(sim.NumVehiclesInbound(i)-d.Targets[i], sim.NumVehiclesIdleBy(i, sim.Now))
		if demand[i] != 0 {
			any = true
		}
	}
	if !any {
		return
	}

	cost := make([][]int, n)
	for i := 0; i < n; i++ {
		cost[i] = make([]int, n)
		for j := 0; j < n; j++ {
			cost[i][j] = sim.Trips.Time(i, j)
		}
	}

	arcCap := 100 * len(sim.Vehicles)
	flow, err := d.Solver.Solve(cost, demand, arcCap)
	if err != nil {
		simlog.Infeasible("dynamic-tp", err.Error())
		panic(simerr.New(simerr.Infeasible, "proactive: dynamic-TP solve failed despite uncapacitated construction: %v", err))
	}

	dispatchFlow(sim, flow, true, "dynamic-tp")
}

// dispatchFlow dispatches flow[i][j] idle vehicles empty from i to j for
// every i!=j with a positive entry, shared by DynamicTP and MDPPolicy
// since both reduce to "dispatch this flow matrix" once their respective
// oracle (min-cost flow solve, greedy Q lookup) has chosen it. If strict,
// a station with positive flow but no idle vehicle is a precondition
// violation (DynamicTP's uncapacitated construction guarantees this can't
// happen); MDPPolicy passes strict=false since its source snapshot can go
// slightly stale between derivation and dispatch as vehicles are moved.
// component names the caller for simlog.Dispatch's debug trail.
func dispatchFlow(sim *taxisim.Sim, flow [][]int, strict bool, component string) {
	n := len(flow)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			for c := 0; c < flow[i][j]; c++ {
				k := sim.IdleVehAt(i)
				if k == taxisim.NoVehicle {
					simerr.Require(!strict, "proactive: flow %d->%d but no idle vehicle at %d", i, j, i)
					break
				}
				sim.MoveEmpty(k, j)
				simlog.Dispatch(component, i, j, "flow")
			}
		}
	}
}

func (d *DynamicTP) HandlePaxServed(sim *taxisim.Sim, _ int) { d.redistribute(sim) }
func (d *DynamicTP) HandleIdle(sim *taxisim.Sim, _ int)      { d.redistribute(sim) }
func (d *DynamicTP) HandleStrobe(sim *taxisim.Sim)           { d.redistribute(sim) }
