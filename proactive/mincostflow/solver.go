package mincostflow

import "github.com/jdleesmiller/si-taxi/simerr"

// Solver builds a fresh source/sink min-cost flow instance on every call:
// negative demand[i] becomes a source->i arc (surplus available to move
// out of i), positive demand[i] becomes an i->sink arc (a deficit to be
// filled), and every i!=j pair gets a station->station arc at the given
// cost and capacity. The flow routed is the smaller of total surplus and
// total deficit, so whichever side is larger is only partly matched. It
// implements proactive.FlowSolver.
//
// Unlike the original C++ library's RELAX4-backed solver, which was a
// process-wide singleton, Solver carries no state between calls and so
// needs no such restriction — any number of proactive.DynamicTP handlers
// may each own one.
type Solver struct{}

// New returns a Solver. It has no configuration: capacity and cost are
// supplied per call to Solve.
func New() *Solver { return &Solver{} }

func (Solver) Solve(cost [][]int, demand []int, cap int) ([][]int, error) {
	n := len(demand)
	source, sink := n, n+1
	g := NewGraph(n + 2)

	edgeID := make([][]int, n)
	for i := range edgeID {
		edgeID[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			edgeID[i][j] = g.AddEdge(i, j, cap, cost[i][j])
		}
	}

	required, deficit := 0, 0
	for i, d := range demand {
		switch {
		case d < 0:
			g.AddEdge(source, i, -d, 0)
			required += -d
		case d > 0:
			g.AddEdge(i, sink, d, 0)
			deficit += d
		}
	}
	if deficit < required {
		required = deficit
	}

	flow, _, err := g.MinCostFlow(source, sink, required)
	if err != nil {
		return nil, err
	}
	if flow < required {
		return nil, simerr.New(simerr.Infeasible, "mincostflow: flow %d short of required %d", flow, required)
	}

	result := make([][]int, n)
	for i := range result {
		result[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			result[i][j] = g.EdgeFlow(edgeID[i][j])
		}
	}
	return result, nil
}
