// Package mincostflow implements a successive-shortest-augmenting-path
// min-cost flow solver over container/heap, grounded on
// sim/cluster/event_heap.go's container/heap wrapper idiom. It exists so
// proactive.DynamicTP can treat the flow solve as a pluggable oracle
// (proactive.FlowSolver) rather than depend on a specific numerical
// package: no example in the corpus imports a third-party min-cost-flow or
// general LP library, so this is hand-rolled on the standard library's
// heap, the same way a hand-rolled event-ordering heap would be.
package mincostflow

import (
	"container/heap"
	"math"

	"github.com/jdleesmiller/si-taxi/simerr"
)

type edge struct {
	to, cap, flow, cost int
}

// Graph is a directed graph with paired forward/reverse arcs, suitable for
// residual-graph min-cost flow. Edge id e's reverse arc is always e^1.
type Graph struct {
	n     int
	adj   [][]int
	edges []edge
}

// NewGraph allocates a graph over n nodes.
func NewGraph(n int) *Graph {
	return &Graph{n: n, adj: make([][]int, n)}
}

// AddEdge adds a forward arc u->v with the given capacity and cost, plus an
// implicit zero-capacity reverse arc, and returns the forward arc's id.
func (g *Graph) AddEdge(u, v, cap, cost int) int {
	id := len(g.edges)
	g.edges = append(g.edges, edge{to: v, cap: cap, cost: cost})
	g.adj[u] = append(g.adj[u], id)
	g.edges = append(g.edges, edge{to: u, cap: 0, cost: -cost})
	g.adj[v] = append(g.adj[v], id+1)
	return id
}

// EdgeFlow returns the flow currently assigned to edge id (set by
// MinCostFlow).
func (g *Graph) EdgeFlow(id int) int { return g.edges[id].flow }

type pqItem struct {
	node, dist int
}

type priorityQueue []pqItem

func (p priorityQueue) Len() int            { return len(p) }
func (p priorityQueue) Less(i, j int) bool  { return p[i].dist < p[j].dist }
func (p priorityQueue) Swap(i, j int)       { p[i], p[j] = p[j], p[i] }
func (p *priorityQueue) Push(x interface{}) { *p = append(*p, x.(pqItem)) }
func (p *priorityQueue) Pop() interface{} {
	old := *p
	n := len(old)
	item := old[n-1]
	*p = old[:n-1]
	return item
}

const infinity = math.MaxInt32

// MinCostFlow sends up to `required` units of flow from source to sink at
// minimum cost, using Dijkstra with Johnson potentials to keep reduced
// costs non-negative as reverse arcs open up. Returns the flow actually
// achieved and its total cost; an error if source cannot reach sink at all,
// or if less than `required` flow is achievable.
func (g *Graph) MinCostFlow(source, sink, required int) (int, int, error) {
	potential := make([]int, g.n)
	totalFlow, totalCost := 0, 0

	for totalFlow < required {
		dist := make([]int, g.n)
		prevEdge := make([]int, g.n)
		visited := make([]bool, g.n)
		for i := range dist {
			dist[i] = infinity
			prevEdge[i] = -1
		}
		dist[source] = 0

		pq := &priorityQueue{{node: source, dist: 0}}
		for pq.Len() > 0 {
			cur := heap.Pop(pq).(pqItem)
			u := cur.node
			if visited[u] {
				continue
			}
			visited[u] = true
			for _, eid := range g.adj[u] {
				e := g.edges[eid]
				if e.cap-e.flow <= 0 {
					continue
				}
				reduced := e.cost + potential[u] - potential[e.to]
				nd := dist[u] + reduced
				if nd < dist[e.to] {
					dist[e.to] = nd
					prevEdge[e.to] = eid
					heap.Push(pq, pqItem{node: e.to, dist: nd})
				}
			}
		}

		if dist[sink] == infinity {
			if totalFlow == 0 {
				return 0, 0, simerr.New(simerr.Infeasible, "mincostflow: no path from %d to %d", source, sink)
			}
			return totalFlow, totalCost, simerr.New(simerr.Infeasible, "mincostflow: only %d of %d required flow achievable", totalFlow, required)
		}
		for i := 0; i < g.n; i++ {
			if dist[i] < infinity {
				potential[i] += dist[i]
			}
		}

		addFlow := required - totalFlow
		pathCost := 0
		for v := sink; v != source; {
			eid := prevEdge[v]
			e := g.edges[eid]
			if avail := e.cap - e.flow; avail < addFlow {
				addFlow = avail
			}
			pathCost += e.cost
			v = g.edges[eid^1].to
		}
		for v := sink; v != source; {
			eid := prevEdge[v]
			g.edges[eid].flow += addFlow
			g.edges[eid^1].flow -= addFlow
			v = g.edges[eid^1].to
		}
		totalFlow += addFlow
		totalCost += addFlow * pathCost
	}

	return totalFlow, totalCost, nil
}
