// Package sarsa implements the tabular SARSA learner that trains against
// mdpsim.Sim: state/action vectors hashed into a table of value estimates,
// updated on-policy one tick at a time. Grounded on
// niceyeti-tabular/reinforcement/learning.go's map-of-vector Q-table
// shape, adapted from its race-track grid world to mdpsim's queue/inbound
// state and flattened-dispatch-matrix action space.
package sarsa

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/jdleesmiller/si-taxi/mdpsim"
	"github.com/jdleesmiller/si-taxi/simrand"
	"github.com/jdleesmiller/si-taxi/simutil"
)

// Learner is a tabular SARSA(0) learner. Alpha is the learning rate,
// Gamma the discount factor, Epsilon the exploration probability.
type Learner struct {
	Alpha   float64
	Gamma   float64
	Epsilon float64
	RNG     simrand.Source

	table sync.Map // string -> *atomicFloat
}

// NewLearner returns an empty learner.
func NewLearner(alpha, gamma, epsilon float64, rng simrand.Source) *Learner {
	return &Learner{Alpha: alpha, Gamma: gamma, Epsilon: epsilon, RNG: rng}
}

func (l *Learner) get(key string) (float64, bool) {
	v, ok := l.table.Load(key)
	if !ok {
		return 0, false
	}
	return v.(*atomicFloat).Load(), true
}

func (l *Learner) set(key string, value float64) {
	if v, ok := l.table.Load(key); ok {
		v.(*atomicFloat).Store(value)
		return
	}
	actual, loaded := l.table.LoadOrStore(key, newAtomicFloat(value))
	if loaded {
		actual.(*atomicFloat).Store(value)
	}
}

// StateVector assembles the SARSA state vector:
// queue_lengths (N), inbound_counts (N), remaining_times_flat (fleet_size),
// concatenated in that order.
func StateVector(sim *mdpsim.Sim) []int64 {
	queue, inbound, remaining := sim.State()
	out := make([]int64, 0, len(queue)+len(inbound)+len(remaining))
	for _, v := range queue {
		out = append(out, int64(v))
	}
	for _, v := range inbound {
		out = append(out, int64(v))
	}
	out = append(out, remaining...)
	return out
}

// FlattenAction flattens an N×N action matrix row-major, diagonal
// included (always zero by construction).
func FlattenAction(m simutil.Matrix) []int {
	out := make([]int, 0, len(m)*len(m))
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

// encodeKey produces a stable byte-string key from a (state, action) pair,
// suitable for use as a map key: each int64/int is written little-endian,
// state and action blocks separated by a sentinel byte that cannot appear
// inside either encoded block's alignment (blocks are always a multiple of
// 8 bytes, so the sentinel's position alone disambiguates the boundary).
func encodeKey(state []int64, action []int) string {
	buf := make([]byte, 0, 8*(len(state)+len(action))+1)
	var tmp [8]byte
	for _, v := range state {
		binary.LittleEndian.PutUint64(tmp[:], uint64(v))
		buf = append(buf, tmp[:]...)
	}
	buf = append(buf, 0xFF)
	for _, v := range action {
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(v)))
		buf = append(buf, tmp[:]...)
	}
	return string(buf)
}

// greedyAction enumerates every feasible action matrix for sim's current
// idle-vehicle counts and returns the one maximizing Q(state, ·); unseen
// entries default to 0, since no reward is observable for an action that
// has not actually been applied (the "default to r(s,a)" rule applies
// only to the (s,a) pair just executed in Step, where r(s,a) is
// already in hand from sim.Tick's return value).
func (l *Learner) greedyAction(sim *mdpsim.Sim, state []int64) simutil.Matrix {
	limits := sim.IdleCounts()
	n := len(limits)
	var best simutil.Matrix
	bestQ := math.Inf(-1)
	simutil.EnumerateRowBoundedMatrices(n, limits, func(m simutil.Matrix) {
		q, ok := l.get(encodeKey(state, FlattenAction(m)))
		if !ok {
			q = 0
		}
		if best == nil || q > bestQ {
			best = m.Clone()
			bestQ = q
		}
	})
	return best
}

// uniformAction picks uniformly among every feasible action matrix via
// reservoir sampling, so the full set never needs to be materialized.
func (l *Learner) uniformAction(sim *mdpsim.Sim) simutil.Matrix {
	limits := sim.IdleCounts()
	n := len(limits)
	var chosen simutil.Matrix
	count := 0
	simutil.EnumerateRowBoundedMatrices(n, limits, func(m simutil.Matrix) {
		count++
		if l.RNG.Float64() < 1.0/float64(count) {
			chosen = m.Clone()
		}
	})
	return chosen
}

// SelectAction implements pi_epsilon(state): with probability Epsilon,
// pick a feasible action uniformly at random; otherwise pick the one
// maximizing Q(state, ·).
func (l *Learner) SelectAction(sim *mdpsim.Sim, state []int64) simutil.Matrix {
	if l.RNG.Float64() < l.Epsilon {
		return l.uniformAction(sim)
	}
	return l.greedyAction(sim, state)
}

// BestAction is SelectAction with no exploration — the greedy policy a
// trained learner hands to proactive.MDPPolicy.
func (l *Learner) BestAction(sim *mdpsim.Sim) simutil.Matrix {
	return l.greedyAction(sim, StateVector(sim))
}

// Step executes one control tick: applies action from state, observes the
// resulting state and reward, selects the next action via pi_epsilon, and
// folds the SARSA update into the table. Returns the next state/action
// pair so the caller can feed them into the following Step call.
func (l *Learner) Step(sim *mdpsim.Sim, state []int64, action simutil.Matrix, arrivals []mdpsim.Request) ([]int64, simutil.Matrix) {
	reward := sim.Tick(action, arrivals)
	nextState := StateVector(sim)
	nextAction := l.SelectAction(sim, nextState)

	key := encodeKey(state, FlattenAction(action))
	nextKey := encodeKey(nextState, FlattenAction(nextAction))

	current, ok := l.get(key)
	if !ok {
		current = reward
	}
	nextQ, _ := l.get(nextKey)

	updated := current + l.Alpha*(reward+l.Gamma*nextQ-current)
	l.set(key, updated)

	return nextState, nextAction
}
