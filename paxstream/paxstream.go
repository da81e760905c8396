// Package paxstream provides passenger request streams: a Poisson source
// wrapping an odmatrix.Matrix, and a deterministic finite stream of fixed
// (origin, destin, arrive) triples for tests, with a rebasable offset.
// Grounded on sim/workload/arrival.go's ArrivalSampler family
// (PoissonSampler's rng.ExpFloat64()-based interarrival draw), adapted from
// a single-client inter-arrival model to the OD matrix's joint
// (origin,destin,interval) draw.
package paxstream

import (
	"math"

	"github.com/jdleesmiller/si-taxi/odmatrix"
	"github.com/jdleesmiller/si-taxi/simerr"
	"github.com/jdleesmiller/si-taxi/simrand"
)

// Request is an ephemeral passenger request, consumed by the reactive
// handler on delivery.
type Request struct {
	Origin int
	Destin int
	Arrive int64
}

// Stream produces a sequence of passenger requests.
type Stream interface {
	// Next returns the next request. A deterministic stream returns
	// simerr.ErrStreamExhausted once drained past what it was given.
	Next() (Request, error)
}

// Poisson draws (origin, destin) from an odmatrix.Matrix's trip-probability
// sampler and interarrival gaps from the matrix's aggregate rate, via the
// standard exponential-interarrival construction for a Poisson process
// (same draw shape as PoissonSampler.SampleIAT: rng.ExpFloat64() scaled by
// the rate), but drawing a joint (origin,destin) on each arrival instead of
// assigning it to a single fixed client.
type Poisson struct {
	od  *odmatrix.Matrix
	rng simrand.Source
	now int64
}

// NewPoisson creates a Poisson stream over od, with the first arrival drawn
// relative to startAt.
func NewPoisson(od *odmatrix.Matrix, rng simrand.Source, startAt int64) *Poisson {
	return &Poisson{od: od, rng: rng, now: startAt}
}

// RebaseTo resets the stream's clock to t without otherwise altering its
// state — used by the sampling-and-voting handler to restart a rollout
// stream at the simulator's current time.
func (p *Poisson) RebaseTo(t int64) {
	p.now = t
}

// Next draws the next request. Interarrival gaps are exponential with mean
// od.ExpectedInterarrival(); rounds to the nearest integer tick, with a
// floor of 1 so two requests never land on the same tick by construction
// (mirrors PoissonSampler's floor of 1 microsecond).
func (p *Poisson) Next() (Request, error) {
	mean := p.od.ExpectedInterarrival()
	gap := -mean * math.Log(1-p.rng.Float64())
	iat := int64(math.Round(gap))
	if iat < 1 {
		iat = 1
	}
	p.now += iat
	origin, destin := p.od.SampleTrip(p.rng)
	return Request{Origin: origin, Destin: destin, Arrive: p.now}, nil
}

// Deterministic replays a fixed, finite slice of requests, offset by a
// rebasable base time. Used for unit/scenario tests where exact dispatch
// outcomes must be reproducible without relying on RNG behavior.
type Deterministic struct {
	base     []Request
	offset   int64
	position int
}

// NewDeterministic builds a Deterministic stream from requests, whose
// Arrive fields are interpreted relative to base time 0 until RebaseTo is
// called.
func NewDeterministic(requests []Request) *Deterministic {
	cp := make([]Request, len(requests))
	copy(cp, requests)
	return &Deterministic{base: cp}
}

// RebaseTo shifts every remaining request's Arrive time by offset, without
// rewinding position — matches the sampling-and-voting handler's need to
// "reset the rollout stream to now" without replaying already-consumed
// requests.
func (d *Deterministic) RebaseTo(offset int64) {
	d.offset = offset
}

// Next returns the next request with the current offset applied, or
// simerr.ErrStreamExhausted if the stream has been drained further than it
// was provided.
func (d *Deterministic) Next() (Request, error) {
	if d.position >= len(d.base) {
		return Request{}, simerr.ErrStreamExhausted
	}
	r := d.base[d.position]
	d.position++
	r.Arrive += d.offset
	return r, nil
}

// Remaining returns the count of requests not yet consumed.
func (d *Deterministic) Remaining() int {
	return len(d.base) - d.position
}

// Reset rewinds the stream to its first request and clears any rebase
// offset.
func (d *Deterministic) Reset() {
	d.position = 0
	d.offset = 0
}
