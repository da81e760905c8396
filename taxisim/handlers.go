package taxisim

import "github.com/jdleesmiller/si-taxi/paxstream"

// NoVehicle is the sentinel vehicle index meaning "no vehicle": returned by
// IdleVehAt when no vehicle is idle at a station, and usable by a
// ReactiveHandler to mean "I already handled this myself" (the SNN cheating
// baseline updates the vehicle directly and returns NoVehicle so the
// simulator does not redundantly apply serve_pax).
const NoVehicle = -1

// ReactiveHandler selects a vehicle to serve an incoming passenger request.
// Implementations are a closed family (NN, ETNN, SNN, H1, H2) represented as
// distinct small types rather than a deep inheritance hierarchy: each is
// self-contained and the set is fixed at build time.
type ReactiveHandler interface {
	// HandlePax returns the chosen vehicle index, or NoVehicle if the
	// handler already updated the vehicle itself (the SNN baseline).
	HandlePax(sim *Sim, req paxstream.Request) int
}

// ProactiveHandler decides when and where idle vehicles are repositioned
// empty. The simulator invokes these callbacks at fixed points in its
// time-advance algorithm: HandleIdle for each vehicle whose
// arrival matches the current tick, HandleStrobe periodically, and
// HandlePaxServed right after a reactive dispatch completes.
type ProactiveHandler interface {
	HandleIdle(sim *Sim, vehicle int)
	HandleStrobe(sim *Sim)
	HandlePaxServed(sim *Sim, emptyOrigin int)
}

// NoopProactive implements ProactiveHandler by doing nothing — the default
// when a simulation run has no rebalancing policy attached.
type NoopProactive struct{}

func (NoopProactive) HandleIdle(*Sim, int)       {}
func (NoopProactive) HandleStrobe(*Sim)          {}
func (NoopProactive) HandlePaxServed(*Sim, int)  {}

// StatsSink observes simulation events for reporting. Implementations range
// from a no-op to a full per-passenger recorder (see stats.go in this package).
type StatsSink interface {
	// RecordTimeStep is called once per integer tick, before idle/strobe
	// callbacks, with the per-station idle-vehicle queue length implied by
	// the simulator's current vehicle state.
	RecordTimeStep(sim *Sim)
	// RecordPaxServed is called once a passenger's dispatch is finalized:
	// the vehicle's trajectory has already been updated.
	RecordPaxServed(sim *Sim, req paxstream.Request, vehicle int, pickup int64)
}
