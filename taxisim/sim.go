// Package taxisim implements the continuous-time (integer-tick) simulator:
// the core vehicle state, time advance, reactive handoff, and stats hooks.
// Grounded structurally on
// sim/cluster/event_heap.go's deterministic tie-break ordering and
// sim/cluster/simulator.go's per-tick loop shape, adapted from a
// priority-heap event model to a simpler fixed per-integer-tick model
// (no continuous-time event queue).
package taxisim

import (
	"github.com/jdleesmiller/si-taxi/calltime"
	"github.com/jdleesmiller/si-taxi/paxstream"
	"github.com/jdleesmiller/si-taxi/simerr"
)

// Sim is the continuous-time simulator. It owns the vehicle list, the
// call-time tracker, the attached handlers, and the stats sink; handlers
// hold only a non-owning reference to Sim passed into each callback.
type Sim struct {
	Trips     *TripTimes
	Vehicles  []Vehicle
	CallTimes *calltime.Tracker
	Reactive  ReactiveHandler
	Proactive ProactiveHandler
	Stats     StatsSink

	// Strobe is the period, in ticks, at which HandleStrobe fires. Zero
	// disables strobing.
	Strobe int64

	Now int64
}

// New constructs a Sim over the given trip-time matrix. Reactive, Proactive,
// and Stats may be set after construction; Proactive and Stats default to
// no-ops if left nil when Init is called.
func New(trips *TripTimes) *Sim {
	return &Sim{
		Trips:     trips,
		CallTimes: calltime.New(ttAsSlice(trips)),
	}
}

func ttAsSlice(t *TripTimes) [][]int {
	n := t.N()
	out := make([][]int, n)
	for i := 0; i < n; i++ {
		out[i] = make([]int, n)
		for j := 0; j < n; j++ {
			out[i][j] = t.Time(i, j)
		}
	}
	return out
}

// Init zeroes the clock and clears the call-time tracker. A nil Proactive or
// Stats handler is replaced with a no-op; handlers already attached keep
// their state.
// The vehicle list is caller-managed: Init does not touch it.
func (s *Sim) Init() {
	s.Now = 0
	s.CallTimes.Reset(ttAsSlice(s.Trips))
	if s.Proactive == nil {
		s.Proactive = NoopProactive{}
	}
	if s.Stats == nil {
		s.Stats = NoopStats{}
	}
}

// AddVehiclesInTurn appends n vehicles, each initially parked at a
// different station starting from start, cycling through stations.
func (s *Sim) AddVehiclesInTurn(n int, start int) {
	nStations := s.Trips.N()
	for i := 0; i < n; i++ {
		station := (start + i) % nStations
		s.Vehicles = append(s.Vehicles, Vehicle{Origin: station, Destin: station, Arrive: s.Now})
	}
}

// ParkVehiclesInTurn resets existing vehicles to be idle at successive
// stations starting from start, cycling, with Arrive set to now.
func (s *Sim) ParkVehiclesInTurn(start int) {
	nStations := s.Trips.N()
	for i := range s.Vehicles {
		station := (start + i) % nStations
		s.Vehicles[i] = Vehicle{Origin: station, Destin: station, Arrive: s.Now}
	}
}

// IdleVehAt returns the lowest-index idle vehicle at station i, or
// NoVehicle.
func (s *Sim) IdleVehAt(i int) int {
	for k, v := range s.Vehicles {
		if v.IdleAt(i, s.Now) {
			return k
		}
	}
	return NoVehicle
}

// NumVehiclesInbound counts vehicles whose Destin == i, regardless of
// whether they are on their last leg.
func (s *Sim) NumVehiclesInbound(i int) int {
	n := 0
	for _, v := range s.Vehicles {
		if v.Destin == i {
			n++
		}
	}
	return n
}

// NumVehiclesImmediatelyInbound additionally requires the vehicle to be on
// its last leg toward i: Arrive <= now + tripTime(origin, i).
func (s *Sim) NumVehiclesImmediatelyInbound(i int) int {
	n := 0
	for _, v := range s.Vehicles {
		if v.Destin != i {
			continue
		}
		if v.Arrive <= s.Now+int64(s.Trips.Time(v.Origin, i)) {
			n++
		}
	}
	return n
}

// NumVehiclesIdleBy counts vehicles with Destin == i and Arrive <= t.
func (s *Sim) NumVehiclesIdleBy(i int, t int64) int {
	n := 0
	for _, v := range s.Vehicles {
		if v.Destin == i && v.Arrive <= t {
			n++
		}
	}
	return n
}

// MoveEmpty records an empty trip from vehicle k's current destination to
// destin, updating the call-time tracker if the trip is non-trivial
// (origin != destin).
func (s *Sim) MoveEmpty(k int, destin int) {
	v := &s.Vehicles[k]
	origin := v.Destin
	v.assign(s.Now, destin, s.Trips.Time)
	if origin != destin {
		s.CallTimes.Observe(destin, s.Trips.Time(origin, destin))
	}
}

// serveAndDispatch applies a reactive handler's chosen vehicle to req,
// updates the vehicle's trajectory (an empty leg to req.Origin followed by
// the occupied leg to req.Destin), then invokes HandlePaxServed.
func (s *Sim) serveAndDispatch(req paxstream.Request, k int) {
	v := &s.Vehicles[k]
	emptyOrigin := v.Destin
	pickup := v.serve(s.Now, req.Origin, req.Destin, s.Trips.Time)
	s.Stats.RecordPaxServed(s, req, k, pickup)
	s.Proactive.HandlePaxServed(s, emptyOrigin)
}

// HandlePax advances the clock to req.Arrive, invokes the reactive handler,
// and — if it returns a vehicle index rather than NoVehicle — serves the
// request through that vehicle.
func (s *Sim) HandlePax(req paxstream.Request) {
	simerr.Require(req.Arrive >= s.Now, "taxisim: request arrives at %d, before current time %d", req.Arrive, s.Now)
	s.RunTo(req.Arrive)

	k := s.Reactive.HandlePax(s, req)
	if k == NoVehicle {
		return
	}
	simerr.Require(k >= 0 && k < len(s.Vehicles), "taxisim: reactive handler returned out-of-range vehicle %d", k)
	s.serveAndDispatch(req, k)
}

// HandlePaxStream pulls and processes n requests from stream.
func (s *Sim) HandlePaxStream(n int, stream paxstream.Stream) error {
	for i := 0; i < n; i++ {
		req, err := stream.Next()
		if err != nil {
			return err
		}
		s.HandlePax(req)
	}
	return nil
}

// RunTo advances the clock to t, one integer tick at a time. For each tick:
// record stats, fire HandleIdle for each vehicle arriving exactly now (in
// ascending vehicle index order), fire HandleStrobe if due, then advance.
// Idle events precede strobe events within a tick; the reactive handler that
// processes the pax event at time t only runs after RunTo(t) returns, so it
// observes state that already reflects every idle and strobe callback for
// tick t.
func (s *Sim) RunTo(t int64) {
	simerr.Require(t >= s.Now, "taxisim: RunTo(%d) before current time %d", t, s.Now)
	for s.Now < t {
		s.Stats.RecordTimeStep(s)
		for k, v := range s.Vehicles {
			if v.Arrive == s.Now {
				s.Proactive.HandleIdle(s, k)
			}
		}
		if s.Strobe > 0 && s.Now%s.Strobe == 0 {
			s.Proactive.HandleStrobe(s)
		}
		s.Now++
	}
}
