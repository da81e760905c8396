// Package scenario loads a complete simulation setup — trip-time matrix, OD
// rate matrix, fleet placement, handler selection, pax stream, and stats
// sink — from a single YAML fixture, and assembles it into a ready-to-run
// taxisim.Sim. Grounded on sim/workload/spec.go's LoadWorkloadSpec: strict
// field decoding via yaml.v3's KnownFields, a flat Validate pass with a
// table of valid-value registries, and parse/validate errors returned
// rather than panicked (caller-supplied data, not a programmer error —
// see simerr's error-vs-panic convention).
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jdleesmiller/si-taxi/odmatrix"
	"github.com/jdleesmiller/si-taxi/paxstream"
	"github.com/jdleesmiller/si-taxi/proactive"
	"github.com/jdleesmiller/si-taxi/proactive/mincostflow"
	"github.com/jdleesmiller/si-taxi/reactive"
	"github.com/jdleesmiller/si-taxi/sarsa"
	"github.com/jdleesmiller/si-taxi/simrand"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// Scenario is the top-level fixture format.
type Scenario struct {
	Seed      int64          `yaml:"seed"`
	TripTimes [][]int        `yaml:"trip_times"`
	ODRates   [][]float64    `yaml:"od_rates"`
	Fleet     FleetSpec      `yaml:"fleet"`
	Strobe    int64          `yaml:"strobe,omitempty"`
	Reactive  ReactiveSpec   `yaml:"reactive"`
	Proactive *ProactiveSpec `yaml:"proactive,omitempty"`
	Stream    StreamSpec     `yaml:"stream"`
	Stats     StatsSpec      `yaml:"stats"`
}

// FleetSpec places a fleet of Count vehicles in turn across stations,
// starting at StartStation.
type FleetSpec struct {
	Count        int `yaml:"count"`
	StartStation int `yaml:"start_station,omitempty"`
}

// ReactiveSpec selects and parameterizes a reactive dispatch handler.
type ReactiveSpec struct {
	Type    string  `yaml:"type"`
	Alpha   float64 `yaml:"alpha,omitempty"`
	Horizon float64 `yaml:"horizon,omitempty"`
}

// ProactiveSpec selects and parameterizes a proactive rebalancing handler.
// Fields not relevant to the chosen Type are ignored.
type ProactiveSpec struct {
	Type string `yaml:"type"`

	// andreasson
	Targets                []int `yaml:"targets,omitempty"`
	SurplusThreshold       int   `yaml:"surplus_threshold,omitempty"`
	ImmediateInboundOnly   bool  `yaml:"immediate_inbound_only,omitempty"`
	UseCallTimesForInbound bool  `yaml:"use_call_times_for_inbound,omitempty"`
	UseCallTimesForTargets bool  `yaml:"use_call_times_for_targets,omitempty"`
	SendWhenOver           bool  `yaml:"send_when_over,omitempty"`
	CallOnlyFromSurplus    bool  `yaml:"call_only_from_surplus,omitempty"`

	// sampling_voting
	NumSequences int `yaml:"num_sequences,omitempty"`
	NumPax       int `yaml:"num_pax,omitempty"`

	// mdp_policy
	Alpha   float64 `yaml:"alpha,omitempty"`
	Gamma   float64 `yaml:"gamma,omitempty"`
	Epsilon float64 `yaml:"epsilon,omitempty"`
}

// StreamSpec selects and parameterizes a pax request stream.
type StreamSpec struct {
	Type     string          `yaml:"type"` // "poisson" or "deterministic"
	Requests []RequestRecord `yaml:"requests,omitempty"`
}

// RequestRecord is one deterministic-stream entry.
type RequestRecord struct {
	Arrive int64 `yaml:"arrive"`
	Origin int   `yaml:"origin"`
	Destin int   `yaml:"destin"`
}

// StatsSpec selects a stats sink.
type StatsSpec struct {
	Type string `yaml:"type"` // "noop", "mean_wait", "histogram", "raw"
}

var (
	validReactiveTypes = map[string]bool{
		"nn": true, "etnn": true, "snn": true, "h1": true, "h2": true,
	}
	validProactiveTypes = map[string]bool{
		"": true, "andreasson": true, "dynamic_tp": true, "surplus_deficit": true,
		"sampling_voting": true, "mdp_policy": true,
	}
	validStreamTypes = map[string]bool{"poisson": true, "deterministic": true}
	validStatsTypes  = map[string]bool{"noop": true, "mean_wait": true, "histogram": true, "raw": true}
)

// Load reads and parses a YAML scenario file, rejecting unrecognized keys.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every field names a recognized handler/stream/stats
// type and that structural sizes are consistent.
func (s *Scenario) Validate() error {
	n := len(s.TripTimes)
	if n == 0 {
		return fmt.Errorf("trip_times: empty matrix")
	}
	if len(s.ODRates) != n {
		return fmt.Errorf("od_rates: %d rows, want %d", len(s.ODRates), n)
	}
	if s.Fleet.Count <= 0 {
		return fmt.Errorf("fleet.count must be positive, got %d", s.Fleet.Count)
	}
	if !validReactiveTypes[s.Reactive.Type] {
		return fmt.Errorf("reactive.type %q unknown; valid: nn, etnn, snn, h1, h2", s.Reactive.Type)
	}
	if s.Proactive != nil && !validProactiveTypes[s.Proactive.Type] {
		return fmt.Errorf("proactive.type %q unknown; valid: andreasson, dynamic_tp, surplus_deficit, sampling_voting, mdp_policy", s.Proactive.Type)
	}
	if !validStreamTypes[s.Stream.Type] {
		return fmt.Errorf("stream.type %q unknown; valid: poisson, deterministic", s.Stream.Type)
	}
	if s.Stream.Type == "deterministic" && len(s.Stream.Requests) == 0 {
		return fmt.Errorf("stream.type deterministic requires at least one request")
	}
	if !validStatsTypes[s.Stats.Type] {
		return fmt.Errorf("stats.type %q unknown; valid: noop, mean_wait, histogram, raw", s.Stats.Type)
	}
	return nil
}

// Build assembles a ready-to-run taxisim.Sim, its pax stream, and the
// top-level RNG from s. The RNG is a single process-wide stream shared by
// OD sampling, Poisson interarrival, and any handler that
// samples (sampling_voting's rollouts on the rebased pax stream, mdp_policy's
// epsilon-greedy exploration), so all of them draw from the same seeded source.
func (s *Scenario) Build() (*taxisim.Sim, paxstream.Stream, error) {
	trips := taxisim.NewTripTimes(s.TripTimes)
	od := odmatrix.New(s.ODRates)
	rng := simrand.New(s.Seed)

	sim := taxisim.New(trips)
	sim.AddVehiclesInTurn(s.Fleet.Count, s.Fleet.StartStation)
	sim.Strobe = s.Strobe

	reactiveHandler, err := buildReactive(&s.Reactive, trips, od)
	if err != nil {
		return nil, nil, err
	}
	sim.Reactive = reactiveHandler

	stream, err := buildStream(&s.Stream, od, rng)
	if err != nil {
		return nil, nil, err
	}

	if s.Proactive != nil {
		proactiveHandler, err := buildProactive(s.Proactive, od, trips, rng, stream)
		if err != nil {
			return nil, nil, err
		}
		sim.Proactive = proactiveHandler
	}

	sim.Stats = buildStats(&s.Stats, trips.N())
	sim.Init()

	return sim, stream, nil
}

func buildReactive(r *ReactiveSpec, trips *taxisim.TripTimes, od *odmatrix.Matrix) (taxisim.ReactiveHandler, error) {
	switch r.Type {
	case "nn":
		return reactive.NN{}, nil
	case "etnn":
		return reactive.ETNN{}, nil
	case "snn":
		return reactive.SNN{}, nil
	case "h1":
		return reactive.NewH1(r.Alpha, trips, od), nil
	case "h2":
		return &reactive.H2{Alpha: r.Alpha, Horizon: r.Horizon}, nil
	default:
		return nil, fmt.Errorf("reactive.type %q unknown", r.Type)
	}
}

func buildProactive(p *ProactiveSpec, od *odmatrix.Matrix, trips *taxisim.TripTimes, rng simrand.Source, stream paxstream.Stream) (taxisim.ProactiveHandler, error) {
	switch p.Type {
	case "andreasson":
		threshold := p.SurplusThreshold
		if threshold == 0 {
			threshold = proactive.DefaultSurplusThreshold
		}
		return &proactive.Andreasson{
			OD:                     od,
			Targets:                p.Targets,
			SurplusThreshold:       threshold,
			ImmediateInboundOnly:   p.ImmediateInboundOnly,
			UseCallTimesForInbound: p.UseCallTimesForInbound,
			UseCallTimesForTargets: p.UseCallTimesForTargets,
			SendWhenOver:           p.SendWhenOver,
			CallOnlyFromSurplus:    p.CallOnlyFromSurplus,
		}, nil
	case "dynamic_tp":
		return &proactive.DynamicTP{Solver: mincostflow.New(), Targets: p.Targets}, nil
	case "surplus_deficit":
		return &proactive.SurplusDeficit{OD: od}, nil
	case "sampling_voting":
		roll, ok := stream.(interface {
			paxstream.Stream
			RebaseTo(int64)
		})
		if !ok {
			return nil, fmt.Errorf("proactive.type sampling_voting requires a rebaseable stream (use stream.type poisson)")
		}
		return &proactive.SamplingVoting{NumSequences: p.NumSequences, NumPax: p.NumPax, Stream: roll}, nil
	case "mdp_policy":
		learner := sarsa.NewLearner(p.Alpha, p.Gamma, p.Epsilon, rng)
		return &proactive.MDPPolicy{Learner: learner}, nil
	default:
		return nil, fmt.Errorf("proactive.type %q unknown", p.Type)
	}
}

func buildStream(spec *StreamSpec, od *odmatrix.Matrix, rng simrand.Source) (paxstream.Stream, error) {
	switch spec.Type {
	case "poisson":
		return paxstream.NewPoisson(od, rng, 0), nil
	case "deterministic":
		requests := make([]paxstream.Request, len(spec.Requests))
		for i, r := range spec.Requests {
			requests[i] = paxstream.Request{Arrive: r.Arrive, Origin: r.Origin, Destin: r.Destin}
		}
		return paxstream.NewDeterministic(requests), nil
	default:
		return nil, fmt.Errorf("stream.type %q unknown", spec.Type)
	}
}

func buildStats(spec *StatsSpec, n int) taxisim.StatsSink {
	switch spec.Type {
	case "mean_wait":
		return &taxisim.MeanWaitStats{}
	case "histogram":
		return taxisim.NewPerStationHistogramStats(n)
	case "raw":
		return &taxisim.RawRecorderStats{}
	default:
		return taxisim.NoopStats{}
	}
}
