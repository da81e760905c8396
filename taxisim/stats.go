package taxisim

import (
	"github.com/jdleesmiller/si-taxi/histogram"
	"github.com/jdleesmiller/si-taxi/paxstream"
)

// NoopStats implements StatsSink by recording nothing — the default when a
// run needs no reporting overhead.
type NoopStats struct{}

func (NoopStats) RecordTimeStep(*Sim)                                              {}
func (NoopStats) RecordPaxServed(*Sim, paxstream.Request, int, int64)              {}

// MeanWaitStats tracks only the running mean passenger wait (pickup -
// arrive), the lightest-weight stats sink.
type MeanWaitStats struct {
	count int64
	sum   int64
}

func (m *MeanWaitStats) RecordTimeStep(*Sim) {}

func (m *MeanWaitStats) RecordPaxServed(_ *Sim, req paxstream.Request, _ int, pickup int64) {
	m.count++
	m.sum += pickup - req.Arrive
}

// MeanWait returns the running mean passenger wait, or 0 if no passengers
// have been served.
func (m *MeanWaitStats) MeanWait() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.count)
}

// PerStationHistogramStats tracks a time-step histogram of how many stations
// have at least one idle vehicle, and an OD histogram of passenger waits.
// Idle-vehicle counts are not broken down per station.
type PerStationHistogramStats struct {
	QueueLength *histogram.Natural // per-tick number of stations with at least one idle vehicle
	Wait        *histogram.OD      // wait time histogram, indexed by (origin, destin)
}

// NewPerStationHistogramStats allocates histograms sized for n stations.
func NewPerStationHistogramStats(n int) *PerStationHistogramStats {
	return &PerStationHistogramStats{
		QueueLength: &histogram.Natural{},
		Wait:        histogram.NewOD(n),
	}
}

func (p *PerStationHistogramStats) RecordTimeStep(sim *Sim) {
	idle := 0
	for i := 0; i < sim.Trips.N(); i++ {
		if sim.IdleVehAt(i) != NoVehicle {
			idle++
		}
	}
	p.QueueLength.Add(idle)
}

func (p *PerStationHistogramStats) RecordPaxServed(_ *Sim, req paxstream.Request, _ int, pickup int64) {
	wait := int(pickup - req.Arrive)
	p.Wait.Add(req.Origin, req.Destin, wait)
}

// RawRecord is one recorded passenger dispatch, for RawRecorderStats.
type RawRecord struct {
	Origin  int
	Destin  int
	Arrive  int64
	Pickup  int64
	Vehicle int
}

// RawRecorderStats records every passenger dispatch verbatim. Intended for
// tests and offline analysis, not for long production runs (unbounded
// memory growth).
type RawRecorderStats struct {
	Records []RawRecord
}

func (r *RawRecorderStats) RecordTimeStep(*Sim) {}

func (r *RawRecorderStats) RecordPaxServed(_ *Sim, req paxstream.Request, vehicle int, pickup int64) {
	r.Records = append(r.Records, RawRecord{
		Origin:  req.Origin,
		Destin:  req.Destin,
		Arrive:  req.Arrive,
		Pickup:  pickup,
		Vehicle: vehicle,
	})
}
