package proactive

import (
	"github.com/jdleesmiller/si-taxi/odmatrix"
	"github.com/jdleesmiller/si-taxi/simlog"
	"github.com/jdleesmiller/si-taxi/simutil"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

// SurplusDeficit is a simpler, non-configurable relative of Andreasson: it
// sorts stations by descending idle-vehicle count and, for each with at
// least one idle vehicle and surplus >= 1, sends one idle vehicle to the
// nearest station in deficit. Surplus is fixed as
// num_vehicles_inbound(i) - call_time(i)*rate_from(i), with no Andreasson-
// style configuration flags.
type SurplusDeficit struct {
	OD *odmatrix.Matrix
}

func (s *SurplusDeficit) surplus(sim *taxisim.Sim, i int) float64 {
	return float64(sim.NumVehiclesInbound(i)) - sim.CallTimes.CallTime(i)*s.OD.RateFrom(i)
}

func idleCounts(sim *taxisim.Sim) []int {
	n := sim.Trips.N()
	counts := make([]int, n)
	for _, v := range sim.Vehicles {
		if v.IdleAt(v.Destin, sim.Now) {
			counts[v.Destin]++
		}
	}
	return counts
}

// nearestDeficit returns the station j with surplus(j) < 0 nearest to i by
// trip time, or false if no station is in deficit.
func (s *SurplusDeficit) nearestDeficit(sim *taxisim.Sim, i int) (int, bool) {
	n := sim.Trips.N()
	best, bestDist := -1, 0
	for j := 0; j < n; j++ {
		if j == i || s.surplus(sim, j) >= 0 {
			continue
		}
		dist := sim.Trips.Time(i, j)
		if best == -1 || dist < bestDist {
			best, bestDist = j, dist
		}
	}
	return best, best != -1
}

func (s *SurplusDeficit) rebalanceFrom(sim *taxisim.Sim, i int) {
	if s.surplus(sim, i) < 1 {
		return
	}
	k := sim.IdleVehAt(i)
	if k == taxisim.NoVehicle {
		return
	}
	if j, ok := s.nearestDeficit(sim, i); ok {
		sim.MoveEmpty(k, j)
		simlog.Dispatch("surplus-deficit", i, j, "rebalance")
	}
}

func (s *SurplusDeficit) HandlePaxServed(*taxisim.Sim, int) {}

// HandleIdle applies the rebalancing rule only to the newly idle vehicle's
// own station.
func (s *SurplusDeficit) HandleIdle(sim *taxisim.Sim, vehicle int) {
	s.rebalanceFrom(sim, sim.Vehicles[vehicle].Destin)
}

// HandleStrobe applies the rebalancing rule to every station with at least
// one idle vehicle, visited in descending order of idle-vehicle count.
func (s *SurplusDeficit) HandleStrobe(sim *taxisim.Sim) {
	counts := idleCounts(sim)
	order := simutil.SortPermutation(len(counts), func(a, b int) bool {
		return counts[a] > counts[b]
	})
	for _, i := range order {
		if counts[i] < 1 {
			continue
		}
		s.rebalanceFrom(sim, i)
	}
}
