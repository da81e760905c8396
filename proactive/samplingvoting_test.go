package proactive

import (
	"testing"

	"github.com/jdleesmiller/si-taxi/odmatrix"
	"github.com/jdleesmiller/si-taxi/paxstream"
	"github.com/jdleesmiller/si-taxi/simrand"
	"github.com/jdleesmiller/si-taxi/taxisim"
)

func TestBestVotedDestin_PicksArgmaxTieBrokenByDistance(t *testing.T) {
	sim := taxisim.New(taxisim.NewTripTimes([][]int{
		{0, 1, 2},
		{1, 0, 1},
		{2, 1, 0},
	}))
	sim.Init()

	votes := []int{0, 3, 3} // stations 1 and 2 tied on votes; 1 is closer
	got, ok := bestVotedDestin(sim, votes, 0)
	if !ok {
		t.Fatal("expected a vote winner")
	}
	if got != 1 {
		t.Fatalf("bestVotedDestin = %d, want 1 (tie broken by distance)", got)
	}
}

func TestBestVotedDestin_NoVotesReturnsFalse(t *testing.T) {
	sim := taxisim.New(taxisim.NewTripTimes([][]int{{0, 1}, {1, 0}}))
	sim.Init()

	_, ok := bestVotedDestin(sim, []int{0, 0}, 0)
	if ok {
		t.Fatal("expected no winner when every vote count is zero")
	}
}

func TestSamplingVoting_HandleStrobe_NoopWithoutIdleVehicles(t *testing.T) {
	trips := taxisim.NewTripTimes([][]int{{0, 1}, {1, 0}})
	sim := taxisim.New(trips)
	sim.Init()
	sim.Vehicles = []taxisim.Vehicle{{Origin: 0, Destin: 0, Arrive: 100}} // not idle yet

	od := odmatrix.New([][]float64{{0, 1}, {1, 0}})
	stream := paxstream.NewPoisson(od, simrand.New(1), 0)
	s := &SamplingVoting{NumSequences: 3, NumPax: 5, Stream: stream}

	s.HandleStrobe(sim) // should return immediately; must not panic

	if sim.Vehicles[0].Destin != 0 {
		t.Fatalf("expected vehicle untouched when not idle, got destin %d", sim.Vehicles[0].Destin)
	}
}

func TestSamplingVoting_HandleStrobe_KeepsIdleVehicleTrajectoryConsistent(t *testing.T) {
	trips := taxisim.NewTripTimes([][]int{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	})
	sim := taxisim.New(trips)
	sim.Init()
	sim.Vehicles = []taxisim.Vehicle{{Origin: 0, Destin: 0, Arrive: 0}}

	od := odmatrix.New([][]float64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	})
	stream := paxstream.NewPoisson(od, simrand.New(7), 0)
	s := &SamplingVoting{NumSequences: 5, NumPax: 10, Stream: stream}
	sim.Proactive = s

	s.HandleStrobe(sim) // must run without panicking across several rollouts

	if sim.Vehicles[0].Arrive < sim.Now {
		t.Fatalf("expected vehicle trajectory updated consistently, got arrive %d at now %d", sim.Vehicles[0].Arrive, sim.Now)
	}
}
