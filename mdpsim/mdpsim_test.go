package mdpsim

import (
	"testing"

	"github.com/jdleesmiller/si-taxi/taxisim"
)

func lineTrips() *taxisim.TripTimes {
	return taxisim.NewTripTimes([][]int{
		{0, 2, 3},
		{2, 0, 1},
		{3, 1, 0},
	})
}

func zeroMatrix(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

func TestNew_SeedsInboundAtTickZero(t *testing.T) {
	s := New(lineTrips(), []int{2, 0, 1})
	if got := s.FleetSize(); got != 3 {
		t.Fatalf("FleetSize() = %d, want 3", got)
	}
	if len(s.Inbound[0]) != 2 || len(s.Inbound[1]) != 0 || len(s.Inbound[2]) != 1 {
		t.Fatalf("unexpected inbound seeding: %v", s.Inbound)
	}
	for _, t0 := range s.Inbound[0] {
		if t0 != 0 {
			t.Fatalf("expected seeded vehicles available at tick 0, got %d", t0)
		}
	}
}

func TestTick_ServesQueueBeforeApplyingActionOrArrivals(t *testing.T) {
	s := New(lineTrips(), []int{1, 0, 0})
	s.Queue[0] = []Request{{Origin: 0, Destin: 1}}

	reward := s.Tick(zeroMatrix(3), nil)

	// the queued request should have been served using the one available
	// vehicle before the reward was computed, so queue backlog is 0, not -1.
	if reward != 0 {
		t.Fatalf("reward = %v, want 0 (queue drained before reward)", reward)
	}
	if len(s.Queue[0]) != 0 {
		t.Fatalf("expected queue at 0 drained, got %v", s.Queue[0])
	}
	if len(s.Inbound[1]) != 1 {
		t.Fatalf("expected vehicle now en route to station 1, got %v", s.Inbound)
	}
}

func TestTick_RewardReflectsUnservedBacklog(t *testing.T) {
	s := New(lineTrips(), []int{0, 0, 0}) // no vehicles available anywhere
	s.Queue[0] = []Request{{Origin: 0, Destin: 1}, {Origin: 0, Destin: 2}}

	reward := s.Tick(zeroMatrix(3), nil)

	if reward != -2 {
		t.Fatalf("reward = %v, want -2 (two requests stuck in queue)", reward)
	}
}

func TestTick_AppliesActionBeforeAdmittingArrivals(t *testing.T) {
	s := New(lineTrips(), []int{1, 0, 0})
	action := zeroMatrix(3)
	action[0][1] = 1 // dispatch the one available vehicle empty to station 1

	arrivals := []Request{{Origin: 0, Destin: 2}}
	s.Tick(action, arrivals)

	// the action consumed the only available vehicle at 0, so the new
	// arrival at 0 must be queued rather than served.
	if len(s.Queue[0]) != 1 {
		t.Fatalf("expected new arrival queued after action exhausted availability, got queue %v", s.Queue[0])
	}
	if len(s.Inbound[1]) != 1 {
		t.Fatalf("expected dispatched vehicle en route to 1, got %v", s.Inbound)
	}
}

func TestTick_AdvancesNow(t *testing.T) {
	s := New(lineTrips(), []int{1, 1, 1})
	if s.Now != 0 {
		t.Fatalf("Now = %d, want 0 initially", s.Now)
	}
	s.Tick(zeroMatrix(3), nil)
	if s.Now != 1 {
		t.Fatalf("Now = %d, want 1 after one Tick", s.Now)
	}
}

func TestTick_TruncatesQueueToQueueMax(t *testing.T) {
	s := New(lineTrips(), []int{0, 0, 0})
	s.QueueMax = 1
	arrivals := []Request{{Origin: 0, Destin: 1}, {Origin: 0, Destin: 2}}

	s.Tick(zeroMatrix(3), arrivals)

	if len(s.Queue[0]) != 1 {
		t.Fatalf("expected queue truncated to QueueMax=1, got %d entries", len(s.Queue[0]))
	}
}

func TestState_ReturnsConsistentBlockLengths(t *testing.T) {
	s := New(lineTrips(), []int{2, 1, 0})
	s.Queue[1] = []Request{{Origin: 1, Destin: 2}}

	queueLengths, inboundCounts, remaining := s.State()

	if len(queueLengths) != 3 || queueLengths[1] != 1 {
		t.Fatalf("queueLengths = %v, want [0 1 0]", queueLengths)
	}
	if len(inboundCounts) != 3 || inboundCounts[0] != 2 || inboundCounts[1] != 1 {
		t.Fatalf("inboundCounts = %v, want [2 1 0]", inboundCounts)
	}
	if len(remaining) != s.FleetSize() {
		t.Fatalf("remaining has %d entries, want %d (fleet size)", len(remaining), s.FleetSize())
	}
}

func TestIdleCounts_OnlyCountsArrivedVehicles(t *testing.T) {
	s := New(lineTrips(), []int{1, 0, 0})
	action := zeroMatrix(3)
	action[0][1] = 1
	s.Tick(action, nil) // vehicle now en route to 1, arriving at tick 0+2=2

	idle := s.IdleCounts()
	if idle[1] != 0 {
		t.Fatalf("IdleCounts()[1] = %d, want 0 (vehicle still in transit)", idle[1])
	}

	s.Tick(zeroMatrix(3), nil)
	idle = s.IdleCounts()
	if idle[1] != 1 {
		t.Fatalf("IdleCounts()[1] = %d, want 1 (vehicle should have arrived by tick 2)", idle[1])
	}
}
