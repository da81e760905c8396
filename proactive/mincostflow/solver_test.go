package mincostflow

import "testing"

func TestSolver_MatchesSurplusToDeficit(t *testing.T) {
	cost := [][]int{
		{0, 1, 9},
		{1, 0, 1},
		{9, 1, 0},
	}
	demand := []int{-2, 0, 2} // station 0 has 2 surplus, station 2 needs 2
	flow, err := New().Solve(cost, demand, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// direct 0->2 costs 9/unit; 0->1->2 costs 1+1=2/unit, so the solver
	// should prefer relaying through station 1 rather than going direct.
	if flow[0][2] != 0 {
		t.Errorf("expected no direct 0->2 flow, got %d", flow[0][2])
	}
	if flow[0][1]+flow[0][2] != 2 {
		t.Errorf("expected 2 units total to leave station 0, got %d", flow[0][1]+flow[0][2])
	}
}

func TestSolver_NoFlowWhenBalanced(t *testing.T) {
	cost := [][]int{
		{0, 1},
		{1, 0},
	}
	demand := []int{0, 0}
	flow, err := New().Solve(cost, demand, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range flow {
		for j := range flow[i] {
			if flow[i][j] != 0 {
				t.Fatalf("flow[%d][%d] = %d, want 0 (no demand)", i, j, flow[i][j])
			}
		}
	}
}

func TestSolver_InfeasibleWhenCapacityTooLow(t *testing.T) {
	cost := [][]int{
		{0, 1},
		{1, 0},
	}
	demand := []int{-5, 5}
	_, err := New().Solve(cost, demand, 1) // cap 1 < required 5
	if err == nil {
		t.Fatal("expected infeasibility error when arc capacity can't carry required flow")
	}
}
