package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionThrustUp) {
		t.Error("zero frame should have no actions")
	}

	f.Set(ActionThrustUp)
	f.Set(ActionThrustLeft)
	if !f.Has(ActionThrustUp) || !f.Has(ActionThrustLeft) {
		t.Error("Set actions should be reported by Has")
	}
	if f.Has(ActionThrustRight) {
		t.Error("unset action reported as set")
	}

	f.Clear()
	if f.Has(ActionThrustUp) || f.Has(ActionThrustLeft) {
		t.Error("Clear should drop all actions")
	}
}

func TestRuntimeConfigTimeStep(t *testing.T) {
	tests := []struct {
		rate     int
		expected float64
	}{
		{10, 0.1},
		{20, 0.05},
		{0, 0.1},
		{-5, 0.1},
	}

	for _, tc := range tests {
		cfg := RuntimeConfig{TickRate: tc.rate}
		if got := cfg.TimeStep(); got != tc.expected {
			t.Errorf("TimeStep() at %d Hz = %f, expected %f", tc.rate, got, tc.expected)
		}
	}
}
