package circuit

import "testing"

func TestGateDescriptors(t *testing.T) {
	tests := []struct {
		gate      Gate
		wantName  string
		wantArity int
	}{
		{Identity, "identity", 1},
		{Reset, "reset", 1},
		{HaarRandom, "haar_random", 2},
		{Projection{Outcome: 0}, "projection_0", 1},
		{Projection{Outcome: 1}, "projection_1", 1},
	}

	for _, tt := range tests {
		if got := tt.gate.Name(); got != tt.wantName {
			t.Errorf("Name() = %q, want %q", got, tt.wantName)
		}
		if got := tt.gate.Arity(); got != tt.wantArity {
			t.Errorf("%s: Arity() = %d, want %d", tt.wantName, got, tt.wantArity)
		}
	}
}

func TestProjectionValidate(t *testing.T) {
	if err := (Projection{Outcome: 1}).Validate(); err != nil {
		t.Errorf("valid projection rejected: %v", err)
	}
	if err := (Projection{Outcome: 2}).Validate(); err == nil {
		t.Error("out-of-range projection accepted")
	}
}

func TestActionValidate(t *testing.T) {
	fwd, _ := NewStaircase(4, Forward, 0)

	if err := (Action{Gate: Reset, Geometry: fwd}).Validate(); err != nil {
		t.Errorf("complete action rejected: %v", err)
	}
	if err := (Action{Geometry: fwd}).Validate(); err == nil {
		t.Error("action without gate accepted")
	}
	if err := (Action{Gate: Reset}).Validate(); err == nil {
		t.Error("action without geometry accepted")
	}
}
