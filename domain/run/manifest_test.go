package run

import (
	"testing"

	"qcsim/domain/core"
)

func TestFingerprintIsStable(t *testing.T) {
	seeds := map[string]int64{"control": 1, "measurement": 2}

	a := ComputeFingerprint(16, 256, seeds, "v1")
	b := ComputeFingerprint(16, 256, map[string]int64{"measurement": 2, "control": 1}, "v1")
	if !a.Equals(b) {
		t.Error("fingerprint depends on map order")
	}

	variants := []core.Hash{
		ComputeFingerprint(17, 256, seeds, "v1"),
		ComputeFingerprint(16, 257, seeds, "v1"),
		ComputeFingerprint(16, 256, map[string]int64{"control": 3, "measurement": 2}, "v1"),
		ComputeFingerprint(16, 256, seeds, "v2"),
	}
	for i, v := range variants {
		if a.Equals(v) {
			t.Errorf("variant %d shares the base fingerprint", i)
		}
	}
}

func TestNewManifestCopiesSeeds(t *testing.T) {
	seeds := map[string]int64{"control": 1}
	m := NewManifest("run-1", 8, 10, seeds, "v1")

	seeds["control"] = 99
	if m.Seeds["control"] != 1 {
		t.Error("manifest shares the caller's seed map")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("valid manifest rejected: %v", err)
	}
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"empty run id", func(m *Manifest) { m.RunID = "" }},
		{"zero ring size", func(m *Manifest) { m.RingSize = 0 }},
		{"zero steps", func(m *Manifest) { m.Steps = 0 }},
		{"no seeds", func(m *Manifest) { m.Seeds = nil }},
		{"empty fingerprint", func(m *Manifest) { m.Fingerprint = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManifest("run-1", 8, 10, map[string]int64{"control": 1}, "v1")
			tt.mutate(m)
			if err := m.Validate(); err == nil {
				t.Error("invalid manifest accepted")
			}
		})
	}
}

func TestTrajectoryHelpers(t *testing.T) {
	points := []TrajectoryPoint{
		{Step: 0, Branch: BranchPrimary, Observable: 0.25},
		{Step: 1, Branch: BranchNone, Site: NoSite, Observable: 0.25},
		{Step: 2, Branch: BranchAlternate, Observable: 0.5},
	}

	if got := CountApplied(points); got != 2 {
		t.Errorf("CountApplied = %d, want 2", got)
	}

	obs := Observables(points)
	want := []float64{0.25, 0.25, 0.5}
	for i := range want {
		if obs[i] != want[i] {
			t.Errorf("Observables[%d] = %v, want %v", i, obs[i], want[i])
		}
	}
}
