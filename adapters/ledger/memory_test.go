package ledger

import (
	"context"
	"errors"
	"testing"

	"qcsim/domain/core"
	"qcsim/domain/run"
)

func testManifest(runID core.RunID) *run.Manifest {
	return run.NewManifest(runID, 8, 4, map[string]int64{"control": 1}, "test")
}

func TestMemoryManifestRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	manifest := testManifest("run-a")
	if err := mem.PutManifest(ctx, manifest); err != nil {
		t.Fatalf("PutManifest: %v", err)
	}

	got, err := mem.Manifest(ctx, "run-a")
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if got.Fingerprint != manifest.Fingerprint {
		t.Errorf("fingerprint mismatch: %s vs %s", got.Fingerprint, manifest.Fingerprint)
	}

	if _, err := mem.Manifest(ctx, "missing"); !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("missing run: %v", err)
	}
}

func TestMemoryRejectsInvalidManifest(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	bad := testManifest("run-a")
	bad.Steps = 0
	if err := mem.PutManifest(ctx, bad); err == nil {
		t.Error("invalid manifest accepted")
	}
}

func TestMemoryAppendRequiresManifest(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	point := run.TrajectoryPoint{Step: 0, Stream: "control", Draw: 0.5, Branch: run.BranchPrimary, Gate: "reset", Site: 0}
	if err := mem.Append(ctx, "run-a", point); !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("append before manifest: %v", err)
	}
	if _, err := mem.Trajectory(ctx, "run-a"); !errors.Is(err, core.ErrRunNotFound) {
		t.Errorf("trajectory before manifest: %v", err)
	}
}

func TestMemoryTrajectoryOrderedByStep(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	if err := mem.PutManifest(ctx, testManifest("run-a")); err != nil {
		t.Fatalf("PutManifest: %v", err)
	}

	for _, step := range []int{2, 0, 3, 1} {
		point := run.TrajectoryPoint{Step: step, Stream: "control", Branch: run.BranchPrimary, Gate: "reset", Site: step}
		if err := mem.Append(ctx, "run-a", point); err != nil {
			t.Fatalf("Append step %d: %v", step, err)
		}
	}

	points, err := mem.Trajectory(ctx, "run-a")
	if err != nil {
		t.Fatalf("Trajectory: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}
	for i, p := range points {
		if p.Step != i {
			t.Errorf("point %d has step %d", i, p.Step)
		}
	}
}

func TestMemoryRunsSorted(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	for _, id := range []core.RunID{"run-c", "run-a", "run-b"} {
		if err := mem.PutManifest(ctx, testManifest(id)); err != nil {
			t.Fatalf("PutManifest %s: %v", id, err)
		}
	}

	ids, err := mem.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	want := []core.RunID{"run-a", "run-b", "run-c"}
	if len(ids) != len(want) {
		t.Fatalf("got %d runs, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}
