package ports

import (
	"context"

	"qcsim/domain/core"
	"qcsim/domain/run"
)

// Ledger persists run manifests and trajectories. The manifest is written
// before any trajectory point so a stored run can always be replayed.
type Ledger interface {
	// PutManifest stores the manifest for a run
	PutManifest(ctx context.Context, manifest *run.Manifest) error

	// Manifest retrieves a stored manifest
	Manifest(ctx context.Context, runID core.RunID) (*run.Manifest, error)

	// Append records trajectory points for a run in step order
	Append(ctx context.Context, runID core.RunID, points ...run.TrajectoryPoint) error

	// Trajectory returns a run's recorded points ordered by step
	Trajectory(ctx context.Context, runID core.RunID) ([]run.TrajectoryPoint, error)

	// Runs lists all stored run IDs
	Runs(ctx context.Context) ([]core.RunID, error)
}
