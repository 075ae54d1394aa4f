package ledger

import (
	"context"
	"sort"
	"sync"

	"qcsim/domain/core"
	"qcsim/domain/run"
	"qcsim/ports"
)

// Memory is an in-memory ledger. Within a run writes are sequential, but
// the ledger itself is shared across runs and read by the HTTP surface,
// so it locks.
type Memory struct {
	mu           sync.RWMutex
	manifests    map[core.RunID]*run.Manifest
	trajectories map[core.RunID][]run.TrajectoryPoint
}

// NewMemory creates an empty in-memory ledger
func NewMemory() *Memory {
	return &Memory{
		manifests:    make(map[core.RunID]*run.Manifest),
		trajectories: make(map[core.RunID][]run.TrajectoryPoint),
	}
}

var _ ports.Ledger = (*Memory)(nil)

// PutManifest stores the manifest for a run
func (m *Memory) PutManifest(ctx context.Context, manifest *run.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifests[manifest.RunID] = manifest
	return nil
}

// Manifest retrieves a stored manifest
func (m *Memory) Manifest(ctx context.Context, runID core.RunID) (*run.Manifest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	manifest, ok := m.manifests[runID]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	return manifest, nil
}

// Append records trajectory points for a run
func (m *Memory) Append(ctx context.Context, runID core.RunID, points ...run.TrajectoryPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.manifests[runID]; !ok {
		return core.ErrRunNotFound
	}
	m.trajectories[runID] = append(m.trajectories[runID], points...)
	return nil
}

// Trajectory returns a run's recorded points ordered by step
func (m *Memory) Trajectory(ctx context.Context, runID core.RunID) ([]run.TrajectoryPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.manifests[runID]; !ok {
		return nil, core.ErrRunNotFound
	}
	points := make([]run.TrajectoryPoint, len(m.trajectories[runID]))
	copy(points, m.trajectories[runID])
	sort.SliceStable(points, func(i, j int) bool { return points[i].Step < points[j].Step })
	return points, nil
}

// Runs lists all stored run IDs in sorted order
func (m *Memory) Runs(ctx context.Context) ([]core.RunID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]core.RunID, 0, len(m.manifests))
	for id := range m.manifests {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
