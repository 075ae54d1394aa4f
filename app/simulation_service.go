package app

import (
	"context"
	"fmt"
	"time"

	"qcsim/domain/core"
	"qcsim/domain/run"
	"qcsim/ports"
)

// StepFunc drives one discrete time step. It is invoked once per time
// index with the run's engine and state, and reports the outcome to
// record. Step errors are fatal to the run.
type StepFunc func(ctx context.Context, step int, eng *Engine, state ports.SimulationState) (Outcome, error)

// SetupFunc builds a run's private collaborators before the first step:
// the simulation state and the per-step function. Geometry cursors belong
// inside the closure, where they stay private to the run. The registry is
// still unfrozen here, so setup may resolve or register derived streams.
type SetupFunc func(registry ports.StreamRegistry, ringSize int) (ports.SimulationState, StepFunc, error)

// RunRequest defines the inputs for one deterministic run
type RunRequest struct {
	RunID       core.RunID // optional, generated if empty
	RingSize    int
	Steps       int
	Seeds       map[string]int64
	CodeVersion string
	Setup       SetupFunc
	Observable  ObservableFunc // optional, read after every step
}

// ObservableFunc derives a numeric quantity from the state after a step
type ObservableFunc func(state ports.SimulationState) float64

// RunResult contains the complete output of a run
type RunResult struct {
	Manifest   *run.Manifest         `json:"manifest"`
	Trajectory []run.TrajectoryPoint `json:"trajectory"`
	Applied    int                   `json:"applied"`
	RuntimeMs  int64                 `json:"runtime_ms"`
}

// SimulationService executes runs: it builds a private frozen registry
// per run, writes the manifest before the first step, then invokes the
// per-step function once per time index, strictly sequentially, recording
// one trajectory point per step.
type SimulationService struct {
	newRegistry ports.RegistryFactory
	ledger      ports.Ledger
}

// NewSimulationService creates a simulation service
func NewSimulationService(newRegistry ports.RegistryFactory, ledger ports.Ledger) *SimulationService {
	return &SimulationService{
		newRegistry: newRegistry,
		ledger:      ledger,
	}
}

// Run executes a single deterministic run to completion
func (s *SimulationService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	startTime := time.Now()

	if err := validateRunRequest(req); err != nil {
		return nil, err
	}

	runID := req.RunID
	if core.ID(runID).IsEmpty() {
		runID = core.RunID(core.NewID())
	}

	// Private registry and state per run; nothing here is shared.
	registry, err := s.newRegistry(req.Seeds)
	if err != nil {
		return nil, err
	}
	state, stepFn, err := req.Setup(registry, req.RingSize)
	if err != nil {
		return nil, fmt.Errorf("run %s: setup failed: %w", runID, err)
	}
	if stepFn == nil {
		return nil, fmt.Errorf("run %s: setup returned no step function", runID)
	}
	registry.Freeze()

	// Manifest first: the truth source must exist before any point.
	manifest := run.NewManifest(runID, req.RingSize, req.Steps, req.Seeds, req.CodeVersion)
	if err := s.ledger.PutManifest(ctx, manifest); err != nil {
		return nil, err
	}

	eng := NewEngine(registry)
	trajectory := make([]run.TrajectoryPoint, 0, req.Steps)
	applied := 0

	for step := 0; step < req.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := stepFn(ctx, step, eng, state)
		if err != nil {
			return nil, fmt.Errorf("run %s: step %d: %w", runID, step, err)
		}
		if out.Branch != run.BranchNone {
			applied++
		}

		point := run.TrajectoryPoint{
			Step:   step,
			Stream: out.Stream,
			Draw:   out.Draw,
			Branch: out.Branch,
			Gate:   out.Gate,
			Site:   out.Site,
		}
		if req.Observable != nil {
			point.Observable = req.Observable(state)
		}
		if err := s.ledger.Append(ctx, runID, point); err != nil {
			return nil, err
		}
		trajectory = append(trajectory, point)
	}

	return &RunResult{
		Manifest:   manifest,
		Trajectory: trajectory,
		Applied:    applied,
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

func validateRunRequest(req RunRequest) error {
	if req.RingSize <= 0 {
		return core.NewRingSizeError(req.RingSize)
	}
	if req.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", req.Steps)
	}
	if len(req.Seeds) == 0 {
		return fmt.Errorf("at least one named stream seed is required")
	}
	if req.Setup == nil {
		return fmt.Errorf("setup function is required")
	}
	return nil
}
