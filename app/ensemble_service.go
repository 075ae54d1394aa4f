package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"qcsim/domain/core"
)

// SeedDeriver produces the seed for one named stream of one ensemble
// member, so members draw from disjoint but individually replayable
// streams.
type SeedDeriver func(base int64, name string, index int) int64

// EnsembleRequest defines a family of independent runs differing only in
// their derived seeds.
type EnsembleRequest struct {
	EnsembleID  core.EnsembleID // optional, generated if empty
	Runs        int
	RingSize    int
	Steps       int
	BaseSeeds   map[string]int64
	CodeVersion string
	Setup       SetupFunc
	Observable  ObservableFunc
	Parallelism int // concurrent runs; defaults to 1
}

// EnsembleSummary aggregates the final observable across members
type EnsembleSummary struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Median  float64 `json:"median"`
	P5      float64 `json:"p5"`
	P95     float64 `json:"p95"`
}

// EnsembleResult contains the outcome of an ensemble execution
type EnsembleResult struct {
	EnsembleID core.EnsembleID    `json:"ensemble_id"`
	RunIDs     []core.RunID       `json:"run_ids"`
	Seeds      []map[string]int64 `json:"seeds"`
	Summary    EnsembleSummary    `json:"summary"`
	RuntimeMs  int64              `json:"runtime_ms"`
}

// EnsembleService executes independent runs in parallel. Runs never share
// registries, cursors or state; each member is built from scratch with
// its own derived seeds, so parallelism cannot disturb reproducibility.
type EnsembleService struct {
	sims       *SimulationService
	deriveSeed SeedDeriver
}

// NewEnsembleService creates an ensemble service
func NewEnsembleService(sims *SimulationService, deriveSeed SeedDeriver) *EnsembleService {
	return &EnsembleService{
		sims:       sims,
		deriveSeed: deriveSeed,
	}
}

// Run executes all ensemble members and summarizes their final observables
func (s *EnsembleService) Run(ctx context.Context, req EnsembleRequest) (*EnsembleResult, error) {
	startTime := time.Now()

	if req.Runs <= 0 {
		return nil, fmt.Errorf("ensemble: runs must be positive, got %d", req.Runs)
	}
	if len(req.BaseSeeds) == 0 {
		return nil, fmt.Errorf("ensemble: at least one named base seed is required")
	}

	ensembleID := req.EnsembleID
	if core.ID(ensembleID).IsEmpty() {
		ensembleID = core.EnsembleID(core.NewID())
	}

	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	runIDs := make([]core.RunID, req.Runs)
	seedTables := make([]map[string]int64, req.Runs)
	finals := make([]float64, req.Runs)
	errs := make([]error, req.Runs)

	sem := semaphore.NewWeighted(int64(parallelism))
	var wg sync.WaitGroup

	for i := 0; i < req.Runs; i++ {
		seeds := make(map[string]int64, len(req.BaseSeeds))
		for name, base := range req.BaseSeeds {
			seeds[name] = s.deriveSeed(base, name, i)
		}
		runID := core.RunID(fmt.Sprintf("%s-run-%04d", ensembleID, i))
		runIDs[i] = runID
		seedTables[i] = seeds

		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, runID core.RunID, seeds map[string]int64) {
			defer wg.Done()
			defer sem.Release(1)

			result, err := s.sims.Run(ctx, RunRequest{
				RunID:       runID,
				RingSize:    req.RingSize,
				Steps:       req.Steps,
				Seeds:       seeds,
				CodeVersion: req.CodeVersion,
				Setup:       req.Setup,
				Observable:  req.Observable,
			})
			if err != nil {
				errs[i] = err
				return
			}
			if n := len(result.Trajectory); n > 0 {
				finals[i] = result.Trajectory[n-1].Observable
			}
		}(i, runID, seeds)
	}

	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("ensemble %s: member %d: %w", ensembleID, i, err)
		}
	}

	summary, err := summarize(finals)
	if err != nil {
		return nil, err
	}

	return &EnsembleResult{
		EnsembleID: ensembleID,
		RunIDs:     runIDs,
		Seeds:      seedTables,
		Summary:    summary,
		RuntimeMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

func summarize(finals []float64) (EnsembleSummary, error) {
	data := stats.Float64Data(finals)

	mean, err := stats.Mean(data)
	if err != nil {
		return EnsembleSummary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return EnsembleSummary{}, err
	}
	stddev := 0.0
	if len(finals) > 1 {
		if stddev, err = stats.StandardDeviationSample(data); err != nil {
			return EnsembleSummary{}, err
		}
	}
	p5, err := stats.PercentileNearestRank(data, 5)
	if err != nil {
		return EnsembleSummary{}, err
	}
	p95, err := stats.PercentileNearestRank(data, 95)
	if err != nil {
		return EnsembleSummary{}, err
	}

	return EnsembleSummary{
		Samples: len(finals),
		Mean:    mean,
		StdDev:  stddev,
		Median:  median,
		P5:      p5,
		P95:     p95,
	}, nil
}

// ReplayCheck reruns a stored run from its manifest and verifies the new
// trajectory matches the stored one draw for draw.
func (s *EnsembleService) ReplayCheck(ctx context.Context, stored *RunResult, setup SetupFunc, observable ObservableFunc) error {
	replay, err := s.sims.Run(ctx, RunRequest{
		RingSize:    stored.Manifest.RingSize,
		Steps:       stored.Manifest.Steps,
		Seeds:       stored.Manifest.Seeds,
		CodeVersion: stored.Manifest.CodeVersion,
		Setup:       setup,
		Observable:  observable,
	})
	if err != nil {
		return err
	}
	if len(replay.Trajectory) != len(stored.Trajectory) {
		return core.ErrNonDeterministic
	}
	for i := range stored.Trajectory {
		a, b := stored.Trajectory[i], replay.Trajectory[i]
		if a.Draw != b.Draw || a.Branch != b.Branch || a.Site != b.Site || a.Gate != b.Gate {
			return core.ErrNonDeterministic
		}
	}
	return nil
}
