// Command qcsim-run executes a single run or an ensemble from the command
// line and writes the results to JSON and, optionally, an xlsx workbook.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"qcsim/adapters/excel"
	"qcsim/adapters/ledger"
	"qcsim/adapters/rng"
	"qcsim/app"
	"qcsim/internal/config"
	"qcsim/internal/testkit"
	"qcsim/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var (
		ringSize        = flag.Int("sites", cfg.Simulation.RingSize, "number of sites on the ring")
		steps           = flag.Int("steps", cfg.Simulation.Steps, "number of time steps")
		probability     = flag.Float64("p", cfg.Simulation.Probability, "probability of the primary branch")
		controlSeed     = flag.Int64("control-seed", cfg.Simulation.ControlSeed, "seed of the control stream")
		measurementSeed = flag.Int64("measurement-seed", cfg.Simulation.MeasurementSeed, "seed of the measurement stream")
		ensembleRuns    = flag.Int("ensemble", 0, "run an ensemble of this many members instead of a single run")
		parallelism     = flag.Int("parallelism", cfg.Simulation.Parallelism, "concurrent ensemble members")
		outDir          = flag.String("out", cfg.Export.Dir, "output directory")
		xlsx            = flag.Bool("xlsx", false, "also write an xlsx workbook (single run only)")
	)
	flag.Parse()

	seeds := map[string]int64{
		"control":     *controlSeed,
		"measurement": *measurementSeed,
	}

	store := ledger.NewMemory()
	sims := app.NewSimulationService(rng.NewSeededRegistry, store)
	protocol := testkit.DefaultProtocol(*probability, *ringSize)
	ctx := context.Background()

	if *ensembleRuns > 0 {
		ensembles := app.NewEnsembleService(sims, rng.DeriveSeed)
		result, err := ensembles.Run(ctx, app.EnsembleRequest{
			Runs:        *ensembleRuns,
			RingSize:    *ringSize,
			Steps:       *steps,
			BaseSeeds:   seeds,
			CodeVersion: ui.Version,
			Setup:       protocol.Setup,
			Observable:  testkit.DomainWallObservable,
			Parallelism: *parallelism,
		})
		if err != nil {
			log.Fatalf("Ensemble failed: %v", err)
		}
		path := filepath.Join(*outDir, result.EnsembleID.String()+".json")
		writeJSON(path, result)
		log.Printf("Ensemble of %d runs complete: mean=%.6f stddev=%.6f -> %s",
			result.Summary.Samples, result.Summary.Mean, result.Summary.StdDev, path)
		return
	}

	result, err := sims.Run(ctx, app.RunRequest{
		RingSize:    *ringSize,
		Steps:       *steps,
		Seeds:       seeds,
		CodeVersion: ui.Version,
		Setup:       protocol.Setup,
		Observable:  testkit.DomainWallObservable,
	})
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	path := filepath.Join(*outDir, result.Manifest.RunID.String()+".json")
	writeJSON(path, result)
	log.Printf("Run complete: %d steps, %d applied, fingerprint %s -> %s",
		*steps, result.Applied, result.Manifest.Fingerprint, path)

	if *xlsx {
		xlsxPath := filepath.Join(*outDir, result.Manifest.RunID.String()+".xlsx")
		if err := excel.WriteTrajectory(xlsxPath, result.Manifest, result.Trajectory); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Workbook written to %s", xlsxPath)
	}
}

func writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}
