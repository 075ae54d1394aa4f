package main

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"qcsim/adapters/ledger"
	"qcsim/adapters/postgres"
	"qcsim/adapters/rng"
	"qcsim/app"
	"qcsim/internal"
	"qcsim/internal/config"
	"qcsim/ports"
	"qcsim/ui"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	var store ports.Ledger = ledger.NewMemory()
	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		store = postgres.NewTrajectoryRepository(db)
		logger.Info("using postgres ledger")
	} else {
		logger.Info("using in-memory ledger")
	}

	sims := app.NewSimulationService(rng.NewSeededRegistry, store)
	ensembles := app.NewEnsembleService(sims, rng.DeriveSeed)

	server := ui.NewServer(sims, ensembles, store, cfg.Simulation, logger)

	addr := ":" + cfg.Server.Port
	logger.Info("listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
