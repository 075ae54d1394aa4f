// Command migrate creates the postgres schema for the trajectory ledger.
package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	ring_size    INTEGER NOT NULL,
	steps        INTEGER NOT NULL,
	seeds        JSONB NOT NULL,
	code_version TEXT NOT NULL,
	fingerprint  TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS trajectory_points (
	run_id     TEXT NOT NULL REFERENCES runs(id),
	step       INTEGER NOT NULL,
	stream     TEXT NOT NULL,
	draw       DOUBLE PRECISION NOT NULL,
	branch     TEXT NOT NULL,
	gate       TEXT NOT NULL DEFAULT '',
	site       INTEGER NOT NULL,
	observable DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, step)
);

CREATE INDEX IF NOT EXISTS idx_trajectory_points_run ON trajectory_points (run_id);
`

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url>")
	}
	databaseURL := os.Args[1]

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema applied")
}
