package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"qcsim/domain/core"
	"qcsim/domain/run"
	"qcsim/ports"
)

// TrajectoryRepository implements ports.Ledger for PostgreSQL
type TrajectoryRepository struct {
	db *sqlx.DB
}

// NewTrajectoryRepository creates a new PostgreSQL trajectory repository
func NewTrajectoryRepository(db *sqlx.DB) ports.Ledger {
	return &TrajectoryRepository{db: db}
}

type manifestRow struct {
	RunID       string    `db:"id"`
	RingSize    int       `db:"ring_size"`
	Steps       int       `db:"steps"`
	Seeds       []byte    `db:"seeds"`
	CodeVersion string    `db:"code_version"`
	Fingerprint string    `db:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"`
}

type pointRow struct {
	Step       int     `db:"step"`
	Stream     string  `db:"stream"`
	Draw       float64 `db:"draw"`
	Branch     string  `db:"branch"`
	Gate       string  `db:"gate"`
	Site       int     `db:"site"`
	Observable float64 `db:"observable"`
}

// PutManifest stores the manifest for a run
func (r *TrajectoryRepository) PutManifest(ctx context.Context, manifest *run.Manifest) error {
	if err := manifest.Validate(); err != nil {
		return err
	}
	seeds, err := json.Marshal(manifest.Seeds)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (id, ring_size, steps, seeds, code_version, fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, manifest.RunID.String(), manifest.RingSize, manifest.Steps, seeds,
		manifest.CodeVersion, manifest.Fingerprint.String(), manifest.CreatedAt.Time())
	return err
}

// Manifest retrieves a stored manifest
func (r *TrajectoryRepository) Manifest(ctx context.Context, runID core.RunID) (*run.Manifest, error) {
	var row manifestRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, ring_size, steps, seeds, code_version, fingerprint, created_at
		FROM runs
		WHERE id = $1
	`, runID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	seeds := make(map[string]int64)
	if err := json.Unmarshal(row.Seeds, &seeds); err != nil {
		return nil, err
	}

	return &run.Manifest{
		RunID:       core.RunID(row.RunID),
		RingSize:    row.RingSize,
		Steps:       row.Steps,
		Seeds:       seeds,
		CodeVersion: row.CodeVersion,
		Fingerprint: core.Hash(row.Fingerprint),
		CreatedAt:   core.NewTimestamp(row.CreatedAt),
	}, nil
}

// Append records trajectory points for a run
func (r *TrajectoryRepository) Append(ctx context.Context, runID core.RunID, points ...run.TrajectoryPoint) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range points {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trajectory_points (run_id, step, stream, draw, branch, gate, site, observable)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, runID.String(), p.Step, p.Stream, p.Draw, string(p.Branch), p.Gate, p.Site, p.Observable)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Trajectory returns a run's recorded points ordered by step
func (r *TrajectoryRepository) Trajectory(ctx context.Context, runID core.RunID) ([]run.TrajectoryPoint, error) {
	if _, err := r.Manifest(ctx, runID); err != nil {
		return nil, err
	}

	var rows []pointRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT step, stream, draw, branch, gate, site, observable
		FROM trajectory_points
		WHERE run_id = $1
		ORDER BY step
	`, runID.String())
	if err != nil {
		return nil, err
	}

	points := make([]run.TrajectoryPoint, len(rows))
	for i, row := range rows {
		points[i] = run.TrajectoryPoint{
			Step:       row.Step,
			Stream:     row.Stream,
			Draw:       row.Draw,
			Branch:     run.Branch(row.Branch),
			Gate:       row.Gate,
			Site:       row.Site,
			Observable: row.Observable,
		}
	}
	return points, nil
}

// Runs lists all stored run IDs
func (r *TrajectoryRepository) Runs(ctx context.Context) ([]core.RunID, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	runIDs := make([]core.RunID, len(ids))
	for i, id := range ids {
		runIDs[i] = core.RunID(id)
	}
	return runIDs, nil
}
