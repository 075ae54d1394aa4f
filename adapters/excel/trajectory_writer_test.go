package excel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"qcsim/domain/run"
)

func TestWriteTrajectory(t *testing.T) {
	manifest := run.NewManifest("run-a", 8, 2, map[string]int64{"control": 11, "measurement": 22}, "test")
	points := []run.TrajectoryPoint{
		{Step: 0, Stream: "control", Draw: 0.25, Branch: run.BranchPrimary, Gate: "haar_random", Site: 3, Observable: 0.5},
		{Step: 1, Stream: "control", Draw: 0.75, Branch: run.BranchAlternate, Gate: "reset", Site: 0, Observable: 0.25},
	}

	path := filepath.Join(t.TempDir(), "run.xlsx")
	if err := WriteTrajectory(path, manifest, points); err != nil {
		t.Fatalf("WriteTrajectory: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Manifest" || sheets[1] != "Trajectory" {
		t.Fatalf("sheets = %v", sheets)
	}

	if got, _ := f.GetCellValue("Manifest", "B1"); got != "run-a" {
		t.Errorf("manifest run_id cell = %q", got)
	}
	if got, _ := f.GetCellValue("Manifest", "B2"); got != "8" {
		t.Errorf("manifest ring_size cell = %q", got)
	}

	if got, _ := f.GetCellValue("Trajectory", "A1"); got != "step" {
		t.Errorf("trajectory header = %q", got)
	}
	if got, _ := f.GetCellValue("Trajectory", "E2"); got != "haar_random" {
		t.Errorf("first gate cell = %q", got)
	}
	if got, _ := f.GetCellValue("Trajectory", "D3"); got != "alternate" {
		t.Errorf("second branch cell = %q", got)
	}

	rows, err := f.GetRows("Trajectory")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("trajectory sheet has %d rows, want header plus 2", len(rows))
	}
}
