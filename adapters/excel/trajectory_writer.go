package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"qcsim/domain/run"
)

const (
	manifestSheet   = "Manifest"
	trajectorySheet = "Trajectory"
)

// WriteTrajectory writes a run's manifest and trajectory into an xlsx
// workbook at path, one sheet each.
func WriteTrajectory(path string, manifest *run.Manifest, points []run.TrajectoryPoint) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", manifestSheet); err != nil {
		return err
	}
	if err := writeManifestSheet(f, manifest); err != nil {
		return err
	}

	if _, err := f.NewSheet(trajectorySheet); err != nil {
		return err
	}
	if err := writeTrajectorySheet(f, points); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeManifestSheet(f *excelize.File, manifest *run.Manifest) error {
	rows := [][]interface{}{
		{"run_id", manifest.RunID.String()},
		{"ring_size", manifest.RingSize},
		{"steps", manifest.Steps},
		{"code_version", manifest.CodeVersion},
		{"fingerprint", manifest.Fingerprint.String()},
		{"created_at", manifest.CreatedAt.String()},
	}
	for name, seed := range manifest.Seeds {
		rows = append(rows, []interface{}{fmt.Sprintf("seed:%s", name), seed})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(manifestSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTrajectorySheet(f *excelize.File, points []run.TrajectoryPoint) error {
	header := []interface{}{"step", "stream", "draw", "branch", "gate", "site", "observable"}
	if err := f.SetSheetRow(trajectorySheet, "A1", &header); err != nil {
		return err
	}

	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.Step, p.Stream, p.Draw, string(p.Branch), p.Gate, p.Site, p.Observable}
		if err := f.SetSheetRow(trajectorySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
