package run

// Branch identifies which arm of an either/or choice fired
type Branch string

const (
	// BranchPrimary means the draw fell below the probability
	BranchPrimary Branch = "primary"
	// BranchAlternate means the draw did not, and an alternate was provided
	BranchAlternate Branch = "alternate"
	// BranchNone means the draw did not, and no alternate was provided
	BranchNone Branch = "none"
)

// NoSite is recorded when a step applied nothing
const NoSite = -1

// TrajectoryPoint records one time step of a run: the draw consumed, the
// branch it selected, what was applied where, and the observable read
// after the step.
type TrajectoryPoint struct {
	Step       int     `json:"step"`
	Stream     string  `json:"stream"`
	Draw       float64 `json:"draw"`
	Branch     Branch  `json:"branch"`
	Gate       string  `json:"gate,omitempty"`
	Site       int     `json:"site"`
	Observable float64 `json:"observable"`
}

// Applied reports whether this step applied a gate
func (p TrajectoryPoint) Applied() bool {
	return p.Branch != BranchNone
}

// CountApplied returns how many points in a trajectory applied a gate
func CountApplied(points []TrajectoryPoint) int {
	applied := 0
	for _, p := range points {
		if p.Applied() {
			applied++
		}
	}
	return applied
}

// Observables extracts the observable column of a trajectory
func Observables(points []TrajectoryPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Observable
	}
	return values
}
