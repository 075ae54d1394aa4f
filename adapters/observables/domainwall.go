package observables

import (
	"gonum.org/v1/gonum/stat"

	"qcsim/domain/circuit"
)

// DomainWallDensity returns the fraction of adjacent site pairs around
// the ring holding unequal occupations.
func DomainWallDensity(bits []int) float64 {
	if len(bits) < 2 {
		return 0
	}
	walls := make([]float64, len(bits))
	for i := range bits {
		if bits[i] != bits[(i+1)%len(bits)] {
			walls[i] = 1
		}
	}
	return stat.Mean(walls, nil)
}

// Occupation returns the mean occupation of the register
func Occupation(bits []int) float64 {
	if len(bits) == 0 {
		return 0
	}
	values := make([]float64, len(bits))
	for i, b := range bits {
		values[i] = float64(b)
	}
	return stat.Mean(values, nil)
}

// SiteProfile averages occupation per site over a set of snapshots
func SiteProfile(snapshots [][]int) []float64 {
	if len(snapshots) == 0 {
		return nil
	}
	numSites := len(snapshots[0])
	profile := make([]float64, numSites)
	column := make([]float64, len(snapshots))
	for site := 0; site < numSites; site++ {
		for i, snap := range snapshots {
			column[i] = float64(snap[site])
		}
		profile[site] = stat.Mean(column, nil)
	}
	return profile
}

// TrajectorySummary returns the mean and standard deviation of an
// observable series.
func TrajectorySummary(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.MeanStdDev(values, nil)
}

// BondIndex maps a cursor's current site to the bond it acts across: the
// link between the site and its right neighbor on the ring. Observables
// indexed by bond read this after each step.
func BondIndex(g circuit.Geometry, ringSize int) int {
	if ringSize <= 0 {
		return 0
	}
	return g.CurrentSite() % ringSize
}
