package run

import (
	"fmt"
	"sort"
	"strings"

	"qcsim/domain/core"
)

// Manifest is the complete specification for a run and the truth source
// for replay: two runs built from the same manifest must produce
// identical trajectories, draw for draw.
type Manifest struct {
	RunID       core.RunID       `json:"run_id"`
	RingSize    int              `json:"ring_size"`
	Steps       int              `json:"steps"`
	Seeds       map[string]int64 `json:"seeds"`
	CodeVersion string           `json:"code_version"`
	Fingerprint core.Hash        `json:"fingerprint"`
	CreatedAt   core.Timestamp   `json:"created_at"`
}

// NewManifest creates a run manifest and computes its fingerprint
func NewManifest(runID core.RunID, ringSize, steps int, seeds map[string]int64, codeVersion string) *Manifest {
	copied := make(map[string]int64, len(seeds))
	for name, seed := range seeds {
		copied[name] = seed
	}
	return &Manifest{
		RunID:       runID,
		RingSize:    ringSize,
		Steps:       steps,
		Seeds:       copied,
		CodeVersion: codeVersion,
		Fingerprint: ComputeFingerprint(ringSize, steps, seeds, codeVersion),
		CreatedAt:   core.Now(),
	}
}

// ComputeFingerprint hashes everything that determines a run's trajectory.
// Seed names are sorted so map order never leaks into the fingerprint.
func ComputeFingerprint(ringSize, steps int, seeds map[string]int64, codeVersion string) core.Hash {
	names := make([]string, 0, len(seeds))
	for name := range seeds {
		names = append(names, name)
	}
	sort.Strings(names)

	var data strings.Builder
	data.WriteString(fmt.Sprintf("ring=%d;steps=%d;code=%s;", ringSize, steps, codeVersion))
	for _, name := range names {
		data.WriteString(fmt.Sprintf("%s=%d;", name, seeds[name]))
	}

	return core.NewHash([]byte(data.String()))
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("manifest: run_id cannot be empty")
	}
	if m.RingSize <= 0 {
		return core.NewRingSizeError(m.RingSize)
	}
	if m.Steps <= 0 {
		return fmt.Errorf("manifest: steps must be positive, got %d", m.Steps)
	}
	if len(m.Seeds) == 0 {
		return fmt.Errorf("manifest: at least one named stream seed is required")
	}
	if m.Fingerprint.IsEmpty() {
		return fmt.Errorf("manifest: fingerprint cannot be empty")
	}
	return nil
}
