package state

import (
	"context"

	"qcsim/domain/circuit"
	"qcsim/ports"
)

// Application is one recorded gate application
type Application struct {
	Gate string
	Site int
}

// Recorder wraps a simulation state and records every application passing
// through it, in order. With a nil inner state it records without acting,
// which is how the engine's side-effect accounting is tested.
type Recorder struct {
	inner    ports.SimulationState
	numSites int
	applied  []Application
}

// NewRecorder wraps an existing state
func NewRecorder(inner ports.SimulationState) *Recorder {
	return &Recorder{inner: inner, numSites: inner.NumSites()}
}

// NewNullRecorder records applications against no underlying state
func NewNullRecorder(numSites int) *Recorder {
	return &Recorder{numSites: numSites}
}

// NumSites returns the wrapped state's size
func (r *Recorder) NumSites() int { return r.numSites }

// Apply records the application and forwards it to the inner state
func (r *Recorder) Apply(ctx context.Context, gate circuit.Gate, site int) error {
	if r.inner != nil {
		if err := r.inner.Apply(ctx, gate, site); err != nil {
			return err
		}
	}
	r.applied = append(r.applied, Application{Gate: gate.Name(), Site: site})
	return nil
}

// Applications returns the recorded applications in order
func (r *Recorder) Applications() []Application {
	out := make([]Application, len(r.applied))
	copy(out, r.applied)
	return out
}

// Count returns how many applications were recorded
func (r *Recorder) Count() int { return len(r.applied) }
