package ports

import (
	"context"

	"qcsim/domain/circuit"
)

// SimulationState is the opaque many-body state a circuit acts on. The
// engine only ever forwards (gate, site) to Apply; what the gate does to
// the state is entirely the backend's business. A failed application
// leaves the state undefined and is fatal to the step: the engine never
// retries or suppresses it.
type SimulationState interface {
	Apply(ctx context.Context, gate circuit.Gate, site int) error
	NumSites() int
}

// StateFactory builds a private simulation state for one run. Backends
// that need randomness (measurement outcomes, scrambling) pull their own
// named stream from the run's registry, keeping every draw accountable
// to a seed in the manifest.
type StateFactory func(registry StreamRegistry, ringSize int) (SimulationState, error)
