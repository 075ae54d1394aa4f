package app

import (
	"context"
	"math"

	"qcsim/domain/circuit"
	"qcsim/domain/core"
	"qcsim/domain/run"
	"qcsim/ports"
)

// Engine is the probabilistic application core. Its one contract is
// deterministic randomness consumption: every successful call draws
// exactly one value from the named stream, before any branching, whether
// or not an alternate is supplied and whichever branch fires. Two runs
// with identical seeds and identical call sequences therefore consume
// their streams identically, and any divergence between them is
// attributable to the comparison outcomes alone.
type Engine struct {
	registry ports.StreamRegistry
}

// NewEngine creates an engine drawing from the given registry
func NewEngine(registry ports.StreamRegistry) *Engine {
	return &Engine{registry: registry}
}

// Outcome reports what a single conditional application did
type Outcome struct {
	Branch run.Branch
	Stream string
	Draw   float64
	Gate   string
	Site   int
}

// ApplyConditionally draws one value r from the named stream and compares
// it to probability. If r < probability the primary action is applied at
// its geometry's current site and that geometry advances. Otherwise, if
// an alternate is provided, the alternate is applied and its geometry
// advances. Otherwise nothing is applied and nothing advances. Exactly
// one geometry advances when a branch fires, never both.
//
// Validation failures (bad probability, bad action, unknown stream)
// surface before the draw, so a failed call consumes nothing. An error
// from the state's apply primitive is fatal to the step and propagated
// as is; the geometry of a failed application does not advance.
func (e *Engine) ApplyConditionally(
	ctx context.Context,
	state ports.SimulationState,
	primary circuit.Action,
	probability float64,
	streamName string,
	alternate *circuit.Action,
) (Outcome, error) {
	if probability < 0 || probability > 1 || math.IsNaN(probability) {
		return Outcome{}, core.NewInvalidProbabilityError(probability)
	}
	if err := primary.Validate(); err != nil {
		return Outcome{}, err
	}
	if alternate != nil {
		if err := alternate.Validate(); err != nil {
			return Outcome{}, err
		}
	}

	stream, err := e.registry.Stream(streamName)
	if err != nil {
		return Outcome{}, err
	}

	// The unconditional draw. Nothing below may touch the stream again.
	r := stream.Float64()

	chosen := primary
	branch := run.BranchPrimary
	if r >= probability {
		if alternate == nil {
			return Outcome{
				Branch: run.BranchNone,
				Stream: streamName,
				Draw:   r,
				Site:   run.NoSite,
			}, nil
		}
		chosen = *alternate
		branch = run.BranchAlternate
	}

	site := chosen.Geometry.CurrentSite()
	if err := state.Apply(ctx, chosen.Gate, site); err != nil {
		return Outcome{}, core.NewGateApplicationError(chosen.Gate.Name(), site, err)
	}
	chosen.Geometry.Advance()

	return Outcome{
		Branch: branch,
		Stream: streamName,
		Draw:   r,
		Gate:   chosen.Gate.Name(),
		Site:   site,
	}, nil
}
