package app

import (
	"context"
	"fmt"

	"qcsim/domain/circuit"
	"qcsim/domain/run"
	"qcsim/ports"
)

// Stream names of the standard protocol
const (
	ControlStream     = "control"
	MeasurementStream = "measurement"
)

// StaircaseProtocol is the standard stochastic circuit: at each step one
// control draw chooses between a scrambling gate on a forward staircase
// and a projective reset on a backward staircase. Exactly one of the two
// cursors advances per step, so together they sweep the ring as a single
// conceptual frontier.
type StaircaseProtocol struct {
	Probability   float64
	ForwardStart  int
	BackwardStart int
	NewState      ports.StateFactory
}

// DefaultStaircaseProtocol places the forward cursor at site 0 and the
// backward cursor at the last site of the ring.
func DefaultStaircaseProtocol(probability float64, ringSize int, newState ports.StateFactory) StaircaseProtocol {
	return StaircaseProtocol{
		Probability:   probability,
		ForwardStart:  0,
		BackwardStart: ringSize - 1,
		NewState:      newState,
	}
}

// Setup builds the protocol's private state and cursors for one run.
// It satisfies SetupFunc.
func (p StaircaseProtocol) Setup(registry ports.StreamRegistry, ringSize int) (ports.SimulationState, StepFunc, error) {
	if p.NewState == nil {
		return nil, nil, fmt.Errorf("staircase protocol: state factory is required")
	}
	state, err := p.NewState(registry, ringSize)
	if err != nil {
		return nil, nil, err
	}

	fwd, err := circuit.NewStaircase(ringSize, circuit.Forward, p.ForwardStart)
	if err != nil {
		return nil, nil, err
	}
	back, err := circuit.NewStaircase(ringSize, circuit.Backward, p.BackwardStart)
	if err != nil {
		return nil, nil, err
	}
	pair, err := circuit.NewStaircasePair(fwd, back)
	if err != nil {
		return nil, nil, err
	}

	applied := 0
	stepFn := func(ctx context.Context, step int, eng *Engine, st ports.SimulationState) (Outcome, error) {
		out, err := eng.ApplyConditionally(
			ctx,
			st,
			circuit.Action{Gate: circuit.HaarRandom, Geometry: fwd},
			p.Probability,
			ControlStream,
			&circuit.Action{Gate: circuit.Reset, Geometry: back},
		)
		if err != nil {
			return out, err
		}
		if out.Branch != run.BranchNone {
			applied++
		}
		if err := pair.Check(applied); err != nil {
			return out, err
		}
		return out, nil
	}

	return state, stepFn, nil
}
