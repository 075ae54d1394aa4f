package state

import (
	"context"

	"qcsim/domain/circuit"
	"qcsim/domain/core"
	"qcsim/ports"
)

// BitRegister is a classical occupation-bit state standing in for a full
// tensor backend: each site holds 0 or 1, and the closed gate set acts on
// it by descriptor. HaarRandom scrambles its target sites by drawing from
// the injected stream, so even scrambling is replayable from the run's
// seed table.
type BitRegister struct {
	bits     []int
	scramble ports.Stream
}

// NewBitRegister creates a register of numSites empty sites. The scramble
// stream feeds HaarRandom applications and may be nil if the circuit
// never applies one.
func NewBitRegister(numSites int, scramble ports.Stream) (*BitRegister, error) {
	if numSites <= 0 {
		return nil, core.NewRingSizeError(numSites)
	}
	return &BitRegister{
		bits:     make([]int, numSites),
		scramble: scramble,
	}, nil
}

// NewFilledBitRegister creates a register with the given initial pattern
func NewFilledBitRegister(bits []int, scramble ports.Stream) (*BitRegister, error) {
	reg, err := NewBitRegister(len(bits), scramble)
	if err != nil {
		return nil, err
	}
	for i, b := range bits {
		if b != 0 {
			reg.bits[i] = 1
		}
	}
	return reg, nil
}

// NumSites returns the register length
func (b *BitRegister) NumSites() int { return len(b.bits) }

// Bits returns a copy of the current occupation pattern
func (b *BitRegister) Bits() []int {
	out := make([]int, len(b.bits))
	copy(out, b.bits)
	return out
}

// Apply acts the gate descriptor on the register starting at site.
// Multi-site gates take their extra sites to the right, wrapping at the
// ring boundary.
func (b *BitRegister) Apply(ctx context.Context, gate circuit.Gate, site int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if gate == nil {
		return core.ErrInvalidAction
	}
	if site < 0 || site >= len(b.bits) {
		return core.NewSiteError(site, len(b.bits))
	}

	switch g := gate.(type) {
	case circuit.Projection:
		if err := g.Validate(); err != nil {
			return err
		}
		b.bits[site] = g.Outcome
		return nil
	default:
	}

	switch gate {
	case circuit.Identity:
		return nil
	case circuit.Reset:
		b.bits[site] = 0
		return nil
	case circuit.HaarRandom:
		if b.scramble == nil {
			return core.NewUnknownStreamError("scramble")
		}
		for offset := 0; offset < gate.Arity(); offset++ {
			target := (site + offset) % len(b.bits)
			if b.scramble.Float64() < 0.5 {
				b.bits[target] = 0
			} else {
				b.bits[target] = 1
			}
		}
		return nil
	default:
		return core.ErrUnsupportedGate
	}
}
