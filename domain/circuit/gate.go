package circuit

import "fmt"

// Gate is an opaque physical operation descriptor. The circuit core never
// inspects gate internals; it forwards the descriptor to whatever state
// backend implements the apply primitive. Arity is the number of adjacent
// sites the gate acts on, counted from the geometry's current site.
type Gate interface {
	Name() string
	Arity() int
}

type identityGate struct{}

func (identityGate) Name() string { return "identity" }
func (identityGate) Arity() int   { return 1 }

type resetGate struct{}

func (resetGate) Name() string { return "reset" }
func (resetGate) Arity() int   { return 1 }

type haarRandomGate struct{}

func (haarRandomGate) Name() string { return "haar_random" }
func (haarRandomGate) Arity() int   { return 2 }

// The closed gate set. Values are immutable descriptors and safe to share.
var (
	// Identity leaves the state untouched.
	Identity Gate = identityGate{}
	// Reset empties the target site.
	Reset Gate = resetGate{}
	// HaarRandom scrambles the target site and its right neighbor.
	HaarRandom Gate = haarRandomGate{}
)

// Projection forces a definite outcome at the target site.
type Projection struct {
	Outcome int
}

// Name returns the descriptor name including the forced outcome
func (p Projection) Name() string { return fmt.Sprintf("projection_%d", p.Outcome) }

// Arity returns the number of sites acted on
func (p Projection) Arity() int { return 1 }

// Validate checks that the forced outcome is a valid occupation
func (p Projection) Validate() error {
	if p.Outcome != 0 && p.Outcome != 1 {
		return fmt.Errorf("projection outcome must be 0 or 1, got %d", p.Outcome)
	}
	return nil
}
