package circuit

import (
	"qcsim/domain/core"
)

// Direction fixes which way a staircase walks around the ring
type Direction int

const (
	Forward Direction = iota
	Backward
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// step returns the modular increment for one advance. A backward step is
// expressed as +L-1 so position arithmetic never goes negative.
func (d Direction) step(ringSize int) int {
	if d == Backward {
		return ringSize - 1
	}
	return 1
}

// Geometry describes which site a gate acts on. Advance is invoked by the
// engine as a side effect of a gate application targeting this geometry,
// and by nothing else.
type Geometry interface {
	CurrentSite() int
	Advance()
}

// Staircase is a directional walk over a ring of sites with periodic
// boundaries: stepping past either edge wraps to the opposite edge.
// Direction never changes after construction; position is mutated only
// by Advance. A Staircase is private to a single run and must not be
// shared across concurrent runs.
type Staircase struct {
	ringSize  int
	direction Direction
	position  int
	start     int
}

// NewStaircase creates a staircase over a ring of ringSize sites starting
// at the given position.
func NewStaircase(ringSize int, direction Direction, start int) (*Staircase, error) {
	if ringSize <= 0 {
		return nil, core.NewRingSizeError(ringSize)
	}
	if start < 0 || start >= ringSize {
		return nil, core.NewSiteError(start, ringSize)
	}
	return &Staircase{
		ringSize:  ringSize,
		direction: direction,
		position:  start,
		start:     start,
	}, nil
}

// RingSize returns the number of sites on the ring
func (s *Staircase) RingSize() int { return s.ringSize }

// Direction returns the fixed walk direction
func (s *Staircase) Direction() Direction { return s.direction }

// CurrentSite returns the site the next application targets
func (s *Staircase) CurrentSite() int { return s.position }

// Advance moves the cursor one site in its direction, wrapping at the
// ring boundary.
func (s *Staircase) Advance() {
	s.position = (s.position + s.direction.step(s.ringSize)) % s.ringSize
}

// Displacement returns how many sites the cursor has moved from its
// starting position, measured along its own direction, modulo ring size.
func (s *Staircase) Displacement() int {
	if s.direction == Backward {
		return ((s.start - s.position) % s.ringSize + s.ringSize) % s.ringSize
	}
	return ((s.position - s.start) % s.ringSize + s.ringSize) % s.ringSize
}

// FixedSite is a geometry that always targets the same site. Advance is
// a no-op; it exists for gates that repeatedly act at one location.
type FixedSite struct {
	site int
}

// NewFixedSite creates a geometry pinned to one site of a ring
func NewFixedSite(ringSize, site int) (*FixedSite, error) {
	if ringSize <= 0 {
		return nil, core.NewRingSizeError(ringSize)
	}
	if site < 0 || site >= ringSize {
		return nil, core.NewSiteError(site, ringSize)
	}
	return &FixedSite{site: site}, nil
}

// CurrentSite returns the pinned site
func (f *FixedSite) CurrentSite() int { return f.site }

// Advance does nothing for a fixed site
func (f *FixedSite) Advance() {}

// StaircasePair documents the pairing of one forward and one backward
// staircase over the same ring. The two cursors stay independent objects
// and are never implicitly synchronized; the pairing invariant is that
// exactly one of them advances per applied gate, each by one site along
// its own direction, so after n applied gates the sum of their
// displacements is congruent to n modulo the ring size. Check verifies
// that accounting against the caller's applied-gate count.
type StaircasePair struct {
	Fwd  *Staircase
	Back *Staircase
}

// NewStaircasePair pairs a forward and a backward staircase over the
// same ring.
func NewStaircasePair(fwd, back *Staircase) (*StaircasePair, error) {
	if fwd == nil || back == nil {
		return nil, core.ErrInvalidAction
	}
	if fwd.RingSize() != back.RingSize() {
		return nil, core.NewRingSizeError(back.RingSize())
	}
	if fwd.Direction() != Forward || back.Direction() != Backward {
		return nil, core.ErrPairDesynced
	}
	return &StaircasePair{Fwd: fwd, Back: back}, nil
}

// Check verifies the pairing invariant against the number of gates that
// have advanced either cursor.
func (p *StaircasePair) Check(applied int) error {
	ringSize := p.Fwd.RingSize()
	total := (p.Fwd.Displacement() + p.Back.Displacement()) % ringSize
	want := ((applied % ringSize) + ringSize) % ringSize
	if total != want {
		return core.ErrPairDesynced
	}
	return nil
}
