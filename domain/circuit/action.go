package circuit

import "qcsim/domain/core"

// Action is a transient (gate, geometry) pair handed to the engine for a
// single conditional application. It has no lifecycle beyond one call.
type Action struct {
	Gate     Gate
	Geometry Geometry
}

// Validate checks that both halves of the pair are present
func (a Action) Validate() error {
	if a.Gate == nil || a.Geometry == nil {
		return core.ErrInvalidAction
	}
	return nil
}
