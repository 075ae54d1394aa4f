package testkit

import (
	"context"
	"math/rand"

	"qcsim/adapters/ledger"
	"qcsim/adapters/observables"
	"qcsim/adapters/rng"
	"qcsim/adapters/state"
	"qcsim/app"
	"qcsim/domain/circuit"
	"qcsim/domain/core"
	"qcsim/ports"
)

// CountingStream wraps a stream and counts its draws. It is how the
// draw-count contract of the engine is verified.
type CountingStream struct {
	inner ports.Stream
	draws int
}

// NewCountingStream wraps a stream; a nil inner counts over a fixed seed
func NewCountingStream(inner ports.Stream) *CountingStream {
	if inner == nil {
		inner = rand.New(rand.NewSource(1))
	}
	return &CountingStream{inner: inner}
}

// Float64 draws from the wrapped stream and counts
func (c *CountingStream) Float64() float64 {
	c.draws++
	return c.inner.Float64()
}

// Draws returns how many values were consumed
func (c *CountingStream) Draws() int { return c.draws }

// ScriptedStream replays a fixed sequence of draws, cycling when
// exhausted. It pins down exact branch outcomes in tests.
type ScriptedStream struct {
	values []float64
	next   int
}

// NewScriptedStream creates a stream replaying the given values
func NewScriptedStream(values ...float64) *ScriptedStream {
	return &ScriptedStream{values: values}
}

// Float64 returns the next scripted value
func (s *ScriptedStream) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws returns how many values were consumed
func (s *ScriptedStream) Draws() int { return s.next }

// StaticRegistry is a ports.StreamRegistry for tests: arbitrary stream
// implementations can be injected under a name, while Register still
// creates ordinary seeded streams.
type StaticRegistry struct {
	streams map[string]ports.Stream
	frozen  bool
}

// NewStaticRegistry creates an empty test registry
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{streams: make(map[string]ports.Stream)}
}

// Add injects a stream under a name, replacing any previous one
func (r *StaticRegistry) Add(name string, stream ports.Stream) *StaticRegistry {
	r.streams[name] = stream
	return r
}

// Stream looks up a stream by name
func (r *StaticRegistry) Stream(name string) (ports.Stream, error) {
	stream, ok := r.streams[name]
	if !ok {
		return nil, core.NewUnknownStreamError(name)
	}
	return stream, nil
}

// Register creates a seeded stream under name
func (r *StaticRegistry) Register(name string, seed int64) error {
	if r.frozen {
		return core.NewFrozenRegistryError(name)
	}
	if _, exists := r.streams[name]; exists {
		return core.NewDuplicateStreamError(name)
	}
	r.streams[name] = rand.New(rand.NewSource(seed))
	return nil
}

// Freeze ends the setup phase
func (r *StaticRegistry) Freeze() { r.frozen = true }

// NullState accepts every application and does nothing
type NullState struct {
	numSites int
}

// NewNullState creates a no-op state of the given size
func NewNullState(numSites int) *NullState {
	return &NullState{numSites: numSites}
}

// NumSites returns the configured size
func (n *NullState) NumSites() int { return n.numSites }

// Apply does nothing
func (n *NullState) Apply(ctx context.Context, gate circuit.Gate, site int) error {
	return nil
}

// FailingState fails every application with a fixed error
type FailingState struct {
	numSites int
	err      error
}

// NewFailingState creates a state whose applications always fail
func NewFailingState(numSites int, err error) *FailingState {
	return &FailingState{numSites: numSites, err: err}
}

// NumSites returns the configured size
func (f *FailingState) NumSites() int { return f.numSites }

// Apply always fails
func (f *FailingState) Apply(ctx context.Context, gate circuit.Gate, site int) error {
	return f.err
}

// Kit wires the default adapters into ready-to-use services backed by an
// in-memory ledger.
type Kit struct {
	Ledger    *ledger.Memory
	Sims      *app.SimulationService
	Ensembles *app.EnsembleService
}

// NewKit creates a fully wired test kit
func NewKit() *Kit {
	mem := ledger.NewMemory()
	sims := app.NewSimulationService(rng.NewSeededRegistry, mem)
	return &Kit{
		Ledger:    mem,
		Sims:      sims,
		Ensembles: app.NewEnsembleService(sims, rng.DeriveSeed),
	}
}

// BitRegisterFactory builds the standard bit-register state fed by the
// run's measurement stream.
func BitRegisterFactory(registry ports.StreamRegistry, ringSize int) (ports.SimulationState, error) {
	scramble, err := registry.Stream(app.MeasurementStream)
	if err != nil {
		return nil, err
	}
	return state.NewBitRegister(ringSize, scramble)
}

// DomainWallObservable reads the domain-wall density off a bit register
func DomainWallObservable(st ports.SimulationState) float64 {
	reg, ok := st.(*state.BitRegister)
	if !ok {
		return 0
	}
	return observables.DomainWallDensity(reg.Bits())
}

// DefaultProtocol returns the standard staircase protocol over the
// bit-register state.
func DefaultProtocol(probability float64, ringSize int) app.StaircaseProtocol {
	return app.DefaultStaircaseProtocol(probability, ringSize, BitRegisterFactory)
}
