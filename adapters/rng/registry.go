package rng

import (
	"math/rand"
	"sort"

	"qcsim/domain/core"
	"qcsim/ports"
)

// Registry implements ports.StreamRegistry over seeded math/rand sources.
// A source seeded with the same value yields the same draw sequence on
// every platform, which is all the simulation requires of its generator.
//
// A Registry is private to a single run and is not safe for concurrent
// use; sharing streams across runs would corrupt reproducibility.
type Registry struct {
	streams map[string]ports.Stream
	frozen  bool
}

// NewRegistry creates an empty, unfrozen registry
func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]ports.Stream)}
}

// NewSeededRegistry creates a registry with one stream per named seed.
// It satisfies ports.RegistryFactory; the result is left unfrozen so run
// setup can still resolve streams before the first step.
func NewSeededRegistry(seeds map[string]int64) (ports.StreamRegistry, error) {
	r := NewRegistry()
	// Deterministic registration order; registration itself consumes no
	// draws, this just keeps error reporting stable.
	names := make([]string, 0, len(seeds))
	for name := range seeds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.Register(name, seeds[name]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register creates a seeded stream under name. It fails once the registry
// is frozen, and never replaces an existing stream.
func (r *Registry) Register(name string, seed int64) error {
	if r.frozen {
		return core.NewFrozenRegistryError(name)
	}
	if name == "" {
		return core.NewUnknownStreamError(name)
	}
	if _, exists := r.streams[name]; exists {
		return core.NewDuplicateStreamError(name)
	}
	r.streams[name] = rand.New(rand.NewSource(seed))
	return nil
}

// Stream looks up a registered stream by name
func (r *Registry) Stream(name string) (ports.Stream, error) {
	stream, ok := r.streams[name]
	if !ok {
		return nil, core.NewUnknownStreamError(name)
	}
	return stream, nil
}

// Freeze ends the setup phase; all Register calls fail afterwards
func (r *Registry) Freeze() {
	r.frozen = true
}

// Names returns the registered stream names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.streams))
	for name := range r.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeriveSeed produces a per-run seed from a base seed, a stream name and
// a run index, so ensemble members draw from disjoint streams while
// remaining individually replayable.
func DeriveSeed(base int64, name string, index int) int64 {
	return base + int64(hashString(name)) + int64(index)*1_000_003
}

// hashString creates a simple hash for deterministic seeding (djb2)
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
