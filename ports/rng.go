package ports

// Stream is a named, seeded source of uniform values in [0,1). Repeated
// draws on the same seeded stream must be reproducible across runs and
// platforms; the generator itself is otherwise opaque.
type Stream interface {
	Float64() float64
}

// StreamRegistry owns the named streams of a single simulation run.
// Each name maps to exactly one stream for the lifetime of the run.
// Registration is only valid during setup; Freeze marks the end of setup,
// after which Register fails rather than silently resetting a stream that
// a reproducible run already depends on. A registry is private to its run
// and is never shared across concurrent runs.
type StreamRegistry interface {
	// Stream looks up a registered stream by name. Lookups of an
	// unregistered name are an error, not a silent default.
	Stream(name string) (Stream, error)

	// Register creates a seeded stream under the given name
	Register(name string, seed int64) error

	// Freeze ends the setup phase
	Freeze()
}

// RegistryFactory builds a private registry for one run, with one stream
// registered per named seed. The returned registry is not yet frozen so a
// run's setup phase can still look up streams before the first step.
type RegistryFactory func(seeds map[string]int64) (StreamRegistry, error)
