package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrRunNotFound      = fmt.Errorf("%w: run", ErrNotFound)
	ErrEnsembleNotFound = fmt.Errorf("%w: ensemble", ErrNotFound)

	// Registry misuse errors
	ErrUnknownStream   = errors.New("unknown rng stream")
	ErrRegistryFrozen  = errors.New("rng stream registry frozen")
	ErrDuplicateStream = errors.New("rng stream already registered")

	// Circuit errors
	ErrInvalidProbability = errors.New("probability outside [0,1]")
	ErrInvalidRingSize    = errors.New("ring size must be positive")
	ErrSiteOutOfRange     = errors.New("site outside ring")
	ErrInvalidAction      = errors.New("action missing gate or geometry")
	ErrUnsupportedGate    = errors.New("unsupported gate")
	ErrGateApplication    = errors.New("gate application failed")

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrPairDesynced     = errors.New("staircase pair out of sync")
)

// Error constructors with context
func NewUnknownStreamError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownStream, name)
}

func NewDuplicateStreamError(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateStream, name)
}

func NewFrozenRegistryError(name string) error {
	return fmt.Errorf("%w: cannot register %q after simulation start", ErrRegistryFrozen, name)
}

func NewInvalidProbabilityError(p float64) error {
	return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
}

func NewRingSizeError(ringSize int) error {
	return fmt.Errorf("%w: %d", ErrInvalidRingSize, ringSize)
}

func NewSiteError(site, ringSize int) error {
	return fmt.Errorf("%w: site %d, ring size %d", ErrSiteOutOfRange, site, ringSize)
}

func NewGateApplicationError(gate string, site int, err error) error {
	return fmt.Errorf("%w: gate %s at site %d: %w", ErrGateApplication, gate, site, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsRegistryError(err error) bool {
	return errors.Is(err, ErrUnknownStream) ||
		errors.Is(err, ErrRegistryFrozen) ||
		errors.Is(err, ErrDuplicateStream)
}

func IsCircuitError(err error) bool {
	return errors.Is(err, ErrInvalidProbability) ||
		errors.Is(err, ErrInvalidRingSize) ||
		errors.Is(err, ErrSiteOutOfRange) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrUnsupportedGate)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrPairDesynced)
}
