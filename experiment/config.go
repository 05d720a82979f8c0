package experiment

import (
	"fmt"

	"github.com/hershlalwani/qtomo/quantum"
)

// Config is the run record consumed by New. It is filled by the config
// package or built directly by callers.
type Config struct {
	Name   string
	Seed   int64
	Qubits int
	Depth  int
	Shots  int

	// PauliBasis, when non-empty, is used verbatim and wins over Measurements.
	PauliBasis []quantum.Assignment
	// Measurements is the number of random assignments drawn when PauliBasis
	// is empty. Zero leaves the Runner without a default basis list.
	Measurements int

	// Workers above 1 evaluates measurement rounds in parallel.
	Workers int
	Verbose bool
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Qubits < 1 || c.Qubits > quantum.MaxQubits {
		return fmt.Errorf("%w: n-qubits %d, want 1..%d", quantum.ErrInvalidConfiguration, c.Qubits, quantum.MaxQubits)
	}
	if c.Depth < 0 {
		return fmt.Errorf("%w: depth %d", quantum.ErrInvalidConfiguration, c.Depth)
	}
	if c.Shots < 1 {
		return fmt.Errorf("%w: shots %d", quantum.ErrInvalidConfiguration, c.Shots)
	}
	if c.Measurements < 0 {
		return fmt.Errorf("%w: measurements %d", quantum.ErrInvalidConfiguration, c.Measurements)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", quantum.ErrInvalidConfiguration, c.Workers)
	}
	return validateBases(c.PauliBasis, c.Qubits)
}

// validateBases checks every assignment before any round runs, so a bad
// entry aborts the call without partial results.
func validateBases(bases []quantum.Assignment, n int) error {
	for i, a := range bases {
		if len(a) != n {
			return &quantum.AssignmentError{Index: i, Want: n, Got: len(a)}
		}
		if err := a.Validate(n); err != nil {
			return fmt.Errorf("basis assignment %d: %w", i, err)
		}
	}
	return nil
}
