package quantum

import (
	"errors"
	"fmt"
)

// Every message carries the "quantum: " prefix. Callers match with errors.Is;
// context is added with fmt.Errorf("...: %w", ErrX).
var (
	// ErrInvalidConfiguration covers bad qubit counts, depths, shot counts
	// and basis assignments of the wrong length.
	ErrInvalidConfiguration = errors.New("quantum: invalid configuration")

	// ErrInvalidBasis is returned for basis symbols outside {X, Y, Z}.
	ErrInvalidBasis = fmt.Errorf("%w: invalid pauli basis", ErrInvalidConfiguration)

	// ErrInvalidCircuit marks a malformed circuit: qubit out of range,
	// unknown gate or wrong parameter count. Always fatal.
	ErrInvalidCircuit = errors.New("quantum: invalid circuit")

	// ErrNumericalDrift reports a norm or probability sum outside tolerance.
	// The sampler recovers by renormalising.
	ErrNumericalDrift = errors.New("quantum: numerical drift")

	// ErrSamplingFailure means the probability vector could not be sampled.
	ErrSamplingFailure = errors.New("quantum: sampling failure")
)

// AssignmentError reports a basis assignment whose length does not match the
// circuit's qubit count.
type AssignmentError struct {
	Index int
	Want  int
	Got   int
}

func (e *AssignmentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("quantum: basis assignment has %d symbols, want %d", e.Got, e.Want)
	}
	return fmt.Sprintf("quantum: basis assignment %d has %d symbols, want %d", e.Index, e.Got, e.Want)
}

func (e *AssignmentError) Unwrap() error {
	return ErrInvalidConfiguration
}
