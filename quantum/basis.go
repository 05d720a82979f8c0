package quantum

import (
	"fmt"
	"slices"
	"strings"
)

// Pauli names a single-qubit measurement basis.
type Pauli string

const (
	PauliX Pauli = "X"
	PauliY Pauli = "Y"
	PauliZ Pauli = "Z"
)

// Paulis is the basis alphabet in draw order.
var Paulis = []Pauli{PauliX, PauliY, PauliZ}

// ParsePauli accepts "X", "Y" or "Z" in either case.
func ParsePauli(s string) (Pauli, error) {
	p := Pauli(strings.ToUpper(strings.TrimSpace(s)))
	if !slices.Contains(Paulis, p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBasis, s)
	}
	return p, nil
}

// Assignment is one measurement round: element i is the basis of qubit i.
type Assignment []Pauli

// ParseAssignment converts a list of basis symbols.
func ParseAssignment(symbols []string) (Assignment, error) {
	a := make(Assignment, len(symbols))
	for i, s := range symbols {
		p, err := ParsePauli(s)
		if err != nil {
			return nil, fmt.Errorf("qubit %d: %w", i, err)
		}
		a[i] = p
	}
	return a, nil
}

// ParseAssignmentString converts a compact form such as "XYZ".
func ParseAssignmentString(s string) (Assignment, error) {
	symbols := make([]string, 0, len(s))
	for _, r := range s {
		symbols = append(symbols, string(r))
	}
	return ParseAssignment(symbols)
}

// String returns the compact form, e.g. "XYZ".
func (a Assignment) String() string {
	var sb strings.Builder
	for _, p := range a {
		sb.WriteString(string(p))
	}
	return sb.String()
}

// Validate checks every symbol and the length against numQubits.
func (a Assignment) Validate(numQubits int) error {
	if len(a) != numQubits {
		return &AssignmentError{Index: -1, Want: numQubits, Got: len(a)}
	}
	for i, p := range a {
		if !slices.Contains(Paulis, p) {
			return fmt.Errorf("qubit %d: %w: %q", i, ErrInvalidBasis, string(p))
		}
	}
	return nil
}

// RotationGates returns the gates that map measurement in a onto measurement
// in the computational basis: H for X, S† then H for Y, nothing for Z. The
// gates are placed in layer step.
func RotationGates(a Assignment, step int) ([]Gate, error) {
	var gates []Gate
	for q, p := range a {
		switch p {
		case PauliX:
			gates = append(gates, NewGate("H", q, step))
		case PauliY:
			gates = append(gates, NewGate("SDG", q, step), NewGate("H", q, step))
		case PauliZ:
		default:
			return nil, fmt.Errorf("qubit %d: %w: %q", q, ErrInvalidBasis, string(p))
		}
	}
	return gates, nil
}

// Rotate returns a copy of s rotated so that a computational-basis
// measurement of the copy measures s in a. s is not modified.
func Rotate(s *StateVector, a Assignment) (*StateVector, error) {
	if err := a.Validate(s.NumQubits); err != nil {
		return nil, err
	}
	gates, err := RotationGates(a, 0)
	if err != nil {
		return nil, err
	}
	out := s.Clone()
	for _, g := range gates {
		m, _ := singleMatrix(g.Type, nil)
		out.applyMatrix(g.Target, m)
	}
	return out, nil
}

// Unrotate undoes Rotate: it applies the adjoint rotations in reverse order
// to a copy of s.
func Unrotate(s *StateVector, a Assignment) (*StateVector, error) {
	if err := a.Validate(s.NumQubits); err != nil {
		return nil, err
	}
	gates, err := RotationGates(a, 0)
	if err != nil {
		return nil, err
	}
	out := s.Clone()
	for _, g := range slices.Backward(gates) {
		m, _ := singleMatrix(g.Type, nil)
		out.applyMatrix(g.Target, m.Dagger())
	}
	return out, nil
}
