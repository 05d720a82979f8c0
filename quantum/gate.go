package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// Complex is the amplitude type used throughout the package.
type Complex = complex128

// Matrix2 is a 2×2 unitary in row-major order.
type Matrix2 [2][2]Complex

// GateKind distinguishes single-qubit gates from two-qubit gates.
type GateKind int

const (
	SingleQubit GateKind = iota + 1
	TwoQubit
)

func (k GateKind) String() string {
	switch k {
	case SingleQubit:
		return "single"
	case TwoQubit:
		return "two-qubit"
	}
	return "unknown"
}

// gateSpec describes one vocabulary entry.
type gateSpec struct {
	kind   GateKind
	params int
	// base is the single-qubit gate applied to the target of a controlled
	// gate. Empty for SWAP and for single-qubit gates.
	base string
}

var vocabulary = map[string]gateSpec{
	"I":    {kind: SingleQubit},
	"H":    {kind: SingleQubit},
	"X":    {kind: SingleQubit},
	"Y":    {kind: SingleQubit},
	"Z":    {kind: SingleQubit},
	"S":    {kind: SingleQubit},
	"SDG":  {kind: SingleQubit},
	"T":    {kind: SingleQubit},
	"TDG":  {kind: SingleQubit},
	"SX":   {kind: SingleQubit},
	"SXDG": {kind: SingleQubit},
	"RX":   {kind: SingleQubit, params: 1},
	"RY":   {kind: SingleQubit, params: 1},
	"RZ":   {kind: SingleQubit, params: 1},
	"P":    {kind: SingleQubit, params: 1},
	"CX":   {kind: TwoQubit, base: "X"},
	"CY":   {kind: TwoQubit, base: "Y"},
	"CZ":   {kind: TwoQubit, base: "Z"},
	"CH":   {kind: TwoQubit, base: "H"},
	"SWAP": {kind: TwoQubit},
	"CRZ":  {kind: TwoQubit, params: 1, base: "RZ"},
	"CP":   {kind: TwoQubit, params: 1, base: "P"},
}

// Draw order for the random builder. Fixed slices keep generation
// reproducible; map iteration order is not.
var (
	singleQubitGates = []string{"I", "H", "X", "Y", "Z", "S", "SDG", "T", "TDG", "SX", "SXDG", "RX", "RY", "RZ", "P"}
	twoQubitGates    = []string{"CX", "CY", "CZ", "CH", "SWAP", "CRZ", "CP"}
)

// GateNames returns the supported gate names of the given kind.
func GateNames(kind GateKind) []string {
	switch kind {
	case SingleQubit:
		return slices.Clone(singleQubitGates)
	case TwoQubit:
		return slices.Clone(twoQubitGates)
	}
	return nil
}

// Gate represents a quantum gate placed on the circuit.
type Gate struct {
	Type    string
	Target  int
	Control int       // -1 if not a two-qubit gate; for SWAP the second qubit
	Params  []float64 // angles of parametric gates
	Step    int       // layer the gate belongs to
}

// NewGate returns a single-qubit gate.
func NewGate(gateType string, target, step int, params ...float64) Gate {
	return Gate{Type: gateType, Target: target, Control: -1, Params: params, Step: step}
}

// NewControlledGate returns a two-qubit gate acting on control and target.
func NewControlledGate(gateType string, control, target, step int, params ...float64) Gate {
	return Gate{Type: gateType, Target: target, Control: control, Params: params, Step: step}
}

// Kind reports whether g acts on one or two qubits.
func (g Gate) Kind() GateKind {
	return vocabulary[g.Type].kind
}

// Qubits lists the qubits g touches, control first.
func (g Gate) Qubits() []int {
	if g.Control >= 0 {
		return []int{g.Control, g.Target}
	}
	return []int{g.Target}
}

// validate checks g against the vocabulary and the qubit range [0, n).
func (g Gate) validate(n int) error {
	info, ok := vocabulary[g.Type]
	if !ok {
		return fmt.Errorf("%w: unknown gate %q", ErrInvalidCircuit, g.Type)
	}
	if len(g.Params) != info.params {
		return fmt.Errorf("%w: gate %s takes %d parameters, got %d", ErrInvalidCircuit, g.Type, info.params, len(g.Params))
	}
	if g.Target < 0 || g.Target >= n {
		return fmt.Errorf("%w: gate %s targets qubit %d outside [0, %d)", ErrInvalidCircuit, g.Type, g.Target, n)
	}
	switch info.kind {
	case SingleQubit:
		if g.Control >= 0 {
			return fmt.Errorf("%w: single-qubit gate %s has a control qubit", ErrInvalidCircuit, g.Type)
		}
	case TwoQubit:
		if g.Control < 0 || g.Control >= n {
			return fmt.Errorf("%w: gate %s uses qubit %d outside [0, %d)", ErrInvalidCircuit, g.Type, g.Control, n)
		}
		if g.Control == g.Target {
			return fmt.Errorf("%w: gate %s uses qubit %d twice", ErrInvalidCircuit, g.Type, g.Target)
		}
	}
	return nil
}

// singleMatrix returns the 2×2 unitary of a single-qubit gate.
func singleMatrix(name string, params []float64) (Matrix2, bool) {
	r := complex(1/math.Sqrt2, 0)
	theta := 0.0
	if len(params) > 0 {
		theta = params[0]
	}
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)

	switch name {
	case "I":
		return Matrix2{{1, 0}, {0, 1}}, true
	case "H":
		return Matrix2{{r, r}, {r, -r}}, true
	case "X":
		return Matrix2{{0, 1}, {1, 0}}, true
	case "Y":
		return Matrix2{{0, -1i}, {1i, 0}}, true
	case "Z":
		return Matrix2{{1, 0}, {0, -1}}, true
	case "S":
		return Matrix2{{1, 0}, {0, 1i}}, true
	case "SDG":
		return Matrix2{{1, 0}, {0, -1i}}, true
	case "T":
		return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}, true
	case "TDG":
		return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}, true
	case "SX":
		return Matrix2{{0.5 + 0.5i, 0.5 - 0.5i}, {0.5 - 0.5i, 0.5 + 0.5i}}, true
	case "SXDG":
		return Matrix2{{0.5 - 0.5i, 0.5 + 0.5i}, {0.5 + 0.5i, 0.5 - 0.5i}}, true
	case "RX":
		return Matrix2{{c, -1i * s}, {-1i * s, c}}, true
	case "RY":
		return Matrix2{{c, -s}, {s, c}}, true
	case "RZ":
		return Matrix2{{cmplx.Exp(complex(0, -theta/2)), 0}, {0, cmplx.Exp(complex(0, theta/2))}}, true
	case "P":
		return Matrix2{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}, true
	}
	return Matrix2{}, false
}

// Dagger returns the conjugate transpose of m.
func (m Matrix2) Dagger() Matrix2 {
	return Matrix2{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}
