package quantum

import (
	"fmt"
	"slices"
	"strings"
)

// MaxQubits bounds the register width. The density matrix holds 4^N complex
// entries, about 268 MB at 12 qubits.
const MaxQubits = 12

// Circuit is an ordered, immutable gate sequence over NumQubits qubits.
type Circuit struct {
	numQubits int
	depth     int
	gates     []Gate
	measured  bool
}

// NewCircuit validates gates against numQubits and returns the circuit.
// depth is the number of layers the gates were generated in.
func NewCircuit(numQubits, depth int, gates []Gate) (*Circuit, error) {
	if err := checkWidth(numQubits); err != nil {
		return nil, err
	}
	if depth < 0 {
		return nil, fmt.Errorf("%w: depth %d", ErrInvalidConfiguration, depth)
	}
	for i, g := range gates {
		if err := g.validate(numQubits); err != nil {
			return nil, fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return &Circuit{numQubits: numQubits, depth: depth, gates: cloneGates(gates)}, nil
}

func checkWidth(n int) error {
	if n < 1 || n > MaxQubits {
		return fmt.Errorf("%w: %d qubits, want 1..%d", ErrInvalidConfiguration, n, MaxQubits)
	}
	return nil
}

func cloneGates(gates []Gate) []Gate {
	out := make([]Gate, len(gates))
	for i, g := range gates {
		g.Params = slices.Clone(g.Params)
		out[i] = g
	}
	return out
}

func (c *Circuit) NumQubits() int { return c.numQubits }

func (c *Circuit) Depth() int { return c.depth }

// Gates returns a copy of the gate sequence.
func (c *Circuit) Gates() []Gate { return cloneGates(c.gates) }

// Len returns the number of gates.
func (c *Circuit) Len() int { return len(c.gates) }

// Layer returns the gates generated in layer step.
func (c *Circuit) Layer(step int) []Gate {
	var out []Gate
	for _, g := range c.gates {
		if g.Step == step {
			out = append(out, g)
		}
	}
	return cloneGates(out)
}

// WithRotations returns a new circuit with the basis-change rotations for a
// appended in a final layer and a measurement on every qubit.
func (c *Circuit) WithRotations(a Assignment) (*Circuit, error) {
	if len(a) != c.numQubits {
		return nil, &AssignmentError{Index: -1, Want: c.numQubits, Got: len(a)}
	}
	rot, err := RotationGates(a, c.depth)
	if err != nil {
		return nil, err
	}
	gates := append(cloneGates(c.gates), rot...)
	return &Circuit{numQubits: c.numQubits, depth: c.depth + 1, gates: gates, measured: true}, nil
}

// QASM renders the circuit as OpenQASM 2.0. Layers are separated by
// barriers; measured circuits end with a measurement of every qubit.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", c.numQubits)

	step := -1
	for _, g := range c.gates {
		if step >= 0 && g.Step != step {
			c.writeBarrier(&sb)
		}
		step = g.Step
		writeGateQASM(&sb, g)
	}
	if c.measured {
		c.writeBarrier(&sb)
		for q := range c.numQubits {
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
		}
	}
	return sb.String()
}

func (c *Circuit) writeBarrier(sb *strings.Builder) {
	qubits := make([]string, c.numQubits)
	for q := range c.numQubits {
		qubits[q] = fmt.Sprintf("q[%d]", q)
	}
	fmt.Fprintf(sb, "barrier %s;\n", strings.Join(qubits, ", "))
}

func writeGateQASM(sb *strings.Builder, g Gate) {
	name := strings.ToLower(g.Type)
	if g.Type == "I" {
		name = "id"
	}
	if len(g.Params) > 0 {
		name = fmt.Sprintf("%s(%s)", name, formatAngles(g.Params))
	}
	if g.Control >= 0 {
		fmt.Fprintf(sb, "%s q[%d], q[%d];\n", name, g.Control, g.Target)
		return
	}
	fmt.Fprintf(sb, "%s q[%d];\n", name, g.Target)
}
