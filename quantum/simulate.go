package quantum

import (
	"fmt"
	"math"
)

// DefaultTolerance is the norm and probability-sum tolerance.
const DefaultTolerance = 1e-9

// Simulator evolves |0…0⟩ through a circuit.
type Simulator struct {
	// Tolerance on |‖ψ‖ - 1|; zero means DefaultTolerance.
	Tolerance float64
	// OnDrift, if set, is called with the observed norm whenever the final
	// state had to be renormalised.
	OnDrift func(norm float64)
}

// Simulate runs c with the default Simulator.
func Simulate(c *Circuit) (*StateVector, error) {
	return Simulator{}.Run(c)
}

// Run applies the gates of c in order to |0…0⟩ and returns the final state.
func (sim Simulator) Run(c *Circuit) (*StateVector, error) {
	state := NewStateVector(c.numQubits)
	for i, g := range c.gates {
		if err := state.ApplyGate(g); err != nil {
			return nil, fmt.Errorf("gate %d: %w", i, err)
		}
	}

	tol := sim.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if norm := state.Norm(); math.Abs(norm-1) > tol {
		if err := state.Normalize(); err != nil {
			return nil, err
		}
		if sim.OnDrift != nil {
			sim.OnDrift(norm)
		}
	}
	return state, nil
}
