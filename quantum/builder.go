package quantum

import (
	"fmt"

	"github.com/hershlalwani/qtomo/rng"
)

// BuildRandom generates a circuit of depth layers on n qubits. In every layer
// the qubits are visited in a random order; each slot receives either a
// single-qubit gate or, when at least two qubits remain, possibly a two-qubit
// gate on the next two qubits of the order. Every qubit is used exactly once
// per layer. depth 0 yields the identity circuit.
func BuildRandom(n, depth int, src *rng.Source) (*Circuit, error) {
	if err := checkWidth(n); err != nil {
		return nil, err
	}
	if depth < 0 {
		return nil, fmt.Errorf("%w: depth %d", ErrInvalidConfiguration, depth)
	}

	var gates []Gate
	for step := range depth {
		order := src.Perm(n)
		for i := 0; i < len(order); {
			pick, err := src.IntN(min(2, len(order)-i))
			if err != nil {
				return nil, err
			}
			if pick == 0 {
				g, err := randomGate(src, singleQubitGates)
				if err != nil {
					return nil, err
				}
				g.Target, g.Control, g.Step = order[i], -1, step
				gates = append(gates, g)
				i++
				continue
			}
			g, err := randomGate(src, twoQubitGates)
			if err != nil {
				return nil, err
			}
			g.Control, g.Target, g.Step = order[i], order[i+1], step
			gates = append(gates, g)
			i += 2
		}
	}
	return NewCircuit(n, depth, gates)
}

func randomGate(src *rng.Source, names []string) (Gate, error) {
	name, err := rng.Choice(src, names)
	if err != nil {
		return Gate{}, err
	}
	g := Gate{Type: name}
	for range vocabulary[name].params {
		g.Params = append(g.Params, src.Angle())
	}
	return g, nil
}
