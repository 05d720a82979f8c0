package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// StateVector holds the 2^N amplitudes of an N-qubit pure state. Bit q of an
// amplitude index is the value of qubit q.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0…0⟩ on numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy.
func (s *StateVector) Clone() *StateVector {
	return &StateVector{Amplitudes: slices.Clone(s.Amplitudes), NumQubits: s.NumQubits}
}

// ApplyGate applies g in place. The gate is validated against the register
// width first.
func (s *StateVector) ApplyGate(g Gate) error {
	if err := g.validate(s.NumQubits); err != nil {
		return err
	}
	info := vocabulary[g.Type]
	switch {
	case g.Type == "SWAP":
		s.applySWAP(g.Control, g.Target)
	case info.kind == TwoQubit:
		m, _ := singleMatrix(info.base, g.Params)
		s.applyControlled(g.Control, g.Target, m)
	case g.Type == "I":
	default:
		m, _ := singleMatrix(g.Type, g.Params)
		s.applyMatrix(g.Target, m)
	}
	return nil
}

// applyMatrix applies m to qubit q, acting as the identity elsewhere.
func (s *StateVector) applyMatrix(q int, m Matrix2) {
	s.transform(1<<q, 0, 0, m)
}

// applyControlled applies m to target on the subspace where control is 1.
func (s *StateVector) applyControlled(control, target int, m Matrix2) {
	s.transform(1<<target, 1<<control, 1<<control, m)
}

// transform mixes every amplitude pair (i, i|bit) with i&bit == 0 and
// i&mask == want.
func (s *StateVector) transform(bit, mask, want int, m Matrix2) {
	amps := s.Amplitudes
	for i := range amps {
		if i&bit != 0 || i&mask != want {
			continue
		}
		j := i | bit
		a0, a1 := amps[i], amps[j]
		amps[i] = m[0][0]*a0 + m[0][1]*a1
		amps[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

// applySWAP exchanges the amplitudes of |..1..0..> and |..0..1..>.
func (s *StateVector) applySWAP(q1, q2 int) {
	b1, b2 := 1<<q1, 1<<q2
	amps := s.Amplitudes
	for i := range amps {
		if i&b1 != 0 && i&b2 == 0 {
			j := i&^b1 | b2
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

// Norm returns the Euclidean norm of the amplitude vector.
func (s *StateVector) Norm() float64 {
	sum := 0.0
	for _, a := range s.Amplitudes {
		sum += real(a * cmplx.Conj(a))
	}
	return math.Sqrt(sum)
}

// Normalize rescales the amplitudes to unit norm.
func (s *StateVector) Normalize() error {
	norm := s.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return fmt.Errorf("%w: state norm %v", ErrNumericalDrift, norm)
	}
	f := complex(1/norm, 0)
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= f
	}
	return nil
}

// Probabilities returns |amplitude|² for every computational basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// Bitstring renders basis index i with qubit N-1 leftmost.
func (s *StateVector) Bitstring(i int) string {
	return fmt.Sprintf("%0*b", s.NumQubits, i)
}

// QubitProbability is the marginal outcome distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal outcome probabilities of each qubit
// in the computational basis.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	out := make([]QubitProbability, s.NumQubits)
	for i, p := range s.Probabilities() {
		for q := range out {
			if i>>q&1 == 1 {
				out[q].Prob1 += p
			} else {
				out[q].Prob0 += p
			}
		}
	}
	return out
}
