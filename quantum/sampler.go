package quantum

import (
	"fmt"
	"math"

	"github.com/hershlalwani/qtomo/rng"
)

// Counts maps an N-bit outcome (qubit N-1 leftmost) to the number of shots
// that produced it. Outcomes that never occurred are absent.
type Counts map[string]int

// Total returns the number of shots recorded.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Frequencies returns each outcome's share of the total.
func (c Counts) Frequencies() map[string]float64 {
	total := float64(c.Total())
	out := make(map[string]float64, len(c))
	if total == 0 {
		return out
	}
	for k, v := range c {
		out[k] = float64(v) / total
	}
	return out
}

// Sampler draws computational-basis outcomes from a state vector.
type Sampler struct {
	// Tolerance on |Σp - 1|; zero means DefaultTolerance.
	Tolerance float64
	// OnDrift, if set, is called with the observed probability sum each
	// time the distribution had to be renormalised.
	OnDrift func(sum float64)
}

// Sample draws shots outcomes from the Born distribution of s. The cost is
// O(2^N) time and memory for the distribution plus O(shots·N) for the
// draws, which is what bounds the usable register width.
func (sm Sampler) Sample(s *StateVector, shots int, src *rng.Source) (Counts, error) {
	if shots < 1 {
		return nil, fmt.Errorf("%w: %d shots", ErrInvalidConfiguration, shots)
	}

	probs := s.Probabilities()
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: probability mass %v", ErrSamplingFailure, sum)
	}

	tol := sm.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if math.Abs(sum-1) > tol {
		for i := range probs {
			probs[i] /= sum
		}
		if sm.OnDrift != nil {
			sm.OnDrift(sum)
		}
	}

	draws, err := src.Multinomial(probs, shots)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSamplingFailure, err)
	}

	counts := make(Counts)
	for i, n := range draws {
		if n > 0 {
			counts[s.Bitstring(i)] = n
		}
	}
	return counts, nil
}
