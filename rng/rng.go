// Package rng supplies the seeded randomness used by circuit generation,
// basis selection and shot sampling. Every draw comes from an explicit
// *Source; there is no package-level generator.
package rng

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"
)

// ErrInvalidArgument is returned for empty alphabets, non-positive ranges,
// negative trial counts and probability vectors without positive mass.
var ErrInvalidArgument = errors.New("rng: invalid argument")

// golden is the 64-bit golden-ratio increment used to spread stream indices.
const golden = 0x9e3779b97f4a7c15

// Source is a deterministic random number generator. Two sources built from
// the same seed (and stream name/index) yield identical draws.
type Source struct {
	r *rand.Rand
}

// New returns the root stream for seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Stream returns an independent sub-stream of seed identified by name and
// index, e.g. Stream(seed, "shots", 7) for the eighth measurement round.
func Stream(seed int64, name string, index uint64) *Source {
	h := fnv.New64a()
	h.Write([]byte(name))
	return &Source{r: rand.New(rand.NewPCG(uint64(seed), h.Sum64()^((index+1)*golden)))}
}

// IntN returns a uniform integer in [0, n).
func (s *Source) IntN(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: range %d", ErrInvalidArgument, n)
	}
	return s.r.IntN(n), nil
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Angle returns a uniform rotation angle in [0, 2π).
func (s *Source) Angle() float64 {
	return 2 * math.Pi * s.r.Float64()
}

// Perm returns a random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	return s.r.Perm(n)
}

// Choice draws one element of alphabet uniformly.
func Choice[T any](s *Source, alphabet []T) (T, error) {
	var zero T
	if len(alphabet) == 0 {
		return zero, fmt.Errorf("%w: empty alphabet", ErrInvalidArgument)
	}
	return alphabet[s.r.IntN(len(alphabet))], nil
}

// ChoiceGrid draws a rows×cols grid of uniform choices from alphabet, filled
// row by row.
func ChoiceGrid[T any](s *Source, alphabet []T, rows, cols int) ([][]T, error) {
	if len(alphabet) == 0 {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidArgument)
	}
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: shape (%d, %d)", ErrInvalidArgument, rows, cols)
	}
	grid := make([][]T, rows)
	for i := range grid {
		row := make([]T, cols)
		for j := range row {
			row[j] = alphabet[s.r.IntN(len(alphabet))]
		}
		grid[i] = row
	}
	return grid, nil
}

// Multinomial distributes trials over the categories of probs and returns
// the per-category counts. probs need not be normalised but must carry
// positive finite mass; negative entries are rejected.
func (s *Source) Multinomial(probs []float64, trials int) ([]int, error) {
	if trials < 0 {
		return nil, fmt.Errorf("%w: %d trials", ErrInvalidArgument, trials)
	}
	if len(probs) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidArgument)
	}

	cdf := make([]float64, len(probs))
	last := -1
	total := 0.0
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: probability %v at %d", ErrInvalidArgument, p, i)
		}
		total += p
		cdf[i] = total
		if p > 0 {
			last = i
		}
	}
	if last < 0 || total <= 0 {
		return nil, fmt.Errorf("%w: zero probability mass", ErrInvalidArgument)
	}

	counts := make([]int, len(probs))
	for range trials {
		u := s.r.Float64() * total
		k := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
		if k > last {
			k = last
		}
		counts[k]++
	}
	return counts, nil
}
