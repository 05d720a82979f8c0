package rng_test

import (
	"testing"

	"github.com/hershlalwani/qtomo/rng"
	"github.com/stretchr/testify/require"
)

// TestSameSeedSameDraws checks that two sources from one seed agree draw for draw.
func TestSameSeedSameDraws(t *testing.T) {
	a, b := rng.New(42), rng.New(42)
	for range 100 {
		x, err := a.IntN(1000)
		require.NoError(t, err)
		y, err := b.IntN(1000)
		require.NoError(t, err)
		require.Equal(t, x, y)
	}
	require.Equal(t, a.Perm(16), b.Perm(16))
	require.Equal(t, a.Angle(), b.Angle())
}

// TestStreamsAreIndependent checks that named streams differ from one another
// and from the root stream, while staying reproducible.
func TestStreamsAreIndependent(t *testing.T) {
	draw := func(s *rng.Source) []float64 {
		out := make([]float64, 8)
		for i := range out {
			out[i] = s.Float64()
		}
		return out
	}

	root := draw(rng.New(7))
	shots0 := draw(rng.Stream(7, "shots", 0))
	shots1 := draw(rng.Stream(7, "shots", 1))
	basis0 := draw(rng.Stream(7, "basis", 0))

	require.NotEqual(t, root, shots0)
	require.NotEqual(t, shots0, shots1)
	require.NotEqual(t, shots0, basis0)
	require.Equal(t, shots1, draw(rng.Stream(7, "shots", 1)))
}

func TestIntNRejectsEmptyRange(t *testing.T) {
	_, err := rng.New(1).IntN(0)
	require.ErrorIs(t, err, rng.ErrInvalidArgument)
}

func TestChoiceGridShape(t *testing.T) {
	alphabet := []string{"X", "Y", "Z"}
	grid, err := rng.ChoiceGrid(rng.New(3), alphabet, 5, 4)
	require.NoError(t, err)
	require.Len(t, grid, 5)
	for _, row := range grid {
		require.Len(t, row, 4)
		for _, v := range row {
			require.Contains(t, alphabet, v)
		}
	}

	_, err = rng.ChoiceGrid(rng.New(3), []string{}, 1, 1)
	require.ErrorIs(t, err, rng.ErrInvalidArgument)

	_, err = rng.Choice(rng.New(3), []int{})
	require.ErrorIs(t, err, rng.ErrInvalidArgument)
}

func TestMultinomialConservesTrials(t *testing.T) {
	src := rng.New(11)
	probs := []float64{0.1, 0, 0.4, 0.5}
	for _, trials := range []int{0, 1, 7, 1000} {
		counts, err := src.Multinomial(probs, trials)
		require.NoError(t, err)
		require.Len(t, counts, len(probs))

		sum := 0
		for _, c := range counts {
			sum += c
		}
		require.Equal(t, trials, sum)
		require.Zero(t, counts[1], "zero-probability category was drawn")
	}
}

func TestMultinomialDegenerate(t *testing.T) {
	counts, err := rng.New(5).Multinomial([]float64{0, 0, 1, 0}, 250)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 250, 0}, counts)
}

func TestMultinomialRejectsBadInput(t *testing.T) {
	src := rng.New(5)

	_, err := src.Multinomial(nil, 3)
	require.ErrorIs(t, err, rng.ErrInvalidArgument)

	_, err = src.Multinomial([]float64{0, 0}, 3)
	require.ErrorIs(t, err, rng.ErrInvalidArgument)

	_, err = src.Multinomial([]float64{0.5, -0.1}, 3)
	require.ErrorIs(t, err, rng.ErrInvalidArgument)

	_, err = src.Multinomial([]float64{1}, -1)
	require.ErrorIs(t, err, rng.ErrInvalidArgument)
}
