package quantum

import (
	"testing"

	"github.com/hershlalwani/qtomo/rng"
	"github.com/stretchr/testify/require"
)

func TestBuildRandomUsesEveryQubitOncePerLayer(t *testing.T) {
	for n := 1; n <= 8; n++ {
		c, err := BuildRandom(n, 5, rng.New(int64(n)))
		require.NoError(t, err)
		require.Equal(t, n, c.NumQubits())
		require.Equal(t, 5, c.Depth())

		for step := range c.Depth() {
			seen := make(map[int]int)
			for _, g := range c.Layer(step) {
				for _, q := range g.Qubits() {
					seen[q]++
				}
			}
			require.Len(t, seen, n, "layer %d", step)
			for q, k := range seen {
				require.Equal(t, 1, k, "qubit %d used %d times in layer %d", q, k, step)
			}
		}
	}
}

func TestBuildRandomMixesGateKinds(t *testing.T) {
	c, err := BuildRandom(6, 20, rng.New(9))
	require.NoError(t, err)

	kinds := make(map[GateKind]int)
	for _, g := range c.Gates() {
		kinds[g.Kind()]++
		require.Len(t, g.Params, vocabulary[g.Type].params)
	}
	require.Positive(t, kinds[SingleQubit])
	require.Positive(t, kinds[TwoQubit])
}

func TestBuildRandomRejectsBadShape(t *testing.T) {
	_, err := BuildRandom(0, 3, rng.New(1))
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = BuildRandom(MaxQubits+1, 3, rng.New(1))
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = BuildRandom(2, -1, rng.New(1))
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestBuildRandomDepthZero(t *testing.T) {
	c, err := BuildRandom(4, 0, rng.New(1))
	require.NoError(t, err)
	require.Zero(t, c.Len())
}

func TestCircuitIsImmutable(t *testing.T) {
	c, err := BuildRandom(3, 2, rng.New(5))
	require.NoError(t, err)

	gates := c.Gates()
	gates[0].Type = "FOO"
	require.NotEqual(t, "FOO", c.Gates()[0].Type)
}

func TestNewCircuitRejectsOutOfRangeGate(t *testing.T) {
	_, err := NewCircuit(2, 1, []Gate{NewGate("H", 2, 0)})
	require.ErrorIs(t, err, ErrInvalidCircuit)
}

func TestGateNames(t *testing.T) {
	require.Contains(t, GateNames(SingleQubit), "H")
	require.Contains(t, GateNames(TwoQubit), "CX")
	require.Nil(t, GateNames(GateKind(0)))
	require.Equal(t, "two-qubit", TwoQubit.String())
}
