package quantum

import (
	"math"
	"strings"
	"testing"

	"github.com/hershlalwani/qtomo/rng"
	"github.com/stretchr/testify/require"
)

func TestDrawBellCircuit(t *testing.T) {
	c := mustCircuit(t, 3,
		NewGate("H", 0, 0),
		NewControlledGate("CX", 0, 2, 1),
		NewGate("RZ", 1, 2, math.Pi/2),
	)
	lines := strings.Split(c.Draw(), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "q[0]:"))
	require.Contains(t, lines[0], "H")
	require.Contains(t, lines[0], "●")
	require.Contains(t, lines[1], "┼")
	require.Contains(t, lines[1], "RZ(π/2)")
	require.Contains(t, lines[2], "⊕")
}

func TestDrawRowsHaveEqualWidth(t *testing.T) {
	c, err := BuildRandom(5, 4, rng.New(2))
	require.NoError(t, err)

	lines := strings.Split(c.Draw(), "\n")
	require.Len(t, lines, 5)
	width := len([]rune(lines[0]))
	for _, l := range lines[1:] {
		require.Equal(t, width, len([]rune(l)))
	}
}

func TestPadCenter(t *testing.T) {
	require.Equal(t, "─H─", padCenter("H", 3, "─"))
	require.Equal(t, "RZ(π)", padCenter("RZ(π)", 3, "─"))
	require.Equal(t, "─S†──", padCenter("S†", 5, "─"))
}
