package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScorePacking(t *testing.T) {
	cases := [][2]int{
		{0, 0}, {1, 2}, {-1, -2}, {100, -100}, {-848, 40},
		{2425, 603}, {-30000, 30000}, {17, -5},
	}
	for _, c := range cases {
		s := S(c[0], c[1])
		require.Equal(t, c[0], s.Mg(), "mg of %v", c)
		require.Equal(t, c[1], s.Eg(), "eg of %v", c)
	}
}

func TestScoreArithmetic(t *testing.T) {
	a := S(12, -7)
	b := S(-5, 20)
	sum := a + b
	require.Equal(t, 7, sum.Mg())
	require.Equal(t, 13, sum.Eg())

	diff := a - b
	require.Equal(t, 17, diff.Mg())
	require.Equal(t, -27, diff.Eg())

	require.Equal(t, S(36, -21), a.Mul(3))
	require.Equal(t, S(-36, 21), a.Mul(-3))
}

func TestScoreAccumulationCarries(t *testing.T) {
	// Long alternating accumulations must not leak between the halves.
	total := ScoreZero
	for i := 0; i < 1000; i++ {
		total += S(3, -5)
		total -= S(1, -2)
	}
	require.Equal(t, 2000, total.Mg())
	require.Equal(t, -3000, total.Eg())
}
