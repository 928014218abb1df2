package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	vm "chess-variant-engine/varmg"
)

func TestPawnEntryStartPos(t *testing.T) {
	ClearPawnHash()
	b := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	e := ProbePawns(b)

	require.Equal(t, ScoreZero, e.PawnsScore())
	require.Zero(t, e.PassedPawns(vm.White))
	require.Zero(t, e.PassedPawns(vm.Black))
	require.Equal(t, 0, e.OpenFiles())
	require.Equal(t, 0, e.Asymmetry())
	require.Equal(t, vm.Rank3BB, e.PawnAttacks(vm.White)&vm.Rank3BB)

	for f := 0; f < 8; f++ {
		require.False(t, e.SemiopenFile(vm.White, f))
		require.False(t, e.SemiopenFile(vm.Black, f))
	}
}

func TestPawnEntryPassedAndFiles(t *testing.T) {
	ClearPawnHash()
	// White: a2 passed; e-file open; black pawn h7 passed.
	b := vm.MustParseFEN("4k3/7p/8/8/8/8/P7/4K3 w - - 0 1", vm.VariantStandard)
	e := ProbePawns(b)

	require.Equal(t, vm.SquareBB[8], e.PassedPawns(vm.White))
	require.Equal(t, vm.SquareBB[55], e.PassedPawns(vm.Black))
	require.Equal(t, 6, e.OpenFiles())
	require.Equal(t, 2, e.Asymmetry())
	require.True(t, e.SemiopenFile(vm.White, 7))
	require.False(t, e.SemiopenFile(vm.White, 0))
	require.True(t, e.SemiopenFile(vm.Black, 0))
}

func TestPawnEntryCacheHit(t *testing.T) {
	ClearPawnHash()
	b := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	e1 := ProbePawns(b)
	e2 := ProbePawns(b)
	require.Same(t, e1, e2)
}

func TestWeakUnopposed(t *testing.T) {
	ClearPawnHash()
	// The isolated a2 pawn is unopposed; the isolated h2 pawn is opposed
	// by h7.
	b := vm.MustParseFEN("4k3/7p/8/8/8/8/P6P/4K3 w - - 0 1", vm.VariantStandard)
	e := ProbePawns(b)
	require.Equal(t, 1, e.WeakUnopposed(vm.White))
}

func TestSemiopenSide(t *testing.T) {
	ClearPawnHash()
	// White pawns only on files a-c: the side right of file d is all
	// semi-open for White.
	b := vm.MustParseFEN("4k3/pppppppp/8/8/8/8/PPP5/4K3 w - - 0 1", vm.VariantStandard)
	e := ProbePawns(b)
	require.True(t, e.SemiopenSide(vm.White, 3, false))
	require.False(t, e.SemiopenSide(vm.White, 3, true))
}

func TestKingSafetyPrefersShelter(t *testing.T) {
	ClearPawnHash()
	// A castled king behind its pawns scores better shelter than a bare
	// king on an open board.
	sheltered := vm.MustParseFEN("4k3/8/8/8/8/8/5PPP/6K1 w - - 0 1", vm.VariantStandard)
	bare := vm.MustParseFEN("4k3/8/8/8/8/6K1/8/8 w - - 0 1", vm.VariantStandard)

	se := ProbePawns(sheltered).KingSafety(sheltered, vm.White, sheltered.KingSquare(vm.White))
	be := ProbePawns(bare).KingSafety(bare, vm.White, bare.KingSquare(vm.White))
	require.Greater(t, se.Mg(), be.Mg())
}

func TestPawnsOnSameColorSquares(t *testing.T) {
	ClearPawnHash()
	b := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	e := ProbePawns(b)
	// The second rank alternates colors: four pawns each.
	require.Equal(t, 4, e.PawnsOnSameColorSquares(vm.White, vm.SqA1))
	require.Equal(t, 4, e.PawnsOnSameColorSquares(vm.White, vm.SqB1))
}
