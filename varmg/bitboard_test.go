package varmg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKnightMoves(t *testing.T) {
	// Knight on e4 reaches its eight squares.
	e4 := Square(28)
	expect := SquareBB[11] | SquareBB[13] | SquareBB[18] | SquareBB[22] |
		SquareBB[34] | SquareBB[38] | SquareBB[43] | SquareBB[45]
	require.Equal(t, expect, KnightMoves(e4))

	// Corner knight has two moves.
	require.Equal(t, 2, PopCount(KnightMoves(SqA1)))
}

func TestSliderAttacksEmptyBoard(t *testing.T) {
	require.Equal(t, (FileABB|Rank1BB)&^SquareBB[SqA1], RookAttacks(SqA1, 0))
	require.Equal(t, 7, PopCount(BishopAttacks(SqA1, 0)))
	require.Equal(t, 27, PopCount(QueenAttacks(SqE4, 0)))
}

func TestSliderAttacksBlockers(t *testing.T) {
	// Rook a1 with a blocker on a4 sees a2..a4 and the first rank.
	occ := SquareBB[24] // a4
	att := RookAttacks(SqA1, occ)
	require.NotZero(t, att&SquareBB[24])
	require.Zero(t, att&SquareBB[32]) // a5 hidden
}

func TestPawnAttacks(t *testing.T) {
	e2 := Square(12)
	require.Equal(t, SquareBB[19]|SquareBB[21], PawnAttacks(White, e2))
	require.Equal(t, SquareBB[3]|SquareBB[5], PawnAttacks(Black, e2))

	// Rim pawns attack a single square.
	require.Equal(t, 1, PopCount(PawnAttacks(White, Square(8))))

	pawns := SquareBB[12] | SquareBB[13]
	require.Equal(t, PawnAttacks(White, 12)|PawnAttacks(White, 13), PawnAttacksBB(White, pawns))

	// e3 is hit by both the d2 and f2 pawns.
	require.Equal(t, SquareBB[20], PawnDoubleAttacksBB(White, SquareBB[11]|SquareBB[13]))
}

func TestLineAndBetween(t *testing.T) {
	a1, h8 := SqA1, SqH8
	require.NotZero(t, LineBB(a1, h8)&SquareBB[27]) // d4 on the long diagonal
	require.Equal(t, 6, PopCount(BetweenBB(a1, h8)))
	require.Zero(t, LineBB(SqA1, Square(17))) // a1-b3 not aligned

	// Between is empty for adjacent squares.
	require.Zero(t, BetweenBB(SqA1, SqB1))
}

func TestDistanceTables(t *testing.T) {
	require.Equal(t, 7, Distance(SqA1, SqH8))
	require.Equal(t, 7, Distance(SqA1, SqH1))
	require.Equal(t, 1, Distance(SqD4, SqE5))
	require.Equal(t, 0, Distance(SqD4, SqD4))

	// Every square except sq itself is in exactly one ring.
	var union uint64
	for d := 1; d <= 7; d++ {
		union |= DistanceRing(SqE4, d)
	}
	require.Equal(t, AllSquares&^SquareBB[SqE4], union)
}

func TestRelativeHelpers(t *testing.T) {
	require.Equal(t, 0, RelativeRank(White, SqA1))
	require.Equal(t, 7, RelativeRank(Black, SqA1))
	require.Equal(t, SqA8, RelativeSquare(Black, SqA1))

	require.Equal(t, Rank3BB, ShiftUp(White, Rank2BB))
	require.Equal(t, Rank6BB, ShiftUp(Black, Rank7BB))
	require.Equal(t, Rank1BB, ShiftDown(White, Rank2BB))
}

func TestPawnGeometry(t *testing.T) {
	e2 := Square(12)
	require.Equal(t, FileEBB&^(SquareBB[4]|SquareBB[12]), ForwardFile(White, e2))
	require.Zero(t, PawnAttackSpan(White, e2)&Rank2BB)
	require.NotZero(t, PassedPawnMask(White, e2)&SquareBB[21]) // f3 contests e-pawn
	require.Equal(t, FileBB[3]|FileBB[5], AdjacentFiles(4))
}
