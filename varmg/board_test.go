package varmg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFENStartPos(t *testing.T) {
	b, err := ParseFEN(FENStartPos, VariantStandard)
	require.NoError(t, err)
	require.True(t, b.Wtomove)
	require.Equal(t, 16, b.Count(White, AllPieces))
	require.Equal(t, 16, b.Count(Black, AllPieces))
	require.Equal(t, Square(4), b.KingSquare(White))
	require.Equal(t, Square(60), b.KingSquare(Black))
	require.True(t, b.CanCastle(White))
	require.True(t, b.CanCastle(Black))
	require.Equal(t, FENStartPos, b.ToFEN())
}

func TestParseFENErrors(t *testing.T) {
	for _, fen := range []string{
		"",
		"rnbqkbnr/pppppppp/8/8",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	} {
		_, err := ParseFEN(fen, VariantStandard)
		require.Error(t, err, fen)
	}
}

func TestParseFENCrazyhousePocket(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[QRnp] w KQkq - 0 1", VariantCrazyhouse)
	require.NoError(t, err)
	require.Equal(t, 1, b.CountInHand(White, Queen))
	require.Equal(t, 1, b.CountInHand(White, Rook))
	require.Equal(t, 1, b.CountInHand(Black, Knight))
	require.Equal(t, 1, b.CountInHand(Black, Pawn))
	require.Equal(t, 2, b.CountInHand(White, AllPieces))
	require.Contains(t, b.ToFEN(), "[QRnp]")
}

func TestParseFENThreeCheckCounter(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - +2+1 0 1", VariantThreeCheck)
	require.NoError(t, err)
	require.Equal(t, 2, b.ChecksGiven(White))
	require.Equal(t, 1, b.ChecksGiven(Black))
}

func TestHordeSideDetection(t *testing.T) {
	b, err := ParseFEN(FENHordeStart, VariantHorde)
	require.NoError(t, err)
	require.True(t, b.IsHordeColor(White))
	require.False(t, b.IsHordeColor(Black))
	require.Equal(t, NoSquare, b.KingSquare(White))
}

func TestAttackersTo(t *testing.T) {
	b := MustParseFEN("4k3/8/8/8/4r3/8/3P4/4K3 w - - 0 1", VariantStandard)
	// e3 is hit by the d2 pawn and the e4 rook.
	att := b.AttackersTo(Square(20), b.Occupied())
	require.NotZero(t, att&SquareBB[11]) // d2 pawn
	require.NotZero(t, att&SquareBB[28]) // e4 rook
}

func TestPinnedPieces(t *testing.T) {
	// White knight on e3 pinned by the e8 rook against the e1 king.
	b := MustParseFEN("4r3/8/8/8/8/4N3/8/4K3 w - - 0 1", VariantStandard)
	require.Equal(t, SquareBB[20], b.PinnedPieces(White))
	require.Zero(t, b.PinnedPieces(Black))
}

func TestSliderBlockers(t *testing.T) {
	b := MustParseFEN("4r3/8/8/8/8/4N3/8/4K3 w - - 0 1", VariantStandard)
	blockers, pinners := b.SliderBlockers(b.Pieces(Black, Rook, Bishop, Queen), b.KingSquare(White))
	require.Equal(t, SquareBB[20], blockers)
	require.Equal(t, SquareBB[60], pinners)
}

func TestNonPawnMaterial(t *testing.T) {
	b := MustParseFEN(FENStartPos, VariantStandard)
	want := 2*KnightValueMg + 2*BishopValueMg + 2*RookValueMg + QueenValueMg
	require.Equal(t, want, b.NonPawnMaterial(White))
	require.Equal(t, want, b.NonPawnMaterial(Black))
}

func TestVariantEndKoth(t *testing.T) {
	b := MustParseFEN("4k3/8/8/8/3K4/8/8/8 b - - 0 1", VariantKOTH)
	require.True(t, b.IsVariantEnd())
	require.Equal(t, ValueLoss, b.VariantResult()) // Black to move, White won
}

func TestVariantEndThreeCheck(t *testing.T) {
	b := MustParseFEN("4k3/8/8/8/8/8/8/4K3 w - - +3+0 0 1", VariantThreeCheck)
	require.True(t, b.IsVariantEnd())
	require.Equal(t, ValueWin, b.VariantResult())
}

func TestVariantEndExtinction(t *testing.T) {
	// Black has no queen: extinct.
	b := MustParseFEN("rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", VariantExtinction)
	require.True(t, b.IsVariantEnd())
	require.Equal(t, ValueWin, b.VariantResult())
}

func TestMirrorRoundTrip(t *testing.T) {
	fens := []string{
		FENStartPos,
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 4",
		"8/P7/8/8/8/8/8/k6K w - - 0 1",
	}
	for _, fen := range fens {
		b := MustParseFEN(fen, VariantStandard)
		m := b.Mirror()
		require.Equal(t, b.Count(White, AllPieces), m.Count(Black, AllPieces), fen)
		require.Equal(t, b.Wtomove, !m.Wtomove, fen)
		back := m.Mirror()
		require.Equal(t, b.ToFEN(), back.ToFEN(), fen)
	}
}

func TestGridBB(t *testing.T) {
	b := NewBoard(VariantGrid)
	cell := b.GridBB(SqA1)
	require.Equal(t, SquareBB[0]|SquareBB[1]|SquareBB[8]|SquareBB[9], cell)
	// All four squares of a cell share it.
	require.Equal(t, cell, b.GridBB(Square(9)))
}

func TestOppositeBishops(t *testing.T) {
	// c5 is dark, e2 is light.
	b := MustParseFEN("4k3/8/8/2b5/8/8/4B3/4K3 w - - 0 1", VariantStandard)
	require.True(t, b.OppositeBishops())
	// d5 and e2 are both light.
	b2 := MustParseFEN("4k3/8/8/3b4/8/8/4B3/4K3 w - - 0 1", VariantStandard)
	require.False(t, b2.OppositeBishops())
}

func TestPawnPassed(t *testing.T) {
	b := MustParseFEN("4k3/8/8/8/8/8/P6p/4K3 w - - 0 1", VariantStandard)
	require.True(t, b.PawnPassed(White, Square(8)))
	require.True(t, b.PawnPassed(Black, Square(15)))

	b2 := MustParseFEN("4k3/p7/8/8/8/8/P7/4K3 w - - 0 1", VariantStandard)
	require.False(t, b2.PawnPassed(White, Square(8)))
}
