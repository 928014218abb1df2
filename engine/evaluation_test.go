package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	vm "chess-variant-engine/varmg"
)

func clearCaches() {
	ClearPawnHash()
	ClearMaterialHash()
	SetContempt(ScoreZero)
}

const italianFEN = "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 4"

func TestStartPosIsTempoExactly(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	require.Equal(t, Tempo[vm.VariantStandard], Evaluate(b))

	b.Wtomove = false
	require.Equal(t, Tempo[vm.VariantStandard], Evaluate(b))
}

func TestMirrorSymmetry(t *testing.T) {
	clearCaches()
	cases := []struct {
		fen     string
		variant vm.Variant
	}{
		{vm.FENStartPos, vm.VariantStandard},
		{italianFEN, vm.VariantStandard},
		{"8/P7/8/8/8/8/8/k6K w - - 0 1", vm.VariantStandard},
		{"r3k2r/pp3ppp/2n1bn2/2bpp3/8/1NP1PN2/PPQ2PPP/R1B1KB1R b KQkq - 0 9", vm.VariantStandard},
		{vm.FENStartPos, vm.VariantKOTH},
		{vm.FENStartPos, vm.VariantThreeCheck},
		{vm.FENStartPos, vm.VariantAtomic},
		{vm.FENStartPos, vm.VariantAnti},
		{vm.FENStartPos, vm.VariantLosers},
		{vm.FENStartPos, vm.VariantExtinction},
		{vm.FENStartPos, vm.VariantGrid},
		{vm.FENStartPos, vm.VariantRelay},
		{vm.FENStartPos, vm.VariantTwoKings},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[QRnp] w KQkq - 0 1", vm.VariantCrazyhouse},
		{vm.FENHordeStart, vm.VariantHorde},
	}
	for _, c := range cases {
		b := vm.MustParseFEN(c.fen, c.variant)
		m := b.Mirror()
		require.Equal(t, Evaluate(b), Evaluate(m), "%s %s", c.variant, c.fen)
	}
}

func TestAttackMapClosure(t *testing.T) {
	clearCaches()
	for _, fen := range []string{
		vm.FENStartPos,
		italianFEN,
		"r3k2r/pp3ppp/2n1bn2/2bpp3/8/1NP1PN2/PPQ2PPP/R1B1KB1R b KQkq - 0 9",
	} {
		b := vm.MustParseFEN(fen, vm.VariantStandard)
		e := evaluation{b: b}
		e.me = ProbeMaterial(b)
		e.pe = ProbePawns(b)
		e.initialize(vm.White)
		e.initialize(vm.Black)
		for _, pt := range []vm.PieceType{vm.Knight, vm.Bishop, vm.Rook, vm.Queen} {
			e.evaluatePieces(vm.White, pt)
			e.evaluatePieces(vm.Black, pt)
		}

		for c := vm.White; c <= vm.Black; c++ {
			union := e.attackedBy[c][vm.Pawn] | e.attackedBy[c][vm.Knight] |
				e.attackedBy[c][vm.Bishop] | e.attackedBy[c][vm.Rook] |
				e.attackedBy[c][vm.Queen] | e.attackedBy[c][vm.King]
			require.Equal(t, union, e.attackedBy[c][vm.AllPieces], fen)

			// Any square hit by two distinct piece types is in attackedBy2.
			types := []vm.PieceType{vm.Pawn, vm.Knight, vm.Bishop, vm.Rook, vm.Queen, vm.King}
			for i := 0; i < len(types); i++ {
				for j := i + 1; j < len(types); j++ {
					both := e.attackedBy[c][types[i]] & e.attackedBy[c][types[j]]
					require.Zero(t, both&^e.attackedBy2[c], "%s %v+%v", fen, types[i], types[j])
				}
			}

			// The queen's diagonal map is a subset of its full map.
			require.Zero(t, e.attackedBy[c][vm.QueenDiagonal]&^e.attackedBy[c][vm.Queen], fen)
		}
	}
}

func TestLazyExitExactness(t *testing.T) {
	clearCaches()
	// Three queens up: the baseline alone decides the evaluation.
	b := vm.MustParseFEN("3qk3/8/8/8/8/8/8/QQQQK3 w - - 0 1", vm.VariantStandard)

	baseline := psqScore(b) + ProbeMaterial(b).Imbalance() + ProbePawns(b).PawnsScore()
	v := (baseline.Mg() + baseline.Eg()) / 2
	require.Greater(t, absInt(v), LazyThreshold)
	require.Equal(t, v+Tempo[vm.VariantStandard], Evaluate(b))

	// Black to move sees the same magnitude with the sign flipped.
	b.Wtomove = false
	require.Equal(t, -v+Tempo[vm.VariantStandard], Evaluate(b))
}

func TestItalianOpening(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(italianFEN, vm.VariantStandard)
	require.Greater(t, Evaluate(b), 0)

	// The c4 bishop out-ranges both of Black's bishops.
	e := evaluation{b: b}
	e.me = ProbeMaterial(b)
	e.pe = ProbePawns(b)
	e.initialize(vm.White)
	e.initialize(vm.Black)
	e.evaluatePieces(vm.White, vm.Bishop)
	e.evaluatePieces(vm.Black, vm.Bishop)
	require.Greater(t, e.mobility[vm.White].Mg(), e.mobility[vm.Black].Mg())

	full := evaluation{b: b}
	full.me = e.me
	full.pe = e.pe
	full.initialize(vm.White)
	full.initialize(vm.Black)
	for _, pt := range []vm.PieceType{vm.Knight, vm.Bishop, vm.Rook, vm.Queen} {
		full.evaluatePieces(vm.White, pt)
		full.evaluatePieces(vm.Black, pt)
	}
	require.Greater(t, full.evaluateSpace(vm.White).Mg(), 0)
}

func TestBareKingsNearZero(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN("8/8/8/3k4/3K4/8/8/8 w - - 0 1", vm.VariantStandard)
	v := Evaluate(b)
	require.LessOrEqual(t, absInt(v-Tempo[vm.VariantStandard]), 5)
}

func TestAdvancedPasserWinsBig(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN("8/P7/8/8/8/8/8/k6K w - - 0 1", vm.VariantStandard)
	require.Greater(t, Evaluate(b), int(ValueKnownWin))
}

func TestPassedPawnTermContribution(t *testing.T) {
	clearCaches()
	// Knights on both sides keep the material cache generic, so the passed
	// pawn term itself is exercised.
	b := vm.MustParseFEN("n3k3/P7/8/8/8/8/8/N3K3 w - - 0 1", vm.VariantStandard)
	e := evaluation{b: b}
	e.me = ProbeMaterial(b)
	require.False(t, e.me.SpecializedEvalExists())
	e.pe = ProbePawns(b)
	e.initialize(vm.White)
	e.initialize(vm.Black)
	for _, pt := range []vm.PieceType{vm.Knight, vm.Bishop, vm.Rook, vm.Queen} {
		e.evaluatePieces(vm.White, pt)
		e.evaluatePieces(vm.Black, pt)
	}
	passer := e.evaluatePassedPawns(vm.White)
	require.Greater(t, passer.Eg(), 150)
	require.Greater(t, Evaluate(b), 200)
}

func TestThreeCheckBonusCounts(t *testing.T) {
	clearCaches()
	require.Equal(t, S(2425, 603), ChecksGivenBonus[2])
	require.Equal(t, 858, ThreeCheckKSFactors[2])

	none := vm.MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - +0+0 0 1", vm.VariantThreeCheck)
	two := vm.MustParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - +2+0 0 1", vm.VariantThreeCheck)
	require.Greater(t, Evaluate(two), Evaluate(none))
}

func TestVariantDispatchTwoKingsMatchesStandardTables(t *testing.T) {
	clearCaches()
	// The Two-Kings tables equal the standard ones except for the king
	// danger coefficients; on a quiet position with no king attackers the
	// evaluations coincide.
	std := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	tk := vm.MustParseFEN(vm.FENStartPos, vm.VariantTwoKings)
	require.Equal(t, Evaluate(std), Evaluate(tk))
}

func TestInitiativeNeverFlipsSign(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(italianFEN, vm.VariantStandard)
	e := evaluation{b: b}
	e.pe = ProbePawns(b)

	for _, eg := range []Value{1, 5, 50, 500, -1, -5, -50, -500} {
		v := e.evaluateInitiative(eg).Eg()
		after := eg + v
		if eg > 0 {
			require.GreaterOrEqual(t, after, 0, "eg=%d", eg)
		} else {
			require.LessOrEqual(t, after, 0, "eg=%d", eg)
		}
	}
	require.Equal(t, ScoreZero, e.evaluateInitiative(0))
}

func TestInterpolationBounds(t *testing.T) {
	clearCaches()
	// Positions with full pawn sets keep the scale factor at normal, so
	// the final value must lie between the mg and eg totals.
	for _, fen := range []string{vm.FENStartPos, italianFEN} {
		b := vm.MustParseFEN(fen, vm.VariantStandard)
		sink := &traceSink{}
		e := evaluation{b: b, trace: sink}
		v := e.value()
		if !b.Wtomove {
			v = -v
		}
		total := sink.scores[termTotal][vm.White]
		lo := minInt(total.Mg(), total.Eg())
		hi := maxInt(total.Mg(), total.Eg())
		require.GreaterOrEqual(t, v, lo-1, fen)
		require.LessOrEqual(t, v, hi+1, fen)
	}
}

func TestContemptShiftsEvaluation(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(italianFEN, vm.VariantStandard)
	base := Evaluate(b)
	SetContempt(S(40, 20))
	shifted := Evaluate(b)
	SetContempt(ScoreZero)
	require.Greater(t, shifted, base)
}

func TestVariantSmoke(t *testing.T) {
	clearCaches()
	cases := []struct {
		fen     string
		variant vm.Variant
	}{
		{vm.FENStartPos, vm.VariantStandard},
		{vm.FENStartPos, vm.VariantAnti},
		{vm.FENStartPos, vm.VariantAtomic},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[QRbn] w KQkq - 0 1", vm.VariantCrazyhouse},
		{vm.FENStartPos, vm.VariantExtinction},
		{vm.FENStartPos, vm.VariantGrid},
		{vm.FENHordeStart, vm.VariantHorde},
		{vm.FENStartPos, vm.VariantKOTH},
		{vm.FENStartPos, vm.VariantLosers},
		{"8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1", vm.VariantRace},
		{vm.FENStartPos, vm.VariantRelay},
		{vm.FENStartPos, vm.VariantThreeCheck},
		{vm.FENStartPos, vm.VariantTwoKings},
	}
	for _, c := range cases {
		b := vm.MustParseFEN(c.fen, c.variant)
		v := Evaluate(b)
		require.Less(t, absInt(v), int(ValueKnownWin), "%s", c.variant)
	}
}

func TestVariantEndShortCircuits(t *testing.T) {
	clearCaches()
	// A decided KOTH position returns the terminal score verbatim.
	b := vm.MustParseFEN("4k3/8/8/8/3K4/8/8/8 b - - 0 1", vm.VariantKOTH)
	require.Equal(t, vm.ValueLoss+Tempo[vm.VariantKOTH], Evaluate(b))
}

func TestEvaluationIsRepeatable(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(italianFEN, vm.VariantStandard)
	first := Evaluate(b)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Evaluate(b))
	}
}
