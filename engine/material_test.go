package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	vm "chess-variant-engine/varmg"
)

func TestGamePhaseBounds(t *testing.T) {
	ClearMaterialHash()
	full := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	require.Equal(t, PhaseMidgame, ProbeMaterial(full).GamePhase())

	// Two bare kings sit at the endgame floor; the signature is covered by
	// a specialized draw evaluator as well.
	bare := vm.MustParseFEN("8/8/8/3k4/3K4/8/8/8 w - - 0 1", vm.VariantStandard)
	me := ProbeMaterial(bare)
	require.Equal(t, PhaseEndgame, me.GamePhase())
	require.True(t, me.SpecializedEvalExists())
	require.Equal(t, ValueDraw, me.Evaluate(bare))
}

func TestImbalanceSymmetric(t *testing.T) {
	ClearMaterialHash()
	b := vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard)
	require.Equal(t, ScoreZero, ProbeMaterial(b).Imbalance())
}

func TestImbalanceBishopPair(t *testing.T) {
	ClearMaterialHash()
	// Three minors each, but only White keeps the bishop pair.
	pair := vm.MustParseFEN("rn1qkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKB1R w KQkq - 0 1", vm.VariantStandard)
	imb := ProbeMaterial(pair).Imbalance()
	require.Greater(t, imb.Mg(), 0)
}

func TestSpecializedKXK(t *testing.T) {
	ClearMaterialHash()
	b := vm.MustParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1", vm.VariantStandard)
	me := ProbeMaterial(b)
	require.True(t, me.SpecializedEvalExists())
	v := me.Evaluate(b)
	require.Greater(t, v, int(ValueKnownWin))

	// Same verdict from Black's perspective is a loss.
	b.Wtomove = false
	require.Less(t, me.Evaluate(b), -int(ValueKnownWin))
}

func TestSpecializedKPKUnstoppable(t *testing.T) {
	ClearMaterialHash()
	// Pawn on a7 promotes before the far king arrives.
	b := vm.MustParseFEN("8/P7/8/8/8/8/8/k6K w - - 0 1", vm.VariantStandard)
	me := ProbeMaterial(b)
	require.True(t, me.SpecializedEvalExists())
	require.Greater(t, me.Evaluate(b), int(ValueKnownWin))
}

func TestSpecializedKPKContested(t *testing.T) {
	ClearMaterialHash()
	// KPvK with the defender in touch is graded, not called won.
	b := vm.MustParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", vm.VariantStandard)
	me := ProbeMaterial(b)
	require.True(t, me.SpecializedEvalExists())
	v := me.Evaluate(b)
	require.Greater(t, v, 0)
	require.Less(t, v, int(ValueKnownWin))
}

func TestScaleFactorNoPawnsDraw(t *testing.T) {
	ClearMaterialHash()
	// A lone minor up with no pawns cannot win.
	b := vm.MustParseFEN("4k3/8/8/8/8/8/4p3/3NK3 w - - 0 1", vm.VariantStandard)
	me := ProbeMaterial(b)
	require.Equal(t, ScaleFactorDraw, me.ScaleFactorFor(b, vm.White))
}

func TestMaterialCacheKeying(t *testing.T) {
	ClearMaterialHash()
	// Same material, different arrangement: one entry.
	a := vm.MustParseFEN("4k3/8/8/8/8/8/P7/4K3 w - - 0 1", vm.VariantStandard)
	c := vm.MustParseFEN("4k3/8/8/8/8/8/7P/4K3 w - - 0 1", vm.VariantStandard)
	require.Equal(t, a.MaterialKey(), c.MaterialKey())
	require.NotEqual(t, a.MaterialKey(), vm.MustParseFEN(vm.FENStartPos, vm.VariantStandard).MaterialKey())

	// The same signature under another variant keys separately.
	h := vm.MustParseFEN("4k3/8/8/8/8/8/P7/4K3 w - - 0 1", vm.VariantThreeCheck)
	require.NotEqual(t, a.MaterialKey(), h.MaterialKey())
}
