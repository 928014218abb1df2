package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	vm "chess-variant-engine/varmg"
)

func TestTraceFormat(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(italianFEN, vm.VariantStandard)
	out := Trace(b)

	for _, row := range []string{
		"Material", "Imbalance", "Pawns", "Knights", "Bishops", "Rooks",
		"Queens", "Mobility", "King safety", "Threats", "Passed pawns",
		"Space", "Initiative", "Total",
	} {
		require.Contains(t, out, row)
	}
	require.Contains(t, out, "Total Evaluation:")
	require.Contains(t, out, "(white side)")

	// The single-column rows render no per-side figures.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Material |") || strings.Contains(line, "Imbalance |") {
			require.Contains(t, line, "---")
		}
	}
}

func TestTraceRowsSumToTotal(t *testing.T) {
	clearCaches()
	for _, c := range []struct {
		fen     string
		variant vm.Variant
	}{
		{vm.FENStartPos, vm.VariantStandard},
		{italianFEN, vm.VariantStandard},
		{vm.FENStartPos, vm.VariantKOTH},
		{vm.FENStartPos, vm.VariantThreeCheck},
	} {
		b := vm.MustParseFEN(c.fen, c.variant)
		sink := &traceSink{}
		e := evaluation{b: b, trace: sink}
		e.value()

		diff := func(idx int) Score {
			return sink.scores[idx][vm.White] - sink.scores[idx][vm.Black]
		}
		sum := diff(termMaterial) + diff(termImbalance) + diff(termPawn) +
			diff(termKnight) + diff(termBishop) + diff(termRook) + diff(termQueen) +
			diff(termMobility) + diff(termKing) + diff(termThreat) +
			diff(termPassed) + diff(termSpace) + diff(termInitiative)
		total := diff(termTotal)
		require.Equal(t, total.Mg(), sum.Mg(), "%s %s", c.variant, c.fen)
		require.Equal(t, total.Eg(), sum.Eg(), "%s %s", c.variant, c.fen)
	}
}

func TestTraceMatchesEvaluate(t *testing.T) {
	clearCaches()
	b := vm.MustParseFEN(italianFEN, vm.VariantStandard)
	out := Trace(b)
	// White to move: the white-side trace total equals the evaluation.
	want := fmt.Sprintf("Total Evaluation: %.2f (white side)", toCp(Evaluate(b)))
	require.Contains(t, out, want)
}
