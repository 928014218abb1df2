package engine

import (
	"fmt"
	"strings"

	vm "chess-variant-engine/varmg"
)

// Per-call trace recording. The sink lives on the evaluation context, so
// tracing stays re-entrant.

const (
	termPawn   = int(vm.Pawn)
	termKnight = int(vm.Knight)
	termBishop = int(vm.Bishop)
	termRook   = int(vm.Rook)
	termQueen  = int(vm.Queen)
	termKing   = int(vm.King)

	termMaterial   = 8
	termImbalance  = 9
	termMobility   = 10
	termThreat     = 11
	termPassed     = 12
	termSpace      = 13
	termInitiative = 14
	termTotal      = 15
	termNB         = 16
)

func term(pt vm.PieceType) int { return int(pt) }

type traceSink struct {
	scores [termNB][2]Score
}

func (t *traceSink) add(idx int, white, black Score) {
	t.scores[idx][vm.White] = white
	t.scores[idx][vm.Black] = black
}

func (t *traceSink) addColor(idx int, c vm.Color, s Score) {
	t.scores[idx][c] = s
}

func toCp(v Value) float64 { return float64(v) / vm.PawnValueEg }

func (t *traceSink) row(name string, idx int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%15s | ", name)

	w, b := t.scores[idx][vm.White], t.scores[idx][vm.Black]
	onlyTotal := idx == termMaterial || idx == termImbalance ||
		idx == termPawn || idx == termInitiative || idx == termTotal
	if onlyTotal {
		sb.WriteString("  ---   --- |   ---   --- | ")
	} else {
		fmt.Fprintf(&sb, "%5.2f %5.2f | %5.2f %5.2f | ",
			toCp(w.Mg()), toCp(w.Eg()), toCp(b.Mg()), toCp(b.Eg()))
	}
	fmt.Fprintf(&sb, "%5.2f %5.2f \n", toCp(w.Mg()-b.Mg()), toCp(w.Eg()-b.Eg()))
	return sb.String()
}

// Trace performs a full evaluation with per-term recording and returns the
// fixed-width table, values in pawns (Value divided by PawnValueEg) from
// White's point of view.
func Trace(b *vm.Board) string {
	sink := &traceSink{}
	e := evaluation{b: b, trace: sink}
	v := e.value() + Tempo[b.Variant()]
	if !b.Wtomove {
		v = -v
	}

	var sb strings.Builder
	sb.WriteString("      Eval term |    White    |    Black    |    Total    \n")
	sb.WriteString("                |   MG    EG  |   MG    EG  |   MG    EG  \n")
	sb.WriteString("----------------+-------------+-------------+-------------\n")
	sb.WriteString(sink.row("Material", termMaterial))
	sb.WriteString(sink.row("Imbalance", termImbalance))
	sb.WriteString(sink.row("Pawns", termPawn))
	sb.WriteString(sink.row("Knights", termKnight))
	sb.WriteString(sink.row("Bishops", termBishop))
	sb.WriteString(sink.row("Rooks", termRook))
	sb.WriteString(sink.row("Queens", termQueen))
	sb.WriteString(sink.row("Mobility", termMobility))
	sb.WriteString(sink.row("King safety", termKing))
	sb.WriteString(sink.row("Threats", termThreat))
	sb.WriteString(sink.row("Passed pawns", termPassed))
	sb.WriteString(sink.row("Space", termSpace))
	sb.WriteString(sink.row("Initiative", termInitiative))
	sb.WriteString("----------------+-------------+-------------+-------------\n")
	sb.WriteString(sink.row("Total", termTotal))
	fmt.Fprintf(&sb, "\nTotal Evaluation: %.2f (white side)\n", toCp(v))
	return sb.String()
}
