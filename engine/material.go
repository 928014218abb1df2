package engine

import (
	vm "chess-variant-engine/varmg"
)

// Material cache. Entries are keyed by the material signature (piece counts
// per color plus variant), so imbalance, game phase and endgame scaling are
// computed once per configuration.

const materialHashSize = 1 << 13

// ValueDraw is the evaluation assigned to drawn positions.
const ValueDraw = Value(0)

// ValueKnownWin marks positions the material layer can already call won.
const ValueKnownWin = Value(10000)

// MaterialEntry is the cached per-signature data.
type MaterialEntry struct {
	key       uint64
	imbalance Score
	gamePhase int
	factor    [2]ScaleFactor

	// specialized is non-nil when a dedicated endgame evaluator covers this
	// exact material configuration.
	specialized func(b *vm.Board) Value
}

// Imbalance returns the second-order material correction, White's view.
func (e *MaterialEntry) Imbalance() Score { return e.imbalance }

// GamePhase returns the mg/eg interpolation weight in [0, PhaseMidgame].
func (e *MaterialEntry) GamePhase() int { return e.gamePhase }

// SpecializedEvalExists reports whether Evaluate should be delegated to.
func (e *MaterialEntry) SpecializedEvalExists() bool { return e.specialized != nil }

// Evaluate runs the specialized endgame evaluator.
func (e *MaterialEntry) Evaluate(b *vm.Board) Value { return e.specialized(b) }

// ScaleFactorFor returns the endgame scale for the given strong side.
func (e *MaterialEntry) ScaleFactorFor(b *vm.Board, strongSide vm.Color) ScaleFactor {
	if e.factor[strongSide] != ScaleFactorNone {
		return e.factor[strongSide]
	}
	if b.Count(strongSide, vm.Pawn) == 1 {
		return ScaleFactorOnePawn
	}
	return ScaleFactorNormal
}

var materialHashTable [materialHashSize]MaterialEntry

// ClearMaterialHash resets the material cache.
func ClearMaterialHash() {
	for i := range materialHashTable {
		materialHashTable[i] = MaterialEntry{}
	}
}

// Quadratic imbalance weights; row/column 0 is the bishop pair.
var quadraticOurs = [6][6]int{
	{1667, 0, 0, 0, 0, 0},
	{40, 0, 0, 0, 0, 0},
	{32, 255, -3, 0, 0, 0},
	{0, 104, 4, 0, 0, 0},
	{-26, -2, 47, 105, -149, 0},
	{-189, 24, 117, 133, -134, -10},
}

var quadraticTheirs = [6][6]int{
	{0, 0, 0, 0, 0, 0},
	{36, 0, 0, 0, 0, 0},
	{9, 63, 0, 0, 0, 0},
	{59, 65, 42, 0, 0, 0},
	{46, 39, 24, -24, 0, 0},
	{101, 100, -37, 141, 268, 0},
}

// ProbeMaterial returns the cached entry for the board's material
// signature, computing it on a miss.
func ProbeMaterial(b *vm.Board) *MaterialEntry {
	key := b.MaterialKey()
	e := &materialHashTable[key&(materialHashSize-1)]
	if e.key == key {
		return e
	}
	*e = MaterialEntry{key: key}
	e.factor[vm.White] = ScaleFactorNone
	e.factor[vm.Black] = ScaleFactorNone

	npmW := b.NonPawnMaterial(vm.White)
	npmB := b.NonPawnMaterial(vm.Black)
	npm := clampInt(npmW+npmB, vm.EndgameLimit, vm.MidgameLimit)
	e.gamePhase = (npm - vm.EndgameLimit) * PhaseMidgame / (vm.MidgameLimit - vm.EndgameLimit)

	if b.Variant() == vm.VariantStandard || b.Variant() == vm.VariantTwoKings {
		e.specialized = specializedEndgame(b, npmW, npmB)
	}

	// A side with no pawns and no meaningful material edge cannot win.
	if b.Count(vm.White, vm.Pawn) == 0 && npmW-npmB <= vm.BishopValueMg {
		switch {
		case npmW < vm.RookValueMg:
			e.factor[vm.White] = ScaleFactorDraw
		case npmB <= vm.BishopValueMg:
			e.factor[vm.White] = 4
		default:
			e.factor[vm.White] = 14
		}
	}
	if b.Count(vm.Black, vm.Pawn) == 0 && npmB-npmW <= vm.BishopValueMg {
		switch {
		case npmB < vm.RookValueMg:
			e.factor[vm.Black] = ScaleFactorDraw
		case npmW <= vm.BishopValueMg:
			e.factor[vm.Black] = 4
		default:
			e.factor[vm.Black] = 14
		}
	}

	v := imbalanceFor(b, vm.White) - imbalanceFor(b, vm.Black)
	e.imbalance = S(v/16, v/16)
	return e
}

func imbalanceFor(b *vm.Board, us vm.Color) int {
	them := us.Other()
	count := func(c vm.Color, idx int) int {
		switch idx {
		case 0: // bishop pair
			if b.Count(c, vm.Bishop) > 1 {
				return 1
			}
			return 0
		case 1:
			return b.Count(c, vm.Pawn)
		case 2:
			return b.Count(c, vm.Knight)
		case 3:
			return b.Count(c, vm.Bishop)
		case 4:
			return b.Count(c, vm.Rook)
		default:
			return b.Count(c, vm.Queen)
		}
	}

	bonus := 0
	for pt1 := 0; pt1 < 6; pt1++ {
		n := count(us, pt1)
		if n == 0 {
			continue
		}
		v := 0
		for pt2 := 0; pt2 <= pt1; pt2++ {
			v += quadraticOurs[pt1][pt2]*count(us, pt2) + quadraticTheirs[pt1][pt2]*count(them, pt2)
		}
		bonus += n * v
	}
	return bonus
}

// specializedEndgame picks a dedicated evaluator for the handful of
// signatures worth solving directly.
func specializedEndgame(b *vm.Board, npmW, npmB int) func(*vm.Board) Value {
	wP := b.Count(vm.White, vm.Pawn)
	bP := b.Count(vm.Black, vm.Pawn)

	bareWhite := npmW == 0 && wP == 0
	bareBlack := npmB == 0 && bP == 0

	// Insufficient material is a dead draw.
	minorOnly := func(npm, pawns int) bool {
		return pawns == 0 && npm <= vm.BishopValueMg
	}
	if (bareWhite || minorOnly(npmW, wP)) && (bareBlack || minorOnly(npmB, bP)) {
		return func(*vm.Board) Value { return ValueDraw }
	}

	if bareBlack && npmW >= vm.RookValueMg {
		return func(b *vm.Board) Value { return evaluateKXK(b, vm.White) }
	}
	if bareWhite && npmB >= vm.RookValueMg {
		return func(b *vm.Board) Value { return evaluateKXK(b, vm.Black) }
	}
	if bareBlack && npmW == 0 && wP == 1 {
		return func(b *vm.Board) Value { return evaluateKPK(b, vm.White) }
	}
	if bareWhite && npmB == 0 && bP == 1 {
		return func(b *vm.Board) Value { return evaluateKPK(b, vm.Black) }
	}
	return nil
}

// pushToEdges rewards driving the defending king toward the board rim.
var pushToEdges = [64]int{
	100, 90, 80, 70, 70, 80, 90, 100,
	90, 70, 60, 50, 50, 60, 70, 90,
	80, 60, 40, 30, 30, 40, 60, 80,
	70, 50, 30, 20, 20, 30, 50, 70,
	70, 50, 30, 20, 20, 30, 50, 70,
	80, 60, 40, 30, 30, 40, 60, 80,
	90, 70, 60, 50, 50, 60, 70, 90,
	100, 90, 80, 70, 70, 80, 90, 100,
}

var pushClose = [8]int{0, 0, 100, 80, 60, 40, 20, 10}

// evaluateKXK drives the bare king to the edge and the winning king close.
func evaluateKXK(b *vm.Board, strongSide vm.Color) Value {
	weakSide := strongSide.Other()
	winnerK := b.KingSquare(strongSide)
	loserK := b.KingSquare(weakSide)

	result := b.NonPawnMaterial(strongSide) +
		b.Count(strongSide, vm.Pawn)*vm.PawnValueEg +
		pushToEdges[loserK] +
		pushClose[vm.Distance(winnerK, loserK)]

	if b.Count(strongSide, vm.Queen) > 0 || b.Count(strongSide, vm.Rook) > 0 ||
		(b.Count(strongSide, vm.Bishop) > 0 && b.Count(strongSide, vm.Knight) > 0) ||
		b.Count(strongSide, vm.Bishop) > 1 {
		result += ValueKnownWin
	}

	if b.SideToMove() == strongSide {
		return result
	}
	return -result
}

// evaluateKPK grades king-and-pawn against bare king. The pawn that cannot
// be caught is a known win; otherwise king activity decides.
func evaluateKPK(b *vm.Board, strongSide vm.Color) Value {
	weakSide := strongSide.Other()
	psq := vm.Lsb(b.Pieces(strongSide, vm.Pawn))
	winnerK := b.KingSquare(strongSide)
	loserK := b.KingSquare(weakSide)

	promoSq := vm.Square(vm.FileOf(psq))
	if strongSide == vm.White {
		promoSq += 56
	}

	pawnSteps := vm.Distance(psq, promoSq)
	if vm.RelativeRank(strongSide, psq) == 1 {
		pawnSteps-- // double step
	}
	defenderSteps := vm.Distance(loserK, promoSq)
	if b.SideToMove() == weakSide {
		defenderSteps--
	}

	var result Value
	if defenderSteps > pawnSteps {
		result = ValueKnownWin + vm.PawnValueEg + vm.RelativeRank(strongSide, psq)
	} else {
		result = vm.PawnValueEg +
			10*vm.RelativeRank(strongSide, psq) +
			12*(vm.Distance(loserK, psq)-vm.Distance(winnerK, psq))
	}

	if b.SideToMove() == strongSide {
		return result
	}
	return -result
}
