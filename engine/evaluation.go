package engine

import (
	"sync/atomic"

	vm "chess-variant-engine/varmg"
)

// Contempt is added once into every evaluation, from White's point of view
// when White is to move. It is set by the surrounding engine and read by
// concurrent evaluations.
var contempt atomic.Int64

// SetContempt installs the contempt score.
func SetContempt(s Score) { contempt.Store(int64(s)) }

// Contempt returns the current contempt score.
func Contempt() Score { return Score(contempt.Load()) }

// evaluation carries the per-call scratch state: the attack maps, king ring
// bookkeeping and mobility accumulators every later stage reads. It lives
// for exactly one evaluation and is never shared.
type evaluation struct {
	b  *vm.Board
	me *MaterialEntry
	pe *PawnEntry

	mobilityArea [2]uint64
	mobility     [2]Score

	// attackedBy[color][piece type]; the pseudo types AllPieces and
	// QueenDiagonal are filled as well.
	attackedBy [2][vm.PieceTypeNB]uint64

	// attackedBy2[color]: squares attacked at least twice, x-ray through a
	// queen included; double pawn attacks are not accumulated.
	attackedBy2 [2]uint64

	// kingRing[color] is the zone around this color's king scored by the
	// king safety sweep of the other color's pieces.
	kingRing                     [2]uint64
	kingAttackersCount           [2]int
	kingAttackersWeight          [2]int
	kingAdjacentZoneAttacksCount [2]int

	pinned [2]uint64

	trace *traceSink
}

// lowRanks[c]: c's second and third ranks.
var lowRanks = [2]uint64{vm.Rank2BB | vm.Rank3BB, vm.Rank7BB | vm.Rank6BB}

// camp[c]: the board minus the three ranks nearest the enemy.
var camp = [2]uint64{
	vm.AllSquares ^ vm.Rank6BB ^ vm.Rank7BB ^ vm.Rank8BB,
	vm.AllSquares ^ vm.Rank1BB ^ vm.Rank2BB ^ vm.Rank3BB,
}

const (
	queenSideBB   = vm.FileABB | vm.FileBBB | vm.FileCBB | vm.FileDBB
	centerFilesBB = vm.FileCBB | vm.FileDBB | vm.FileEBB | vm.FileFBB
	kingSideBB    = vm.FileEBB | vm.FileFBB | vm.FileGBB | vm.FileHBB
	centerBB      = (vm.FileDBB | vm.FileEBB) & (vm.Rank4BB | vm.Rank5BB)
)

// kingFlank[file] is the wing a king on that file fights on.
var kingFlank = [8]uint64{
	queenSideBB, queenSideBB, queenSideBB, centerFilesBB,
	centerFilesBB, kingSideBB, kingSideBB, kingSideBB,
}

// initialize computes the king and pawn attack maps, the mobility area and
// the king ring for one color. Runs for both colors before any piece sweep.
func (e *evaluation) initialize(us vm.Color) {
	b := e.b
	them := us.Other()

	e.pinned[us] = b.PinnedPieces(us)

	// Our pawns on the low ranks or blocked by anything.
	blocked := b.Pieces(us, vm.Pawn) & (vm.ShiftDown(us, b.Occupied()) | lowRanks[us])

	ksq := b.KingSquare(us)
	var kingBB uint64
	if ksq != vm.NoSquare {
		kingBB = vm.SquareBB[ksq]
	}

	if b.IsAnti() {
		e.mobilityArea[us] = vm.AllSquares
	} else {
		e.mobilityArea[us] = ^(blocked | kingBB | e.pe.PawnAttacks(them))
	}

	var kingAttacks uint64
	if b.IsAnti() || b.IsExtinction() {
		// Every king contributes in the many-kings rule sets.
		for kings := b.Pieces(us, vm.King); kings != 0; {
			kingAttacks |= vm.KingMoves(vm.PopLsb(&kings))
		}
	} else if ksq != vm.NoSquare {
		kingAttacks = vm.KingMoves(ksq)
	}
	e.attackedBy[us][vm.King] = kingAttacks
	e.attackedBy[us][vm.Pawn] = e.pe.PawnAttacks(us)

	e.attackedBy2[us] = kingAttacks & e.attackedBy[us][vm.Pawn]
	e.attackedBy[us][vm.AllPieces] = kingAttacks | e.attackedBy[us][vm.Pawn]

	// King safety bookkeeping only when it will be consumed later.
	useKingSafety := !b.IsAnti() && !b.IsExtinction() &&
		(b.NonPawnMaterial(them) >= vm.RookValueMg+vm.KnightValueMg || b.IsHouse())
	if useKingSafety && ksq != vm.NoSquare {
		e.kingRing[us] = kingAttacks
		if vm.RelativeRank(us, ksq) == 0 {
			e.kingRing[us] |= vm.ShiftUp(us, kingAttacks)
		}
		e.kingAttackersCount[them] = vm.PopCount(kingAttacks & e.pe.PawnAttacks(them))
		e.kingAdjacentZoneAttacksCount[them] = 0
		e.kingAttackersWeight[them] = 0
	} else {
		e.kingRing[us] = 0
		e.kingAttackersCount[them] = 0
	}
}

// evaluateSpace scores the safe squares behind the pawn chain on the
// central files of our half.
func (e *evaluation) evaluateSpace(us vm.Color) Score {
	b := e.b
	them := us.Other()
	var spaceMask uint64
	if us == vm.White {
		spaceMask = centerFilesBB & (vm.Rank2BB | vm.Rank3BB | vm.Rank4BB)
	} else {
		spaceMask = centerFilesBB & (vm.Rank7BB | vm.Rank6BB | vm.Rank5BB)
	}

	safe := spaceMask &
		^b.Pieces(us, vm.Pawn) &
		^e.attackedBy[them][vm.Pawn] &
		(e.attackedBy[us][vm.AllPieces] | ^e.attackedBy[them][vm.AllPieces])

	// Squares at most three ranks behind a friendly pawn.
	behind := b.Pieces(us, vm.Pawn)
	behind |= vm.ShiftDown(us, behind)
	behind |= vm.ShiftDown(us, vm.ShiftDown(us, behind))

	var shifted uint64
	if us == vm.White {
		shifted = safe << 32
	} else {
		shifted = safe >> 32
	}
	bonus := vm.PopCount(shifted | (behind & safe))
	weight := b.Count(us, vm.AllPieces) - 2*e.pe.OpenFiles()

	if b.IsKoth() {
		return S(bonus*weight*weight/22, 0) +
			KothSafeCenter.Mul(vm.PopCount(safe&behind&(vm.Rank4BB|vm.Rank5BB)&(vm.FileDBB|vm.FileEBB)))
	}
	return S(bonus*weight*weight/16, 0)
}

// evaluateInitiative computes the second-order endgame bonus for the side
// with attacking chances; it can never flip the endgame sign.
func (e *evaluation) evaluateInitiative(eg Value) Score {
	b := e.b
	wk, bk := b.KingSquare(vm.White), b.KingSquare(vm.Black)
	kingDistance := 0
	if wk != vm.NoSquare && bk != vm.NoSquare {
		kingDistance = vm.FileDistance(wk, bk) - vm.RankDistance(wk, bk)
	}
	pawns := b.PiecesByType(vm.Pawn)
	bothFlanks := pawns&queenSideBB != 0 && pawns&kingSideBB != 0

	initiative := 8*(e.pe.Asymmetry()+kingDistance-17) +
		12*vm.PopCount(pawns) + 16*b2i(bothFlanks)

	sign := 0
	if eg > 0 {
		sign = 1
	} else if eg < 0 {
		sign = -1
	}
	v := sign * maxInt(initiative, -absInt(eg))

	if e.trace != nil {
		e.trace.add(termInitiative, S(0, v), ScoreZero)
	}
	return S(0, v)
}

// evaluateScaleFactor refines the material cache's endgame scale for the
// winning side.
func (e *evaluation) evaluateScaleFactor(eg Value) ScaleFactor {
	b := e.b
	strongSide := vm.Black
	if eg > ValueDraw {
		strongSide = vm.White
	}
	sf := e.me.ScaleFactorFor(b, strongSide)

	if b.IsAtomic() {
		return sf
	}

	if sf == ScaleFactorNormal || sf == ScaleFactorOnePawn {
		if b.OppositeBishops() {
			// Pure opposite-bishop endings are nearly dead draws.
			if b.NonPawnMaterial(vm.White) == vm.BishopValueMg &&
				b.NonPawnMaterial(vm.Black) == vm.BishopValueMg {
				if vm.MoreThanOne(b.PiecesByType(vm.Pawn)) {
					return ScaleFactor(31)
				}
				return ScaleFactor(9)
			}
			return ScaleFactor(46)
		}
		weakKing := b.KingSquare(strongSide.Other())
		if absInt(eg) <= vm.BishopValueEg &&
			b.Count(strongSide, vm.Pawn) <= 2 &&
			weakKing != vm.NoSquare &&
			!b.PawnPassed(strongSide.Other(), weakKing) {
			return ScaleFactor(37 + 7*b.Count(strongSide, vm.Pawn))
		}
	}

	if b.IsHorde() {
		hordeSide := vm.Black
		if b.IsHordeColor(vm.White) {
			hordeSide = vm.White
		}
		if b.NonPawnMaterial(hordeSide) >= vm.QueenValueMg && !b.IsHordeColor(strongSide) {
			sf = ScaleFactor(10)
		}
	}
	return sf
}

// value runs the evaluation pipeline and returns the score from the side
// to move's point of view, without tempo.
func (e *evaluation) value() Value {
	b := e.b

	if b.IsVariantEnd() {
		return b.VariantResult()
	}

	e.me = ProbeMaterial(b)
	if e.me.SpecializedEvalExists() {
		return e.me.Evaluate(b)
	}

	score := psqScore(b) + e.me.Imbalance() + Contempt()

	e.pe = ProbePawns(b)
	score += e.pe.PawnsScore()

	// Early exit when the material and pawn baseline is already decisive.
	v := (score.Mg() + score.Eg()) / 2
	if b.Variant() == vm.VariantStandard && absInt(v) > LazyThreshold {
		if !b.Wtomove {
			return -v
		}
		return v
	}

	e.initialize(vm.White)
	e.initialize(vm.Black)

	score += e.evaluatePieces(vm.White, vm.Knight) - e.evaluatePieces(vm.Black, vm.Knight)
	score += e.evaluatePieces(vm.White, vm.Bishop) - e.evaluatePieces(vm.Black, vm.Bishop)
	score += e.evaluatePieces(vm.White, vm.Rook) - e.evaluatePieces(vm.Black, vm.Rook)
	score += e.evaluatePieces(vm.White, vm.Queen) - e.evaluatePieces(vm.Black, vm.Queen)

	score += e.mobility[vm.White] - e.mobility[vm.Black]

	if !b.IsAnti() && !b.IsExtinction() && !b.IsRace() {
		score += e.evaluateKing(vm.White) - e.evaluateKing(vm.Black)
	}

	score += e.evaluateThreats(vm.White) - e.evaluateThreats(vm.Black)

	score += e.evaluatePassedPawns(vm.White) - e.evaluatePassedPawns(vm.Black)

	spaceOn := !b.IsHorde() && b.NonPawnMaterialTotal() >= SpaceThreshold[b.Variant()]
	if spaceOn {
		score += e.evaluateSpace(vm.White) - e.evaluateSpace(vm.Black)
	}

	if !b.IsAnti() && !b.IsHorde() {
		score += e.evaluateInitiative(score.Eg())
	}

	sf := e.evaluateScaleFactor(score.Eg())
	phase := e.me.GamePhase()
	v = score.Mg()*phase + score.Eg()*(PhaseMidgame-phase)*int(sf)/int(ScaleFactorNormal)
	v /= PhaseMidgame

	if e.trace != nil {
		e.trace.add(termMaterial, psqScore(b), ScoreZero)
		e.trace.add(termImbalance, e.me.Imbalance(), ScoreZero)
		e.trace.add(termPawn, e.pe.PawnsScore(), ScoreZero)
		e.trace.add(termMobility, e.mobility[vm.White], e.mobility[vm.Black])
		if spaceOn {
			e.trace.add(termSpace, e.evaluateSpace(vm.White), e.evaluateSpace(vm.Black))
		}
		e.trace.add(termTotal, score, ScoreZero)
	}

	if !b.Wtomove {
		return -v
	}
	return v
}

// Evaluate returns the static evaluation of the position from the point of
// view of the side to move. The position must not be in check.
func Evaluate(b *vm.Board) Value {
	e := evaluation{b: b}
	return e.value() + Tempo[b.Variant()]
}
