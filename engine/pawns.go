package engine

import (
	"math/bits"

	vm "chess-variant-engine/varmg"
)

// Pawn-structure cache. Entries are keyed by the pawn placement of both
// colors plus the variant tag, so everything derived from pawns alone is
// computed once per structure and reused across evaluations.

const pawnHashSize = 1 << 14

// PawnEntry holds the precomputed pawn data one evaluation consumes.
type PawnEntry struct {
	key             uint64
	score           Score
	passedPawns     [2]uint64
	pawnAttacks     [2]uint64
	pawnAttacksSpan [2]uint64
	weakUnopposed   [2]int
	semiopenFiles   [2]uint8
	pawnsOnSquares  [2][2]int // [color][light/dark]
	asymmetry       int
	openFiles       int

	kingSquares    [2]vm.Square
	kingSafety     [2]Score
	castlingRights [2]bool
}

// PawnsScore returns the pawn-structure score from White's point of view.
func (e *PawnEntry) PawnsScore() Score { return e.score }

// PawnAttacks returns the squares attacked by c's pawns.
func (e *PawnEntry) PawnAttacks(c vm.Color) uint64 { return e.pawnAttacks[c] }

// PawnAttacksSpan returns every square c's pawns could ever attack while
// advancing.
func (e *PawnEntry) PawnAttacksSpan(c vm.Color) uint64 { return e.pawnAttacksSpan[c] }

// PassedPawns returns c's passed pawns.
func (e *PawnEntry) PassedPawns(c vm.Color) uint64 { return e.passedPawns[c] }

// SemiopenFile reports whether c has no pawn on file f.
func (e *PawnEntry) SemiopenFile(c vm.Color, f int) bool {
	return e.semiopenFiles[c]&(1<<uint(f)) != 0
}

// SemiopenSide reports whether c has any semi-open file on the given side
// of file kf.
func (e *PawnEntry) SemiopenSide(c vm.Color, kf int, leftSide bool) bool {
	var mask uint8
	if leftSide {
		mask = uint8(1<<uint(kf)) - 1
	} else {
		mask = ^(uint8(1<<uint(kf+1)) - 1)
	}
	return e.semiopenFiles[c]&mask != 0
}

// PawnsOnSameColorSquares counts c's pawns on squares of the same color
// as sq.
func (e *PawnEntry) PawnsOnSameColorSquares(c vm.Color, sq vm.Square) int {
	const darkSquares = 0xAA55AA55AA55AA55
	if vm.SquareBB[sq]&darkSquares != 0 {
		return e.pawnsOnSquares[c][1]
	}
	return e.pawnsOnSquares[c][0]
}

// OpenFiles counts files with no pawn of either color.
func (e *PawnEntry) OpenFiles() int { return e.openFiles }

// Asymmetry counts files where exactly one side has pawns.
func (e *PawnEntry) Asymmetry() int { return e.asymmetry }

// WeakUnopposed counts c's isolated or backward pawns with no opposing
// pawn in front.
func (e *PawnEntry) WeakUnopposed(c vm.Color) int { return e.weakUnopposed[c] }

var pawnHashTable [pawnHashSize]PawnEntry

// ClearPawnHash resets the pawn cache.
func ClearPawnHash() {
	for i := range pawnHashTable {
		pawnHashTable[i] = PawnEntry{}
	}
}

// ProbePawns returns the cached entry for the board's pawn structure,
// computing it on a miss.
func ProbePawns(b *vm.Board) *PawnEntry {
	key := b.PawnKey()
	e := &pawnHashTable[key&(pawnHashSize-1)]
	if e.key == key {
		return e
	}
	*e = PawnEntry{key: key}
	e.kingSquares[vm.White] = vm.NoSquare
	e.kingSquares[vm.Black] = vm.NoSquare
	score := evaluatePawnStructure(b, vm.White, e)
	score -= evaluatePawnStructure(b, vm.Black, e)
	e.score = score

	sw, sb := e.semiopenFiles[vm.White], e.semiopenFiles[vm.Black]
	e.asymmetry = popcount8(sw ^ sb)
	e.openFiles = popcount8(sw & sb)
	return e
}

func popcount8(v uint8) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Pawn structure weights.
var (
	pawnIsolated = S(13, 16)
	pawnBackward = S(24, 12)
	pawnDoubled  = S(18, 38)
)

// connectedSeed[r] seeds the connected-pawn bonus by relative rank.
var connectedSeed = [8]int{0, 13, 24, 18, 65, 100, 175, 330}

func evaluatePawnStructure(b *vm.Board, us vm.Color, e *PawnEntry) Score {
	them := us.Other()
	ourPawns := b.Pieces(us, vm.Pawn)
	theirPawns := b.Pieces(them, vm.Pawn)

	e.pawnAttacks[us] = vm.PawnAttacksBB(us, ourPawns)
	e.semiopenFiles[us] = 0xff
	e.pawnsOnSquares[us][0] = vm.PopCount(ourPawns &^ 0xAA55AA55AA55AA55)
	e.pawnsOnSquares[us][1] = vm.PopCount(ourPawns & 0xAA55AA55AA55AA55)

	score := ScoreZero
	for bb := ourPawns; bb != 0; {
		s := vm.PopLsb(&bb)
		f := vm.FileOf(s)
		r := vm.RelativeRank(us, s)

		e.semiopenFiles[us] &^= 1 << uint(f)
		e.pawnAttacksSpan[us] |= vm.PawnAttackSpan(us, s)

		neighbours := ourPawns & vm.AdjacentFiles(f)
		opposed := theirPawns&vm.ForwardFile(us, s) != 0
		stoppers := theirPawns & vm.PassedPawnMask(us, s)
		doubled := ourPawns&vm.ForwardFile(us, s) != 0
		supported := neighbours&vm.PawnAttacks(them, s) != 0
		phalanx := neighbours&vm.RankBB[vm.RankOf(s)] != 0

		// A pawn is backward when its neighbours are all ahead of it and
		// the stop square is controlled by an enemy pawn.
		backward := false
		if neighbours != 0 && !supported && !phalanx {
			behindOrLevel := neighbours &^ vm.ForwardRanksBB(us, vm.RankOf(s))
			stop := s + vm.Square(vm.PawnPush(us))
			if behindOrLevel == 0 && stop >= 0 && stop < 64 &&
				vm.PawnAttacksBB(them, theirPawns)&vm.SquareBB[stop] != 0 {
				backward = true
			}
		}

		if stoppers == 0 && !doubled {
			e.passedPawns[us] |= vm.SquareBB[s]
		}

		if supported || phalanx {
			v := connectedSeed[r] * (2 + b2i(phalanx) - b2i(opposed)) / 2
			if supported {
				v += 17 * vm.PopCount(neighbours&vm.PawnAttacks(them, s))
			}
			score += S(v, v*maxInt(r-2, 0)/4)
		} else if neighbours == 0 {
			score -= pawnIsolated
			if !opposed {
				e.weakUnopposed[us]++
			}
		} else if backward {
			score -= pawnBackward
			if !opposed {
				e.weakUnopposed[us]++
			}
		}

		if doubled && !supported {
			score -= pawnDoubled
		}
	}
	return score
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

// King shelter and storm weights. shelterWeakness is indexed by whether the
// file is the king's own file and the rank of our rearmost shelter pawn on
// that file; stormDanger by the enemy storm pawn's relative rank.
const maxSafetyBonus = 258

var shelterWeakness = [2][8]int{
	{97, 17, 9, 44, 84, 87, 99, 99},
	{106, 6, 33, 86, 87, 104, 112, 112},
}

var stormDanger = [3][8]int{
	{0, 0, 120, 44, 21, 8, 4, 0},   // blocked storm pawn
	{0, 0, 148, 63, 28, 12, 6, 0},  // storm pawn facing our shelter pawn, not blocked
	{0, 30, 178, 88, 36, 18, 8, 0}, // no shelter pawn of ours on the file
}

// KingSafety returns the shelter/storm score for c's king on ksq, cached in
// the entry while the king and castling rights stay put.
func (e *PawnEntry) KingSafety(b *vm.Board, us vm.Color, ksq vm.Square) Score {
	canCastle := b.CanCastle(us)
	if e.kingSquares[us] == ksq && e.castlingRights[us] == canCastle {
		return e.kingSafety[us]
	}
	e.kingSquares[us] = ksq
	e.castlingRights[us] = canCastle

	s := shelterStorm(b, us, ksq)
	// A side that can still castle keeps the better of its options.
	if canCastle {
		if v := shelterStorm(b, us, vm.RelativeSquare(us, vm.SqG1)); v.Mg() > s.Mg() {
			s = v
		}
		if v := shelterStorm(b, us, vm.RelativeSquare(us, vm.SqC1)); v.Mg() > s.Mg() {
			s = v
		}
	}
	e.kingSafety[us] = s
	return s
}

func shelterStorm(b *vm.Board, us vm.Color, ksq vm.Square) Score {
	them := us.Other()
	ourPawns := b.Pieces(us, vm.Pawn) &^ vm.ForwardRanksBB(them, vm.RankOf(ksq))
	theirPawns := b.Pieces(them, vm.Pawn) &^ vm.ForwardRanksBB(them, vm.RankOf(ksq))

	safety := maxSafetyBonus
	center := clampInt(vm.FileOf(ksq), 1, 6)
	for f := center - 1; f <= center+1; f++ {
		fileOurs := ourPawns & vm.FileBB[f]
		rkUs := 0
		if fileOurs != 0 {
			rkUs = backmostRelativeRank(us, fileOurs)
		}
		fileTheirs := theirPawns & vm.FileBB[f]
		rkThem := 0
		if fileTheirs != 0 {
			rkThem = frontmostRelativeRank(us, fileTheirs)
		}

		onKingFile := b2i(f == vm.FileOf(ksq))
		safety -= shelterWeakness[onKingFile][rkUs]

		storm := 0
		switch {
		case fileOurs == 0 && fileTheirs == 0:
			storm = stormDanger[2][0]
		case fileOurs == 0:
			storm = stormDanger[2][rkThem]
		case fileTheirs != 0 && rkThem == rkUs+1:
			storm = stormDanger[0][rkThem]
		case fileTheirs != 0:
			storm = stormDanger[1][rkThem]
		}
		safety -= storm
	}

	minDist := 0
	if pawns := b.Pieces(us, vm.Pawn); pawns != 0 {
		minDist = 8
		for bb := pawns; bb != 0; {
			s := vm.PopLsb(&bb)
			if d := vm.Distance(ksq, s); d < minDist {
				minDist = d
			}
		}
	}
	return S(safety, -16*minDist)
}

func backmostRelativeRank(us vm.Color, bb uint64) int {
	if us == vm.White {
		return vm.RankOf(vm.Lsb(bb))
	}
	return 7 - vm.RankOf(msb(bb))
}

func frontmostRelativeRank(us vm.Color, bb uint64) int {
	if us == vm.White {
		return vm.RankOf(msb(bb))
	}
	return 7 - vm.RankOf(vm.Lsb(bb))
}

func msb(bb uint64) vm.Square {
	return vm.Square(bits.Len64(bb) - 1)
}
