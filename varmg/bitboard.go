package varmg

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// File and rank masks, little-endian rank-file layout (a1 = 0).
const (
	FileABB uint64 = 0x0101010101010101
	FileBBB uint64 = 0x0202020202020202
	FileCBB uint64 = 0x0404040404040404
	FileDBB uint64 = 0x0808080808080808
	FileEBB uint64 = 0x1010101010101010
	FileFBB uint64 = 0x2020202020202020
	FileGBB uint64 = 0x4040404040404040
	FileHBB uint64 = 0x8080808080808080

	Rank1BB uint64 = 0x00000000000000ff
	Rank2BB uint64 = 0x000000000000ff00
	Rank3BB uint64 = 0x0000000000ff0000
	Rank4BB uint64 = 0x00000000ff000000
	Rank5BB uint64 = 0x000000ff00000000
	Rank6BB uint64 = 0x0000ff0000000000
	Rank7BB uint64 = 0x00ff000000000000
	Rank8BB uint64 = 0xff00000000000000

	AllSquares uint64 = 0xffffffffffffffff
)

var FileBB = [8]uint64{FileABB, FileBBB, FileCBB, FileDBB, FileEBB, FileFBB, FileGBB, FileHBB}
var RankBB = [8]uint64{Rank1BB, Rank2BB, Rank3BB, Rank4BB, Rank5BB, Rank6BB, Rank7BB, Rank8BB}

// SquareBB[sq] is the single-bit mask for a square.
var SquareBB [64]uint64

// Precomputed attack tables. Slider attacks for a live occupancy go through
// the dragontooth magic tables; the pseudo tables hold the empty-board sets.
var knightMoves [64]uint64
var kingMoves [64]uint64
var pawnAttacksTable [2][64]uint64
var pseudoRook [64]uint64
var pseudoBishop [64]uint64
var pseudoQueen [64]uint64

// lineBB[a][b] is the full board line through a and b when they are aligned
// on a rank, file or diagonal (both endpoints included), else 0.
var lineBB [64][64]uint64

// betweenBB[a][b] holds the squares strictly between two aligned squares.
var betweenBB [64][64]uint64

// distanceRing[sq][d] holds the squares at Chebyshev distance exactly d.
var distanceRing [64][8]uint64

var chebyshev [64][64]int8

// adjacentFiles[f] is the mask of the files next to file f.
var adjacentFiles [8]uint64

// forwardRanks[c][r] is the mask of all ranks strictly in front of rank r
// from color c's point of view.
var forwardRanks [2][8]uint64

// forwardFile[c][sq], pawnAttackSpan[c][sq] and passedPawnMask[c][sq] are the
// usual pawn-geometry masks.
var forwardFile [2][64]uint64
var pawnAttackSpan [2][64]uint64
var passedPawnMask [2][64]uint64

func init() {
	for sq := 0; sq < 64; sq++ {
		SquareBB[sq] = 1 << uint(sq)
	}
	initStepTables()
	initLineTables()
	initPawnGeometry()
}

func initStepTables() {
	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		for _, d := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			if tf, tr := f+d[0], r+d[1]; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
				knightMoves[sq] |= SquareBB[tr*8+tf]
			}
		}
		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				if df == 0 && dr == 0 {
					continue
				}
				if tf, tr := f+df, r+dr; tf >= 0 && tf < 8 && tr >= 0 && tr < 8 {
					kingMoves[sq] |= SquareBB[tr*8+tf]
				}
			}
		}
		b := SquareBB[sq]
		pawnAttacksTable[White][sq] = ((b &^ FileABB) << 7) | ((b &^ FileHBB) << 9)
		pawnAttacksTable[Black][sq] = ((b &^ FileABB) >> 9) | ((b &^ FileHBB) >> 7)

		pseudoRook[sq] = dragontoothmg.CalculateRookMoveBitboard(uint8(sq), 0)
		pseudoBishop[sq] = dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), 0)
		pseudoQueen[sq] = pseudoRook[sq] | pseudoBishop[sq]
	}
}

func initLineTables() {
	for a := 0; a < 64; a++ {
		for b := 0; b < 64; b++ {
			df := absInt(a&7 - b&7)
			dr := absInt(a>>3 - b>>3)
			d := df
			if dr > d {
				d = dr
			}
			chebyshev[a][b] = int8(d)
			if a != b {
				distanceRing[a][d] |= SquareBB[b]
			}
			if a == b {
				continue
			}
			if pseudoRook[a]&SquareBB[b] != 0 {
				lineBB[a][b] = (pseudoRook[a] & pseudoRook[b]) | SquareBB[a] | SquareBB[b]
			} else if pseudoBishop[a]&SquareBB[b] != 0 {
				lineBB[a][b] = (pseudoBishop[a] & pseudoBishop[b]) | SquareBB[a] | SquareBB[b]
			}
			if lineBB[a][b] != 0 {
				lo, hi := a, b
				if lo > hi {
					lo, hi = hi, lo
				}
				seg := (SquareBB[hi] - 1) &^ (SquareBB[lo]<<1 - 1)
				betweenBB[a][b] = lineBB[a][b] & seg
			}
		}
	}
}

func initPawnGeometry() {
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= FileBB[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= FileBB[f+1]
		}
	}
	for r := 0; r < 8; r++ {
		for fr := r + 1; fr < 8; fr++ {
			forwardRanks[White][r] |= RankBB[fr]
		}
		for fr := 0; fr < r; fr++ {
			forwardRanks[Black][r] |= RankBB[fr]
		}
	}
	for c := 0; c < 2; c++ {
		for sq := 0; sq < 64; sq++ {
			f, r := sq&7, sq>>3
			forwardFile[c][sq] = forwardRanks[c][r] & FileBB[f]
			pawnAttackSpan[c][sq] = forwardRanks[c][r] & adjacentFiles[f]
			passedPawnMask[c][sq] = forwardFile[c][sq] | pawnAttackSpan[c][sq]
		}
	}
}

// RookAttacks returns the rook attack set from sq for the given occupancy.
func RookAttacks(sq Square, occupancy uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occupancy)
}

// BishopAttacks returns the bishop attack set from sq for the given occupancy.
func BishopAttacks(sq Square, occupancy uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occupancy)
}

// QueenAttacks returns the queen attack set from sq for the given occupancy.
func QueenAttacks(sq Square, occupancy uint64) uint64 {
	return RookAttacks(sq, occupancy) | BishopAttacks(sq, occupancy)
}

// KnightMoves returns the knight attack set from sq.
func KnightMoves(sq Square) uint64 { return knightMoves[sq] }

// KingMoves returns the king attack set from sq.
func KingMoves(sq Square) uint64 { return kingMoves[sq] }

// PawnAttacks returns the squares a pawn of the given color attacks from sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacksTable[c][sq] }

// PawnAttacksBB returns the attack set of a whole pawn bitboard.
func PawnAttacksBB(c Color, pawns uint64) uint64 {
	if c == White {
		return ((pawns &^ FileABB) << 7) | ((pawns &^ FileHBB) << 9)
	}
	return ((pawns &^ FileABB) >> 9) | ((pawns &^ FileHBB) >> 7)
}

// PawnDoubleAttacksBB returns the squares attacked by two pawns at once.
func PawnDoubleAttacksBB(c Color, pawns uint64) uint64 {
	if c == White {
		return ((pawns &^ FileABB) << 7) & ((pawns &^ FileHBB) << 9)
	}
	return ((pawns &^ FileABB) >> 9) & ((pawns &^ FileHBB) >> 7)
}

// PseudoAttacks returns the empty-board attack set for a piece type.
func PseudoAttacks(pt PieceType, sq Square) uint64 {
	switch pt {
	case Knight:
		return knightMoves[sq]
	case Bishop:
		return pseudoBishop[sq]
	case Rook:
		return pseudoRook[sq]
	case Queen:
		return pseudoQueen[sq]
	case King:
		return kingMoves[sq]
	}
	return 0
}

// LineBB returns the full line through two aligned squares, or 0.
func LineBB(a, b Square) uint64 { return lineBB[a][b] }

// BetweenBB returns the squares strictly between two aligned squares, or 0.
func BetweenBB(a, b Square) uint64 { return betweenBB[a][b] }

// DistanceRing returns the squares at Chebyshev distance exactly d from sq.
func DistanceRing(sq Square, d int) uint64 {
	if d < 0 || d > 7 {
		return 0
	}
	return distanceRing[sq][d]
}

// Distance returns the Chebyshev distance between two squares.
func Distance(a, b Square) int { return int(chebyshev[a][b]) }

// FileDistance and RankDistance are the per-axis distances.
func FileDistance(a, b Square) int { return absInt(int(a&7) - int(b&7)) }
func RankDistance(a, b Square) int { return absInt(int(a>>3) - int(b>>3)) }

// FileOf and RankOf extract board coordinates.
func FileOf(sq Square) int { return int(sq) & 7 }
func RankOf(sq Square) int { return int(sq) >> 3 }

// RelativeRank returns the rank of sq from color c's point of view.
func RelativeRank(c Color, sq Square) int {
	if c == White {
		return RankOf(sq)
	}
	return 7 - RankOf(sq)
}

// RelativeSquare mirrors sq vertically for Black.
func RelativeSquare(c Color, sq Square) Square {
	if c == White {
		return sq
	}
	return sq ^ 56
}

// PawnPush is the board delta of a single pawn push.
func PawnPush(c Color) int {
	if c == White {
		return 8
	}
	return -8
}

// ShiftUp shifts a bitboard one rank forward from c's point of view.
func ShiftUp(c Color, b uint64) uint64 {
	if c == White {
		return b << 8
	}
	return b >> 8
}

// ShiftDown shifts a bitboard one rank backward from c's point of view.
func ShiftDown(c Color, b uint64) uint64 {
	if c == White {
		return b >> 8
	}
	return b << 8
}

// ShiftUpLeft / ShiftUpRight shift one rank forward and one file sideways.
func ShiftUpLeft(c Color, b uint64) uint64 {
	if c == White {
		return (b &^ FileABB) << 7
	}
	return (b &^ FileHBB) >> 7
}

func ShiftUpRight(c Color, b uint64) uint64 {
	if c == White {
		return (b &^ FileHBB) << 9
	}
	return (b &^ FileABB) >> 9
}

// ForwardFile returns the squares in front of sq on its file.
func ForwardFile(c Color, sq Square) uint64 { return forwardFile[c][sq] }

// PawnAttackSpan returns the squares attackable by a pawn on sq as it advances.
func PawnAttackSpan(c Color, sq Square) uint64 { return pawnAttackSpan[c][sq] }

// PassedPawnMask returns forward file plus attack span.
func PassedPawnMask(c Color, sq Square) uint64 { return passedPawnMask[c][sq] }

// AdjacentFiles returns the mask of files adjacent to file f.
func AdjacentFiles(f int) uint64 { return adjacentFiles[f] }

// ForwardRanksBB returns all ranks strictly ahead of rank r for color c.
func ForwardRanksBB(c Color, r int) uint64 { return forwardRanks[c][r] }

// MoreThanOne reports whether a bitboard has at least two set bits.
func MoreThanOne(b uint64) bool { return b&(b-1) != 0 }

// PopCount counts set bits.
func PopCount(b uint64) int { return bits.OnesCount64(b) }

// Lsb returns the lowest set square.
func Lsb(b uint64) Square { return Square(bits.TrailingZeros64(b)) }

// PopLsb removes and returns the lowest set square.
func PopLsb(b *uint64) Square {
	sq := Square(bits.TrailingZeros64(*b))
	*b &= *b - 1
	return sq
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
