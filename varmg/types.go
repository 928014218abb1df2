package varmg

// Color of a side. The complement is c ^ 1.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposite color.
func (c Color) Other() Color { return c ^ 1 }

// Square is a board coordinate, 0..63, a1 = 0, h8 = 63.
type Square int

const NoSquare Square = -1

const (
	SqA1 Square = 0
	SqB1 Square = 1
	SqC1 Square = 2
	SqD1 Square = 3
	SqE1 Square = 4
	SqF1 Square = 5
	SqG1 Square = 6
	SqH1 Square = 7
	SqD4 Square = 27
	SqE4 Square = 28
	SqD5 Square = 35
	SqE5 Square = 36
	SqA8 Square = 56
	SqH8 Square = 63
)

// PieceType indices. AllPieces and QueenDiagonal are pseudo types used as
// attack-map slots by the evaluator.
type PieceType int

const (
	NoPieceType   PieceType = 0
	Pawn          PieceType = 1
	Knight        PieceType = 2
	Bishop        PieceType = 3
	Rook          PieceType = 4
	Queen         PieceType = 5
	King          PieceType = 6
	AllPieces     PieceType = 7
	QueenDiagonal PieceType = 8

	PieceTypeNB = 9
)

// Piece is a colored piece; 0 is the empty square.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6
	BlackPawn   Piece = 9
	BlackKnight Piece = 10
	BlackBishop Piece = 11
	BlackRook   Piece = 12
	BlackQueen  Piece = 13
	BlackKing   Piece = 14
)

// Type returns the piece type, ignoring color.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return Color(p >> 3) }

// PieceFromType builds a colored piece from a color and a type.
func PieceFromType(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(uint8(c)<<3 | uint8(pt))
}

// Castling rights bit flags.
type CastlingRights uint8

const (
	CastlingWhiteK CastlingRights = 1 << iota
	CastlingWhiteQ
	CastlingBlackK
	CastlingBlackQ
)

// Variant selects the rule set a position is played under. It indexes every
// per-variant parameter table in the evaluator.
type Variant uint8

const (
	VariantStandard Variant = iota
	VariantAnti
	VariantAtomic
	VariantCrazyhouse
	VariantExtinction
	VariantGrid
	VariantHorde
	VariantKOTH
	VariantLosers
	VariantRace
	VariantRelay
	VariantThreeCheck
	VariantTwoKings

	VariantNB = 13
)

var variantNames = [VariantNB]string{
	"standard", "antichess", "atomic", "crazyhouse", "extinction", "grid",
	"horde", "kingofthehill", "losers", "racingkings", "relay", "3check",
	"twokings",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// VariantFromName resolves a variant by its common name. Returns standard
// and false for unknown names.
func VariantFromName(name string) (Variant, bool) {
	aliases := map[string]Variant{
		"standard": VariantStandard, "chess": VariantStandard,
		"antichess": VariantAnti, "anti": VariantAnti, "giveaway": VariantAnti,
		"atomic":     VariantAtomic,
		"crazyhouse": VariantCrazyhouse, "zh": VariantCrazyhouse,
		"extinction":    VariantExtinction,
		"grid":          VariantGrid,
		"horde":         VariantHorde,
		"kingofthehill": VariantKOTH, "koth": VariantKOTH,
		"losers":      VariantLosers,
		"racingkings": VariantRace, "race": VariantRace,
		"relay":  VariantRelay,
		"3check": VariantThreeCheck, "threecheck": VariantThreeCheck,
		"twokings": VariantTwoKings,
	}
	v, ok := aliases[name]
	if !ok {
		return VariantStandard, false
	}
	return v, true
}

// Piece values on the evaluator's internal scale. The Mg values gate king
// safety and space; PawnValueEg is the display unit of the trace output.
const (
	PawnValueMg   = 171
	PawnValueEg   = 240
	KnightValueMg = 764
	KnightValueEg = 848
	BishopValueMg = 826
	BishopValueEg = 891
	RookValueMg   = 1282
	RookValueEg   = 1373
	QueenValueMg  = 2526
	QueenValueEg  = 2646

	MidgameLimit = 15258
	EndgameLimit = 3915
)

// PieceValueMg / PieceValueEg indexed by PieceType.
var PieceValueMg = [8]int{0, PawnValueMg, KnightValueMg, BishopValueMg, RookValueMg, QueenValueMg, 0, 0}
var PieceValueEg = [8]int{0, PawnValueEg, KnightValueEg, BishopValueEg, RookValueEg, QueenValueEg, 0, 0}

// Game result values, from the side to move's point of view.
const (
	ValueDraw = 0
	ValueWin  = 30000
	ValueLoss = -30000
)
