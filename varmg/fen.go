package varmg

import (
	"errors"
	"strconv"
	"strings"
)

// FENStartPos is the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FENHordeStart is the lichess Horde initial position (White is the horde).
const FENHordeStart = "rnbqkbnr/pppppppp/8/1PP2PP1/PPPPPPPP/PPPPPPPP/PPPPPPPP/PPPPPPPP w kq - 0 1"

func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}

func charFromPiece(p Piece) byte {
	const chars = " PNBRQK  pnbrqk"
	return chars[p]
}

// ParseFEN parses a FEN string for the given variant. Beyond the standard
// six fields it accepts a Crazyhouse pocket in brackets after the placement
// ("...R1K[QRbp] w ...") and a Three-check "+w+b" checks-given field after
// the en passant square.
func ParseFEN(fen string, variant Variant) (*Board, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 2 {
		return nil, errors.New("fen: too few fields")
	}
	b := NewBoard(variant)

	placement := fields[0]
	if i := strings.IndexByte(placement, '['); i >= 0 {
		j := strings.IndexByte(placement, ']')
		if j < i {
			return nil, errors.New("fen: unterminated pocket")
		}
		for _, ch := range placement[i+1 : j] {
			p := pieceFromChar(ch)
			if p == NoPiece {
				return nil, errors.New("fen: bad pocket piece")
			}
			b.hands[p.Color()][p.Type()]++
		}
		placement = placement[:i]
	}

	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return nil, errors.New("fen: placement needs 8 ranks")
	}
	for r := 0; r < 8; r++ {
		file := 0
		for _, ch := range ranks[r] {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := pieceFromChar(ch)
			if p == NoPiece || file > 7 {
				return nil, errors.New("fen: bad placement")
			}
			b.SetPiece(Square((7-r)*8+file), p)
			file++
		}
		if file != 8 {
			return nil, errors.New("fen: short rank")
		}
	}

	switch fields[1] {
	case "w":
		b.Wtomove = true
	case "b":
		b.Wtomove = false
	default:
		return nil, errors.New("fen: bad side to move")
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			switch {
			case ch == 'K':
				b.castlingRights |= CastlingWhiteK
			case ch == 'Q':
				b.castlingRights |= CastlingWhiteQ
			case ch == 'k':
				b.castlingRights |= CastlingBlackK
			case ch == 'q':
				b.castlingRights |= CastlingBlackQ
			case ch >= 'A' && ch <= 'H':
				// Shredder-FEN rook file: treat as a right and flag 960.
				b.chess960 = true
				if ksq := b.KingSquare(White); ksq != NoSquare && int(ch-'A') < FileOf(ksq) {
					b.castlingRights |= CastlingWhiteQ
				} else {
					b.castlingRights |= CastlingWhiteK
				}
			case ch >= 'a' && ch <= 'h':
				b.chess960 = true
				if ksq := b.KingSquare(Black); ksq != NoSquare && int(ch-'a') < FileOf(ksq) {
					b.castlingRights |= CastlingBlackQ
				} else {
					b.castlingRights |= CastlingBlackK
				}
			default:
				return nil, errors.New("fen: bad castling field")
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq := parseSquare(fields[3])
		if sq == NoSquare {
			return nil, errors.New("fen: bad en passant square")
		}
		b.epSquare = sq
	}

	next := 4
	// Optional Three-check counter: "+2+0" or "2+1" style.
	if len(fields) > next && strings.Contains(fields[next], "+") {
		s := strings.TrimPrefix(fields[next], "+")
		parts := strings.Split(s, "+")
		if len(parts) == 2 {
			w, err1 := strconv.Atoi(parts[0])
			bl, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				return nil, errors.New("fen: bad checks field")
			}
			b.SetChecksGiven(w, bl)
			next++
		}
	}

	if len(fields) > next {
		n, err := strconv.Atoi(fields[next])
		if err != nil {
			return nil, errors.New("fen: bad halfmove clock")
		}
		b.halfmoveClock = n
		next++
	}
	if len(fields) > next {
		n, err := strconv.Atoi(fields[next])
		if err != nil {
			return nil, errors.New("fen: bad fullmove number")
		}
		b.fullmoveNumber = n
	}

	if variant == VariantHorde {
		if b.White.Kings == 0 {
			b.hordeSide = White
		} else {
			b.hordeSide = Black
		}
	}
	return b, nil
}

// MustParseFEN panics on invalid input; for tests and tool plumbing.
func MustParseFEN(fen string, variant Variant) *Board {
	b, err := ParseFEN(fen, variant)
	if err != nil {
		panic(err)
	}
	return b
}

func parseSquare(s string) Square {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a'))
}

// SquareName returns the algebraic name of a square.
func SquareName(sq Square) string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + FileOf(sq)), byte('1' + RankOf(sq))})
}

// ToFEN renders the position, including pocket and check counters where the
// variant carries them.
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := b.pieces[r*8+f]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	if b.IsHouse() {
		sb.WriteByte('[')
		for c := White; c <= Black; c++ {
			for pt := Queen; pt >= Pawn; pt-- {
				for i := 0; i < b.hands[c][pt]; i++ {
					sb.WriteByte(charFromPiece(PieceFromType(c, pt)))
				}
			}
		}
		sb.WriteByte(']')
	}

	if b.Wtomove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(SquareName(b.epSquare))

	if b.IsThreeCheck() {
		sb.WriteString(" +")
		sb.WriteString(strconv.Itoa(b.checksGiven[White]))
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(b.checksGiven[Black]))
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
