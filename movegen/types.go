package movegen

// Color identifies a side, White = 0 and Black = 1, so it doubles as an
// array index everywhere.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other side.
func (c Color) Opposite() Color { return c ^ 1 }

// PieceType is a colorless piece kind in [1..6]; 0 means empty.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece packs a type and a color into four bits: type in the low three,
// color in bit 3. Black pieces are (type | 8).
type Piece uint8

const (
	NoPiece Piece = 0

	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)

	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
)

// Type strips the color bit.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color reports the owning side; NoPiece maps to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// MakePiece combines a side and a colorless type.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c<<3)
}

// Square indexes the board 0..63, a1 = 0, h8 = 63. NoSquare marks absence.
type Square int8

const NoSquare Square = -1

// File returns the file index 0..7 (a..h).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the rank index 0..7.
func (s Square) Rank() int { return int(s) >> 3 }

// String renders the square in coordinate notation ("e4").
func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// SquareOf builds a square from file and rank indexes.
func SquareOf(file, rank int) Square { return Square(rank<<3 | file) }

// CastleRights is a bitmask of the four castling permissions.
type CastleRights uint8

const (
	WhiteKingside CastleRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

const squareMask = 0x3F

// Move packs a whole move into 32 bits:
//
//	bits  0-5   destination square
//	bits  6-11  origin square
//	bits 12-15  promotion piece
//	bits 16-19  moving piece
//	bits 20-23  captured piece (NoPiece when quiet)
//	bits 24-25  special flag
//
// The zero value is not a legal move and serves as "no move".
type Move uint32

const NoMove Move = 0

// Special move flags.
const (
	FlagNone uint8 = iota
	FlagCastle
	FlagEnPassant
	FlagDoublePush
)

// NewMove assembles a move from its parts.
func NewMove(from, to Square, piece, captured, promo Piece, flag uint8) Move {
	return Move(uint32(to)&squareMask |
		(uint32(from)&squareMask)<<6 |
		uint32(promo&0xF)<<12 |
		uint32(piece&0xF)<<16 |
		uint32(captured&0xF)<<20 |
		uint32(flag&0x3)<<24)
}

// To returns the destination square.
func (m Move) To() Square { return Square(uint32(m) & squareMask) }

// From returns the origin square.
func (m Move) From() Square { return Square((uint32(m) >> 6) & squareMask) }

// Promotion returns the promotion piece, NoPiece for non-promotions.
func (m Move) Promotion() Piece { return Piece((uint32(m) >> 12) & 0xF) }

// Piece returns the moving piece.
func (m Move) Piece() Piece { return Piece((uint32(m) >> 16) & 0xF) }

// Captured returns the captured piece, NoPiece for quiet moves.
func (m Move) Captured() Piece { return Piece((uint32(m) >> 20) & 0xF) }

// Flag returns the special move flag.
func (m Move) Flag() uint8 { return uint8((uint32(m) >> 24) & 0x3) }

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool { return m.Captured() != NoPiece }

// IsQuiet reports a non-capturing, non-promoting move.
func (m Move) IsQuiet() bool { return m.Captured() == NoPiece && m.Promotion() == NoPiece }

// String renders the move in long algebraic form ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoPiece {
		s += string(promoLetter(promo.Type()))
	}
	return s
}

func promoLetter(pt PieceType) byte {
	switch pt {
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	}
	return '?'
}
