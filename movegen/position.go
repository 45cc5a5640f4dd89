package movegen

import "math/bits"

// Position is the full game state: one bitboard per (color, piece type),
// per-side occupancy, a mailbox for O(1) piece lookup, the usual FEN
// fields, and the incrementally maintained fingerprints.
type Position struct {
	pieceBB [2][7]uint64 // [color][PieceType]; index 0 unused
	occ     [2]uint64
	squares [64]Piece

	stm    Color
	castle CastleRights
	ep     Square // en-passant target square or NoSquare
	rule50 int    // halfmoves since the last pawn move or capture
	moveNo int    // fullmove counter, starts at 1

	key      uint64 // full position fingerprint
	pawnKey  uint64 // pawns only
	minorKey uint64 // knights and bishops only
}

// SideToMove reports whose turn it is.
func (p *Position) SideToMove() Color { return p.stm }

// Key returns the current position fingerprint.
func (p *Position) Key() uint64 { return p.key }

// PawnKey returns the pawn-structure sub-fingerprint.
func (p *Position) PawnKey() uint64 { return p.pawnKey }

// MinorKey returns the minor-piece sub-fingerprint.
func (p *Position) MinorKey() uint64 { return p.minorKey }

// Rule50 returns the halfmove clock.
func (p *Position) Rule50() int { return p.rule50 }

// MoveNumber returns the fullmove counter.
func (p *Position) MoveNumber() int { return p.moveNo }

// EnPassant returns the en-passant target square or NoSquare.
func (p *Position) EnPassant() Square { return p.ep }

// CastleRights returns the current castling permissions.
func (p *Position) CastleRights() CastleRights { return p.castle }

// PieceOn returns the piece occupying sq, NoPiece when empty.
func (p *Position) PieceOn(sq Square) Piece { return p.squares[sq] }

// Pieces returns the bitboard of the given piece type for the given side.
func (p *Position) Pieces(c Color, pt PieceType) uint64 { return p.pieceBB[c][pt] }

// Occupied returns the union of both sides' occupancy.
func (p *Position) Occupied() uint64 { return p.occ[White] | p.occ[Black] }

// OccupiedBy returns one side's occupancy.
func (p *Position) OccupiedBy(c Color) uint64 { return p.occ[c] }

// KingSquare returns the square of the given side's king.
func (p *Position) KingSquare(c Color) Square {
	return Square(bits.TrailingZeros64(p.pieceBB[c][King]))
}

func squareBit(sq Square) uint64 { return 1 << uint(sq) }

// popLSB clears and returns the index of the lowest set bit.
func popLSB(bb *uint64) int {
	sq := bits.TrailingZeros64(*bb)
	*bb &= *bb - 1
	return sq
}

// put places a piece on an empty square, keeping bitboards, occupancy
// and all three fingerprints in sync.
func (p *Position) put(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	bit := squareBit(sq)
	p.squares[sq] = pc
	p.pieceBB[c][pt] |= bit
	p.occ[c] |= bit

	k := zob.piece[c][pt][sq]
	p.key ^= k
	switch pt {
	case Pawn:
		p.pawnKey ^= k
	case Knight, Bishop:
		p.minorKey ^= k
	}
}

// lift removes the piece from sq and returns it.
func (p *Position) lift(sq Square) Piece {
	pc := p.squares[sq]
	if pc == NoPiece {
		return NoPiece
	}
	c, pt := pc.Color(), pc.Type()
	bit := squareBit(sq)
	p.squares[sq] = NoPiece
	p.pieceBB[c][pt] &^= bit
	p.occ[c] &^= bit

	k := zob.piece[c][pt][sq]
	p.key ^= k
	switch pt {
	case Pawn:
		p.pawnKey ^= k
	case Knight, Bishop:
		p.minorKey ^= k
	}
	return pc
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var buf [64]Move
	return len(p.LegalMovesInto(buf[:0])) > 0
}

// InCheck reports whether the given side's king is attacked.
func (p *Position) InCheck(c Color) bool {
	return p.attackedWithOcc(p.KingSquare(c), c.Opposite(), p.Occupied())
}

// IsCheckmate reports whether the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.stm) && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move has no moves but is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.stm) && !p.HasLegalMoves()
}

// FiftyMoveDraw reports a draw by the fifty-move rule.
func (p *Position) FiftyMoveDraw() bool { return p.rule50 >= 100 }

// InsufficientMaterial reports positions where no sequence of legal
// moves can deliver mate: bare kings, a lone minor, or same-colored
// lone bishops.
func (p *Position) InsufficientMaterial() bool {
	if p.pieceBB[White][Pawn]|p.pieceBB[Black][Pawn] != 0 {
		return false
	}
	if p.pieceBB[White][Rook]|p.pieceBB[Black][Rook]|
		p.pieceBB[White][Queen]|p.pieceBB[Black][Queen] != 0 {
		return false
	}
	knights := p.pieceBB[White][Knight] | p.pieceBB[Black][Knight]
	bishops := p.pieceBB[White][Bishop] | p.pieceBB[Black][Bishop]
	minors := bits.OnesCount64(knights | bishops)
	if minors <= 1 {
		return true
	}
	if knights == 0 && minors == 2 &&
		bits.OnesCount64(p.pieceBB[White][Bishop]) == 1 &&
		bits.OnesCount64(p.pieceBB[Black][Bishop]) == 1 {
		const lightSquares = 0x55AA55AA55AA55AA
		wLight := p.pieceBB[White][Bishop]&lightSquares != 0
		bLight := p.pieceBB[Black][Bishop]&lightSquares != 0
		return wLight == bLight
	}
	return false
}

// Validate cross-checks the mailbox against the bitboards and the
// incremental fingerprints against from-scratch recomputation. Used by
// tests and debug assertions only.
func (p *Position) Validate() bool {
	var occ [2]uint64
	var bb [2][7]uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		bit := squareBit(sq)
		occ[pc.Color()] |= bit
		bb[pc.Color()][pc.Type()] |= bit
	}
	if occ != p.occ || bb != p.pieceBB {
		return false
	}
	return p.key == p.ComputeKey() &&
		p.pawnKey == p.ComputePawnKey() &&
		p.minorKey == p.ComputeMinorKey()
}
