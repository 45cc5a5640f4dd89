package movegen

// castleMask[sq] clears the rights that die when a piece moves from or
// is captured on sq. Squares other than the kings' and rooks' homes
// leave all rights intact.
var castleMask = func() [64]CastleRights {
	var m [64]CastleRights
	all := WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
	for sq := range m {
		m[sq] = all
	}
	m[0] = all &^ WhiteQueenside
	m[7] = all &^ WhiteKingside
	m[4] = all &^ (WhiteKingside | WhiteQueenside)
	m[56] = all &^ BlackQueenside
	m[63] = all &^ BlackKingside
	m[60] = all &^ (BlackKingside | BlackQueenside)
	return m
}()

// Undo snapshots everything MakeMove cannot cheaply invert. Fingerprints
// are restored by assignment so a make/unmake pair is exact by
// construction.
type Undo struct {
	move     Move
	castle   CastleRights
	ep       Square
	rule50   int
	moveNo   int
	key      uint64
	pawnKey  uint64
	minorKey uint64
}

// Move returns the move this undo record belongs to.
func (u Undo) Move() Move { return u.move }

// MakeMove applies a move produced by this position's generator. Moves
// from any other source must be validated against the generated move
// list first; MakeMove itself performs no legality checking.
func (p *Position) MakeMove(m Move) Undo {
	u := Undo{
		move:     m,
		castle:   p.castle,
		ep:       p.ep,
		rule50:   p.rule50,
		moveNo:   p.moveNo,
		key:      p.key,
		pawnKey:  p.pawnKey,
		minorKey: p.minorKey,
	}

	side := p.stm
	from, to := m.From(), m.To()
	flag := m.Flag()

	if p.ep != NoSquare {
		p.key ^= zob.epFile[p.ep.File()]
		p.ep = NoSquare
	}

	switch flag {
	case FlagEnPassant:
		capSq := to - 8
		if side == Black {
			capSq = to + 8
		}
		p.lift(capSq)
	default:
		if m.Captured() != NoPiece {
			p.lift(to)
		}
	}

	moved := p.lift(from)
	if promo := m.Promotion(); promo != NoPiece {
		p.put(promo, to)
	} else {
		p.put(moved, to)
	}

	if flag == FlagCastle {
		rookFrom, rookTo := castleRookFrom(to), castleRookTo(to)
		p.put(p.lift(rookFrom), rookTo)
	}

	if newCastle := p.castle & castleMask[from] & castleMask[to]; newCastle != p.castle {
		p.key ^= zob.castle[p.castle] ^ zob.castle[newCastle]
		p.castle = newCastle
	}

	if flag == FlagDoublePush {
		ep := from + 8
		if side == Black {
			ep = from - 8
		}
		p.ep = ep
		p.key ^= zob.epFile[ep.File()]
	}

	if moved.Type() == Pawn || m.Captured() != NoPiece {
		p.rule50 = 0
	} else {
		p.rule50++
	}
	if side == Black {
		p.moveNo++
	}

	p.stm = side.Opposite()
	p.key ^= zob.sideBlack

	return u
}

// UnmakeMove restores the position to the state captured in u.
func (p *Position) UnmakeMove(u Undo) {
	m := u.move
	from, to := m.From(), m.To()
	flag := m.Flag()
	side := p.stm.Opposite() // the side that made the move

	if flag == FlagCastle {
		rookFrom, rookTo := castleRookFrom(to), castleRookTo(to)
		p.put(p.lift(rookTo), rookFrom)
	}

	p.lift(to)
	if m.Promotion() != NoPiece {
		p.put(MakePiece(side, Pawn), from)
	} else {
		p.put(m.Piece(), from)
	}

	if captured := m.Captured(); captured != NoPiece {
		if flag == FlagEnPassant {
			capSq := to - 8
			if side == Black {
				capSq = to + 8
			}
			p.put(captured, capSq)
		} else {
			p.put(captured, to)
		}
	}

	p.stm = side
	p.castle = u.castle
	p.ep = u.ep
	p.rule50 = u.rule50
	p.moveNo = u.moveNo
	p.key = u.key
	p.pawnKey = u.pawnKey
	p.minorKey = u.minorKey
}

// NullUndo is the snapshot for a null move.
type NullUndo struct {
	ep     Square
	rule50 int
	key    uint64
}

// MakeNullMove passes the turn without moving a piece, for null-move
// pruning. Never call it while in check.
func (p *Position) MakeNullMove() NullUndo {
	u := NullUndo{ep: p.ep, rule50: p.rule50, key: p.key}
	if p.ep != NoSquare {
		p.key ^= zob.epFile[p.ep.File()]
		p.ep = NoSquare
	}
	p.rule50++
	p.stm = p.stm.Opposite()
	p.key ^= zob.sideBlack
	return u
}

// UnmakeNullMove restores the state prior to MakeNullMove.
func (p *Position) UnmakeNullMove(u NullUndo) {
	p.stm = p.stm.Opposite()
	p.ep = u.ep
	p.rule50 = u.rule50
	p.key = u.key
}
