package movegen

import "math/bits"

// Generation filters for staged move generation.
const (
	genAll = iota
	genCaptures
	genQuiets
)

// attackedWithOcc reports whether square sq is attacked by side `by`
// under an explicit occupancy, so callers can ask about hypothetical
// positions (king steps, en passant) without mutating the board.
func (p *Position) attackedWithOcc(sq Square, by Color, occ uint64) bool {
	s := int(sq)

	// Pawns attack sq iff a reverse pawn capture from sq reaches one.
	if atk.pawn[by.Opposite()][s]&p.pieceBB[by][Pawn] != 0 {
		return true
	}
	if atk.knight[s]&p.pieceBB[by][Knight] != 0 {
		return true
	}
	if atk.king[s]&p.pieceBB[by][King] != 0 {
		return true
	}

	rq := p.pieceBB[by][Rook] | p.pieceBB[by][Queen]
	bq := p.pieceBB[by][Bishop] | p.pieceBB[by][Queen]

	// First blocker along each ray, checked for slider identity.
	if blockers := atk.orthoRays[s][dirNorth] & occ; blockers != 0 {
		if blockers&-blockers&rq != 0 {
			return true
		}
	}
	if blockers := atk.orthoRays[s][dirSouth] & occ; blockers != 0 {
		if squareBit(Square(63-bits.LeadingZeros64(blockers)))&rq != 0 {
			return true
		}
	}
	if blockers := atk.orthoRays[s][dirEast] & occ; blockers != 0 {
		if blockers&-blockers&rq != 0 {
			return true
		}
	}
	if blockers := atk.orthoRays[s][dirWest] & occ; blockers != 0 {
		if squareBit(Square(63-bits.LeadingZeros64(blockers)))&rq != 0 {
			return true
		}
	}
	if blockers := atk.diagRays[s][dirNorthEast] & occ; blockers != 0 {
		if blockers&-blockers&bq != 0 {
			return true
		}
	}
	if blockers := atk.diagRays[s][dirNorthWest] & occ; blockers != 0 {
		if blockers&-blockers&bq != 0 {
			return true
		}
	}
	if blockers := atk.diagRays[s][dirSouthEast] & occ; blockers != 0 {
		if squareBit(Square(63-bits.LeadingZeros64(blockers)))&bq != 0 {
			return true
		}
	}
	if blockers := atk.diagRays[s][dirSouthWest] & occ; blockers != 0 {
		if squareBit(Square(63-bits.LeadingZeros64(blockers)))&bq != 0 {
			return true
		}
	}

	return false
}

// IsAttacked reports whether sq is attacked by the given side in the
// current position.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	return p.attackedWithOcc(sq, by, p.Occupied())
}

// AttackersTo returns the bitboard of all pieces of side `by` attacking sq
// under the given occupancy. Used by static exchange evaluation.
func (p *Position) AttackersTo(sq Square, by Color, occ uint64) uint64 {
	var a uint64
	a |= atk.pawn[by.Opposite()][sq] & p.pieceBB[by][Pawn]
	a |= atk.knight[sq] & p.pieceBB[by][Knight]
	a |= atk.king[sq] & p.pieceBB[by][King]
	a |= BishopAttacks(sq, occ) & (p.pieceBB[by][Bishop] | p.pieceBB[by][Queen])
	a |= RookAttacks(sq, occ) & (p.pieceBB[by][Rook] | p.pieceBB[by][Queen])
	return a & occ
}

// checkInfo is the per-node legality context: whether the mover is in
// check, the evasion target mask for non-king moves when a single piece
// checks, and per-square pin lines.
type checkInfo struct {
	inCheck     bool
	doubleCheck bool
	evasionMask uint64
	pinLine     [64]uint64
}

// computeCheckInfo finds checkers against the side-to-move king and the
// pin line of every absolutely pinned piece. With the evasion mask and
// pin lines in hand, non-king moves never need a make/verify round trip.
func (p *Position) computeCheckInfo(side Color, occ uint64) checkInfo {
	var ci checkInfo
	them := side.Opposite()
	ksq := p.KingSquare(side)
	ks := int(ksq)

	checkers := atk.pawn[side][ks] & p.pieceBB[them][Pawn]
	checkers |= atk.knight[ks] & p.pieceBB[them][Knight]
	diag := BishopAttacks(ksq, occ)
	checkers |= diag & (p.pieceBB[them][Bishop] | p.pieceBB[them][Queen])
	ortho := RookAttacks(ksq, occ)
	checkers |= ortho & (p.pieceBB[them][Rook] | p.pieceBB[them][Queen])

	ci.inCheck = checkers != 0
	ci.doubleCheck = checkers&(checkers-1) != 0

	if ci.inCheck && !ci.doubleCheck {
		c := bits.TrailingZeros64(checkers)
		cbb := uint64(1) << uint(c)
		switch p.squares[c].Type() {
		case Rook, Queen:
			for d := 0; d < 4; d++ {
				if atk.orthoRays[ks][d]&cbb != 0 {
					ci.evasionMask = atk.orthoRays[ks][d] &^ atk.orthoRays[c][d]
					break
				}
			}
			if ci.evasionMask == 0 {
				for d := 0; d < 4; d++ {
					if atk.diagRays[ks][d]&cbb != 0 {
						ci.evasionMask = atk.diagRays[ks][d] &^ atk.diagRays[c][d]
						break
					}
				}
			}
		case Bishop:
			for d := 0; d < 4; d++ {
				if atk.diagRays[ks][d]&cbb != 0 {
					ci.evasionMask = atk.diagRays[ks][d] &^ atk.diagRays[c][d]
					break
				}
			}
		default: // pawn or knight: capture is the only non-king answer
			ci.evasionMask = cbb
		}
	}

	// Pins: the first own piece along a king ray is pinned when the next
	// piece beyond it is an enemy slider moving along that ray.
	for d := 0; d < 4; d++ {
		ray := atk.orthoRays[ks][d]
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		var first int
		if d == dirNorth || d == dirEast {
			first = bits.TrailingZeros64(blockers)
		} else {
			first = 63 - bits.LeadingZeros64(blockers)
		}
		if squareBit(Square(first))&p.occ[side] == 0 {
			continue
		}
		beyond := atk.orthoRays[first][d] & occ
		if beyond == 0 {
			continue
		}
		var next int
		if d == dirNorth || d == dirEast {
			next = bits.TrailingZeros64(beyond)
		} else {
			next = 63 - bits.LeadingZeros64(beyond)
		}
		pc := p.squares[next]
		if pc.Color() == them && (pc.Type() == Rook || pc.Type() == Queen) {
			ci.pinLine[first] = atk.orthoRays[ks][d] &^ atk.orthoRays[next][d]
		}
	}
	for d := 0; d < 4; d++ {
		ray := atk.diagRays[ks][d]
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		var first int
		if d == dirNorthEast || d == dirNorthWest {
			first = bits.TrailingZeros64(blockers)
		} else {
			first = 63 - bits.LeadingZeros64(blockers)
		}
		if squareBit(Square(first))&p.occ[side] == 0 {
			continue
		}
		beyond := atk.diagRays[first][d] & occ
		if beyond == 0 {
			continue
		}
		var next int
		if d == dirNorthEast || d == dirNorthWest {
			next = bits.TrailingZeros64(beyond)
		} else {
			next = 63 - bits.LeadingZeros64(beyond)
		}
		pc := p.squares[next]
		if pc.Color() == them && (pc.Type() == Bishop || pc.Type() == Queen) {
			ci.pinLine[first] = atk.diagRays[ks][d] &^ atk.diagRays[next][d]
		}
	}

	return ci
}

// generateInto is the core generator. It appends strictly legal moves
// matching the filter into dst and returns the extended slice.
func (p *Position) generateInto(dst []Move, filter int) []Move {
	moves := dst[:0]
	side := p.stm
	them := side.Opposite()

	ownOcc := p.occ[side]
	oppOcc := p.occ[them]
	allOcc := ownOcc | oppOcc
	ksq := p.KingSquare(side)

	ci := p.computeCheckInfo(side, allOcc)

	// target reports whether a non-king move to the square bit is legal
	// given the pin line of its mover and the current check state.
	target := func(pin, toBB uint64) bool {
		if ci.doubleCheck {
			return false
		}
		if pin != 0 && pin&toBB == 0 {
			return false
		}
		if ci.inCheck && ci.evasionMask&toBB == 0 {
			return false
		}
		return true
	}

	up, dblRank, promoRank := 8, 1, 7
	if side == Black {
		up, dblRank, promoRank = -8, 6, 0
	}
	ourPawn := MakePiece(side, Pawn)
	theirPawn := MakePiece(them, Pawn)

	for pawns := p.pieceBB[side][Pawn]; pawns != 0; {
		from := popLSB(&pawns)
		fromSq := Square(from)
		pin := ci.pinLine[from]

		// Pushes.
		one := from + up
		if filter != genCaptures && allOcc&(1<<uint(one)) == 0 {
			oneBB := uint64(1) << uint(one)
			if target(pin, oneBB) {
				if one>>3 == promoRank {
					for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
						moves = append(moves, NewMove(fromSq, Square(one), ourPawn, NoPiece, MakePiece(side, pt), FlagNone))
					}
				} else {
					moves = append(moves, NewMove(fromSq, Square(one), ourPawn, NoPiece, NoPiece, FlagNone))
				}
			}
			if from>>3 == dblRank {
				two := one + up
				twoBB := uint64(1) << uint(two)
				if allOcc&twoBB == 0 && target(pin, twoBB) {
					moves = append(moves, NewMove(fromSq, Square(two), ourPawn, NoPiece, NoPiece, FlagDoublePush))
				}
			}
		}

		// Captures.
		caps := atk.pawn[side][from]
		if filter != genQuiets {
			for targets := caps & oppOcc; targets != 0; {
				to := popLSB(&targets)
				toBB := uint64(1) << uint(to)
				if !target(pin, toBB) {
					continue
				}
				victim := p.squares[to]
				if to>>3 == promoRank {
					for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
						moves = append(moves, NewMove(fromSq, Square(to), ourPawn, victim, MakePiece(side, pt), FlagNone))
					}
				} else {
					moves = append(moves, NewMove(fromSq, Square(to), ourPawn, victim, NoPiece, FlagNone))
				}
			}

			// En passant: simulate the occupancy change and verify the
			// king is safe, covering the discovered-check edge cases the
			// pin lines cannot express.
			if p.ep != NoSquare && caps&squareBit(p.ep) != 0 {
				epBB := squareBit(p.ep)
				if !ci.doubleCheck && (pin == 0 || pin&epBB != 0) {
					capSq := int(p.ep) - up
					occAfter := allOcc&^(uint64(1)<<uint(from))&^(uint64(1)<<uint(capSq)) | epBB
					if !p.attackedWithOcc(ksq, them, occAfter) {
						moves = append(moves, NewMove(fromSq, p.ep, ourPawn, theirPawn, NoPiece, FlagEnPassant))
					}
				}
			}
		}
	}

	// Leapers and sliders share one emission loop; only the target set
	// differs. Everything but the king is skipped under double check.
	if !ci.doubleCheck {
		emit := func(from int, targets uint64, moved Piece) {
			pin := ci.pinLine[from]
			if pin != 0 {
				targets &= pin
			}
			if ci.inCheck {
				targets &= ci.evasionMask
			}
			switch filter {
			case genCaptures:
				targets &= oppOcc
			case genQuiets:
				targets &^= oppOcc
			}
			for t := targets; t != 0; {
				to := popLSB(&t)
				moves = append(moves, NewMove(Square(from), Square(to), moved, p.squares[to], NoPiece, FlagNone))
			}
		}

		for bbset := p.pieceBB[side][Knight]; bbset != 0; {
			from := popLSB(&bbset)
			emit(from, atk.knight[from]&^ownOcc, MakePiece(side, Knight))
		}
		for bbset := p.pieceBB[side][Bishop]; bbset != 0; {
			from := popLSB(&bbset)
			emit(from, BishopAttacks(Square(from), allOcc)&^ownOcc, MakePiece(side, Bishop))
		}
		for bbset := p.pieceBB[side][Rook]; bbset != 0; {
			from := popLSB(&bbset)
			emit(from, RookAttacks(Square(from), allOcc)&^ownOcc, MakePiece(side, Rook))
		}
		for bbset := p.pieceBB[side][Queen]; bbset != 0; {
			from := popLSB(&bbset)
			emit(from, QueenAttacks(Square(from), allOcc)&^ownOcc, MakePiece(side, Queen))
		}
	}

	// King steps: test each destination under the occupancy with the
	// king lifted, so retreating along a checker's ray stays illegal.
	ourKing := MakePiece(side, King)
	for t := atk.king[ksq] &^ ownOcc; t != 0; {
		to := popLSB(&t)
		toBB := uint64(1) << uint(to)
		isCap := oppOcc&toBB != 0
		if (filter == genCaptures && !isCap) || (filter == genQuiets && isCap) {
			continue
		}
		occAfter := allOcc&^squareBit(ksq) | toBB
		if p.attackedWithOcc(Square(to), them, occAfter) {
			continue
		}
		moves = append(moves, NewMove(ksq, Square(to), ourKing, p.squares[to], NoPiece, FlagNone))
	}

	// Castling: rights present, path empty, king not in or through check.
	if filter != genCaptures && !ci.inCheck {
		if side == White {
			if p.castle&WhiteKingside != 0 &&
				p.squares[5] == NoPiece && p.squares[6] == NoPiece && p.squares[7] == WhiteRook &&
				!p.attackedWithOcc(5, Black, allOcc) && !p.attackedWithOcc(6, Black, allOcc) {
				moves = append(moves, NewMove(4, 6, WhiteKing, NoPiece, NoPiece, FlagCastle))
			}
			if p.castle&WhiteQueenside != 0 &&
				p.squares[1] == NoPiece && p.squares[2] == NoPiece && p.squares[3] == NoPiece && p.squares[0] == WhiteRook &&
				!p.attackedWithOcc(3, Black, allOcc) && !p.attackedWithOcc(2, Black, allOcc) {
				moves = append(moves, NewMove(4, 2, WhiteKing, NoPiece, NoPiece, FlagCastle))
			}
		} else {
			if p.castle&BlackKingside != 0 &&
				p.squares[61] == NoPiece && p.squares[62] == NoPiece && p.squares[63] == BlackRook &&
				!p.attackedWithOcc(61, White, allOcc) && !p.attackedWithOcc(62, White, allOcc) {
				moves = append(moves, NewMove(60, 62, BlackKing, NoPiece, NoPiece, FlagCastle))
			}
			if p.castle&BlackQueenside != 0 &&
				p.squares[57] == NoPiece && p.squares[58] == NoPiece && p.squares[59] == NoPiece && p.squares[56] == BlackRook &&
				!p.attackedWithOcc(59, White, allOcc) && !p.attackedWithOcc(58, White, allOcc) {
				moves = append(moves, NewMove(60, 58, BlackKing, NoPiece, NoPiece, FlagCastle))
			}
		}
	}

	return moves
}

// LegalMovesInto appends every legal move for the side to move into dst.
// dst is truncated and reused, so hot paths can pass a per-ply buffer.
func (p *Position) LegalMovesInto(dst []Move) []Move {
	return p.generateInto(dst, genAll)
}

// LegalMoves allocates and returns all legal moves.
func (p *Position) LegalMoves() []Move {
	return p.LegalMovesInto(make([]Move, 0, 64))
}

// CapturesInto appends all legal captures, including en passant and
// capturing promotions.
func (p *Position) CapturesInto(dst []Move) []Move {
	return p.generateInto(dst, genCaptures)
}

// QuietsInto appends all legal non-captures, including quiet promotions
// and castling.
func (p *Position) QuietsInto(dst []Move) []Move {
	return p.generateInto(dst, genQuiets)
}

// GivesCheck reports whether the (legal) move would leave the opponent's
// king in check, without mutating the position.
func (p *Position) GivesCheck(m Move) bool {
	side := p.stm
	them := side.Opposite()
	ksq := p.KingSquare(them)
	kBit := squareBit(ksq)

	from, to := m.From(), m.To()
	fromBB, toBB := squareBit(from), squareBit(to)

	occ := p.Occupied() &^ fromBB
	if m.Flag() == FlagEnPassant {
		capSq := to - 8
		if side == Black {
			capSq = to + 8
		}
		occ &^= squareBit(capSq)
	}
	occ |= toBB

	landed := m.Piece()
	if promo := m.Promotion(); promo != NoPiece {
		landed = promo
	}

	switch landed.Type() {
	case Pawn:
		if atk.pawn[side][to]&kBit != 0 {
			return true
		}
	case Knight:
		if atk.knight[to]&kBit != 0 {
			return true
		}
	case Bishop:
		if BishopAttacks(to, occ)&kBit != 0 {
			return true
		}
	case Rook:
		if RookAttacks(to, occ)&kBit != 0 {
			return true
		}
	case Queen:
		if QueenAttacks(to, occ)&kBit != 0 {
			return true
		}
	}

	// Castling can check with the relocated rook.
	if m.Flag() == FlagCastle {
		rookTo := castleRookTo(to)
		occ2 := occ&^squareBit(castleRookFrom(to)) | squareBit(rookTo)
		if RookAttacks(rookTo, occ2)&kBit != 0 {
			return true
		}
	}

	// Discovered check from a slider behind the vacated square.
	rq := p.pieceBB[side][Rook] | p.pieceBB[side][Queen]
	bq := p.pieceBB[side][Bishop] | p.pieceBB[side][Queen]
	if RookAttacks(ksq, occ)&rq&^toBB != 0 || BishopAttacks(ksq, occ)&bq&^toBB != 0 {
		return true
	}
	return false
}

func castleRookFrom(kingTo Square) Square {
	switch kingTo {
	case 6:
		return 7
	case 2:
		return 0
	case 62:
		return 63
	default: // 58
		return 56
	}
}

func castleRookTo(kingTo Square) Square {
	switch kingTo {
	case 6:
		return 5
	case 2:
		return 3
	case 62:
		return 61
	default: // 58
		return 59
	}
}
