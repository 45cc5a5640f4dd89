package engine

import (
	"math/bits"

	"heron-engine/movegen"
)

// Exchange values. The king is priced so it can never profitably be
// left en prise inside a swap sequence.
var seeValue = [7]int{0, 100, 300, 300, 500, 900, 10000}

// SEE runs the swap algorithm on the move's destination square and
// returns the best material outcome for the side making the move,
// assuming both sides capture with their least valuable attacker and
// may stand pat at any point. X-ray attackers enter the exchange
// automatically because slider attacks are recomputed against the
// shrinking occupancy.
func SEE(p *movegen.Position, m movegen.Move) int {
	to := m.To()
	from := m.From()

	occ := p.Occupied() &^ (1 << uint(from))

	var gain [32]int
	target := m.Captured().Type()
	if m.Flag() == movegen.FlagEnPassant {
		capSq := movegen.SquareOf(to.File(), from.Rank())
		occ &^= 1 << uint(capSq)
		target = movegen.Pawn
	}
	gain[0] = seeValue[target]

	attacker := m.Piece().Type()
	side := p.SideToMove().Opposite()

	d := 0
	for {
		d++
		gain[d] = seeValue[attacker] - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}
		attackers := p.AttackersTo(to, side, occ) & occ
		if attackers == 0 {
			break
		}
		attacker = movegen.NoPieceType
		for pt := movegen.Pawn; pt <= movegen.King; pt++ {
			if sub := attackers & p.Pieces(side, pt); sub != 0 {
				occ &^= 1 << uint(bits.TrailingZeros64(sub))
				attacker = pt
				break
			}
		}
		if attacker == movegen.NoPieceType {
			break
		}
		side = side.Opposite()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}
