package engine

import "heron-engine/movegen"

// Ordering bands. Every band is wider than anything that can be added
// to it, so the classes never interleave: TT move first, then captures
// by MVV-LVA and capture history, promotions, killers, the countermove,
// and finally quiets on raw butterfly history.
const (
	ttMoveScore   int32 = 60000
	captureOffset int32 = 40000 // SEE >= 0
	promoOffset   int32 = 38000
	killerScore   int32 = 30000
	counterScore  int32 = 28000
	losingCapture int32 = -20000 // SEE < 0, tried after every quiet
)

type scoredMove struct {
	move  movegen.Move
	score int32
}

// scoreMoves assigns an ordering score to every generated move. The
// slice is appended to dst so per-ply buffers can be reused.
func (s *Searcher) scoreMoves(dst []scoredMove, moves []movegen.Move, ply int, ttMove, prevMove movegen.Move) []scoredMove {
	stm := s.pos.SideToMove()
	counter := s.hist.counterFor(stm, prevMove)

	for _, m := range moves {
		var score int32
		switch {
		case m == ttMove:
			score = ttMoveScore
		case m.IsCapture():
			victim := m.Captured().Type()
			attacker := m.Piece().Type()
			base := captureOffset
			if SEE(s.pos, m) < 0 {
				base = losingCapture
			}
			score = base + int32(victim)*128 - int32(attacker)*16 + s.hist.captureScore(m)/16
			if promo := m.Promotion(); promo != movegen.NoPiece {
				score += int32(seeValue[promo.Type()])
			}
		case m.Promotion() != movegen.NoPiece:
			score = promoOffset + int32(seeValue[m.Promotion().Type()])
		case m == s.hist.killers[ply][0]:
			score = killerScore + 1
		case m == s.hist.killers[ply][1]:
			score = killerScore
		case m == counter:
			score = counterScore
		default:
			score = s.hist.quietScore(stm, m)
		}
		dst = append(dst, scoredMove{move: m, score: score})
	}
	return dst
}

// orderNextMove swaps the best remaining move into position idx. One
// selection-sort step per move tried; nodes that cut off early never
// pay for sorting the tail.
func orderNextMove(idx int, list []scoredMove) {
	best := idx
	for i := idx + 1; i < len(list); i++ {
		if list[i].score > list[best].score {
			best = i
		}
	}
	list[idx], list[best] = list[best], list[idx]
}
