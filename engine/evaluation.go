package engine

import (
	"math/bits"

	"heron-engine/movegen"
)

// Game phase weights per piece type; a full board sums to 24. The final
// score interpolates between the middlegame and endgame components on
// this scale.
var phaseWeight = [7]int{0, 0, 1, 1, 2, 4, 0}

const totalPhase = 24

var (
	fileMask      [8]uint64
	adjacentFiles [8]uint64
	passedMask    [2][64]uint64 // squares an enemy pawn must vacate for sq's pawn to be passed
)

func init() {
	for f := 0; f < 8; f++ {
		fileMask[f] = 0x0101010101010101 << uint(f)
	}
	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= fileMask[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= fileMask[f+1]
		}
	}
	for sq := 0; sq < 64; sq++ {
		f, r := sq&7, sq>>3
		span := fileMask[f] | adjacentFiles[f]
		var ahead, behind uint64
		for rr := r + 1; rr < 8; rr++ {
			ahead |= 0xFF << uint(rr*8)
		}
		for rr := 0; rr < r; rr++ {
			behind |= 0xFF << uint(rr*8)
		}
		passedMask[movegen.White][sq] = span & ahead
		passedMask[movegen.Black][sq] = span & behind
	}
}

// Evaluate scores the position in centipawns from the side to move's
// point of view. Material and piece-square terms carry separate
// middlegame and endgame values, blended by the remaining phase;
// structural terms (pawn shape, bishop pair, rook files, mobility) are
// folded into the same two accumulators.
func Evaluate(p *movegen.Position, w *Weights) int {
	var mg, eg [2]int
	phase := 0
	occ := p.Occupied()

	for c := movegen.White; c <= movegen.Black; c++ {
		own := p.OccupiedBy(c)
		ownPawns := p.Pieces(c, movegen.Pawn)
		enemyPawns := p.Pieces(c.Opposite(), movegen.Pawn)

		for pt := movegen.Pawn; pt <= movegen.King; pt++ {
			bb := p.Pieces(c, pt)
			phase += phaseWeight[pt] * bits.OnesCount64(bb)
			for bb != 0 {
				sq := movegen.Square(bits.TrailingZeros64(bb))
				bb &= bb - 1

				idx := int(sq)
				if c == movegen.White {
					idx ^= 56 // tables are written rank 8 first
				}
				mg[c] += w.PieceValueMG[pt] + w.PSQTMG[pt][idx]
				eg[c] += w.PieceValueEG[pt] + w.PSQTEG[pt][idx]

				var moves uint64
				switch pt {
				case movegen.Knight:
					moves = movegen.KnightAttacks(sq)
				case movegen.Bishop:
					moves = movegen.BishopAttacks(sq, occ)
				case movegen.Rook:
					moves = movegen.RookAttacks(sq, occ)
				case movegen.Queen:
					moves = movegen.QueenAttacks(sq, occ)
				}
				if moves != 0 {
					cnt := bits.OnesCount64(moves &^ own)
					mg[c] += w.MobilityMG[pt] * cnt
					eg[c] += w.MobilityEG[pt] * cnt
				}

				switch pt {
				case movegen.Pawn:
					if passedMask[c][sq]&enemyPawns == 0 {
						rel := sq.Rank()
						if c == movegen.Black {
							rel = 7 - rel
						}
						mg[c] += w.PassedPawnMG[rel]
						eg[c] += w.PassedPawnEG[rel]
					}
					if adjacentFiles[sq.File()]&ownPawns == 0 {
						mg[c] -= w.IsolatedPawnMG
						eg[c] -= w.IsolatedPawnEG
					}
				case movegen.Rook:
					f := sq.File()
					if fileMask[f]&(ownPawns|enemyPawns) == 0 {
						mg[c] += w.RookOpenFileMG
					} else if fileMask[f]&ownPawns == 0 {
						mg[c] += w.RookSemiOpenFileMG
					}
				}
			}
		}

		for f := 0; f < 8; f++ {
			if n := bits.OnesCount64(ownPawns & fileMask[f]); n > 1 {
				mg[c] -= (n - 1) * w.DoubledPawnMG
				eg[c] -= (n - 1) * w.DoubledPawnEG
			}
		}

		if bits.OnesCount64(p.Pieces(c, movegen.Bishop)) >= 2 {
			mg[c] += w.BishopPairMG
			eg[c] += w.BishopPairEG
		}
	}

	if phase > totalPhase {
		phase = totalPhase // promotions can push past a full board
	}
	mgScore := mg[movegen.White] - mg[movegen.Black]
	egScore := eg[movegen.White] - eg[movegen.Black]
	score := (mgScore*phase + egScore*(totalPhase-phase)) / totalPhase

	if p.SideToMove() == movegen.Black {
		score = -score
	}
	return score + w.TempoBonus
}
