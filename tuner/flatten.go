package tuner

import "heron-engine/engine"

// flatten exposes every tunable weight as a pointer so the optimizer
// can walk one slice. Piece type index 0 and the king's material slots
// are structurally zero and stay out; pawn and king rows of the mobility
// tables likewise.
func flatten(w *engine.Weights) []*int {
	var out []*int

	for pt := 1; pt <= 5; pt++ { // pawn..queen material
		out = append(out, &w.PieceValueMG[pt], &w.PieceValueEG[pt])
	}
	for pt := 1; pt <= 6; pt++ {
		for sq := 0; sq < 64; sq++ {
			out = append(out, &w.PSQTMG[pt][sq], &w.PSQTEG[pt][sq])
		}
	}
	for r := 1; r <= 6; r++ { // a passer never sits on rank 1 or 8
		out = append(out, &w.PassedPawnMG[r], &w.PassedPawnEG[r])
	}
	out = append(out,
		&w.IsolatedPawnMG, &w.IsolatedPawnEG,
		&w.DoubledPawnMG, &w.DoubledPawnEG,
		&w.BishopPairMG, &w.BishopPairEG,
		&w.RookOpenFileMG, &w.RookSemiOpenFileMG,
	)
	for pt := 2; pt <= 5; pt++ { // knight..queen mobility
		out = append(out, &w.MobilityMG[pt], &w.MobilityEG[pt])
	}
	out = append(out, &w.TempoBonus)
	return out
}
