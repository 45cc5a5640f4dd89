package engine

import "heron-engine/movegen"

const corrSize = 16384 // entries per table, power of two

// correctionHistory nudges the static evaluation toward what search has
// actually been returning for positions with the same pawn or minor
// piece structure. Entries hold a running average of (search score -
// static eval), scaled by CorrectionGrain so small deltas survive the
// integer blend.
type correctionHistory struct {
	pawn  [2][corrSize]int32
	minor [2][corrSize]int32
}

func (ch *correctionHistory) clear() {
	ch.pawn = [2][corrSize]int32{}
	ch.minor = [2][corrSize]int32{}
}

// update blends the observed delta into both structure tables. Deeper
// searches get more weight, capped so one observation can never
// dominate the average.
func (ch *correctionHistory) update(p *movegen.Position, params *Params, depth int8, diff int) {
	d := int(depth)
	weight := d*d + 2*d + 1
	if weight > params.CorrectionWeight {
		weight = params.CorrectionWeight
	}
	scaled := int32(diff * params.CorrectionGrain)
	limit := int32(params.CorrectionGrain * params.CorrectionLimit)
	stm := p.SideToMove()

	blend := func(entry *int32) {
		v := (*entry*int32(1024-weight) + scaled*int32(weight)) / 1024
		*entry = clamp(v, -limit, limit)
	}
	blend(&ch.pawn[stm][p.PawnKey()&(corrSize-1)])
	blend(&ch.minor[stm][p.MinorKey()&(corrSize-1)])
}

// correct applies the accumulated correction to a raw static eval. The
// result stays outside the mate bands so a corrected eval can never be
// mistaken for a forced mate.
func (ch *correctionHistory) correct(p *movegen.Position, params *Params, eval int) int {
	stm := p.SideToMove()
	adj := int(ch.pawn[stm][p.PawnKey()&(corrSize-1)]) +
		int(ch.minor[stm][p.MinorKey()&(corrSize-1)])
	eval += adj / params.CorrectionGrain
	return clamp(eval, -Checkmate+1, Checkmate-1)
}
