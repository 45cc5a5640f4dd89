package engine

import (
	"strings"

	"heron-engine/movegen"
)

// PVLine carries the principal variation out of the search tree: each
// node prepends its best move to the child's line.
type PVLine struct {
	Moves []movegen.Move
}

func (pv *PVLine) clear() { pv.Moves = pv.Moves[:0] }

func (pv *PVLine) update(m movegen.Move, child *PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// BestMove returns the first move of the line, NoMove when empty.
func (pv *PVLine) BestMove() movegen.Move {
	if len(pv.Moves) == 0 {
		return movegen.NoMove
	}
	return pv.Moves[0]
}

// PonderMove returns the reply the line expects, NoMove when the line
// is shorter than two plies.
func (pv *PVLine) PonderMove() movegen.Move {
	if len(pv.Moves) < 2 {
		return movegen.NoMove
	}
	return pv.Moves[1]
}

func (pv *PVLine) String() string {
	var sb strings.Builder
	for i, m := range pv.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
