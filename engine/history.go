package engine

import "heron-engine/movegen"

// historyTables bundles the quiet-move heuristics that persist across
// searches: killer slots per ply, countermoves keyed by the previous
// move, butterfly history keyed by from/to, and capture history keyed
// by attacker, target square and victim.
type historyTables struct {
	killers   [MaxDepth + 2][2]movegen.Move
	counter   [2][64][64]movegen.Move
	butterfly [2][64][64]int32
	capture   [7][64][7]int32

	max int32 // gravity ceiling, scores stay inside ±max
}

func newHistoryTables(historyMax int) *historyTables {
	return &historyTables{max: int32(historyMax)}
}

func (h *historyTables) clear() {
	h.killers = [MaxDepth + 2][2]movegen.Move{}
	h.counter = [2][64][64]movegen.Move{}
	h.butterfly = [2][64][64]int32{}
	h.capture = [7][64][7]int32{}
}

func (h *historyTables) clearKillers() {
	h.killers = [MaxDepth + 2][2]movegen.Move{}
}

// insertKiller records a quiet cutoff move for the ply, shifting the
// previous first killer into the second slot.
func (h *historyTables) insertKiller(ply int, m movegen.Move) {
	if h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

func (h *historyTables) isKiller(ply int, m movegen.Move) bool {
	return h.killers[ply][0] == m || h.killers[ply][1] == m
}

func (h *historyTables) storeCounter(stm movegen.Color, prev, m movegen.Move) {
	if prev == movegen.NoMove {
		return
	}
	h.counter[stm][prev.From()][prev.To()] = m
}

func (h *historyTables) counterFor(stm movegen.Color, prev movegen.Move) movegen.Move {
	if prev == movegen.NoMove {
		return movegen.NoMove
	}
	return h.counter[stm][prev.From()][prev.To()]
}

// gravity blends a bonus into an entry while pulling it back toward
// zero in proportion to how saturated it already is. Scores converge on
// ±max instead of growing without bound, so no aging pass is needed.
func (h *historyTables) gravity(entry *int32, bonus int32) {
	*entry += bonus - *entry*abs(bonus)/h.max
}

func (h *historyTables) updateQuiet(stm movegen.Color, m movegen.Move, bonus int32) {
	h.gravity(&h.butterfly[stm][m.From()][m.To()], bonus)
}

func (h *historyTables) quietScore(stm movegen.Color, m movegen.Move) int32 {
	return h.butterfly[stm][m.From()][m.To()]
}

func (h *historyTables) updateCapture(m movegen.Move, bonus int32) {
	h.gravity(&h.capture[m.Piece().Type()][m.To()][m.Captured().Type()], bonus)
}

func (h *historyTables) captureScore(m movegen.Move) int32 {
	return h.capture[m.Piece().Type()][m.To()][m.Captured().Type()]
}

// historyBonus is the depth-scaled reward for a move that caused a beta
// cutoff; the same magnitude, negated, punishes the quiets tried before
// it.
func historyBonus(depth int8) int32 {
	d := int32(depth)
	b := 16 * d * d
	if b > 1200 {
		b = 1200
	}
	return b
}
