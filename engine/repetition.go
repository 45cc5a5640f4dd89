package engine

import "heron-engine/movegen"

// historyStack records the Zobrist key of every position reached, game
// history first, then the current search path on top. root marks where
// the search started: a single repetition inside the tree already
// scores as a draw, while positions from the played game must appear
// twice before the current one.
type historyStack struct {
	keys []uint64
	root int
}

// setGameHistory replaces the stack with the keys of the played game,
// ending with the current root position.
func (h *historyStack) setGameHistory(keys []uint64) {
	h.keys = append(h.keys[:0], keys...)
	h.root = len(h.keys) - 1
	if h.root < 0 {
		h.root = 0
	}
}

func (h *historyStack) push(key uint64) { h.keys = append(h.keys, key) }
func (h *historyStack) pop()            { h.keys = h.keys[:len(h.keys)-1] }

// isRepetition reports whether the current position (top of stack) is a
// draw by repetition. Only positions within the halfmove clock can
// repeat; anything older is separated by an irreversible move.
func (h *historyStack) isRepetition(p *movegen.Position) bool {
	cur := len(h.keys) - 1
	if cur < 0 {
		return false
	}
	key := h.keys[cur]
	limit := cur - p.Rule50()
	if limit < 0 {
		limit = 0
	}
	seen := 0
	for i := cur - 2; i >= limit; i -= 2 {
		if h.keys[i] != key {
			continue
		}
		if i >= h.root {
			return true
		}
		seen++
		if seen >= 2 {
			return true
		}
	}
	return false
}
