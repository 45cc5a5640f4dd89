package movegen

// Perft counts the leaf nodes of the legal move tree to the given
// depth. Buffers are reused per depth level to keep the walk
// allocation-free after warmup.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	bufs := make([][]Move, depth+1)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 256)
	}
	return perft(p, depth, bufs)
}

func perft(p *Position, depth int, bufs [][]Move) uint64 {
	moves := p.LegalMovesInto(bufs[depth][:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := p.MakeMove(m)
		nodes += perft(p, depth-1, bufs)
		p.UnmakeMove(u)
	}
	return nodes
}

// DivideEntry is one root move's subtree size from PerftDivide.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide returns the leaf count behind each root move, in root
// move order. The classic movegen debugging tool.
func PerftDivide(p *Position, depth int) []DivideEntry {
	var out []DivideEntry
	if depth <= 0 {
		return out
	}
	for _, m := range p.LegalMoves() {
		u := p.MakeMove(m)
		n := Perft(p, depth-1)
		p.UnmakeMove(u)
		out = append(out, DivideEntry{m, n})
	}
	return out
}
