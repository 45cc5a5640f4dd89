package movegen

// zobristKeys holds every random key used for position fingerprints.
// Built once at startup from a fixed seed so fingerprints are stable
// across runs and tests can assert exact values.
type zobristKeys struct {
	piece     [2][7][64]uint64 // [color][pieceType][square]
	castle    [16]uint64
	epFile    [8]uint64
	sideBlack uint64
}

var zob = newZobristKeys()

func newZobristKeys() *zobristKeys {
	z := &zobristKeys{}
	s := splitMix64(0x9E3779B97F4A7C15)
	for c := 0; c < 2; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				z.piece[c][pt][sq] = s.next()
			}
		}
	}
	for i := range z.castle {
		z.castle[i] = s.next()
	}
	for i := range z.epFile {
		z.epFile[i] = s.next()
	}
	z.sideBlack = s.next()
	return z
}

type splitMix64 uint64

func (s *splitMix64) next() uint64 {
	*s += 0x9E3779B97F4A7C15
	x := uint64(*s)
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

func pieceKey(p Piece, sq Square) uint64 {
	return zob.piece[p.Color()][p.Type()][sq]
}

// ComputeKey recomputes the full fingerprint from scratch. Normal play
// maintains it incrementally; this exists for setup and validation.
func (p *Position) ComputeKey() uint64 {
	var key uint64
	for sq := Square(0); sq < 64; sq++ {
		if pc := p.squares[sq]; pc != NoPiece {
			key ^= pieceKey(pc, sq)
		}
	}
	if p.stm == Black {
		key ^= zob.sideBlack
	}
	key ^= zob.castle[p.castle]
	if p.ep != NoSquare {
		key ^= zob.epFile[p.ep.File()]
	}
	return key
}

// ComputePawnKey recomputes the pawn-structure sub-fingerprint: the XOR
// of the piece keys of all pawns only. Used to bucket the pawn
// correction history.
func (p *Position) ComputePawnKey() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for bbset := p.pieceBB[c][Pawn]; bbset != 0; {
			sq := popLSB(&bbset)
			key ^= zob.piece[c][Pawn][sq]
		}
	}
	return key
}

// ComputeMinorKey recomputes the minor-piece sub-fingerprint over
// knights and bishops, the bucket key of the minor correction history.
func (p *Position) ComputeMinorKey() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		for bbset := p.pieceBB[c][Knight]; bbset != 0; {
			sq := popLSB(&bbset)
			key ^= zob.piece[c][Knight][sq]
		}
		for bbset := p.pieceBB[c][Bishop]; bbset != 0; {
			sq := popLSB(&bbset)
			key ^= zob.piece[c][Bishop][sq]
		}
	}
	return key
}
