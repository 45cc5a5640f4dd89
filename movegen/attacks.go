package movegen

import "math/bits"

// Ray direction indexes. Orthogonal: north and east walk toward higher
// square indexes, south and west toward lower ones. Diagonal: northeast
// and northwest increase, southeast and southwest decrease.
const (
	dirNorth = iota
	dirSouth
	dirEast
	dirWest
)

const (
	dirNorthEast = iota
	dirNorthWest
	dirSouthEast
	dirSouthWest
)

// attackTables holds every precomputed attack structure the generator
// needs. It is built once at startup and never mutated afterwards; all
// lookups go through the package-level atk reference.
type attackTables struct {
	knight [64]uint64
	king   [64]uint64
	pawn   [2][64]uint64 // pawn[color][sq]: squares a pawn of color attacks from sq

	orthoRays [64][4]uint64 // rook rays excluding the origin
	diagRays  [64][4]uint64 // bishop rays excluding the origin
	kingRays  [64]uint64    // union of all eight rays, for discovered-check gating

	orthoMask  [64]uint64 // rook occupancy masks (edges excluded)
	diagMask   [64]uint64
	orthoTable [64][]uint64 // pext-indexed attack sets
	diagTable  [64][]uint64
}

var atk = newAttackTables()

func newAttackTables() *attackTables {
	t := &attackTables{}
	t.initLeapers()
	t.initRays()
	t.initSliderTables()
	return t
}

func (t *attackTables) initLeapers() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}

	for sq := 0; sq < 64; sq++ {
		file, rank := sq&7, sq>>3

		for _, off := range knightOffsets {
			r, f := rank+off[0], file+off[1]
			if r >= 0 && r < 8 && f >= 0 && f < 8 {
				t.knight[sq] |= 1 << uint(r*8+f)
			}
		}
		for _, off := range kingOffsets {
			r, f := rank+off[0], file+off[1]
			if r >= 0 && r < 8 && f >= 0 && f < 8 {
				t.king[sq] |= 1 << uint(r*8+f)
			}
		}

		if rank < 7 {
			if file > 0 {
				t.pawn[White][sq] |= 1 << uint(sq+7)
			}
			if file < 7 {
				t.pawn[White][sq] |= 1 << uint(sq+9)
			}
		}
		if rank > 0 {
			if file > 0 {
				t.pawn[Black][sq] |= 1 << uint(sq-9)
			}
			if file < 7 {
				t.pawn[Black][sq] |= 1 << uint(sq-7)
			}
		}
	}
}

func (t *attackTables) initRays() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq&7, sq>>3

		var ray uint64
		for r := rank + 1; r < 8; r++ {
			ray |= 1 << uint(r*8+file)
		}
		t.orthoRays[sq][dirNorth] = ray

		ray = 0
		for r := rank - 1; r >= 0; r-- {
			ray |= 1 << uint(r*8+file)
		}
		t.orthoRays[sq][dirSouth] = ray

		ray = 0
		for f := file + 1; f < 8; f++ {
			ray |= 1 << uint(rank*8+f)
		}
		t.orthoRays[sq][dirEast] = ray

		ray = 0
		for f := file - 1; f >= 0; f-- {
			ray |= 1 << uint(rank*8+f)
		}
		t.orthoRays[sq][dirWest] = ray

		ray = 0
		for r, f := rank+1, file+1; r < 8 && f < 8; r, f = r+1, f+1 {
			ray |= 1 << uint(r*8+f)
		}
		t.diagRays[sq][dirNorthEast] = ray

		ray = 0
		for r, f := rank+1, file-1; r < 8 && f >= 0; r, f = r+1, f-1 {
			ray |= 1 << uint(r*8+f)
		}
		t.diagRays[sq][dirNorthWest] = ray

		ray = 0
		for r, f := rank-1, file+1; r >= 0 && f < 8; r, f = r-1, f+1 {
			ray |= 1 << uint(r*8+f)
		}
		t.diagRays[sq][dirSouthEast] = ray

		ray = 0
		for r, f := rank-1, file-1; r >= 0 && f >= 0; r, f = r-1, f-1 {
			ray |= 1 << uint(r*8+f)
		}
		t.diagRays[sq][dirSouthWest] = ray

		t.kingRays[sq] = t.orthoRays[sq][0] | t.orthoRays[sq][1] |
			t.orthoRays[sq][2] | t.orthoRays[sq][3] |
			t.diagRays[sq][0] | t.diagRays[sq][1] |
			t.diagRays[sq][2] | t.diagRays[sq][3]
	}
}

// initSliderTables enumerates every occupancy subset of each square's
// movement mask and stores the resolved attack set, so runtime lookups
// are a pext plus one index.
func (t *attackTables) initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq&7, sq>>3

		var om uint64
		for r := rank + 1; r < 7; r++ {
			om |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			om |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			om |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			om |= 1 << uint(rank*8+f)
		}
		t.orthoMask[sq] = om

		var dm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			dm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			dm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			dm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			dm |= 1 << uint(r*8+f)
		}
		t.diagMask[sq] = dm

		oBits := bits.OnesCount64(om)
		dBits := bits.OnesCount64(dm)
		t.orthoTable[sq] = make([]uint64, 1<<oBits)
		t.diagTable[sq] = make([]uint64, 1<<dBits)

		for idx := 0; idx < 1<<oBits; idx++ {
			occ := pdep(uint64(idx), om)
			t.orthoTable[sq][idx] = t.rookAttacksSlow(sq, occ)
		}
		for idx := 0; idx < 1<<dBits; idx++ {
			occ := pdep(uint64(idx), dm)
			t.diagTable[sq][idx] = t.bishopAttacksSlow(sq, occ)
		}
	}
}

// pext packs the bits of x selected by mask into the low bits of the result.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep scatters the low bits of x into the positions selected by mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

// rookAttacksSlow walks the four orthogonal rays, truncating each at its
// first blocker. Only used while building the lookup tables.
func (t *attackTables) rookAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64

	ray := t.orthoRays[sq][dirNorth]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.orthoRays[bits.TrailingZeros64(blockers)][dirNorth]
	}
	attacks |= ray

	ray = t.orthoRays[sq][dirSouth]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.orthoRays[63-bits.LeadingZeros64(blockers)][dirSouth]
	}
	attacks |= ray

	ray = t.orthoRays[sq][dirEast]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.orthoRays[bits.TrailingZeros64(blockers)][dirEast]
	}
	attacks |= ray

	ray = t.orthoRays[sq][dirWest]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.orthoRays[63-bits.LeadingZeros64(blockers)][dirWest]
	}
	attacks |= ray

	return attacks
}

func (t *attackTables) bishopAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64

	ray := t.diagRays[sq][dirNorthEast]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.diagRays[bits.TrailingZeros64(blockers)][dirNorthEast]
	}
	attacks |= ray

	ray = t.diagRays[sq][dirNorthWest]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.diagRays[bits.TrailingZeros64(blockers)][dirNorthWest]
	}
	attacks |= ray

	ray = t.diagRays[sq][dirSouthEast]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.diagRays[63-bits.LeadingZeros64(blockers)][dirSouthEast]
	}
	attacks |= ray

	ray = t.diagRays[sq][dirSouthWest]
	if blockers := ray & occ; blockers != 0 {
		ray &^= t.diagRays[63-bits.LeadingZeros64(blockers)][dirSouthWest]
	}
	attacks |= ray

	return attacks
}

// RookAttacks returns the rook attack set from sq under the given occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	s := int(sq)
	return atk.orthoTable[s][pext(occ, atk.orthoMask[s])]
}

// BishopAttacks returns the bishop attack set from sq under the given occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	s := int(sq)
	return atk.diagTable[s][pext(occ, atk.diagMask[s])]
}

// QueenAttacks returns the queen attack set from sq under the given occupancy.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack mask from sq.
func KnightAttacks(sq Square) uint64 { return atk.knight[sq] }

// KingAttacks returns the king attack mask from sq.
func KingAttacks(sq Square) uint64 { return atk.king[sq] }

// PawnAttacks returns the squares a pawn of the given color attacks from sq.
func PawnAttacks(c Color, sq Square) uint64 { return atk.pawn[c][sq] }
