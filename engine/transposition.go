package engine

import "heron-engine/movegen"

// Entry bound types.
const (
	flagExact uint8 = iota + 1
	flagLower       // score is a lower bound, fail high
	flagUpper       // score is an upper bound, fail low
)

// ttEntry is one transposition table slot. The upper 32 bits of the
// position key act as a checksum against index collisions; gen tags the
// search that wrote the entry so stale data loses replacement fights.
type ttEntry struct {
	key   uint32
	move  movegen.Move
	score int16
	eval  int16
	depth int8
	flag  uint8
	gen   uint8
}

const clusterSize = 4

type ttCluster [clusterSize]ttEntry

// TransTable is a fixed-size cluster-mapped transposition table. A key
// indexes a cluster of four entries; within a cluster, replacement
// prefers the same position, then empty slots, then whichever entry has
// the least depth after an age penalty.
type TransTable struct {
	clusters []ttCluster
	mask     uint64
	gen      uint8
}

// DefaultTTSizeMB is used when no Hash option has been set.
const DefaultTTSizeMB = 64

// NewTransTable allocates a table of roughly the requested size in
// megabytes, rounded down to a power-of-two cluster count.
func NewTransTable(mb int) *TransTable {
	t := &TransTable{}
	t.Resize(mb)
	return t
}

// Resize reallocates the table, dropping all stored entries.
func (t *TransTable) Resize(mb int) {
	if mb < 1 {
		mb = 1
	}
	clusters := uint64(mb) << 20 / 64 // 64 bytes per cluster
	for clusters&(clusters-1) != 0 {
		clusters &= clusters - 1
	}
	t.clusters = make([]ttCluster, clusters)
	t.mask = clusters - 1
	t.gen = 0
}

// Clear wipes every entry in place.
func (t *TransTable) Clear() {
	for i := range t.clusters {
		t.clusters[i] = ttCluster{}
	}
	t.gen = 0
}

// NextGeneration marks the start of a new search; existing entries stay
// probeable but age in replacement decisions.
func (t *TransTable) NextGeneration() { t.gen++ }

// Probe looks the key up and returns the stored entry. The hit also
// refreshes the entry's generation so useful entries survive aging.
func (t *TransTable) Probe(key uint64) (ttEntry, bool) {
	cluster := &t.clusters[key&t.mask]
	check := uint32(key >> 32)
	for i := range cluster {
		if cluster[i].flag != 0 && cluster[i].key == check {
			cluster[i].gen = t.gen
			return cluster[i], true
		}
	}
	return ttEntry{}, false
}

// quality ranks an entry for replacement: depth, minus a steep penalty
// per generation of age.
func (t *TransTable) quality(e *ttEntry) int {
	if e.flag == 0 {
		return -1 << 20
	}
	return int(e.depth) - 8*int(t.gen-e.gen)
}

// Store writes an entry, never letting a shallow store evict a deeper
// entry for the same position unless the new bound is exact.
func (t *TransTable) Store(key uint64, m movegen.Move, score, eval int, depth int8, flag uint8) {
	cluster := &t.clusters[key&t.mask]
	check := uint32(key >> 32)

	slot := -1
	for i := range cluster {
		if cluster[i].flag != 0 && cluster[i].key == check {
			if depth < cluster[i].depth && flag != flagExact {
				// Keep the deeper entry, but refresh its move if we
				// have one and it does not.
				if m != movegen.NoMove && cluster[i].move == movegen.NoMove {
					cluster[i].move = m
				}
				cluster[i].gen = t.gen
				return
			}
			slot = i
			break
		}
	}
	if slot < 0 {
		slot = 0
		for i := 1; i < clusterSize; i++ {
			if t.quality(&cluster[i]) < t.quality(&cluster[slot]) {
				slot = i
			}
		}
	}

	cluster[slot] = ttEntry{
		key:   check,
		move:  m,
		score: int16(clamp(score, -MaxScore, MaxScore)),
		eval:  int16(clamp(eval, -MaxScore, MaxScore)),
		depth: depth,
		flag:  flag,
		gen:   t.gen,
	}
}

// Hashfull estimates table saturation in permil from a fixed sample,
// the way "info hashfull" wants it.
func (t *TransTable) Hashfull() int {
	sample := 250
	if len(t.clusters) < sample {
		sample = len(t.clusters)
	}
	used := 0
	for i := 0; i < sample; i++ {
		for j := range t.clusters[i] {
			if t.clusters[i][j].flag != 0 && t.clusters[i][j].gen == t.gen {
				used++
			}
		}
	}
	return used * 1000 / (sample * clusterSize)
}

// Mate scores are stored relative to the probing node, not the root, so
// a cached "mate in 3" stays correct wherever the position recurs.

func scoreToTT(score, ply int) int {
	if score >= Checkmate {
		return score + ply
	}
	if score <= -Checkmate {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score >= Checkmate {
		return score - ply
	}
	if score <= -Checkmate {
		return score + ply
	}
	return score
}
