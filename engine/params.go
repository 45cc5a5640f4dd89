package engine

import "math"

// Score bounds. Mate scores live in (Checkmate, MaxScore]; a mate found
// at ply n is reported as MaxScore-n so shorter mates always win the
// comparison.
const (
	MaxScore  = 32500
	Checkmate = 20000
	DrawScore = 0
)

// Params collects every search tunable in one place so a Searcher can be
// built with non-default values (tuning runs, UCI options) without
// touching globals.
type Params struct {
	// Aspiration windows.
	AspirationWindow int // initial half-width, centipawns
	AspirationDepth  int8

	// Reverse futility pruning: margins indexed by depth.
	RFPMargins  [8]int
	RFPMaxDepth int8

	// Futility pruning at frontier nodes, indexed by depth.
	FutilityMargins  [8]int
	FutilityMaxDepth int8

	// Late move pruning: quiet-move caps indexed by depth; halved
	// effectiveness when the static eval is improving.
	LMPMaxDepth int8

	// Null move pruning.
	NMPBaseReduction   int8
	NMPDepthDivisor    int8
	NMPMinDepth        int8
	NMPVerifyMinDepth  int8
	NMPEvalMarginDepth int // extra reduction when eval-beta is large

	// Internal iterative reduction when the TT has no move for the node.
	IIRMinDepth int8

	// Late move reductions.
	LMRMinDepth     int8
	LMRMinMoves     int
	LMRHistoryScale int

	// Quiescence.
	QSDeltaMargin int

	// History heuristic ceiling; gravity keeps scores inside ±HistoryMax.
	HistoryMax int

	// Static eval correction history.
	CorrectionGrain  int
	CorrectionWeight int // max update weight out of 1024
	CorrectionLimit  int // clamp, in grain units
}

func defaultParams() Params {
	return Params{
		AspirationWindow: 35,
		AspirationDepth:  5,

		RFPMargins:  [8]int{0, 100, 200, 300, 400, 500, 600, 700},
		RFPMaxDepth: 7,

		FutilityMargins:  [8]int{0, 120, 220, 320, 420, 520, 620, 720},
		FutilityMaxDepth: 7,

		LMPMaxDepth: 8,

		NMPBaseReduction:   3,
		NMPDepthDivisor:    3,
		NMPMinDepth:        3,
		NMPVerifyMinDepth:  10,
		NMPEvalMarginDepth: 200,

		IIRMinDepth: 5,

		LMRMinDepth:     3,
		LMRMinMoves:     3,
		LMRHistoryScale: 4096,

		QSDeltaMargin: 200,

		HistoryMax: 16384,

		CorrectionGrain:  256,
		CorrectionWeight: 128,
		CorrectionLimit:  32,
	}
}

// lmpMargins[d] caps the number of quiets tried at depth d before the
// rest are pruned; index 0 is unused.
var lmpMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

// lmrTable[d][m] is the base reduction at depth d after m moves tried:
// 0.75 + ln(d)*ln(m)/2.25, computed once in 1/1024ths and truncated.
var lmrTable [MaxDepth + 1][64]int8

func init() {
	for d := 1; d <= MaxDepth; d++ {
		for m := 1; m < 64; m++ {
			v := 768 + int(1024*math.Log(float64(d))*math.Log(float64(m))/2.25)
			r := v / 1024
			if r > d-2 {
				r = d - 2
			}
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = int8(r)
		}
	}
}
