package engine

import (
	"sync/atomic"
	"time"

	"heron-engine/movegen"
)

// Limits describes everything a "go" command can constrain a search by.
// Zero values mean "no limit of that kind".
type Limits struct {
	Depth    int8
	Nodes    uint64
	MoveTime time.Duration

	WhiteTime, BlackTime time.Duration
	WhiteInc, BlackInc   time.Duration
	MovesToGo            int

	Infinite bool
	Ponder   bool
}

// stabilityScale adjusts the soft budget by how long the best move has
// been stable across completed iterations: a move that keeps changing
// earns more time, one that survived many iterations progressively
// less. Percent of the base soft budget, indexed by stability count.
var stabilityScale = [8]int{161, 133, 126, 103, 104, 105, 93, 71}

// TimeManager turns clock state into two budgets: a soft one consulted
// between iterations (start another iteration or not) and a hard one
// polled inside the tree. While pondering both budgets are suspended;
// ponderhit re-arms them against the original start time.
type TimeManager struct {
	start time.Time
	soft  time.Duration
	hard  time.Duration
	timed bool

	pondering atomic.Bool

	stability int
	lastBest  movegen.Move

	// Overhead is subtracted from the clock to absorb transport latency.
	Overhead time.Duration
}

// Start arms the budgets for one search.
func (tm *TimeManager) Start(limits Limits, stm movegen.Color) {
	tm.start = time.Now()
	tm.stability = 0
	tm.lastBest = movegen.NoMove
	tm.pondering.Store(limits.Ponder)
	tm.timed = false

	if limits.Infinite {
		return
	}
	if limits.MoveTime > 0 {
		budget := limits.MoveTime - tm.Overhead
		if budget < time.Millisecond {
			budget = time.Millisecond
		}
		tm.soft, tm.hard = budget, budget
		tm.timed = true
		return
	}

	clock, inc := limits.WhiteTime, limits.WhiteInc
	if stm == movegen.Black {
		clock, inc = limits.BlackTime, limits.BlackInc
	}
	if clock <= 0 {
		return // depth/nodes-limited or malformed; run unclocked
	}

	clock -= tm.Overhead
	if clock < time.Millisecond {
		clock = time.Millisecond
	}

	if limits.MovesToGo > 0 {
		tm.soft = clock/time.Duration(limits.MovesToGo+2) + inc/2
	} else {
		tm.soft = clock/24 + inc/2
	}
	tm.hard = clock/6 + 2*inc
	if tm.hard > clock/2 {
		tm.hard = clock / 2
	}
	if tm.soft > tm.hard {
		tm.soft = tm.hard
	}
	if tm.soft < time.Millisecond {
		tm.soft = time.Millisecond
	}
	if tm.hard < time.Millisecond {
		tm.hard = time.Millisecond
	}
	tm.timed = true
}

// PonderHit converts a ponder search into a clocked one. The budgets
// count from the original start, so time already spent guessing right
// is free.
func (tm *TimeManager) PonderHit() { tm.pondering.Store(false) }

// Pondering reports whether budgets are currently suspended.
func (tm *TimeManager) Pondering() bool { return tm.pondering.Load() }

// Elapsed returns time since Start.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }

// HardExceeded is the in-tree deadline: once it trips, the search must
// unwind and report.
func (tm *TimeManager) HardExceeded() bool {
	if !tm.timed || tm.pondering.Load() {
		return false
	}
	return time.Since(tm.start) >= tm.hard
}

// SoftExceeded decides whether starting another iteration is worth it,
// scaling the base budget by best-move stability.
func (tm *TimeManager) SoftExceeded() bool {
	if !tm.timed || tm.pondering.Load() {
		return false
	}
	idx := tm.stability
	if idx >= len(stabilityScale) {
		idx = len(stabilityScale) - 1
	}
	budget := tm.soft * time.Duration(stabilityScale[idx]) / 100
	return time.Since(tm.start) >= budget
}

// Update feeds the iteration's best move into the stability tracker.
func (tm *TimeManager) Update(best movegen.Move) {
	if best == tm.lastBest {
		tm.stability++
	} else {
		tm.stability = 0
	}
	tm.lastBest = best
}
