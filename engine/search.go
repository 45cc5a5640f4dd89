package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"heron-engine/movegen"
)

// Searcher owns everything one search thread needs: the position, the
// shared transposition table, heuristic tables and the time manager.
// It is not safe for concurrent Search calls; Stop and PonderHit may be
// called from another goroutine.
type Searcher struct {
	pos     *movegen.Position
	tt      *TransTable
	params  Params
	weights *Weights
	hist    *historyTables
	corr    *correctionHistory
	rep     historyStack
	tm      TimeManager

	limits  Limits
	stopped atomic.Bool

	nodes    uint64
	seldepth int
	stack    [MaxDepth + 2]plyState
	stats    cutStats

	// Info receives one UCI info line per completed iteration; nil
	// discards them (tests, bench).
	Info func(line string)

	// CollectStats makes the protocol layer dump the cut counters
	// after each search; the counters themselves always run.
	CollectStats bool
}

type plyState struct {
	staticEval  int
	currentMove movegen.Move
	moveBuf     []movegen.Move
	scoreBuf    []scoredMove
	quietBuf    []movegen.Move
}

// Result is the outcome of one Search call.
type Result struct {
	BestMove movegen.Move
	Ponder   movegen.Move
	Score    int
	Depth    int8
	Nodes    uint64
	Time     time.Duration
}

// NewSearcher builds a searcher around a shared transposition table.
func NewSearcher(tt *TransTable) *Searcher {
	return &Searcher{
		pos:     movegen.NewPosition(),
		tt:      tt,
		params:  defaultParams(),
		weights: DefaultWeights(),
		hist:    newHistoryTables(defaultParams().HistoryMax),
		corr:    &correctionHistory{},
	}
}

// Params exposes the tunables for UCI setoption and tuning runs.
func (s *Searcher) Params() *Params { return &s.params }

// Weights exposes the evaluation parameter set.
func (s *Searcher) Weights() *Weights { return s.weights }

// TimeManager exposes the clock state, mainly for the Move Overhead option.
func (s *Searcher) TimeManager() *TimeManager { return &s.tm }

// Position returns the position the next Search will start from.
func (s *Searcher) Position() *movegen.Position { return s.pos }

// SetPosition installs a root position along with the fingerprints of
// the game that led to it (for threefold detection across the root).
func (s *Searcher) SetPosition(p *movegen.Position, gameKeys []uint64) {
	s.pos = p
	if len(gameKeys) == 0 {
		gameKeys = []uint64{p.Key()}
	}
	s.rep.setGameHistory(gameKeys)
}

// NewGame clears all cross-search state.
func (s *Searcher) NewGame() {
	s.tt.Clear()
	s.hist.clear()
	s.corr.clear()
}

// Stop cancels a running search; the best result so far is returned.
func (s *Searcher) Stop() { s.stopped.Store(true) }

// PonderHit promotes a pondering search to a clocked one.
func (s *Searcher) PonderHit() { s.tm.PonderHit() }

// StaticEval returns the corrected static evaluation of the current
// position, for the staticeval debug command.
func (s *Searcher) StaticEval() int {
	return s.corr.correct(s.pos, &s.params, Evaluate(s.pos, s.weights))
}

// Search runs iterative deepening under the given limits and returns
// the best move of the last completed iteration.
func (s *Searcher) Search(limits Limits) Result {
	s.limits = limits
	s.stopped.Store(false)
	s.nodes = 0
	s.seldepth = 0
	s.stats.reset()
	s.hist.clearKillers()
	s.tt.NextGeneration()
	s.tm.Start(limits, s.pos.SideToMove())

	res := Result{BestMove: movegen.NoMove}

	rootMoves := s.pos.LegalMovesInto(nil)
	if len(rootMoves) == 0 {
		return res
	}
	res.BestMove = rootMoves[0] // fallback if depth 1 never completes

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	var pv PVLine
	prev := 0
	for depth := int8(1); depth <= maxDepth; depth++ {
		score := s.aspirate(depth, prev, &pv)
		if s.stopped.Load() {
			break // discard the aborted iteration
		}
		prev = score

		res.Score = score
		res.Depth = depth
		res.Nodes = s.nodes
		res.Time = s.tm.Elapsed()
		if m := pv.BestMove(); m != movegen.NoMove {
			res.BestMove = m
			res.Ponder = pv.PonderMove()
		}

		s.tm.Update(res.BestMove)
		s.emitInfo(depth, score, &pv)

		if IsMateScore(score) && !limits.Infinite && !limits.Ponder {
			break
		}
		if limits.Nodes > 0 && s.nodes >= limits.Nodes {
			break
		}
		if s.tm.SoftExceeded() {
			break
		}
	}
	res.Nodes = s.nodes
	res.Time = s.tm.Elapsed()
	return res
}

// aspirate searches one iteration inside a window around the previous
// score, widening geometrically on a fail until the window is unbounded.
func (s *Searcher) aspirate(depth int8, prev int, pv *PVLine) int {
	alpha, beta := -MaxScore, MaxScore
	delta := s.params.AspirationWindow
	if depth >= s.params.AspirationDepth {
		alpha = max(prev-delta, -MaxScore)
		beta = min(prev+delta, MaxScore)
	}

	for {
		score := s.negamax(depth, 0, alpha, beta, pv, true)
		if s.stopped.Load() {
			return score
		}
		switch {
		case score <= alpha:
			alpha = max(alpha-delta, -MaxScore)
		case score >= beta:
			beta = min(beta+delta, MaxScore)
		default:
			return score
		}
		delta *= 2
	}
}

func (s *Searcher) emitInfo(depth int8, score int, pv *PVLine) {
	if s.Info == nil {
		return
	}
	elapsed := s.tm.Elapsed()
	nps := uint64(0)
	if ms := elapsed.Milliseconds(); ms > 0 {
		nps = s.nodes * 1000 / uint64(ms)
	}
	s.Info(fmt.Sprintf("depth %d seldepth %d score %s nodes %d nps %d hashfull %d time %d pv %s",
		depth, s.seldepth, ScoreString(score), s.nodes, nps, s.tt.Hashfull(), elapsed.Milliseconds(), pv))
}

// StatLines renders the cut statistics collected by the last search.
func (s *Searcher) StatLines() []string { return s.stats.lines() }

// shouldStop polls the cheap limits on a node-count mask; the expensive
// clock check runs once every 2048 nodes.
func (s *Searcher) shouldStop() bool {
	if s.stopped.Load() {
		return true
	}
	if s.nodes&2047 == 0 {
		if s.tm.HardExceeded() || (s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes) {
			s.stopped.Store(true)
			return true
		}
	}
	return false
}

// negamax is the fail-soft PVS workhorse.
func (s *Searcher) negamax(depth int8, ply, alpha, beta int, pv *PVLine, doNull bool) int {
	pv.clear()
	pos := s.pos
	isRoot := ply == 0
	isPV := beta-alpha > 1

	s.nodes++
	if s.shouldStop() {
		return 0
	}

	if !isRoot {
		if ply >= MaxDepth {
			return s.corr.correct(pos, &s.params, Evaluate(pos, s.weights))
		}
		if pos.FiftyMoveDraw() || pos.InsufficientMaterial() || s.rep.isRepetition(pos) {
			return DrawScore
		}
		// Mate distance pruning: a shorter mate elsewhere bounds this node.
		alpha = max(alpha, -MaxScore+ply)
		beta = min(beta, MaxScore-ply-1)
		if alpha >= beta {
			return alpha
		}
	}

	stm := pos.SideToMove()
	inCheck := pos.InCheck(stm)
	if inCheck {
		depth++ // check extension
	}
	if depth <= 0 {
		s.nodes-- // quiescence counts the node itself
		return s.quiescence(ply, alpha, beta)
	}

	tte, ttHit := s.tt.Probe(pos.Key())
	ttMove := movegen.NoMove
	if ttHit {
		ttMove = tte.move
		ttScore := scoreFromTT(int(tte.score), ply)
		if !isPV && tte.depth >= depth {
			switch tte.flag {
			case flagExact:
				s.stats.ttCuts++
				return ttScore
			case flagLower:
				if ttScore >= beta {
					s.stats.ttCuts++
					return ttScore
				}
			case flagUpper:
				if ttScore <= alpha {
					s.stats.ttCuts++
					return ttScore
				}
			}
		}
	}

	// Internal iterative reduction: with no hash move to order on, a
	// full-depth search here mostly feeds the TT for the re-visit.
	if ttMove == movegen.NoMove && depth >= s.params.IIRMinDepth {
		depth--
	}

	var rawEval, static int
	if inCheck {
		static = -MaxScore
		s.stack[ply].staticEval = static
	} else {
		if ttHit {
			rawEval = int(tte.eval)
		} else {
			rawEval = Evaluate(pos, s.weights)
		}
		static = s.corr.correct(pos, &s.params, rawEval)
		s.stack[ply].staticEval = static
	}

	improving := false
	if !inCheck && ply >= 2 && s.stack[ply-2].staticEval != -MaxScore {
		improving = static > s.stack[ply-2].staticEval
	}

	if !isPV && !inCheck {
		// Reverse futility: static eval so far above beta that even a
		// generous margin cannot pull the score back under it.
		if depth <= s.params.RFPMaxDepth && !IsMateScore(beta) {
			margin := s.params.RFPMargins[depth]
			if improving {
				margin -= margin / 3
			}
			if static-margin >= beta {
				s.stats.rfpCuts++
				return static - margin
			}
		}

		// Null move pruning, guarded against pawn-only endings where
		// zugzwang makes the null observation worthless.
		hasPieces := pos.OccupiedBy(stm)&^(pos.Pieces(stm, movegen.Pawn)|pos.Pieces(stm, movegen.King)) != 0
		if doNull && depth >= s.params.NMPMinDepth && static >= beta && hasPieces {
			r := s.params.NMPBaseReduction + depth/s.params.NMPDepthDivisor
			if depth > 6 {
				r++
			}
			if static-beta >= s.params.NMPEvalMarginDepth {
				r++
			}

			u := pos.MakeNullMove()
			s.rep.push(pos.Key())
			var nullPV PVLine
			score := -s.negamax(depth-1-r, ply+1, -beta, -beta+1, &nullPV, false)
			s.rep.pop()
			pos.UnmakeNullMove(u)
			if s.stopped.Load() {
				return 0
			}
			if score >= beta {
				if IsMateScore(score) {
					score = beta // a null-move mate proves nothing
				}
				if depth < s.params.NMPVerifyMinDepth {
					s.stats.nmpCuts++
					return score
				}
				verify := s.negamax(depth-1-r, ply, beta-1, beta, &nullPV, false)
				if verify >= beta {
					s.stats.nmpCuts++
					return score
				}
			}
		}
	}

	moves := pos.LegalMovesInto(s.stack[ply].moveBuf[:0])
	s.stack[ply].moveBuf = moves
	if len(moves) == 0 {
		if inCheck {
			return -MaxScore + ply
		}
		return DrawScore
	}

	prevMove := movegen.NoMove
	if ply > 0 {
		prevMove = s.stack[ply-1].currentMove
	}
	scored := s.scoreMoves(s.stack[ply].scoreBuf[:0], moves, ply, ttMove, prevMove)
	s.stack[ply].scoreBuf = scored

	futile := false
	if !isPV && !inCheck && depth <= s.params.FutilityMaxDepth && !IsMateScore(alpha) {
		futile = static+s.params.FutilityMargins[depth] <= alpha
	}

	bestScore := -MaxScore
	bestMove := movegen.NoMove
	ttFlag := flagUpper
	legalSearched := 0
	quietsTried := s.stack[ply].quietBuf[:0]
	var childPV PVLine

	for i := 0; i < len(scored); i++ {
		orderNextMove(i, scored)
		m := scored[i].move
		isQuiet := m.IsQuiet()

		if !isRoot && bestScore > -Checkmate && legalSearched > 0 {
			if isQuiet && !isPV && !inCheck && depth <= s.params.LMPMaxDepth {
				limit := lmpMargins[depth]
				if !improving {
					limit /= 2
				}
				if len(quietsTried) >= limit {
					s.stats.lmpSkip++
					continue
				}
			}
			if futile && isQuiet && !pos.GivesCheck(m) {
				s.stats.futilitySkip++
				continue
			}
			if m.IsCapture() && depth <= 4 && !isPV && SEE(pos, m) < -100*int(depth) {
				s.stats.seeSkip++
				continue
			}
		}

		u := pos.MakeMove(m)
		s.rep.push(pos.Key())
		s.stack[ply].currentMove = m
		legalSearched++
		if isQuiet {
			quietsTried = append(quietsTried, m)
		}

		var score int
		if legalSearched == 1 {
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, &childPV, true)
		} else {
			r := int8(0)
			if isQuiet && depth >= s.params.LMRMinDepth && legalSearched > s.params.LMRMinMoves && !inCheck {
				d := int(depth)
				if d > MaxDepth {
					d = MaxDepth // check extensions can push past the table
				}
				mi := legalSearched
				if mi > 63 {
					mi = 63
				}
				r = lmrTable[d][mi]
				if !improving {
					r++
				}
				if isPV && r > 0 {
					r--
				}
				hist := int(s.hist.quietScore(stm, m)) / s.params.LMRHistoryScale
				r -= int8(clamp(hist, -2, 2))
				r = clamp(r, 0, depth-2)
			}

			score = -s.negamax(depth-1-r, ply+1, -alpha-1, -alpha, &childPV, true)
			if score > alpha && r > 0 {
				score = -s.negamax(depth-1, ply+1, -alpha-1, -alpha, &childPV, true)
			}
			if score > alpha && score < beta {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, &childPV, true)
			}
		}

		s.rep.pop()
		pos.UnmakeMove(u)
		if s.stopped.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				ttFlag = flagExact
				pv.update(m, &childPV)
			}
		}
		if alpha >= beta {
			ttFlag = flagLower
			s.stats.betaCuts++
			if legalSearched == 1 {
				s.stats.betaCutFirst++
			}
			bonus := historyBonus(depth)
			if isQuiet {
				s.hist.insertKiller(ply, m)
				s.hist.storeCounter(stm, prevMove, m)
				s.hist.updateQuiet(stm, m, bonus)
				for _, q := range quietsTried[:len(quietsTried)-1] {
					s.hist.updateQuiet(stm, q, -bonus)
				}
			} else {
				s.hist.updateCapture(m, bonus)
			}
			break
		}
	}
	s.stack[ply].quietBuf = quietsTried[:0]

	// Feed the static-vs-searched gap back into the correction history
	// when the node produced a usable, non-tactical observation.
	if !inCheck && !IsMateScore(bestScore) &&
		(bestMove == movegen.NoMove || bestMove.IsQuiet()) &&
		!(ttFlag == flagLower && bestScore <= static) &&
		!(ttFlag == flagUpper && bestScore >= static) {
		s.corr.update(pos, &s.params, depth, bestScore-static)
	}

	s.tt.Store(pos.Key(), bestMove, scoreToTT(bestScore, ply), rawEval, depth, ttFlag)
	return bestScore
}

// quiescence resolves captures (and promotions) until the position is
// quiet enough for the static eval to stand.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	pos := s.pos
	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}
	if s.shouldStop() {
		return 0
	}
	if ply >= MaxDepth {
		return s.corr.correct(pos, &s.params, Evaluate(pos, s.weights))
	}

	standPat := s.corr.correct(pos, &s.params, Evaluate(pos, s.weights))
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := pos.CapturesInto(s.stack[ply].moveBuf[:0])
	s.stack[ply].moveBuf = moves
	scored := s.scoreMoves(s.stack[ply].scoreBuf[:0], moves, ply, movegen.NoMove, movegen.NoMove)
	s.stack[ply].scoreBuf = scored

	bestScore := standPat
	for i := 0; i < len(scored); i++ {
		orderNextMove(i, scored)
		m := scored[i].move

		// Delta pruning: even winning the victim outright cannot lift
		// the score to alpha.
		gain := seeValue[m.Captured().Type()]
		if promo := m.Promotion(); promo != movegen.NoPiece {
			gain += seeValue[promo.Type()] - seeValue[movegen.Pawn]
		}
		if standPat+gain+s.params.QSDeltaMargin <= alpha {
			continue
		}
		if SEE(pos, m) < 0 {
			continue
		}

		u := pos.MakeMove(m)
		score := -s.quiescence(ply+1, -beta, -alpha)
		pos.UnmakeMove(u)
		if s.stopped.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
			}
		}
		if alpha >= beta {
			break
		}
	}
	return bestScore
}
