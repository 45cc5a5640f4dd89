package engine

import (
	"testing"

	"heron-engine/movegen"
)

func newTestSearcher() *Searcher {
	return NewSearcher(NewTransTable(1))
}

func scoreFor(t *testing.T, s *Searcher, scored []scoredMove, uci string) int32 {
	t.Helper()
	for _, sm := range scored {
		if sm.move.String() == uci {
			return sm.score
		}
	}
	t.Fatalf("move %q not in scored list", uci)
	return 0
}

func TestOrderingBands(t *testing.T) {
	s := newTestSearcher()
	// White can capture the d5 pawn (winning), push pawns, or grab the
	// defended h5 pawn with the rook (losing).
	p := mustPos(t, "4k3/8/6p1/3p3p/4P3/8/7R/4K3 w - - 0 1")
	s.SetPosition(p, nil)

	moves := p.LegalMoves()
	ttMove := p.FindMove("e1d1")
	scored := s.scoreMoves(nil, moves, 0, ttMove, movegen.NoMove)

	tt := scoreFor(t, s, scored, "e1d1")
	goodCap := scoreFor(t, s, scored, "e4d5")
	badCap := scoreFor(t, s, scored, "h2h5")
	quiet := scoreFor(t, s, scored, "e4e5")

	if tt != ttMoveScore {
		t.Errorf("tt move score = %d", tt)
	}
	if !(tt > goodCap && goodCap > quiet && quiet > badCap) {
		t.Errorf("band order violated: tt=%d goodCap=%d quiet=%d badCap=%d",
			tt, goodCap, quiet, badCap)
	}
}

func TestOrderingKillersAboveQuiets(t *testing.T) {
	s := newTestSearcher()
	p := movegen.NewPosition()
	s.SetPosition(p, nil)

	killer := p.FindMove("b1c3")
	s.hist.insertKiller(0, killer)

	scored := s.scoreMoves(nil, p.LegalMoves(), 0, movegen.NoMove, movegen.NoMove)
	k := scoreFor(t, s, scored, "b1c3")
	q := scoreFor(t, s, scored, "e2e4")
	if k != killerScore+1 {
		t.Errorf("killer score = %d", k)
	}
	if k <= q {
		t.Errorf("killer %d not above quiet %d", k, q)
	}
}

func TestOrderNextMoveSelectsDescending(t *testing.T) {
	list := []scoredMove{{score: 5}, {score: 40}, {score: -3}, {score: 40}, {score: 12}}
	for i := range list {
		orderNextMove(i, list)
	}
	for i := 1; i < len(list); i++ {
		if list[i].score > list[i-1].score {
			t.Fatalf("not descending at %d: %v", i, list)
		}
	}
}

func TestHistoryGravityStaysBounded(t *testing.T) {
	h := newHistoryTables(16384)
	m := movegen.NewMove(12, 28, movegen.WhitePawn, movegen.NoPiece, movegen.NoPiece, 0)

	for i := 0; i < 10000; i++ {
		h.updateQuiet(movegen.White, m, historyBonus(12))
	}
	if got := h.quietScore(movegen.White, m); got > 16384 || got <= 0 {
		t.Fatalf("history score %d outside (0, 16384]", got)
	}

	for i := 0; i < 10000; i++ {
		h.updateQuiet(movegen.White, m, -historyBonus(12))
	}
	if got := h.quietScore(movegen.White, m); got < -16384 || got >= 0 {
		t.Fatalf("history score %d outside [-16384, 0)", got)
	}
}

func TestKillerSlotsShift(t *testing.T) {
	h := newHistoryTables(16384)
	m1 := movegen.NewMove(1, 18, movegen.WhiteKnight, movegen.NoPiece, movegen.NoPiece, 0)
	m2 := movegen.NewMove(6, 21, movegen.WhiteKnight, movegen.NoPiece, movegen.NoPiece, 0)

	h.insertKiller(3, m1)
	h.insertKiller(3, m2)
	if h.killers[3][0] != m2 || h.killers[3][1] != m1 {
		t.Fatalf("killer shift wrong: %v", h.killers[3])
	}
	// Re-inserting the first slot must not duplicate it.
	h.insertKiller(3, m2)
	if h.killers[3][1] != m1 {
		t.Fatal("duplicate insert clobbered second slot")
	}
}
