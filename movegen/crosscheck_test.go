package movegen

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// These tests use dragontoothmg as an independent oracle: both
// generators are fed the same positions and must agree on the exact
// legal move set.

var crossCheckFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
	"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
	"8/8/8/8/k1p4R/8/3P4/3K4 w - - 0 1",
	"4k3/8/8/8/8/8/r6p/R3K3 w Q - 0 1",
}

func moveSet(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func oracleMoveSet(b *dragontoothmg.Board) []string {
	moves := b.GenerateLegalMoves()
	out := make([]string, len(moves))
	for i := range moves {
		out[i] = moves[i].String()
	}
	sort.Strings(out)
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLegalMovesMatchOracle(t *testing.T) {
	for _, fen := range crossCheckFENs {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		oracle := dragontoothmg.ParseFen(fen)

		got := moveSet(p.LegalMoves())
		want := oracleMoveSet(&oracle)
		if !sameStrings(got, want) {
			t.Errorf("move set mismatch for %q:\n  ours:   %v\n  oracle: %v", fen, got, want)
		}
	}
}

// Walk a deterministic game from each root, picking moves by sorted
// order, and require agreement with the oracle at every step.
func TestGameWalkMatchesOracle(t *testing.T) {
	for _, fen := range crossCheckFENs {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		oracle := dragontoothmg.ParseFen(fen)

		for step := 0; step < 40; step++ {
			got := moveSet(p.LegalMovesInto(nil))
			want := oracleMoveSet(&oracle)
			if !sameStrings(got, want) {
				t.Fatalf("fen %q step %d (%s): move sets diverge\n  ours:   %v\n  oracle: %v",
					fen, step, p.FEN(), got, want)
			}
			if len(got) == 0 {
				break
			}

			// Advance both boards by the same move, varying the pick so
			// different branches get exercised.
			pick := got[step%len(got)]
			m := p.FindMove(pick)
			if m == NoMove {
				t.Fatalf("generated move %q not found again in %s", pick, p.FEN())
			}
			p.MakeMove(m)

			applied := false
			for _, om := range oracle.GenerateLegalMoves() {
				om := om
				if om.String() == pick {
					oracle.Apply(om)
					applied = true
					break
				}
			}
			if !applied {
				t.Fatalf("oracle rejected move %q", pick)
			}
		}
	}
}
