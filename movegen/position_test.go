package movegen

import "testing"

func mustParse(t *testing.T, fen string) *Position {
	t.Helper()
	p, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return p
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R b KQ - 3 9",
	}
	for _, fen := range fens {
		p := mustParse(t, fen)
		if got := p.FEN(); got != fen {
			t.Errorf("round trip: got %q want %q", got, fen)
		}
		if !p.Validate() {
			t.Errorf("parsed position fails validation: %q", fen)
		}
	}
}

func TestParseFENRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KXkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) accepted invalid input", fen)
		}
	}
}

// Applying a line of moves and unwinding it must restore all three
// fingerprints exactly, and each prefix must agree with a from-scratch
// recomputation.
func TestKeyRoundTrip(t *testing.T) {
	p := NewPosition()
	line := []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "a7a6"}

	origKey, origPawn, origMinor := p.Key(), p.PawnKey(), p.MinorKey()

	var undos []Undo
	for _, ms := range line {
		m := p.FindMove(ms)
		if m == NoMove {
			t.Fatalf("move %q not legal in %s", ms, p.FEN())
		}
		undos = append(undos, p.MakeMove(m))

		if p.Key() != p.ComputeKey() {
			t.Fatalf("after %s: incremental key %#x != recomputed %#x", ms, p.Key(), p.ComputeKey())
		}
		if p.PawnKey() != p.ComputePawnKey() {
			t.Fatalf("after %s: pawn key drift", ms)
		}
		if p.MinorKey() != p.ComputeMinorKey() {
			t.Fatalf("after %s: minor key drift", ms)
		}
	}

	for i := len(undos) - 1; i >= 0; i-- {
		p.UnmakeMove(undos[i])
	}
	if p.Key() != origKey || p.PawnKey() != origPawn || p.MinorKey() != origMinor {
		t.Fatalf("unwind did not restore fingerprints")
	}
	if p.FEN() != StartFEN {
		t.Fatalf("unwind did not restore position: %s", p.FEN())
	}
}

func TestKeyRoundTripSpecialMoves(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
	}{
		{"castle kingside", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1", "e1g1"},
		{"castle queenside", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 0 1", "e8c8"},
		{"en passant", "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", "e5d6"},
		{"promotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7b8q"},
		{"underpromotion", "1n5k/P7/8/8/8/8/8/7K w - - 0 1", "a7a8n"},
		{"double push", StartFEN, "d2d4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.fen)
			before := p.FEN()
			m := p.FindMove(tc.move)
			if m == NoMove {
				t.Fatalf("move %q not legal in %s", tc.move, tc.fen)
			}
			u := p.MakeMove(m)
			if p.Key() != p.ComputeKey() {
				t.Fatalf("incremental key diverged after %s", tc.move)
			}
			if !p.Validate() {
				t.Fatalf("position invalid after %s", tc.move)
			}
			p.UnmakeMove(u)
			if p.FEN() != before {
				t.Fatalf("unmake: got %q want %q", p.FEN(), before)
			}
		})
	}
}

func TestNullMoveRoundTrip(t *testing.T) {
	p := mustParse(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	key := p.Key()
	u := p.MakeNullMove()
	if p.SideToMove() != Black {
		t.Fatal("null move did not flip side")
	}
	if p.EnPassant() != NoSquare {
		t.Fatal("null move did not clear en passant")
	}
	if p.Key() != p.ComputeKey() {
		t.Fatal("null move key drift")
	}
	p.UnmakeNullMove(u)
	if p.Key() != key || p.EnPassant() == NoSquare {
		t.Fatal("null unmake did not restore state")
	}
}

func TestTerminalDetection(t *testing.T) {
	mate := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !mate.IsCheckmate() {
		t.Error("fool's mate position not detected as checkmate")
	}
	if mate.IsStalemate() {
		t.Error("checkmate misreported as stalemate")
	}

	stale := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if !stale.IsStalemate() {
		t.Error("stalemate not detected")
	}
	if stale.IsCheckmate() {
		t.Error("stalemate misreported as checkmate")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/4k3/8/8/3K4/8/8 w - - 0 1", true},
		{"8/8/4k3/8/8/3KN3/8/8 w - - 0 1", true},
		{"8/8/4kb2/8/8/3K4/8/8 w - - 0 1", true},
		{"8/8/2b1k3/8/8/3K2B1/8/8 w - - 0 1", true},  // both bishops on light squares
		{"8/8/1b2k3/8/8/3K2B1/8/8 w - - 0 1", false}, // opposite-colored bishops
		{"8/8/4k3/8/8/3KP3/8/8 w - - 0 1", false},
		{"8/8/4k3/8/8/3KR3/8/8 w - - 0 1", false},
		{"8/8/3nk3/8/8/3KN3/8/8 w - - 0 1", false},
	}
	for _, tc := range cases {
		p := mustParse(t, tc.fen)
		if got := p.InsufficientMaterial(); got != tc.want {
			t.Errorf("InsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestGivesCheck(t *testing.T) {
	cases := []struct {
		fen  string
		move string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", true},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a2", false},
		{"4k3/8/8/8/8/8/8/4K2N w - - 0 1", "h1g3", false},
		{"4k3/8/8/8/8/8/8/4K2N w - - 0 1", "h1f2", false},
		{"4k3/8/8/7B/8/8/8/4K3 w - - 0 1", "h5g6", true}, // g6-f7-e8 diagonal
		{"4k3/8/8/7B/8/8/8/4K3 w - - 0 1", "h5g4", false},
		{"4k3/3P4/8/8/8/8/8/4K3 w - - 0 1", "d7d8q", true},
		{"r3k3/8/8/8/8/8/8/3K4 b q - 0 1", "e8c8", true}, // castle rook checks from d8
	}
	for _, tc := range cases {
		p := mustParse(t, tc.fen)
		m := p.FindMove(tc.move)
		if m == NoMove {
			t.Fatalf("move %q not legal in %q", tc.move, tc.fen)
		}
		if got := p.GivesCheck(m); got != tc.want {
			t.Errorf("GivesCheck(%q, %s) = %v, want %v", tc.fen, tc.move, got, tc.want)
		}
	}
}
