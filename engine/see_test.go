package engine

import (
	"testing"

	"heron-engine/movegen"
)

func findMove(t *testing.T, p *movegen.Position, uci string) movegen.Move {
	t.Helper()
	m := p.FindMove(uci)
	if m == movegen.NoMove {
		t.Fatalf("move %q not legal in %s", uci, p.FEN())
	}
	return m
}

func TestSEE(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move string
		want int
	}{
		{
			"free pawn",
			"1k6/8/8/4p3/8/3N4/8/1K6 w - - 0 1",
			"d3e5", 100,
		},
		{
			"pawn defended by pawn, knight trade refused",
			"1k6/8/5p2/4p3/8/3N4/8/1K6 w - - 0 1",
			"d3e5", -200,
		},
		{
			"queen grabs defended pawn",
			"1k6/8/5p2/4p3/8/8/4Q3/1K6 w - - 0 1",
			"e2e5", -800,
		},
		{
			"rook takes rook, no recapture",
			"1k6/8/8/3r4/8/8/3R4/1K6 w - - 0 1",
			"d2d5", 500,
		},
		{
			"xray battery wins the pawn",
			"3r4/1k6/8/3p4/8/8/3R4/3R3K w - - 0 1",
			"d2d5", 100,
		},
		{
			"lone rook against defended pawn",
			"3r4/1k6/8/3p4/8/8/3R4/7K w - - 0 1",
			"d2d5", -400,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := movegen.ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			m := findMove(t, p, tc.move)
			if got := SEE(p, m); got != tc.want {
				t.Errorf("SEE(%s in %q) = %d, want %d", tc.move, tc.fen, got, tc.want)
			}
		})
	}
}

func TestSEEEnPassant(t *testing.T) {
	p, err := movegen.ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatal(err)
	}
	m := findMove(t, p, "e5d6")
	if got := SEE(p, m); got != 100 {
		t.Errorf("en passant SEE = %d, want 100", got)
	}
}
