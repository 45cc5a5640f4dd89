package engine

import (
	"testing"

	"heron-engine/movegen"
)

func TestCorrectionStaysBounded(t *testing.T) {
	params := defaultParams()
	var ch correctionHistory
	p := movegen.NewPosition()

	// Hammer the tables with a huge one-sided delta; the applied
	// correction must stay within the configured clamp.
	for i := 0; i < 1000; i++ {
		ch.update(p, &params, 12, 5000)
	}
	raw := 10
	corrected := ch.correct(p, &params, raw)
	maxAdj := 2 * params.CorrectionLimit // pawn + minor tables
	if corrected < raw || corrected > raw+maxAdj {
		t.Fatalf("correction out of bounds: raw %d corrected %d (limit %d)", raw, corrected, maxAdj)
	}

	for i := 0; i < 1000; i++ {
		ch.update(p, &params, 12, -5000)
	}
	corrected = ch.correct(p, &params, raw)
	if corrected > raw || corrected < raw-maxAdj {
		t.Fatalf("negative correction out of bounds: raw %d corrected %d", raw, corrected)
	}
}

func TestCorrectionNeverEntersMateRange(t *testing.T) {
	params := defaultParams()
	var ch correctionHistory
	p := movegen.NewPosition()

	for _, raw := range []int{Checkmate - 2, -Checkmate + 2, Checkmate + 500, -Checkmate - 500} {
		got := ch.correct(p, &params, raw)
		if IsMateScore(got) {
			t.Errorf("corrected eval %d for raw %d is inside the mate band", got, raw)
		}
	}
}

func TestCorrectionTracksObservedDelta(t *testing.T) {
	params := defaultParams()
	var ch correctionHistory
	p := movegen.NewPosition()

	// Consistent +40 gap between search and static should pull the
	// correction toward +40 but never past the clamp.
	for i := 0; i < 200; i++ {
		ch.update(p, &params, 6, 40)
	}
	got := ch.correct(p, &params, 0)
	if got <= 0 || got > 2*params.CorrectionLimit {
		t.Fatalf("correction after consistent +40 deltas = %d", got)
	}
}

func TestCorrectionKeyedBySideToMove(t *testing.T) {
	params := defaultParams()
	var ch correctionHistory
	white := movegen.NewPosition()
	black, err := movegen.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		ch.update(white, &params, 8, 60)
	}
	if got := ch.correct(black, &params, 0); got != 0 {
		t.Fatalf("white-side updates leaked into black-side lookup: %d", got)
	}
}
