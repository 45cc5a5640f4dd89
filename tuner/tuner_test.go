package tuner

import (
	"os"
	"path/filepath"
	"testing"

	"heron-engine/engine"
)

func writeBook(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epd")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEPD(t *testing.T) {
	path := writeBook(t,
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [0.5]\n"+
			"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [1.0]\n"+
			"not a fen at all [0.5]\n"+
			"8/8/8/8/8/8/8/k1K5 w - - 0 1 [broken\n")

	samples, skipped, err := LoadEPD(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("loaded %d samples, want 2", len(samples))
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if samples[0].Result != 0.5 || samples[1].Result != 1.0 {
		t.Errorf("results = %v %v", samples[0].Result, samples[1].Result)
	}
}

func TestSplitEPDLine(t *testing.T) {
	cases := []struct {
		line string
		ok   bool
	}{
		{"fenpart [0.0]", true},
		{"fenpart [1.0]", true},
		{"fenpart 0.5", false},
		{"fenpart [1.5]", false},
		{"[0.5]", false},
	}
	for _, c := range cases {
		if _, _, ok := splitEPDLine(c.line); ok != c.ok {
			t.Errorf("splitEPDLine(%q) ok = %v, want %v", c.line, ok, c.ok)
		}
	}
}

func TestSigmoid(t *testing.T) {
	if got := sigmoid(1, 0); got != 0.5 {
		t.Errorf("sigmoid(1, 0) = %v", got)
	}
	if lo, hi := sigmoid(1, -5000), sigmoid(1, 5000); lo > 0.01 || hi < 0.99 {
		t.Errorf("sigmoid tails: %v %v", lo, hi)
	}
	if sigmoid(1, 100) <= sigmoid(1, -100) {
		t.Error("sigmoid not monotonic")
	}
}

func TestLossPrefersSaneWeights(t *testing.T) {
	// Positions where the material winner won: real piece values must
	// explain them better than all-zero material.
	path := writeBook(t,
		"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [1.0]\n"+
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1 [0.0]\n"+
			"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1 [0.5]\n")
	samples, _, err := LoadEPD(path)
	if err != nil {
		t.Fatal(err)
	}

	sane := engine.DefaultWeights()
	flat := engine.DefaultWeights()
	flat.PieceValueMG = [7]int{}
	flat.PieceValueEG = [7]int{}

	if Loss(samples, sane, 1.0) >= Loss(samples, flat, 1.0) {
		t.Errorf("default weights lose to zeroed material: %v vs %v",
			Loss(samples, sane, 1.0), Loss(samples, flat, 1.0))
	}
}

func TestFitKInScanRange(t *testing.T) {
	path := writeBook(t,
		"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [1.0]\n"+
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1 [0.0]\n")
	samples, _, err := LoadEPD(path)
	if err != nil {
		t.Fatal(err)
	}
	k := FitK(samples, engine.DefaultWeights())
	if k < 0.5 || k > 2.0 {
		t.Errorf("fitted k = %v outside the scan range", k)
	}
}

func TestFlattenAliasesWeights(t *testing.T) {
	w := engine.DefaultWeights()
	flat := flatten(w)
	if len(flat) == 0 {
		t.Fatal("empty flatten")
	}

	// Writing through the pointers must reach the struct.
	for _, p := range flat {
		*p += 3
	}
	if w.TempoBonus != engine.DefaultWeights().TempoBonus+3 {
		t.Error("flatten does not alias the struct fields")
	}
	if w.PieceValueMG[1] != engine.DefaultWeights().PieceValueMG[1]+3 {
		t.Error("material slots not aliased")
	}
}

func TestWeightsJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	w := engine.DefaultWeights()
	w.BishopPairMG = 99

	if err := SaveWeights(path, w); err != nil {
		t.Fatal(err)
	}
	got, err := LoadWeights(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *w {
		t.Error("weights changed across save/load")
	}
}

func TestTuneNeverWorsensLoss(t *testing.T) {
	path := writeBook(t,
		"rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [1.0]\n"+
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNB1KBNR w KQkq - 0 1 [0.0]\n"+
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [0.5]\n")
	samples, _, err := LoadEPD(path)
	if err != nil {
		t.Fatal(err)
	}

	w := engine.DefaultWeights()
	k := FitK(samples, w)
	before := Loss(samples, w, k)
	after := Tune(samples, w, Config{Epochs: 1})
	if after > before {
		t.Errorf("tuning raised the loss: %v -> %v", before, after)
	}
}
