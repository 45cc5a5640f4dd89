// Package tuner fits the evaluation weights against a labeled position
// set with the classic texel method: minimize the squared error between
// a logistic mapping of the static eval and the game results.
package tuner

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"heron-engine/engine"
	"heron-engine/movegen"
)

// Sample is one labeled position. Result is from white's point of view:
// 1.0 win, 0.5 draw, 0.0 loss.
type Sample struct {
	Pos    *movegen.Position
	Result float64
}

// LoadEPD reads a book of "FEN [result]" lines, the format produced by
// the usual self-play labeling tools. Malformed lines are skipped and
// counted, not fatal.
func LoadEPD(path string) ([]Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open epd: %w", err)
	}
	defer f.Close()

	var samples []Sample
	skipped := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<16)
	for sc.Scan() {
		fen, result, ok := splitEPDLine(sc.Text())
		if !ok {
			skipped++
			continue
		}
		pos, err := movegen.ParseFEN(fen)
		if err != nil {
			skipped++
			continue
		}
		samples = append(samples, Sample{Pos: pos, Result: result})
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read epd: %w", err)
	}
	return samples, skipped, nil
}

func splitEPDLine(line string) (fen string, result float64, ok bool) {
	open := strings.IndexByte(line, '[')
	end := strings.IndexByte(line, ']')
	if open < 0 || end < open {
		return "", 0, false
	}
	fen = strings.TrimSpace(line[:open])
	r, err := strconv.ParseFloat(strings.TrimSpace(line[open+1:end]), 64)
	if err != nil || fen == "" || r < 0 || r > 1 {
		return "", 0, false
	}
	return fen, r, true
}

// Shuffle permutes the dataset in place. Batched local search is
// order-sensitive, so every epoch gets a fresh permutation.
func Shuffle(samples []Sample) {
	frand.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
}

// whiteEval returns the static evaluation from white's point of view.
func whiteEval(p *movegen.Position, w *engine.Weights) float64 {
	e := engine.Evaluate(p, w)
	if p.SideToMove() == movegen.Black {
		e = -e
	}
	return float64(e)
}
