package tuner

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"heron-engine/engine"
)

// sigmoid maps a centipawn eval to an expected score in [0, 1].
func sigmoid(k, eval float64) float64 {
	z := k * eval / 400
	if z > 40 {
		return 1
	}
	if z < -40 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}

// Loss is the mean squared error over the dataset, evaluated across
// all cores. Evaluation only reads the positions, so the shards can
// share them.
func Loss(samples []Sample, w *engine.Weights, k float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	workers := runtime.NumCPU()
	if workers > len(samples) {
		workers = len(samples)
	}
	partial := make([]float64, workers)
	chunk := (len(samples) + workers - 1) / workers

	var g errgroup.Group
	for wi := 0; wi < workers; wi++ {
		wi := wi
		lo := wi * chunk
		hi := min(lo+chunk, len(samples))
		g.Go(func() error {
			sum := 0.0
			for i := lo; i < hi; i++ {
				s := &samples[i]
				d := s.Result - sigmoid(k, whiteEval(s.Pos, w))
				sum += d * d
			}
			partial[wi] = sum
			return nil
		})
	}
	g.Wait() // the shards never fail

	total := 0.0
	for _, p := range partial {
		total += p
	}
	return total / float64(len(samples))
}

// FitK scans for the logistic scale that best matches the current
// weights, the standard first step before touching any weight.
func FitK(samples []Sample, w *engine.Weights) float64 {
	best, bestLoss := 1.0, math.MaxFloat64
	for k := 0.5; k <= 2.0; k += 0.05 {
		if l := Loss(samples, w, k); l < bestLoss {
			best, bestLoss = k, l
		}
	}
	return best
}
