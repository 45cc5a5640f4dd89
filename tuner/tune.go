package tuner

import (
	"fmt"
	"io"
	"time"

	"heron-engine/engine"
)

// Config controls a tuning run.
type Config struct {
	Epochs int
	Step   int       // perturbation size per weight, usually 1
	Log    io.Writer // nil silences progress output
}

// Tune runs coordinate-descent texel tuning: for each weight in turn,
// try +step and -step and keep whichever lowers the loss. Crude but
// robust, and it needs no gradient through the evaluator. The weights
// are modified in place; the best loss is returned.
func Tune(samples []Sample, w *engine.Weights, cfg Config) float64 {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 5
	}
	if cfg.Step <= 0 {
		cfg.Step = 1
	}

	k := FitK(samples, w)
	weights := flatten(w)
	best := Loss(samples, w, k)
	logf(cfg.Log, "start: loss=%.6f k=%.2f weights=%d samples=%d\n", best, k, len(weights), len(samples))

	for ep := 1; ep <= cfg.Epochs; ep++ {
		t0 := time.Now()
		improved := 0
		Shuffle(samples)

		for _, wp := range weights {
			orig := *wp

			*wp = orig + cfg.Step
			if l := Loss(samples, w, k); l < best {
				best = l
				improved++
				continue
			}

			*wp = orig - cfg.Step
			if l := Loss(samples, w, k); l < best {
				best = l
				improved++
				continue
			}

			*wp = orig
		}

		logf(cfg.Log, "epoch %d: loss=%.6f improved=%d time=%s\n", ep, best, improved, time.Since(t0).Round(time.Second))
		if improved == 0 {
			break // local minimum at this step size
		}
	}
	return best
}

func logf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format, args...)
	}
}
