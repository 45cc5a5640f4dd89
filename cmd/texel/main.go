package main

import (
	"flag"
	"log"
	"os"

	"heron-engine/engine"
	"heron-engine/tuner"
)

func main() {
	epd := flag.String("epd", "", "labeled position book, one \"FEN [result]\" per line (required)")
	out := flag.String("out", "weights.json", "where to write the tuned weights")
	seed := flag.String("seed", "", "weights JSON to start from (empty = built-in defaults)")
	epochs := flag.Int("epochs", 5, "coordinate-descent passes over all weights")
	step := flag.Int("step", 1, "perturbation size per weight")
	flag.Parse()

	if *epd == "" {
		flag.Usage()
		os.Exit(2)
	}

	samples, skipped, err := tuner.LoadEPD(*epd)
	if err != nil {
		log.Fatal(err)
	}
	if len(samples) == 0 {
		log.Fatalf("no usable positions in %s", *epd)
	}
	log.Printf("loaded %d positions (%d skipped)", len(samples), skipped)

	w := engine.DefaultWeights()
	if *seed != "" {
		if w, err = tuner.LoadWeights(*seed); err != nil {
			log.Fatal(err)
		}
	}

	loss := tuner.Tune(samples, w, tuner.Config{Epochs: *epochs, Step: *step, Log: os.Stderr})
	log.Printf("final loss %.6f", loss)

	if err := tuner.SaveWeights(*out, w); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}
