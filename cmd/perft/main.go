package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"golang.org/x/sync/errgroup"

	"heron-engine/movegen"
)

func main() {
	fen := flag.String("fen", movegen.StartFEN, "FEN string (defaults to the initial position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	repeat := flag.Int("repeat", 1, "repeat N times and report the aggregate")
	workers := flag.Int("workers", runtime.NumCPU(), "goroutines for the root split (1 = sequential)")
	label := flag.String("label", "", "optional label prefix for the one-line output")
	cpuProf := flag.String("cpuprofile", "", "write a CPU profile to file during the run")
	memProf := flag.String("memprofile", "", "write a heap profile to file after the run")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	pos, err := movegen.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse fen: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		var total uint64
		for _, e := range movegen.PerftDivide(pos, *depth) {
			fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			total += e.Nodes
		}
		fmt.Printf("Total: %d\n", total)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	var total uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		n, err := run(*fen, *depth, *workers)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		total += n
	}
	elapsed := time.Since(start)
	nps := float64(total) / elapsed.Seconds()
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, total, elapsed, nps)

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create memprofile: %v\n", err)
			os.Exit(2)
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "write heap profile: %v\n", err)
			os.Exit(2)
		}
		f.Close()
	}
}

// run splits the root moves across workers; each worker re-parses the
// FEN so the walks never share a position.
func run(fen string, depth, workers int) (uint64, error) {
	root, err := movegen.ParseFEN(fen)
	if err != nil {
		return 0, err
	}
	if workers <= 1 || depth <= 1 {
		return movegen.Perft(root, depth), nil
	}

	moves := root.LegalMoves()
	counts := make([]uint64, len(moves))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			p, err := movegen.ParseFEN(fen)
			if err != nil {
				return err
			}
			p.MakeMove(p.FindMove(m.String()))
			counts[i] = movegen.Perft(p, depth-1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total uint64
	for _, n := range counts {
		total += n
	}
	return total, nil
}
