package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"heron-engine/engine"
	"heron-engine/movegen"
)

// benchSuite is a fixed set of positions spanning opening, middlegame
// and endgame, so node counts stay comparable across changes.
var benchSuite = []string{
	movegen.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r1bqkb1r/pp1ppppp/2n2n2/2p5/4P3/2N2N2/PPPP1PPP/R1BQKB1R w KQkq - 4 4",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"4rrk1/pp1n3p/3q2pQ/2p1pb2/2PP4/2P3N1/P2B2PP/4RRK1 b - - 7 19",
	"8/8/1p1k4/p1p2p2/P1P2P2/1P1K4/8/8 w - - 0 1",
}

func main() {
	depth := flag.Int("depth", 10, "search depth in plies per position")
	hashMB := flag.Int("hash", engine.DefaultTTSizeMB, "transposition table size in MB")
	fen := flag.String("fen", "", "single FEN to search instead of the suite")
	cpuProf := flag.String("cpuprofile", "", "write a CPU profile to file")
	memProf := flag.String("memprofile", "", "write a heap profile to file")
	flag.Parse()

	if *depth <= 0 {
		log.Fatalf("depth must be positive, got %d", *depth)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatalf("create cpu profile: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("start cpu profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	suite := benchSuite
	if *fen != "" {
		suite = []string{*fen}
	}

	searcher := engine.NewSearcher(engine.NewTransTable(*hashMB))

	var totalNodes uint64
	start := time.Now()
	for i, f := range suite {
		pos, err := movegen.ParseFEN(f)
		if err != nil {
			log.Fatalf("position %d: %v", i+1, err)
		}
		searcher.NewGame()
		searcher.SetPosition(pos, nil)

		res := searcher.Search(engine.Limits{Depth: int8(*depth)})
		totalNodes += res.Nodes
		fmt.Printf("position %d: bestmove %s score %s nodes %d time %v\n",
			i+1, res.BestMove, engine.ScoreString(res.Score), res.Nodes, res.Time.Round(time.Millisecond))
	}
	elapsed := time.Since(start)

	nps := uint64(0)
	if s := elapsed.Seconds(); s > 0 {
		nps = uint64(float64(totalNodes) / s)
	}
	fmt.Printf("total: nodes %d time %v nps %d\n", totalNodes, elapsed.Round(time.Millisecond), nps)

	if *memProf != "" {
		f, err := os.Create(*memProf)
		if err != nil {
			log.Fatalf("create memory profile: %v", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("write memory profile: %v", err)
		}
	}
}
