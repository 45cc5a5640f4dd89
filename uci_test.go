package main

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"heron-engine/engine"
	"heron-engine/movegen"
)

// lockedBuffer keeps the protocol output race-free between the command
// loop and the search goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestUCI() (*uciState, *lockedBuffer) {
	out := &lockedBuffer{}
	return newUCI(out, zerolog.Nop()), out
}

func runCommands(u *uciState, cmds ...string) {
	for _, c := range cmds {
		u.handle(c)
	}
	u.waitSearch()
}

func TestUCIIdentification(t *testing.T) {
	u, out := newTestUCI()
	runCommands(u, "uci")

	got := out.String()
	for _, want := range []string{"id name", "id author", "option name Hash", "option name Move Overhead", "uciok"} {
		if !strings.Contains(got, want) {
			t.Errorf("uci reply missing %q:\n%s", want, got)
		}
	}
}

func TestIsReady(t *testing.T) {
	u, out := newTestUCI()
	runCommands(u, "isready")
	if !strings.Contains(out.String(), "readyok") {
		t.Errorf("no readyok in %q", out.String())
	}
}

func TestPositionStartposWithMoves(t *testing.T) {
	u, _ := newTestUCI()
	runCommands(u, "position startpos moves e2e4 e7e5 g1f3")

	if got := u.pos.FEN(); !strings.HasPrefix(got, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b") {
		t.Errorf("position after moves = %s", got)
	}
	// startpos + three moves = four fingerprints for repetition checks.
	if len(u.gameKeys) != 4 {
		t.Errorf("gameKeys length = %d", len(u.gameKeys))
	}
}

func TestPositionFEN(t *testing.T) {
	u, _ := newTestUCI()
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	runCommands(u, "position fen "+fen)
	if got := u.pos.FEN(); got != fen {
		t.Errorf("fen round trip: got %s want %s", got, fen)
	}
}

func TestIllegalMoveKeepsPosition(t *testing.T) {
	u, _ := newTestUCI()
	runCommands(u, "position startpos moves e2e4")
	before := u.pos.FEN()

	err := u.setPosition(strings.Fields("position startpos moves e2e4 e2e4"))
	var ime *IllegalMoveError
	if !errors.As(err, &ime) {
		t.Fatalf("expected IllegalMoveError, got %v", err)
	}
	if ime.Move != "e2e4" {
		t.Errorf("offending move = %q", ime.Move)
	}
	if u.pos.FEN() != before {
		t.Errorf("position changed after rejected command: %s", u.pos.FEN())
	}
}

func TestGoDepthEmitsBestmove(t *testing.T) {
	u, out := newTestUCI()
	runCommands(u, "position startpos", "go depth 4")

	got := out.String()
	if !strings.Contains(got, "bestmove ") {
		t.Fatalf("no bestmove in output:\n%s", got)
	}
	if !strings.Contains(got, "info depth 1") {
		t.Errorf("no iteration info lines in output:\n%s", got)
	}
}

func TestGoOnMatedPositionReportsNullMove(t *testing.T) {
	u, out := newTestUCI()
	runCommands(u,
		"position fen rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"go depth 2")
	if !strings.Contains(out.String(), "bestmove 0000") {
		t.Errorf("mated position output:\n%s", out.String())
	}
}

func TestStopTerminatesInfiniteSearch(t *testing.T) {
	u, out := newTestUCI()
	u.handle("position startpos")
	u.handle("go infinite")
	time.Sleep(50 * time.Millisecond) // let the search goroutine spin up
	u.handle("stop")
	u.waitSearch()

	if !strings.Contains(out.String(), "bestmove ") {
		t.Errorf("stopped search emitted no bestmove:\n%s", out.String())
	}
}

func TestParseGoLimits(t *testing.T) {
	limits := parseGo(strings.Fields("go wtime 60000 btime 50000 winc 1000 binc 2000 movestogo 30"))
	if limits.WhiteTime.Milliseconds() != 60000 || limits.BlackTime.Milliseconds() != 50000 {
		t.Errorf("clock times: %v %v", limits.WhiteTime, limits.BlackTime)
	}
	if limits.WhiteInc.Milliseconds() != 1000 || limits.BlackInc.Milliseconds() != 2000 {
		t.Errorf("increments: %v %v", limits.WhiteInc, limits.BlackInc)
	}
	if limits.MovesToGo != 30 {
		t.Errorf("movestogo = %d", limits.MovesToGo)
	}

	limits = parseGo(strings.Fields("go ponder movetime 2500"))
	if !limits.Ponder || limits.MoveTime.Milliseconds() != 2500 {
		t.Errorf("ponder/movetime: %+v", limits)
	}

	limits = parseGo(strings.Fields("go depth 250"))
	if limits.Depth != engine.MaxDepth {
		t.Errorf("oversized depth not capped: %d", limits.Depth)
	}
}

func TestSetOptionAdjustsParams(t *testing.T) {
	u, _ := newTestUCI()
	runCommands(u,
		"setoption name AspirationWindow value 50",
		"setoption name Move Overhead value 100",
		"setoption name TempoBonus value 20")

	if got := u.search.Params().AspirationWindow; got != 50 {
		t.Errorf("AspirationWindow = %d", got)
	}
	if got := u.search.TimeManager().Overhead.Milliseconds(); got != 100 {
		t.Errorf("Move Overhead = %dms", got)
	}
	if got := u.search.Weights().TempoBonus; got != 20 {
		t.Errorf("TempoBonus = %d", got)
	}
}

func TestSetOptionClampsOutOfRange(t *testing.T) {
	u, _ := newTestUCI()
	runCommands(u, "setoption name AspirationWindow value 99999")
	if got := u.search.Params().AspirationWindow; got != 150 {
		t.Errorf("oversized option not clamped: %d", got)
	}
}

func TestUCINewGameResetsPosition(t *testing.T) {
	u, _ := newTestUCI()
	runCommands(u, "position startpos moves e2e4", "ucinewgame")
	if u.pos.FEN() != movegen.NewPosition().FEN() {
		t.Errorf("position after ucinewgame: %s", u.pos.FEN())
	}
}

func TestQuitStopsLoop(t *testing.T) {
	u, _ := newTestUCI()
	if u.handle("quit") {
		t.Error("quit did not terminate the loop")
	}
}

func TestPerftCommand(t *testing.T) {
	u, out := newTestUCI()
	runCommands(u, "position startpos", "perft 3")
	if !strings.Contains(out.String(), "nodes 8902") {
		t.Errorf("perft 3 from startpos:\n%s", out.String())
	}
}
