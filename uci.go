package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"heron-engine/engine"
	"heron-engine/movegen"
)

const (
	engineName    = "Heron 1.0"
	engineAuthor  = "the Heron developers"
	maxHashMB     = 4096
	maxOverheadMS = 5000
)

// IllegalMoveError reports a move token in a position command that does
// not name a legal move. The position built so far is discarded and the
// previous one kept.
type IllegalMoveError struct {
	Move string
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %q in position %s", e.Move, e.FEN)
}

// uciState is one engine session: the protocol loop plus the searcher
// it drives. All commands run on the loop goroutine; only the search
// itself runs concurrently, and stop/ponderhit reach into it through
// the searcher's atomic controls.
type uciState struct {
	out io.Writer
	log zerolog.Logger

	tt     *engine.TransTable
	search *engine.Searcher

	pos      *movegen.Position
	gameKeys []uint64

	searchDone chan struct{}
	debug      bool
}

func newUCI(out io.Writer, log zerolog.Logger) *uciState {
	tt := engine.NewTransTable(engine.DefaultTTSizeMB)
	u := &uciState{
		out:      out,
		log:      log,
		tt:       tt,
		search:   engine.NewSearcher(tt),
		pos:      movegen.NewPosition(),
		gameKeys: nil,
	}
	u.search.TimeManager().Overhead = 10 * time.Millisecond
	u.search.Info = func(line string) { fmt.Fprintln(u.out, "info", line) }
	return u
}

func (u *uciState) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<16)
	for scanner.Scan() {
		if !u.handle(scanner.Text()) {
			break
		}
	}
	u.waitSearch()
}

// handle dispatches one command line; it returns false on quit.
func (u *uciState) handle(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return true
	}
	switch strings.ToLower(tokens[0]) {
	case "uci":
		u.identify()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
	case "ucinewgame":
		u.waitSearch()
		u.pos = movegen.NewPosition()
		u.gameKeys = nil
		u.search.NewGame()
	case "position":
		u.waitSearch()
		if err := u.setPosition(tokens); err != nil {
			u.log.Error().Err(err).Msg("position rejected")
			fmt.Fprintln(u.out, "info string", err)
		}
	case "go":
		u.startSearch(tokens)
	case "stop":
		u.search.Stop()
	case "ponderhit":
		u.search.PonderHit()
	case "setoption":
		u.setOption(tokens)
	case "debug":
		u.debug = len(tokens) > 1 && strings.ToLower(tokens[1]) == "on"
		u.search.CollectStats = u.debug
	case "perft":
		u.waitSearch()
		u.perft(tokens)
	case "staticeval":
		u.waitSearch()
		u.search.SetPosition(u.pos, u.gameKeys)
		fmt.Fprintln(u.out, "info string static eval", u.search.StaticEval())
	case "quit":
		u.search.Stop()
		return false
	default:
		u.log.Warn().Str("command", tokens[0]).Msg("unknown command")
		fmt.Fprintln(u.out, "info string unknown command:", tokens[0])
	}
	return true
}

func (u *uciState) identify() {
	fmt.Fprintln(u.out, "id name", engineName)
	fmt.Fprintln(u.out, "id author", engineAuthor)
	fmt.Fprintf(u.out, "option name Hash type spin default %d min 1 max %d\n", engine.DefaultTTSizeMB, maxHashMB)
	fmt.Fprintf(u.out, "option name Move Overhead type spin default 10 min 0 max %d\n", maxOverheadMS)
	fmt.Fprintln(u.out, "option name Ponder type check default false")
	p := u.search.Params()
	fmt.Fprintf(u.out, "option name AspirationWindow type spin default %d min 5 max 150\n", p.AspirationWindow)
	fmt.Fprintf(u.out, "option name NMPMinDepth type spin default %d min 1 max 10\n", p.NMPMinDepth)
	fmt.Fprintf(u.out, "option name LMRMinMoves type spin default %d min 1 max 10\n", p.LMRMinMoves)
	fmt.Fprintf(u.out, "option name QSDeltaMargin type spin default %d min 50 max 500\n", p.QSDeltaMargin)
	fmt.Fprintf(u.out, "option name TempoBonus type spin default %d min 0 max 50\n", u.search.Weights().TempoBonus)
	fmt.Fprintln(u.out, "uciok")
}

// setPosition parses "position [startpos | fen <fen>] [moves ...]".
// On any error the previous position stays installed.
func (u *uciState) setPosition(tokens []string) error {
	if len(tokens) < 2 {
		return fmt.Errorf("position: missing subcommand")
	}

	var p *movegen.Position
	rest := tokens[2:]
	switch strings.ToLower(tokens[1]) {
	case "startpos":
		p = movegen.NewPosition()
	case "fen":
		end := len(rest)
		for i, t := range rest {
			if strings.ToLower(t) == "moves" {
				end = i
				break
			}
		}
		parsed, err := movegen.ParseFEN(strings.Join(rest[:end], " "))
		if err != nil {
			return err
		}
		p = parsed
		rest = rest[end:]
	default:
		return fmt.Errorf("position: unknown subcommand %q", tokens[1])
	}

	keys := []uint64{p.Key()}
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, ms := range rest[1:] {
			m := p.FindMove(strings.ToLower(ms))
			if m == movegen.NoMove {
				return &IllegalMoveError{Move: ms, FEN: p.FEN()}
			}
			p.MakeMove(m)
			keys = append(keys, p.Key())
		}
	}

	u.pos = p
	u.gameKeys = keys
	return nil
}

// parseGo turns the "go" token list into search limits.
func parseGo(tokens []string) engine.Limits {
	var limits engine.Limits
	intArg := func(i int) (int, bool) {
		if i+1 >= len(tokens) {
			return 0, false
		}
		v, err := strconv.Atoi(tokens[i+1])
		return v, err == nil
	}

	for i := 1; i < len(tokens); i++ {
		switch strings.ToLower(tokens[i]) {
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "depth":
			if v, ok := intArg(i); ok {
				limits.Depth = int8(min(v, engine.MaxDepth))
				i++
			}
		case "nodes":
			if v, ok := intArg(i); ok {
				limits.Nodes = uint64(v)
				i++
			}
		case "movetime":
			if v, ok := intArg(i); ok {
				limits.MoveTime = time.Duration(v) * time.Millisecond
				i++
			}
		case "wtime":
			if v, ok := intArg(i); ok {
				limits.WhiteTime = time.Duration(v) * time.Millisecond
				i++
			}
		case "btime":
			if v, ok := intArg(i); ok {
				limits.BlackTime = time.Duration(v) * time.Millisecond
				i++
			}
		case "winc":
			if v, ok := intArg(i); ok {
				limits.WhiteInc = time.Duration(v) * time.Millisecond
				i++
			}
		case "binc":
			if v, ok := intArg(i); ok {
				limits.BlackInc = time.Duration(v) * time.Millisecond
				i++
			}
		case "movestogo":
			if v, ok := intArg(i); ok {
				limits.MovesToGo = v
				i++
			}
		}
	}
	return limits
}

func (u *uciState) startSearch(tokens []string) {
	u.waitSearch()
	limits := parseGo(tokens)

	u.search.SetPosition(u.pos, u.gameKeys)
	done := make(chan struct{})
	u.searchDone = done
	go func() {
		defer close(done)
		res := u.search.Search(limits)
		if u.debug {
			for _, line := range u.search.StatLines() {
				fmt.Fprintln(u.out, "info string", line)
			}
		}
		if res.BestMove == movegen.NoMove {
			fmt.Fprintln(u.out, "bestmove 0000")
			return
		}
		if res.Ponder != movegen.NoMove {
			fmt.Fprintf(u.out, "bestmove %s ponder %s\n", res.BestMove, res.Ponder)
		} else {
			fmt.Fprintln(u.out, "bestmove", res.BestMove)
		}
	}()
}

// waitSearch blocks until the running search, if any, has reported its
// bestmove. Commands that mutate shared state go through here.
func (u *uciState) waitSearch() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
	}
}

func (u *uciState) setOption(tokens []string) {
	// setoption name <name...> value <value>
	var nameParts []string
	value := ""
	i := 1
	for ; i < len(tokens); i++ {
		t := strings.ToLower(tokens[i])
		if t == "name" {
			continue
		}
		if t == "value" {
			if i+1 < len(tokens) {
				value = tokens[i+1]
			}
			break
		}
		nameParts = append(nameParts, t)
	}
	name := strings.Join(nameParts, " ")

	intVal := func(def int) int {
		v, err := strconv.Atoi(value)
		if err != nil {
			return def
		}
		return v
	}

	p := u.search.Params()
	switch name {
	case "hash":
		mb := clampInt(intVal(engine.DefaultTTSizeMB), 1, maxHashMB)
		u.waitSearch()
		u.tt.Resize(mb)
	case "move overhead":
		ms := clampInt(intVal(10), 0, maxOverheadMS)
		u.search.TimeManager().Overhead = time.Duration(ms) * time.Millisecond
	case "ponder":
		// Capability flag only; pondering is driven by "go ponder".
	case "aspirationwindow":
		p.AspirationWindow = clampInt(intVal(p.AspirationWindow), 5, 150)
	case "nmpmindepth":
		p.NMPMinDepth = int8(clampInt(intVal(int(p.NMPMinDepth)), 1, 10))
	case "lmrminmoves":
		p.LMRMinMoves = clampInt(intVal(p.LMRMinMoves), 1, 10)
	case "qsdeltamargin":
		p.QSDeltaMargin = clampInt(intVal(p.QSDeltaMargin), 50, 500)
	case "tempobonus":
		u.search.Weights().TempoBonus = clampInt(intVal(u.search.Weights().TempoBonus), 0, 50)
	default:
		u.log.Warn().Str("option", name).Msg("unknown option")
		fmt.Fprintln(u.out, "info string unknown option:", name)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// perft runs a divide count on the current position, a movegen
// debugging aid rather than part of the protocol.
func (u *uciState) perft(tokens []string) {
	depth := 5
	if len(tokens) > 1 {
		if v, err := strconv.Atoi(tokens[1]); err == nil && v > 0 {
			depth = v
		}
	}
	start := time.Now()
	var total uint64
	for _, e := range movegen.PerftDivide(u.pos, depth) {
		fmt.Fprintf(u.out, "%s: %d\n", e.Move, e.Nodes)
		total += e.Nodes
	}
	elapsed := time.Since(start)
	nps := uint64(0)
	if s := elapsed.Seconds(); s > 0 {
		nps = uint64(float64(total) / s)
	}
	fmt.Fprintf(u.out, "nodes %d time %v nps %d\n", total, elapsed.Round(time.Millisecond), nps)
}
