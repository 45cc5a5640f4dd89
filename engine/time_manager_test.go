package engine

import (
	"testing"
	"time"

	"heron-engine/movegen"
)

func TestBudgetsFromClockAndIncrement(t *testing.T) {
	var tm TimeManager
	tm.Start(Limits{WhiteTime: 24 * time.Second, WhiteInc: 2 * time.Second}, movegen.White)

	if !tm.timed {
		t.Fatal("clocked limits did not arm the budgets")
	}
	if want := 24*time.Second/24 + time.Second; tm.soft != want {
		t.Errorf("soft budget = %v, want %v", tm.soft, want)
	}
	if want := 24*time.Second/6 + 4*time.Second; tm.hard != want {
		t.Errorf("hard budget = %v, want %v", tm.hard, want)
	}
}

func TestHardBudgetCappedAtHalfClock(t *testing.T) {
	var tm TimeManager
	tm.Start(Limits{BlackTime: 6 * time.Second, BlackInc: 10 * time.Second}, movegen.Black)
	if tm.hard > 3*time.Second {
		t.Errorf("hard budget %v exceeds half the clock", tm.hard)
	}
	if tm.soft > tm.hard {
		t.Errorf("soft %v above hard %v", tm.soft, tm.hard)
	}
}

func TestMoveTimeIsBothBudgets(t *testing.T) {
	var tm TimeManager
	tm.Start(Limits{MoveTime: 500 * time.Millisecond}, movegen.White)
	if tm.soft != tm.hard || tm.hard > 500*time.Millisecond {
		t.Errorf("movetime budgets soft=%v hard=%v", tm.soft, tm.hard)
	}
}

func TestInfiniteAndDepthLimitedNeverExpire(t *testing.T) {
	var tm TimeManager
	tm.Start(Limits{Infinite: true}, movegen.White)
	if tm.HardExceeded() || tm.SoftExceeded() {
		t.Error("infinite search reported a deadline")
	}

	tm.Start(Limits{Depth: 6}, movegen.White)
	if tm.HardExceeded() || tm.SoftExceeded() {
		t.Error("depth-limited search reported a deadline")
	}
}

func TestPonderSuspendsBudgets(t *testing.T) {
	var tm TimeManager
	tm.Start(Limits{WhiteTime: time.Millisecond, Ponder: true}, movegen.White)

	time.Sleep(5 * time.Millisecond)
	if tm.HardExceeded() {
		t.Fatal("deadline fired while pondering")
	}
	tm.PonderHit()
	if !tm.HardExceeded() {
		t.Fatal("deadline did not fire after ponderhit on an expired clock")
	}
}

func TestStabilityScalesSoftBudget(t *testing.T) {
	var tm TimeManager
	tm.Start(Limits{WhiteTime: 24 * time.Second}, movegen.White)
	base := tm.soft

	m1 := movegen.NewMove(12, 28, movegen.WhitePawn, movegen.NoPiece, movegen.NoPiece, 0)
	m2 := movegen.NewMove(11, 27, movegen.WhitePawn, movegen.NoPiece, movegen.NoPiece, 0)

	// A changing best move resets stability to the generous multiplier.
	tm.Update(m1)
	tm.Update(m2)
	if tm.stability != 0 {
		t.Fatalf("stability after a move flip = %d", tm.stability)
	}

	// Seven stable iterations walk the multiplier down to its floor.
	for i := 0; i < 8; i++ {
		tm.Update(m2)
	}
	if tm.stability < 7 {
		t.Fatalf("stability = %d after repeated best move", tm.stability)
	}

	// The scaled budget at max stability must be below the base budget.
	scaled := base * time.Duration(stabilityScale[7]) / 100
	if scaled >= base {
		t.Fatalf("stability floor does not shorten the budget: %v >= %v", scaled, base)
	}
}
