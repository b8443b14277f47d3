package domain

import (
	"errors"
	"testing"
)

// helper to apply a sequence of board indices
func playIndices(t *testing.T, g *Game, moves []int) {
	t.Helper()
	for i, m := range moves {
		if err := g.PlayIndex(m); err != nil {
			t.Fatalf("move %d (%d) failed: %v", i, m, err)
		}
	}
}

func isLine(a, b, c int) bool {
	for _, ln := range Lines() {
		if ln == [3]int{a, b, c} {
			return true
		}
	}
	return false
}

func TestNewGameInitialState(t *testing.T) {
	g := New()
	if g.Turn != X {
		t.Fatalf("expected initial turn X, got %v", g.Turn)
	}
	if g.Moves != 0 || g.Over || g.Winner != Empty {
		t.Fatalf("unexpected initial state: %+v", g)
	}
	if g.Board != (Board{}) {
		t.Fatalf("expected empty board, got %s", g.Board)
	}
	if g.Outcome().Status != InProgress {
		t.Fatalf("expected new game in progress")
	}
}

func TestPlayOutOfBounds(t *testing.T) {
	g := New()
	cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}
	for _, m := range cases {
		if err := g.Play(m[0], m[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
		}
	}
	for _, i := range []int{-1, 9, 42} {
		if err := g.PlayIndex(i); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds for index %d, got %v", i, err)
		}
	}
}

func TestPlayOccupied(t *testing.T) {
	g := New()
	if err := g.Play(0, 0); err != nil {
		t.Fatalf("first move failed: %v", err)
	}
	if err := g.PlayIndex(0); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied on same cell, got %v", err)
	}
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
	g := New()
	if err := g.Play(1, 1); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if g.Turn != O || g.Board[4] != X {
		t.Fatalf("expected X at 4 and O to move, got board=%s turn=%v", g.Board, g.Turn)
	}
}

func TestWinOnEveryLine(t *testing.T) {
	for _, ln := range Lines() {
		for _, side := range []Cell{X, O} {
			var fillers []int
			for i := 0; i < 9 && len(fillers) < 3; i++ {
				if i == ln[0] || i == ln[1] || i == ln[2] {
					continue
				}
				// the third filler must not hand X a line of its own
				if len(fillers) == 2 && isLine(fillers[0], fillers[1], i) {
					continue
				}
				fillers = append(fillers, i)
			}
			var seq []int
			if side == X {
				// X on the line, O on fillers
				seq = []int{ln[0], fillers[0], ln[1], fillers[1], ln[2]}
			} else {
				seq = []int{fillers[0], ln[0], fillers[1], ln[1], fillers[2], ln[2]}
			}
			g := New()
			playIndices(t, &g, seq)
			if !g.Over || g.Winner != side {
				t.Fatalf("expected %v to win on line %v; board=%s over=%v winner=%v", side, ln, g.Board, g.Over, g.Winner)
			}
			if g.Moves != len(seq) {
				t.Fatalf("expected %d moves, got %d", len(seq), g.Moves)
			}
		}
	}
}

func TestDrawNoWinner(t *testing.T) {
	g := New()
	seq := [][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 1}, {1, 0}, {1, 2},
		{2, 1}, {2, 0}, {2, 2},
	}
	for i, m := range seq {
		if err := g.Play(m[0], m[1]); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
	if !g.Over || g.Winner != Empty || g.Moves != 9 {
		t.Fatalf("expected draw after 9 moves, got over=%v winner=%v moves=%d", g.Over, g.Winner, g.Moves)
	}
	if g.Outcome().Status != Draw {
		t.Fatalf("expected Draw outcome, got %v", g.Outcome())
	}
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
	g := New()
	playIndices(t, &g, []int{0, 3, 1, 4, 2})
	if !g.Over || g.Winner != X {
		t.Fatalf("expected X win before extra move")
	}
	if err := g.Play(2, 2); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if err := g.Play(7, 7); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver for out of range move on finished game, got %v", err)
	}
}
