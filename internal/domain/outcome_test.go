package domain

import (
	"errors"
	"testing"
)

func mustBoard(t *testing.T, s string) Board {
	t.Helper()
	b, err := ParseBoard(s)
	if err != nil {
		t.Fatalf("ParseBoard(%q): %v", s, err)
	}
	return b
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  Outcome
	}{
		{"empty", "_________", Outcome{Status: InProgress}},
		{"row 0 X", "XXX_O__O_", Outcome{Status: Win, Winner: X}},
		{"row 2 O", "XX_X__OOO", Outcome{Status: Win, Winner: O}},
		{"col 1 O", "XO__OX_O_", Outcome{Status: Win, Winner: O}},
		{"diag X", "XO__XO__X", Outcome{Status: Win, Winner: X}},
		{"anti diag O", "XXO_O_O_X", Outcome{Status: Win, Winner: O}},
		{"full board win", "XXXOOXOXO", Outcome{Status: Win, Winner: X}},
		{"draw", "XOXOXOOXO", Outcome{Status: Draw}},
		{"draw 2", "XOXXOOOXX", Outcome{Status: Draw}},
		{"in progress", "XOX_O_OX_", Outcome{Status: InProgress}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.board)
			if got := Evaluate(b); got != tt.want {
				t.Fatalf("Evaluate(%s) = %v, want %v", tt.board, got, tt.want)
			}
		})
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	b := mustBoard(t, "XO__X_O__")
	before := b
	first := Evaluate(b)
	second := Evaluate(b)
	if b != before {
		t.Fatalf("board mutated: %s -> %s", before, b)
	}
	if first != second {
		t.Fatalf("evaluation not stable: %v vs %v", first, second)
	}
}

func TestEvaluateFirstLineWins(t *testing.T) {
	// X completes row 0 and column 0 at once; both report X.
	b := mustBoard(t, "XXXXOOXOO")
	if got := Evaluate(b); got.Status != Win || got.Winner != X {
		t.Fatalf("expected X win, got %v", got)
	}

	// Two players holding parallel lines: the earlier line decides.
	cases := []struct {
		board  string
		winner Cell
	}{
		{"XXXOOO___", X}, // row 0 before row 1
		{"OOOXXX___", O},
		{"___XXXOOO", X}, // row 1 before row 2
		{"OOO___XXX", O}, // row 0 before row 2
		{"XO_XO_XO_", X}, // column 0 before column 1
		{"OX_OX_OX_", O},
		{"_OX_OX_OX", O}, // column 1 before column 2
	}
	for _, tc := range cases {
		t.Run(tc.board, func(t *testing.T) {
			got := Evaluate(mustBoard(t, tc.board))
			if got.Status != Win || got.Winner != tc.winner {
				t.Fatalf("expected %v win, got %v", tc.winner, got)
			}
		})
	}
}

func TestLinesOrderAndCopy(t *testing.T) {
	ls := Lines()
	if ls[0] != [3]int{0, 1, 2} || ls[3] != [3]int{0, 3, 6} || ls[7] != [3]int{2, 4, 6} {
		t.Fatalf("unexpected line order: %v", ls)
	}
	ls[0] = [3]int{6, 7, 8}
	if Lines()[0] != [3]int{0, 1, 2} {
		t.Fatalf("Lines must return a copy")
	}
}

func TestParseBoardAndValidate(t *testing.T) {
	b := mustBoard(t, "xx.oo----")
	if b.String() != "XX_OO____" {
		t.Fatalf("unexpected board %s", b)
	}
	if got := b.Empties(); len(got) != 5 || got[0] != 2 || got[4] != 8 {
		t.Fatalf("unexpected empties %v", got)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected valid board, got %v", err)
	}

	for _, s := range []string{"XX", "XX_OO_____", "XX_OZ____"} {
		if _, err := ParseBoard(s); !errors.Is(err, ErrMalformedBoard) {
			t.Fatalf("ParseBoard(%q): expected ErrMalformedBoard, got %v", s, err)
		}
	}

	if err := mustBoard(t, "XXX______").Validate(); !errors.Is(err, ErrMalformedBoard) {
		t.Fatalf("expected count imbalance to be rejected, got %v", err)
	}
	bad := Board{X, 7}
	if err := bad.Validate(); !errors.Is(err, ErrMalformedBoard) {
		t.Fatalf("expected invalid cell value to be rejected, got %v", err)
	}
}

func TestCellHelpers(t *testing.T) {
	if X.Opponent() != O || O.Opponent() != X || Empty.Opponent() != Empty {
		t.Fatalf("unexpected opponents")
	}
	if _, err := ParseCell("Z"); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if c, err := ParseCell("o"); err != nil || c != O {
		t.Fatalf("ParseCell(o) = %v, %v", c, err)
	}
}
