package domain

import (
	"errors"
	"fmt"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// ErrMalformedBoard is returned by Validate.
var ErrMalformedBoard = errors.New("malformed board")

// ErrInvalidCell is returned by ParseCell for anything but X, O or empty.
var ErrInvalidCell = errors.New("invalid cell")

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	case Empty:
		return ""
	default:
		return fmt.Sprintf("Cell(%d)", uint8(c))
	}
}

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseCell accepts "X", "O" (either case) and "", "_", "." or "-" for empty.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "X", "x":
		return X, nil
	case "O", "o":
		return O, nil
	case "", "_", ".", "-":
		return Empty, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidCell, s)
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// ParseBoard reads nine cells, one character each, e.g. "XX_OO____".
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != len(b) {
		return b, fmt.Errorf("%w: want %d cells, got %d", ErrMalformedBoard, len(b), len(s))
	}
	for i := range b {
		c, err := ParseCell(s[i : i+1])
		if err != nil {
			return b, fmt.Errorf("%w: cell %d: %v", ErrMalformedBoard, i, err)
		}
		b[i] = c
	}
	return b, nil
}

func (b Board) String() string {
	out := make([]byte, len(b))
	for i, c := range b {
		switch c {
		case X:
			out[i] = 'X'
		case O:
			out[i] = 'O'
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
	n := 0
	for _, v := range b {
		if v == c {
			n++
		}
	}
	return n
}

// Empties returns the indices of empty cells in ascending order.
func (b Board) Empties() []int {
	out := make([]int, 0, len(b))
	for i, v := range b {
		if v == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, v := range b {
		if v == Empty {
			return false
		}
	}
	return true
}

// Validate checks cell values and that turns alternated.
func (b Board) Validate() error {
	for i, v := range b {
		if v > O {
			return fmt.Errorf("%w: cell %d holds %d", ErrMalformedBoard, i, uint8(v))
		}
	}
	xs, os := b.Count(X), b.Count(O)
	if xs-os > 1 || os-xs > 1 {
		return fmt.Errorf("%w: %d X marks against %d O marks", ErrMalformedBoard, xs, os)
	}
	return nil
}
