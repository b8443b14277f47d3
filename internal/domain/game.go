package domain

import "errors"

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
	Board  Board
	Turn   Cell
	Winner Cell
	Over   bool
	Moves  int
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
)

// New returns a new game with X to move.
func New() Game {
	return Game{Turn: X}
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
	if r < 0 || r > 2 || c < 0 || c > 2 {
		if g.Over {
			return ErrGameOver
		}
		return ErrOutOfBounds
	}
	return g.PlayIndex(r*3 + c)
}

// PlayIndex plays the current turn at board index i (0..8).
func (g *Game) PlayIndex(i int) error {
	if g.Over {
		return ErrGameOver
	}
	if i < 0 || i >= len(g.Board) {
		return ErrOutOfBounds
	}
	if g.Board[i] != Empty {
		return ErrOccupied
	}

	g.Board[i] = g.Turn
	g.Moves++

	switch out := Evaluate(g.Board); out.Status {
	case Win:
		g.Winner = out.Winner
		g.Over = true
	case Draw:
		g.Winner = Empty
		g.Over = true
	default:
		g.Turn = g.Turn.Opponent()
	}
	return nil
}

// Outcome evaluates the current board.
func (g Game) Outcome() Outcome {
	return Evaluate(g.Board)
}
