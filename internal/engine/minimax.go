// Package engine picks optimal tic-tac-toe moves by exhaustive minimax.
//
// Scores are always from O's point of view: +1 when O wins, -1 when X wins
// and 0 for a draw. O maximizes and X minimizes, whichever side is asking.
package engine

import (
	"errors"
	"fmt"

	"github.com/jaminalder/tictactoe-cpu/internal/domain"
)

// NoMove is returned alongside an error when no move can be chosen.
const NoMove = -1

var (
	// ErrNoMove is returned when the board is already won or full.
	ErrNoMove = errors.New("no move available")
	// ErrInvalidSide is returned when the side to move is not X or O.
	ErrInvalidSide = errors.New("side must be X or O")
)

// terminalScore maps a finished board to its score.
func terminalScore(out domain.Outcome) int {
	if out.Status != domain.Win {
		return 0
	}
	if out.Winner == domain.O {
		return 1
	}
	return -1
}

// Score returns the minimax value of b with toMove placing the next mark.
// b is a copy; every candidate mark is cleared again before the next one.
func Score(b domain.Board, toMove domain.Cell) int {
	if out := domain.Evaluate(b); out.Terminal() {
		return terminalScore(out)
	}
	maximizing := toMove == domain.O
	best := 2
	if maximizing {
		best = -2
	}
	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = toMove
		s := Score(b, toMove.Opponent())
		b[i] = domain.Empty
		if (maximizing && s > best) || (!maximizing && s < best) {
			best = s
		}
	}
	return best
}

// BestMove returns the index of an optimal move for side. Cells are tried in
// ascending order and only a strictly better score replaces the current
// choice, so ties go to the lowest index.
//
// A finished board yields NoMove and ErrNoMove.
func BestMove(b domain.Board, side domain.Cell) (int, error) {
	mv, _, err := search(b, side)
	return mv, err
}

// Analyze is BestMove that also reports the score reached by the move.
func Analyze(b domain.Board, side domain.Cell) (move, score int, err error) {
	return search(b, side)
}

func search(b domain.Board, side domain.Cell) (int, int, error) {
	if side != domain.X && side != domain.O {
		return NoMove, 0, fmt.Errorf("%w: got %v", ErrInvalidSide, side)
	}
	if err := b.Validate(); err != nil {
		return NoMove, 0, err
	}
	if out := domain.Evaluate(b); out.Terminal() {
		return NoMove, terminalScore(out), fmt.Errorf("%w: board is %v", ErrNoMove, out)
	}

	maximizing := side == domain.O
	move, best := NoMove, 0
	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = side
		s := Score(b, side.Opponent())
		b[i] = domain.Empty
		if move == NoMove || (maximizing && s > best) || (!maximizing && s < best) {
			move, best = i, s
		}
	}
	return move, best, nil
}
