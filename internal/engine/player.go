package engine

import (
	"fmt"

	"github.com/jaminalder/tictactoe-cpu/internal/domain"
)

// Player is a computer opponent bound to one side.
type Player struct {
	side domain.Cell
}

// NewPlayer returns a Player for side, which must be X or O.
func NewPlayer(side domain.Cell) (*Player, error) {
	if side != domain.X && side != domain.O {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSide, side)
	}
	return &Player{side: side}, nil
}

// Side returns the mark the player places.
func (p *Player) Side() domain.Cell { return p.side }

// Move picks a move for the player's side on g. It refuses to move out of
// turn or on a finished game.
func (p *Player) Move(g domain.Game) (int, error) {
	if g.Over {
		return NoMove, fmt.Errorf("%w: %v", ErrNoMove, domain.ErrGameOver)
	}
	if g.Turn != p.side {
		return NoMove, fmt.Errorf("%w: %v to move, player is %v", ErrNoMove, g.Turn, p.side)
	}
	return BestMove(g.Board, p.side)
}
