package engine

import (
	"errors"
	"testing"

	"github.com/jaminalder/tictactoe-cpu/internal/domain"
)

func TestNewPlayerRejectsEmpty(t *testing.T) {
	if _, err := NewPlayer(domain.Empty); !errors.Is(err, ErrInvalidSide) {
		t.Fatalf("expected ErrInvalidSide, got %v", err)
	}
}

func TestPlayerMove(t *testing.T) {
	p, err := NewPlayer(domain.O)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	g := domain.New()
	if _, err := p.Move(g); !errors.Is(err, ErrNoMove) {
		t.Fatalf("expected ErrNoMove out of turn, got %v", err)
	}
	if err := g.PlayIndex(0); err != nil {
		t.Fatalf("PlayIndex: %v", err)
	}
	mv, err := p.Move(g)
	if err != nil || mv != 4 {
		t.Fatalf("expected center reply, got %d, %v", mv, err)
	}

	g.Over = true
	if _, err := p.Move(g); !errors.Is(err, ErrNoMove) {
		t.Fatalf("expected ErrNoMove on finished game, got %v", err)
	}
}
