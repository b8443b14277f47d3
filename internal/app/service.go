package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-cpu/internal/domain"
	"github.com/jaminalder/tictactoe-cpu/internal/engine"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
	ErrInvalidMode = errors.New("invalid game mode")
)

// Mode selects the opponent of the first player.
type Mode string

const (
	ModeHuman Mode = "human"
	ModeCPU   Mode = "cpu"
)

// ParseMode accepts "human", "cpu" and "" (human).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeHuman:
		return ModeHuman, nil
	case ModeCPU:
		return ModeCPU, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// CPUPlayerID is the seat holder recorded for the computer opponent.
const CPUPlayerID = "cpu"

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Mode    Mode
	Game    domain.Game
	X       string
	O       string
	Round   int
	Created time.Time
	Updated time.Time

	tallied bool
}

// CPUSide returns the computer's mark, or Empty when both seats are human.
func (gs GameState) CPUSide() domain.Cell {
	switch CPUPlayerID {
	case gs.X:
		return domain.X
	case gs.O:
		return domain.O
	}
	return domain.Empty
}

// Tally counts finished games since the service started.
type Tally struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// gameEntry pairs a game with the lock serializing its moves, so a search on
// one game does not stall the others.
type gameEntry struct {
	mu sync.Mutex
	gs GameState
}

// Options configure a Service. Zero values are usable.
type Options struct {
	Logger           *zap.SugaredLogger
	Renderer         func(GameState) []byte
	ResetDelay       time.Duration
	SubscriberBuffer int
}

// Service manages games, subscribers and the win tally.
//
// Lock order is gameEntry.mu before Service.mu. Service.mu guards the maps,
// the tally and the renderer, and every send on or close of a subscriber
// channel happens while holding it.
type Service struct {
	mu         sync.Mutex
	games      map[string]*gameEntry
	subs       map[string]map[*subscriber]struct{}
	timers     map[string]*time.Timer
	render     func(GameState) []byte
	log        *zap.SugaredLogger
	tally      Tally
	resetDelay time.Duration
	bufSize    int
}

func noRender(GameState) []byte { return nil }

// NewService creates a service with a no-op renderer and logger.
func NewService() *Service { return New(Options{}) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	return New(Options{Renderer: renderer})
}

// New creates a service from opts.
func New(opts Options) *Service {
	if opts.Renderer == nil {
		opts.Renderer = noRender
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.SubscriberBuffer < 1 {
		opts.SubscriberBuffer = 1
	}
	return &Service{
		games:      make(map[string]*gameEntry),
		subs:       make(map[string]map[*subscriber]struct{}),
		timers:     make(map[string]*time.Timer),
		render:     opts.Renderer,
		log:        opts.Logger,
		resetDelay: opts.ResetDelay,
		bufSize:    opts.SubscriberBuffer,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = noRender
		return
	}
	s.render = renderer
}

// CreateGame registers a new game. In ModeCPU the computer takes the cpu
// seat and, when that seat is X, plays the opening move at once.
func (s *Service) CreateGame(mode Mode, cpu domain.Cell) (*GameState, error) {
	if mode != ModeHuman && mode != ModeCPU {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	now := time.Now()
	e := &gameEntry{gs: GameState{ID: uuid.NewString(), Mode: mode, Game: domain.New(), Created: now, Updated: now}}
	gs := &e.gs
	if mode == ModeCPU {
		switch cpu {
		case domain.X:
			gs.X = CPUPlayerID
		case domain.O:
			gs.O = CPUPlayerID
		default:
			return nil, fmt.Errorf("%w: %v", engine.ErrInvalidSide, cpu)
		}
	}

	// not yet published, so the opening search needs no lock
	if err := s.cpuTurn(gs); err != nil {
		return nil, err
	}
	cp := *gs

	s.mu.Lock()
	s.games[gs.ID] = e
	s.mu.Unlock()
	s.log.Infow("game created", "game", cp.ID, "mode", mode, "cpu", cp.CPUSide().String())
	return &cp, nil
}

func (s *Service) entry(id string) (*gameEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[id]
	return e, ok
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	e, ok := s.entry(id)
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := e.gs
	return &cp, true
}

// Tally returns the current win counters.
func (s *Service) Tally() Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally
}

// Join assigns a seat to the player if available; returns Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	e, ok := s.entry(id)
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gs := &e.gs
	side := domain.Empty
	if playerID == "" || playerID == CPUPlayerID {
		cp := *gs
		return side, &cp, nil
	}
	if gs.X == "" || gs.X == playerID {
		gs.X = playerID
		side = domain.X
	} else if gs.O == "" || gs.O == playerID {
		gs.O = playerID
		side = domain.O
	}
	gs.Updated = time.Now()
	cp := *gs
	return side, &cp, nil
}

func seatOf(gs *GameState, playerID string) domain.Cell {
	switch {
	case playerID == "" || playerID == CPUPlayerID:
		return domain.Empty
	case gs.X == playerID:
		return domain.X
	case gs.O == playerID:
		return domain.O
	}
	return domain.Empty
}

// Play validates seat and turn, applies a move at row r, column c, lets the
// computer answer in ModeCPU, and broadcasts the result.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	if r < 0 || r > 2 || c < 0 || c > 2 {
		return s.PlayIndex(id, playerID, -1)
	}
	return s.PlayIndex(id, playerID, r*3+c)
}

// PlayIndex is Play addressed by board index.
func (s *Service) PlayIndex(id, playerID string, cell int) (*GameState, error) {
	e, ok := s.entry(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gs := &e.gs

	seat := seatOf(gs, playerID)
	if seat == domain.Empty {
		return nil, ErrNotAPlayer
	}
	if gs.Game.Over {
		return nil, domain.ErrGameOver
	}
	if seat != gs.Game.Turn {
		return nil, ErrNotYourTurn
	}
	if err := gs.Game.PlayIndex(cell); err != nil {
		return nil, err
	}
	if err := s.cpuTurn(gs); err != nil {
		// the human move stands; the game is left waiting on the computer
		s.log.Errorw("cpu move failed", "game", id, "board", gs.Game.Board.String(), "error", err)
	}
	gs.Updated = time.Now()

	cp := *gs
	s.mu.Lock()
	s.finishLocked(gs)
	s.publishLocked(id, cp)
	s.mu.Unlock()
	return &cp, nil
}

// Reset starts a new round on the same game, keeping the seats.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
	e, ok := s.entry(id)
	if !ok {
		return nil, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if seatOf(&e.gs, playerID) == domain.Empty {
		return nil, ErrNotAPlayer
	}
	cp := s.reset(&e.gs)
	return &cp, nil
}

// reset runs with the game's entry lock held.
func (s *Service) reset(gs *GameState) GameState {
	s.mu.Lock()
	if t, ok := s.timers[gs.ID]; ok {
		t.Stop()
		delete(s.timers, gs.ID)
	}
	s.mu.Unlock()

	gs.Game = domain.New()
	gs.Round++
	gs.tallied = false
	if err := s.cpuTurn(gs); err != nil {
		s.log.Errorw("cpu move failed", "game", gs.ID, "error", err)
	}
	gs.Updated = time.Now()

	cp := *gs
	s.mu.Lock()
	s.publishLocked(gs.ID, cp)
	s.mu.Unlock()
	return cp
}

// cpuTurn plays for the computer when it is its turn. Callers hold the
// game's entry lock, never s.mu, since the search is exhaustive.
func (s *Service) cpuTurn(gs *GameState) error {
	side := gs.CPUSide()
	if side == domain.Empty || gs.Game.Over || gs.Game.Turn != side {
		return nil
	}
	player, err := engine.NewPlayer(side)
	if err != nil {
		return err
	}
	start := time.Now()
	mv, err := player.Move(gs.Game)
	if err != nil {
		return err
	}
	if err := gs.Game.PlayIndex(mv); err != nil {
		return fmt.Errorf("apply cpu move %d: %w", mv, err)
	}
	s.log.Debugw("cpu moved", "game", gs.ID, "side", side.String(), "cell", mv, "took", time.Since(start))
	return nil
}

// finishLocked records a finished round once and arms the auto reset.
func (s *Service) finishLocked(gs *GameState) {
	if !gs.Game.Over || gs.tallied {
		return
	}
	gs.tallied = true
	switch gs.Game.Winner {
	case domain.X:
		s.tally.XWins++
	case domain.O:
		s.tally.OWins++
	default:
		s.tally.Draws++
	}
	s.log.Infow("game finished", "game", gs.ID, "round", gs.Round, "outcome", gs.Game.Outcome().String())

	if s.resetDelay <= 0 {
		return
	}
	id, round := gs.ID, gs.Round
	s.timers[id] = time.AfterFunc(s.resetDelay, func() { s.autoReset(id, round) })
}

func (s *Service) autoReset(id string, round int) {
	e, ok := s.entry(id)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs.Round != round || !e.gs.Game.Over {
		return
	}
	s.reset(&e.gs)
	s.log.Debugw("round reset", "game", id, "round", round+1)
}

// publishLocked fans the rendered state out to the game's subscribers.
// Slow subscribers are closed and dropped in the same critical section.
func (s *Service) publishLocked(id string, gs GameState) {
	set := s.subs[id]
	if len(set) == 0 {
		return
	}
	payload := s.render(gs)
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			delete(set, sub)
			sub.close()
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Warnw("dropped slow subscribers", "game", id, "count", dropped)
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func; both are released when ctx is done.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, s.bufSize)}
	set[sub] = struct{}{}

	unsub := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
		sub.close()
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// Close stops pending auto resets.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
