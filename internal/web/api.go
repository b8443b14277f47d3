package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/tictactoe-cpu/internal/app"
	"github.com/jaminalder/tictactoe-cpu/internal/domain"
	"github.com/jaminalder/tictactoe-cpu/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		h.log.Errorw("encode response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

type bestMoveRequest struct {
	Board string `json:"board"`
	Side  string `json:"side"`
}

type bestMoveResponse struct {
	Board   string `json:"board"`
	Side    string `json:"side"`
	Move    int    `json:"move"`
	Score   int    `json:"score"`
	Outcome string `json:"outcome"`
}

// bestMove exposes the engine: the board goes in as nine cells ("XX_OO____"),
// the chosen index comes back, or -1 when the board is finished.
func (h *handlers) bestMove(w http.ResponseWriter, r *http.Request) {
	var req bestMoveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}
	b, err := domain.ParseBoard(req.Board)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	side, err := domain.ParseCell(req.Side)
	if err != nil || side == domain.Empty {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: engine.ErrInvalidSide.Error()})
		return
	}

	mv, score, err := engine.Analyze(b, side)
	switch {
	case errors.Is(err, engine.ErrNoMove):
	case err != nil:
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	after := b
	if mv != engine.NoMove {
		after[mv] = side
	}
	h.writeJSON(w, http.StatusOK, bestMoveResponse{
		Board:   b.String(),
		Side:    side.String(),
		Move:    mv,
		Score:   score,
		Outcome: domain.Evaluate(after).String(),
	})
}

type gameResponse struct {
	ID     string `json:"id"`
	Mode   string `json:"mode"`
	Round  int    `json:"round"`
	Board  string `json:"board"`
	Turn   string `json:"turn"`
	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`
	Moves  int    `json:"moves"`
	CPU    string `json:"cpu,omitempty"`
}

func newGameResponse(gs app.GameState) gameResponse {
	out := gs.Game.Outcome()
	return gameResponse{
		ID:     gs.ID,
		Mode:   string(gs.Mode),
		Round:  gs.Round,
		Board:  gs.Game.Board.String(),
		Turn:   gs.Game.Turn.String(),
		Status: out.Status.String(),
		Winner: out.Winner.String(),
		Moves:  gs.Game.Moves,
		CPU:    gs.CPUSide().String(),
	}
}

func (h *handlers) gameJSON(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: app.ErrNotFound.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, newGameResponse(*gs))
}

func (h *handlers) tally(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Tally())
}
