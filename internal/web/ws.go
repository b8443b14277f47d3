package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeWait = 5 * time.Second

// wsMessage is a client frame, e.g. {"type":"play","contents":{"cell":4}}.
type wsMessage struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents"`
}

type wsPlayRequest struct {
	Cell int `mapstructure:"cell"`
}

// ws streams board fragments like events and accepts play and reset frames.
// Replies to a frame go to the sender only; other viewers see the broadcast.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	pid := ensurePlayerCookie(w, r)
	conn, err := upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "game", id, "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	updates, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		return
	}
	defer unsub()

	replies := make(chan []byte, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readFrames(conn, id, pid, replies)
	}()

	ping := time.NewTicker(h.heartbeat)
	defer ping.Stop()
	for {
		var payload []byte
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case b, ok := <-updates:
			if !ok {
				return
			}
			payload = b
		case b := <-replies:
			payload = b
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.Debugw("websocket write failed", "game", id, "error", err)
			return
		}
	}
}

func (h *handlers) readFrames(conn *websocket.Conn, id, pid string, replies chan<- []byte) {
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		var errMsg string
		switch msg.Type {
		case "join":
			if _, _, err := h.svc.Join(id, pid); err != nil {
				errMsg = "Game not found"
			}
		case "play":
			var req wsPlayRequest
			if err := mapstructure.Decode(msg.Contents, &req); err != nil {
				errMsg = "Invalid move"
				break
			}
			if _, err := h.svc.PlayIndex(id, pid, req.Cell); err != nil {
				errMsg = errorMessage(err)
			}
		case "reset":
			if _, err := h.svc.Reset(id, pid); err != nil {
				errMsg = errorMessage(err)
			}
		default:
			errMsg = "Unknown message"
		}
		if errMsg == "" {
			continue
		}
		gs, ok := h.svc.Get(id)
		if !ok {
			return
		}
		select {
		case replies <- h.renderBoard(*gs, errMsg):
		default:
		}
	}
}
