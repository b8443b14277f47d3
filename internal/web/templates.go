package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/jaminalder/tictactoe-cpu/internal/app"
	"github.com/jaminalder/tictactoe-cpu/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string { return c.String() },
		"add":        func(a, b int) int { return a + b },
		"mul":        func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	template.Must(base.New("tally").Parse(tallyTemplate))
	index := template.Must(base.Clone())
	template.Must(index.New("content").Parse(`<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post">
  <label><input type="radio" name="mode" value="cpu" checked> vs CPU</label>
  <label><input type="radio" name="mode" value="human"> vs Player</label>
  <select name="cpu"><option value="O" selected>CPU plays O</option><option value="X">CPU plays X</option></select>
  <button>Create</button>
</form>
{{template "tally" .Tally}}`))
	game := template.Must(base.Clone())
	template.Must(game.New("content").Parse(`
<a href="/">Back</a>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board-container" sse-swap="board">{{.BoardHTML}}</div>
</div>
{{template "tally" .Tally}}`))
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const tallyTemplate = `
<div id="tally">
  <p>Player 1 (X) Wins: {{.XWins}}</p>
  <p>Player 2 (O) Wins: {{.OWins}}</p>
  <p>Draws: {{.Draws}}</p>
</div>`

const boardTemplate = `
<div id="board">
  <p class="status">{{.Status}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit">{{cellSymbol (index $.Board (add (mul $r 3) $c))}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if .Over}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Reset Game</button>
  </form>
  {{end}}
</div>
`

// boardView is the data behind the board fragment.
type boardView struct {
	ID     string
	Board  domain.Board
	Status string
	Over   bool
	Error  string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	return boardView{
		ID:     gs.ID,
		Board:  gs.Game.Board,
		Status: statusLine(gs.Game),
		Over:   gs.Game.Over,
		Error:  errMsg,
	}
}

func statusLine(g domain.Game) string {
	out := g.Outcome()
	switch out.Status {
	case domain.Win:
		return "Winner: " + out.Winner.String()
	case domain.Draw:
		return "It's a Draw!"
	}
	return "Next player: " + g.Turn.String()
}

const playerCookie = "player_id"

// ensurePlayerCookie returns the caller's player id, issuing one if missing.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
		return c.Value
	}
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
