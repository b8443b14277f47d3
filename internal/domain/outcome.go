package domain

// Status classifies a board.
type Status uint8

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}

// Outcome is the result of Evaluate. Winner is set only when Status is Win.
type Outcome struct {
	Status Status
	Winner Cell
}

// Terminal reports whether the game has concluded.
func (o Outcome) Terminal() bool { return o.Status != InProgress }

func (o Outcome) String() string {
	if o.Status == Win {
		return o.Winner.String() + " wins"
	}
	return o.Status.String()
}

var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Lines returns the eight winning lines: rows, then columns, then diagonals.
func Lines() [8][3]int { return lines }

// Evaluate reports whether b is won, drawn or still in progress. The first
// completed line in Lines order names the winner.
func Evaluate(b Board) Outcome {
	for _, ln := range lines {
		c := b[ln[0]]
		if c != Empty && c == b[ln[1]] && c == b[ln[2]] {
			return Outcome{Status: Win, Winner: c}
		}
	}
	if b.Full() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}
