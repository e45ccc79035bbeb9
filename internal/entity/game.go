package entity

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
)

type Status string

// GameStatus is InProgress or Won(Winner).
type GameStatus struct {
	Status Status `json:"status"`
	Winner Player `json:"winner,omitempty"`
}

func InProgress() GameStatus {
	return GameStatus{Status: StatusInProgress}
}

func Won(player Player) GameStatus {
	return GameStatus{Status: StatusWon, Winner: player}
}

func (that GameStatus) IsWon() bool {
	return that.Status == StatusWon
}

func (that GameStatus) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// Point is a board coordinate.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move is a single stone placement.
type Move struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player Player `json:"player"`
}

func (that Move) Point() Point {
	return Point{Row: that.Row, Col: that.Col}
}

// Game is a read-only snapshot of an engine, shaped for renderers.
type Game struct {
	Size          int        `json:"size"`
	Board         [][]Player `json:"board"`
	CurrentPlayer Player     `json:"current_player"`
	Status        Status     `json:"status"`
	Winner        Player     `json:"winner,omitempty"`
	WinningLine   []Move     `json:"winning_line,omitempty"`
	History       []Move     `json:"history"`
	LastMove      *Move      `json:"last_move,omitempty"`
	MoveCount     int        `json:"move_count"`
	CanUndo       bool       `json:"can_undo"`
	CanRedo       bool       `json:"can_redo"`
}

func (that *Game) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// GameStatus returns the status pair of the snapshot.
func (that *Game) GameStatus() GameStatus {
	return GameStatus{Status: that.Status, Winner: that.Winner}
}

// IsWinningStone reports whether (row, col) is part of the recorded winning run.
func (that *Game) IsWinningStone(row, col int) bool {
	for _, move := range that.WinningLine {
		if move.Row == row && move.Col == col {
			return true
		}
	}
	return false
}
