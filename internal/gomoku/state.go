package gomoku

import "github.com/rocketscienceinc/gomoku/internal/entity"

func (that *Engine) Size() int {
	return that.size
}

// At returns the stone on (row, col); ok is false outside the board.
func (that *Engine) At(row, col int) (entity.Player, bool) {
	if !that.inBounds(row, col) {
		return entity.NoPlayer, false
	}
	return that.board[that.index(row, col)], true
}

// Board returns a copy of the grid, indexed [row][col].
func (that *Engine) Board() [][]entity.Player {
	board := make([][]entity.Player, that.size)
	for row := range board {
		board[row] = make([]entity.Player, that.size)
		copy(board[row], that.board[row*that.size:(row+1)*that.size])
	}
	return board
}

// CurrentPlayer is the player to move, or the winner once the game is won.
func (that *Engine) CurrentPlayer() entity.Player {
	return that.current
}

func (that *Engine) Status() entity.GameStatus {
	return that.status
}

func (that *Engine) History() []entity.Move {
	return append([]entity.Move(nil), that.history...)
}

func (that *Engine) WinningLine() []entity.Move {
	return append([]entity.Move(nil), that.winningLine...)
}

func (that *Engine) CanUndo() bool {
	return len(that.history) > 0 && (!that.status.IsWon() || that.undoAfterWin)
}

func (that *Engine) CanRedo() bool {
	return len(that.redo) > 0 && !that.status.IsWon()
}

// Snapshot copies the whole state into a value safe to hand to renderers.
func (that *Engine) Snapshot() *entity.Game {
	game := &entity.Game{
		Size:          that.size,
		Board:         that.Board(),
		CurrentPlayer: that.current,
		Status:        that.status.Status,
		Winner:        that.status.Winner,
		WinningLine:   that.WinningLine(),
		History:       that.History(),
		MoveCount:     len(that.history),
		CanUndo:       that.CanUndo(),
		CanRedo:       that.CanRedo(),
	}

	if len(that.history) > 0 {
		last := that.history[len(that.history)-1]
		game.LastMove = &last
	}

	if game.History == nil {
		game.History = []entity.Move{}
	}

	return game
}
