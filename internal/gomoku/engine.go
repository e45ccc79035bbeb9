package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku/internal/apperror"
	"github.com/rocketscienceinc/gomoku/internal/entity"
)

const (
	DefaultBoardSize = 15
	MinBoardSize     = 5
	MaxBoardSize     = 25

	// WinLength is the run length that ends the game.
	WinLength = 5
)

// axes are horizontal, vertical, diagonal and anti-diagonal, in evaluation order.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

type Option func(*Engine)

// WithUndoAfterWin lets Undo take back the winning move and reopen the game.
func WithUndoAfterWin(allow bool) Option {
	return func(engine *Engine) {
		engine.undoAfterWin = allow
	}
}

// Engine owns one game: board, history, turn and status.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	size         int
	undoAfterWin bool

	board       []entity.Player
	history     []entity.Move
	redo        []entity.Move
	current     entity.Player
	status      entity.GameStatus
	winningLine []entity.Move
}

func New(size int, opts ...Option) (*Engine, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (allowed %d..%d)", apperror.ErrInvalidBoardSize, size, MinBoardSize, MaxBoardSize)
	}

	engine := &Engine{size: size}
	for _, opt := range opts {
		opt(engine)
	}

	engine.Reset()

	return engine, nil
}

// Reset starts a new game on an empty board with Black to move.
func (that *Engine) Reset() {
	that.board = make([]entity.Player, that.size*that.size)
	that.history = nil
	that.redo = nil
	that.current = entity.PlayerBlack
	that.status = entity.InProgress()
	that.winningLine = nil
}

// PlaceStone puts the current player's stone on (row, col).
// A rejected placement returns an error and leaves the game untouched.
func (that *Engine) PlaceStone(row, col int) error {
	if err := that.validateMove(row, col); err != nil {
		return err
	}

	that.redo = nil
	that.apply(row, col)

	return nil
}

// Undo takes back the most recent move and gives the turn back to its player.
func (that *Engine) Undo() error {
	if len(that.history) == 0 {
		return apperror.ErrNothingToUndo
	}

	if that.status.IsWon() && !that.undoAfterWin {
		return fmt.Errorf("%w: undo is disabled after a win", apperror.ErrGameFinished)
	}

	last := that.history[len(that.history)-1]
	that.history = that.history[:len(that.history)-1]
	that.board[that.index(last.Row, last.Col)] = entity.NoPlayer
	that.redo = append(that.redo, last)

	that.current = last.Player
	that.status = entity.InProgress()
	that.winningLine = nil

	return nil
}

// Redo replays the most recently undone move.
func (that *Engine) Redo() error {
	if len(that.redo) == 0 {
		return apperror.ErrNothingToRedo
	}

	if that.status.IsWon() {
		return apperror.ErrGameFinished
	}

	next := that.redo[len(that.redo)-1]
	that.redo = that.redo[:len(that.redo)-1]
	that.apply(next.Row, next.Col)

	return nil
}

// validateMove - checks if the move is legal in the current state.
func (that *Engine) validateMove(row, col int) error {
	if that.status.IsWon() {
		return apperror.ErrGameFinished
	}

	if !that.inBounds(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.board[that.index(row, col)] != entity.NoPlayer {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellOccupied, row, col)
	}

	return nil
}

func (that *Engine) apply(row, col int) {
	player := that.current

	that.board[that.index(row, col)] = player
	that.history = append(that.history, entity.Move{Row: row, Col: col, Player: player})

	that.updateGameStatus(row, col, player)
}

// updateGameStatus - evaluates the win condition from the last placement only.
func (that *Engine) updateGameStatus(row, col int, player entity.Player) {
	if line := that.winningRun(row, col, player); line != nil {
		that.status = entity.Won(player)
		that.winningLine = line
		return
	}

	that.current = player.Opponent()
}

// winningRun returns the run through (row, col) on the first axis that reaches
// WinLength, ordered from one end to the other, or nil.
func (that *Engine) winningRun(row, col int, player entity.Player) []entity.Move {
	for _, axis := range axes {
		dr, dc := axis[0], axis[1]

		back := that.countRun(row, col, -dr, -dc, player)
		forward := that.countRun(row, col, dr, dc, player)

		if back+forward+1 < WinLength {
			continue
		}

		line := make([]entity.Move, 0, back+forward+1)
		for step := -back; step <= forward; step++ {
			line = append(line, entity.Move{Row: row + step*dr, Col: col + step*dc, Player: player})
		}

		return line
	}

	return nil
}

// countRun counts same-player stones from (row, col) exclusive along (dr, dc).
func (that *Engine) countRun(row, col, dr, dc int, player entity.Player) int {
	count := 0
	for r, c := row+dr, col+dc; that.inBounds(r, c) && that.board[that.index(r, c)] == player; r, c = r+dr, c+dc {
		count++
	}
	return count
}

func (that *Engine) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < that.size && col < that.size
}

func (that *Engine) index(row, col int) int {
	return row*that.size + col
}
