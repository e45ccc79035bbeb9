package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNothingToRedo    = errors.New("nothing to redo")
	ErrInvalidBoardSize = errors.New("invalid board size")
)

// IsRejection reports whether err is a move or history rejection
// that left the game untouched.
func IsRejection(err error) bool {
	return errors.Is(err, ErrGameFinished) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrNothingToUndo) ||
		errors.Is(err, ErrNothingToRedo)
}
