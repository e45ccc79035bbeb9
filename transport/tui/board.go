package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/gomoku/internal/entity"
	"github.com/rocketscienceinc/gomoku/internal/inputmap"
	"github.com/rocketscienceinc/gomoku/internal/render"
)

var (
	styleBoard   = tcell.StyleDefault.Background(tcell.ColorBurlyWood).Foreground(tcell.ColorSaddleBrown)
	styleBlack   = styleBoard.Foreground(tcell.ColorBlack).Bold(true)
	styleWhite   = styleBoard.Foreground(tcell.ColorWhite).Bold(true)
	styleWinning = styleBoard.Foreground(tcell.ColorRed).Bold(true)
)

// boardView draws the game grid and turns clicks and keys into placements.
type boardView struct {
	*tview.Box

	game    *entity.Game
	cursor  entity.Point
	onPlace func(row, col int)
}

func newBoardView(game *entity.Game, onPlace func(row, col int)) *boardView {
	center := game.Size / 2

	return &boardView{
		Box:     tview.NewBox().SetBorder(true),
		game:    game,
		cursor:  entity.Point{Row: center, Col: center},
		onPlace: onPlace,
	}
}

func (that *boardView) SetGame(game *entity.Game) {
	that.game = game
}

// Width and Height are the outer dimensions needed to show the whole board.
func (that *boardView) Width() int {
	return that.game.Size*render.CellWidth + 1 + 2
}

func (that *boardView) Height() int {
	return that.game.Size + 2
}

// mapper locates the intersections in screen coordinates.
func (that *boardView) mapper() inputmap.Mapper {
	x, y, _, _ := that.GetInnerRect()
	return inputmap.NewGridMapper(that.game.Size, x+render.GridOriginX, y, render.CellWidth, 1)
}

func (that *boardView) Draw(screen tcell.Screen) {
	that.DrawForSubclass(screen, that)

	x, y, width, height := that.GetInnerRect()
	cells := render.Cells(that.game)

	for row, line := range render.Lines(that.game) {
		if row >= height {
			break
		}

		for i, ch := range []rune(line) {
			if i >= width {
				break
			}

			style := styleBoard
			if (i-render.GridOriginX)%render.CellWidth == 0 {
				col := (i - render.GridOriginX) / render.CellWidth
				style = cellStyle(cells[row][col])

				if that.HasFocus() && that.cursor == (entity.Point{Row: row, Col: col}) {
					style = style.Reverse(true)
				}
			}

			screen.SetContent(x+i, y+row, ch, nil, style)
		}
	}
}

func (that *boardView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return that.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		x, y := event.Position()
		if !that.InRect(x, y) {
			return false, nil
		}

		setFocus(that)

		if action != tview.MouseLeftClick {
			return true, nil
		}

		point, ok := that.mapper().Cell(float64(x), float64(y))
		if !ok {
			return true, nil
		}

		that.cursor = point
		that.onPlace(point.Row, point.Col)

		return true, nil
	})
}

func (that *boardView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return that.WrapInputHandler(func(event *tcell.EventKey, _ func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyUp:
			that.moveCursor(-1, 0)
		case tcell.KeyDown:
			that.moveCursor(1, 0)
		case tcell.KeyLeft:
			that.moveCursor(0, -1)
		case tcell.KeyRight:
			that.moveCursor(0, 1)
		case tcell.KeyEnter:
			that.onPlace(that.cursor.Row, that.cursor.Col)
		case tcell.KeyRune:
			if event.Rune() == ' ' {
				that.onPlace(that.cursor.Row, that.cursor.Col)
			}
		}
	})
}

// moveCursor moves the cursor and stops at the edges.
func (that *boardView) moveCursor(dRow, dCol int) {
	that.cursor.Row = clamp(that.cursor.Row+dRow, that.game.Size)
	that.cursor.Col = clamp(that.cursor.Col+dCol, that.game.Size)
}

func clamp(value, size int) int {
	if value < 0 {
		return 0
	}
	if value >= size {
		return size - 1
	}
	return value
}

func cellStyle(cell render.Cell) tcell.Style {
	switch {
	case cell.Winning:
		return styleWinning
	case cell.Player == entity.PlayerBlack:
		return styleBlack
	case cell.Player == entity.PlayerWhite:
		return styleWhite
	default:
		return styleBoard
	}
}
