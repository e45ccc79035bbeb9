package render

import (
	"strings"

	"github.com/rocketscienceinc/gomoku/internal/entity"
)

const (
	GlyphEmpty = '·'
	GlyphStar  = '+'
	GlyphBlack = '●'
	GlyphWhite = '○'

	// CellWidth is the number of text columns one intersection takes in Lines.
	CellWidth = 2
	// GridOriginX is the text column of intersection 0 in every line.
	GridOriginX = 1
)

// Cell is one intersection prepared for drawing.
type Cell struct {
	Glyph   rune
	Player  entity.Player
	Star    bool
	Last    bool
	Winning bool
}

// StarPoints returns the row/column indexes of the marked points.
func StarPoints(size int) []int {
	switch {
	case size >= 13:
		return []int{3, size / 2, size - 4}
	case size >= 9:
		return []int{2, size / 2, size - 3}
	default:
		return []int{size / 2}
	}
}

// Cells lays the snapshot out as a [row][col] grid of drawable cells.
func Cells(game *entity.Game) [][]Cell {
	stars := make(map[int]bool)
	for _, index := range StarPoints(game.Size) {
		stars[index] = true
	}

	cells := make([][]Cell, game.Size)
	for row := range cells {
		cells[row] = make([]Cell, game.Size)

		for col := range cells[row] {
			player := game.Board[row][col]
			cell := Cell{
				Player:  player,
				Star:    stars[row] && stars[col],
				Last:    game.LastMove != nil && game.LastMove.Row == row && game.LastMove.Col == col,
				Winning: game.IsWinningStone(row, col),
			}
			cell.Glyph = glyph(cell)
			cells[row][col] = cell
		}
	}

	return cells
}

// Lines renders the board as text, one line per row. Intersection col is at
// text column GridOriginX + col*CellWidth; the last move is bracketed.
func Lines(game *entity.Game) []string {
	cells := Cells(game)
	lines := make([]string, 0, len(cells))

	for _, row := range cells {
		var sb strings.Builder

		for col, cell := range row {
			switch {
			case cell.Last:
				sb.WriteRune('[')
			case col > 0 && row[col-1].Last:
				sb.WriteRune(']')
			default:
				sb.WriteRune(' ')
			}
			sb.WriteRune(cell.Glyph)
		}

		if len(row) > 0 && row[len(row)-1].Last {
			sb.WriteRune(']')
		} else {
			sb.WriteRune(' ')
		}

		lines = append(lines, sb.String())
	}

	return lines
}

// Text is Lines joined with newlines.
func Text(game *entity.Game) string {
	return strings.Join(Lines(game), "\n")
}

func glyph(cell Cell) rune {
	switch cell.Player {
	case entity.PlayerBlack:
		return GlyphBlack
	case entity.PlayerWhite:
		return GlyphWhite
	}

	if cell.Star {
		return GlyphStar
	}

	return GlyphEmpty
}
