package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku/internal/gomoku"
)

func TestStarPoints(t *testing.T) {
	assert.Equal(t, []int{3, 7, 11}, StarPoints(15))
	assert.Equal(t, []int{3, 9, 15}, StarPoints(19))
	assert.Equal(t, []int{2, 4, 6}, StarPoints(9))
	assert.Equal(t, []int{3}, StarPoints(7))
}

func TestLines(t *testing.T) {
	t.Run("Empty board shows star points", func(t *testing.T) {
		// Given: an empty 15x15 board
		engine, err := gomoku.New(15)
		require.NoError(t, err)

		// When: it is rendered
		lines := Lines(engine.Snapshot())

		// Then: there is one line per row and star points sit on the intersections
		require.Len(t, lines, 15)
		row := []rune(lines[7])
		assert.Len(t, row, 15*CellWidth+1)
		assert.Equal(t, GlyphStar, row[GridOriginX+7*CellWidth])
		assert.Equal(t, GlyphEmpty, row[GridOriginX+6*CellWidth])
	})

	t.Run("Stones and last move marker", func(t *testing.T) {
		// Given: Black on (0,0) and White on (0,1), White moved last
		engine, err := gomoku.New(15)
		require.NoError(t, err)
		require.NoError(t, engine.PlaceStone(0, 0))
		require.NoError(t, engine.PlaceStone(0, 1))

		// When: it is rendered
		row := []rune(Lines(engine.Snapshot())[0])

		// Then: the glyphs match the players and the last move is bracketed
		assert.Equal(t, GlyphBlack, row[GridOriginX])
		assert.Equal(t, GlyphWhite, row[GridOriginX+CellWidth])
		assert.Equal(t, '[', row[GridOriginX+CellWidth-1])
		assert.Equal(t, ']', row[GridOriginX+CellWidth+1])
	})

	t.Run("Last move on the last column closes the bracket", func(t *testing.T) {
		engine, err := gomoku.New(15)
		require.NoError(t, err)
		require.NoError(t, engine.PlaceStone(4, 14))

		row := []rune(Lines(engine.Snapshot())[4])

		assert.Equal(t, ']', row[len(row)-1])
		assert.Equal(t, GlyphBlack, row[len(row)-2])
	})
}

func TestCells(t *testing.T) {
	// Given: a game Black won on row 7
	game := wonByBlack(t)

	// When: it is laid out
	cells := Cells(game)

	// Then: the winning run is flagged and other stones are not
	for col := 0; col < 5; col++ {
		assert.True(t, cells[7][col].Winning)
	}
	assert.False(t, cells[9][0].Winning)
	assert.True(t, cells[7][4].Last)
	assert.Equal(t, 15, strings.Count(Text(game), "\n")+1)
}
