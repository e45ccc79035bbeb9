// Package inputmap converts pointer coordinates on a drawn board into board cells.
package inputmap

import (
	"math"

	"github.com/rocketscienceinc/gomoku/internal/entity"
)

const (
	DefaultCanvasWidth  = 600
	DefaultCanvasMargin = 30
)

// Mapper describes where the intersections of a drawn board are.
// Intersection (row, col) sits at (OriginX + col*SpacingX, OriginY + row*SpacingY).
type Mapper struct {
	Size     int
	OriginX  float64
	OriginY  float64
	SpacingX float64
	SpacingY float64
}

// NewCanvasMapper builds the mapper for a square canvas of the given width whose
// outer lines are drawn margin pixels from the edges.
func NewCanvasMapper(size int, width, margin float64) Mapper {
	spacing := 0.0
	if size > 1 {
		spacing = (width - margin*2) / float64(size-1)
	}

	return Mapper{
		Size:     size,
		OriginX:  margin,
		OriginY:  margin,
		SpacingX: spacing,
		SpacingY: spacing,
	}
}

// NewGridMapper builds the mapper for a character grid where each intersection
// takes cellWidth columns and cellHeight rows.
func NewGridMapper(size, originX, originY, cellWidth, cellHeight int) Mapper {
	return Mapper{
		Size:     size,
		OriginX:  float64(originX),
		OriginY:  float64(originY),
		SpacingX: float64(cellWidth),
		SpacingY: float64(cellHeight),
	}
}

// Cell returns the nearest intersection to (x, y). ok is false when the point
// rounds to a cell outside the board or the input is not a finite number.
func (that Mapper) Cell(x, y float64) (entity.Point, bool) {
	if that.Size <= 0 || that.SpacingX <= 0 || that.SpacingY <= 0 {
		return entity.Point{}, false
	}

	col, ok := that.axis(x, that.OriginX, that.SpacingX)
	if !ok {
		return entity.Point{}, false
	}

	row, ok := that.axis(y, that.OriginY, that.SpacingY)
	if !ok {
		return entity.Point{}, false
	}

	return entity.Point{Row: row, Col: col}, true
}

// Position is the inverse of Cell: the coordinates of intersection (row, col).
func (that Mapper) Position(row, col int) (float64, float64) {
	return that.OriginX + float64(col)*that.SpacingX, that.OriginY + float64(row)*that.SpacingY
}

func (that Mapper) axis(value, origin, spacing float64) (int, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	index := math.Round((value - origin) / spacing)
	if index < 0 || index >= float64(that.Size) {
		return 0, false
	}

	return int(index), true
}
