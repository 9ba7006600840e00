// Package render turns the engine's column-major state into row-major
// terminal frames.
package render

import (
	"fmt"
	"strings"

	"github.com/hugomf/coderain/internal/gradient"
	"github.com/hugomf/coderain/internal/rain"
)

// Direction is the way the rain falls on screen.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Horizontal reports whether columns run across the screen.
func (d Direction) Horizontal() bool { return d == Left || d == Right }

// ParseDirection accepts up/north, down/south, left/west and right/east.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down", "south":
		return Down, nil
	case "up", "north":
		return Up, nil
	case "left", "west":
		return Left, nil
	case "right", "east":
		return Right, nil
	default:
		return Down, fmt.Errorf("'%s' is not a recognized direction", s)
	}
}

// FieldSize maps a terminal of cols x rows cells to the engine's width and
// fall length. The last terminal row is left free so the trailing CRLF of a
// frame never scrolls the screen. Rows are one cell tall regardless of glyph
// width, so horizontal fields get one column per row.
func FieldSize(d Direction, cols, rows, cellWidth int) (width, height int) {
	if cellWidth < 1 {
		cellWidth = 1
	}
	if d.Horizontal() {
		return (rows - 1) * cellWidth, cols / cellWidth
	}
	return cols, rows - 1
}

// Cell is one glyph slot of a frame. Unstyled cells use the terminal's
// default foreground.
type Cell struct {
	Glyph  rune
	Color  gradient.Color
	Styled bool
}

// Frame is a row-major grid of cells, top row first.
type Frame struct {
	Rows      [][]Cell
	CellWidth int
}

// Render builds the frame for the current engine state without modifying it.
func Render(r *rain.Rain, d Direction) *Frame {
	cols := r.Columns()
	height := r.Height()
	f := &Frame{CellWidth: r.CellWidth()}
	if len(cols) == 0 || height == 0 {
		return f
	}

	if d.Horizontal() {
		f.Rows = make([][]Cell, len(cols))
		for c := range cols {
			row := make([]Cell, height)
			for x := range row {
				i := x
				if d == Left {
					i = height - 1 - x
				}
				row[x] = cellAt(&cols[c], i)
			}
			f.Rows[c] = row
		}
		return f
	}

	f.Rows = make([][]Cell, height)
	for y := range f.Rows {
		i := y
		if d == Up {
			i = height - 1 - y
		}
		row := make([]Cell, len(cols))
		for c := range cols {
			row[c] = cellAt(&cols[c], i)
		}
		f.Rows[y] = row
	}
	return f
}

// cellAt styles glyph i of a column by its distance from the newest glyph.
func cellAt(col *rain.Column, i int) Cell {
	g := col.Glyphs[i]
	if g == rain.Blank {
		return Cell{Glyph: rain.Blank}
	}
	dist := col.Lead() - i
	if dist < 0 || dist >= len(col.Gradient) {
		return Cell{Glyph: g}
	}
	return Cell{Glyph: g, Color: col.Gradient[dist], Styled: true}
}
