// Package site provides the toroidal multi-occupancy grid the crew moves on.
package site

import "fmt"

// Coord is a cell position on the grid.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// MooreDirections are the nine offsets of the Moore neighborhood, center included.
var MooreDirections = [9]Coord{
	{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1},
	{X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
}

// Occupant identifies whatever stands on a cell.
type Occupant = uint64

// Grid is a width×height torus. A cell holds any number of occupants in
// arrival order.
type Grid struct {
	Width  int
	Height int

	cells map[Coord][]Occupant // Sparse: only occupied cells have entries
	where map[Occupant]Coord
}

// NewGrid creates an empty grid. Dimensions must be positive.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make(map[Coord][]Occupant),
		where:  make(map[Occupant]Coord),
	}
}

// Wrap folds any coordinate onto the torus.
func (g *Grid) Wrap(c Coord) Coord {
	return Coord{X: mod(c.X, g.Width), Y: mod(c.Y, g.Height)}
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Place puts an occupant on a cell. Placing an occupant that is already on
// the grid moves it.
func (g *Grid) Place(id Occupant, c Coord) Coord {
	if _, ok := g.where[id]; ok {
		g.Remove(id)
	}
	c = g.Wrap(c)
	g.cells[c] = append(g.cells[c], id)
	g.where[id] = c
	return c
}

// Move reassigns an occupant to a new cell and returns the wrapped position.
// The occupant always re-enters at the back of the cell, even when the
// target is its current cell.
func (g *Grid) Move(id Occupant, c Coord) Coord {
	return g.Place(id, c)
}

// Remove takes an occupant off the grid. Unknown occupants are ignored.
func (g *Grid) Remove(id Occupant) {
	c, ok := g.where[id]
	if !ok {
		return
	}
	cell := g.cells[c]
	for j, o := range cell {
		if o == id {
			cell = append(cell[:j], cell[j+1:]...)
			break
		}
	}
	if len(cell) == 0 {
		delete(g.cells, c)
	} else {
		g.cells[c] = cell
	}
	delete(g.where, id)
}

// PositionOf returns where an occupant stands.
func (g *Grid) PositionOf(id Occupant) (Coord, bool) {
	c, ok := g.where[id]
	return c, ok
}

// Occupants returns a copy of the occupants of a cell, in arrival order.
func (g *Grid) Occupants(c Coord) []Occupant {
	cell := g.cells[g.Wrap(c)]
	out := make([]Occupant, len(cell))
	copy(out, cell)
	return out
}

// Neighborhood returns the wrapped Moore neighborhood of c. On grids narrower
// than three cells the wrapped offsets collide; duplicates are dropped.
func (g *Grid) Neighborhood(c Coord, includeCenter bool) []Coord {
	out := make([]Coord, 0, len(MooreDirections))
	seen := make(map[Coord]bool, len(MooreDirections))
	for _, d := range MooreDirections {
		if d == (Coord{}) && !includeCenter {
			continue
		}
		n := g.Wrap(Coord{X: c.X + d.X, Y: c.Y + d.Y})
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Count returns the number of occupants on the grid.
func (g *Grid) Count() int {
	return len(g.where)
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, occupants=%d)", g.Width, g.Height, g.Count())
}
