package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	g := NewGrid(10, 5)
	assert.Equal(t, Coord{X: 9, Y: 4}, g.Wrap(Coord{X: -1, Y: -1}))
	assert.Equal(t, Coord{X: 0, Y: 0}, g.Wrap(Coord{X: 10, Y: 5}))
	assert.Equal(t, Coord{X: 3, Y: 2}, g.Wrap(Coord{X: 23, Y: -13}))
}

func TestMultiOccupancy(t *testing.T) {
	g := NewGrid(4, 4)
	g.Place(1, Coord{X: 2, Y: 2})
	g.Place(2, Coord{X: 2, Y: 2})
	g.Place(3, Coord{X: 0, Y: 0})

	assert.Equal(t, []Occupant{1, 2}, g.Occupants(Coord{X: 2, Y: 2}))
	assert.Equal(t, 3, g.Count())

	got := g.Move(1, Coord{X: 4, Y: 4})
	assert.Equal(t, Coord{X: 0, Y: 0}, got)
	assert.Equal(t, []Occupant{2}, g.Occupants(Coord{X: 2, Y: 2}))
	assert.Equal(t, []Occupant{3, 1}, g.Occupants(Coord{X: 0, Y: 0}))

	pos, ok := g.PositionOf(1)
	require.True(t, ok)
	assert.Equal(t, Coord{X: 0, Y: 0}, pos)
}

func TestMoveInPlaceRequeues(t *testing.T) {
	g := NewGrid(3, 3)
	g.Place(1, Coord{X: 1, Y: 1})
	g.Place(2, Coord{X: 1, Y: 1})
	g.Move(1, Coord{X: 1, Y: 1})
	assert.Equal(t, []Occupant{2, 1}, g.Occupants(Coord{X: 1, Y: 1}))
}

func TestRemove(t *testing.T) {
	g := NewGrid(3, 3)
	g.Place(1, Coord{X: 1, Y: 1})
	g.Remove(1)
	g.Remove(42)
	_, ok := g.PositionOf(1)
	assert.False(t, ok)
	assert.Empty(t, g.Occupants(Coord{X: 1, Y: 1}))
	assert.Equal(t, 0, g.Count())
}

func TestNeighborhoodWraps(t *testing.T) {
	g := NewGrid(5, 5)
	n := g.Neighborhood(Coord{X: 0, Y: 0}, true)
	require.Len(t, n, 9)
	assert.Contains(t, n, Coord{X: 4, Y: 4})
	assert.Contains(t, n, Coord{X: 0, Y: 0})
	assert.Contains(t, n, Coord{X: 1, Y: 4})

	assert.Len(t, g.Neighborhood(Coord{X: 2, Y: 2}, false), 8)
	assert.NotContains(t, g.Neighborhood(Coord{X: 2, Y: 2}, false), Coord{X: 2, Y: 2})
}

func TestNeighborhoodSmallGridDedup(t *testing.T) {
	g := NewGrid(1, 2)
	n := g.Neighborhood(Coord{X: 0, Y: 0}, true)
	assert.ElementsMatch(t, []Coord{{X: 0, Y: 0}, {X: 0, Y: 1}}, n)
}

func TestHugeGridIsSparse(t *testing.T) {
	g := NewGrid(1<<32, 1<<32)
	c := g.Place(1, Coord{X: 1<<32 + 5, Y: -1})
	assert.Equal(t, Coord{X: 5, Y: 1<<32 - 1}, c)
	assert.Equal(t, []Occupant{1}, g.Occupants(c))
	assert.Len(t, g.Neighborhood(c, true), 9)

	g.Move(1, Coord{X: 6, Y: 0})
	assert.Empty(t, g.Occupants(c))
	assert.Len(t, g.cells, 1)
}
