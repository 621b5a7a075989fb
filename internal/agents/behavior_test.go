package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talgya/crewsim/internal/site"
)

var defaultWeights = TaskWeights{Work: 0.60, Cargo: 0.05, Personal: 0.35}

func TestDecideTask(t *testing.T) {
	assert.Equal(t, TaskWork, DecideTask(0.0, defaultWeights))
	assert.Equal(t, TaskWork, DecideTask(0.60, defaultWeights))
	assert.Equal(t, TaskCargo, DecideTask(0.61, defaultWeights))
	assert.Equal(t, TaskCargo, DecideTask(0.65, defaultWeights))
	assert.Equal(t, TaskPersonal, DecideTask(0.66, defaultWeights))
	assert.Equal(t, TaskPersonal, DecideTask(0.99, TaskWeights{Work: 0.2, Cargo: 0.2}))
}

func TestWarehouseStepXBeforeY(t *testing.T) {
	next, arrived := WarehouseStep(site.Coord{X: 2, Y: 5}, site.Coord{X: 4, Y: 1})
	assert.False(t, arrived)
	assert.Equal(t, site.Coord{X: 3, Y: 5}, next)

	next, _ = WarehouseStep(site.Coord{X: 4, Y: 5}, site.Coord{X: 4, Y: 1})
	assert.Equal(t, site.Coord{X: 4, Y: 4}, next)

	next, _ = WarehouseStep(site.Coord{X: 7, Y: 1}, site.Coord{X: 4, Y: 1})
	assert.Equal(t, site.Coord{X: 6, Y: 1}, next)

	_, arrived = WarehouseStep(site.Coord{X: 4, Y: 1}, site.Coord{X: 4, Y: 1})
	assert.True(t, arrived)
}

func placed(g *site.Grid, a *Agent) *Agent {
	a.Position = g.Place(site.Occupant(a.ID), a.Position)
	return a
}

func TestCargoRunReturnsToWork(t *testing.T) {
	g := site.NewGrid(10, 10)
	warehouse := site.Coord{X: 0, Y: 0}
	a := placed(g, New(0, site.Coord{X: 3, Y: 2}))
	a.Task = TaskCargo
	rng := &scriptedRand{}

	dist := manhattan(a.Position, warehouse)
	for dist > 0 {
		Act(a, g, rng, warehouse, defaultWeights)
		require.Equal(t, TaskCargo, a.Task)
		next := manhattan(a.Position, warehouse)
		require.Less(t, next, dist)
		dist = next
	}

	Act(a, g, rng, warehouse, defaultWeights)
	assert.Equal(t, TaskWork, a.Task)
	assert.Equal(t, a.WorkLocation, a.Position)
	assert.Zero(t, rng.draws, "cargo runs never roll a task")
}

func TestChoosingCargoDoesNotMove(t *testing.T) {
	g := site.NewGrid(10, 10)
	a := placed(g, New(0, site.Coord{X: 5, Y: 5}))
	Act(a, g, &scriptedRand{floats: []float64{0.62}}, site.Coord{}, defaultWeights)
	assert.Equal(t, TaskCargo, a.Task)
	assert.Equal(t, site.Coord{X: 5, Y: 5}, a.Position)
}

func TestWorkReturnsToCrewSite(t *testing.T) {
	g := site.NewGrid(10, 10)
	a := placed(g, New(0, site.Coord{X: 1, Y: 1}))
	a.Position = g.Move(site.Occupant(a.ID), site.Coord{X: 8, Y: 8})
	a.Task = TaskPersonal

	Act(a, g, &scriptedRand{floats: []float64{0.1}}, site.Coord{}, defaultWeights)
	assert.Equal(t, TaskWork, a.Task)
	assert.Equal(t, site.Coord{X: 1, Y: 1}, a.Position)
}

func TestRandomWalkStaysInNeighborhood(t *testing.T) {
	g := site.NewGrid(5, 5)
	a := placed(g, New(0, site.Coord{X: 0, Y: 0}))
	for i := 0; i < 9; i++ {
		start := a.Position
		Act(a, g, &scriptedRand{floats: []float64{0.9}, ints: []int{i}}, site.Coord{}, defaultWeights)
		assert.Equal(t, TaskPersonal, a.Task)
		assert.Contains(t, g.Neighborhood(start, true), a.Position)
		pos, ok := g.PositionOf(site.Occupant(a.ID))
		require.True(t, ok)
		assert.Equal(t, pos, a.Position)
	}
}

func manhattan(a, b site.Coord) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
