// Task selection and movement. Every tick a crew member either continues a
// cargo run or rolls a new task, then moves according to that task.
package agents

import (
	"github.com/talgya/crewsim/internal/site"
)

// TaskWeights are the probabilities of work, cargo and personal tasks, used
// as cumulative bounds. Whatever falls past work+cargo is personal.
type TaskWeights struct {
	Work     float64 `json:"work" yaml:"work"`
	Cargo    float64 `json:"cargo" yaml:"cargo"`
	Personal float64 `json:"personal" yaml:"personal"`
}

// Site is the grid a crew member moves on.
type Site interface {
	Move(id site.Occupant, c site.Coord) site.Coord
	Neighborhood(c site.Coord, includeCenter bool) []site.Coord
}

// DecideTask maps a uniform draw onto a task.
func DecideTask(u float64, w TaskWeights) Task {
	switch {
	case u <= w.Work:
		return TaskWork
	case u <= w.Work+w.Cargo:
		return TaskCargo
	default:
		return TaskPersonal
	}
}

// Act runs one tick of task selection and movement. An agent picking the
// cargo task this tick stays put; the warehouse run starts next tick.
func Act(a *Agent, grid Site, rng Rand, warehouse site.Coord, w TaskWeights) {
	if a.Task == TaskCargo {
		travelToWarehouse(a, grid, warehouse)
		return
	}

	a.Task = DecideTask(rng.Float(), w)
	switch a.Task {
	case TaskWork:
		moveTo(a, grid, a.WorkLocation)
	case TaskPersonal:
		randomWalk(a, grid, rng)
	}
}

// WarehouseStep returns the next cell on the way from pos to the warehouse:
// one unit along x until x matches, then along y. arrived is true when pos
// already is the warehouse.
func WarehouseStep(pos, warehouse site.Coord) (next site.Coord, arrived bool) {
	dx := warehouse.X - pos.X
	dy := warehouse.Y - pos.Y
	switch {
	case dx != 0:
		return site.Coord{X: pos.X + sign(dx), Y: pos.Y}, false
	case dy != 0:
		return site.Coord{X: pos.X, Y: pos.Y + sign(dy)}, false
	}
	return pos, true
}

func travelToWarehouse(a *Agent, grid Site, warehouse site.Coord) {
	next, arrived := WarehouseStep(a.Position, warehouse)
	if arrived {
		a.Task = TaskWork
		moveTo(a, grid, a.WorkLocation)
		return
	}
	moveTo(a, grid, next)
}

func randomWalk(a *Agent, grid Site, rng Rand) {
	options := grid.Neighborhood(a.Position, true)
	moveTo(a, grid, options[rng.Intn(len(options))])
}

func moveTo(a *Agent, grid Site, c site.Coord) {
	a.Position = grid.Move(site.Occupant(a.ID), c)
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
