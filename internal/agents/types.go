// Package agents provides the crew member data model, health progression,
// task selection, movement and transmission rules.
package agents

import (
	"github.com/talgya/crewsim/internal/site"
)

// AgentID is a stable identifier for a crew member. IDs are dense, starting
// at zero, so they double as arena indices.
type AgentID uint64

// Stage is a crew member's health stage.
type Stage uint8

const (
	StageHealthy       Stage = 1
	StageInfectedEarly Stage = 2 // Infected, not yet infectious
	StageInfectedMid   Stage = 3
	StageInfectedLate  Stage = 4
)

// Task is a crew member's behavioral mode for the tick.
type Task uint8

const (
	TaskCargo    Task = 1 // Handling material: travel to the warehouse
	TaskWork     Task = 2 // Working directly at the crew site
	TaskPersonal Task = 3 // Moving about the site
)

// Agent is one crew member.
type Agent struct {
	ID       AgentID    `json:"id"`
	Position site.Coord `json:"position"`

	Stage          Stage    `json:"stage"`
	InfectionTicks []uint64 `json:"infection_ticks"` // Append-only, ascending
	Immune         bool     `json:"immune"`

	Task         Task       `json:"task"`
	WorkLocation site.Coord `json:"work_location"` // Fixed at creation

	Alive bool `json:"alive"`
}

// New creates a healthy crew member assigned to a crew site.
func New(id AgentID, workLocation site.Coord) *Agent {
	return &Agent{
		ID:           id,
		Position:     workLocation,
		Stage:        StageHealthy,
		Task:         TaskWork,
		WorkLocation: workLocation,
		Alive:        true,
	}
}

// Infect moves a crew member into the early stage and records the tick.
func (a *Agent) Infect(tick uint64) {
	a.Stage = StageInfectedEarly
	a.InfectionTicks = append(a.InfectionTicks, tick)
}

// LastInfection returns the tick of the most recent infection.
func (a *Agent) LastInfection() (uint64, bool) {
	if len(a.InfectionTicks) == 0 {
		return 0, false
	}
	return a.InfectionTicks[len(a.InfectionTicks)-1], true
}

// Snapshot returns a deep copy safe to hand to readers outside the engine.
func (a *Agent) Snapshot() Agent {
	c := *a
	c.InfectionTicks = append([]uint64(nil), a.InfectionTicks...)
	return c
}

// String names the stage.
func (s Stage) String() string {
	switch s {
	case StageHealthy:
		return "healthy"
	case StageInfectedEarly:
		return "infected_early"
	case StageInfectedMid:
		return "infected_mid"
	case StageInfectedLate:
		return "infected_late"
	}
	return "unknown"
}

// Valid reports whether s is one of the four stages.
func (s Stage) Valid() bool {
	return s >= StageHealthy && s <= StageInfectedLate
}

// String names the task.
func (t Task) String() string {
	switch t {
	case TaskCargo:
		return "cargo"
	case TaskWork:
		return "work"
	case TaskPersonal:
		return "personal"
	}
	return "unknown"
}

// Valid reports whether t is one of the three tasks.
func (t Task) Valid() bool {
	return t >= TaskCargo && t <= TaskPersonal
}
