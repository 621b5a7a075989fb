package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/crewsim/internal/agents"
	"github.com/talgya/crewsim/internal/site"
)

// ErrConfiguration is wrapped by every construction-time validation failure.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigError names the parameter that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// Params is the immutable parameter set of one run.
type Params struct {
	Population int `json:"population" yaml:"population"`
	CrewSites  int `json:"crew_sites" yaml:"crew_sites"`
	Width      int `json:"width" yaml:"width"`
	Height     int `json:"height" yaml:"height"`

	InfectionRate float64    `json:"infection_rate" yaml:"infection_rate"` // Share of the crew infected at tick 0
	Warehouse     site.Coord `json:"warehouse" yaml:"warehouse"`
	Workhours     float64    `json:"workhours" yaml:"workhours"` // Shift length in hours; one tick is one minute

	TaskWeights agents.TaskWeights `json:"task_weights" yaml:"task_weights"`

	MortalityRate      float64 `json:"mortality_rate" yaml:"mortality_rate"`
	TransmissionChance float64 `json:"transmission_chance" yaml:"transmission_chance"`
	ReinfectionChance  float64 `json:"reinfection_chance" yaml:"reinfection_chance"`
}

// DefaultParams returns the reference crew: 100 agents in 10 crews on a
// 50×50 site, nobody infected.
func DefaultParams() Params {
	return Params{
		Population:         100,
		CrewSites:          10,
		Width:              50,
		Height:             50,
		InfectionRate:      0,
		Warehouse:          site.Coord{X: 0, Y: 0},
		Workhours:          8,
		TaskWeights:        agents.TaskWeights{Work: 0.60, Cargo: 0.05, Personal: 0.35},
		MortalityRate:      0.02,
		TransmissionChance: 0.25,
		ReinfectionChance:  0.01,
	}
}

// SeedCount is the number of crew members infected at tick 0:
// ceil(population × infection rate). A relative tolerance keeps products
// like 10 × 0.3 from rounding up past their exact value.
func (p Params) SeedCount() int {
	x := float64(p.Population) * p.InfectionRate
	return int(math.Ceil(x - x*1e-12))
}

// ShiftTicks is the length of one shift in ticks.
func (p Params) ShiftTicks() uint64 {
	return uint64(math.Round(60 * p.Workhours))
}

// Validate checks the parameter set. The first failure is returned as a
// *ConfigError.
func (p Params) Validate() error {
	switch {
	case p.Population <= 0:
		return &ConfigError{Field: "population", Reason: "must be positive"}
	case p.CrewSites <= 0:
		return &ConfigError{Field: "crew_sites", Reason: "must be positive"}
	case p.Width <= 0 || p.Height <= 0:
		return &ConfigError{Field: "grid", Reason: fmt.Sprintf("dimensions %dx%d must be positive", p.Width, p.Height)}
	case !(p.Workhours > 0) || math.IsInf(p.Workhours, 0):
		return &ConfigError{Field: "workhours", Reason: "must be positive and finite"}
	}

	probs := []struct {
		name string
		v    float64
	}{
		{"infection_rate", p.InfectionRate},
		{"mortality_rate", p.MortalityRate},
		{"transmission_chance", p.TransmissionChance},
		{"reinfection_chance", p.ReinfectionChance},
	}
	for _, pr := range probs {
		if !(pr.v >= 0 && pr.v <= 1) {
			return &ConfigError{Field: pr.name, Reason: fmt.Sprintf("%v outside [0,1]", pr.v)}
		}
	}

	w := p.TaskWeights
	for _, v := range []float64{w.Work, w.Cargo, w.Personal} {
		if !(v >= 0) || math.IsInf(v, 0) {
			return &ConfigError{Field: "task_weights", Reason: "weights must be non-negative"}
		}
	}

	if n := p.SeedCount(); n > p.Population {
		return &ConfigError{Field: "infection_rate", Reason: fmt.Sprintf("seed count %d exceeds population %d", n, p.Population)}
	}
	return nil
}
