// Package config loads experiment files for the batch driver. An experiment
// names a base parameter set, how long and how often to run it, and optional
// named sweeps that override parts of the base.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/crewsim/internal/agents"
	"github.com/talgya/crewsim/internal/engine"
	"github.com/talgya/crewsim/internal/site"
)

// DefaultExperimentYAML documents every field with its default value.
const DefaultExperimentYAML = `# crewsim experiment
name: baseline
seed: 42
ticks: 40320        # 84 eight-hour shifts
replicates: 1
database: data/crewsim.db
logging:
  level: info

params:
  population: 100
  crew_sites: 10
  width: 50
  height: 50
  infection_rate: 0.05
  warehouse: {x: 0, y: 0}
  workhours: 8
  task_weights: {work: 0.60, cargo: 0.05, personal: 0.35}
  mortality_rate: 0.02
  transmission_chance: 0.25
  reinfection_chance: 0.01

# Each sweep runs the base params with its overrides applied.
# sweeps:
#   - label: masks
#     transmission_chance: 0.10
#   - label: far-warehouse
#     warehouse: {x: 25, y: 25}
#     task_weights: {work: 0.50, cargo: 0.15, personal: 0.35}
`

// Experiment models an experiment file.
type Experiment struct {
	Name       string        `yaml:"name"`
	Seed       int64         `yaml:"seed"`
	Ticks      uint64        `yaml:"ticks"`
	Replicates int           `yaml:"replicates"`
	Database   string        `yaml:"database"`
	Logging    LoggingConfig `yaml:"logging"`
	Params     engine.Params `yaml:"params"`
	Sweeps     []Sweep       `yaml:"sweeps,omitempty"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Sweep is a labelled set of overrides. Nil fields keep the base value.
type Sweep struct {
	Label              string              `yaml:"label"`
	Population         *int                `yaml:"population,omitempty"`
	CrewSites          *int                `yaml:"crew_sites,omitempty"`
	Width              *int                `yaml:"width,omitempty"`
	Height             *int                `yaml:"height,omitempty"`
	InfectionRate      *float64            `yaml:"infection_rate,omitempty"`
	Warehouse          *site.Coord         `yaml:"warehouse,omitempty"`
	Workhours          *float64            `yaml:"workhours,omitempty"`
	TaskWeights        *agents.TaskWeights `yaml:"task_weights,omitempty"`
	MortalityRate      *float64            `yaml:"mortality_rate,omitempty"`
	TransmissionChance *float64            `yaml:"transmission_chance,omitempty"`
	ReinfectionChance  *float64            `yaml:"reinfection_chance,omitempty"`
}

// Run is one labelled parameter set to execute.
type Run struct {
	Label  string
	Params engine.Params
}

// Default returns the experiment described by DefaultExperimentYAML.
func Default() Experiment {
	p := engine.DefaultParams()
	p.InfectionRate = 0.05
	return Experiment{
		Name:       "baseline",
		Seed:       42,
		Ticks:      40320,
		Replicates: 1,
		Database:   "data/crewsim.db",
		Logging:    LoggingConfig{Level: "info"},
		Params:     p,
	}
}

// Load reads an experiment file. Fields absent from the file keep their
// defaults; unknown fields are an error.
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes experiment YAML over the defaults and validates it.
func Parse(data []byte) (Experiment, error) {
	exp := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&exp); err != nil && !errors.Is(err, io.EOF) {
		return Experiment{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, err
	}
	return exp, nil
}

// Validate checks the experiment and every run it expands to.
func (e Experiment) Validate() error {
	if e.Ticks == 0 {
		return errors.New("config: ticks must be positive")
	}
	if e.Replicates <= 0 {
		return errors.New("config: replicates must be positive")
	}
	for _, r := range e.Runs() {
		if err := r.Params.Validate(); err != nil {
			return fmt.Errorf("config: run %q: %w", r.Label, err)
		}
	}
	return nil
}

// Runs expands the experiment into the base run followed by one run per
// sweep.
func (e Experiment) Runs() []Run {
	runs := []Run{{Label: e.Name, Params: e.Params}}
	for _, s := range e.Sweeps {
		runs = append(runs, Run{Label: s.Label, Params: s.Apply(e.Params)})
	}
	return runs
}

// Apply returns base with the sweep's overrides applied.
func (s Sweep) Apply(base engine.Params) engine.Params {
	p := base
	if s.Population != nil {
		p.Population = *s.Population
	}
	if s.CrewSites != nil {
		p.CrewSites = *s.CrewSites
	}
	if s.Width != nil {
		p.Width = *s.Width
	}
	if s.Height != nil {
		p.Height = *s.Height
	}
	if s.InfectionRate != nil {
		p.InfectionRate = *s.InfectionRate
	}
	if s.Warehouse != nil {
		p.Warehouse = *s.Warehouse
	}
	if s.Workhours != nil {
		p.Workhours = *s.Workhours
	}
	if s.TaskWeights != nil {
		p.TaskWeights = *s.TaskWeights
	}
	if s.MortalityRate != nil {
		p.MortalityRate = *s.MortalityRate
	}
	if s.TransmissionChance != nil {
		p.TransmissionChance = *s.TransmissionChance
	}
	if s.ReinfectionChance != nil {
		p.ReinfectionChance = *s.ReinfectionChance
	}
	return p
}
