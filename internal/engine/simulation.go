// Simulation ties the crew, the site and the random source together and
// advances them one tick at a time.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/crewsim/internal/agents"
	"github.com/talgya/crewsim/internal/entropy"
	"github.com/talgya/crewsim/internal/site"
)

// MortalityRecord is one entry of the mortality log.
type MortalityRecord struct {
	AgentID agents.AgentID `json:"agent_id" db:"agent_id"`
	Tick    uint64         `json:"tick" db:"tick"`
}

// InfectionEvent records a source infecting one or more cellmates in its turn.
// Tick-0 seeding is not an infection event.
type InfectionEvent struct {
	Tick     uint64           `json:"tick"`
	Source   agents.AgentID   `json:"source"`
	Position site.Coord       `json:"position"`
	Infected []agents.AgentID `json:"infected"`
}

// Simulation is one run of the model. It owns the grid, the crew and the
// logs; agents only change through its Step.
type Simulation struct {
	params Params
	grid   *site.Grid
	rng    *entropy.Source

	// Arena indexed by AgentID. Dead agents stay in place with Alive=false.
	crew      []*agents.Agent
	live      int
	crewSites []site.Coord

	mortality  []MortalityRecord
	infections []InfectionEvent
	infected   int // Infections so far, seeding included

	tick   uint64
	seeded bool
}

// New validates params and builds the crew. Crew sites are drawn first,
// then each agent picks one with replacement and starts there.
func New(params Params, seed int64) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		params:    params,
		grid:      site.NewGrid(params.Width, params.Height),
		rng:       entropy.New(seed),
		crew:      make([]*agents.Agent, 0, params.Population),
		crewSites: make([]site.Coord, 0, params.CrewSites),
	}

	for i := 0; i < params.CrewSites; i++ {
		x := s.rng.Intn(params.Width)
		y := s.rng.Intn(params.Height)
		s.crewSites = append(s.crewSites, site.Coord{X: x, Y: y})
	}

	for i := 0; i < params.Population; i++ {
		loc := s.crewSites[s.rng.Intn(len(s.crewSites))]
		a := agents.New(agents.AgentID(i), loc)
		a.Position = s.grid.Place(site.Occupant(a.ID), loc)
		s.crew = append(s.crew, a)
	}
	s.live = len(s.crew)

	slog.Debug("simulation created",
		"population", params.Population,
		"crew_sites", params.CrewSites,
		"grid", s.grid.String(),
		"seed", seed,
	)
	return s, nil
}

// Step advances the simulation by exactly one tick. At tick 0 the initial
// infections are seeded first. Agents act in a fresh random order drawn
// over the crew alive at the start of the tick; an agent that dies is
// skipped for the rest of the run.
func (s *Simulation) Step() {
	if s.tick == 0 && !s.seeded {
		s.seedInfections()
	}

	order := s.liveAgents()
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, a := range order {
		if !a.Alive {
			continue
		}
		s.stepAgent(a)
	}

	s.tick++
}

// stepAgent runs one agent's turn: health, then movement, then transmission.
func (s *Simulation) stepAgent(a *agents.Agent) {
	if agents.Progress(a, s.tick, s.params.Workhours, s.rng, s.params.MortalityRate) {
		s.kill(a)
		return
	}

	agents.Act(a, s.grid, s.rng, s.params.Warehouse, s.params.TaskWeights)

	if !agents.IsInfectious(a.Stage) {
		return
	}
	chances := agents.Chances{
		Transmission: s.params.TransmissionChance,
		Reinfection:  s.params.ReinfectionChance,
	}
	newly := agents.Transmit(a, s.cellmates(a.Position), s.tick, chances, s.rng)
	if len(newly) == 0 {
		return
	}

	ev := InfectionEvent{Tick: s.tick, Source: a.ID, Position: a.Position}
	for _, o := range newly {
		ev.Infected = append(ev.Infected, o.ID)
	}
	s.infections = append(s.infections, ev)
	s.infected += len(newly)
}

// seedInfections infects ceil(N × infection rate) distinct healthy agents.
func (s *Simulation) seedInfections() {
	s.seeded = true

	var healthy []*agents.Agent
	for _, a := range s.crew {
		if a.Alive && a.Stage == agents.StageHealthy {
			healthy = append(healthy, a)
		}
	}
	for _, i := range s.rng.Sample(len(healthy), s.params.SeedCount()) {
		healthy[i].Infect(s.tick)
		s.infected++
	}
	slog.Debug("initial infections seeded", "tick", s.tick, "count", s.infected)
}

func (s *Simulation) kill(a *agents.Agent) {
	a.Alive = false
	s.live--
	s.grid.Remove(site.Occupant(a.ID))
	s.mortality = append(s.mortality, MortalityRecord{AgentID: a.ID, Tick: s.tick})
	slog.Debug("agent died", "agent", a.ID, "tick", s.tick, "alive", s.live)
}

func (s *Simulation) liveAgents() []*agents.Agent {
	out := make([]*agents.Agent, 0, s.live)
	for _, a := range s.crew {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}

func (s *Simulation) cellmates(c site.Coord) []*agents.Agent {
	ids := s.grid.Occupants(c)
	out := make([]*agents.Agent, len(ids))
	for i, id := range ids {
		out[i] = s.crew[id]
	}
	return out
}

// CurrentTick returns the number of ticks processed so far.
func (s *Simulation) CurrentTick() uint64 {
	return s.tick
}

// Params returns the run's parameter set.
func (s *Simulation) Params() Params {
	return s.params
}

// Seed returns the seed of the run's random source.
func (s *Simulation) Seed() int64 {
	return s.rng.Seed()
}

// LiveCount returns the size of the live crew.
func (s *Simulation) LiveCount() int {
	return s.live
}

// Agents returns copies of the live crew in ID order.
func (s *Simulation) Agents() []agents.Agent {
	out := make([]agents.Agent, 0, s.live)
	for _, a := range s.crew {
		if a.Alive {
			out = append(out, a.Snapshot())
		}
	}
	return out
}

// Agent returns a copy of one live agent.
func (s *Simulation) Agent(id agents.AgentID) (agents.Agent, bool) {
	if int(id) >= len(s.crew) || !s.crew[id].Alive {
		return agents.Agent{}, false
	}
	return s.crew[id].Snapshot(), true
}

// MortalityLog returns the deaths so far, oldest first.
func (s *Simulation) MortalityLog() []MortalityRecord {
	return append([]MortalityRecord(nil), s.mortality...)
}

// InfectionLog returns the transmission events so far, oldest first.
func (s *Simulation) InfectionLog() []InfectionEvent {
	out := make([]InfectionEvent, len(s.infections))
	for i, ev := range s.infections {
		ev.Infected = append([]agents.AgentID(nil), ev.Infected...)
		out[i] = ev
	}
	return out
}

// CrewSites returns the pool of work locations.
func (s *Simulation) CrewSites() []site.Coord {
	return append([]site.Coord(nil), s.crewSites...)
}

// Occupants returns the IDs standing on a cell.
func (s *Simulation) Occupants(c site.Coord) []agents.AgentID {
	ids := s.grid.Occupants(c)
	out := make([]agents.AgentID, len(ids))
	for i, id := range ids {
		out[i] = agents.AgentID(id)
	}
	return out
}

// String returns a summary of the run.
func (s *Simulation) String() string {
	return fmt.Sprintf("Simulation(tick=%d, alive=%d, deaths=%d)", s.tick, s.live, len(s.mortality))
}
