package engine

import (
	"log/slog"

	"github.com/talgya/crewsim/internal/agents"
)

// Census is a head count of the crew at one tick.
type Census struct {
	Tick       uint64 `json:"tick" db:"tick"`
	Alive      int    `json:"alive" db:"alive"`
	Healthy    int    `json:"healthy" db:"healthy"`
	Early      int    `json:"infected_early" db:"infected_early"`
	Mid        int    `json:"infected_mid" db:"infected_mid"`
	Late       int    `json:"infected_late" db:"infected_late"`
	Immune     int    `json:"immune" db:"immune"`
	Deaths     int    `json:"deaths" db:"deaths"`
	Infections int    `json:"infections" db:"infections"` // Cumulative, seeding included
}

// Infected returns the number of live agents in any infected stage.
func (c Census) Infected() int {
	return c.Early + c.Mid + c.Late
}

// Census counts the live crew by stage.
func (s *Simulation) Census() Census {
	c := Census{
		Tick:       s.tick,
		Alive:      s.live,
		Deaths:     len(s.mortality),
		Infections: s.infected,
	}
	for _, a := range s.crew {
		if !a.Alive {
			continue
		}
		switch a.Stage {
		case agents.StageHealthy:
			c.Healthy++
		case agents.StageInfectedEarly:
			c.Early++
		case agents.StageInfectedMid:
			c.Mid++
		case agents.StageInfectedLate:
			c.Late++
		}
		if a.Immune {
			c.Immune++
		}
	}
	return c
}

// ReportShift logs the census at the end of a shift.
func (s *Simulation) ReportShift(tick uint64) {
	c := s.Census()
	slog.Info("shift report",
		"tick", tick,
		"time", SimTime(tick, s.params.ShiftTicks()),
		"alive", c.Alive,
		"healthy", c.Healthy,
		"infected", c.Infected(),
		"infectious", c.Mid+c.Late,
		"immune", c.Immune,
		"deaths", c.Deaths,
	)
}
