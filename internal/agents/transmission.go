// Proximity transmission between crew members sharing a cell.
package agents

// Chances are the per-contact trial probabilities.
type Chances struct {
	Transmission float64
	Reinfection  float64
}

// Transmit lets an infectious source try to infect every healthy occupant of
// its cell. Immune occupants need a second, reinfection trial to succeed.
// Occupants already infected are skipped without a draw. It returns the
// newly infected agents in cell order.
func Transmit(source *Agent, cellmates []*Agent, tick uint64, c Chances, rng Rand) []*Agent {
	if !IsInfectious(source.Stage) {
		return nil
	}
	var infected []*Agent
	for _, o := range cellmates {
		if o.Stage != StageHealthy {
			continue
		}
		if !rng.Chance(c.Transmission) {
			continue
		}
		if o.Immune && !rng.Chance(c.Reinfection) {
			continue
		}
		o.Infect(tick)
		infected = append(infected, o)
	}
	return infected
}
