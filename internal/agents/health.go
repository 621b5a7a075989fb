// Health progression: stage is a pure function of time since last infection.
package agents

// Shift thresholds, in multiples of 60*workhours ticks.
const (
	EarlyShifts = 4
	MidShifts   = 6
	LateShifts  = 14
)

// Outcome is the classification of an infection's elapsed duration.
type Outcome uint8

const (
	OutcomeOngoing  Outcome = iota // Still infected; see the returned stage
	OutcomeResolved                // Past the late stage: recover or die
)

// Classify maps elapsed infection duration to a stage. Past the late
// threshold it reports OutcomeResolved and the stage is meaningless.
func Classify(duration uint64, workhours float64) (Stage, Outcome) {
	shift := 60 * workhours
	d := float64(duration)
	switch {
	case d <= EarlyShifts*shift:
		return StageInfectedEarly, OutcomeOngoing
	case d <= MidShifts*shift:
		return StageInfectedMid, OutcomeOngoing
	case d <= LateShifts*shift:
		return StageInfectedLate, OutcomeOngoing
	}
	return StageHealthy, OutcomeResolved
}

// IsInfectious reports whether a stage can pass the infection on.
// Early-stage agents carry the infection but do not transmit it.
func IsInfectious(s Stage) bool {
	return s == StageInfectedMid || s == StageInfectedLate
}

// Progress re-evaluates an infected agent's stage at tick. It returns true
// when the infection resolved and the mortality trial succeeded; the caller
// owns removal. Recovered agents become healthy and permanently immune.
// Healthy agents are left untouched.
func Progress(a *Agent, tick uint64, workhours float64, rng Rand, mortalityRate float64) (died bool) {
	if a.Stage == StageHealthy {
		return false
	}
	last, ok := a.LastInfection()
	if !ok {
		return false
	}
	stage, outcome := Classify(tick-last, workhours)
	if outcome == OutcomeOngoing {
		a.Stage = stage
		return false
	}
	if rng.Chance(mortalityRate) {
		return true
	}
	a.Stage = StageHealthy
	a.Immune = true
	return false
}
