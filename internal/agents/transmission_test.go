package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talgya/crewsim/internal/site"
)

func infected(id AgentID, stage Stage) *Agent {
	a := New(id, site.Coord{})
	a.Infect(0)
	a.Stage = stage
	return a
}

func TestTransmitInfectsHealthy(t *testing.T) {
	src := infected(0, StageInfectedMid)
	healthy := New(1, site.Coord{})

	got := Transmit(src, []*Agent{src, healthy}, 12, Chances{Transmission: 1}, &scriptedRand{})
	assert.Equal(t, []*Agent{healthy}, got)
	assert.Equal(t, StageInfectedEarly, healthy.Stage)
	assert.Equal(t, []uint64{12}, healthy.InfectionTicks)
}

func TestTransmitEarlySourceIsInert(t *testing.T) {
	src := infected(0, StageInfectedEarly)
	healthy := New(1, site.Coord{})
	rng := &scriptedRand{}

	assert.Empty(t, Transmit(src, []*Agent{src, healthy}, 1, Chances{Transmission: 1}, rng))
	assert.Equal(t, StageHealthy, healthy.Stage)
	assert.Zero(t, rng.draws)
}

func TestTransmitSkipsInfectedOccupants(t *testing.T) {
	src := infected(0, StageInfectedLate)
	other := infected(1, StageInfectedMid)
	rng := &scriptedRand{}

	Transmit(src, []*Agent{src, other}, 99, Chances{Transmission: 1}, rng)
	assert.Equal(t, StageInfectedMid, other.Stage)
	assert.Equal(t, []uint64{0}, other.InfectionTicks)
	assert.Zero(t, rng.draws)
}

func TestTransmitImmuneNeedsReinfection(t *testing.T) {
	src := infected(0, StageInfectedMid)
	immune := New(1, site.Coord{})
	immune.Immune = true

	rng := &scriptedRand{floats: []float64{0.1, 0.5}}
	assert.Empty(t, Transmit(src, []*Agent{immune}, 5, Chances{Transmission: 0.25, Reinfection: 0.01}, rng))
	assert.Equal(t, 2, rng.draws)
	assert.Equal(t, StageHealthy, immune.Stage)

	rng = &scriptedRand{floats: []float64{0.1, 0.005}}
	assert.Len(t, Transmit(src, []*Agent{immune}, 6, Chances{Transmission: 0.25, Reinfection: 0.01}, rng), 1)
	assert.Equal(t, StageInfectedEarly, immune.Stage)
	assert.True(t, immune.Immune, "immunity is never cleared")
}

func TestTransmitFailedFirstTrialSkipsSecond(t *testing.T) {
	src := infected(0, StageInfectedMid)
	immune := New(1, site.Coord{})
	immune.Immune = true
	rng := &scriptedRand{floats: []float64{0.9}}

	Transmit(src, []*Agent{immune}, 5, Chances{Transmission: 0.25, Reinfection: 1}, rng)
	assert.Equal(t, 1, rng.draws)
}

func TestTransmitZeroChance(t *testing.T) {
	src := infected(0, StageInfectedMid)
	healthy := New(1, site.Coord{})
	rng := &scriptedRand{floats: []float64{0}}

	assert.Empty(t, Transmit(src, []*Agent{healthy}, 5, Chances{}, rng))
	assert.Equal(t, StageHealthy, healthy.Stage)
}
