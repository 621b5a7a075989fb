// Package engine provides the crew simulation: model construction, the
// per-tick scheduler and a bounded driver loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// TicksPerSimHour is the tick resolution: one tick is one sim-minute.
const TicksPerSimHour = 60

// Stepper is anything the Runner can drive.
type Stepper interface {
	Step()
	CurrentTick() uint64
}

// Runner drives a simulation for a bounded number of ticks. It has no
// termination condition of its own; the run ends when the budget is spent
// or the context is cancelled.
type Runner struct {
	Sim        Stepper
	ShiftTicks uint64 // Ticks per shift; 0 disables OnShift

	// Callbacks, invoked after the tick has been processed with its number.
	OnTick  func(tick uint64) // Every tick
	OnShift func(tick uint64) // Every ShiftTicks ticks
}

// NewRunner creates a runner for a simulation that logs a report at the
// end of every shift.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{
		Sim:        sim,
		ShiftTicks: sim.Params().ShiftTicks(),
		OnShift:    sim.ReportShift,
	}
}

// Run steps the simulation ticks times. It checks ctx between ticks and
// returns the number of ticks completed along with ctx's error on
// cancellation.
func (r *Runner) Run(ctx context.Context, ticks uint64) (uint64, error) {
	start := r.Sim.CurrentTick()
	slog.Debug("run started", "tick", start, "ticks", ticks)

	var done uint64
	for done < ticks {
		if err := ctx.Err(); err != nil {
			slog.Info("run cancelled", "tick", r.Sim.CurrentTick(), "completed", done)
			return done, err
		}

		tick := r.Sim.CurrentTick()
		r.Sim.Step()
		done++

		if r.OnTick != nil {
			r.OnTick(tick)
		}
		if r.ShiftTicks > 0 && (tick+1)%r.ShiftTicks == 0 && r.OnShift != nil {
			r.OnShift(tick)
		}
	}

	slog.Debug("run finished", "tick", r.Sim.CurrentTick(), "completed", done)
	return done, nil
}

// SimTime renders a tick as shift, hour and minute for shifts of shiftTicks
// ticks, as returned by Params.ShiftTicks. A zero shift length renders
// hour-long shifts.
func SimTime(tick, shiftTicks uint64) string {
	if shiftTicks == 0 {
		shiftTicks = TicksPerSimHour
	}
	within := tick % shiftTicks
	return fmt.Sprintf("Shift %d, %d:%02d", tick/shiftTicks+1, within/TicksPerSimHour, within%TicksPerSimHour)
}
