/*
Copyright © 2017 the ClusterDyn authors.
This file is part of ClusterDyn.

ClusterDyn is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ClusterDyn is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ClusterDyn.  If not, see <http://www.gnu.org/licenses/>.
*/

package clusterdyn

import (
	"fmt"
	"time"
)

// SimulationManipulator is a function that operates on a simulation,
// used to compose initialization, per-step, and cleanup behavior.
type SimulationManipulator func(sim *Simulation) error

// Simulation is a reference forward-Euler driver around a
// SolverHandler. It exists to exercise the full right-hand-side,
// checkpoint, and output path; production runs couple the handler to
// an implicit integrator instead.
type Simulation struct {
	Handler *SolverHandler
	// Dt is the explicit time step [s].
	Dt float64

	State []float64
	Time  float64
	Step  int

	// InitFuncs run once before stepping, StepFuncs after every step,
	// and CleanupFuncs once after the final step.
	InitFuncs    []SimulationManipulator
	StepFuncs    []SimulationManipulator
	CleanupFuncs []SimulationManipulator

	scratch []float64
	start   time.Time
}

// NewSimulation creates a simulation around the given handler with the
// given explicit time step. extra manipulators are appended to
// StepFuncs.
func NewSimulation(h *SolverHandler, dt float64, extra ...SimulationManipulator) (*Simulation, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("clusterdyn: invalid time step %g", dt)
	}
	sim := &Simulation{Handler: h, Dt: dt}
	sim.StepFuncs = append(sim.StepFuncs, extra...)
	return sim, nil
}

// Init builds the solver context and the initial state and runs the
// InitFuncs.
func (sim *Simulation) Init() error {
	if _, _, _, err := sim.Handler.CreateContext(); err != nil {
		return err
	}
	state, err := sim.Handler.InitializeState()
	if err != nil {
		return err
	}
	sim.State = state
	sim.scratch = make([]float64, len(state))
	sim.start = time.Now()
	for _, f := range sim.InitFuncs {
		if err := f(sim); err != nil {
			return err
		}
	}
	return nil
}

// Run advances the simulation nSteps forward-Euler steps, running the
// StepFuncs after each one and the CleanupFuncs at the end.
func (sim *Simulation) Run(nSteps int) error {
	for n := 0; n < nSteps; n++ {
		if err := sim.Handler.EvaluateRHS(sim.Time, sim.State, sim.scratch); err != nil {
			return err
		}
		for xi := 0; xi < sim.Handler.grid.Size(); xi++ {
			if sim.Handler.grid.IsBoundary(xi) {
				continue
			}
			for i := 0; i < sim.Handler.dof; i++ {
				k := xi*sim.Handler.dof + i
				sim.State[k] += sim.Dt * sim.scratch[k]
			}
		}
		sim.Time += sim.Dt
		sim.Step++
		for _, f := range sim.StepFuncs {
			if err := f(sim); err != nil {
				return err
			}
		}
	}
	for _, f := range sim.CleanupFuncs {
		if err := f(sim); err != nil {
			return err
		}
	}
	return nil
}

// LogProgress returns a manipulator logging the step number, simulated
// time, and walltime every interval steps.
func LogProgress(interval int) SimulationManipulator {
	return func(sim *Simulation) error {
		if interval <= 0 || sim.Step%interval != 0 {
			return nil
		}
		logger.WithFields(map[string]interface{}{
			"step":     sim.Step,
			"time":     sim.Time,
			"walltime": time.Since(sim.start).Seconds(),
		}).Info("advanced simulation")
		return nil
	}
}

// SaveCheckpoints returns a manipulator writing a checkpoint every
// interval steps and after cleanup.
func SaveCheckpoints(w *CheckpointWriter, interval int) SimulationManipulator {
	return func(sim *Simulation) error {
		if interval > 0 && sim.Step%interval != 0 {
			return nil
		}
		return w.Save(sim.Step, sim.Handler.grid, sim.Handler.dof, sim.State)
	}
}
