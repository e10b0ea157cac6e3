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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// The helium budget feeding trap-mutation attenuation is integrated
// over this distance below the surface [nm].
const heliumBudgetDepth = 2.0

// MatStencil addresses one matrix row or column: a grid point index
// and a component (dof index within the point).
type MatStencil struct {
	I int // grid point index
	C int // dof index within the point
}

// Matrix receives Jacobian entries. An implicit time integrator
// provides the implementation; AddValues accumulates into any existing
// entries.
type Matrix interface {
	AddValues(row MatStencil, cols []MatStencil, vals []float64) error
}

// AllReducer combines a scalar contribution across all workers sharing
// the grid and hands every worker the global sum.
type AllReducer interface {
	AllReduceSum(v float64) (float64, error)
}

// SerialReducer is the single-process AllReducer: the local value is
// the global value.
type SerialReducer struct{}

// AllReduceSum returns v unchanged.
func (SerialReducer) AllReduceSum(v float64) (float64, error) { return v, nil }

// TemperatureProfile supplies the material temperature as a function
// of position [nm] and time [s].
type TemperatureProfile interface {
	Temperature(x, t float64) float64
}

// ConstantTemperature is a spatially and temporally uniform
// temperature [K].
type ConstantTemperature float64

// Temperature returns the constant value.
func (c ConstantTemperature) Temperature(x, t float64) float64 { return float64(c) }

// SimulationConfig holds the user-facing model configuration.
type SimulationConfig struct {
	// MaxClusterSize is the largest cluster tracked by the network.
	MaxClusterSize int `desc:"Maximum cluster size in the reaction network"`

	// NX is the number of grid points and StepSize their spacing.
	NX       int     `desc:"Number of grid points"`
	StepSize float64 `desc:"Grid spacing" units:"nm"`

	// Temperature is the uniform material temperature.
	Temperature float64 `desc:"Material temperature" units:"K"`

	// FluxAmplitude scales the incident helium flux.
	FluxAmplitude float64 `desc:"Incident helium fluence amplitude" units:"He nm**-2 s**-1"`

	// InitialVConc seeds the interior with single vacancies.
	InitialVConc float64 `desc:"Initial single-vacancy concentration" units:"nm**-3"`

	// DissociationsEnabled switches dissociation reactions on.
	DissociationsEnabled bool `desc:"Enable dissociation reactions"`

	// MovingSurface enables the moving-surface policy; SurfacePortion
	// is the percentage of the grid initially behind the surface.
	MovingSurface  bool    `desc:"Enable the moving surface"`
	SurfacePortion float64 `desc:"Initial portion of the grid behind the surface" units:"%"`

	// GroupingMinHe and GroupingWidth configure super-cluster bands;
	// zero disables grouping.
	GroupingMinHe int `desc:"Smallest helium content grouped into super clusters"`
	GroupingWidth int `desc:"Helium width of each super-cluster band"`

	// SinkLocation places a sink advection plane; negative disables it.
	SinkLocation float64 `desc:"Sink plane position, negative to disable" units:"nm"`

	// HeSaturation attenuates trap mutation; zero disables attenuation.
	HeSaturation float64 `desc:"Surface helium content shutting off trap mutation" units:"nm**-2"`

	// CheckpointTemplate names checkpoint files; it must contain
	// [step]. Empty disables checkpointing.
	CheckpointTemplate string `desc:"Checkpoint filename template containing [step]"`

	// RestartFrom is a checkpoint file to restore state from.
	RestartFrom string `desc:"Checkpoint file to restart from"`
}

// DefaultConfig returns a small but complete configuration.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		MaxClusterSize:       10,
		NX:                   20,
		StepSize:             1.0,
		Temperature:          1000,
		FluxAmplitude:        4.0e-5,
		DissociationsEnabled: true,
		SinkLocation:         -1,
	}
}

// SolverHandler assembles the right-hand side and Jacobian of the
// cluster-dynamics equations on the grid, for an external implicit
// time integrator.
type SolverHandler struct {
	config  SimulationConfig
	network *ReactionNetwork
	grid    *Grid

	fluxHandler      *IncidentFluxHandler
	diffusionHandler *DiffusionHandler
	// advectionHandlers are applied in order; the surface handler is
	// always first.
	advectionHandlers []AdvectionHandler
	mutationHandler   *TrapMutationHandler
	burstingHandler   *BubbleBurstingHandler

	reducer     AllReducer
	tempProfile TemperatureProfile

	// Local portion of the grid owned by this worker.
	xs, xm int

	dof             int
	dFillMap        map[int][]int
	fillGeneration  int
	contextBuilt    bool
	lastTemperature float64

	// Scratch buffers reused across grid points.
	clusterPartials []float64
	superPartials   []float64
}

// NewSolverHandler creates a solver handler from the configuration.
func NewSolverHandler(cfg SimulationConfig) (*SolverHandler, error) {
	rn, err := NewReactionNetwork(cfg.MaxClusterSize)
	if err != nil {
		return nil, err
	}
	rn.SetDissociationsEnabled(cfg.DissociationsEnabled)
	if cfg.GroupingMinHe > 0 && cfg.GroupingWidth > 0 {
		if err := rn.ApplyGrouping(cfg.GroupingMinHe, cfg.GroupingWidth); err != nil {
			return nil, err
		}
	}
	g, err := NewUniformGrid(cfg.NX, cfg.StepSize)
	if err != nil {
		return nil, err
	}
	if cfg.MovingSurface {
		if cfg.SurfacePortion < 0 || cfg.SurfacePortion >= 100 {
			return nil, fmt.Errorf("clusterdyn: invalid surface portion %g%%", cfg.SurfacePortion)
		}
		g.SurfacePosition = int(float64(cfg.NX) * cfg.SurfacePortion / 100.)
	}
	s := &SolverHandler{
		config:           cfg,
		network:          rn,
		grid:             g,
		fluxHandler:      NewIncidentFluxHandler(cfg.FluxAmplitude),
		diffusionHandler: &DiffusionHandler{},
		mutationHandler:  NewTrapMutationHandler(cfg.HeSaturation),
		burstingHandler:  NewBubbleBurstingHandler(),
		reducer:          SerialReducer{},
		tempProfile:      ConstantTemperature(cfg.Temperature),
		xs:               0,
		xm:               cfg.NX,
	}
	s.advectionHandlers = append(s.advectionHandlers, NewSurfaceAdvectionHandler())
	if cfg.SinkLocation >= 0 {
		s.advectionHandlers = append(s.advectionHandlers,
			NewSinkAdvectionHandler(cfg.SinkLocation))
	}
	return s, nil
}

// Network returns the solver's reaction network.
func (s *SolverHandler) Network() *ReactionNetwork { return s.network }

// GridOf returns the solver's grid.
func (s *SolverHandler) GridOf() *Grid { return s.grid }

// DOF returns the degrees of freedom per grid point, valid after
// CreateContext.
func (s *SolverHandler) DOF() int { return s.dof }

// SetReducer installs the all-reduce collaborator. The default is the
// serial reducer.
func (s *SolverHandler) SetReducer(r AllReducer) { s.reducer = r }

// SetTemperatureProfile installs the temperature profile. The default
// is the constant configured temperature.
func (s *SolverHandler) SetTemperatureProfile(p TemperatureProfile) { s.tempProfile = p }

// SetLocalPortion restricts the handler to grid points [xs, xs+xm) for
// domain-decomposed runs. Boundary handling still follows the global
// grid.
func (s *SolverHandler) SetLocalPortion(xs, xm int) error {
	if xs < 0 || xm < 1 || xs+xm > s.grid.Size() {
		return fmt.Errorf("clusterdyn: invalid local portion xs=%d xm=%d for %d grid points", xs, xm, s.grid.Size())
	}
	s.xs, s.xm = xs, xm
	return nil
}

// CreateContext initializes the network temperature, resolves every
// process handler, and builds the Jacobian fill patterns. It returns
// the per-point degrees of freedom and the off-diagonal and diagonal
// fill patterns as dof×dof 0/1 matrices.
func (s *SolverHandler) CreateContext() (dof int, ofill, dfill *sparse.DenseArrayInt, err error) {
	temp := s.tempProfile.Temperature(s.grid.X[s.grid.SurfacePosition], 0)
	s.network.SetTemperature(temp)
	s.lastTemperature = temp

	s.dof = s.network.DOF()
	ofill = sparse.ZerosDenseInt(s.dof, s.dof)
	dfill = sparse.ZerosDenseInt(s.dof, s.dof)

	s.diffusionHandler.Initialize(s.network, ofill)
	for _, a := range s.advectionHandlers {
		a.Initialize(s.network, ofill)
	}
	s.mutationHandler.Initialize(s.network, s.grid)
	s.burstingHandler.Initialize(s.network, s.grid)
	if err := s.fluxHandler.Initialize(s.network, s.grid); err != nil {
		return 0, nil, nil, err
	}

	// Reaction couplings within a grid point.
	for _, c := range s.network.all {
		row := c.id - 1
		for id := range c.connectivity {
			dfill.Set(1, row, id-1)
		}
	}
	add := func(row, col int) { dfill.Set(1, row-1, col-1) }
	for _, sc := range s.network.supers {
		sc.fillDependencies(add)
	}
	s.mutationHandler.FillDependencies(add)
	s.burstingHandler.FillDependencies(add)
	// Off-diagonal couplings are also present within the point.
	for r := 0; r < s.dof; r++ {
		for c := 0; c < s.dof; c++ {
			if ofill.Get(r, c) != 0 {
				dfill.Set(1, r, c)
			}
		}
	}

	s.dFillMap = make(map[int][]int)
	for r := 0; r < s.dof; r++ {
		for c := 0; c < s.dof; c++ {
			if dfill.Get(r, c) != 0 {
				s.dFillMap[r] = append(s.dFillMap[r], c)
			}
		}
	}

	s.clusterPartials = make([]float64, s.dof)
	s.superPartials = make([]float64, s.dof*s.dof)
	s.fillGeneration = s.network.Generation()
	s.contextBuilt = true
	return s.dof, ofill, dfill, nil
}

// checkContext verifies the cached fill patterns are still valid.
func (s *SolverHandler) checkContext() error {
	if !s.contextBuilt {
		return fmt.Errorf("clusterdyn: solver context not built; call CreateContext first")
	}
	if s.network.Generation() != s.fillGeneration {
		return fmt.Errorf("clusterdyn: network connectivity changed since CreateContext; rebuild the context")
	}
	return nil
}

// InitializeState builds the initial concentration vector, one dof
// block per grid point: zero everywhere, the configured single-vacancy
// concentration in the interior, then any checkpoint restore on top.
// A checkpoint written on a different mesh or with a different number
// of degrees of freedom is rejected.
// A restored surface position overrides the configured one, and the
// incident-flux vector is rebuilt for the final surface. It must run
// after CreateContext.
func (s *SolverHandler) InitializeState() ([]float64, error) {
	if err := s.checkContext(); err != nil {
		return nil, err
	}
	state := make([]float64, s.grid.Size()*s.dof)
	if v1 := s.network.Get(V, 1); v1 != nil && s.config.InitialVConc > 0 {
		for xi := 0; xi < s.grid.Size(); xi++ {
			if s.grid.IsBoundary(xi) {
				continue
			}
			state[xi*s.dof+v1.Id()-1] = s.config.InitialVConc
		}
	}
	if s.config.RestartFrom != "" {
		cp, err := ReadCheckpoint(s.config.RestartFrom)
		if err != nil {
			return nil, err
		}
		if len(cp.Grid) != len(s.grid.X) {
			return nil, fmt.Errorf("clusterdyn: checkpoint %s holds %d grid points, configuration has %d",
				s.config.RestartFrom, len(cp.Grid), len(s.grid.X))
		}
		for i, x := range cp.Grid {
			if !floats.EqualWithinAbsOrRel(x, s.grid.X[i], 1e-10, 1e-10) {
				return nil, fmt.Errorf("clusterdyn: checkpoint %s grid point %d at %g does not match configured %g",
					s.config.RestartFrom, i, x, s.grid.X[i])
			}
		}
		if cp.DOF != s.dof {
			return nil, fmt.Errorf("clusterdyn: checkpoint %s holds %d degrees of freedom per point, solver has %d",
				s.config.RestartFrom, cp.DOF, s.dof)
		}
		if cp.SurfacePosition != s.grid.SurfacePosition {
			logger.WithFields(map[string]interface{}{
				"configured": s.grid.SurfacePosition,
				"restored":   cp.SurfacePosition,
			}).Info("restored surface position overrides configuration")
			s.grid.SurfacePosition = cp.SurfacePosition
			s.mutationHandler.Initialize(s.network, s.grid)
			s.burstingHandler.Initialize(s.network, s.grid)
		}
		for xi, pairs := range cp.Concentrations {
			// Restored rows replace the seeded block wholesale.
			block := state[xi*s.dof : (xi+1)*s.dof]
			for i := range block {
				block[i] = 0
			}
			for _, p := range pairs {
				block[p.Index] = p.Value
			}
		}
	}
	if err := s.fluxHandler.Initialize(s.network, s.grid); err != nil {
		return nil, err
	}
	return state, nil
}

// refreshTemperature ingests a temperature change, guarded by an
// epsilon comparison so tiny profile noise does not trigger rate
// rebuilds.
func (s *SolverHandler) refreshTemperature(t float64) {
	temp := s.tempProfile.Temperature(s.grid.X[s.grid.SurfacePosition], t)
	if floats.EqualWithinAbsOrRel(temp, s.lastTemperature, 1e-10, 1e-10) {
		return
	}
	s.network.SetTemperature(temp)
	s.lastTemperature = temp
	s.mutationHandler.Initialize(s.network, s.grid)
	s.burstingHandler.Initialize(s.network, s.grid)
}

// surfaceHelium integrates the helium content over the local grid
// points within the budget depth below the surface, weighted by the
// left-hand spacing of each point.
func (s *SolverHandler) surfaceHelium(conc []float64) float64 {
	var local float64
	for xi := s.xs; xi < s.xs+s.xm; xi++ {
		if s.grid.IsBoundary(xi) || s.grid.Depth(xi) > heliumBudgetDepth {
			continue
		}
		block := conc[xi*s.dof : (xi+1)*s.dof]
		var content float64
		for _, c := range s.network.all {
			if c.comp.He > 0 {
				content += float64(c.comp.He) * block[c.id-1]
			}
		}
		for _, sc := range s.network.supers {
			content += sc.heliumContent(block[sc.id-1], block[sc.momentId-1])
		}
		local += content * (s.grid.X[xi] - s.grid.X[xi-1])
	}
	return local
}

// heliumContent returns the helium atoms per volume represented by the
// band at the given moments.
func (sc *SuperCluster) heliumContent(l0, l1 float64) float64 {
	meanHe := float64(sc.loHe+sc.hiHe) / 2.
	var distSq float64
	for _, d := range sc.dist {
		distSq += d * d
	}
	return l0*meanHe + l1*distSq
}

// EvaluateRHS computes the time derivative of every degree of freedom
// into updated, which must be the same length as conc. Boundary points
// echo their concentrations so the integrator holds them fixed. The
// surface helium budget is reduced across workers before any per-point
// assembly so trap-mutation attenuation is globally consistent.
func (s *SolverHandler) EvaluateRHS(t float64, conc, updated []float64) error {
	if err := s.checkContext(); err != nil {
		return err
	}
	if len(conc) != s.grid.Size()*s.dof || len(updated) != len(conc) {
		return fmt.Errorf("clusterdyn: state length %d does not match %d points × %d dof", len(conc), s.grid.Size(), s.dof)
	}
	s.refreshTemperature(t)

	surfaceHe, err := s.reducer.AllReduceSum(s.surfaceHelium(conc))
	if err != nil {
		return fmt.Errorf("clusterdyn: reducing surface helium budget: %v", err)
	}
	s.mutationHandler.UpdateDisappearingRate(surfaceHe)

	fluxIndex := s.fluxHandler.ClusterIndex()
	for xi := s.xs; xi < s.xs+s.xm; xi++ {
		block := conc[xi*s.dof : (xi+1)*s.dof]
		out := updated[xi*s.dof : (xi+1)*s.dof]
		if s.grid.IsBoundary(xi) {
			for i := range out {
				out[i] = 1.0 * block[i]
			}
			continue
		}
		for i := range out {
			out[i] = 0
		}
		left := conc[(xi-1)*s.dof : xi*s.dof]
		right := conc[(xi+1)*s.dof : (xi+2)*s.dof]

		if fluxIndex >= 0 {
			out[fluxIndex] += s.fluxHandler.IncidentFlux(xi, t)
		}
		hxLeft := s.grid.X[xi] - s.grid.X[xi-1]
		hxRight := s.grid.X[xi+1] - s.grid.X[xi]
		s.diffusionHandler.ComputeDiffusion(left, block, right, out, hxLeft, hxRight)
		for _, a := range s.advectionHandlers {
			a.ComputeAdvection(s.grid, xi, left, block, right, out)
		}
		s.mutationHandler.ComputeTrapMutation(xi, block, out)
		s.burstingHandler.ComputeBursting(xi, block, out)

		if err := s.network.UpdateConcentrationsFromArray(block); err != nil {
			return err
		}
		for _, c := range s.network.all {
			out[c.id-1] += c.TotalFlux()
		}
		for _, sc := range s.network.supers {
			sc.ContributeFlux(out)
		}
	}
	return nil
}

// ComputeOffDiagonalJacobian adds the transport couplings between
// neighboring grid points into mat: the three-point diffusion stencil
// and the two-point advection stencils.
func (s *SolverHandler) ComputeOffDiagonalJacobian(t float64, conc []float64, mat Matrix) error {
	if err := s.checkContext(); err != nil {
		return err
	}
	s.refreshTemperature(t)

	nDiff := len(s.diffusionHandler.DiffusingClusters())
	diffVals := make([]float64, 3*nDiff)
	diffIdx := make([]int, nDiff)
	maxAdv := 0
	for _, a := range s.advectionHandlers {
		if n := len(a.AdvectingClusters()); n > maxAdv {
			maxAdv = n
		}
	}
	advVals := make([]float64, 2*maxAdv)
	advIdx := make([]int, maxAdv)
	advOff := make([]int, 2*maxAdv)

	for xi := s.xs; xi < s.xs+s.xm; xi++ {
		if s.grid.IsBoundary(xi) {
			continue
		}
		hxLeft := s.grid.X[xi] - s.grid.X[xi-1]
		hxRight := s.grid.X[xi+1] - s.grid.X[xi]

		n := s.diffusionHandler.ComputePartials(diffVals, diffIdx, hxLeft, hxRight)
		for k := 0; k < n; k++ {
			i := diffIdx[k]
			row := MatStencil{I: xi, C: i}
			cols := []MatStencil{{I: xi, C: i}, {I: xi - 1, C: i}, {I: xi + 1, C: i}}
			if err := mat.AddValues(row, cols, diffVals[3*k:3*k+3]); err != nil {
				return fmt.Errorf("clusterdyn: assembling diffusion Jacobian at point %d: %v", xi, err)
			}
		}
		for _, a := range s.advectionHandlers {
			n := a.ComputePartials(s.grid, xi, advVals, advIdx, advOff)
			for k := 0; k < n; k++ {
				i := advIdx[k]
				row := MatStencil{I: xi, C: i}
				cols := []MatStencil{
					{I: xi + advOff[2*k], C: i},
					{I: xi + advOff[2*k+1], C: i},
				}
				if err := mat.AddValues(row, cols, advVals[2*k:2*k+2]); err != nil {
					return fmt.Errorf("clusterdyn: assembling advection Jacobian at point %d: %v", xi, err)
				}
			}
		}
	}
	return nil
}

// ComputeDiagonalJacobian adds the within-point couplings into mat:
// reaction partials gathered through the diagonal fill map, super
// cluster moment couplings, trap mutation, and bursting. The helium
// budget is reduced first, exactly as in EvaluateRHS.
func (s *SolverHandler) ComputeDiagonalJacobian(t float64, conc []float64, mat Matrix) error {
	if err := s.checkContext(); err != nil {
		return err
	}
	s.refreshTemperature(t)

	surfaceHe, err := s.reducer.AllReduceSum(s.surfaceHelium(conc))
	if err != nil {
		return fmt.Errorf("clusterdyn: reducing surface helium budget: %v", err)
	}
	s.mutationHandler.UpdateDisappearingRate(surfaceHe)

	nMut := len(s.mutationHandler.mutating)
	mutVals := make([]float64, 3*nMut)
	mutRows := make([]int, 3*nMut)
	mutCols := make([]int, nMut)
	nBurst := len(s.burstingHandler.bubbles)
	burstVals := make([]float64, 2*nBurst)
	burstRows := make([]int, 2*nBurst)
	burstCols := make([]int, nBurst)

	for xi := s.xs; xi < s.xs+s.xm; xi++ {
		if s.grid.IsBoundary(xi) {
			continue
		}
		block := conc[xi*s.dof : (xi+1)*s.dof]
		if err := s.network.UpdateConcentrationsFromArray(block); err != nil {
			return err
		}

		for _, c := range s.network.all {
			c.PartialDerivatives(s.clusterPartials)
			rowIdx := c.id - 1
			colIds := s.dFillMap[rowIdx]
			cols := make([]MatStencil, len(colIds))
			vals := make([]float64, len(colIds))
			for k, ci := range colIds {
				cols[k] = MatStencil{I: xi, C: ci}
				vals[k] = s.clusterPartials[ci]
				// Reset so the buffer is clean for the next cluster.
				s.clusterPartials[ci] = 0
			}
			row := MatStencil{I: xi, C: rowIdx}
			if err := mat.AddValues(row, cols, vals); err != nil {
				return fmt.Errorf("clusterdyn: assembling reaction Jacobian at point %d: %v", xi, err)
			}
		}

		for _, sc := range s.network.supers {
			sc.ContributePartials(s.superPartials, s.dof)
			emit := func(rowId int) error {
				colIds := s.dFillMap[rowId-1]
				cols := make([]MatStencil, 0, len(colIds))
				vals := make([]float64, 0, len(colIds))
				for _, ci := range colIds {
					v := s.superPartials[(rowId-1)*s.dof+ci]
					if v == 0 {
						continue
					}
					cols = append(cols, MatStencil{I: xi, C: ci})
					vals = append(vals, v)
					s.superPartials[(rowId-1)*s.dof+ci] = 0
				}
				if len(cols) == 0 {
					return nil
				}
				return mat.AddValues(MatStencil{I: xi, C: rowId - 1}, cols, vals)
			}
			rows := []int{sc.id, sc.momentId}
			if sc.heReactant != nil {
				rows = append(rows, sc.heReactant.id)
			}
			if sc.entrant != nil {
				rows = append(rows, sc.entrant.id)
			}
			for _, r := range rows {
				if err := emit(r); err != nil {
					return fmt.Errorf("clusterdyn: assembling super-cluster Jacobian at point %d: %v", xi, err)
				}
			}
		}

		n := s.mutationHandler.ComputePartials(xi, mutVals, mutRows, mutCols)
		for k := 0; k < n; k++ {
			col := []MatStencil{{I: xi, C: mutCols[k]}}
			for j := 0; j < 3; j++ {
				row := MatStencil{I: xi, C: mutRows[3*k+j]}
				if err := mat.AddValues(row, col, mutVals[3*k+j:3*k+j+1]); err != nil {
					return fmt.Errorf("clusterdyn: assembling trap-mutation Jacobian at point %d: %v", xi, err)
				}
			}
		}
		n = s.burstingHandler.ComputePartials(xi, burstVals, burstRows, burstCols)
		for k := 0; k < n; k++ {
			col := []MatStencil{{I: xi, C: burstCols[k]}}
			for j := 0; j < 2; j++ {
				row := MatStencil{I: xi, C: burstRows[2*k+j]}
				if err := mat.AddValues(row, col, burstVals[2*k+j:2*k+j+1]); err != nil {
					return fmt.Errorf("clusterdyn: assembling bursting Jacobian at point %d: %v", xi, err)
				}
			}
		}
	}
	return nil
}

// EvaluateJacobian assembles the full Jacobian, off-diagonal couplings
// first.
func (s *SolverHandler) EvaluateJacobian(t float64, conc []float64, mat Matrix) error {
	if err := s.ComputeOffDiagonalJacobian(t, conc, mat); err != nil {
		return err
	}
	return s.ComputeDiagonalJacobian(t, conc, mat)
}
