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
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
)

// ConcPair is one nonzero concentration entry restored from a
// checkpoint: a dof index within a grid point and its value.
type ConcPair struct {
	Index int
	Value float64
}

// Checkpoint is the state read back from a checkpoint file.
type Checkpoint struct {
	Grid            []float64
	SurfacePosition int
	DOF             int
	// Concentrations holds, per grid point, the nonzero entries of the
	// stored state. Unlisted entries are zero.
	Concentrations map[int][]ConcPair
}

// CheckpointWriter writes one NetCDF checkpoint file per saved step.
// The filename template must contain the token [step], which is
// replaced by the step number.
type CheckpointWriter struct {
	template string
}

// NewCheckpointWriter creates a checkpoint writer from a filename
// template containing [step].
func NewCheckpointWriter(template string) (*CheckpointWriter, error) {
	if !strings.Contains(template, "[step]") {
		return nil, fmt.Errorf("clusterdyn: checkpoint template %q does not contain [step]", template)
	}
	return &CheckpointWriter{template: template}, nil
}

// FileName returns the checkpoint filename for the given step.
func (w *CheckpointWriter) FileName(step int) string {
	return strings.Replace(w.template, "[step]", strconv.Itoa(step), -1)
}

// Save writes the grid, surface position, and full concentration state
// for one step.
func (w *CheckpointWriter) Save(step int, g *Grid, dof int, state []float64) error {
	return WriteCheckpoint(w.FileName(step), g, dof, state)
}

// WriteCheckpoint writes a checkpoint file. state must hold one dof
// block per grid point.
func WriteCheckpoint(path string, g *Grid, dof int, state []float64) error {
	nx := g.Size()
	if len(state) != nx*dof {
		return fmt.Errorf("clusterdyn: state length %d does not match %d points × %d dof", len(state), nx, dof)
	}
	h := cdf.NewHeader([]string{"x", "dof"}, []int{nx, dof})
	h.AddVariable("grid", []string{"x"}, []float64{0})
	h.AddAttribute("grid", "units", "nm")
	h.AddVariable("concentration", []string{"x", "dof"}, []float64{0})
	h.AddAttribute("concentration", "units", "nm**-3")
	h.AddAttribute("", "surfacePosition", []int32{int32(g.SurfacePosition)})
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return fmt.Errorf("clusterdyn: building checkpoint header: %v", errs)
	}
	ws, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("clusterdyn: creating checkpoint %s: %v", path, err)
	}
	defer ws.Close()
	f, err := cdf.Create(ws, h)
	if err != nil {
		return fmt.Errorf("clusterdyn: writing checkpoint %s: %v", path, err)
	}
	wr := f.Writer("grid", []int{0}, []int{nx})
	if _, err := wr.Write(g.X); err != nil {
		return fmt.Errorf("clusterdyn: writing checkpoint grid: %v", err)
	}
	wr = f.Writer("concentration", []int{0, 0}, []int{nx, dof})
	if _, err := wr.Write(state); err != nil {
		return fmt.Errorf("clusterdyn: writing checkpoint concentrations: %v", err)
	}
	return nil
}

// ReadCheckpoint reads a checkpoint file, returning the stored grid,
// surface position, and the nonzero concentration entries per point.
func ReadCheckpoint(path string) (*Checkpoint, error) {
	rs, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("clusterdyn: opening checkpoint %s: %v", path, err)
	}
	defer rs.Close()
	f, err := cdf.Open(rs)
	if err != nil {
		return nil, fmt.Errorf("clusterdyn: reading checkpoint %s: %v", path, err)
	}
	lengths := f.Header.Lengths("concentration")
	if len(lengths) != 2 {
		return nil, fmt.Errorf("clusterdyn: checkpoint %s has malformed concentration dimensions %v", path, lengths)
	}
	nx, dof := lengths[0], lengths[1]

	cp := &Checkpoint{DOF: dof, Concentrations: make(map[int][]ConcPair)}

	r := f.Reader("grid", nil, nil)
	gridBuf := r.Zero(nx)
	if _, err := r.Read(gridBuf); err != nil {
		return nil, fmt.Errorf("clusterdyn: reading checkpoint grid: %v", err)
	}
	cp.Grid = gridBuf.([]float64)

	switch sp := f.Header.GetAttribute("", "surfacePosition").(type) {
	case []int32:
		if len(sp) > 0 {
			cp.SurfacePosition = int(sp[0])
		}
	default:
		return nil, fmt.Errorf("clusterdyn: checkpoint %s is missing the surface position", path)
	}

	r = f.Reader("concentration", nil, nil)
	concBuf := r.Zero(nx * dof)
	if _, err := r.Read(concBuf); err != nil {
		return nil, fmt.Errorf("clusterdyn: reading checkpoint concentrations: %v", err)
	}
	conc := concBuf.([]float64)
	for xi := 0; xi < nx; xi++ {
		for i := 0; i < dof; i++ {
			if v := conc[xi*dof+i]; v != 0 {
				cp.Concentrations[xi] = append(cp.Concentrations[xi],
					ConcPair{Index: i, Value: v})
			}
		}
	}
	return cp, nil
}
