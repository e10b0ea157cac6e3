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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "clusterdyn")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "checkpoint.nc")

	g, err := NewUniformGrid(5, 1.25)
	if err != nil {
		t.Fatal(err)
	}
	g.SurfacePosition = 1
	const dof = 4
	state := make([]float64, g.Size()*dof)
	state[1*dof+0] = 1.25e-3
	state[2*dof+3] = 7.5e-7
	state[3*dof+1] = 42.0

	if err := WriteCheckpoint(path, g, dof, state); err != nil {
		t.Fatal(err)
	}
	cp, err := ReadCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}

	if cp.SurfacePosition != 1 {
		t.Errorf("surface position %d, want 1", cp.SurfacePosition)
	}
	if cp.DOF != dof {
		t.Errorf("dof %d, want %d", cp.DOF, dof)
	}
	for i, x := range g.X {
		if absDifferent(cp.Grid[i], x, 1e-12) {
			t.Errorf("grid point %d: %g, want %g", i, cp.Grid[i], x)
		}
	}

	restored := make([]float64, len(state))
	for xi, pairs := range cp.Concentrations {
		for _, p := range pairs {
			restored[xi*dof+p.Index] = p.Value
		}
	}
	for i := range state {
		if absDifferent(restored[i], state[i], 1e-12) {
			t.Errorf("entry %d: %g, want %g", i, restored[i], state[i])
		}
	}
	// Zero entries must not be listed.
	for xi, pairs := range cp.Concentrations {
		for _, p := range pairs {
			if p.Value == 0 {
				t.Errorf("point %d lists a zero entry at index %d", xi, p.Index)
			}
		}
	}
}

func TestCheckpointWriterTemplate(t *testing.T) {
	w, err := NewCheckpointWriter("run_[step].nc")
	if err != nil {
		t.Fatal(err)
	}
	if name := w.FileName(12); name != "run_12.nc" {
		t.Errorf("got filename %q, want run_12.nc", name)
	}
	if _, err := NewCheckpointWriter("run.nc"); err == nil {
		t.Error("expected an error for a template without [step]")
	}
}

// TestCheckpointRestart runs the restore path end to end: the restored
// concentrations and surface position override the configured initial
// state.
func TestCheckpointRestart(t *testing.T) {
	dir, err := ioutil.TempDir("", "clusterdyn")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "restart.nc")

	cfg := DefaultConfig()
	cfg.MaxClusterSize = 4
	cfg.NX = 6
	cfg.InitialVConc = 0.05

	src, err := NewSolverHandler(cfg)
	if err != nil {
		t.Fatal(err)
	}
	dof, _, _, err := src.CreateContext()
	if err != nil {
		t.Fatal(err)
	}
	state, err := src.InitializeState()
	if err != nil {
		t.Fatal(err)
	}
	he1 := src.Network().Get(He, 1)
	state[2*dof+he1.Id()-1] = 3.25e-4
	src.GridOf().SurfacePosition = 1
	if err := WriteCheckpoint(path, src.GridOf(), dof, state); err != nil {
		t.Fatal(err)
	}

	cfg.RestartFrom = path
	dst, err := NewSolverHandler(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := dst.CreateContext(); err != nil {
		t.Fatal(err)
	}
	restored, err := dst.InitializeState()
	if err != nil {
		t.Fatal(err)
	}
	if dst.GridOf().SurfacePosition != 1 {
		t.Errorf("surface position %d after restart, want 1", dst.GridOf().SurfacePosition)
	}
	if absDifferent(restored[2*dof+he1.Id()-1], 3.25e-4, 1e-12) {
		t.Errorf("restored helium concentration %g, want 3.25e-4", restored[2*dof+he1.Id()-1])
	}
	v1 := dst.Network().Get(V, 1)
	if absDifferent(restored[3*dof+v1.Id()-1], 0.05, 1e-12) {
		t.Errorf("seeded vacancy concentration %g, want 0.05", restored[3*dof+v1.Id()-1])
	}
}

// TestCheckpointRestartMismatch checks that a checkpoint written on a
// different mesh or network is rejected instead of restoring misaligned
// rows.
func TestCheckpointRestartMismatch(t *testing.T) {
	dir, err := ioutil.TempDir("", "clusterdyn")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "mismatch.nc")

	cfg := DefaultConfig()
	cfg.MaxClusterSize = 4
	cfg.NX = 6

	src, err := NewSolverHandler(cfg)
	if err != nil {
		t.Fatal(err)
	}
	dof, _, _, err := src.CreateContext()
	if err != nil {
		t.Fatal(err)
	}
	state, err := src.InitializeState()
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteCheckpoint(path, src.GridOf(), dof, state); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		mutate func(c *SimulationConfig)
	}{
		{"fewer points", func(c *SimulationConfig) { c.NX = 5 }},
		{"different mesh", func(c *SimulationConfig) { c.StepSize = 0.5 }},
		{"larger network", func(c *SimulationConfig) { c.MaxClusterSize = 5 }},
	}
	for _, tc := range cases {
		c := cfg
		c.RestartFrom = path
		tc.mutate(&c)
		dst, err := NewSolverHandler(c)
		if err != nil {
			t.Fatal(err)
		}
		if _, _, _, err := dst.CreateContext(); err != nil {
			t.Fatal(err)
		}
		if _, err := dst.InitializeState(); err == nil {
			t.Errorf("%s: expected an error restoring a mismatched checkpoint", tc.name)
		}
	}
}
