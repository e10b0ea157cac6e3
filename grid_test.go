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

import "testing"

func TestGridValidation(t *testing.T) {
	if _, err := NewUniformGrid(1, 1.0); err == nil {
		t.Error("expected an error for a single-point grid")
	}
	if _, err := NewUniformGrid(5, 0); err == nil {
		t.Error("expected an error for zero spacing")
	}
	if _, err := NewGrid([]float64{0, 1, 1}); err == nil {
		t.Error("expected an error for non-increasing coordinates")
	}
	if _, err := NewGrid([]float64{0, 1, 0.5}); err == nil {
		t.Error("expected an error for decreasing coordinates")
	}
}

func TestGridBoundaries(t *testing.T) {
	g, err := NewUniformGrid(6, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	wantBoundary := map[int]bool{0: true, 5: true}
	for i := 0; i < g.Size(); i++ {
		if g.IsBoundary(i) != wantBoundary[i] {
			t.Errorf("point %d: boundary %v, want %v", i, g.IsBoundary(i), wantBoundary[i])
		}
	}

	g.SurfacePosition = 2
	for i := 0; i < g.Size(); i++ {
		want := i <= 2 || i == 5
		if g.IsBoundary(i) != want {
			t.Errorf("surface at 2, point %d: boundary %v, want %v", i, g.IsBoundary(i), want)
		}
	}
	if absDifferent(g.Depth(4), 1.0, 1e-15) {
		t.Errorf("depth of point 4 with surface at 2: %g, want 1.0", g.Depth(4))
	}
}
