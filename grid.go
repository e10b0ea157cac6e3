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

import "fmt"

// Grid is the one-dimensional spatial mesh the model evolves on. The
// surface sits at a grid index; everything at or left of it, and the
// rightmost point, are boundary points whose concentrations are not
// evolved.
type Grid struct {
	// X holds the strictly increasing point coordinates [nm].
	X []float64
	// SurfacePosition is the index of the material surface. It only
	// moves under an explicitly configured moving-surface policy.
	SurfacePosition int
}

// NewUniformGrid creates a grid of nx points with the given spacing,
// starting at zero, with the surface at index 0.
func NewUniformGrid(nx int, stepSize float64) (*Grid, error) {
	if nx < 2 || stepSize <= 0 {
		return nil, fmt.Errorf("clusterdyn: invalid grid dimensions nx=%d stepSize=%g", nx, stepSize)
	}
	g := &Grid{X: make([]float64, nx)}
	for i := range g.X {
		g.X[i] = float64(i) * stepSize
	}
	return g, nil
}

// NewGrid creates a grid from explicit point coordinates, which must be
// strictly increasing.
func NewGrid(x []float64) (*Grid, error) {
	if len(x) < 2 {
		return nil, fmt.Errorf("clusterdyn: grid needs at least 2 points, got %d", len(x))
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("clusterdyn: grid coordinates not strictly increasing at index %d", i)
		}
	}
	g := &Grid{X: make([]float64, len(x))}
	copy(g.X, x)
	return g, nil
}

// Size returns the number of grid points.
func (g *Grid) Size() int { return len(g.X) }

// IsBoundary reports whether index i is a boundary point: at or left of
// the surface, or the last point.
func (g *Grid) IsBoundary(i int) bool {
	return i <= g.SurfacePosition || i == len(g.X)-1
}

// Depth returns the distance of point i from the surface [nm].
func (g *Grid) Depth(i int) float64 {
	return g.X[i] - g.X[g.SurfacePosition]
}
