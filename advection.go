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

import "github.com/ctessum/sparse"

// AdvectionHandler drifts mobile clusters toward an attracting plane.
// The solver keeps its handlers in a fixed order with the surface
// handler first, since the surface handler defines which clusters the
// others may not touch twice.
type AdvectionHandler interface {
	// Initialize resolves the advecting clusters and marks the
	// off-diagonal fill entries the handler needs.
	Initialize(rn *ReactionNetwork, ofill *sparse.DenseArrayInt)
	// ComputeAdvection adds the advective flux at grid point xi into
	// updated, reading the left, mid, and right concentration blocks.
	ComputeAdvection(g *Grid, xi int, left, mid, right, updated []float64)
	// ComputePartials fills two stencil coefficients per advecting
	// cluster into vals, the dof indices into indices, and the column
	// point offsets into offsets (two per cluster, relative to xi). It
	// returns the number of advecting clusters.
	ComputePartials(g *Grid, xi int, vals []float64, indices, offsets []int) int
	// AdvectingClusters returns the clusters the handler moves.
	AdvectingClusters() []*Cluster
}

// Thermal-gradient sink strengths for surface-directed drift of small
// helium clusters [eV·nm³].
var surfaceSinkStrength = []float64{2.28e-3, 5.06e-3, 7.26e-3, 6.21e-3, 5.55e-3, 6.04e-3, 6.20e-3}

// SurfaceAdvectionHandler drifts small helium clusters toward the
// material surface with a drift speed falling off as the fourth power
// of the depth.
type SurfaceAdvectionHandler struct {
	advecting []*Cluster
	strength  map[int]float64
}

// NewSurfaceAdvectionHandler creates a surface advection handler.
func NewSurfaceAdvectionHandler() *SurfaceAdvectionHandler {
	return &SurfaceAdvectionHandler{}
}

// Initialize collects the mobile helium clusters with a tabulated sink
// strength and marks their diagonal fill entries.
func (h *SurfaceAdvectionHandler) Initialize(rn *ReactionNetwork, ofill *sparse.DenseArrayInt) {
	h.advecting = nil
	h.strength = make(map[int]float64)
	for n := 1; n <= len(surfaceSinkStrength); n++ {
		c := rn.Get(He, n)
		if c == nil || c.d0 == 0 {
			continue
		}
		h.advecting = append(h.advecting, c)
		h.strength[c.id] = surfaceSinkStrength[n-1]
		ofill.Set(1, c.id-1, c.id-1)
	}
}

// AdvectingClusters returns the drifting helium clusters.
func (h *SurfaceAdvectionHandler) AdvectingClusters() []*Cluster { return h.advecting }

func (h *SurfaceAdvectionHandler) conv(c *Cluster, hx float64) float64 {
	return 3. * h.strength[c.id] * c.diffusivity /
		(kBoltzmann * c.network.temperature * hx)
}

// ComputeAdvection adds the surface-directed drift at xi. The upwind
// neighbor is the point one step deeper into the material.
func (h *SurfaceAdvectionHandler) ComputeAdvection(g *Grid, xi int,
	left, mid, right, updated []float64) {
	hx := g.X[xi+1] - g.X[xi]
	dm := g.Depth(xi)
	dr := g.Depth(xi + 1)
	for _, c := range h.advecting {
		i := c.id - 1
		cv := h.conv(c, hx)
		updated[i] += cv * (right[i]/pow4(dr) - mid[i]/pow4(dm))
	}
}

// ComputePartials fills the two-point stencil (mid, right) coefficients
// for each drifting cluster.
func (h *SurfaceAdvectionHandler) ComputePartials(g *Grid, xi int,
	vals []float64, indices, offsets []int) int {
	hx := g.X[xi+1] - g.X[xi]
	dm := g.Depth(xi)
	dr := g.Depth(xi + 1)
	for k, c := range h.advecting {
		cv := h.conv(c, hx)
		vals[2*k] = -cv / pow4(dm)
		vals[2*k+1] = cv / pow4(dr)
		indices[k] = c.id - 1
		offsets[2*k] = 0
		offsets[2*k+1] = 1
	}
	return len(h.advecting)
}

// SinkAdvectionHandler drifts small helium clusters toward a fixed sink
// plane inside the material, a grain boundary or a dislocation wall. A
// point lying on the sink gains from both neighbors instead of losing
// toward one side.
type SinkAdvectionHandler struct {
	location  float64
	advecting []*Cluster
	strength  map[int]float64
}

// NewSinkAdvectionHandler creates a sink advection handler with the
// sink plane at the given coordinate [nm].
func NewSinkAdvectionHandler(location float64) *SinkAdvectionHandler {
	return &SinkAdvectionHandler{location: location}
}

// Initialize collects the drifting clusters and marks their diagonal
// fill entries.
func (h *SinkAdvectionHandler) Initialize(rn *ReactionNetwork, ofill *sparse.DenseArrayInt) {
	h.advecting = nil
	h.strength = make(map[int]float64)
	for n := 1; n <= len(surfaceSinkStrength); n++ {
		c := rn.Get(He, n)
		if c == nil || c.d0 == 0 {
			continue
		}
		h.advecting = append(h.advecting, c)
		h.strength[c.id] = surfaceSinkStrength[n-1]
		ofill.Set(1, c.id-1, c.id-1)
	}
}

// AdvectingClusters returns the drifting helium clusters.
func (h *SinkAdvectionHandler) AdvectingClusters() []*Cluster { return h.advecting }

// isPointOnSink reports whether grid point xi lies on the sink plane.
func (h *SinkAdvectionHandler) isPointOnSink(g *Grid, xi int) bool {
	const tol = 1e-9
	d := g.X[xi] - h.location
	return d > -tol && d < tol
}

func (h *SinkAdvectionHandler) conv(c *Cluster, hx float64) float64 {
	return 3. * h.strength[c.id] * c.diffusivity /
		(kBoltzmann * c.network.temperature * hx)
}

// ComputeAdvection adds the sink-directed drift at xi.
func (h *SinkAdvectionHandler) ComputeAdvection(g *Grid, xi int,
	left, mid, right, updated []float64) {
	if h.isPointOnSink(g, xi) {
		hx := g.X[xi+1] - g.X[xi-1]
		dl := dist4(g.X[xi-1], h.location)
		dr := dist4(g.X[xi+1], h.location)
		for _, c := range h.advecting {
			i := c.id - 1
			cv := h.conv(c, hx)
			updated[i] += cv * (left[i]/dl + right[i]/dr)
		}
		return
	}
	// Off the sink the drift behaves like surface advection, with the
	// upwind neighbor on the side away from the sink.
	toward := 1
	neighbor := right
	if g.X[xi] > h.location {
		toward = -1
		neighbor = left
	}
	hx := g.X[xi+toward] - g.X[xi]
	if hx < 0 {
		hx = -hx
	}
	dm := dist4(g.X[xi], h.location)
	dn := dist4(g.X[xi+toward], h.location)
	for _, c := range h.advecting {
		i := c.id - 1
		cv := h.conv(c, hx)
		updated[i] += cv * (neighbor[i]/dn - mid[i]/dm)
	}
}

// ComputePartials fills the two-point stencil for each drifting
// cluster. On the sink the stencil spans the two neighbors; elsewhere
// it spans the point itself and the neighbor away from the sink.
func (h *SinkAdvectionHandler) ComputePartials(g *Grid, xi int,
	vals []float64, indices, offsets []int) int {
	if h.isPointOnSink(g, xi) {
		hx := g.X[xi+1] - g.X[xi-1]
		dl := dist4(g.X[xi-1], h.location)
		dr := dist4(g.X[xi+1], h.location)
		for k, c := range h.advecting {
			cv := h.conv(c, hx)
			vals[2*k] = cv / dl
			vals[2*k+1] = cv / dr
			indices[k] = c.id - 1
			offsets[2*k] = -1
			offsets[2*k+1] = 1
		}
		return len(h.advecting)
	}
	toward := 1
	if g.X[xi] > h.location {
		toward = -1
	}
	hx := g.X[xi+toward] - g.X[xi]
	if hx < 0 {
		hx = -hx
	}
	dm := dist4(g.X[xi], h.location)
	dn := dist4(g.X[xi+toward], h.location)
	for k, c := range h.advecting {
		cv := h.conv(c, hx)
		vals[2*k] = -cv / dm
		vals[2*k+1] = cv / dn
		indices[k] = c.id - 1
		offsets[2*k] = 0
		offsets[2*k+1] = toward
	}
	return len(h.advecting)
}

func pow4(x float64) float64 { return x * x * x * x }

func dist4(x, loc float64) float64 {
	d := x - loc
	if d < 0 {
		d = -d
	}
	return pow4(d)
}
