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

// Bursting parameters: maximum depth below the surface [nm], minimum
// helium-to-vacancy ratio for an overpressurized bubble, and the burst
// attempt rate [1/s].
const (
	burstingDepth    = 10.0
	burstingMinRatio = 4.0
	burstingRate     = 1.0e8
)

// burstingBubble is one admitted bursting channel:
// HeV(he,v) -> V(v), the helium venting to the surface.
type burstingBubble struct {
	bubble  *Cluster
	vResult *Cluster
}

// BubbleBurstingHandler vents overpressurized helium bubbles near the
// surface, leaving their vacancy content behind.
type BubbleBurstingHandler struct {
	bubbles []burstingBubble
	// indices[xi] lists the channels active at grid point xi.
	indices [][]int
}

// NewBubbleBurstingHandler creates a bursting handler.
func NewBubbleBurstingHandler() *BubbleBurstingHandler {
	return &BubbleBurstingHandler{}
}

// Initialize resolves the bursting channels against the network and
// precomputes which are active at each grid point. It must be called
// again whenever the surface moves or the network connectivity changes.
func (h *BubbleBurstingHandler) Initialize(rn *ReactionNetwork, g *Grid) {
	h.bubbles = nil
	for _, c := range rn.GetAll(HeV) {
		if float64(c.comp.He) < burstingMinRatio*float64(c.comp.V) {
			continue
		}
		vResult := rn.Get(V, c.comp.V)
		if vResult == nil {
			continue
		}
		h.bubbles = append(h.bubbles, burstingBubble{bubble: c, vResult: vResult})
	}
	h.indices = make([][]int, g.Size())
	for xi := range g.X {
		if g.IsBoundary(xi) {
			continue
		}
		if g.Depth(xi) > burstingDepth {
			continue
		}
		for k := range h.bubbles {
			h.indices[xi] = append(h.indices[xi], k)
		}
	}
}

// ComputeBursting adds the bursting fluxes at grid point xi.
func (h *BubbleBurstingHandler) ComputeBursting(xi int, conc, updated []float64) {
	if xi >= len(h.indices) {
		return
	}
	for _, k := range h.indices[xi] {
		b := h.bubbles[k]
		f := burstingRate * conc[b.bubble.id-1]
		updated[b.bubble.id-1] -= f
		updated[b.vResult.id-1] += f
	}
}

// ComputePartials fills the Jacobian entries for grid point xi: two
// rows per single column for each active channel. It returns the
// number of active channels.
func (h *BubbleBurstingHandler) ComputePartials(xi int, vals []float64, rows, cols []int) int {
	if xi >= len(h.indices) {
		return 0
	}
	for n, k := range h.indices[xi] {
		b := h.bubbles[k]
		vals[2*n] = -burstingRate
		vals[2*n+1] = burstingRate
		rows[2*n] = b.bubble.id - 1
		rows[2*n+1] = b.vResult.id - 1
		cols[n] = b.bubble.id - 1
	}
	return len(h.indices[xi])
}

// FillDependencies reports the diagonal-block couplings the handler
// introduces.
func (h *BubbleBurstingHandler) FillDependencies(add func(row, col int)) {
	for _, b := range h.bubbles {
		add(b.bubble.id, b.bubble.id)
		add(b.vResult.id, b.bubble.id)
	}
}
