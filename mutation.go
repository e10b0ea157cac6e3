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

// Maximum depths below the surface at which helium clusters of size
// 1-7 undergo trap mutation [nm].
var trapMutationDepth = []float64{-0.1, 0.5, 0.6, 0.6, 0.8, 0.8, 0.8}

// Trap-mutation attempt rate [1/s].
const trapMutationRate = 1.0e10

// mutatingCluster is one admitted trap-mutation channel:
// He(n) -> HeV(n,1) + I(1).
type mutatingCluster struct {
	he      *Cluster
	product *Cluster
	i1      *Cluster
	depth   float64
}

// TrapMutationHandler converts helium clusters near the surface into
// helium-vacancy pairs, kicking out an interstitial. The channel
// attenuates as helium accumulates near the surface; the attenuation
// factor must be refreshed from the surface helium budget before each
// evaluation sweep.
type TrapMutationHandler struct {
	mutating []mutatingCluster
	// indices[xi] lists the channels active at grid point xi.
	indices [][]int

	heSaturation float64
	kDis         float64
}

// NewTrapMutationHandler creates a trap-mutation handler. heSaturation
// is the surface helium content [He/nm²] at which the channel shuts
// off; zero disables attenuation.
func NewTrapMutationHandler(heSaturation float64) *TrapMutationHandler {
	return &TrapMutationHandler{heSaturation: heSaturation, kDis: 1}
}

// Initialize resolves the mutation channels against the network and
// precomputes which channels are active at each grid point. It must be
// called again whenever the surface moves or the network connectivity
// changes.
func (h *TrapMutationHandler) Initialize(rn *ReactionNetwork, g *Grid) {
	h.mutating = nil
	i1 := rn.Get(I, 1)
	if i1 != nil {
		for n := 1; n <= len(trapMutationDepth); n++ {
			he := rn.Get(He, n)
			product := rn.GetCompound(Composition{He: n, V: 1})
			if he == nil || product == nil {
				continue
			}
			h.mutating = append(h.mutating, mutatingCluster{
				he: he, product: product, i1: i1,
				depth: trapMutationDepth[n-1],
			})
		}
	}
	h.indices = make([][]int, g.Size())
	for xi := range g.X {
		if g.IsBoundary(xi) {
			continue
		}
		depth := g.Depth(xi)
		for k, m := range h.mutating {
			if depth <= m.depth {
				h.indices[xi] = append(h.indices[xi], k)
			}
		}
	}
}

// UpdateDisappearingRate refreshes the attenuation factor from the
// total helium content near the surface [He/nm²]. It must run before
// the per-point sweep so every point sees the same factor.
func (h *TrapMutationHandler) UpdateDisappearingRate(surfaceHelium float64) {
	if h.heSaturation <= 0 {
		h.kDis = 1
		return
	}
	h.kDis = 1 - surfaceHelium/h.heSaturation
	if h.kDis < 0 {
		h.kDis = 0
	} else if h.kDis > 1 {
		h.kDis = 1
	}
}

// DisappearingFactor returns the current attenuation factor.
func (h *TrapMutationHandler) DisappearingFactor() float64 { return h.kDis }

// ComputeTrapMutation adds the mutation fluxes at grid point xi.
func (h *TrapMutationHandler) ComputeTrapMutation(xi int, conc, updated []float64) {
	if xi >= len(h.indices) {
		return
	}
	rate := trapMutationRate * h.kDis
	for _, k := range h.indices[xi] {
		m := h.mutating[k]
		f := rate * conc[m.he.id-1]
		updated[m.he.id-1] -= f
		updated[m.product.id-1] += f
		updated[m.i1.id-1] += f
	}
}

// ComputePartials fills the Jacobian entries for grid point xi: three
// rows per single column for each active channel. vals gets three
// entries per channel; rows gets three dof indices per channel; cols
// gets the single column per channel. It returns the number of active
// channels.
func (h *TrapMutationHandler) ComputePartials(xi int, vals []float64, rows, cols []int) int {
	if xi >= len(h.indices) {
		return 0
	}
	rate := trapMutationRate * h.kDis
	for n, k := range h.indices[xi] {
		m := h.mutating[k]
		vals[3*n] = -rate
		vals[3*n+1] = rate
		vals[3*n+2] = rate
		rows[3*n] = m.he.id - 1
		rows[3*n+1] = m.product.id - 1
		rows[3*n+2] = m.i1.id - 1
		cols[n] = m.he.id - 1
	}
	return len(h.indices[xi])
}

// FillDependencies reports the diagonal-block couplings the handler
// introduces.
func (h *TrapMutationHandler) FillDependencies(add func(row, col int)) {
	for _, m := range h.mutating {
		add(m.he.id, m.he.id)
		add(m.product.id, m.he.id)
		add(m.i1.id, m.he.id)
	}
}
