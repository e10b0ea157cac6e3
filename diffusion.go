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

// DiffusionHandler applies Fickian diffusion to every mobile cluster
// using a three-point stencil on a possibly nonuniform grid.
type DiffusionHandler struct {
	diffusing []*Cluster
}

// Initialize collects the mobile clusters and marks their diagonal
// entries in the off-diagonal fill pattern, since diffusion couples a
// cluster to itself at the neighboring grid points.
func (h *DiffusionHandler) Initialize(rn *ReactionNetwork, ofill *sparse.DenseArrayInt) {
	h.diffusing = nil
	for _, typ := range []Species{He, V, I} {
		for _, c := range rn.GetAll(typ) {
			if c.d0 > 0 {
				h.diffusing = append(h.diffusing, c)
				ofill.Set(1, c.id-1, c.id-1)
			}
		}
	}
}

// DiffusingClusters returns the mobile clusters.
func (h *DiffusionHandler) DiffusingClusters() []*Cluster { return h.diffusing }

// ComputeDiffusion adds the diffusive flux at a grid point into
// updated. left, mid, and right are the concentration blocks of the
// three stencil points; hxLeft and hxRight are the adjacent spacings.
func (h *DiffusionHandler) ComputeDiffusion(left, mid, right, updated []float64,
	hxLeft, hxRight float64) {
	for _, c := range h.diffusing {
		i := c.id - 1
		d := c.diffusivity
		updated[i] += d * (2.*left[i]/(hxLeft*(hxLeft+hxRight)) -
			2.*mid[i]/(hxLeft*hxRight) +
			2.*right[i]/(hxRight*(hxLeft+hxRight)))
	}
}

// ComputePartials fills vals with the three stencil coefficients
// (middle, left, right) for each mobile cluster and indices with the
// corresponding dof indices. vals must hold 3 entries per mobile
// cluster. It returns the number of mobile clusters.
func (h *DiffusionHandler) ComputePartials(vals []float64, indices []int,
	hxLeft, hxRight float64) int {
	for k, c := range h.diffusing {
		d := c.diffusivity
		vals[3*k] = -2. * d / (hxLeft * hxRight)
		vals[3*k+1] = 2. * d / (hxLeft * (hxLeft + hxRight))
		vals[3*k+2] = 2. * d / (hxRight * (hxLeft + hxRight))
		indices[k] = c.id - 1
	}
	return len(h.diffusing)
}
