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
	"math"
)

// Species identifies the defect type of a cluster.
type Species string

// The species tracked by the reaction network. Mixed helium-vacancy
// clusters have their own tag; super clusters compress bands of large
// mixed clusters.
const (
	He    Species = "He"
	V     Species = "V"
	I     Species = "I"
	HeV   Species = "HeV"
	Super Species = "Super"
)

// Physical constants and material parameters (tungsten).
const (
	kBoltzmann   = 8.6173324e-5 // [eV/K]
	latticeParam = 0.317        // [nm]
	atomicVolume = latticeParam * latticeParam * latticeParam / 2.
)

// Composition is the number of helium atoms, vacancies, and
// interstitials making up a cluster. It uniquely identifies a cluster
// within a network.
type Composition struct {
	He, V, I int
}

// Size returns the total number of defects in the composition.
func (c Composition) Size() int { return c.He + c.V + c.I }

func (c Composition) String() string {
	return fmt.Sprintf("(He=%d, V=%d, I=%d)", c.He, c.V, c.I)
}

// species returns the species tag corresponding to the composition.
func (c Composition) species() Species {
	switch {
	case c.He > 0 && c.V > 0:
		return HeV
	case c.He > 0:
		return He
	case c.V > 0:
		return V
	default:
		return I
	}
}

// reactingPair is a pair of reactants that combine to produce the
// cluster holding the pair.
type reactingPair struct {
	first, second *Cluster
}

// combiningCluster is a reactant that combines with the cluster holding
// it, consuming both.
type combiningCluster struct {
	combining *Cluster
}

// dissociatingPair records a cluster that dissociates to produce the
// cluster holding the pair, together with the cluster emitted alongside
// it. The rate constant is stored so it only needs to be recomputed on
// temperature changes.
type dissociatingPair struct {
	dissociating *Cluster
	emitted      *Cluster
	rate         float64
}

// emissionPair records a dissociation of the cluster holding the pair
// into two products.
type emissionPair struct {
	first, second *Cluster
	rate          float64
}

// Cluster is a single tracked defect species: an immutable composition
// plus the mutable per-evaluation concentration and the reaction
// bookkeeping rebuilt whenever the network connectivity changes.
type Cluster struct {
	id            int // dense 1-based id; 0 means unassigned
	comp          Composition
	typ           Species
	concentration float64

	d0              float64 // diffusion pre-exponential [nm²/s]
	migrationEnergy float64 // [eV]
	formationEnergy float64 // [eV]
	diffusivity     float64 // at the current network temperature
	reactionRadius  float64 // [nm]

	network *ReactionNetwork

	reactingPairs []reactingPair
	combining     []combiningCluster
	dissociating  []dissociatingPair
	emission      []emissionPair

	// connectivity holds the ids of every cluster whose concentration
	// this cluster's flux depends on.
	connectivity map[int]bool
}

// newCluster creates a cluster for the given composition with diffusion
// and energy parameters from the material tables below.
func newCluster(comp Composition) *Cluster {
	c := &Cluster{
		comp:         comp,
		typ:          comp.species(),
		connectivity: make(map[int]bool),
	}
	n := float64(comp.Size())
	c.reactionRadius = latticeParam * math.Cbrt(3./(8.*math.Pi)*n)
	switch c.typ {
	case He:
		// Small helium clusters are mobile; migration energy grows
		// quickly with size.
		if comp.He <= len(heMigration) {
			c.d0 = 2.95e10
			c.migrationEnergy = heMigration[comp.He-1]
		}
		c.formationEnergy = heFormation(comp.He)
	case V:
		if comp.V == 1 {
			c.d0 = 1.8e12
			c.migrationEnergy = 1.30
		}
		c.formationEnergy = vFormation(comp.V)
	case I:
		if comp.I == 1 {
			c.d0 = 8.8e10
			c.migrationEnergy = 0.013
		}
		c.formationEnergy = iFormation(comp.I)
	case HeV:
		// Mixed clusters are treated as immobile.
		c.formationEnergy = heFormation(comp.He) + vFormation(comp.V)
	}
	return c
}

// Mobile helium migration energies for sizes 1-7 [eV].
var heMigration = []float64{0.13, 0.20, 0.25, 0.20, 0.12, 0.30, 0.35}

func heFormation(n int) float64 { return 6.15 + 2.3*float64(n-1) }
func vFormation(n int) float64 {
	return 3.6 + 2.59*(math.Pow(float64(n), 2./3.)-1.)
}
func iFormation(n int) float64 { return 10.0 + 4.8*float64(n-1) }

// Id returns the dense 1-based id of the cluster, or 0 if ids have not
// been assigned yet.
func (c *Cluster) Id() int { return c.id }

// Composition returns the cluster's composition.
func (c *Cluster) Composition() Composition { return c.comp }

// Type returns the cluster's species tag.
func (c *Cluster) Type() Species { return c.typ }

// Size returns the total number of defects in the cluster.
func (c *Cluster) Size() int { return c.comp.Size() }

// Concentration returns the scratch concentration most recently
// ingested by the network.
func (c *Cluster) Concentration() float64 { return c.concentration }

// Diffusivity returns the diffusion coefficient at the current network
// temperature [nm²/s]. Immobile clusters return 0.
func (c *Cluster) Diffusivity() float64 { return c.diffusivity }

// setTemperature recomputes the cluster's diffusion coefficient.
func (c *Cluster) setTemperature(temp float64) {
	if c.d0 == 0 || temp <= 0 {
		c.diffusivity = 0
		return
	}
	c.diffusivity = c.d0 * math.Exp(-c.migrationEnergy/(kBoltzmann*temp))
}

// reactionRate returns the rate constant for the combination of a and b
// [nm³/s], following the standard diffusion-limited form
// k = 4π(rA+rB)(DA+DB).
func reactionRate(a, b *Cluster) float64 {
	return 4. * math.Pi * (a.reactionRadius + b.reactionRadius) *
		(a.diffusivity + b.diffusivity)
}

// dissociationRate returns the rate constant for d dissociating into a
// and b [1/s], derived from the reverse reaction rate and the binding
// energy of the emitted pair.
func dissociationRate(d, a, b *Cluster, temp float64) float64 {
	if temp <= 0 {
		return 0
	}
	binding := a.formationEnergy + b.formationEnergy - d.formationEnergy
	if binding < 0 {
		binding = 0
	}
	return reactionRate(a, b) / atomicVolume *
		math.Exp(-binding/(kBoltzmann*temp))
}

// resetConnectivity drops all reaction bookkeeping so the network can
// rebuild it.
func (c *Cluster) resetConnectivity() {
	c.reactingPairs = nil
	c.combining = nil
	c.dissociating = nil
	c.emission = nil
	c.connectivity = make(map[int]bool)
}

// setReactionConnectivity marks the cluster with the given id as a flux
// dependency of c.
func (c *Cluster) setReactionConnectivity(id int) {
	if id > 0 {
		c.connectivity[id] = true
	}
}

// Connectivity returns a dense 0/1 vector over cluster ids (index i
// corresponds to id i+1) indicating which clusters c's flux depends on.
// The vector length equals the network size.
func (c *Cluster) Connectivity() []int {
	conn := make([]int, c.network.Size())
	for id := range c.connectivity {
		if id >= 1 && id <= len(conn) {
			conn[id-1] = 1
		}
	}
	return conn
}

// TotalFlux returns the net reaction-rate contribution for the cluster
// [1/(nm³·s)], evaluated from the network's current scratch
// concentrations: production by combination of smaller clusters and by
// dissociation of larger ones, minus consumption by combination and by
// this cluster's own dissociation.
func (c *Cluster) TotalFlux() float64 {
	var flux float64
	for _, p := range c.reactingPairs {
		flux += reactionRate(p.first, p.second) *
			p.first.concentration * p.second.concentration
	}
	for _, comb := range c.combining {
		flux -= reactionRate(c, comb.combining) *
			c.concentration * comb.combining.concentration
	}
	for _, d := range c.dissociating {
		flux += d.rate * d.dissociating.concentration
	}
	for _, e := range c.emission {
		flux -= e.rate * c.concentration
	}
	return flux
}

// PartialDerivatives adds ∂(flux)/∂(concentration) entries into
// partials, a dense buffer indexed by dof (id-1). Entries not touched
// are left alone: the caller owns zeroing the buffer, and is expected
// to reset the touched entries back to zero after reading them so the
// buffer can be reused across grid points.
func (c *Cluster) PartialDerivatives(partials []float64) {
	for _, p := range c.reactingPairs {
		rate := reactionRate(p.first, p.second)
		partials[p.first.id-1] += rate * p.second.concentration
		partials[p.second.id-1] += rate * p.first.concentration
	}
	for _, comb := range c.combining {
		rate := reactionRate(c, comb.combining)
		partials[c.id-1] -= rate * comb.combining.concentration
		partials[comb.combining.id-1] -= rate * c.concentration
	}
	for _, d := range c.dissociating {
		partials[d.dissociating.id-1] += d.rate
	}
	for _, e := range c.emission {
		partials[c.id-1] -= e.rate
	}
}
