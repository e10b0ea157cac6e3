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
	"strconv"
)

// ReactionNetwork owns every cluster tracked by the model along with
// the reaction graph connecting them. It carries a single scratch
// concentration state that is shared across the whole spatial grid, so
// a caller must ingest the concentrations for a grid point before
// asking for fluxes or partial derivatives at that point.
type ReactionNetwork struct {
	clusters map[Composition]*Cluster
	// ordered cluster list; index i holds the cluster with id i+1.
	all    []*Cluster
	supers []*SuperCluster

	properties  map[string]string
	temperature float64

	maxClusterSize       int
	dissociationsEnabled bool
	initialized          bool

	// generation increments every time connectivities are rebuilt,
	// invalidating any cached fill patterns derived from the network.
	generation int
}

// NewReactionNetwork creates a network containing single-species He, V,
// and I clusters of sizes 1 through maxClusterSize and every mixed HeV
// cluster whose total size does not exceed maxClusterSize.
// Dissociation reactions are enabled by default. The network has no
// temperature yet; call SetTemperature before evaluating fluxes.
func NewReactionNetwork(maxClusterSize int) (*ReactionNetwork, error) {
	if maxClusterSize < 1 {
		return nil, fmt.Errorf("clusterdyn: invalid maximum cluster size %d", maxClusterSize)
	}
	rn := &ReactionNetwork{
		clusters:             make(map[Composition]*Cluster),
		properties:           make(map[string]string),
		maxClusterSize:       maxClusterSize,
		dissociationsEnabled: true,
	}
	for n := 1; n <= maxClusterSize; n++ {
		rn.add(Composition{He: n})
	}
	for n := 1; n <= maxClusterSize; n++ {
		rn.add(Composition{V: n})
	}
	for n := 1; n <= maxClusterSize; n++ {
		rn.add(Composition{I: n})
	}
	numHeV := 0
	for v := 1; v < maxClusterSize; v++ {
		for he := 1; he+v <= maxClusterSize; he++ {
			rn.add(Composition{He: he, V: v})
			numHeV++
		}
	}
	rn.properties["maxHeClusterSize"] = strconv.Itoa(maxClusterSize)
	rn.properties["maxVClusterSize"] = strconv.Itoa(maxClusterSize)
	rn.properties["maxIClusterSize"] = strconv.Itoa(maxClusterSize)
	rn.properties["maxHeVClusterSize"] = strconv.Itoa(maxClusterSize)
	rn.properties["numHeClusters"] = strconv.Itoa(maxClusterSize)
	rn.properties["numVClusters"] = strconv.Itoa(maxClusterSize)
	rn.properties["numIClusters"] = strconv.Itoa(maxClusterSize)
	rn.properties["numHeVClusters"] = strconv.Itoa(numHeV)
	rn.properties["numSuperClusters"] = "0"
	rn.properties["dissociationsEnabled"] = "true"
	return rn, nil
}

func (rn *ReactionNetwork) add(comp Composition) {
	c := newCluster(comp)
	c.network = rn
	rn.clusters[comp] = c
	rn.all = append(rn.all, c)
	c.id = len(rn.all)
}

// Size returns the number of clusters in the network, super clusters
// included.
func (rn *ReactionNetwork) Size() int { return len(rn.all) + len(rn.supers) }

// DOF returns the number of degrees of freedom per grid point: one per
// cluster plus one per super-cluster moment.
func (rn *ReactionNetwork) DOF() int { return rn.Size() + len(rn.supers) }

// Generation returns the connectivity generation counter. Cached fill
// patterns are valid only while the generation is unchanged.
func (rn *ReactionNetwork) Generation() int { return rn.generation }

// Temperature returns the network temperature [K], 0 before the first
// SetTemperature call.
func (rn *ReactionNetwork) Temperature() float64 { return rn.temperature }

// Property returns the value stored for the given property key, or ""
// if the key is absent.
func (rn *ReactionNetwork) Property(key string) string { return rn.properties[key] }

// Get returns the single-species cluster of the given type and size, or
// nil if the network does not contain it. A nil result means the
// corresponding physics is simply absent, not an error.
func (rn *ReactionNetwork) Get(typ Species, size int) *Cluster {
	var comp Composition
	switch typ {
	case He:
		comp = Composition{He: size}
	case V:
		comp = Composition{V: size}
	case I:
		comp = Composition{I: size}
	default:
		return nil
	}
	return rn.clusters[comp]
}

// GetCompound returns the mixed cluster with the given composition, or
// nil if absent.
func (rn *ReactionNetwork) GetCompound(comp Composition) *Cluster {
	return rn.clusters[comp]
}

// GetAll returns the clusters of the given species in ascending size
// order. The result is nil when the network holds none.
func (rn *ReactionNetwork) GetAll(typ Species) []*Cluster {
	var out []*Cluster
	for _, c := range rn.all {
		if c.typ == typ {
			out = append(out, c)
		}
	}
	return out
}

// SuperClusters returns the network's super clusters in id order.
func (rn *ReactionNetwork) SuperClusters() []*SuperCluster { return rn.supers }

// SetDissociationsEnabled switches dissociation reactions on or off and
// rebuilds the reaction graph if the setting changed.
func (rn *ReactionNetwork) SetDissociationsEnabled(enabled bool) {
	if rn.dissociationsEnabled == enabled {
		return
	}
	rn.dissociationsEnabled = enabled
	rn.properties["dissociationsEnabled"] = strconv.FormatBool(enabled)
	if rn.initialized {
		rn.ReinitializeConnectivities()
	}
}

// DissociationsEnabled reports whether dissociation reactions are part
// of the reaction graph.
func (rn *ReactionNetwork) DissociationsEnabled() bool { return rn.dissociationsEnabled }

// SetTemperature sets the network temperature and recomputes every
// temperature-dependent rate. The first call also builds the reaction
// graph.
func (rn *ReactionNetwork) SetTemperature(temp float64) {
	rn.temperature = temp
	for _, c := range rn.all {
		c.setTemperature(temp)
	}
	for _, s := range rn.supers {
		s.setTemperature(temp)
	}
	if !rn.initialized {
		rn.initialized = true
		rn.ReinitializeConnectivities()
		return
	}
	rn.recomputeDissociationRates()
}

func (rn *ReactionNetwork) recomputeDissociationRates() {
	for _, c := range rn.all {
		for i := range c.dissociating {
			d := &c.dissociating[i]
			d.rate = dissociationRate(d.dissociating, c, d.emitted, rn.temperature)
		}
		for i := range c.emission {
			e := &c.emission[i]
			e.rate = dissociationRate(c, e.first, e.second, rn.temperature)
		}
	}
	for _, s := range rn.supers {
		s.recomputeRates()
	}
}

// ReinitializeConnectivities rebuilds the reaction graph from scratch:
// ids are reassigned densely, every cluster's reaction lists and
// connectivity sets are regenerated, and the generation counter is
// bumped so cached fill patterns are invalidated.
func (rn *ReactionNetwork) ReinitializeConnectivities() {
	for i, c := range rn.all {
		c.resetConnectivity()
		c.id = i + 1
	}
	base := len(rn.all)
	for k, s := range rn.supers {
		s.id = base + k + 1
		s.momentId = rn.Size() + k + 1
	}
	rn.buildReactions()
	rn.generation++
}

// buildReactions admits every reaction the network supports and records
// the resulting connectivity. A combination is admitted only when its
// product is present as a plain cluster: compositions grouped into a
// super-cluster band are reached through the band's own absorption
// path, never through a plain channel. Vacancy-interstitial
// recombination is pure consumption and is admitted at any size.
func (rn *ReactionNetwork) buildReactions() {
	max := rn.maxClusterSize

	// Single-species clustering: A(a) + A(b) -> A(a+b).
	for _, typ := range []Species{He, V, I} {
		for a := 1; a <= max; a++ {
			first := rn.Get(typ, a)
			for b := a; a+b <= max; b++ {
				second := rn.Get(typ, b)
				product := rn.Get(typ, a+b)
				rn.admitCombination(first, second, product)
			}
		}
	}

	// Helium-vacancy clustering: He(a) + V(b) -> HeV(a,b).
	for a := 1; a < max; a++ {
		heC := rn.Get(He, a)
		for b := 1; a+b <= max; b++ {
			vC := rn.Get(V, b)
			product := rn.GetCompound(Composition{He: a, V: b})
			if product == nil {
				// Grouped into a band.
				continue
			}
			rn.admitCombination(heC, vC, product)
		}
	}

	// Helium absorption by mixed clusters:
	// He(a) + HeV(he,v) -> HeV(he+a,v).
	for _, c := range rn.all {
		if c.typ != HeV {
			continue
		}
		for a := 1; a+c.comp.Size() <= max; a++ {
			heC := rn.Get(He, a)
			product := rn.GetCompound(Composition{He: c.comp.He + a, V: c.comp.V})
			if product == nil {
				continue
			}
			rn.admitCombination(heC, c, product)
		}
	}

	// Single-vacancy absorption by mixed clusters:
	// HeV(he,v) + V(1) -> HeV(he,v+1).
	v1 := rn.Get(V, 1)
	for _, c := range rn.all {
		if c.typ != HeV || c.comp.Size()+1 > max {
			continue
		}
		product := rn.GetCompound(Composition{He: c.comp.He, V: c.comp.V + 1})
		if product == nil {
			continue
		}
		rn.admitCombination(c, v1, product)
	}

	// Vacancy-interstitial recombination consumes both reactants and
	// produces nothing the network tracks, so it carries no size limit.
	for a := 1; a <= max; a++ {
		vC := rn.Get(V, a)
		for b := 1; b <= max; b++ {
			iC := rn.Get(I, b)
			rn.admitCombination(vC, iC, nil)
		}
	}

	if rn.dissociationsEnabled {
		rn.buildDissociations()
	}

	for _, c := range rn.all {
		c.setReactionConnectivity(c.id)
	}
	for _, s := range rn.supers {
		s.buildReactions()
	}
}

// admitCombination wires first + second -> product into the reaction
// lists of all three participants. A nil product admits a pure
// consumption reaction.
func (rn *ReactionNetwork) admitCombination(first, second, product *Cluster) {
	if first == nil || second == nil {
		return
	}
	first.combining = append(first.combining, combiningCluster{combining: second})
	first.setReactionConnectivity(first.id)
	first.setReactionConnectivity(second.id)
	if first != second {
		second.combining = append(second.combining, combiningCluster{combining: first})
		second.setReactionConnectivity(second.id)
		second.setReactionConnectivity(first.id)
	} else {
		// A self-combination consumes the reactant twice per event.
		first.combining = append(first.combining, combiningCluster{combining: second})
	}
	if product != nil {
		product.reactingPairs = append(product.reactingPairs,
			reactingPair{first: first, second: second})
		product.setReactionConnectivity(first.id)
		product.setReactionConnectivity(second.id)
	}
}

// buildDissociations admits single-defect emission for every cluster of
// size two or more. Dissociation connectivity is directional: only the
// products depend on the dissociating cluster.
func (rn *ReactionNetwork) buildDissociations() {
	for _, c := range rn.all {
		switch c.typ {
		case He, V, I:
			if c.comp.Size() < 2 {
				continue
			}
			smaller := rn.Get(c.typ, c.comp.Size()-1)
			single := rn.Get(c.typ, 1)
			rn.admitDissociation(c, smaller, single)
		case HeV:
			// Mixed clusters emit a single helium and, separately, a
			// single vacancy.
			heProduct := rn.GetCompound(Composition{He: c.comp.He - 1, V: c.comp.V})
			if c.comp.He == 1 {
				heProduct = rn.Get(V, c.comp.V)
			}
			rn.admitDissociation(c, heProduct, rn.Get(He, 1))
			vProduct := rn.GetCompound(Composition{He: c.comp.He, V: c.comp.V - 1})
			if c.comp.V == 1 {
				vProduct = rn.Get(He, c.comp.He)
			}
			rn.admitDissociation(c, vProduct, rn.Get(V, 1))
		}
	}
}

// admitDissociation wires d -> a + b. The rate is evaluated at the
// current temperature and refreshed on temperature changes.
func (rn *ReactionNetwork) admitDissociation(d, a, b *Cluster) {
	if d == nil || a == nil || b == nil {
		return
	}
	rate := dissociationRate(d, a, b, rn.temperature)
	d.emission = append(d.emission, emissionPair{first: a, second: b, rate: rate})
	d.setReactionConnectivity(d.id)
	a.dissociating = append(a.dissociating,
		dissociatingPair{dissociating: d, emitted: b, rate: rate})
	a.setReactionConnectivity(d.id)
	if a != b {
		b.dissociating = append(b.dissociating,
			dissociatingPair{dissociating: d, emitted: a, rate: rate})
		b.setReactionConnectivity(d.id)
	} else {
		// Two identical products are produced per dissociation event.
		a.dissociating = append(a.dissociating,
			dissociatingPair{dissociating: d, emitted: b, rate: rate})
	}
}

// UpdateConcentrationsFromArray ingests one grid point's concentration
// block into the network's shared scratch state. conc must have length
// DOF(): cluster concentrations first in id order, then one moment per
// super cluster.
func (rn *ReactionNetwork) UpdateConcentrationsFromArray(conc []float64) error {
	if len(conc) != rn.DOF() {
		return fmt.Errorf("clusterdyn: concentration array length %d does not match %d degrees of freedom", len(conc), rn.DOF())
	}
	for i, c := range rn.all {
		c.concentration = conc[i]
	}
	for _, s := range rn.supers {
		s.setMoments(conc[s.id-1], conc[s.momentId-1])
	}
	return nil
}
