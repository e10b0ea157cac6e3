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
	"strconv"

	"github.com/GaryBoone/GoStats/stats"
)

// SuperCluster compresses a helium-direction band of mixed clusters
// with a shared vacancy content into two degrees of freedom: the total
// band concentration l0 and the first helium moment l1. Member
// concentrations are reconstructed as l0/width + dist·l1, where the
// dist values sum to zero so the band total always equals l0.
type SuperCluster struct {
	id       int // dense id for the l0 slot
	momentId int // dense id for the l1 slot

	vSize      int
	loHe, hiHe int
	numMembers int
	dist       []float64

	l0, l1 float64

	network *ReactionNetwork

	// Band members grow by absorbing single helium; growth telescopes
	// through the band, entered from the largest plain cluster below it.
	heReactant *Cluster
	entrant    *Cluster
	rate       float64

	reactionRadius float64

	// clampCount tracks how many nonphysical moment updates were
	// recovered by clamping.
	clampCount int
}

// Id returns the dense id of the super cluster's total-concentration
// slot.
func (s *SuperCluster) Id() int { return s.id }

// MomentId returns the dense id of the helium-moment slot.
func (s *SuperCluster) MomentId() int { return s.momentId }

// VSize returns the shared vacancy content of the band.
func (s *SuperCluster) VSize() int { return s.vSize }

// HeBounds returns the inclusive helium range covered by the band.
func (s *SuperCluster) HeBounds() (lo, hi int) { return s.loHe, s.hiHe }

// Moments returns the current total concentration and helium moment.
func (s *SuperCluster) Moments() (l0, l1 float64) { return s.l0, s.l1 }

// ClampCount returns how many moment ingestions required clamping.
func (s *SuperCluster) ClampCount() int { return s.clampCount }

// memberConcentration reconstructs the concentration of band member k.
func (s *SuperCluster) memberConcentration(k int) float64 {
	return s.l0/float64(s.numMembers) + s.dist[k]*s.l1
}

// setMoments ingests a moment pair, clamping nonphysical values so that
// every reconstructed member concentration stays nonnegative. Clamping
// is recoverable: it is counted and logged, never fatal.
func (s *SuperCluster) setMoments(l0, l1 float64) {
	clamped := false
	if l0 < 0 {
		l0, l1 = 0, 0
		clamped = true
	} else if l1 != 0 {
		// The smallest member concentration sits at the band end whose
		// dist opposes the sign of l1.
		edge := s.dist[0]
		if l1 < 0 {
			edge = s.dist[len(s.dist)-1]
		}
		if l0/float64(s.numMembers)+edge*l1 < 0 {
			l1 = -l0 / (float64(s.numMembers) * edge)
			clamped = true
		}
	}
	if clamped {
		s.clampCount++
		logger.WithFields(map[string]interface{}{
			"vSize": s.vSize,
			"loHe":  s.loHe,
			"hiHe":  s.hiHe,
		}).Debug("clamped nonphysical super-cluster moments")
	}
	s.l0, s.l1 = l0, l1
}

func (s *SuperCluster) setTemperature(temp float64) {
	s.recomputeRates()
}

func (s *SuperCluster) recomputeRates() {
	if s.heReactant == nil {
		s.rate = 0
		return
	}
	// All members share the band's representative radius, so a single
	// rate constant serves the whole band.
	s.rate = 4. * math.Pi * (s.reactionRadius + s.heReactant.reactionRadius) *
		s.heReactant.diffusivity
}

// buildReactions resolves the band's reaction partners against the
// current network state.
func (s *SuperCluster) buildReactions() {
	s.heReactant = s.network.Get(He, 1)
	s.entrant = s.network.GetCompound(Composition{He: s.loHe - 1, V: s.vSize})
	s.recomputeRates()
}

// TotalFlux returns the net rate of change of l0. Helium absorption
// telescopes through the band, so only the entrant gain and the
// largest-member loss survive.
func (s *SuperCluster) TotalFlux() float64 {
	if s.heReactant == nil {
		return 0
	}
	cHe := s.heReactant.concentration
	var entrantConc float64
	if s.entrant != nil {
		entrantConc = s.entrant.concentration
	}
	last := s.memberConcentration(s.numMembers - 1)
	return s.rate * cHe * (entrantConc - last)
}

// MomentFlux returns the net rate of change of the helium moment l1.
func (s *SuperCluster) MomentFlux() float64 {
	if s.heReactant == nil {
		return 0
	}
	cHe := s.heReactant.concentration
	var flux float64
	for k := 0; k < s.numMembers; k++ {
		loss := s.rate * cHe * s.memberConcentration(k)
		var gain float64
		if k == 0 {
			if s.entrant != nil {
				gain = s.rate * cHe * s.entrant.concentration
			}
		} else {
			gain = s.rate * cHe * s.memberConcentration(k-1)
		}
		flux += s.dist[k] * (gain - loss)
	}
	return flux
}

// ContributeFlux adds the band's reaction fluxes into the per-point
// flux buffer indexed by dense id minus one: the l0 and l1 rows plus
// the helium and entrant consumption the band causes.
func (s *SuperCluster) ContributeFlux(fluxes []float64) {
	if s.heReactant == nil {
		return
	}
	fluxes[s.id-1] += s.TotalFlux()
	fluxes[s.momentId-1] += s.MomentFlux()
	cHe := s.heReactant.concentration
	fluxes[s.heReactant.id-1] -= s.rate * cHe * s.l0
	if s.entrant != nil {
		fluxes[s.heReactant.id-1] -= s.rate * cHe * s.entrant.concentration
		fluxes[s.entrant.id-1] -= s.rate * cHe * s.entrant.concentration
	}
}

// ContributePartials adds ∂flux/∂conc entries for the band's reactions.
// partials is a dense dof×dof row-major scratch block indexed as
// (row-1)*dof + (col-1); the caller owns zeroing it.
func (s *SuperCluster) ContributePartials(partials []float64, dof int) {
	if s.heReactant == nil {
		return
	}
	cHe := s.heReactant.concentration
	heId := s.heReactant.id
	var entrantConc float64
	entrantId := 0
	if s.entrant != nil {
		entrantConc = s.entrant.concentration
		entrantId = s.entrant.id
	}
	idx := func(row, col int) int { return (row-1)*dof + (col - 1) }

	last := s.memberConcentration(s.numMembers - 1)
	dLastDl0 := 1. / float64(s.numMembers)
	dLastDl1 := s.dist[s.numMembers-1]

	// l0 row.
	partials[idx(s.id, heId)] += s.rate * (entrantConc - last)
	partials[idx(s.id, s.id)] -= s.rate * cHe * dLastDl0
	partials[idx(s.id, s.momentId)] -= s.rate * cHe * dLastDl1
	if entrantId > 0 {
		partials[idx(s.id, entrantId)] += s.rate * cHe
	}

	// l1 row.
	var dFdHe, dFdL0, dFdL1, dFdEntrant float64
	for k := 0; k < s.numMembers; k++ {
		ck := s.memberConcentration(k)
		var gain, dGainDl0, dGainDl1 float64
		if k == 0 {
			gain = entrantConc
			if entrantId > 0 {
				dFdEntrant += s.dist[k] * s.rate * cHe
			}
		} else {
			gain = s.memberConcentration(k - 1)
			dGainDl0 = 1. / float64(s.numMembers)
			dGainDl1 = s.dist[k-1]
		}
		dFdHe += s.dist[k] * s.rate * (gain - ck)
		dFdL0 += s.dist[k] * s.rate * cHe * (dGainDl0 - 1./float64(s.numMembers))
		dFdL1 += s.dist[k] * s.rate * cHe * (dGainDl1 - s.dist[k])
	}
	partials[idx(s.momentId, heId)] += dFdHe
	partials[idx(s.momentId, s.id)] += dFdL0
	partials[idx(s.momentId, s.momentId)] += dFdL1
	if entrantId > 0 {
		partials[idx(s.momentId, entrantId)] += dFdEntrant
	}

	// Helium consumption row.
	partials[idx(heId, heId)] -= s.rate * (s.l0 + entrantConc)
	partials[idx(heId, s.id)] -= s.rate * cHe
	if entrantId > 0 {
		partials[idx(heId, entrantId)] -= s.rate * cHe
		// Entrant consumption row.
		partials[idx(entrantId, heId)] -= s.rate * entrantConc
		partials[idx(entrantId, entrantId)] -= s.rate * cHe
	}
}

// fillDependencies reports every (row, col) Jacobian coupling the band
// introduces, for diagonal fill-pattern construction.
func (s *SuperCluster) fillDependencies(add func(row, col int)) {
	if s.heReactant == nil {
		return
	}
	heId := s.heReactant.id
	cols := []int{heId, s.id, s.momentId}
	if s.entrant != nil {
		cols = append(cols, s.entrant.id)
	}
	rows := []int{s.id, s.momentId, heId}
	if s.entrant != nil {
		rows = append(rows, s.entrant.id)
	}
	for _, r := range rows {
		for _, c := range cols {
			add(r, c)
		}
	}
}

// BandStatistics returns the mean and sample standard deviation of the
// reconstructed member concentrations.
func (s *SuperCluster) BandStatistics() (mean, stdDev float64) {
	conc := make([]float64, s.numMembers)
	for k := range conc {
		conc[k] = s.memberConcentration(k)
	}
	return stats.StatsMean(conc), stats.StatsSampleStandardDeviation(conc)
}

func (s *SuperCluster) String() string {
	return fmt.Sprintf("Super(He=%d-%d, V=%d)", s.loHe, s.hiHe, s.vSize)
}

// ApplyGrouping replaces mixed clusters whose helium content is at
// least minHe with super-cluster bands of the given width. Only full
// bands are formed; leftover clusters at the top of a vacancy row stay
// as plain clusters. Grouping rebuilds the reaction graph if the
// network is already initialized.
func (rn *ReactionNetwork) ApplyGrouping(minHe, width int) error {
	if minHe < 2 || width < 2 {
		return fmt.Errorf("clusterdyn: invalid grouping parameters minHe=%d width=%d", minHe, width)
	}
	if len(rn.supers) > 0 {
		return fmt.Errorf("clusterdyn: grouping already applied")
	}
	for v := 1; v < rn.maxClusterSize; v++ {
		maxHe := rn.maxClusterSize - v
		for lo := minHe; lo+width-1 <= maxHe; lo += width {
			hi := lo + width - 1
			s := &SuperCluster{
				vSize:      v,
				loHe:       lo,
				hiHe:       hi,
				numMembers: width,
				network:    rn,
			}
			mid := float64(lo+hi) / 2.
			for he := lo; he <= hi; he++ {
				s.dist = append(s.dist, float64(he)-mid)
				rn.remove(Composition{He: he, V: v})
			}
			n := float64(hi) + float64(v)
			s.reactionRadius = latticeParam * math.Cbrt(3./(8.*math.Pi)*n)
			rn.supers = append(rn.supers, s)
		}
	}
	rn.properties["numSuperClusters"] = strconv.Itoa(len(rn.supers))
	if rn.initialized {
		rn.ReinitializeConnectivities()
	}
	return nil
}

func (rn *ReactionNetwork) remove(comp Composition) {
	c, ok := rn.clusters[comp]
	if !ok {
		return
	}
	delete(rn.clusters, comp)
	for i, other := range rn.all {
		if other == c {
			rn.all = append(rn.all[:i], rn.all[i+1:]...)
			break
		}
	}
	for i, other := range rn.all {
		other.id = i + 1
	}
}
