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

func groupedNetwork(t *testing.T) *ReactionNetwork {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	if err := rn.ApplyGrouping(5, 2); err != nil {
		t.Fatal(err)
	}
	rn.SetTemperature(testTemperature)
	return rn
}

func TestGroupingCounts(t *testing.T) {
	rn := groupedNetwork(t)
	// Bands of width 2 starting at He=5 fit in the vacancy rows as
	// follows: v=1 and v=2 each hold two, v=3 and v=4 one each.
	if len(rn.SuperClusters()) != 6 {
		t.Fatalf("expected 6 super clusters, got %d", len(rn.SuperClusters()))
	}
	if rn.Property("numSuperClusters") != "6" {
		t.Errorf("property numSuperClusters = %q, want 6", rn.Property("numSuperClusters"))
	}
	// 12 mixed clusters were absorbed into the bands.
	if n := len(rn.GetAll(HeV)); n != 33 {
		t.Errorf("expected 33 remaining mixed clusters, got %d", n)
	}
	if rn.Size() != 69 {
		t.Errorf("network size %d, want 69", rn.Size())
	}
	// One extra degree of freedom per band moment.
	if rn.DOF() != 75 {
		t.Errorf("degrees of freedom %d, want 75", rn.DOF())
	}
	for _, s := range rn.SuperClusters() {
		if s.Id() == 0 || s.MomentId() <= rn.Size() {
			t.Errorf("band %v has invalid ids %d/%d", s, s.Id(), s.MomentId())
		}
		if c := rn.GetCompound(Composition{He: s.loHe, V: s.VSize()}); c != nil {
			t.Errorf("grouped composition %v still present as a plain cluster", c.Composition())
		}
	}
}

// TestBandSumInvariant checks that the reconstructed member
// concentrations always sum to l0, whatever the moment.
func TestBandSumInvariant(t *testing.T) {
	rn := groupedNetwork(t)
	s := rn.SuperClusters()[0]

	conc := make([]float64, rn.DOF())
	conc[s.Id()-1] = 2.0e-3
	conc[s.MomentId()-1] = 1.0e-4
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	var sum float64
	for k := 0; k < s.numMembers; k++ {
		sum += s.memberConcentration(k)
	}
	if absDifferent(sum, 2.0e-3, 1e-15) {
		t.Errorf("band sum %g, want 2.0e-3", sum)
	}
}

// TestMomentClamping checks that a nonphysical moment is clamped so no
// member concentration goes negative, and that the recovery is
// counted.
func TestMomentClamping(t *testing.T) {
	rn := groupedNetwork(t)
	s := rn.SuperClusters()[0]

	conc := make([]float64, rn.DOF())
	conc[s.Id()-1] = 1.0e-3
	// Far too steep a moment for the band width.
	conc[s.MomentId()-1] = 1.0
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	if s.ClampCount() != 1 {
		t.Errorf("clamp count %d, want 1", s.ClampCount())
	}
	for k := 0; k < s.numMembers; k++ {
		if c := s.memberConcentration(k); c < 0 {
			t.Errorf("member %d has negative concentration %g after clamping", k, c)
		}
	}
	l0, _ := s.Moments()
	if absDifferent(l0, 1.0e-3, 1e-15) {
		t.Errorf("clamping changed l0 to %g", l0)
	}

	// A negative total clamps both moments to zero.
	conc[s.Id()-1] = -1
	conc[s.MomentId()-1] = 1
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	l0, l1 := s.Moments()
	if l0 != 0 || l1 != 0 {
		t.Errorf("negative total clamped to (%g, %g), want (0, 0)", l0, l1)
	}
	if s.ClampCount() != 2 {
		t.Errorf("clamp count %d, want 2", s.ClampCount())
	}
}

func TestBandStatistics(t *testing.T) {
	rn := groupedNetwork(t)
	s := rn.SuperClusters()[0]

	conc := make([]float64, rn.DOF())
	conc[s.Id()-1] = 4.0e-3
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	mean, stdDev := s.BandStatistics()
	if different(mean, 4.0e-3/float64(s.numMembers), 1e-12) {
		t.Errorf("flat band mean %g, want %g", mean, 4.0e-3/float64(s.numMembers))
	}
	if absDifferent(stdDev, 0, 1e-15) {
		t.Errorf("flat band standard deviation %g, want 0", stdDev)
	}
}

// TestSuperClusterGrowth checks the telescoping helium absorption: a
// populated band with helium available grows its moment state and
// consumes helium.
func TestSuperClusterGrowth(t *testing.T) {
	rn := groupedNetwork(t)
	s := rn.SuperClusters()[0]

	conc := make([]float64, rn.DOF())
	he1 := rn.Get(He, 1)
	conc[he1.Id()-1] = 1.0e-3
	conc[s.Id()-1] = 2.0e-3
	// Entrant just below the band.
	entrant := rn.GetCompound(Composition{He: s.loHe - 1, V: s.VSize()})
	if entrant == nil {
		t.Fatal("missing entrant cluster below the band")
	}
	conc[entrant.Id()-1] = 5.0e-4
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}

	fluxes := make([]float64, rn.DOF())
	s.ContributeFlux(fluxes)
	if fluxes[he1.Id()-1] >= 0 {
		t.Errorf("helium flux %g, want negative", fluxes[he1.Id()-1])
	}
	if fluxes[entrant.Id()-1] >= 0 {
		t.Errorf("entrant flux %g, want negative", fluxes[entrant.Id()-1])
	}
	if fluxes[s.MomentId()-1] == 0 {
		t.Error("moment flux is zero for an asymmetric band update")
	}
}

// TestGroupedAbsorptionSingleChannel checks that helium absorption into
// a band flows through exactly one channel: with only helium and the
// entrant populated, the entrant loss matches the band gain.
func TestGroupedAbsorptionSingleChannel(t *testing.T) {
	rn := groupedNetwork(t)
	rn.SetDissociationsEnabled(false)
	s := rn.SuperClusters()[0]

	he1 := rn.Get(He, 1)
	entrant := rn.GetCompound(Composition{He: s.loHe - 1, V: s.VSize()})
	if entrant == nil {
		t.Fatal("missing entrant cluster below the band")
	}
	// A plain combination whose product was grouped would consume the
	// entrant a second time, at a different rate, with the mass lost.
	for _, comb := range entrant.combining {
		if comb.combining == he1 {
			t.Fatal("entrant still admits a plain helium combination")
		}
	}

	conc := make([]float64, rn.DOF())
	conc[he1.Id()-1] = 1.0e-3
	conc[entrant.Id()-1] = 5.0e-4
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	fluxes := make([]float64, rn.DOF())
	for _, c := range rn.all {
		fluxes[c.Id()-1] = c.TotalFlux()
	}
	for _, sc := range rn.SuperClusters() {
		sc.ContributeFlux(fluxes)
	}
	if fluxes[entrant.Id()-1] >= 0 {
		t.Fatalf("entrant flux %g, want negative", fluxes[entrant.Id()-1])
	}
	if different(-fluxes[entrant.Id()-1], fluxes[s.Id()-1], 1e-12) {
		t.Errorf("entrant loss %g does not match band gain %g",
			-fluxes[entrant.Id()-1], fluxes[s.Id()-1])
	}
}
