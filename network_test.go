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

const testTemperature = 1000.

func TestNetworkSize(t *testing.T) {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	for _, typ := range []Species{He, V, I} {
		if n := len(rn.GetAll(typ)); n != 10 {
			t.Errorf("expected 10 %s clusters, got %d", typ, n)
		}
	}
	// Mixed clusters: every (he, v) with he+v <= 10.
	if n := len(rn.GetAll(HeV)); n != 45 {
		t.Errorf("expected 45 mixed clusters, got %d", n)
	}
	if rn.Size() != 75 {
		t.Errorf("expected network size 75, got %d", rn.Size())
	}
	if rn.DOF() != 75 {
		t.Errorf("expected 75 degrees of freedom, got %d", rn.DOF())
	}
}

func TestNetworkProperties(t *testing.T) {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]string{
		"maxHeClusterSize":     "10",
		"maxVClusterSize":      "10",
		"maxIClusterSize":      "10",
		"numHeClusters":        "10",
		"numVClusters":         "10",
		"numIClusters":         "10",
		"numHeVClusters":       "45",
		"numSuperClusters":     "0",
		"dissociationsEnabled": "true",
	} {
		if got := rn.Property(key); got != want {
			t.Errorf("property %s: got %q, want %q", key, got, want)
		}
	}
}

func TestGetAbsentCluster(t *testing.T) {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	if c := rn.Get(He, 11); c != nil {
		t.Errorf("expected nil for absent cluster, got %v", c.Composition())
	}
	if c := rn.GetCompound(Composition{He: 6, V: 6}); c != nil {
		t.Errorf("expected nil for absent mixed cluster, got %v", c.Composition())
	}
	if c := rn.Get(HeV, 2); c != nil {
		t.Errorf("expected nil for mixed lookup through Get, got %v", c.Composition())
	}
}

// TestVacancyConnectivity pins the reaction partners of the
// two-vacancy cluster in a max-size-10 network with dissociation
// switched off: every species of size 8 or less can still combine with
// it, sizes 9 and 10 cannot, interstitials of any size recombine with
// it, and mixed clusters only ever absorb single vacancies.
func TestVacancyConnectivity(t *testing.T) {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetDissociationsEnabled(false)
	rn.SetTemperature(testTemperature)

	v2 := rn.Get(V, 2)
	if v2 == nil {
		t.Fatal("missing two-vacancy cluster")
	}
	conn := v2.Connectivity()

	for _, typ := range []Species{He, V} {
		for size := 1; size <= 10; size++ {
			c := rn.Get(typ, size)
			want := 0
			if size <= 8 {
				want = 1
			}
			if typ == V && size == 2 {
				want = 1 // self
			}
			if got := conn[c.Id()-1]; got != want {
				t.Errorf("%s(%d): connectivity %d, want %d", typ, size, got, want)
			}
		}
	}
	for size := 1; size <= 10; size++ {
		c := rn.Get(I, size)
		if got := conn[c.Id()-1]; got != 1 {
			t.Errorf("I(%d): connectivity %d, want 1", size, got)
		}
	}
	for _, c := range rn.GetAll(HeV) {
		if got := conn[c.Id()-1]; got != 0 {
			t.Errorf("%v: connectivity %d, want 0", c.Composition(), got)
		}
	}
}

// TestCombiningSymmetry checks that whenever a cluster lists a
// combination partner, both sides depend on each other.
func TestCombiningSymmetry(t *testing.T) {
	rn, err := NewReactionNetwork(8)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetDissociationsEnabled(false)
	rn.SetTemperature(testTemperature)

	for _, c := range rn.all {
		for _, comb := range c.combining {
			if !c.connectivity[comb.combining.id] {
				t.Errorf("%v does not depend on its partner %v",
					c.Composition(), comb.combining.Composition())
			}
			if !comb.combining.connectivity[c.id] {
				t.Errorf("%v does not depend back on %v",
					comb.combining.Composition(), c.Composition())
			}
		}
	}
}

// TestDissociationMonotonicity checks that switching dissociation off
// only ever removes dependencies, and removes at least one.
func TestDissociationMonotonicity(t *testing.T) {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetTemperature(testTemperature)

	enabled := make(map[int][]int)
	for _, c := range rn.all {
		enabled[c.Id()] = c.Connectivity()
	}
	rn.SetDissociationsEnabled(false)

	removed := 0
	for _, c := range rn.all {
		before := enabled[c.Id()]
		after := c.Connectivity()
		for i := range after {
			if after[i] == 1 && before[i] == 0 {
				t.Fatalf("cluster %v gained a dependency by disabling dissociation", c.Composition())
			}
			if after[i] == 0 && before[i] == 1 {
				removed++
			}
		}
	}
	if removed == 0 {
		t.Error("disabling dissociation removed no dependencies")
	}
}

// TestDissociationDirection checks that dissociation couples the
// product to the source without coupling the source to the product.
// The three-vacancy cluster dissociates into V(2) + V(1), so V(2)
// depends on V(3); V(3) must not pick up a reverse dependency beyond
// the one its own combination reactions give it.
func TestDissociationDirection(t *testing.T) {
	rn, err := NewReactionNetwork(10)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetTemperature(testTemperature)

	v2 := rn.Get(V, 2)
	v3 := rn.Get(V, 3)
	if !v2.connectivity[v3.Id()] {
		t.Error("V(2) does not depend on dissociating V(3)")
	}

	rn.SetDissociationsEnabled(false)
	if v2.connectivity[v3.Id()] {
		t.Error("V(2) still depends on V(3) with dissociation disabled")
	}
}

func TestGenerationBumpsOnRebuild(t *testing.T) {
	rn, err := NewReactionNetwork(6)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetTemperature(testTemperature)
	g0 := rn.Generation()
	rn.SetDissociationsEnabled(false)
	if rn.Generation() == g0 {
		t.Error("generation did not change after a connectivity rebuild")
	}
	// A pure temperature change keeps the graph.
	g1 := rn.Generation()
	rn.SetTemperature(testTemperature + 100)
	if rn.Generation() != g1 {
		t.Error("generation changed on a temperature update")
	}
}

func TestUpdateConcentrationsFromArray(t *testing.T) {
	rn, err := NewReactionNetwork(4)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetTemperature(testTemperature)
	conc := make([]float64, rn.DOF())
	he1 := rn.Get(He, 1)
	conc[he1.Id()-1] = 0.25
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	if he1.Concentration() != 0.25 {
		t.Errorf("got concentration %g, want 0.25", he1.Concentration())
	}
	if err := rn.UpdateConcentrationsFromArray(conc[:len(conc)-1]); err == nil {
		t.Error("expected an error for a short concentration array")
	}
}

// TestFluxBalance checks that a pure two-body combination conserves
// what it should: the production rate of the product equals the
// consumption rate seen by each reactant for an isolated reaction.
func TestFluxBalance(t *testing.T) {
	rn, err := NewReactionNetwork(2)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetDissociationsEnabled(false)
	rn.SetTemperature(testTemperature)

	he1 := rn.Get(He, 1)
	he2 := rn.Get(He, 2)
	conc := make([]float64, rn.DOF())
	conc[he1.Id()-1] = 1e-3
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	production := he2.TotalFlux()
	if production <= 0 {
		t.Fatalf("expected positive production of He(2), got %g", production)
	}
	// He(1) is consumed twice per He(2) produced.
	loss := -he1.TotalFlux()
	if different(loss, 2*production, 1e-12) {
		t.Errorf("He(1) loss %g is not twice the He(2) production %g", loss, production)
	}
}

// TestPartialDerivativesResetContract checks that the dense partials
// buffer stays clean when the caller resets the entries it reads.
func TestPartialDerivativesResetContract(t *testing.T) {
	rn, err := NewReactionNetwork(3)
	if err != nil {
		t.Fatal(err)
	}
	rn.SetTemperature(testTemperature)
	conc := make([]float64, rn.DOF())
	for i := range conc {
		conc[i] = 1e-4 * float64(i+1)
	}
	if err := rn.UpdateConcentrationsFromArray(conc); err != nil {
		t.Fatal(err)
	}
	partials := make([]float64, rn.DOF())
	for _, c := range rn.all {
		c.PartialDerivatives(partials)
		for id := range c.connectivity {
			partials[id-1] = 0
		}
		for i, v := range partials {
			if v != 0 {
				t.Fatalf("cluster %v left entry %d = %g outside its connectivity",
					c.Composition(), i, v)
			}
		}
	}
}
