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

package clusterdynutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimulationConfigDefaults(t *testing.T) {
	cfg := InitializeConfig()
	c, err := SimulationConfig(cfg.Viper)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxClusterSize != 10 {
		t.Errorf("default MaxClusterSize %d, want 10", c.MaxClusterSize)
	}
	if c.NX != 20 {
		t.Errorf("default NX %d, want 20", c.NX)
	}
	if !c.DissociationsEnabled {
		t.Error("dissociations disabled by default")
	}
}

func TestSimulationConfigValidation(t *testing.T) {
	for key, bad := range map[string]interface{}{
		"MaxClusterSize": 0,
		"NX":             1,
		"StepSize":       -1.0,
		"Temperature":    0.0,
		"FluxAmplitude":  -1.0,
	} {
		cfg := InitializeConfig()
		cfg.Set(key, bad)
		if _, err := SimulationConfig(cfg.Viper); err == nil {
			t.Errorf("expected an error for %s = %v", key, bad)
		}
	}

	cfg := InitializeConfig()
	cfg.Set("CheckpointTemplate", "missing-token.nc")
	if _, err := SimulationConfig(cfg.Viper); err == nil {
		t.Error("expected an error for a checkpoint template without [step]")
	}
}

func TestDescribe(t *testing.T) {
	cfg := InitializeConfig()
	var buf bytes.Buffer
	if err := Describe(cfg, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"numHeClusters: 10",
		"numHeVClusters: 45",
		"degrees of freedom per grid point: 75",
		"surface at index 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("describe output missing %q:\n%s", want, out)
		}
	}
}
