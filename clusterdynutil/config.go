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
	"fmt"
	"io"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	clusterdyn "github.com/materialsmodel/clusterdyn"
)

// SimulationConfig builds and validates a simulation configuration
// from the stored options.
func SimulationConfig(cfg *viper.Viper) (clusterdyn.SimulationConfig, error) {
	c := clusterdyn.SimulationConfig{
		MaxClusterSize:       cast.ToInt(cfg.Get("MaxClusterSize")),
		NX:                   cast.ToInt(cfg.Get("NX")),
		StepSize:             cast.ToFloat64(cfg.Get("StepSize")),
		Temperature:          cast.ToFloat64(cfg.Get("Temperature")),
		FluxAmplitude:        cast.ToFloat64(cfg.Get("FluxAmplitude")),
		InitialVConc:         cast.ToFloat64(cfg.Get("InitialVConc")),
		DissociationsEnabled: cast.ToBool(cfg.Get("DissociationsEnabled")),
		MovingSurface:        cast.ToBool(cfg.Get("MovingSurface")),
		SurfacePortion:       cast.ToFloat64(cfg.Get("SurfacePortion")),
		GroupingMinHe:        cast.ToInt(cfg.Get("GroupingMinHe")),
		GroupingWidth:        cast.ToInt(cfg.Get("GroupingWidth")),
		SinkLocation:         cast.ToFloat64(cfg.Get("SinkLocation")),
		HeSaturation:         cast.ToFloat64(cfg.Get("HeSaturation")),
		CheckpointTemplate:   cast.ToString(cfg.Get("CheckpointTemplate")),
		RestartFrom:          cast.ToString(cfg.Get("RestartFrom")),
	}
	if c.MaxClusterSize < 1 {
		return c, fmt.Errorf("clusterdyn: MaxClusterSize must be at least 1, got %d", c.MaxClusterSize)
	}
	if c.NX < 2 {
		return c, fmt.Errorf("clusterdyn: NX must be at least 2, got %d", c.NX)
	}
	if c.StepSize <= 0 {
		return c, fmt.Errorf("clusterdyn: StepSize must be positive, got %g", c.StepSize)
	}
	if c.Temperature <= 0 {
		return c, fmt.Errorf("clusterdyn: Temperature must be positive, got %g", c.Temperature)
	}
	if c.FluxAmplitude < 0 {
		return c, fmt.Errorf("clusterdyn: FluxAmplitude must not be negative, got %g", c.FluxAmplitude)
	}
	if err := checkTemplate(c.CheckpointTemplate); err != nil {
		return c, err
	}
	return c, nil
}

// Run builds a solver handler from the configuration and runs the
// reference explicit driver.
func Run(cfg *Cfg) error {
	c, err := SimulationConfig(cfg.Viper)
	if err != nil {
		return err
	}
	h, err := clusterdyn.NewSolverHandler(c)
	if err != nil {
		return err
	}
	var stepFuncs []clusterdyn.SimulationManipulator
	if interval := cast.ToInt(cfg.Get("LogInterval")); interval > 0 {
		stepFuncs = append(stepFuncs, clusterdyn.LogProgress(interval))
	}
	if c.CheckpointTemplate != "" {
		w, err := clusterdyn.NewCheckpointWriter(c.CheckpointTemplate)
		if err != nil {
			return err
		}
		stepFuncs = append(stepFuncs,
			clusterdyn.SaveCheckpoints(w, cast.ToInt(cfg.Get("CheckpointInterval"))))
	}
	sim, err := clusterdyn.NewSimulation(h, cast.ToFloat64(cfg.Get("Dt")), stepFuncs...)
	if err != nil {
		return err
	}
	if err := sim.Init(); err != nil {
		return err
	}
	return sim.Run(cast.ToInt(cfg.Get("NSteps")))
}

// Describe prints a summary of the reaction network the configuration
// builds.
func Describe(cfg *Cfg, w io.Writer) error {
	c, err := SimulationConfig(cfg.Viper)
	if err != nil {
		return err
	}
	h, err := clusterdyn.NewSolverHandler(c)
	if err != nil {
		return err
	}
	dof, _, _, err := h.CreateContext()
	if err != nil {
		return err
	}
	rn := h.Network()
	fmt.Fprintf(w, "reaction network with maximum cluster size %s\n",
		rn.Property("maxHeClusterSize"))
	for _, key := range []string{"numHeClusters", "numVClusters", "numIClusters",
		"numHeVClusters", "numSuperClusters"} {
		fmt.Fprintf(w, "  %s: %s\n", key, rn.Property(key))
	}
	fmt.Fprintf(w, "  dissociations enabled: %s\n", rn.Property("dissociationsEnabled"))
	fmt.Fprintf(w, "  degrees of freedom per grid point: %d\n", dof)
	fmt.Fprintf(w, "grid: %d points, surface at index %d\n",
		h.GridOf().Size(), h.GridOf().SurfacePosition)
	return nil
}
