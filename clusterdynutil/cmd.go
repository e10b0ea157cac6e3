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

// Package clusterdynutil holds the configuration and command glue for
// the clusterdyn command-line interface.
package clusterdynutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the clusterdyn configuration and commands.
type Cfg struct {
	*viper.Viper

	// Root is the root command, holding the subcommands.
	Root *cobra.Command

	runCmd      *cobra.Command
	describeCmd *cobra.Command
}

// option is one user-settable configuration value: its name doubles as
// the viper key and the flag name.
type option struct {
	name, usage string
	defaultVal  interface{}
	flagSets    []*pflag.FlagSet
}

// InitializeConfig creates the configuration, the commands, and the
// flags binding them together.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "clusterdyn",
		Short: "A helium-vacancy cluster dynamics model",
		Long: `clusterdyn evolves populations of helium, vacancy, and interstitial
defect clusters on a one-dimensional grid below an irradiated material
surface.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setConfig(cfg)
		},
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cfg)
		},
	}

	cfg.describeCmd = &cobra.Command{
		Use:   "describe",
		Short: "Describe the reaction network the configuration builds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Describe(cfg, cmd.OutOrStdout())
		},
	}

	cfg.Root.AddCommand(cfg.runCmd, cfg.describeCmd)

	options := []option{
		{
			name:       "config",
			usage:      "configuration file location",
			defaultVal: "",
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "MaxClusterSize",
			usage:      "maximum cluster size in the reaction network",
			defaultVal: 10,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "NX",
			usage:      "number of grid points",
			defaultVal: 20,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "StepSize",
			usage:      "grid spacing [nm]",
			defaultVal: 1.0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "Temperature",
			usage:      "material temperature [K]",
			defaultVal: 1000.0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "FluxAmplitude",
			usage:      "incident helium fluence amplitude [He nm^-2 s^-1]",
			defaultVal: 4.0e-5,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "InitialVConc",
			usage:      "initial single-vacancy concentration [nm^-3]",
			defaultVal: 0.0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "DissociationsEnabled",
			usage:      "enable dissociation reactions",
			defaultVal: true,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "MovingSurface",
			usage:      "enable the moving surface",
			defaultVal: false,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "SurfacePortion",
			usage:      "initial portion of the grid behind the surface [%]",
			defaultVal: 0.0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "GroupingMinHe",
			usage:      "smallest helium content grouped into super clusters (0 disables)",
			defaultVal: 0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "GroupingWidth",
			usage:      "helium width of each super-cluster band",
			defaultVal: 0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "SinkLocation",
			usage:      "sink plane position [nm], negative to disable",
			defaultVal: -1.0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "HeSaturation",
			usage:      "surface helium content shutting off trap mutation [nm^-2]",
			defaultVal: 0.0,
			flagSets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name:       "CheckpointTemplate",
			usage:      "checkpoint filename template containing [step]",
			defaultVal: "",
			flagSets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "CheckpointInterval",
			usage:      "steps between checkpoints",
			defaultVal: 100,
			flagSets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "RestartFrom",
			usage:      "checkpoint file to restart from",
			defaultVal: "",
			flagSets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "Dt",
			usage:      "explicit time step [s]",
			defaultVal: 1.0e-9,
			flagSets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "NSteps",
			usage:      "number of time steps",
			defaultVal: 1000,
			flagSets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
		{
			name:       "LogInterval",
			usage:      "steps between progress log lines",
			defaultVal: 100,
			flagSets:   []*pflag.FlagSet{cfg.runCmd.Flags()},
		},
	}

	for _, o := range options {
		for _, fs := range o.flagSets {
			switch v := o.defaultVal.(type) {
			case int:
				fs.Int(o.name, v, o.usage)
			case float64:
				fs.Float64(o.name, v, o.usage)
			case bool:
				fs.Bool(o.name, v, o.usage)
			case string:
				fs.String(o.name, v, o.usage)
			default:
				panic(fmt.Sprintf("unsupported option type %T for %s", o.defaultVal, o.name))
			}
			cfg.BindPFlag(o.name, fs.Lookup(o.name))
		}
		cfg.SetDefault(o.name, o.defaultVal)
	}
	return cfg
}

// setConfig reads the configuration file named by the config option,
// if any.
func setConfig(cfg *Cfg) error {
	file := cast.ToString(cfg.Get("config"))
	if file == "" {
		return nil
	}
	cfg.SetConfigFile(file)
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("clusterdyn: reading configuration file %s: %v", file, err)
	}
	return nil
}

// checkTemplate verifies a checkpoint template contains the [step]
// token when set.
func checkTemplate(template string) error {
	if template != "" && !strings.Contains(template, "[step]") {
		return fmt.Errorf("clusterdyn: checkpoint template %q does not contain [step]", template)
	}
	return nil
}
