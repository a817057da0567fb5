/*
Copyright © 2019 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package atmcorrutil provides the command-line interface to atmcorr.
package atmcorrutil

import (
	"context"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/atmcorr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	tableSets := []*pflag.FlagSet{lutConvertCmd.Flags(), invertCmd.Flags(), correctCmd.Flags(), fitCmd.Flags()}
	pointSets := []*pflag.FlagSet{invertCmd.Flags(), fitCmd.Flags()}

	// Options are the configuration options available to atmcorr.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print:
              one of debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Sensor",
			usage: `
              Sensor is the sensor the lookup tables must be for: landsat
              or sentinel2. If it is empty, the sensor in the lookup table
              file is used.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "LUTFile",
			usage: `
              LUTFile is the path to the NetCDF lookup table file.`,
			shorthand:  "l",
			defaultVal: "${ATMCORR_DATA}/lut.ncf",
			flagsets:   tableSets,
		},
		{
			name: "AngleFile",
			usage: `
              AngleFile is an optional NetCDF lookup table file whose angle
              tables replace those in LUTFile.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "TransmissionFile",
			usage: `
              TransmissionFile is an optional ASCII transmission table that
              replaces the transmission table in LUTFile.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "SphericalAlbedoFile",
			usage: `
              SphericalAlbedoFile is an optional ASCII spherical albedo
              table that replaces the spherical albedo and normalized
              extinction tables in LUTFile.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "GasCoefficientFile",
			usage: `
              GasCoefficientFile is an optional TOML file of per-band gas
              coefficients. If it is empty, the coefficients in LUTFile or
              the built-in Landsat coefficients are used.`,
			defaultVal: "",
			flagsets:   tableSets,
		},
		{
			name: "SceneFile",
			usage: `
              SceneFile is the NetCDF file holding the TOA reflectance,
              geometry and atmosphere of the scene to correct.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{correctCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output file.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{lutConvertCmd.Flags(), correctCmd.Flags(), fitCmd.Flags()},
		},
		{
			name: "FitFile",
			usage: `
              FitFile is an optional TOML file of fitted coefficients. If it
              is set, the scene is corrected with the fitted polynomials
              instead of the lookup tables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{correctCmd.Flags()},
		},
		{
			name: "Band",
			usage: `
              Band is the list of band indices to process. If it is empty,
              all bands are processed.`,
			shorthand:  "b",
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{invertCmd.Flags(), correctCmd.Flags(), fitCmd.Flags()},
		},
		{
			name: "NumProcessors",
			usage: `
              NumProcessors is the number of processors to use. If it is
              zero, all available processors are used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{correctCmd.Flags()},
		},
		{
			name: "MaxAOT",
			usage: `
              MaxAOT is the upper bound of the band AOT. Zero disables the
              bound.`,
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{invertCmd.Flags(), correctCmd.Flags(), fitCmd.Flags()},
		},
		{
			name: "Angstrom",
			usage: `
              Angstrom is the Angstrom exponent used to rescale the AOT to
              each band. A negative value disables rescaling.`,
			defaultVal: -1.,
			flagsets:   pointSets,
		},
		{
			name: "SolarZenith",
			usage: `
              SolarZenith is the solar zenith angle [degrees].`,
			defaultVal: 30.,
			flagsets:   pointSets,
		},
		{
			name: "ViewZenith",
			usage: `
              ViewZenith is the view zenith angle [degrees].`,
			defaultVal: 5.,
			flagsets:   pointSets,
		},
		{
			name: "RelativeAzimuth",
			usage: `
              RelativeAzimuth is the relative azimuth angle between the sun
              and the sensor [degrees].`,
			defaultVal: 90.,
			flagsets:   pointSets,
		},
		{
			name: "Pressure",
			usage: `
              Pressure is the surface pressure [mb].`,
			defaultVal: atmcorr.StandardPressure,
			flagsets:   pointSets,
		},
		{
			name: "AOT",
			usage: `
              AOT is the aerosol optical thickness at 550 nm.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{invertCmd.Flags()},
		},
		{
			name: "Ozone",
			usage: `
              Ozone is the total column ozone [cm-atm].`,
			defaultVal: 0.3,
			flagsets:   pointSets,
		},
		{
			name: "WaterVapor",
			usage: `
              WaterVapor is the total column water vapor [g/cm2].`,
			defaultVal: 2.,
			flagsets:   pointSets,
		},
		{
			name: "TOA",
			usage: `
              TOA is the top-of-atmosphere reflectance to invert.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{invertCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ATMCORR")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(lutCmd)
	lutCmd.AddCommand(lutConvertCmd)
	Root.AddCommand(invertCmd)
	Root.AddCommand(correctCmd)
	Root.AddCommand(fitCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func setConfig() error { return configure(Cfg) }

func configure(cfg *viper.Viper) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("atmcorr: problem reading configuration file: %v", err)
		}
	}
	level := cfg.GetString("LogLevel")
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("atmcorr: config: %v", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "atmcorr",
	Short: "Lookup-table atmospheric correction of satellite imagery.",
	Long: `atmcorr converts top-of-atmosphere reflectance from Landsat 8/9 OLI or
Sentinel-2 MSI imagery into surface reflectance using precomputed radiative
transfer lookup tables.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ATMCORR_var' where 'var' is the
name of the variable to be set. File paths are allowed to contain environment
variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of atmcorr.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("atmcorr v%s\n", atmcorr.Version)
	},
	DisableAutoGenTag: true,
}

var lutCmd = &cobra.Command{
	Use:   "lut",
	Short: "Manage lookup table files.",
	Long: `lut manages lookup table files. Use the subcommands specified below
to choose an operation.`,
	DisableAutoGenTag: true,
}

var lutConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Combine lookup tables into a single NetCDF file.",
	Long: `convert reads the lookup tables specified by LUTFile and the optional
AngleFile, TransmissionFile, SphericalAlbedoFile and GasCoefficientFile,
checks them, and writes them to OutputFile as a single NetCDF file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		s, err := loadStore(context.Background(), Cfg)
		if err != nil {
			return err
		}
		return Convert(s, outputFile)
	},
	DisableAutoGenTag: true,
}

var invertCmd = &cobra.Command{
	Use:   "invert",
	Short: "Invert a single observation.",
	Long: `invert calculates the surface reflectance of a single observation
specified by TOA, the geometry and the atmosphere, and prints the
intermediate atmospheric quantities for each band.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStore(context.Background(), Cfg)
		if err != nil {
			return err
		}
		bands, err := getBands(Cfg, s.Sensor())
		if err != nil {
			return err
		}
		return Invert(cmd.OutOrStdout(), s, bands, Cfg.GetFloat64("TOA"), geometry(Cfg), atmosphere(Cfg))
	},
	DisableAutoGenTag: true,
}

var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Correct a scene.",
	Long: `correct calculates the surface reflectance of every pixel in SceneFile
and writes it to OutputFile. Pixels whose solar zenith angle is beyond the
lookup tables are set to the fill value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		sceneFile, err := checkInputFile("SceneFile", Cfg.GetString("SceneFile"))
		if err != nil {
			return err
		}
		s, err := loadStore(context.Background(), Cfg)
		if err != nil {
			return err
		}
		bands, err := getBands(Cfg, s.Sensor())
		if err != nil {
			return err
		}
		c := &atmcorr.Corrector{
			Store:         s,
			NumProcessors: Cfg.GetInt("NumProcessors"),
			Log:           logrus.StandardLogger(),
		}
		return Correct(context.Background(), c, sceneFile, outputFile, expandPath(Cfg.GetString("FitFile")),
			bands, Cfg.GetFloat64("MaxAOT"))
	},
	DisableAutoGenTag: true,
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit polynomial coefficients for one geometry.",
	Long: `fit derives cubic polynomials in AOT of the path reflectance,
transmission and spherical albedo for the specified geometry and atmosphere,
and writes them to OutputFile in TOML format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		s, err := loadStore(context.Background(), Cfg)
		if err != nil {
			return err
		}
		bands, err := getBands(Cfg, s.Sensor())
		if err != nil {
			return err
		}
		return Fit(s, bands, geometry(Cfg), atmosphere(Cfg), outputFile)
	},
	DisableAutoGenTag: true,
}
