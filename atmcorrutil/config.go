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

package atmcorrutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/atmcorr"
	"github.com/spatialmodel/atmcorr/atmio"
	"github.com/spf13/cast"
)

// stores holds the lookup tables loaded by the commands.
var stores atmio.StoreCache

// expandPath expands any environment variables in a file path.
func expandPath(f string) string { return os.ExpandEnv(f) }

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`atmcorr: config: you need to specify an output file configuration variable (for example: OutputFile="output.ncf")`)
	}
	f = expandPath(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("atmcorr: config: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkInputFile makes sure that the input file given by the option name
// is specified and exists, and expands any environment variables.
func checkInputFile(name, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("atmcorr: config: you need to specify the %s configuration variable", name)
	}
	f = expandPath(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("atmcorr: config: %s: %v", name, err)
	}
	return f, nil
}

// source returns the lookup table files specified in cfg.
func source(cfg *viper.Viper) atmio.Source {
	return atmio.Source{
		LUTFile:             expandPath(cfg.GetString("LUTFile")),
		AngleFile:           expandPath(cfg.GetString("AngleFile")),
		TransmissionFile:    expandPath(cfg.GetString("TransmissionFile")),
		SphericalAlbedoFile: expandPath(cfg.GetString("SphericalAlbedoFile")),
		GasFile:             expandPath(cfg.GetString("GasCoefficientFile")),
	}
}

// loadStore loads the lookup tables specified in cfg and checks that they
// are for the configured sensor.
func loadStore(ctx context.Context, cfg *viper.Viper) (*atmcorr.Store, error) {
	src := source(cfg)
	if _, err := checkInputFile("LUTFile", src.LUTFile); err != nil {
		return nil, err
	}
	s, err := stores.Store(ctx, src)
	if err != nil {
		return nil, err
	}
	if name := cfg.GetString("Sensor"); name != "" {
		want, err := atmcorr.ParseSensor(name)
		if err != nil {
			return nil, fmt.Errorf("atmcorr: config: %v", err)
		}
		if s.Sensor() != want {
			return nil, fmt.Errorf("atmcorr: config: the lookup tables are for %s but Sensor is %s", s.Sensor(), want)
		}
	}
	return s, nil
}

// getBands returns the bands specified in cfg, or every band of sensor s
// if none are specified.
func getBands(cfg *viper.Viper, s atmcorr.Sensor) ([]int, error) {
	bands, err := toIntSliceE(cfg.Get("Band"))
	if err != nil {
		return nil, fmt.Errorf("atmcorr: config: invalid Band: %v", err)
	}
	if len(bands) == 0 {
		bands = make([]int, s.NumBands())
		for i := range bands {
			bands[i] = i
		}
		return bands, nil
	}
	for _, b := range bands {
		if b < 0 || b >= s.NumBands() {
			return nil, fmt.Errorf("atmcorr: config: band %d is out of range; %s has %d bands", b, s, s.NumBands())
		}
	}
	return bands, nil
}

// toIntSliceE converts a list-valued option, which may have been set as a
// string on the command line, to a slice of integers.
func toIntSliceE(v interface{}) ([]int, error) {
	if s, ok := v.(string); ok {
		fields := strings.FieldsFunc(strings.Trim(strings.TrimSpace(s), "[]"), func(r rune) bool {
			return r == ',' || r == ' '
		})
		return cast.ToIntSliceE(fields)
	}
	if v == nil {
		return nil, nil
	}
	return cast.ToIntSliceE(v)
}

// geometry returns the observation geometry specified in cfg.
func geometry(cfg *viper.Viper) atmcorr.Geometry {
	return atmcorr.NewGeometry(cfg.GetFloat64("SolarZenith"), cfg.GetFloat64("ViewZenith"),
		cfg.GetFloat64("RelativeAzimuth"))
}

// atmosphere returns the atmospheric state specified in cfg.
func atmosphere(cfg *viper.Viper) atmcorr.Atmosphere {
	return atmcorr.Atmosphere{
		Pressure:   cfg.GetFloat64("Pressure"),
		AOT:        cfg.GetFloat64("AOT"),
		Angstrom:   cfg.GetFloat64("Angstrom"),
		MaxAOT:     cfg.GetFloat64("MaxAOT"),
		Ozone:      cfg.GetFloat64("Ozone"),
		WaterVapor: cfg.GetFloat64("WaterVapor"),
	}
}
