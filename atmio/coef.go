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

package atmio

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/atmcorr"
)

type gasFile struct {
	Sensor string    `toml:"sensor"`
	Band   []gasBand `toml:"band"`
}

type gasBand struct {
	Tauray    float64 `toml:"tauray"`
	OzTransA  float64 `toml:"oztransa"`
	WvTransA  float64 `toml:"wvtransa"`
	WvTransB  float64 `toml:"wvtransb"`
	OgTransA1 float64 `toml:"ogtransa1"`
	OgTransB0 float64 `toml:"ogtransb0"`
	OgTransB1 float64 `toml:"ogtransb1"`
}

// ReadGasCoefficients reads per-band gas coefficients in TOML format:
// a sensor name and one [[band]] table per band.
func ReadGasCoefficients(r io.Reader) (atmcorr.Sensor, []atmcorr.GasCoefficients, error) {
	var f gasFile
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return 0, nil, fmt.Errorf("atmio: reading gas coefficients: %v", err)
	}
	s, err := atmcorr.ParseSensor(f.Sensor)
	if err != nil {
		return 0, nil, err
	}
	if len(f.Band) != s.NumBands() {
		return 0, nil, fmt.Errorf("atmio: gas coefficient file has %d bands but sensor %s has %d",
			len(f.Band), s, s.NumBands())
	}
	o := make([]atmcorr.GasCoefficients, len(f.Band))
	for i, b := range f.Band {
		o[i] = atmcorr.GasCoefficients{
			Tauray:      b.Tauray,
			OzoneA:      b.OzTransA,
			WaterVaporA: b.WvTransA,
			WaterVaporB: b.WvTransB,
			OtherA1:     b.OgTransA1,
			OtherB0:     b.OgTransB0,
			OtherB1:     b.OgTransB1,
		}
	}
	return s, o, nil
}

// WriteGasCoefficients writes the gas coefficients of sensor s in the
// format read by ReadGasCoefficients.
func WriteGasCoefficients(w io.Writer, s atmcorr.Sensor, g []atmcorr.GasCoefficients) error {
	f := gasFile{Sensor: s.String()}
	for _, c := range g {
		f.Band = append(f.Band, gasBand{
			Tauray:    c.Tauray,
			OzTransA:  c.OzoneA,
			WvTransA:  c.WaterVaporA,
			WvTransB:  c.WaterVaporB,
			OgTransA1: c.OtherA1,
			OgTransB0: c.OtherB0,
			OgTransB1: c.OtherB1,
		})
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("atmio: writing gas coefficients: %v", err)
	}
	return nil
}

type fitFile struct {
	Sensor string    `toml:"sensor"`
	Band   []fitBand `toml:"band"`
}

type fitBand struct {
	Band    int       `toml:"band"`
	NormExt float64   `toml:"normext"`
	MaxAOT  float64   `toml:"max_aot"`
	Roatm   []float64 `toml:"roatm"`
	Ttatmg  []float64 `toml:"ttatmg"`
	Satm    []float64 `toml:"satm"`
}

// WriteFitCoefficients writes polynomial coefficients in TOML format. All
// coefficients must belong to the same sensor.
func WriteFitCoefficients(w io.Writer, c []*atmcorr.FitCoefficients) error {
	if len(c) == 0 {
		return fmt.Errorf("atmio: no fit coefficients to write")
	}
	f := fitFile{Sensor: c[0].Sensor.String()}
	for _, b := range c {
		if b.Sensor != c[0].Sensor {
			return fmt.Errorf("atmio: fit coefficients for sensors %s and %s in the same file", c[0].Sensor, b.Sensor)
		}
		f.Band = append(f.Band, fitBand{
			Band:    b.Band,
			NormExt: b.NormExt,
			MaxAOT:  b.MaxAOT,
			Roatm:   append([]float64{}, b.PathReflectance[:]...),
			Ttatmg:  append([]float64{}, b.Transmission[:]...),
			Satm:    append([]float64{}, b.SphericalAlbedo[:]...),
		})
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("atmio: writing fit coefficients: %v", err)
	}
	return nil
}

// ReadFitCoefficients reads polynomial coefficients in the format written
// by WriteFitCoefficients.
func ReadFitCoefficients(r io.Reader) ([]*atmcorr.FitCoefficients, error) {
	var f fitFile
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return nil, fmt.Errorf("atmio: reading fit coefficients: %v", err)
	}
	s, err := atmcorr.ParseSensor(f.Sensor)
	if err != nil {
		return nil, err
	}
	o := make([]*atmcorr.FitCoefficients, len(f.Band))
	for i, b := range f.Band {
		if b.Band < 0 || b.Band >= s.NumBands() {
			return nil, fmt.Errorf("atmio: fit coefficients for band %d but sensor %s has %d bands",
				b.Band, s, s.NumBands())
		}
		c := &atmcorr.FitCoefficients{Sensor: s, Band: b.Band, NormExt: b.NormExt, MaxAOT: b.MaxAOT}
		for _, p := range []struct {
			name string
			in   []float64
			out  *[4]float64
		}{
			{"roatm", b.Roatm, &c.PathReflectance},
			{"ttatmg", b.Ttatmg, &c.Transmission},
			{"satm", b.Satm, &c.SphericalAlbedo},
		} {
			if len(p.in) != 4 {
				return nil, fmt.Errorf("atmio: band %d: %s has %d coefficients; want 4", b.Band, p.name, len(p.in))
			}
			copy(p.out[:], p.in)
		}
		o[i] = c
	}
	return o, nil
}
