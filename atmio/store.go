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

// Package atmio reads and writes the files used by atmcorr: lookup tables
// in NetCDF and ASCII formats, coefficient files and scenes.
package atmio

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/atmcorr"
)

// DataVersion is the version of the lookup table file format.
const DataVersion = "1.0.0"

// Names of the dimensions of a lookup table file.
var storeDims = []string{"band", "pressure", "aot", "sample", "sunangle", "view", "solar"}

// gasVars are the names of the per-band gas coefficient variables.
var gasVars = []string{"tauray", "oztransa", "wvtransa", "wvtransb", "ogtransa1", "ogtransb0", "ogtransb1"}

func gasFields(g *atmcorr.GasCoefficients) []*float64 {
	return []*float64{&g.Tauray, &g.OzoneA, &g.WaterVaporA, &g.WaterVaporB, &g.OtherA1, &g.OtherB0, &g.OtherB1}
}

// tableVars returns the lookup table variables of t with their dimensions.
func tableVars(t *atmcorr.Tables) []struct {
	name string
	dims []string
	data **sparse.DenseArray
} {
	return []struct {
		name string
		dims []string
		data **sparse.DenseArray
	}{
		{"scatter_max", []string{"view", "solar"}, &t.ScatterMax},
		{"scatter_min", []string{"view", "solar"}, &t.ScatterMin},
		{"view_angle", []string{"view", "solar"}, &t.ViewAngle},
		{"nbfi", []string{"view", "solar"}, &t.NumAzimuth},
		{"nbfic", []string{"view", "solar"}, &t.CumAzimuth},
		{"reflectance", []string{"band", "pressure", "aot", "sample"}, &t.Reflectance},
		{"transmission", []string{"band", "pressure", "aot", "sunangle"}, &t.Transmission},
		{"spherical_albedo", []string{"band", "pressure", "aot"}, &t.SphericalAlbedo},
		{"normext", []string{"band", "pressure", "aot"}, &t.NormExt},
	}
}

// WriteStore writes the tables of s to w in NetCDF format.
func WriteStore(w *os.File, s *atmcorr.Store) error {
	t := s.Tables()
	r := t.Reflectance.Shape
	h := cdf.NewHeader(storeDims,
		[]int{r[0], r[1], r[2], r[3], len(t.SunAngle), t.ScatterMax.Shape[0], t.ScatterMax.Shape[1]})
	h.AddAttribute("", "comment", "atmcorr atmospheric correction lookup tables")
	h.AddAttribute("", "sensor", t.Sensor.String())
	h.AddAttribute("", "solar_zenith_min", []float64{t.SolarZenithMin})
	h.AddAttribute("", "solar_zenith_step", []float64{t.SolarZenithStep})
	h.AddAttribute("", "view_zenith_min", []float64{t.ViewZenithMin})
	h.AddAttribute("", "view_zenith_step", []float64{t.ViewZenithStep})
	h.AddAttribute("", "data_version", DataVersion)

	h.AddVariable("pressure", []string{"pressure"}, []float64{0})
	h.AddAttribute("pressure", "units", "mb")
	h.AddVariable("aot", []string{"aot"}, []float64{0})
	h.AddAttribute("aot", "description", "aerosol optical thickness at 550 nm")
	h.AddVariable("sunangle", []string{"sunangle"}, []float64{0})
	h.AddAttribute("sunangle", "units", "degrees")
	h.AddVariable("sunangle_index", []string{"sunangle"}, []int32{0})
	for _, v := range tableVars(t) {
		h.AddVariable(v.name, v.dims, []float64{0})
	}
	for _, v := range gasVars {
		h.AddVariable(v, []string{"band"}, []float64{0})
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("atmio: creating lookup table file: %v", err)
	}
	if err = writeVar(f, "pressure", t.Pressure); err != nil {
		return err
	}
	if err = writeVar(f, "aot", t.AOT); err != nil {
		return err
	}
	if err = writeVar(f, "sunangle", t.SunAngle); err != nil {
		return err
	}
	indts := make([]int32, len(t.SunAngle))
	for i := range indts {
		if i < len(t.SunAngleIndex) {
			indts[i] = int32(t.SunAngleIndex[i])
		}
	}
	if err = writeVar(f, "sunangle_index", indts); err != nil {
		return err
	}
	for _, v := range tableVars(t) {
		if err = writeVar(f, v.name, (*v.data).Elements); err != nil {
			return err
		}
	}
	for i, v := range gasVars {
		vals := make([]float64, len(t.Gas))
		for b := range t.Gas {
			vals[b] = *gasFields(&t.Gas[b])[i]
		}
		if err = writeVar(f, v, vals); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(w)
}

// ReadStore reads lookup tables in NetCDF format and returns them as a
// validated Store.
func ReadStore(rw cdf.ReaderWriterAt) (*atmcorr.Store, error) {
	t, err := ReadTables(rw)
	if err != nil {
		return nil, err
	}
	return atmcorr.NewStore(t)
}

// ReadTables reads lookup tables in NetCDF format. Tables that are missing
// from the file are left nil, so a file holding only the reflectance and
// angle tables can be completed with other sources before calling
// atmcorr.NewStore.
func ReadTables(rw cdf.ReaderWriterAt) (*atmcorr.Tables, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("atmio.ReadTables: %v", err)
	}
	dataVersion, ok := f.Header.GetAttribute("", "data_version").(string)
	if !ok || dataVersion != DataVersion {
		return nil, fmt.Errorf("atmio.ReadTables: data version %q is incompatible "+
			"with the required version %s", dataVersion, DataVersion)
	}
	t := new(atmcorr.Tables)
	sensor, _ := f.Header.GetAttribute("", "sensor").(string)
	if t.Sensor, err = atmcorr.ParseSensor(sensor); err != nil {
		return nil, fmt.Errorf("atmio.ReadTables: %v", err)
	}
	for _, a := range []struct {
		name string
		v    *float64
	}{
		{"solar_zenith_min", &t.SolarZenithMin},
		{"solar_zenith_step", &t.SolarZenithStep},
		{"view_zenith_min", &t.ViewZenithMin},
		{"view_zenith_step", &t.ViewZenithStep},
	} {
		v, ok := f.Header.GetAttribute("", a.name).([]float64)
		if !ok || len(v) == 0 {
			return nil, fmt.Errorf("atmio.ReadTables: missing attribute %s", a.name)
		}
		*a.v = v[0]
	}

	for _, v := range []struct {
		name string
		data *[]float64
	}{
		{"pressure", &t.Pressure},
		{"aot", &t.AOT},
		{"sunangle", &t.SunAngle},
	} {
		d, err := readVar(f, v.name)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, fmt.Errorf("atmio.ReadTables: missing variable %s", v.name)
		}
		*v.data = d.Elements
	}
	indts, err := readVar(f, "sunangle_index")
	if err != nil {
		return nil, err
	}
	if indts == nil {
		return nil, fmt.Errorf("atmio.ReadTables: missing variable sunangle_index")
	}
	t.SunAngleIndex = make([]int, len(indts.Elements))
	for i, v := range indts.Elements {
		t.SunAngleIndex[i] = int(math.Round(v))
	}

	for _, v := range tableVars(t) {
		if *v.data, err = readVar(f, v.name); err != nil {
			return nil, err
		}
	}

	var gas [][]float64
	for _, v := range gasVars {
		d, err := readVar(f, v)
		if err != nil {
			return nil, err
		}
		if d == nil {
			gas = nil
			break
		}
		gas = append(gas, d.Elements)
	}
	if gas != nil {
		t.Gas = make([]atmcorr.GasCoefficients, len(gas[0]))
		for b := range t.Gas {
			for i, p := range gasFields(&t.Gas[b]) {
				*p = gas[i][b]
			}
		}
	}
	return t, nil
}

// readVar reads a numeric variable. It returns nil if the variable is not
// in the file.
func readVar(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	if dims == nil {
		return nil, nil
	}
	d := sparse.ZerosDense(dims...)
	buf := f.Header.ZeroValue(name, len(d.Elements))
	if _, err := f.Reader(name, nil, nil).Read(buf); err != nil {
		return nil, fmt.Errorf("atmio: reading variable %s: %v", name, err)
	}
	switch b := buf.(type) {
	case []float64:
		copy(d.Elements, b)
	case []float32:
		for i, v := range b {
			d.Elements[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			d.Elements[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			d.Elements[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			d.Elements[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("atmio: variable %s has unsupported type %T", name, buf)
	}
	return d, nil
}
