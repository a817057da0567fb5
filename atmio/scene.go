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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/atmcorr"
)

// FillValue marks output pixels that could not be corrected.
const FillValue = -9999.

// sceneFields are the per-pixel [y][x] inputs of a scene.
var sceneFields = []string{"solar_zenith", "view_zenith", "relative_azimuth",
	"pressure", "aot", "ozone", "water_vapor"}

// Scene holds the inputs of an image to be corrected.
type Scene struct {
	// TOA is the top-of-atmosphere reflectance [band][y][x].
	TOA *sparse.DenseArray

	// Per-pixel [y][x] geometry [degrees] and atmosphere.
	SolarZenith, ViewZenith, RelativeAzimuth *sparse.DenseArray
	Pressure, AOT, Ozone, WaterVapor         *sparse.DenseArray

	// Angstrom is the Angstrom exponent applied to every pixel. It is
	// negative if AOT should not be rescaled.
	Angstrom float64
}

func (s *Scene) fields() []**sparse.DenseArray {
	return []**sparse.DenseArray{&s.SolarZenith, &s.ViewZenith, &s.RelativeAzimuth,
		&s.Pressure, &s.AOT, &s.Ozone, &s.WaterVapor}
}

// NewScene returns a scene of zeros with the given dimensions and no
// Angstrom rescaling.
func NewScene(nBand, ny, nx int) *Scene {
	s := &Scene{TOA: sparse.ZerosDense(nBand, ny, nx), Angstrom: -1}
	for _, f := range s.fields() {
		*f = sparse.ZerosDense(ny, nx)
	}
	return s
}

// Dims returns the number of bands, rows and columns in s.
func (s *Scene) Dims() (nBand, ny, nx int) {
	return s.TOA.Shape[0], s.TOA.Shape[1], s.TOA.Shape[2]
}

// Pixels returns the pixels of band in row-major order. maxAOT is the
// upper bound of the rescaled AOT.
func (s *Scene) Pixels(band int, maxAOT float64) []atmcorr.Pixel {
	_, ny, nx := s.Dims()
	n := ny * nx
	o := make([]atmcorr.Pixel, n)
	toa := s.TOA.Elements[band*n : (band+1)*n]
	for i := range o {
		o[i] = atmcorr.Pixel{
			TOA: toa[i],
			Geometry: atmcorr.NewGeometry(s.SolarZenith.Elements[i], s.ViewZenith.Elements[i],
				s.RelativeAzimuth.Elements[i]),
			Atmosphere: atmcorr.Atmosphere{
				Pressure:   s.Pressure.Elements[i],
				AOT:        s.AOT.Elements[i],
				Angstrom:   s.Angstrom,
				MaxAOT:     maxAOT,
				Ozone:      s.Ozone.Elements[i],
				WaterVapor: s.WaterVapor.Elements[i],
			},
		}
	}
	return o
}

// Write writes s to w in NetCDF format.
func (s *Scene) Write(w *os.File) error {
	nBand, ny, nx := s.Dims()
	h := cdf.NewHeader([]string{"band", "y", "x"}, []int{nBand, ny, nx})
	h.AddAttribute("", "comment", "atmcorr input scene")
	if s.Angstrom >= 0 {
		h.AddAttribute("", "angstrom", []float64{s.Angstrom})
	}
	h.AddVariable("toa", []string{"band", "y", "x"}, []float64{0})
	h.AddAttribute("toa", "description", "top-of-atmosphere reflectance")
	for _, name := range sceneFields {
		h.AddVariable(name, []string{"y", "x"}, []float64{0})
	}
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("atmio: creating scene file: %v", err)
	}
	if err = writeVar(f, "toa", s.TOA.Elements); err != nil {
		return err
	}
	for i, name := range sceneFields {
		if err = writeVar(f, name, (*s.fields()[i]).Elements); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(w)
}

// ReadScene reads a scene in the format written by Scene.Write.
func ReadScene(rw cdf.ReaderWriterAt) (*Scene, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("atmio.ReadScene: %v", err)
	}
	s := &Scene{Angstrom: -1}
	if a, ok := f.Header.GetAttribute("", "angstrom").([]float64); ok && len(a) > 0 {
		s.Angstrom = a[0]
	}
	if s.TOA, err = readVar(f, "toa"); err != nil {
		return nil, err
	}
	if s.TOA == nil || len(s.TOA.Shape) != 3 {
		return nil, fmt.Errorf("atmio.ReadScene: missing or malformed variable toa")
	}
	for i, name := range sceneFields {
		d, err := readVar(f, name)
		if err != nil {
			return nil, err
		}
		if d == nil || len(d.Shape) != 2 || d.Shape[0] != s.TOA.Shape[1] || d.Shape[1] != s.TOA.Shape[2] {
			return nil, fmt.Errorf("atmio.ReadScene: variable %s is missing or does not match toa", name)
		}
		*s.fields()[i] = d
	}
	return s, nil
}

// Output holds corrected surface reflectance.
type Output struct {
	// SurfaceReflectance is [band][y][x]. Pixels that could not be
	// corrected hold FillValue.
	SurfaceReflectance *sparse.DenseArray

	// Valid is 1 where a pixel was corrected and 0 otherwise.
	Valid *sparse.DenseArray
}

// NewOutput returns an output with every pixel set to FillValue.
func NewOutput(nBand, ny, nx int) *Output {
	o := &Output{
		SurfaceReflectance: sparse.ZerosDense(nBand, ny, nx),
		Valid:              sparse.ZerosDense(nBand, ny, nx),
	}
	for i := range o.SurfaceReflectance.Elements {
		o.SurfaceReflectance.Elements[i] = FillValue
	}
	return o
}

// Set stores the results of band, in the order returned by Scene.Pixels.
func (o *Output) Set(band int, results []atmcorr.Result) error {
	n := o.SurfaceReflectance.Shape[1] * o.SurfaceReflectance.Shape[2]
	if len(results) != n {
		return fmt.Errorf("atmio: %d results for %d pixels", len(results), n)
	}
	sr := o.SurfaceReflectance.Elements[band*n : (band+1)*n]
	valid := o.Valid.Elements[band*n : (band+1)*n]
	for i, r := range results {
		if r.Valid {
			sr[i] = r.SurfaceReflectance
			valid[i] = 1
		} else {
			sr[i] = FillValue
			valid[i] = 0
		}
	}
	return nil
}

// Write writes o to w in NetCDF format.
func (o *Output) Write(w *os.File) error {
	s := o.SurfaceReflectance.Shape
	h := cdf.NewHeader([]string{"band", "y", "x"}, []int{s[0], s[1], s[2]})
	h.AddAttribute("", "comment", "atmcorr surface reflectance")
	h.AddVariable("surface_reflectance", []string{"band", "y", "x"}, []float64{0})
	h.AddAttribute("surface_reflectance", "_FillValue", []float64{FillValue})
	h.AddVariable("valid", []string{"band", "y", "x"}, []uint8{0})
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("atmio: creating output file: %v", err)
	}
	if err = writeVar(f, "surface_reflectance", o.SurfaceReflectance.Elements); err != nil {
		return err
	}
	valid := make([]uint8, len(o.Valid.Elements))
	for i, v := range o.Valid.Elements {
		if v != 0 {
			valid[i] = 1
		}
	}
	if err = writeVar(f, "valid", valid); err != nil {
		return err
	}
	return cdf.UpdateNumRecs(w)
}

// ReadOutput reads surface reflectance in the format written by
// Output.Write.
func ReadOutput(rw cdf.ReaderWriterAt) (*Output, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("atmio.ReadOutput: %v", err)
	}
	o := new(Output)
	if o.SurfaceReflectance, err = readVar(f, "surface_reflectance"); err != nil {
		return nil, err
	}
	if o.Valid, err = readVar(f, "valid"); err != nil {
		return nil, err
	}
	if o.SurfaceReflectance == nil || o.Valid == nil {
		return nil, fmt.Errorf("atmio.ReadOutput: missing variables")
	}
	return o, nil
}

func writeVar(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(data); err != nil {
		return fmt.Errorf("atmio: writing variable %s: %v", name, err)
	}
	return nil
}
