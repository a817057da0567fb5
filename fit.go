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

package atmcorr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FitCoefficients approximate the atmospheric quantities of one band and
// one geometry as cubic polynomials in AOT, so that pixels sharing the
// geometry can be inverted without table lookups. Polynomial coefficients
// are ordered from the cubic term to the constant term.
type FitCoefficients struct {
	Sensor Sensor
	Band   int

	// NormExt is the normalized extinction coefficient of the band used
	// to rescale the AOT.
	NormExt float64

	// MaxAOT is the upper bound of the rescaled AOT. Zero or a negative
	// value disables the bound.
	MaxAOT float64

	PathReflectance, Transmission, SphericalAlbedo [4]float64
}

func cubic(c [4]float64, x float64) float64 {
	return c[3] + c[2]*x + c[1]*x*x + c[0]*x*x*x
}

// Invert returns the surface reflectance for the top-of-atmosphere
// reflectance rotoa, the ozone and other-gas transmission tgo, the AOT at
// 550 nm and the Angstrom exponent (negative to disable rescaling).
func (c *FitCoefficients) Invert(rotoa, tgo, aot, angstrom float64) Result {
	x := c.Sensor.AdjustAOT(c.Band, aot, c.NormExt, angstrom)
	if c.MaxAOT > 0 && x >= c.MaxAOT {
		x = c.MaxAOT
	}
	r := Result{
		GasTransmission: tgo,
		PathReflectance: cubic(c.PathReflectance, x),
		Transmission:    cubic(c.Transmission, x),
		SphericalAlbedo: cubic(c.SphericalAlbedo, x),
		AOT:             x,
	}
	r.SurfaceReflectance = invert(rotoa-tgo*r.PathReflectance, tgo*r.Transmission, r.SphericalAlbedo)
	return r
}

// Fit derives FitCoefficients for band and geometry g from the lookup
// tables. The atmosphere a supplies the pressure, gas columns and AOT
// bound; the polynomials are fit by least squares to the path quantities
// at every AOT level up to the bound.
func (s *Store) Fit(band int, g Geometry, a Atmosphere) (*FitCoefficients, error) {
	maxAOT := s.t.AOT[len(s.t.AOT)-1]
	if a.MaxAOT > 0 && a.MaxAOT < maxAOT {
		maxAOT = a.MaxAOT
	}
	var nodes []float64
	for _, v := range s.t.AOT {
		if v <= maxAOT {
			nodes = append(nodes, v)
		}
	}
	if len(nodes) < 4 {
		return nil, fmt.Errorf("atmcorr: fitting a cubic needs at least 4 AOT levels below %g but there are %d",
			maxAOT, len(nodes))
	}

	x := mat.NewDense(len(nodes), 4, nil)
	path := mat.NewVecDense(len(nodes), nil)
	trans := mat.NewVecDense(len(nodes), nil)
	salb := mat.NewVecDense(len(nodes), nil)
	node := a
	node.Angstrom = -1
	node.MaxAOT = 0
	for i, v := range nodes {
		x.Set(i, 0, v*v*v)
		x.Set(i, 1, v*v)
		x.Set(i, 2, v)
		x.Set(i, 3, 1)
		node.AOT = v
		b, err := s.Locate(band, g, node)
		if err != nil {
			return nil, err
		}
		r := s.path(band, g, node, &b)
		path.SetVec(i, r.PathReflectance)
		trans.SetVec(i, r.Transmission)
		salb.SetVec(i, r.SphericalAlbedo)
	}

	c := &FitCoefficients{
		Sensor:  s.t.Sensor,
		Band:    band,
		NormExt: s.cube(s.t.NormExt, band, 0, extinctionAOTIndex),
		MaxAOT:  maxAOT,
	}
	for _, f := range []struct {
		y    *mat.VecDense
		coef *[4]float64
	}{
		{y: path, coef: &c.PathReflectance},
		{y: trans, coef: &c.Transmission},
		{y: salb, coef: &c.SphericalAlbedo},
	} {
		var sol mat.VecDense
		if err := sol.SolveVec(x, f.y); err != nil {
			return nil, fmt.Errorf("atmcorr: fitting band %d: %v", band, err)
		}
		for i := range f.coef {
			f.coef[i] = sol.AtVec(i)
		}
	}
	return c, nil
}
