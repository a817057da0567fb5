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
	"testing"

	"gonum.org/v1/gonum/floats"
)

func cubicPath(a float64) float64 { return 0.02 + 0.03*a - 0.004*a*a + 0.0003*a*a*a }
func quadAlbedo(a float64) float64 { return 0.05 + 0.02*a - 0.001*a*a }

// polyTables are polynomials in AOT at the AOT levels.
var polyTables = tableFuncs{
	refl:  func(band, ip, ia, k int) float64 { return cubicPath(testAOT[ia]) },
	trans: func(band, ip, ia, k int) float64 { return 1 },
	salb:  func(band, ip, ia int) float64 { return quadAlbedo(testAOT[ia]) },
}

func TestFit(t *testing.T) {
	s := newTestStore(t, polyTables)
	const band = 1
	g := NewGeometry(28, 4, 75)
	a := Atmosphere{Pressure: 1013, WaterVapor: 1.5, Ozone: 0.3}
	c, err := s.Fit(band, g, a)
	if err != nil {
		t.Fatal(err)
	}
	if c.Band != band || c.Sensor != Landsat || c.NormExt != 1 || c.MaxAOT != 5 {
		t.Errorf("have %+v", c)
	}

	gas := s.GasTransmission(band, g, a)
	tau := landsatGas[band].Tauray * a.Pressure / StandardPressure
	rorayp := RayleighReflectance(g.RelAzimuth, g.CosViewZenith, g.CosSolarZenith, tau)
	h := gas.WaterVaporHalf
	wantPath := []float64{0.0003 * h, -0.004 * h, 0.03 * h, 0.02*h + (1-h)*rorayp}
	if !floats.EqualApprox(c.PathReflectance[:], wantPath, 1e-9) {
		t.Errorf("path reflectance: have %v, want %v", c.PathReflectance, wantPath)
	}
	if wantTrans := []float64{0, 0, 0, gas.WaterVapor}; !floats.EqualApprox(c.Transmission[:], wantTrans, 1e-9) {
		t.Errorf("transmission: have %v, want %v", c.Transmission, wantTrans)
	}
	if wantAlb := []float64{0, -0.001, 0.02, 0.05}; !floats.EqualApprox(c.SphericalAlbedo[:], wantAlb, 1e-9) {
		t.Errorf("spherical albedo: have %v, want %v", c.SphericalAlbedo, wantAlb)
	}

	tgo := gas.OzoneAndOther()
	for _, aot := range []float64{0.05, 0.4, 1.4, 3.5} {
		node := a
		node.AOT = aot
		node.Angstrom = -1
		want, err := s.Invert(band, 0.18, g, node)
		if err != nil {
			t.Fatal(err)
		}
		have := c.Invert(0.18, tgo, aot, -1)
		if !floats.EqualWithinAbsOrRel(have.SurfaceReflectance, want.SurfaceReflectance, 1e-9, 1e-9) {
			t.Errorf("AOT %g: have %g, want %g", aot, have.SurfaceReflectance, want.SurfaceReflectance)
		}
	}
}

func TestFitInvertAOT(t *testing.T) {
	c := &FitCoefficients{Sensor: Landsat, Band: 2, NormExt: 0.9, MaxAOT: 1}
	r := c.Invert(0.1, 0.98, 0.3, 1.2)
	if want := Landsat.AdjustAOT(2, 0.3, 0.9, 1.2); r.AOT != want {
		t.Errorf("have AOT %g, want %g", r.AOT, want)
	}
	if r = c.Invert(0.1, 0.98, 3, 1.2); r.AOT != 1 {
		t.Errorf("bounded: have AOT %g, want 1", r.AOT)
	}
}

func TestFitTooFewLevels(t *testing.T) {
	s := newTestStore(t, polyTables)
	_, err := s.Fit(0, NewGeometry(28, 4, 75), Atmosphere{Pressure: 1013, MaxAOT: 0.1})
	if err == nil {
		t.Error("expected an error")
	}
}
