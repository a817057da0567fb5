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
	"math"
	"testing"
)

func TestComposeGridPoint(t *testing.T) {
	s := newTestStore(t, smoothTables)
	const band = 2
	b, err := s.Locate(band, NewGeometry(30, 11, 90), Atmosphere{Pressure: testPressure[0], AOT: testAOT[1], Angstrom: -1})
	if err != nil {
		t.Fatal(err)
	}
	if have, want := s.AtmosphericReflectance(band, &b), smoothTables.refl(band, 0, 1, 0); have != want {
		t.Errorf("reflectance: have %g, want %g", have, want)
	}
	if have, want := s.SolarTransmission(band, &b), smoothTables.trans(band, 0, 1, 0); have != want {
		t.Errorf("solar transmission: have %g, want %g", have, want)
	}
	if have, want := s.ViewTransmission(band, &b), smoothTables.trans(band, 0, 1, 0); have != want {
		t.Errorf("view transmission: have %g, want %g", have, want)
	}
	if have, want := s.SphericalAlbedo(band, &b), smoothTables.salb(band, 0, 1); have != want {
		t.Errorf("spherical albedo: have %g, want %g", have, want)
	}
}

func TestComposeInterior(t *testing.T) {
	s := newTestStore(t, smoothTables)
	const band = 4
	p := (testPressure[1] + testPressure[2]) / 2
	aot := math.Sqrt(testAOT[2] * testAOT[3])
	b, err := s.Locate(band, NewGeometry(30, 11, 90), Atmosphere{Pressure: p, AOT: aot, Angstrom: -1})
	if err != nil {
		t.Fatal(err)
	}
	if b.Pressure != 1 || b.AOTIndex != 2 {
		t.Fatalf("brackets: have pressure %d and AOT %d, want 1 and 2", b.Pressure, b.AOTIndex)
	}
	if different(b.PressureFrac, 0.5, 1e-12) || different(b.LogAOTFrac, 0.5, 1e-12) {
		t.Errorf("fractions: have pressure %g and log AOT %g, want 0.5", b.PressureFrac, b.LogAOTFrac)
	}

	r := smoothTables.refl
	want := 0.25 * (r(band, 1, 2, 0) + r(band, 1, 3, 0) + r(band, 2, 2, 0) + r(band, 2, 3, 0))
	if have := s.AtmosphericReflectance(band, &b); different(have, want, 1e-12) {
		t.Errorf("reflectance: have %g, want %g", have, want)
	}

	f := (aot - testAOT[2]) / (testAOT[3] - testAOT[2])
	tr := smoothTables.trans
	want = 0.5*((1-f)*tr(band, 1, 2, 0)+f*tr(band, 1, 3, 0)) + 0.5*((1-f)*tr(band, 2, 2, 0)+f*tr(band, 2, 3, 0))
	if have := s.SolarTransmission(band, &b); different(have, want, 1e-12) {
		t.Errorf("transmission: have %g, want %g", have, want)
	}
	sa := smoothTables.salb
	want = 0.5*((1-f)*sa(band, 1, 2)+f*sa(band, 1, 3)) + 0.5*((1-f)*sa(band, 2, 2)+f*sa(band, 2, 3))
	if have := s.SphericalAlbedo(band, &b); different(have, want, 1e-12) {
		t.Errorf("spherical albedo: have %g, want %g", have, want)
	}
}

// angleTables vary linearly along the sample and sun angle axes.
var angleTables = tableFuncs{
	refl:  func(band, ip, ia, k int) float64 { return 0.001 * float64(k) },
	trans: func(band, ip, ia, k int) float64 { return 1 - 0.01*float64(k) },
	salb:  smoothTables.salb,
}

func TestTransmissionAngle(t *testing.T) {
	tables := newTestTables(tableFuncs{
		refl:  smoothTables.refl,
		trans: func(band, ip, ia, k int) float64 { return 1 - 0.001*float64(k*k) },
		salb:  smoothTables.salb,
	})
	// The view grid does not line up with the solar grid.
	tables.ViewZenithMin, tables.ViewZenithStep = 2.8409, 6.52107
	s, err := NewStore(tables)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Locate(0, NewGeometry(30, 20, 90), Atmosphere{Pressure: 1013, AOT: 0.2, Angstrom: -1})
	if err != nil {
		t.Fatal(err)
	}
	// Angle axis entry k is at 4k degrees. The solar angle falls in entry
	// 7 of the solar grid; the view angle in entry 2 of the view grid,
	// extrapolated from 8 degrees.
	if have, want := s.SolarTransmission(0, &b), 0.9435; different(have, want, 1e-12) {
		t.Errorf("solar: have %g, want %g", have, want)
	}
	if have, want := s.ViewTransmission(0, &b), 0.981; different(have, want, 1e-12) {
		t.Errorf("view: have %g, want %g", have, want)
	}
}

func TestScatterCorners(t *testing.T) {
	g := NewGeometry(30, 11, 90)
	scaa := ScatteringAngle(g.CosSolarZenith, g.CosViewZenith, g.CosRelAzimuth)
	tests := []struct {
		name       string
		tsmax      float64
		wantIsca   int
		sca1, sca2 float64
	}{
		{name: "interior", tsmax: 152, wantIsca: 1, sca1: 152, sca2: 148},
		{name: "above range", tsmax: 140, wantIsca: 1, sca1: 140, sca2: 136},
		{name: "below range", tsmax: 180, wantIsca: 2, sca1: 176, sca2: 172},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tables := newTestTables(angleTables)
			for i := range tables.ScatterMax.Elements {
				tables.ScatterMax.Elements[i] = test.tsmax
				tables.ScatterMin.Elements[i] = test.tsmax - float64(testSamples-1)*scatterStep
			}
			s, err := NewStore(tables)
			if err != nil {
				t.Fatal(err)
			}
			b, err := s.Locate(0, g, Atmosphere{Pressure: 1013, AOT: 0.2, Angstrom: -1})
			if err != nil {
				t.Fatal(err)
			}
			if b.ScatteringAngle != scaa {
				t.Errorf("scattering angle: have %g, want %g", b.ScatteringAngle, scaa)
			}
			var want float64
			weights := [4]float64{b.viewWt * b.solarWt, b.viewWt * (1 - b.solarWt),
				(1 - b.viewWt) * b.solarWt, (1 - b.viewWt) * (1 - b.solarWt)}
			for i, c := range b.corners {
				is := b.Solar + i%2
				iv := b.View + i/2
				j := tables.SunAngleIndex[is] + int(tables.CumAzimuth.Get(iv, is)) -
					int(tables.NumAzimuth.Get(iv, is))
				if c.single {
					t.Fatalf("corner %d should not be a single sample", i)
				}
				if c.offset != j+test.wantIsca-1 {
					t.Errorf("corner %d: have offset %d, want %d", i, c.offset, j+test.wantIsca-1)
				}
				wantFrac := (scaa - test.sca1) / (test.sca2 - test.sca1)
				if different(c.frac, wantFrac, 1e-12) {
					t.Errorf("corner %d: have fraction %g, want %g", i, c.frac, wantFrac)
				}
				want += weights[i] * 0.001 * (float64(c.offset) + wantFrac)
			}
			if have := s.scatterReflectance(0, 1, 4, &b); different(have, want, 1e-9) {
				t.Errorf("reflectance: have %g, want %g", have, want)
			}
		})
	}
}

func TestScatterWeights(t *testing.T) {
	s := newTestStore(t, smoothTables)
	b, err := s.Locate(0, NewGeometry(30, 11, 90), Atmosphere{Pressure: 1013, AOT: 0.2, Angstrom: -1})
	if err != nil {
		t.Fatal(err)
	}
	if b.Solar != 7 || b.View != 3 {
		t.Fatalf("cells: have solar %d and view %d, want 7 and 3", b.Solar, b.View)
	}
	if b.solarWt != 0.5 {
		t.Errorf("solar weight: have %g, want 0.5", b.solarWt)
	}
	if b.viewWt != 0.75 {
		t.Errorf("view weight: have %g, want 0.75", b.viewWt)
	}
}

func TestScatterNadir(t *testing.T) {
	s := newTestStore(t, angleTables)
	b, err := s.Locate(0, NewGeometry(2, 1, 0), Atmosphere{Pressure: 1013, AOT: 0.2, Angstrom: -1})
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range b.corners {
		is := i % 2
		iv := i / 2
		if nadir := is == 0 || iv == 0; c.single != nadir {
			t.Errorf("corner %d: single = %v, want %v", i, c.single, nadir)
		}
	}
}

func TestScatteringAngle(t *testing.T) {
	if a := ScatteringAngle(1, 1, 1); different(a, 180, 1e-12) {
		t.Errorf("backscatter: have %g, want 180", a)
	}
	g := NewGeometry(40, 40, 180)
	if a := ScatteringAngle(g.CosSolarZenith, g.CosViewZenith, g.CosRelAzimuth); different(a, 180-80, 1e-9) {
		t.Errorf("principal plane: have %g, want 100", a)
	}
}
