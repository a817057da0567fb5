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

func TestGasTransmissionDry(t *testing.T) {
	for band, c := range landsatGas {
		g := c.Transmission(0.8, 0.95, 0.3, 0, 1013)
		if g.WaterVapor != 1 || g.WaterVaporHalf != 1 {
			t.Errorf("band %d: water vapor transmission %g and %g should be exactly 1",
				band, g.WaterVapor, g.WaterVaporHalf)
		}
	}
}

func TestGasTransmissionWaterVaporThreshold(t *testing.T) {
	c := landsatGas[5]
	// The slant content m·uwv = 2e-6 is above the threshold, but half of it is not.
	g := c.Transmission(1, 1, 0, 1e-6, 1013)
	if g.WaterVaporHalf != 1 {
		t.Errorf("half: have %g, want 1", g.WaterVaporHalf)
	}
	want := math.Exp(-c.WaterVaporA * math.Pow(2e-6, c.WaterVaporB))
	if g.WaterVapor != want {
		t.Errorf("full: have %g, want %g", g.WaterVapor, want)
	}
}

func TestGasTransmission(t *testing.T) {
	c := landsatGas[3]
	mus, muv := math.Cos(35*math.Pi/180), math.Cos(5*math.Pi/180)
	const ozone, wv, p = 0.28, 2.1, 950
	g := c.Transmission(mus, muv, ozone, wv, p)
	m := 1/mus + 1/muv

	pr := p / 1013.
	want := GasTransmission{
		Ozone:          math.Exp(c.OzoneA * m * ozone),
		WaterVapor:     math.Exp(-c.WaterVaporA * math.Pow(m*wv, c.WaterVaporB)),
		WaterVaporHalf: math.Exp(-c.WaterVaporA * math.Pow(m*wv/2, c.WaterVaporB)),
		Other:          math.Exp(-(c.OtherA1 * pr) * math.Pow(m, math.Exp(-(c.OtherB0+c.OtherB1*pr)))),
	}
	for _, v := range []struct {
		name       string
		have, want float64
	}{
		{"ozone", g.Ozone, want.Ozone},
		{"water vapor", g.WaterVapor, want.WaterVapor},
		{"water vapor half", g.WaterVaporHalf, want.WaterVaporHalf},
		{"other", g.Other, want.Other},
		{"ozone and other", g.OzoneAndOther(), want.Ozone * want.Other},
	} {
		if different(v.have, v.want, 1e-12) {
			t.Errorf("%s: have %g, want %g", v.name, v.have, v.want)
		}
		if v.have <= 0 || v.have > 1 {
			t.Errorf("%s: %g is not a transmission", v.name, v.have)
		}
	}
	if g.WaterVaporHalf < g.WaterVapor {
		t.Errorf("half column transmission %g < full column %g", g.WaterVaporHalf, g.WaterVapor)
	}
}

func TestDefaultGasCoefficients(t *testing.T) {
	c, err := DefaultGasCoefficients(Landsat)
	if err != nil {
		t.Fatal(err)
	}
	if len(c) != Landsat.NumBands() {
		t.Fatalf("have %d bands, want %d", len(c), Landsat.NumBands())
	}
	c[0].Tauray = 100
	if landsatGas[0].Tauray == 100 {
		t.Error("defaults were modified through the returned copy")
	}
	if _, err := DefaultGasCoefficients(Sentinel2); err == nil {
		t.Error("expected an error for Sentinel-2")
	}
}

func TestDefaultGasTransmissionRange(t *testing.T) {
	gas, err := DefaultGasCoefficients(Landsat)
	if err != nil {
		t.Fatal(err)
	}
	// Bands 5-7 have a tiny positive ozone coefficient, so their ozone
	// transmission sits just above 1.
	const max = 1 + 1e-4
	for band, c := range gas {
		g := c.Transmission(1, 1, 0.3, 0, 1013)
		for _, v := range []struct {
			name string
			val  float64
		}{
			{"ozone", g.Ozone},
			{"water vapor", g.WaterVapor},
			{"half water vapor", g.WaterVaporHalf},
			{"other gases", g.Other},
		} {
			if !(v.val > 0.9 && v.val <= max) {
				t.Errorf("band %d: %s transmission %g out of range", band+1, v.name, v.val)
			}
		}
	}
}
