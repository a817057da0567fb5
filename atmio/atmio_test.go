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
	"os"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/atmcorr"
)

var (
	testPressure = []float64{1013, 700}
	testAOT      = []float64{0.01, 0.1, 0.5, 1, 2}
	testSunAngle = []float64{0, 4, 8, 12}
)

const testNumView, testNumSolar = 3, 3

// testTables returns small but complete Landsat tables.
func testTables() *atmcorr.Tables {
	t := &atmcorr.Tables{
		Sensor:          atmcorr.Landsat,
		Pressure:        append([]float64{}, testPressure...),
		AOT:             append([]float64{}, testAOT...),
		SolarZenithStep: 4,
		ViewZenithMin:   2,
		ViewZenithStep:  4,
		SunAngle:        append([]float64{}, testSunAngle...),
		ScatterMax:      sparse.ZerosDense(testNumView, testNumSolar),
		ScatterMin:      sparse.ZerosDense(testNumView, testNumSolar),
		ViewAngle:       sparse.ZerosDense(testNumView, testNumSolar),
		NumAzimuth:      sparse.ZerosDense(testNumView, testNumSolar),
		CumAzimuth:      sparse.ZerosDense(testNumView, testNumSolar),
	}
	t.Gas, _ = atmcorr.DefaultGasCoefficients(atmcorr.Landsat)
	t.SunAngleIndex = make([]int, len(testSunAngle))
	var nSample int
	for is := 0; is < testNumSolar; is++ {
		t.SunAngleIndex[is] = nSample
		var cum int
		for iv := 0; iv < testNumView; iv++ {
			n := 1
			if is > 0 && iv > 0 {
				n = 2
			}
			cum += n
			t.NumAzimuth.Set(float64(n), iv, is)
			t.CumAzimuth.Set(float64(cum), iv, is)
			t.ScatterMax.Set(180, iv, is)
			t.ScatterMin.Set(176, iv, is)
			if iv > 0 {
				t.ViewAngle.Set(2+float64(iv-1)*4, iv, is)
			}
		}
		nSample += cum
	}
	t.SunAngleIndex[len(testSunAngle)-1] = nSample

	nBand, nP, nA := atmcorr.Landsat.NumBands(), len(testPressure), len(testAOT)
	t.Reflectance = sparse.ZerosDense(nBand, nP, nA, nSample)
	t.Transmission = sparse.ZerosDense(nBand, nP, nA, len(testSunAngle))
	t.SphericalAlbedo = sparse.ZerosDense(nBand, nP, nA)
	t.NormExt = sparse.ZerosDense(nBand, nP, nA)
	for i := range t.Reflectance.Elements {
		t.Reflectance.Elements[i] = 0.01 + 0.0001*float64(i%997)
	}
	for i := range t.Transmission.Elements {
		t.Transmission.Elements[i] = 0.9 - 0.001*float64(i%113)
	}
	for i := range t.SphericalAlbedo.Elements {
		t.SphericalAlbedo.Elements[i] = 0.1 + 0.002*float64(i)
		t.NormExt.Elements[i] = 1
	}
	return t
}

func testStore(t *testing.T) *atmcorr.Store {
	s, err := atmcorr.NewStore(testTables())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// writeTestStore writes the test tables to a file that is removed when
// the test finishes.
func writeTestStore(t *testing.T, name string) {
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err = WriteStore(f, testStore(t)); err != nil {
		t.Fatal(err)
	}
}
