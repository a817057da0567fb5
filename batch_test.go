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
	"context"
	"io/ioutil"
	"testing"

	"github.com/sirupsen/logrus"
)

func testPixels() []Pixel {
	var pixels []Pixel
	for i := 0; i < 500; i++ {
		sza := 10 + float64(i%80) // some beyond the tables
		pixels = append(pixels, Pixel{
			TOA:        0.05 + 0.0005*float64(i%300),
			Geometry:   NewGeometry(sza, float64(i%12), float64(i%180)),
			Atmosphere: Atmosphere{Pressure: 1013 - float64(i%200), AOT: 0.05 + 0.001*float64(i), Angstrom: 1.3, Ozone: 0.3, WaterVapor: 1.2},
		})
	}
	return pixels
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

func TestCorrect(t *testing.T) {
	s := newTestStore(t, smoothTables)
	pixels := testPixels()
	c := &Corrector{Store: s, NumProcessors: 3, Log: quietLogger()}
	results, skipped, err := c.Correct(context.Background(), 4, pixels)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(pixels) {
		t.Fatalf("have %d results, want %d", len(results), len(pixels))
	}
	var wantSkipped int
	for i, p := range pixels {
		want, err := s.Invert(4, p.TOA, p.Geometry, p.Atmosphere)
		if err != nil {
			wantSkipped++
			if results[i].Valid {
				t.Errorf("pixel %d should be invalid", i)
			}
			continue
		}
		want.Valid = true
		if results[i] != want {
			t.Errorf("pixel %d: have %+v, want %+v", i, results[i], want)
		}
	}
	if wantSkipped == 0 {
		t.Fatal("the test pixels should include some beyond the tables")
	}
	if skipped != wantSkipped {
		t.Errorf("skipped: have %d, want %d", skipped, wantSkipped)
	}
}

func TestCorrectFit(t *testing.T) {
	s := newTestStore(t, polyTables)
	pixels := testPixels()
	const band = 2
	coef, err := s.Fit(band, pixels[0].Geometry, pixels[0].Atmosphere)
	if err != nil {
		t.Fatal(err)
	}
	c := &Corrector{Store: s, Log: quietLogger()}
	results, skipped, err := c.CorrectFit(context.Background(), coef, pixels)
	if err != nil {
		t.Fatal(err)
	}
	var wantSkipped int
	for i, p := range pixels {
		if p.SolarZenith > s.SolarZenithMax() {
			wantSkipped++
			continue
		}
		tgo := s.GasTransmission(band, p.Geometry, p.Atmosphere).OzoneAndOther()
		want := coef.Invert(p.TOA, tgo, p.AOT, p.Angstrom)
		want.Valid = true
		if results[i] != want {
			t.Errorf("pixel %d: have %+v, want %+v", i, results[i], want)
		}
	}
	if skipped != wantSkipped {
		t.Errorf("skipped: have %d, want %d", skipped, wantSkipped)
	}
}

func TestCorrectCanceled(t *testing.T) {
	s := newTestStore(t, smoothTables)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Corrector{Store: s, NumProcessors: 2, Log: quietLogger()}
	if _, _, err := c.Correct(ctx, 0, testPixels()); err != context.Canceled {
		t.Errorf("have error %v, want %v", err, context.Canceled)
	}
}
