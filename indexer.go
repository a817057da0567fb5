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

import "math"

// Geometry is the sun/sensor geometry of one observation.
type Geometry struct {
	// SolarZenith and ViewZenith are zenith angles [degrees].
	SolarZenith, ViewZenith float64

	// CosSolarZenith and CosViewZenith are their cosines.
	CosSolarZenith, CosViewZenith float64

	// RelAzimuth is the relative azimuth [degrees] between the sun and
	// the sensor, and CosRelAzimuth its cosine.
	RelAzimuth, CosRelAzimuth float64
}

// NewGeometry returns the geometry for the given solar zenith, view zenith
// and relative azimuth angles [degrees].
func NewGeometry(solarZenith, viewZenith, relAzimuth float64) Geometry {
	const deg2rad = math.Pi / 180
	return Geometry{
		SolarZenith:    solarZenith,
		ViewZenith:     viewZenith,
		CosSolarZenith: math.Cos(solarZenith * deg2rad),
		CosViewZenith:  math.Cos(viewZenith * deg2rad),
		RelAzimuth:     relAzimuth,
		CosRelAzimuth:  math.Cos(relAzimuth * deg2rad),
	}
}

// Atmosphere holds the state of the atmosphere above one pixel.
type Atmosphere struct {
	// Pressure is the surface pressure [mb].
	Pressure float64

	// AOT is the aerosol optical thickness at 550 nm.
	AOT float64

	// Angstrom is the Angstrom exponent used to rescale AOT to the band
	// wavelength. A negative value disables rescaling.
	Angstrom float64

	// MaxAOT is the upper bound of the rescaled AOT. Zero or a negative
	// value disables the bound.
	MaxAOT float64

	// Ozone is the total column ozone [cm-atm] and WaterVapor the total
	// column water vapor [g/cm2].
	Ozone, WaterVapor float64
}

// Brackets locates one observation in the lookup tables: a pair of
// bracketing indices and an interpolation fraction for each dimension.
type Brackets struct {
	// Pressure is the lower index of the pressure bracket and
	// PressureFrac the fraction of the way to the next level.
	Pressure     int
	PressureFrac float64

	// AOT is the rescaled, bounded AOT and AOTIndex the lower index of its
	// bracket. AOTFrac and LogAOTFrac are the fractions of the way to the
	// next level in linear and logarithmic AOT.
	AOT                 float64
	AOTIndex            int
	AOTFrac, LogAOTFrac float64

	// Solar and View are the solar and view zenith cell indices.
	Solar, View int

	// ScatteringAngle [degrees] of the observation.
	ScatteringAngle float64

	corners           [4]scatterCorner
	solarWt, viewWt   float64
	solarSun, viewSun sunAngleBracket
}

// pressureBracket returns the lower index of the pressure levels
// bracketing p. Levels are in descending order.
func pressureBracket(levels []float64, p float64) int {
	i := 0
	for ip := 0; ip < len(levels)-1; ip++ {
		if p < levels[ip] {
			i = ip
		}
	}
	return i
}

// aotBracket returns the lower index of the AOT levels bracketing aot.
func aotBracket(levels []float64, aot float64) int {
	i := 0
	for ia := 0; ia < len(levels)-1; ia++ {
		if aot > levels[ia] {
			i = ia
		}
	}
	return i
}

// solarIndex returns the solar zenith cell holding angle.
func (s *Store) solarIndex(angle float64) (int, error) {
	if angle <= s.t.SolarZenithMin {
		return 0, nil
	}
	i := int((angle - s.t.SolarZenithMin) / s.t.SolarZenithStep)
	last := s.nSolar - 2
	if i > last {
		if angle == s.SolarZenithMax() {
			return last, nil
		}
		return 0, &RangeError{SolarZenith: angle, Max: s.SolarZenithMax()}
	}
	return i, nil
}

// viewIndex returns the view zenith cell holding angle. The first cell
// spans nadir to ViewZenithMin. Angles beyond the grid use the last cell.
func (s *Store) viewIndex(angle float64) int {
	if angle <= s.t.ViewZenithMin {
		return 0
	}
	i := int((angle-s.t.ViewZenithMin)/s.t.ViewZenithStep + 1)
	if i > s.nView-2 {
		i = s.nView - 2
	}
	return i
}

// AdjustedAOT returns the AOT of a for band: rescaled from 550 nm to the
// band wavelength and limited to a.MaxAOT.
func (s *Store) AdjustedAOT(band int, a Atmosphere) float64 {
	aot := s.t.Sensor.AdjustAOT(band, a.AOT, s.cube(s.t.NormExt, band, 0, extinctionAOTIndex), a.Angstrom)
	if a.MaxAOT > 0 && aot >= a.MaxAOT {
		aot = a.MaxAOT
	}
	return aot
}

// Locate finds the table brackets of an observation in band. It returns a
// *RangeError if the solar zenith angle is beyond the tables. The view
// zenith angle is not checked; angles beyond the tables are extrapolated
// from the last cell.
func (s *Store) Locate(band int, g Geometry, a Atmosphere) (Brackets, error) {
	var b Brackets
	var err error
	if b.Solar, err = s.solarIndex(g.SolarZenith); err != nil {
		return b, err
	}
	b.View = s.viewIndex(g.ViewZenith)

	b.Pressure = pressureBracket(s.t.Pressure, a.Pressure)
	p1, p2 := s.t.Pressure[b.Pressure], s.t.Pressure[b.Pressure+1]
	b.PressureFrac = (a.Pressure - p1) / (p2 - p1)

	b.AOT = s.AdjustedAOT(band, a)
	b.AOTIndex = aotBracket(s.t.AOT, b.AOT)
	a1, a2 := s.t.AOT[b.AOTIndex], s.t.AOT[b.AOTIndex+1]
	b.AOTFrac = (b.AOT - a1) / (a2 - a1)
	l1, l2 := s.logAOT[b.AOTIndex], s.logAOT[b.AOTIndex+1]
	b.LogAOTFrac = (math.Log(b.AOT) - l1) / (l2 - l1)

	b.ScatteringAngle = ScatteringAngle(g.CosSolarZenith, g.CosViewZenith, g.CosRelAzimuth)
	s.setCorners(&b, g)
	b.solarSun = s.sunAngle(g.SolarZenith, s.t.SolarZenithMin, s.t.SolarZenithStep)
	b.viewSun = s.sunAngle(g.ViewZenith, s.t.ViewZenithMin, s.t.ViewZenithStep)
	return b, nil
}

// lerp interpolates linearly from lo to hi. It returns lo and hi exactly
// for f = 0 and f = 1, and lo exactly when lo == hi.
func lerp(lo, hi, f float64) float64 {
	if f == 1 {
		return hi
	}
	return lo + (hi-lo)*f
}
