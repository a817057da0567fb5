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

// sunAngleBracket locates an angle on the angle axis of the transmission
// table.
type sunAngleBracket struct {
	index int
	frac  float64
}

// sunAngle locates angle [degrees] on the angle axis of the transmission
// table, which is shared by the solar and view directions. The index is
// found on the angle's own zenith grid, with origin min and spacing step;
// the fraction is taken against the sun angle axis.
func (s *Store) sunAngle(angle, min, step float64) sunAngleBracket {
	i := 0
	if angle > min {
		i = int((angle - min) / step)
	}
	if i > s.nSun-2 {
		i = s.nSun - 2
	}
	return sunAngleBracket{index: i, frac: (angle - s.t.SunAngle[i]) / sunAngleStep}
}

// AtmosphericReflectance returns the intrinsic atmospheric reflectance of
// band at the location b: the scattering angle interpolation at each
// bracketing pressure and AOT level, blended in log(AOT) and then linearly
// in pressure.
func (s *Store) AtmosphericReflectance(band int, b *Brackets) float64 {
	ip, ia := b.Pressure, b.AOTIndex
	var rop [2]float64
	for k := range rop {
		ro1 := s.scatterReflectance(band, ip+k, ia, b)
		ro2 := s.scatterReflectance(band, ip+k, ia+1, b)
		rop[k] = lerp(ro1, ro2, b.LogAOTFrac)
	}
	return lerp(rop[0], rop[1], b.PressureFrac)
}

// SolarTransmission returns the downward transmission of band at b.
func (s *Store) SolarTransmission(band int, b *Brackets) float64 {
	return s.transmissionAt(band, b, b.solarSun)
}

// ViewTransmission returns the upward transmission of band at b.
func (s *Store) ViewTransmission(band int, b *Brackets) float64 {
	return s.transmissionAt(band, b, b.viewSun)
}

func (s *Store) transmissionAt(band int, b *Brackets, sun sunAngleBracket) float64 {
	ip, ia := b.Pressure, b.AOTIndex
	var tp [2]float64
	for k := range tp {
		var ta [2]float64
		for l := range ta {
			t1 := s.transmission(band, ip+k, ia+l, sun.index)
			t2 := s.transmission(band, ip+k, ia+l, sun.index+1)
			ta[l] = t1 + (t2-t1)*sun.frac
		}
		tp[k] = lerp(ta[0], ta[1], b.AOTFrac)
	}
	return lerp(tp[0], tp[1], b.PressureFrac)
}

// SphericalAlbedo returns the spherical albedo of the atmosphere in band
// at b.
func (s *Store) SphericalAlbedo(band int, b *Brackets) float64 {
	ip, ia := b.Pressure, b.AOTIndex
	a := s.t.SphericalAlbedo
	sp1 := lerp(s.cube(a, band, ip, ia), s.cube(a, band, ip, ia+1), b.AOTFrac)
	sp2 := lerp(s.cube(a, band, ip+1, ia), s.cube(a, band, ip+1, ia+1), b.AOTFrac)
	return lerp(sp1, sp2, b.PressureFrac)
}
